// Package gas meters computational work against a fixed ceiling.
package gas

import (
	"github.com/xzairdrop/parity/types"
)

// Meter tracks gas consumption during contract execution. Consumption is
// monotonic: it never decreases, and after every successful charge
// consumed <= limit holds.
type Meter struct {
	limit    uint64
	consumed uint64
}

// NewMeter creates a new gas meter with the specified ceiling.
func NewMeter(limit uint64) *Meter {
	return &Meter{
		limit:    limit,
		consumed: 0,
	}
}

// ChargeGas attempts to add amount to the consumed counter. It succeeds iff
// consumed+amount <= limit; arithmetic overflow counts as exceeding the
// ceiling. On failure the meter is left unchanged.
func (m *Meter) ChargeGas(amount uint64) bool {
	if m.consumed > m.limit || amount > m.limit-m.consumed {
		return false
	}
	m.consumed += amount
	return true
}

// Charge prices an operation against the fee schedule and charges the
// result. The pricing function always runs, even when the charge that
// follows fails: costs are computed first, checked second.
func (m *Meter) Charge(schedule *types.Schedule, price func(*types.Schedule) uint64) error {
	amount := price(schedule)
	if !m.ChargeGas(amount) {
		return types.Trap(types.GasLimit)
	}
	return nil
}

// GasLeft returns the gas remaining under the ceiling. A consumed counter
// above the ceiling means the meter's own bookkeeping broke; that is
// reported as InvalidGasState rather than silently clamped.
func (m *Meter) GasLeft() (uint64, error) {
	if m.consumed > m.limit {
		return 0, types.Trap(types.InvalidGasState)
	}
	return m.limit - m.consumed, nil
}

// Consumed returns the total gas consumed so far.
func (m *Meter) Consumed() uint64 {
	return m.consumed
}

// Limit returns the gas ceiling.
func (m *Meter) Limit() uint64 {
	return m.limit
}
