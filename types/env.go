package types

import "github.com/holiman/uint256"

//---------- CallContext ---------

// CallContext carries the immutable identity data for one contract
// invocation. It is set once when the runtime is constructed and never
// mutated afterwards.
type CallContext struct {
	// Address is the account being executed (the callee).
	Address Address
	// Sender is the immediate caller of this invocation.
	Sender Address
	// Origin is the outermost transaction initiator.
	Origin Address
	// CodeAddress is the account whose code is running. Differs from
	// Address under delegate-call semantics.
	CodeAddress Address
	// Value is the amount of native currency transferred with the call.
	Value *uint256.Int
}

//---------- Environment ---------

// Environment is the world-state provider a runtime executes against. The
// runtime holds exclusive access to it for the duration of one invocation;
// callers must not share the same view with a concurrently running runtime.
type Environment interface {
	// StorageAt returns the 32-byte storage cell for the given key.
	// Missing cells read as the zero hash.
	StorageAt(key Hash) (Hash, error)
	// SetStorage updates the storage cell for the given key.
	SetStorage(key, value Hash) error
	// Balance returns the native-currency balance of an account.
	Balance(addr Address) (*uint256.Int, error)
	// Suicide marks the executing account for destruction, crediting its
	// remaining balance to refund.
	Suicide(refund Address) error
	// Log records an event with up to four 32-byte topics.
	Log(topics []Hash, data []byte) error
	// Schedule returns the active fee schedule.
	Schedule() *Schedule
}

//---------- Schedule ---------

// Schedule is the protocol fee schedule: named per-operation gas prices.
// Two independent hosts must charge identical gas for identical execution,
// so these values are consensus-critical.
type Schedule struct {
	// SloadGas prices one storage read.
	SloadGas uint64
	// SstoreGas prices one storage write.
	SstoreGas uint64
	// BalanceGas prices one balance query.
	BalanceGas uint64
	// SuicideGas prices account destruction.
	SuicideGas uint64
	// LogGas is the flat price of one log operation.
	LogGas uint64
	// LogTopicGas prices each log topic.
	LogTopicGas uint64
	// LogDataGas prices each byte of log data.
	LogDataGas uint64
	// CopyGas prices each byte copied between host and linear memory.
	CopyGas uint64
}

// DefaultSchedule returns the frontier-style default prices.
func DefaultSchedule() *Schedule {
	return &Schedule{
		SloadGas:    200,
		SstoreGas:   5000,
		BalanceGas:  400,
		SuicideGas:  5000,
		LogGas:      375,
		LogTopicGas: 375,
		LogDataGas:  8,
		CopyGas:     3,
	}
}
