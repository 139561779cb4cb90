// Package storage provides Environment implementations: a cometbft-db
// backed world state for embedders and an in-memory variant with failure
// injection for tests.
package storage

import (
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/holiman/uint256"

	"github.com/xzairdrop/parity/types"
)

// Key prefixes for the backing database.
var (
	storagePrefix = []byte("s/")
	balancePrefix = []byte("b/")
)

// LogEntry is one event recorded by an executing contract.
type LogEntry struct {
	Topics []types.Hash
	Data   []byte
}

// State is a database-backed Environment scoped to one executing account.
// Storage cells and balances persist in the database; logs and the destroyed
// flag accumulate in memory, receipt-style, and belong to the current
// transaction.
type State struct {
	db       dbm.DB
	addr     types.Address
	schedule *types.Schedule

	logs      []LogEntry
	destroyed bool
}

var _ types.Environment = (*State)(nil)

// NewState creates a state view over db for the given account. A nil
// schedule selects the defaults.
func NewState(db dbm.DB, addr types.Address, schedule *types.Schedule) *State {
	if schedule == nil {
		schedule = types.DefaultSchedule()
	}
	return &State{
		db:       db,
		addr:     addr,
		schedule: schedule,
	}
}

func (s *State) storageKey(key types.Hash) []byte {
	k := make([]byte, 0, len(storagePrefix)+types.AddressLength+types.HashLength)
	k = append(k, storagePrefix...)
	k = append(k, s.addr.Bytes()...)
	return append(k, key.Bytes()...)
}

func (s *State) balanceKey(addr types.Address) []byte {
	k := make([]byte, 0, len(balancePrefix)+types.AddressLength)
	k = append(k, balancePrefix...)
	return append(k, addr.Bytes()...)
}

// StorageAt returns the storage cell for key; missing cells read as zero.
func (s *State) StorageAt(key types.Hash) (types.Hash, error) {
	raw, err := s.db.Get(s.storageKey(key))
	if err != nil {
		return types.Hash{}, fmt.Errorf("storage get: %w", err)
	}
	if raw == nil {
		return types.Hash{}, nil
	}
	return types.BytesToHash(raw), nil
}

// SetStorage updates the storage cell for key.
func (s *State) SetStorage(key, value types.Hash) error {
	if err := s.db.Set(s.storageKey(key), value.Bytes()); err != nil {
		return fmt.Errorf("storage set: %w", err)
	}
	return nil
}

// Balance returns the native-currency balance of addr; absent accounts read
// as zero.
func (s *State) Balance(addr types.Address) (*uint256.Int, error) {
	raw, err := s.db.Get(s.balanceKey(addr))
	if err != nil {
		return nil, fmt.Errorf("balance get: %w", err)
	}
	return new(uint256.Int).SetBytes(raw), nil
}

// SetBalance overwrites the balance of addr.
func (s *State) SetBalance(addr types.Address, amount *uint256.Int) error {
	b32 := amount.Bytes32()
	if err := s.db.Set(s.balanceKey(addr), b32[:]); err != nil {
		return fmt.Errorf("balance set: %w", err)
	}
	return nil
}

// Suicide marks the executing account destroyed and credits its balance to
// refund.
func (s *State) Suicide(refund types.Address) error {
	own, err := s.Balance(s.addr)
	if err != nil {
		return err
	}
	if !own.IsZero() && refund != s.addr {
		current, err := s.Balance(refund)
		if err != nil {
			return err
		}
		if err := s.SetBalance(refund, new(uint256.Int).Add(current, own)); err != nil {
			return err
		}
	}
	if err := s.SetBalance(s.addr, uint256.NewInt(0)); err != nil {
		return err
	}
	s.destroyed = true
	return nil
}

// Log records an event for the current transaction.
func (s *State) Log(topics []types.Hash, data []byte) error {
	s.logs = append(s.logs, LogEntry{
		Topics: append([]types.Hash(nil), topics...),
		Data:   append([]byte(nil), data...),
	})
	return nil
}

// Schedule returns the active fee schedule.
func (s *State) Schedule() *types.Schedule {
	return s.schedule
}

// Logs returns the events recorded so far.
func (s *State) Logs() []LogEntry {
	return s.logs
}

// Destroyed reports whether the executing account self-destructed.
func (s *State) Destroyed() bool {
	return s.destroyed
}
