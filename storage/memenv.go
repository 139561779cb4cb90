package storage

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/xzairdrop/parity/types"
)

// errInjected is returned by MemEnv when a failure toggle is set.
var errInjected = errors.New("injected environment failure")

// MemEnv is a map-backed Environment with per-operation failure toggles.
// Tests flip a toggle to drive the matching trap path without a real
// database.
type MemEnv struct {
	Store    map[types.Hash]types.Hash
	Balances map[types.Address]*uint256.Int
	Events   []LogEntry
	Sched    *types.Schedule

	Destroyed bool
	Refund    types.Address

	FailStorageReads  bool
	FailStorageWrites bool
	FailBalance       bool
	FailSuicide       bool
	FailLog           bool
}

var _ types.Environment = (*MemEnv)(nil)

// NewMemEnv creates an empty in-memory environment with the default
// schedule.
func NewMemEnv() *MemEnv {
	return &MemEnv{
		Store:    make(map[types.Hash]types.Hash),
		Balances: make(map[types.Address]*uint256.Int),
		Sched:    types.DefaultSchedule(),
	}
}

func (e *MemEnv) StorageAt(key types.Hash) (types.Hash, error) {
	if e.FailStorageReads {
		return types.Hash{}, errInjected
	}
	return e.Store[key], nil
}

func (e *MemEnv) SetStorage(key, value types.Hash) error {
	if e.FailStorageWrites {
		return errInjected
	}
	e.Store[key] = value
	return nil
}

func (e *MemEnv) Balance(addr types.Address) (*uint256.Int, error) {
	if e.FailBalance {
		return nil, errInjected
	}
	if b, ok := e.Balances[addr]; ok {
		return b, nil
	}
	return uint256.NewInt(0), nil
}

func (e *MemEnv) Suicide(refund types.Address) error {
	if e.FailSuicide {
		return errInjected
	}
	e.Destroyed = true
	e.Refund = refund
	return nil
}

func (e *MemEnv) Log(topics []types.Hash, data []byte) error {
	if e.FailLog {
		return errInjected
	}
	e.Events = append(e.Events, LogEntry{
		Topics: append([]types.Hash(nil), topics...),
		Data:   append([]byte(nil), data...),
	})
	return nil
}

func (e *MemEnv) Schedule() *types.Schedule {
	return e.Sched
}
