package storage

import (
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzairdrop/parity/types"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	return NewState(dbm.NewMemDB(), types.BytesToAddress([]byte{0x01}), nil)
}

func TestStorageRoundTrip(t *testing.T) {
	s := newTestState(t)
	key := types.BytesToHash([]byte("slot"))
	val := types.BytesToHash([]byte("value"))

	// Missing cells read as zero.
	got, err := s.StorageAt(key)
	require.NoError(t, err)
	assert.Equal(t, types.Hash{}, got)

	require.NoError(t, s.SetStorage(key, val))
	got, err = s.StorageAt(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
}

func TestStorageIsScopedPerAccount(t *testing.T) {
	db := dbm.NewMemDB()
	key := types.BytesToHash([]byte("slot"))
	a := NewState(db, types.BytesToAddress([]byte{0xaa}), nil)
	b := NewState(db, types.BytesToAddress([]byte{0xbb}), nil)

	require.NoError(t, a.SetStorage(key, types.BytesToHash([]byte("A"))))
	got, err := b.StorageAt(key)
	require.NoError(t, err)
	assert.Equal(t, types.Hash{}, got, "accounts must not share storage cells")
}

func TestBalances(t *testing.T) {
	s := newTestState(t)
	addr := types.BytesToAddress([]byte{0x02})

	// Absent accounts read as zero.
	b, err := s.Balance(addr)
	require.NoError(t, err)
	assert.True(t, b.IsZero())

	require.NoError(t, s.SetBalance(addr, uint256.NewInt(7777)))
	b, err = s.Balance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(7777), b)
}

func TestSuicideTransfersBalance(t *testing.T) {
	db := dbm.NewMemDB()
	self := types.BytesToAddress([]byte{0x01})
	refund := types.BytesToAddress([]byte{0x02})
	s := NewState(db, self, nil)
	require.NoError(t, s.SetBalance(self, uint256.NewInt(100)))
	require.NoError(t, s.SetBalance(refund, uint256.NewInt(11)))

	require.NoError(t, s.Suicide(refund))
	assert.True(t, s.Destroyed())

	got, err := s.Balance(refund)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(111), got)

	own, err := s.Balance(self)
	require.NoError(t, err)
	assert.True(t, own.IsZero())
}

func TestSuicideToSelfBurns(t *testing.T) {
	s := newTestState(t)
	self := types.BytesToAddress([]byte{0x01})
	require.NoError(t, s.SetBalance(self, uint256.NewInt(50)))

	require.NoError(t, s.Suicide(self))
	own, err := s.Balance(self)
	require.NoError(t, err)
	assert.True(t, own.IsZero())
}

func TestLogsAccumulate(t *testing.T) {
	s := newTestState(t)
	topic := types.BytesToHash([]byte("t"))

	require.NoError(t, s.Log([]types.Hash{topic}, []byte("one")))
	require.NoError(t, s.Log(nil, []byte("two")))

	logs := s.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, []types.Hash{topic}, logs[0].Topics)
	assert.Equal(t, []byte("two"), logs[1].Data)
}

func TestScheduleDefaults(t *testing.T) {
	s := newTestState(t)
	require.NotNil(t, s.Schedule())
	assert.Equal(t, uint64(200), s.Schedule().SloadGas)

	custom := &types.Schedule{SloadGas: 1}
	s2 := NewState(dbm.NewMemDB(), types.Address{}, custom)
	assert.Equal(t, uint64(1), s2.Schedule().SloadGas)
}
