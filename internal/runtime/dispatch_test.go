package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzairdrop/parity/storage"
	"github.com/xzairdrop/parity/types"
)

func TestInvoke_RoutesToOperations(t *testing.T) {
	mem := newFakeMemory(64)
	copy(mem.data, "ping")
	r := newTestRuntime(storage.NewMemEnv(), mem, 1000, []byte("in"))

	results, err := r.Invoke(RetFunc, []uint64{0, 4})
	require.NoError(t, err)
	assert.Empty(t, results, "void operations report success as an empty result")
	assert.Equal(t, []byte("ping"), r.Result())

	results, err = r.Invoke(InputLengthFunc, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(2), results[0])
}

func TestInvoke_ArityMismatch(t *testing.T) {
	type testCase struct {
		name  string
		index uint32
		args  []uint64
	}

	tests := []testCase{
		{name: "storage_read missing arg", index: StorageReadFunc, args: []uint64{0}},
		{name: "ret extra arg", index: RetFunc, args: []uint64{0, 4, 9}},
		{name: "gas no args", index: GasFunc, args: nil},
		{name: "input_length with args", index: InputLengthFunc, args: []uint64{1}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRuntime(storage.NewMemEnv(), newFakeMemory(64), 1000, nil)
			_, err := r.Invoke(tc.index, tc.args)
			require.Error(t, err)
			assert.True(t, types.IsTrap(err, types.InvalidSyscall))
		})
	}
}

func TestInvoke_UnknownIndexIsFatal(t *testing.T) {
	r := newTestRuntime(storage.NewMemEnv(), newFakeMemory(64), 1000, nil)
	// An unregistered index means the host and interpreter disagree on the
	// import table: fail fast, never a recoverable trap.
	require.Panics(t, func() {
		_, _ = r.Invoke(99, nil)
	})
}
