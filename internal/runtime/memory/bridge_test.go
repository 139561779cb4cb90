package memory

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	"github.com/xzairdrop/parity/types"
)

// fakeMemory implements the subset of api.Memory the bridge touches over a
// plain byte slice. The embedded interface covers the rest of the surface.
type fakeMemory struct {
	api.Memory
	data []byte
}

func newFakeMemory(size uint32) *fakeMemory {
	return &fakeMemory{data: make([]byte, size)}
}

func (m *fakeMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *fakeMemory) Read(offset, count uint32) ([]byte, bool) {
	if uint64(offset)+uint64(count) > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[offset : offset+count], true
}

func (m *fakeMemory) Write(offset uint32, v []byte) bool {
	if uint64(offset)+uint64(len(v)) > uint64(len(m.data)) {
		return false
	}
	copy(m.data[offset:], v)
	return true
}

func (m *fakeMemory) ReadUint32Le(offset uint32) (uint32, bool) {
	buf, ok := m.Read(offset, 4)
	if !ok {
		return 0, false
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, true
}

func (m *fakeMemory) WriteUint32Le(offset, v uint32) bool {
	return m.Write(offset, []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func TestReadHash(t *testing.T) {
	mem := newFakeMemory(128)
	want := bytes.Repeat([]byte{0x42}, types.HashLength)
	copy(mem.data[32:], want)

	b := New(mem)
	h, err := b.ReadHash(32)
	require.NoError(t, err)
	assert.Equal(t, want, h.Bytes())
}

func TestBoundsViolations_TableDriven(t *testing.T) {
	type testCase struct {
		name string
		op   func(b *Bridge) error
	}

	tests := []testCase{
		{
			name: "hash read past the end",
			op: func(b *Bridge) error {
				_, err := b.ReadHash(128 - types.HashLength + 1)
				return err
			},
		},
		{
			name: "raw read past the end",
			op: func(b *Bridge) error {
				_, err := b.ReadBytes(120, 9)
				return err
			},
		},
		{
			name: "raw read with huge length does not wrap",
			op: func(b *Bridge) error {
				_, err := b.ReadBytes(1, ^uint32(0))
				return err
			},
		},
		{
			name: "write past the end",
			op: func(b *Bridge) error {
				return b.WriteBytes(127, []byte{1, 2})
			},
		},
		{
			name: "uint32 read past the end",
			op: func(b *Bridge) error {
				_, err := b.ReadUint32(126)
				return err
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			mem := newFakeMemory(128)
			before := append([]byte(nil), mem.data...)

			err := tc.op(New(mem))
			require.Error(t, err)
			assert.True(t, types.IsTrap(err, types.MemoryAccessViolation))
			assert.Equal(t, before, mem.data, "failed access must not touch adjacent memory")
		})
	}
}

func TestBoundaryAccessSucceeds(t *testing.T) {
	mem := newFakeMemory(64)
	b := New(mem)

	require.NoError(t, b.WriteBytes(32, bytes.Repeat([]byte{0x7}, 32)))
	got, err := b.ReadBytes(32, 32)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x7}, 32), got)
}

func TestReadBytesIsSnapshot(t *testing.T) {
	mem := newFakeMemory(16)
	copy(mem.data, "original")
	b := New(mem)

	got, err := b.ReadBytes(0, 8)
	require.NoError(t, err)
	copy(mem.data, "mutated!")
	assert.Equal(t, []byte("original"), got)
}

func TestUint32RoundTrip(t *testing.T) {
	mem := newFakeMemory(8)
	b := New(mem)

	require.NoError(t, b.WriteUint32(4, 0xdeadbeef))
	v, err := b.ReadUint32(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v)
	// Little-endian layout on the wire.
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, mem.data[4:8])
}
