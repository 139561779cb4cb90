// Package memory bridges host operations and the interpreter's linear
// memory. Pointer values originate from untrusted bytecode, so every access
// goes through the bounds checks here; host code never dereferences a guest
// pointer any other way.
package memory

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/xzairdrop/parity/types"
)

// Bridge wraps a wazero linear memory with bounds-checked, copying
// accessors. The memory is owned by the interpreter; the bridge borrows it
// for the duration of one call.
type Bridge struct {
	mem api.Memory
}

// New creates a bridge over the given linear memory.
func New(mem api.Memory) *Bridge {
	return &Bridge{mem: mem}
}

// ReadHash reads exactly 32 bytes at ptr into a fixed-size hash.
func (b *Bridge) ReadHash(ptr uint32) (types.Hash, error) {
	buf, err := b.ReadBytes(ptr, types.HashLength)
	if err != nil {
		return types.Hash{}, err
	}
	return types.BytesToHash(buf), nil
}

// ReadAddress reads exactly 20 bytes at ptr into an account address.
func (b *Bridge) ReadAddress(ptr uint32) (types.Address, error) {
	buf, err := b.ReadBytes(ptr, types.AddressLength)
	if err != nil {
		return types.Address{}, err
	}
	return types.BytesToAddress(buf), nil
}

// ReadBytes copies length bytes starting at ptr out of linear memory. The
// result is a snapshot: later guest writes do not alter it.
func (b *Bridge) ReadBytes(ptr, length uint32) ([]byte, error) {
	if uint64(ptr)+uint64(length) > uint64(b.mem.Size()) {
		return nil, types.Trap(types.MemoryAccessViolation)
	}
	view, ok := b.mem.Read(ptr, length)
	if !ok {
		return nil, types.Trap(types.MemoryAccessViolation)
	}
	// api.Memory.Read returns a view into the underlying buffer.
	return append([]byte(nil), view...), nil
}

// WriteBytes copies data into linear memory starting at ptr.
func (b *Bridge) WriteBytes(ptr uint32, data []byte) error {
	if uint64(ptr)+uint64(len(data)) > uint64(b.mem.Size()) {
		return types.Trap(types.MemoryAccessViolation)
	}
	if !b.mem.Write(ptr, data) {
		return types.Trap(types.MemoryAccessViolation)
	}
	return nil
}

// ReadUint32 reads a little-endian uint32 at ptr.
func (b *Bridge) ReadUint32(ptr uint32) (uint32, error) {
	v, ok := b.mem.ReadUint32Le(ptr)
	if !ok {
		return 0, types.Trap(types.MemoryAccessViolation)
	}
	return v, nil
}

// WriteUint32 writes v little-endian at ptr.
func (b *Bridge) WriteUint32(ptr, v uint32) error {
	if !b.mem.WriteUint32Le(ptr, v) {
		return types.Trap(types.MemoryAccessViolation)
	}
	return nil
}

// Size returns the current linear memory size in bytes.
func (b *Bridge) Size() uint32 {
	return b.mem.Size()
}
