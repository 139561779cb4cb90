// Package types provides core types used throughout the parity package.
package types

import "encoding/hex"

// Gas represents the amount of computational resources consumed during execution.
type Gas = uint64

const (
	// HashLength is the byte length of a storage key or value.
	HashLength = 32
	// AddressLength is the byte length of an account identifier.
	AddressLength = 20
)

// Hash is a fixed 32-byte value, used for storage keys and storage cells.
type Hash [HashLength]byte

// Address is a 20-byte account identifier.
type Address [AddressLength]byte

// BytesToHash copies b into a Hash, right-aligned and zero-padded on the
// left when b is shorter than 32 bytes. Longer inputs keep the last 32 bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// BytesToAddress copies b into an Address with the same alignment rules as
// BytesToHash.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string { return hex.EncodeToString(a[:]) }
