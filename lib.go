// Package parity implements the host-function execution layer of a
// sandboxed wasm virtual machine for smart contracts: gas-metered host
// operations, a bounds-checked bridge to the interpreter's linear memory,
// and a typed trap taxonomy the embedder can act on.
package parity

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xzairdrop/parity/vm"
)

// VM is the compiled-module cache and execution driver.
type VM = vm.VM

// Config controls interpreter limits.
type Config = vm.Config

// ExecutionResult is the outcome of one successful invocation.
type ExecutionResult = vm.ExecutionResult

// NewVM creates a VM with the given config and logger.
func NewVM(ctx context.Context, config Config, logger zerolog.Logger) *VM {
	return vm.New(ctx, config, logger)
}

// DefaultConfig returns the default interpreter limits.
func DefaultConfig() Config {
	return vm.DefaultConfig()
}
