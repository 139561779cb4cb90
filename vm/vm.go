// Package vm is the embedding surface: it owns the wazero runtime, caches
// compiled contract modules by checksum, and drives one metered invocation
// at a time against an Environment.
package vm

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"

	"github.com/xzairdrop/parity/internal/runtime"
	"github.com/xzairdrop/parity/types"
)

// entrypoint is the exported function every contract must provide.
const entrypoint = "call"

// Config controls the interpreter limits.
type Config struct {
	// MemoryLimitPages caps contract linear memory, in 64 KiB pages.
	MemoryLimitPages uint32
	// Debug enables the contract debug host function output.
	Debug bool
}

// DefaultConfig returns a 16-page (1 MiB) memory limit with debug output
// disabled.
func DefaultConfig() Config {
	return Config{
		MemoryLimitPages: 16,
		Debug:            false,
	}
}

// ExecutionResult is the outcome of one successful invocation.
type ExecutionResult struct {
	// Output is the result buffer produced by ret, nil when the contract
	// returned nothing.
	Output []byte
	// GasUsed is the total gas charged.
	GasUsed uint64
	// GasLeft is the unused remainder of the ceiling.
	GasLeft uint64
	// Suicided reports that execution halted through self-destruction.
	Suicided bool
}

// VM compiles and runs contract modules. One VM serves many sequential
// executions; each execution gets a fresh Runtime and an exclusively held
// Environment view.
type VM struct {
	runtime wazero.Runtime
	modules map[types.Hash]wazero.CompiledModule
	code    map[types.Hash][]byte
	config  Config
	logger  zerolog.Logger
}

// New initializes a VM with the given config and logger.
func New(ctx context.Context, config Config, logger zerolog.Logger) *VM {
	rc := wazero.NewRuntimeConfig().WithMemoryLimitPages(config.MemoryLimitPages)
	vm := &VM{
		runtime: wazero.NewRuntimeWithConfig(ctx, rc),
		modules: make(map[types.Hash]wazero.CompiledModule),
		code:    make(map[types.Hash][]byte),
		config:  config,
		logger:  logger,
	}
	logger.Debug().Uint32("memory_limit_pages", config.MemoryLimitPages).Msg("wazero runtime initialized")
	return vm
}

// StoreCode compiles a wasm blob and caches it under its SHA-256 checksum.
func (vm *VM) StoreCode(ctx context.Context, code []byte) (types.Hash, error) {
	checksum := types.Hash(sha256.Sum256(code))
	if _, ok := vm.modules[checksum]; ok {
		return checksum, nil
	}
	compiled, err := vm.runtime.CompileModule(ctx, code)
	if err != nil {
		return types.Hash{}, fmt.Errorf("compile module: %w", err)
	}
	vm.modules[checksum] = compiled
	vm.code[checksum] = append([]byte(nil), code...)
	vm.logger.Debug().Str("checksum", checksum.String()).Int("size", len(code)).Msg("stored contract code")
	return checksum, nil
}

// GetCode returns the original wasm bytes for the given checksum.
func (vm *VM) GetCode(checksum types.Hash) ([]byte, error) {
	code, ok := vm.code[checksum]
	if !ok {
		return nil, fmt.Errorf("code %s not found", checksum)
	}
	return append([]byte(nil), code...), nil
}

// RemoveCode drops the compiled module and code bytes for the checksum.
func (vm *VM) RemoveCode(ctx context.Context, checksum types.Hash) error {
	compiled, ok := vm.modules[checksum]
	if !ok {
		return fmt.Errorf("code %s not found", checksum)
	}
	_ = compiled.Close(ctx)
	delete(vm.modules, checksum)
	delete(vm.code, checksum)
	return nil
}

// Execute runs the contract's call entrypoint under the given gas ceiling.
// Contract-level traps come back as *types.TrapError; a halt through
// self-destruction is reported as success with Suicided set.
func (vm *VM) Execute(ctx context.Context, checksum types.Hash, env types.Environment, callCtx types.CallContext, gasLimit uint64, input []byte) (*ExecutionResult, error) {
	compiled, ok := vm.modules[checksum]
	if !ok {
		return nil, fmt.Errorf("code %s not found", checksum)
	}

	// The env module must exist before the contract's imports resolve;
	// the runtime is bound to the holder once the contract memory exists.
	holder := &runtime.Holder{}
	envMod, err := runtime.BuildEnvModule(ctx, vm.runtime, holder)
	if err != nil {
		return nil, fmt.Errorf("instantiate env module: %w", err)
	}
	defer envMod.Close(ctx)

	mod, err := vm.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("contract"))
	if err != nil {
		return nil, fmt.Errorf("instantiate contract: %w", err)
	}
	defer mod.Close(ctx)

	// Host operations address contract linear memory; a module without one
	// can never satisfy them, so reject it up front instead of letting the
	// first memory access fault mid-execution.
	if mod.Memory() == nil {
		return nil, fmt.Errorf("contract does not export a memory")
	}

	logger := vm.logger
	if !vm.config.Debug {
		logger = zerolog.Nop()
	}
	r := runtime.New(env, mod.Memory(), gasLimit, input, callCtx, logger)
	holder.R = r

	fn := mod.ExportedFunction(entrypoint)
	if fn == nil {
		return nil, fmt.Errorf("contract does not export %q", entrypoint)
	}

	_, callErr := fn.Call(ctx)
	suicided := false
	if callErr != nil {
		trap := r.Trap()
		if trap == nil {
			trap = types.FromInterpreter(callErr)
		}
		if trap.Kind != types.Suicide {
			vm.logger.Debug().Err(trap).Uint64("gas_used", r.GasUsed()).Msg("execution trapped")
			return nil, trap
		}
		suicided = true
	}

	gasLeft, err := r.GasLeft()
	if err != nil {
		return nil, err
	}
	return &ExecutionResult{
		Output:   r.Dissolve(),
		GasUsed:  r.GasUsed(),
		GasLeft:  gasLeft,
		Suicided: suicided,
	}, nil
}

// Close releases the wazero runtime and all compiled modules.
func (vm *VM) Close(ctx context.Context) error {
	return vm.runtime.Close(ctx)
}
