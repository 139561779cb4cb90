package runtime

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/xzairdrop/parity/types"
)

// Holder resolves the runtime bound to the current invocation. The env
// module must be instantiated before the contract module so its imports
// resolve, but the runtime needs the contract's memory handle, which only
// exists afterwards. Host closures therefore capture the holder and resolve
// the runtime at call time.
type Holder struct {
	R *Runtime
}

// hostFunc adapts one dispatch index to a wazero host function. Traps are
// recorded on the runtime and re-raised as panics, which wazero surfaces to
// the embedder as an execution error; the typed trap is recovered from the
// runtime afterwards.
func (h *Holder) hostFunc(index uint32, nParams int) api.GoModuleFunc {
	return func(ctx context.Context, _ api.Module, stack []uint64) {
		r := h.R
		if r == nil {
			panic(types.Trap(types.Other))
		}
		results, err := r.Invoke(index, stack[:nParams])
		if err != nil {
			trap := types.FromInterpreter(err)
			r.setTrap(trap)
			panic(trap)
		}
		if len(results) > 0 {
			stack[0] = results[0]
		}
	}
}

// BuildEnvModule defines and instantiates the host module "env" exposing
// every dispatchable operation to bytecode. The export set and signatures
// mirror the dispatch table exactly.
func BuildEnvModule(ctx context.Context, rt wazero.Runtime, h *Holder) (api.Module, error) {
	i32 := api.ValueTypeI32
	builder := rt.NewHostModuleBuilder("env")

	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(StorageReadFunc, 2), []api.ValueType{i32, i32}, nil).Export("storage_read")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(StorageWriteFunc, 2), []api.ValueType{i32, i32}, nil).Export("storage_write")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(RetFunc, 2), []api.ValueType{i32, i32}, nil).Export("ret")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(GasFunc, 1), []api.ValueType{i32}, nil).Export("gas")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(FetchInputFunc, 1), []api.ValueType{i32}, nil).Export("fetch_input")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(InputLengthFunc, 0), nil, []api.ValueType{i32}).Export("input_length")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(BalanceFunc, 2), []api.ValueType{i32, i32}, nil).Export("balance")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(SuicideFunc, 1), []api.ValueType{i32}, nil).Export("suicide")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(ElogFunc, 4), []api.ValueType{i32, i32, i32, i32}, nil).Export("elog")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(DebugFunc, 2), []api.ValueType{i32, i32}, nil).Export("debug")
	builder.NewFunctionBuilder().WithGoModuleFunction(h.hostFunc(PanicFunc, 2), []api.ValueType{i32, i32}, nil).Export("panic")

	return builder.Instantiate(ctx)
}
