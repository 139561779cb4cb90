package runtime

import (
	"fmt"

	"github.com/xzairdrop/parity/types"
)

// Host function indices, assigned at module-import-resolution time. The set
// is closed: the interpreter and this table version together, so an index
// outside it means the two have desynchronized on the import table.
const (
	StorageReadFunc uint32 = iota
	StorageWriteFunc
	RetFunc
	GasFunc
	FetchInputFunc
	InputLengthFunc
	BalanceFunc
	SuicideFunc
	ElogFunc
	DebugFunc
	PanicFunc
)

// Invoke routes a host call from the interpreter to the matching runtime
// operation. Void operations report success as an empty result; value
// returning operations yield exactly one interpreter-native value. A wrong
// argument count is an InvalidSyscall trap; an unregistered index is a fatal
// host defect and panics.
func (r *Runtime) Invoke(index uint32, args []uint64) ([]uint64, error) {
	switch index {
	case StorageReadFunc:
		if len(args) != 2 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.StorageRead(uint32(args[0]), uint32(args[1]))
	case StorageWriteFunc:
		if len(args) != 2 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.StorageWrite(uint32(args[0]), uint32(args[1]))
	case RetFunc:
		if len(args) != 2 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.Ret(uint32(args[0]), uint32(args[1]))
	case GasFunc:
		if len(args) != 1 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.Gas(uint32(args[0]))
	case FetchInputFunc:
		if len(args) != 1 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.FetchInput(uint32(args[0]))
	case InputLengthFunc:
		if len(args) != 0 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return []uint64{uint64(r.InputLength())}, nil
	case BalanceFunc:
		if len(args) != 2 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.BalanceAt(uint32(args[0]), uint32(args[1]))
	case SuicideFunc:
		if len(args) != 1 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.SuicideOp(uint32(args[0]))
	case ElogFunc:
		if len(args) != 4 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.Elog(uint32(args[0]), uint32(args[1]), uint32(args[2]), uint32(args[3]))
	case DebugFunc:
		if len(args) != 2 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.Debug(uint32(args[0]), uint32(args[1]))
	case PanicFunc:
		if len(args) != 2 {
			return nil, types.Trap(types.InvalidSyscall)
		}
		return nil, r.PanicOp(uint32(args[0]), uint32(args[1]))
	default:
		panic(fmt.Sprintf("env module doesn't provide function at index %d", index))
	}
}
