package types

import (
	"errors"
	"fmt"
	"strings"
)

// TrapKind is the closed set of fault classes a host operation can report.
// The kind is the discriminant embedders use to decide rollback semantics:
// running out of gas, violating memory bounds, and environment failures each
// carry different protocol consequences.
type TrapKind int

const (
	// StorageReadError means an environment storage read failed.
	StorageReadError TrapKind = iota
	// StorageUpdateError means an environment storage write failed.
	StorageUpdateError
	// MemoryAccessViolation means a host operation addressed linear memory
	// out of bounds.
	MemoryAccessViolation
	// Suicide means the contract requested self-destruction. Execution
	// halts, but the halt is a normal outcome, not a failure.
	Suicide
	// SuicideAbort means a requested self-destruction could not complete.
	SuicideAbort
	// InvalidGasState means consumed gas exceeds the ceiling. This is a
	// host bookkeeping defect, never a condition contracts can trigger.
	InvalidGasState
	// BalanceQueryError means an environment balance lookup failed.
	BalanceQueryError
	// AllocationFailed means a host-side allocation was exhausted.
	AllocationFailed
	// GasLimit means the gas ceiling was or would be exceeded.
	GasLimit
	// Unknown means dispatch received an index with no registered
	// operation.
	Unknown
	// BadUtf8 means a string argument failed text decoding.
	BadUtf8
	// Log means an event-logging operation failed.
	Log
	// InvalidSyscall means a host function was invoked with a mismatched
	// argument arity or type.
	InvalidSyscall
	// Other is the catch-all for interpreter faults not otherwise
	// classified.
	Other
	// PanicTrap is an unrecoverable host-side fault carrying a message.
	PanicTrap
)

// TrapError is a typed trap surfaced to the interpreter when a host
// operation fails. Exactly one kind is set; Msg is only populated for
// PanicTrap.
type TrapError struct {
	Kind TrapKind
	Msg  string
}

var _ error = (*TrapError)(nil)

func (e *TrapError) Error() string {
	switch e.Kind {
	case StorageReadError:
		return "storage read error"
	case StorageUpdateError:
		return "storage update error"
	case MemoryAccessViolation:
		return "memory access violation"
	case Suicide:
		return "suicide result"
	case SuicideAbort:
		return "attempt to suicide resulted in an error"
	case InvalidGasState:
		return "invalid gas state"
	case BalanceQueryError:
		return "balance query resulted in an error"
	case AllocationFailed:
		return "memory allocation failed (OOM)"
	case GasLimit:
		return "invocation resulted in gas limit violated"
	case Unknown:
		return "unknown runtime function invoked"
	case BadUtf8:
		return "string encoding is bad utf-8 sequence"
	case Log:
		return "error occurred while logging an event"
	case InvalidSyscall:
		return "invalid syscall signature encountered at runtime"
	case Other:
		return "other unspecified error"
	case PanicTrap:
		return fmt.Sprintf("panic: %s", e.Msg)
	default:
		panic(fmt.Sprintf("unknown trap kind %d", e.Kind))
	}
}

// Trap builds a trap of the given kind. Callers compare kinds, not
// identities.
func Trap(kind TrapKind) *TrapError {
	return &TrapError{Kind: kind}
}

// Panicf builds a PanicTrap carrying a formatted message.
func Panicf(format string, args ...interface{}) *TrapError {
	return &TrapError{Kind: PanicTrap, Msg: fmt.Sprintf(format, args...)}
}

// IsTrap reports whether err is a TrapError of the given kind.
func IsTrap(err error, kind TrapKind) bool {
	var trap *TrapError
	return errors.As(err, &trap) && trap.Kind == kind
}

// FromInterpreter converts an interpreter-level fault into a trap. The
// mapping is total: a host-reported trap passes through unchanged, an import
// signature mismatch becomes InvalidSyscall, a linear-memory fault becomes
// MemoryAccessViolation, and everything else collapses to Other without
// leaking interpreter-internal detail.
func FromInterpreter(err error) *TrapError {
	var trap *TrapError
	if errors.As(err, &trap) {
		return trap
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "signature mismatch"):
		return Trap(InvalidSyscall)
	case strings.Contains(msg, "out of bounds memory access"):
		return Trap(MemoryAccessViolation)
	default:
		return Trap(Other)
	}
}
