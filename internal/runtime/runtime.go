// Package runtime implements the host side of one contract invocation: the
// gas-metered host operations bytecode can call, and their dispatch table.
package runtime

import (
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero/api"

	"github.com/xzairdrop/parity/internal/runtime/gas"
	"github.com/xzairdrop/parity/internal/runtime/memory"
	"github.com/xzairdrop/parity/types"
)

// maxLogTopics bounds the topic count of one log operation.
const maxLogTopics = 4

// Runtime aggregates everything one contract invocation needs: the gas
// meter, exclusive access to the environment, the linear-memory bridge, the
// call-data args, and the result buffer. One Runtime serves exactly one
// invocation and is discarded after Dissolve.
type Runtime struct {
	meter   *gas.Meter
	env     types.Environment
	callCtx types.CallContext
	mem     *memory.Bridge
	args    []byte
	result  []byte
	logger  zerolog.Logger

	// trap records the first trap reported through dispatch, so the
	// embedder can recover the typed error after the interpreter unwinds.
	trap *types.TrapError
}

// New constructs a runtime for one invocation. env and mem are borrowed for
// the runtime's lifetime; the caller guarantees exclusive access to both.
func New(env types.Environment, mem api.Memory, gasLimit uint64, args []byte, callCtx types.CallContext, logger zerolog.Logger) *Runtime {
	return &Runtime{
		meter:   gas.NewMeter(gasLimit),
		env:     env,
		callCtx: callCtx,
		mem:     memory.New(mem),
		args:    args,
		logger:  logger,
	}
}

// Context returns the immutable call context.
func (r *Runtime) Context() types.CallContext {
	return r.callCtx
}

// charge prices an operation against the environment's schedule and charges
// the meter.
func (r *Runtime) charge(price func(*types.Schedule) uint64) error {
	return r.meter.Charge(r.env.Schedule(), price)
}

// StorageRead reads a 32-byte key from linear memory, queries the
// environment, and writes the value back into linear memory.
//
// The environment read happens before the gas charge. Reads are treated as
// unconditionally permitted probes priced afterwards; reordering this would
// change observable gas-exhaustion behavior and break protocol
// compatibility.
func (r *Runtime) StorageRead(keyPtr, valPtr uint32) error {
	key, err := r.mem.ReadHash(keyPtr)
	if err != nil {
		return err
	}

	val, err := r.env.StorageAt(key)
	if err != nil {
		return types.Trap(types.StorageReadError)
	}

	if err := r.charge(func(s *types.Schedule) uint64 { return s.SloadGas }); err != nil {
		return err
	}

	return r.mem.WriteBytes(valPtr, val.Bytes())
}

// StorageWrite reads a 32-byte key and value from linear memory and updates
// the environment. Unlike reads, writes charge before the effect: a failed
// charge must leave the world state untouched.
func (r *Runtime) StorageWrite(keyPtr, valPtr uint32) error {
	key, err := r.mem.ReadHash(keyPtr)
	if err != nil {
		return err
	}
	val, err := r.mem.ReadHash(valPtr)
	if err != nil {
		return err
	}

	if err := r.charge(func(s *types.Schedule) uint64 { return s.SstoreGas }); err != nil {
		return err
	}

	if err := r.env.SetStorage(key, val); err != nil {
		return types.Trap(types.StorageUpdateError)
	}
	return nil
}

// Ret copies length bytes at ptr into the result buffer. It is the sole way
// bytecode produces an output; a repeated call replaces the earlier result.
func (r *Runtime) Ret(ptr, length uint32) error {
	buf, err := r.mem.ReadBytes(ptr, length)
	if err != nil {
		return err
	}
	r.result = buf
	return nil
}

// Gas charges amount units verbatim. Compiled code uses this to report its
// own instruction costs.
func (r *Runtime) Gas(amount uint32) error {
	r.logger.Trace().Uint32("amount", amount).Msg("charge gas")
	if !r.meter.ChargeGas(uint64(amount)) {
		return types.Trap(types.GasLimit)
	}
	return nil
}

// InputLength returns the byte length of the call-data args.
func (r *Runtime) InputLength() uint32 {
	return uint32(len(r.args))
}

// FetchInput copies the call-data args into linear memory at destPtr,
// charging per copied byte.
func (r *Runtime) FetchInput(destPtr uint32) error {
	if err := r.charge(func(s *types.Schedule) uint64 { return uint64(len(r.args)) * s.CopyGas }); err != nil {
		return err
	}
	return r.mem.WriteBytes(destPtr, r.args)
}

// BalanceAt reads a 20-byte address at addrPtr, queries the environment for
// its balance, and writes the 32-byte big-endian amount at destPtr. Ordering
// matches StorageRead: query first, charge second.
func (r *Runtime) BalanceAt(addrPtr, destPtr uint32) error {
	addr, err := r.mem.ReadAddress(addrPtr)
	if err != nil {
		return err
	}

	balance, err := r.env.Balance(addr)
	if err != nil {
		return types.Trap(types.BalanceQueryError)
	}

	if err := r.charge(func(s *types.Schedule) uint64 { return s.BalanceGas }); err != nil {
		return err
	}

	b32 := balance.Bytes32()
	return r.mem.WriteBytes(destPtr, b32[:])
}

// SuicideOp destroys the executing account, crediting its balance to the
// refund address read at refundPtr. On success it traps with Suicide, which
// the embedder treats as a normal halt rather than a failure.
func (r *Runtime) SuicideOp(refundPtr uint32) error {
	refund, err := r.mem.ReadAddress(refundPtr)
	if err != nil {
		return err
	}

	if err := r.charge(func(s *types.Schedule) uint64 { return s.SuicideGas }); err != nil {
		return err
	}

	if err := r.env.Suicide(refund); err != nil {
		return types.Trap(types.SuicideAbort)
	}
	return types.Trap(types.Suicide)
}

// Elog records an event with topicCount 32-byte topics at topicPtr and
// dataLen bytes of payload at dataPtr.
func (r *Runtime) Elog(topicPtr, topicCount, dataPtr, dataLen uint32) error {
	if topicCount > maxLogTopics {
		return types.Trap(types.Log)
	}

	if err := r.charge(func(s *types.Schedule) uint64 {
		return s.LogGas + uint64(topicCount)*s.LogTopicGas + uint64(dataLen)*s.LogDataGas
	}); err != nil {
		return err
	}

	topics := make([]types.Hash, topicCount)
	for i := uint32(0); i < topicCount; i++ {
		topic, err := r.mem.ReadHash(topicPtr + i*types.HashLength)
		if err != nil {
			return err
		}
		topics[i] = topic
	}
	data, err := r.mem.ReadBytes(dataPtr, dataLen)
	if err != nil {
		return err
	}

	if err := r.env.Log(topics, data); err != nil {
		return types.Trap(types.Log)
	}
	return nil
}

// Debug reads a UTF-8 message from linear memory and writes it to the
// host log at debug level.
func (r *Runtime) Debug(msgPtr, msgLen uint32) error {
	msg, err := r.readUtf8(msgPtr, msgLen)
	if err != nil {
		return err
	}
	r.logger.Debug().Str("contract", r.callCtx.CodeAddress.String()).Msg(msg)
	return nil
}

// PanicOp reads a UTF-8 message from linear memory and traps with it.
func (r *Runtime) PanicOp(msgPtr, msgLen uint32) error {
	msg, err := r.readUtf8(msgPtr, msgLen)
	if err != nil {
		return err
	}
	return types.Panicf("%s", msg)
}

func (r *Runtime) readUtf8(ptr, length uint32) (string, error) {
	buf, err := r.mem.ReadBytes(ptr, length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", types.Trap(types.BadUtf8)
	}
	return string(buf), nil
}

// GasLeft returns the gas remaining for this invocation.
func (r *Runtime) GasLeft() (uint64, error) {
	return r.meter.GasLeft()
}

// GasUsed returns the gas consumed so far.
func (r *Runtime) GasUsed() uint64 {
	return r.meter.Consumed()
}

// Result returns a read-only view of the current result buffer.
func (r *Runtime) Result() []byte {
	return r.result
}

// Dissolve consumes the runtime and yields ownership of the result buffer.
// The runtime must not be used afterwards.
func (r *Runtime) Dissolve() []byte {
	result := r.result
	r.result = nil
	return result
}

// setTrap records the first trap reported through dispatch.
func (r *Runtime) setTrap(trap *types.TrapError) {
	if r.trap == nil {
		r.trap = trap
	}
}

// Trap returns the first trap reported through dispatch, or nil.
func (r *Runtime) Trap() *types.TrapError {
	return r.trap
}
