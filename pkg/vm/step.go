package vm

import (
	"fmt"

	"slvm/pkg/bytecode"
	"slvm/pkg/codec"
)

// exec decodes and executes the instruction at pc.
// it returns (halted, error).
func (m *VM) exec() (bool, error) {
	at := m.pc

	// running off the end of the image returns the top of the stack
	if at >= len(m.code) {
		v, err := m.popS32(at)
		if err != nil {
			return false, err
		}
		m.finish(v)
		return true, nil
	}

	if at+bytecode.OpcodeWidth > len(m.code) {
		return false, m.fault(StatusTruncated, at, ErrTruncated)
	}
	op := bytecode.Opcode(codec.ReadU16(m.code, &m.pc))

	switch op {
	case bytecode.OpPushS32:
		v, err := m.operand(at)
		if err != nil {
			return false, err
		}
		return false, m.pushS32(v, at)

	case bytecode.OpPopS32:
		_, err := m.popS32(at)
		return false, err

	case bytecode.OpAddS32:
		a, err := m.popS32(at)
		if err != nil {
			return false, err
		}
		b, err := m.popS32(at)
		if err != nil {
			return false, err
		}
		return false, m.pushS32(a+b, at)

	case bytecode.OpSubS32:
		// b is on top, a below it: push a-b
		b, err := m.popS32(at)
		if err != nil {
			return false, err
		}
		a, err := m.popS32(at)
		if err != nil {
			return false, err
		}
		return false, m.pushS32(a-b, at)

	case bytecode.OpFunc:
		// prologue words are read by call through the jump target; a linear
		// walk into a func marker only steps over them
		if m.pc+2*bytecode.OperandWidth > len(m.code) {
			return false, m.fault(StatusTruncated, at, ErrTruncated)
		}
		m.pc += 2 * bytecode.OperandWidth
		return false, nil

	case bytecode.OpCall:
		return m.call(at)

	case bytecode.OpRet:
		return m.ret(at)

	case bytecode.OpLargS32:
		index, err := m.operand(at)
		if err != nil {
			return false, err
		}
		return false, m.loadArg(index, at)

	default:
		return false, m.fault(StatusUnknownOpcode, at, fmt.Errorf("%w %d", ErrUnknownOpcode, uint16(op)))
	}
}

// operand reads one s32 immediate following the tag.
func (m *VM) operand(at int) (int32, error) {
	if m.pc+bytecode.OperandWidth > len(m.code) {
		return 0, m.fault(StatusTruncated, at, ErrTruncated)
	}
	return codec.ReadS32(m.code, &m.pc), nil
}
