package vm

import (
	"slvm/pkg/bytecode"
	"slvm/pkg/codec"
)

// A callee frame is laid out in stack memory as
//
//	fp-16  saved pc
//	fp-12  saved fp
//	fp-8   return size
//	fp-4   argument count
//	fp     argument block (4 bytes per argument), then temporaries
//
// The entry frame has no header; its fp is the stack base.
const (
	FrameHeaderSize = 16
	ArgSize         = 4

	offSavedPC  = -16
	offSavedFP  = -12
	offRetSize  = -8
	offArgCount = -4
)

// Frame describes one activation record, read back from stack memory.
type Frame struct {
	FP       int // start of the frame's working area
	ReturnPC int // caller instruction to resume; 0 for the entry frame
	RetSize  int // declared return-value size in bytes
	ArgCount int // number of 4-byte arguments
}

func (m *VM) pushU32(v uint32, at int) error {
	if err := m.stack.PushU32(v); err != nil {
		return m.overflowed(at, err)
	}
	return nil
}

func (m *VM) pushS32(v int32, at int) error {
	if err := m.stack.PushS32(v); err != nil {
		return m.overflowed(at, err)
	}
	return nil
}

func (m *VM) overflowed(at int, err error) error {
	if m.overflow == OverflowRecord {
		m.sink.Push(err.Error())
		return nil
	}
	return m.fault(StatusStackOverflow, at, err)
}

func (m *VM) popS32(at int) (int32, error) {
	v, err := m.stack.PopS32()
	if err != nil {
		return 0, m.fault(StatusStackUnderflow, at, err)
	}
	return v, nil
}

// call executes a call whose tag is at offset at; pc already points at the
// target word.
func (m *VM) call(at int) (bool, error) {
	if m.pc+bytecode.OperandWidth > len(m.code) {
		return false, m.fault(StatusTruncated, at, ErrTruncated)
	}
	target := int(codec.ReadU32(m.code, &m.pc))

	if target < bytecode.HeaderSize || target+2*bytecode.OperandWidth > len(m.code) {
		return false, m.fault(StatusBadCallTarget, at, ErrBadCallTarget)
	}
	prologue := target
	argc := codec.ReadU32(m.code, &prologue)
	retSize := codec.ReadU32(m.code, &prologue)

	args := m.pc
	if uint64(args)+uint64(argc)*ArgSize > uint64(len(m.code)) {
		return false, m.fault(StatusTruncated, at, ErrTruncated)
	}
	returnPC := args + int(argc)*ArgSize

	for _, w := range [...]uint32{uint32(returnPC), uint32(m.fp), retSize, argc} {
		if err := m.pushU32(w, at); err != nil {
			return false, err
		}
	}

	m.fp = m.stack.Len()
	m.depth++
	m.stack.SetFloor(m.fp)

	for i := uint32(0); i < argc; i++ {
		if err := m.pushS32(codec.ReadS32(m.code, &args), at); err != nil {
			return false, err
		}
	}

	m.pc = prologue
	return false, nil
}

// ret unwinds the current frame, or finishes the run when the current
// frame is the entry frame.
func (m *VM) ret(at int) (bool, error) {
	if m.depth == 0 {
		v, err := m.popS32(at)
		if err != nil {
			return false, err
		}
		m.finish(v)
		return true, nil
	}

	fp := m.fp
	if fp < FrameHeaderSize {
		return false, m.fault(StatusStackUnderflow, at, ErrStackUnderflow)
	}

	savedPC := int(m.stack.ReadU32At(fp + offSavedPC))
	savedFP := int(m.stack.ReadU32At(fp + offSavedFP))
	retSize := int(m.stack.ReadU32At(fp + offRetSize))

	top := m.stack.Len()
	if retSize > top-fp || savedFP > fp-FrameHeaderSize {
		return false, m.fault(StatusStackUnderflow, at, ErrStackUnderflow)
	}

	// header, arguments and locals all go
	m.stack.Truncate(fp - FrameHeaderSize)
	m.stack.PushRange(top-retSize, retSize)

	m.fp = savedFP
	m.pc = savedPC
	m.depth--
	m.stack.SetFloor(m.fp)

	return false, nil
}

// argCount returns the number of arguments of the current frame.
func (m *VM) argCount() int {
	if m.depth == 0 {
		return 0
	}
	return int(m.stack.ReadU32At(m.fp + offArgCount))
}

// loadArg pushes argument index of the current frame.
func (m *VM) loadArg(index int32, at int) error {
	if index < 0 || int(index) >= m.argCount() || m.fp+(int(index)+1)*ArgSize > m.stack.Len() {
		return m.fault(StatusBadArgument, at, ErrBadArgument)
	}
	return m.pushS32(m.stack.ReadS32At(m.fp+int(index)*ArgSize), at)
}

// Frames walks the frame chain from the current frame to the entry frame
// by following the saved frame pointers.
func (m *VM) Frames() []Frame {
	frames := make([]Frame, 0, m.depth+1)

	fp := m.fp
	for i, depth := 0, m.depth; i < depth; i++ {
		if fp < FrameHeaderSize || fp > m.stack.Cap() {
			break
		}
		frames = append(frames, Frame{
			FP:       fp,
			ReturnPC: int(m.stack.ReadU32At(fp + offSavedPC)),
			RetSize:  int(m.stack.ReadU32At(fp + offRetSize)),
			ArgCount: int(m.stack.ReadU32At(fp + offArgCount)),
		})
		fp = int(m.stack.ReadU32At(fp + offSavedFP))
	}

	return append(frames, Frame{FP: fp})
}
