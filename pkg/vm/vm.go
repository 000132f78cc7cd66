package vm

import (
	"errors"

	"slvm/pkg/bytecode"
)

// OverflowPolicy decides what a failed push does to the run.
type OverflowPolicy int

const (
	// OverflowAbort stops the run with StatusStackOverflow.
	OverflowAbort OverflowPolicy = iota
	// OverflowRecord only records the event on the sink; the push is
	// skipped and dispatch continues.
	OverflowRecord
)

func (p OverflowPolicy) String() string {
	if p == OverflowRecord {
		return "record"
	}
	return "abort"
}

// VM executes bytecode images. It owns its stack memory, so separate VMs
// may run concurrently; a single VM must not.
type VM struct {
	stack *Stack

	code  []byte // image being executed
	entry int    // entry-point offset of the image
	pc    int    // offset of the next opcode tag
	fp    int    // start of the current frame's working area
	depth int    // number of live callee frames

	sink   Sink
	halted bool
	result int32
	err    *Fault // fault that stopped the current run

	overflow OverflowPolicy
	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*VM)

// WithStackSize sets the stack capacity in bytes.
func WithStackSize(n int) Option {
	return func(m *VM) { m.stack = NewStack(n) }
}

// WithOverflowPolicy selects how stack overflow is handled.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(m *VM) { m.overflow = p }
}

// WithMaxSteps sets a maximum number of executed instructions before the
// run fails with StatusStepLimit.
func WithMaxSteps(n int) Option {
	return func(m *VM) { m.maxSteps = n }
}

// New creates a VM. Its stack is allocated once and reused by every run.
func New(opts ...Option) *VM {
	m := &VM{
		sink:     discard{},
		overflow: OverflowAbort,
	}

	for _, o := range opts {
		o(m)
	}

	if m.stack == nil {
		m.stack = NewStack(DefaultStackSize)
	}

	return m
}

// Load validates cu's header and prepares a fresh run. Messages for the
// run go to sink, which may be nil.
func (m *VM) Load(cu *bytecode.CodeUnit, sink Sink) error {
	m.code = nil
	m.sink = sink
	if m.sink == nil {
		m.sink = discard{}
	}

	m.reset()

	entry, err := cu.Validate()
	if err != nil {
		status := StatusBadMask
		if errors.Is(err, bytecode.ErrBadEntry) {
			status = StatusBadEntry
		}
		return m.fault(status, 0, err)
	}

	m.code = cu.Bytes()
	m.entry = int(entry)
	m.pc = m.entry

	return nil
}

func (m *VM) reset() {
	m.stack.Reset()
	m.entry = 0
	m.pc = 0
	m.fp = 0
	m.depth = 0
	m.halted = false
	m.err = nil
	m.result = 0
	m.steps = 0
}

// Step executes a single instruction, returning (halted, error).
func (m *VM) Step() (bool, error) {
	if m.code == nil {
		return false, ErrNotLoaded
	}

	if m.halted {
		return true, nil
	}

	if m.err != nil {
		return false, m.err
	}

	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return false, m.fault(StatusStepLimit, m.pc, ErrMaxStepsExceeded)
	}

	halted, err := m.exec()
	m.steps++

	return halted, err
}

// Run loads cu and executes it until the entry frame returns or a fault
// stops it. On success it returns the program's s32 result.
func (m *VM) Run(cu *bytecode.CodeUnit, sink Sink) (int32, error) {
	if err := m.Load(cu, sink); err != nil {
		return 0, err
	}

	for {
		halted, err := m.Step()
		if err != nil {
			return 0, err
		}

		if halted {
			return m.result, nil
		}
	}
}

// Result returns the value produced by the last completed run.
func (m *VM) Result() int32 { return m.result }

// Halted reports whether the loaded program has finished.
func (m *VM) Halted() bool { return m.halted }

// PC returns the offset of the next instruction.
func (m *VM) PC() int { return m.pc }

// FP returns the current frame pointer.
func (m *VM) FP() int { return m.fp }

// Cursor returns the stack cursor.
func (m *VM) Cursor() int { return m.stack.Len() }

// Depth returns the number of live callee frames; 0 inside the entry frame.
func (m *VM) Depth() int { return m.depth }

// Steps returns the number of instructions executed in the current run.
func (m *VM) Steps() int { return m.steps }

// Entry returns the entry-point offset of the loaded image.
func (m *VM) Entry() int { return m.entry }

// StackSize returns the capacity of the VM's stack memory.
func (m *VM) StackSize() int { return m.stack.Cap() }

func (m *VM) finish(v int32) {
	m.result = v
	m.halted = true
}

func (m *VM) fault(status Status, pc int, err error) *Fault {
	f := &Fault{Status: status, PC: pc, Err: err}
	m.sink.Push(f.Error())
	m.err = f
	return f
}

// Execute runs cu on a fresh VM and reports the result with its status.
func Execute(cu *bytecode.CodeUnit, sink Sink, opts ...Option) (int32, Status) {
	v, err := New(opts...).Run(cu, sink)
	return v, StatusOf(err)
}
