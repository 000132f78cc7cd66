package vm_test

import (
	"errors"
	"math"
	"slvm/pkg/bytecode"
	"slvm/pkg/vm"
	"sync"
	"testing"
)

func run(b *bytecode.Builder, opts ...vm.Option) (int32, vm.Status, *vm.ErrorStream) {
	sink := &vm.ErrorStream{}
	v, status := vm.Execute(b.CodeUnit(), sink, opts...)
	return v, status, sink
}

func TestAddition(t *testing.T) {
	tests := []struct {
		a, b        int32
		expected    int32
		description string
	}{
		{2, 3, 5, "small positives"},
		{-7, 3, -4, "negative operand"},
		{0, 0, 0, "zeros"},
		{math.MaxInt32, 1, math.MinInt32, "wraps around"},
	}

	for _, test := range tests {
		b := bytecode.NewBuilder()
		b.PushS32(test.a)
		b.PushS32(test.b)
		b.AddS32()
		b.Ret()

		got, status, sink := run(b)
		if status != vm.StatusOK {
			t.Errorf("%s: expected status ok, got %s (%s)", test.description, status, sink)
		}
		if got != test.expected {
			t.Errorf("%s: expected %d, got %d", test.description, test.expected, got)
		}
	}
}

func TestSubtractionOperandOrder(t *testing.T) {
	b := bytecode.NewBuilder()
	b.PushS32(10)
	b.PushS32(3)
	b.SubS32()
	b.Ret()

	got, status, _ := run(b)
	if status != vm.StatusOK || got != 7 {
		t.Errorf("expected 7 (ok), got %d (%s)", got, status)
	}
}

func TestArgumentPassing(t *testing.T) {
	b := bytecode.NewBuilder()
	add10 := b.Func(1, 4)
	b.LargS32(0)
	b.PushS32(10)
	b.AddS32()
	b.Ret()
	b.SetEntry(b.Offset())
	b.Call(add10, 7)
	b.Ret()

	got, status, sink := run(b)
	if status != vm.StatusOK {
		t.Fatalf("expected status ok, got %s (%s)", status, sink)
	}
	if got != 17 {
		t.Errorf("expected 17, got %d", got)
	}
}

func TestSeveralArguments(t *testing.T) {
	b := bytecode.NewBuilder()
	diff := b.Func(2, 4)
	b.LargS32(0)
	b.LargS32(1)
	b.SubS32()
	b.Ret()
	b.SetEntry(b.Offset())
	b.Call(diff, 50, 8)
	b.Ret()

	got, status, _ := run(b)
	if status != vm.StatusOK || got != 42 {
		t.Errorf("expected 42 (ok), got %d (%s)", got, status)
	}
}

func nestedProgram() (b *bytecode.Builder, callAt, after uint32) {
	b = bytecode.NewBuilder()

	inc := b.Func(1, 4)
	b.LargS32(0)
	b.PushS32(1)
	b.AddS32()
	b.Ret()

	outer := b.Func(1, 4)
	b.LargS32(0)
	b.Call(inc, 5)
	b.AddS32()
	b.Ret()

	b.SetEntry(b.Offset())
	b.PushS32(100)
	callAt = b.Offset()
	b.Call(outer, 7)
	after = b.Offset()
	b.AddS32()
	b.Ret()

	return b, callAt, after
}

func TestNestedCallsBalance(t *testing.T) {
	b, callAt, after := nestedProgram()

	m := vm.New(vm.WithStackSize(1024))
	if err := m.Load(b.CodeUnit(), nil); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := m.Step(); err != nil {
		t.Fatalf("push: %v", err)
	}
	if m.PC() != int(callAt) {
		t.Fatalf("expected pc %d before call, got %d", callAt, m.PC())
	}

	fp, cursor := m.FP(), m.Cursor()

	maxDepth := 0
	for {
		if _, err := m.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
		if m.Depth() > maxDepth {
			maxDepth = m.Depth()
			frames := m.Frames()
			if len(frames) != maxDepth+1 {
				t.Errorf("depth %d: expected %d frames, got %d", maxDepth, maxDepth+1, len(frames))
			}
			if frames[len(frames)-1].FP != fp {
				t.Errorf("depth %d: expected chain to end at fp %d, got %d", maxDepth, fp, frames[len(frames)-1].FP)
			}
		}
		if m.Depth() == 0 {
			break
		}
	}

	if maxDepth != 2 {
		t.Errorf("expected maximum depth 2, got %d", maxDepth)
	}
	if m.PC() != int(after) {
		t.Errorf("expected pc %d after call, got %d", after, m.PC())
	}
	if m.FP() != fp {
		t.Errorf("expected fp %d after call, got %d", fp, m.FP())
	}
	if m.Cursor() != cursor+4 {
		t.Errorf("expected cursor %d after call, got %d", cursor+4, m.Cursor())
	}

	for !m.Halted() {
		if _, err := m.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if m.Result() != 113 {
		t.Errorf("expected 113, got %d", m.Result())
	}
}

func TestReturnSizes(t *testing.T) {
	b := bytecode.NewBuilder()

	nothing := b.Func(0, 0)
	b.PushS32(9)
	b.PushS32(9)
	b.Ret()

	pair := b.Func(1, 8)
	b.LargS32(0)
	b.PushS32(2)
	b.Ret()

	b.SetEntry(b.Offset())
	b.PushS32(1)
	b.Call(nothing)
	b.Call(pair, 3)
	b.AddS32()
	b.AddS32()
	b.Ret()

	got, status, sink := run(b)
	if status != vm.StatusOK {
		t.Fatalf("expected status ok, got %s (%s)", status, sink)
	}
	if got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}

func TestFuncMarkerIsSkippedWhenDispatched(t *testing.T) {
	b := bytecode.NewBuilder()
	b.Func(0, 4)
	b.PushS32(5)
	b.Ret()

	got, status, _ := run(b)
	if status != vm.StatusOK || got != 5 {
		t.Errorf("expected 5 (ok), got %d (%s)", got, status)
	}
}

func TestFallingOffTheEnd(t *testing.T) {
	b := bytecode.NewBuilder()
	b.PushS32(4)

	got, status, _ := run(b)
	if status != vm.StatusOK || got != 4 {
		t.Errorf("expected 4 (ok), got %d (%s)", got, status)
	}
}

func TestFormatValidation(t *testing.T) {
	tests := []struct {
		input       []byte
		status      vm.Status
		description string
	}{
		{[]byte{0x81, 0x00, 0x00, 0x8A, 0x08, 0x00, 0x00, 0x00, 0x06, 0x00}, vm.StatusBadMask, "bad mask"},
		{[]byte{}, vm.StatusBadMask, "empty image"},
		{[]byte{0x80, 0x00, 0x00, 0x8A, 0x04, 0x00, 0x00, 0x00, 0x06, 0x00}, vm.StatusBadEntry, "entry inside header"},
	}

	for _, test := range tests {
		m := vm.New(vm.WithStackSize(64))
		sink := &vm.ErrorStream{}

		_, err := m.Run(bytecode.NewCodeUnit(test.input), sink)
		if got := vm.StatusOf(err); got != test.status {
			t.Errorf("%s: expected status %s, got %s", test.description, test.status, got)
		}
		if m.Steps() != 0 {
			t.Errorf("%s: expected no instruction to run, got %d", test.description, m.Steps())
		}
		if sink.Len() != 1 {
			t.Errorf("%s: expected one message, got %d", test.description, sink.Len())
		}
	}
}

func TestUnknownOpcode(t *testing.T) {
	b := bytecode.NewBuilder()
	b.PushS32(1)
	b.EmitRaw(0x2A, 0x00)
	b.Ret()

	m := vm.New(vm.WithStackSize(64))
	sink := &vm.ErrorStream{}
	_, err := m.Run(b.CodeUnit(), sink)

	var f *vm.Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected a fault, got %v", err)
	}
	if f.Status != vm.StatusUnknownOpcode {
		t.Errorf("expected status %s, got %s", vm.StatusUnknownOpcode, f.Status)
	}
	if f.PC != 14 {
		t.Errorf("expected fault at 14, got %d", f.PC)
	}
	if !errors.Is(err, vm.ErrUnknownOpcode) {
		t.Errorf("expected error to wrap %v", vm.ErrUnknownOpcode)
	}
	if m.Cursor() != 4 {
		t.Errorf("expected earlier push to stay on the stack, cursor %d", m.Cursor())
	}
	if msgs := sink.Messages(); len(msgs) != 1 || msgs[0] != "unknown opcode 42 at 14" {
		t.Errorf("unexpected messages %q", msgs)
	}

	// a faulted run stays faulted
	if _, err := m.Step(); vm.StatusOf(err) != vm.StatusUnknownOpcode {
		t.Errorf("expected step after fault to repeat it, got %v", err)
	}
}

func TestFatalConditions(t *testing.T) {
	underflow := bytecode.NewBuilder()
	underflow.PopS32()

	calleeUnderflow := bytecode.NewBuilder()
	f := calleeUnderflow.Func(1, 4)
	calleeUnderflow.AddS32()
	calleeUnderflow.Ret()
	calleeUnderflow.SetEntry(calleeUnderflow.Offset())
	calleeUnderflow.PushS32(1)
	calleeUnderflow.Call(f, 2)

	badArg := bytecode.NewBuilder()
	g := badArg.Func(1, 4)
	badArg.LargS32(1)
	badArg.Ret()
	badArg.SetEntry(badArg.Offset())
	badArg.Call(g, 2)

	negativeArg := bytecode.NewBuilder()
	h := negativeArg.Func(1, 4)
	negativeArg.LargS32(-1)
	negativeArg.Ret()
	negativeArg.SetEntry(negativeArg.Offset())
	negativeArg.Call(h, 2)

	entryArg := bytecode.NewBuilder()
	entryArg.LargS32(0)

	shortReturn := bytecode.NewBuilder()
	k := shortReturn.Func(0, 8)
	shortReturn.PushS32(1)
	shortReturn.Ret()
	shortReturn.SetEntry(shortReturn.Offset())
	shortReturn.Call(k)
	shortReturn.Ret()

	badTarget := bytecode.NewBuilder()
	badTarget.Call(4000)

	truncated := bytecode.NewBuilder()
	truncated.Emit(bytecode.OpPushS32)
	truncated.EmitRaw(0x01)

	looping := bytecode.NewBuilder()
	looping.PushS32(1)
	looping.PushS32(1)
	looping.AddS32()
	looping.Ret()

	tests := []struct {
		b           *bytecode.Builder
		opts        []vm.Option
		status      vm.Status
		description string
	}{
		{underflow, nil, vm.StatusStackUnderflow, "pop on empty stack"},
		{calleeUnderflow, nil, vm.StatusStackUnderflow, "callee pops into caller frame"},
		{badArg, nil, vm.StatusBadArgument, "argument index past argc"},
		{negativeArg, nil, vm.StatusBadArgument, "negative argument index"},
		{entryArg, nil, vm.StatusBadArgument, "argument in entry frame"},
		{shortReturn, nil, vm.StatusStackUnderflow, "return size larger than the callee's stack"},
		{badTarget, nil, vm.StatusBadCallTarget, "call past image end"},
		{truncated, nil, vm.StatusTruncated, "operand cut short"},
		{looping, []vm.Option{vm.WithMaxSteps(2)}, vm.StatusStepLimit, "step budget"},
	}

	for _, test := range tests {
		opts := append([]vm.Option{vm.WithStackSize(256)}, test.opts...)
		_, status, sink := run(test.b, opts...)
		if status != test.status {
			t.Errorf("%s: expected status %s, got %s", test.description, test.status, status)
		}
		if sink.Len() != 1 {
			t.Errorf("%s: expected one message, got %q", test.description, sink.Messages())
		}
	}
}

func TestStackCapacityBoundary(t *testing.T) {
	program := func() *bytecode.Builder {
		b := bytecode.NewBuilder()
		b.PushS32(1)
		b.PushS32(2)
		b.PushS32(3)
		b.PushS32(4)
		b.AddS32()
		b.AddS32()
		b.Ret()
		return b
	}

	// 16 bytes hold three s32 values; the fourth push would reach capacity
	_, status, sink := run(program(), vm.WithStackSize(16))
	if status != vm.StatusStackOverflow {
		t.Errorf("abort: expected status %s, got %s", vm.StatusStackOverflow, status)
	}
	if msgs := sink.Messages(); len(msgs) != 1 || msgs[0] != "stack overflow at 26" {
		t.Errorf("abort: unexpected messages %q", msgs)
	}

	got, status, sink := run(program(), vm.WithStackSize(16), vm.WithOverflowPolicy(vm.OverflowRecord))
	if status != vm.StatusOK {
		t.Errorf("record: expected status ok, got %s", status)
	}
	if got != 6 {
		t.Errorf("record: expected the skipped push to leave 1+2+3, got %d", got)
	}
	if msgs := sink.Messages(); len(msgs) != 1 || msgs[0] != "stack overflow" {
		t.Errorf("record: unexpected messages %q", msgs)
	}
}

func TestRecordedOverflowDuringCall(t *testing.T) {
	call := func() *bytecode.Builder {
		b := bytecode.NewBuilder()
		f := b.Func(1, 4)
		b.LargS32(0)
		b.Ret()
		b.SetEntry(b.Offset())
		b.Call(f, 7)
		b.Ret()
		return b
	}

	tests := []struct {
		size        int
		overflows   int
		description string
	}{
		{20, 1, "argument push skipped"},
		{12, 3, "header and argument pushes skipped"},
	}

	for _, test := range tests {
		m := vm.New(vm.WithStackSize(test.size), vm.WithOverflowPolicy(vm.OverflowRecord))
		sink := &vm.ErrorStream{}

		_, err := m.Run(call().CodeUnit(), sink)
		if status := vm.StatusOf(err); status != vm.StatusBadArgument {
			t.Errorf("%s: expected status %s, got %s", test.description, vm.StatusBadArgument, status)
		}

		msgs := sink.Messages()
		if len(msgs) != test.overflows+1 {
			t.Errorf("%s: expected %d overflows and a fault, got %q", test.description, test.overflows, msgs)
			continue
		}
		for _, msg := range msgs[:test.overflows] {
			if msg != "stack overflow" {
				t.Errorf("%s: expected recorded overflow, got %q", test.description, msg)
			}
		}
	}
}

func TestVMReuse(t *testing.T) {
	m := vm.New(vm.WithStackSize(1024))

	first, _, _ := nestedProgram()
	if v, err := m.Run(first.CodeUnit(), nil); err != nil || v != 113 {
		t.Fatalf("first run: expected 113, got %d (%v)", v, err)
	}

	second := bytecode.NewBuilder()
	second.PushS32(40)
	second.PushS32(2)
	second.AddS32()
	second.Ret()
	if v, err := m.Run(second.CodeUnit(), nil); err != nil || v != 42 {
		t.Fatalf("second run: expected 42, got %d (%v)", v, err)
	}
	if m.Cursor() != 0 {
		t.Errorf("expected empty stack after run, cursor %d", m.Cursor())
	}
}

func TestIndependentVMsRunConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]int32, 8)
	errs := make([]error, 8)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := bytecode.NewBuilder()
			add := b.Func(2, 4)
			b.LargS32(0)
			b.LargS32(1)
			b.AddS32()
			b.Ret()
			b.SetEntry(b.Offset())
			b.Call(add, int32(i), 1000)
			b.Ret()

			results[i], errs[i] = vm.New(vm.WithStackSize(4096)).Run(b.CodeUnit(), nil)
		}(i)
	}
	wg.Wait()

	for i, v := range results {
		if errs[i] != nil {
			t.Errorf("vm %d: %v", i, errs[i])
		}
		if v != int32(1000+i) {
			t.Errorf("vm %d: expected %d, got %d", i, 1000+i, v)
		}
	}
}

func TestStepBeforeLoad(t *testing.T) {
	if _, err := vm.New(vm.WithStackSize(16)).Step(); !errors.Is(err, vm.ErrNotLoaded) {
		t.Errorf("expected %v, got %v", vm.ErrNotLoaded, err)
	}
}
