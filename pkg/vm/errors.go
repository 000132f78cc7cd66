package vm

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the integer outcome of a run. Each fatal condition has its own
// code so a host can tell them apart without parsing messages.
type Status int

const (
	StatusFailed         Status = -1 // error did not come from the VM
	StatusOK             Status = 0
	StatusBadMask        Status = 1
	StatusBadEntry       Status = 2
	StatusUnknownOpcode  Status = 3
	StatusStackOverflow  Status = 4
	StatusStackUnderflow Status = 5
	StatusTruncated      Status = 6
	StatusBadArgument    Status = 7
	StatusBadCallTarget  Status = 8
	StatusStepLimit      Status = 9
)

var statusNames = map[Status]string{
	StatusFailed:         "failed",
	StatusOK:             "ok",
	StatusBadMask:        "bad mask",
	StatusBadEntry:       "bad entry",
	StatusUnknownOpcode:  "unknown opcode",
	StatusStackOverflow:  "stack overflow",
	StatusStackUnderflow: "stack underflow",
	StatusTruncated:      "truncated instruction",
	StatusBadArgument:    "bad argument",
	StatusBadCallTarget:  "bad call target",
	StatusStepLimit:      "step limit",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Fault is a fatal condition that stopped a run.
type Fault struct {
	Status Status
	PC     int // offset of the instruction that raised it; 0 for load-time faults
	Err    error
}

func (f *Fault) Error() string {
	if f.Status == StatusBadMask || f.Status == StatusBadEntry {
		return f.Err.Error()
	}
	return fmt.Sprintf("%v at %d", f.Err, f.PC)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// StatusOf extracts the run status from an error returned by the VM.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}

	var f *Fault
	if errors.As(err, &f) {
		return f.Status
	}

	return StatusFailed
}

var (
	ErrStackOverflow    = errors.New("stack overflow")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrTruncated        = errors.New("truncated instruction")
	ErrBadArgument      = errors.New("argument index out of range")
	ErrBadCallTarget    = errors.New("call target outside image")
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
	ErrNotLoaded        = errors.New("no code unit loaded")
)

// Sink receives diagnostic messages from a run. The VM only appends.
type Sink interface {
	Push(message string)
}

// ErrorStream is an append-only, ordered Sink.
type ErrorStream struct {
	messages []string
}

func (e *ErrorStream) Push(message string) {
	e.messages = append(e.messages, message)
}

// Len returns the number of recorded messages.
func (e *ErrorStream) Len() int {
	return len(e.messages)
}

// Messages returns a copy of the recorded messages, oldest first.
func (e *ErrorStream) Messages() []string {
	return append([]string(nil), e.messages...)
}

func (e *ErrorStream) String() string {
	var sb strings.Builder
	for _, m := range e.messages {
		sb.WriteString("Error: ")
		sb.WriteString(m)
		sb.WriteByte('\n')
	}
	return sb.String()
}

type discard struct{}

func (discard) Push(string) {}
