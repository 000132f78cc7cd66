package vm

import (
	"slvm/pkg/codec"
)

// DefaultStackSize is the capacity of a VM's stack memory.
const DefaultStackSize = 8 * 1024 * 1024

// Stack is one fixed-capacity byte region with a single growth cursor.
// Every frame header, argument and temporary lives in it.
//
// A push that would bring the cursor to or past the capacity fails with
// ErrStackOverflow and leaves the stack untouched. A pop that would move
// the cursor below the floor fails with ErrStackUnderflow.
type Stack struct {
	buf   []byte
	cur   int
	floor int
}

// NewStack allocates a stack of the given capacity.
func NewStack(size int) *Stack {
	return &Stack{buf: make([]byte, size)}
}

// Reset empties the stack without releasing its memory.
func (s *Stack) Reset() {
	s.cur = 0
	s.floor = 0
}

// Cap returns the capacity in bytes.
func (s *Stack) Cap() int { return len(s.buf) }

// Len returns the cursor: the offset of the next free byte.
func (s *Stack) Len() int { return s.cur }

// SetFloor sets the lowest offset a pop may reach.
func (s *Stack) SetFloor(off int) { s.floor = off }

// Floor returns the lowest offset a pop may reach.
func (s *Stack) Floor() int { return s.floor }

func (s *Stack) reserve(width int) (int, error) {
	if s.cur+width >= len(s.buf) {
		return 0, ErrStackOverflow
	}
	pos := s.cur
	s.cur += width
	return pos, nil
}

func (s *Stack) release(width int) (int, error) {
	if s.cur-width < s.floor {
		return 0, ErrStackUnderflow
	}
	s.cur -= width
	return s.cur, nil
}

func (s *Stack) PushU8(v uint8) error {
	pos, err := s.reserve(codec.Width8)
	if err == nil {
		codec.PutU8(s.buf, &pos, v)
	}
	return err
}

func (s *Stack) PushS8(v int8) error { return s.PushU8(uint8(v)) }

func (s *Stack) PushU16(v uint16) error {
	pos, err := s.reserve(codec.Width16)
	if err == nil {
		codec.PutU16(s.buf, &pos, v)
	}
	return err
}

func (s *Stack) PushS16(v int16) error { return s.PushU16(uint16(v)) }

func (s *Stack) PushU32(v uint32) error {
	pos, err := s.reserve(codec.Width32)
	if err == nil {
		codec.PutU32(s.buf, &pos, v)
	}
	return err
}

func (s *Stack) PushS32(v int32) error { return s.PushU32(uint32(v)) }

func (s *Stack) PushU64(v uint64) error {
	pos, err := s.reserve(codec.Width64)
	if err == nil {
		codec.PutU64(s.buf, &pos, v)
	}
	return err
}

func (s *Stack) PushS64(v int64) error { return s.PushU64(uint64(v)) }

func (s *Stack) PushF32(v float32) error {
	pos, err := s.reserve(codec.Width32)
	if err == nil {
		codec.PutF32(s.buf, &pos, v)
	}
	return err
}

func (s *Stack) PushF64(v float64) error {
	pos, err := s.reserve(codec.Width64)
	if err == nil {
		codec.PutF64(s.buf, &pos, v)
	}
	return err
}

func (s *Stack) PopU8() (uint8, error) {
	pos, err := s.release(codec.Width8)
	if err != nil {
		return 0, err
	}
	return codec.ReadU8(s.buf, &pos), nil
}

func (s *Stack) PopS8() (int8, error) {
	v, err := s.PopU8()
	return int8(v), err
}

func (s *Stack) PopU16() (uint16, error) {
	pos, err := s.release(codec.Width16)
	if err != nil {
		return 0, err
	}
	return codec.ReadU16(s.buf, &pos), nil
}

func (s *Stack) PopS16() (int16, error) {
	v, err := s.PopU16()
	return int16(v), err
}

func (s *Stack) PopU32() (uint32, error) {
	pos, err := s.release(codec.Width32)
	if err != nil {
		return 0, err
	}
	return codec.ReadU32(s.buf, &pos), nil
}

func (s *Stack) PopS32() (int32, error) {
	v, err := s.PopU32()
	return int32(v), err
}

func (s *Stack) PopU64() (uint64, error) {
	pos, err := s.release(codec.Width64)
	if err != nil {
		return 0, err
	}
	return codec.ReadU64(s.buf, &pos), nil
}

func (s *Stack) PopS64() (int64, error) {
	v, err := s.PopU64()
	return int64(v), err
}

func (s *Stack) PopF32() (float32, error) {
	pos, err := s.release(codec.Width32)
	if err != nil {
		return 0, err
	}
	return codec.ReadF32(s.buf, &pos), nil
}

func (s *Stack) PopF64() (float64, error) {
	pos, err := s.release(codec.Width64)
	if err != nil {
		return 0, err
	}
	return codec.ReadF64(s.buf, &pos), nil
}

// ReadU32At decodes the word at off without moving the cursor.
func (s *Stack) ReadU32At(off int) uint32 {
	return codec.ReadU32(s.buf, &off)
}

// ReadS32At decodes the s32 at off without moving the cursor.
func (s *Stack) ReadS32At(off int) int32 {
	return codec.ReadS32(s.buf, &off)
}

// CopyRange copies size bytes from one offset to another. The ranges may
// overlap.
func (s *Stack) CopyRange(from, to, size int) {
	copy(s.buf[to:to+size], s.buf[from:from+size])
}

// Truncate moves the cursor back to off, discarding everything above it.
func (s *Stack) Truncate(off int) {
	s.cur = off
}

// PushRange copies size bytes starting at from onto the top of the stack.
// The source must lie below the cursor, so the copy never grows the stack
// past a height it already reached.
func (s *Stack) PushRange(from, size int) {
	s.CopyRange(from, s.cur, size)
	s.cur += size
}
