package bytecode

import (
	"bytes"
	"errors"
	"slvm/pkg/codec"
)

// Magic is the signature every image starts with.
var Magic = [4]byte{0x80, 0x00, 0x00, 0x8A}

// HeaderSize is the size of the magic mask plus the entry-point word.
const HeaderSize = 8

// CodeUnit is an immutable bytecode image: header followed by instructions.
type CodeUnit struct {
	bytes []byte
}

// NewCodeUnit copies b into a new CodeUnit. No validation happens here;
// see Validate.
func NewCodeUnit(b []byte) *CodeUnit {
	return &CodeUnit{bytes: append([]byte(nil), b...)}
}

// Bytes returns the image. Callers must not modify it.
func (c *CodeUnit) Bytes() []byte {
	return c.bytes
}

// Len returns the image length in bytes.
func (c *CodeUnit) Len() int {
	return len(c.bytes)
}

// HasMagic reports whether b starts with the magic mask.
func HasMagic(b []byte) bool {
	return len(b) >= len(Magic) && bytes.Equal(b[:len(Magic)], Magic[:])
}

// Validate checks the header and returns the entry-point offset.
func (c *CodeUnit) Validate() (uint32, error) {
	if !HasMagic(c.bytes) {
		return 0, ErrBadMask
	}
	if len(c.bytes) < HeaderSize {
		return 0, ErrBadEntry
	}

	pos := len(Magic)
	entry := codec.ReadU32(c.bytes, &pos)
	if entry < HeaderSize || int(entry) > len(c.bytes) {
		return 0, ErrBadEntry
	}

	return entry, nil
}

var (
	ErrBadMask  = errors.New("incorrect executable: wrong mask")
	ErrBadEntry = errors.New("incorrect executable: entry function in wrong position")
)
