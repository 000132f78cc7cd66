// Package codec translates between byte buffers and fixed-width
// little-endian numeric values.
//
// Every Read function decodes the value at buf[*pos] and advances *pos by
// the value's width; every Put function encodes at buf[*pos] and advances
// likewise. The caller guarantees that at least width bytes remain at the
// cursor. No bounds validation happens here.
package codec

import (
	"encoding/binary"
	"math"
)

// Widths of the fixed-size encodings, in bytes.
const (
	Width8  = 1
	Width16 = 2
	Width32 = 4
	Width64 = 8
)

var le = binary.LittleEndian

func ReadU8(buf []byte, pos *int) uint8 {
	v := buf[*pos]
	*pos += Width8
	return v
}

func ReadS8(buf []byte, pos *int) int8 {
	return int8(ReadU8(buf, pos))
}

func ReadU16(buf []byte, pos *int) uint16 {
	v := le.Uint16(buf[*pos:])
	*pos += Width16
	return v
}

func ReadS16(buf []byte, pos *int) int16 {
	return int16(ReadU16(buf, pos))
}

func ReadU32(buf []byte, pos *int) uint32 {
	v := le.Uint32(buf[*pos:])
	*pos += Width32
	return v
}

func ReadS32(buf []byte, pos *int) int32 {
	return int32(ReadU32(buf, pos))
}

func ReadU64(buf []byte, pos *int) uint64 {
	v := le.Uint64(buf[*pos:])
	*pos += Width64
	return v
}

func ReadS64(buf []byte, pos *int) int64 {
	return int64(ReadU64(buf, pos))
}

// ReadF32 reinterprets the next four bytes as an IEEE-754 single. The bit
// pattern is preserved exactly, NaN payloads included.
func ReadF32(buf []byte, pos *int) float32 {
	return math.Float32frombits(ReadU32(buf, pos))
}

// ReadF64 reinterprets the next eight bytes as an IEEE-754 double.
func ReadF64(buf []byte, pos *int) float64 {
	return math.Float64frombits(ReadU64(buf, pos))
}

func PutU8(buf []byte, pos *int, v uint8) {
	buf[*pos] = v
	*pos += Width8
}

func PutS8(buf []byte, pos *int, v int8) {
	PutU8(buf, pos, uint8(v))
}

func PutU16(buf []byte, pos *int, v uint16) {
	le.PutUint16(buf[*pos:], v)
	*pos += Width16
}

func PutS16(buf []byte, pos *int, v int16) {
	PutU16(buf, pos, uint16(v))
}

func PutU32(buf []byte, pos *int, v uint32) {
	le.PutUint32(buf[*pos:], v)
	*pos += Width32
}

func PutS32(buf []byte, pos *int, v int32) {
	PutU32(buf, pos, uint32(v))
}

func PutU64(buf []byte, pos *int, v uint64) {
	le.PutUint64(buf[*pos:], v)
	*pos += Width64
}

func PutS64(buf []byte, pos *int, v int64) {
	PutU64(buf, pos, uint64(v))
}

func PutF32(buf []byte, pos *int, v float32) {
	PutU32(buf, pos, math.Float32bits(v))
}

func PutF64(buf []byte, pos *int, v float64) {
	PutU64(buf, pos, math.Float64bits(v))
}

// AppendU16 appends the little-endian encoding of v to buf.
func AppendU16(buf []byte, v uint16) []byte {
	return le.AppendUint16(buf, v)
}

// AppendU32 appends the little-endian encoding of v to buf.
func AppendU32(buf []byte, v uint32) []byte {
	return le.AppendUint32(buf, v)
}

// AppendS32 appends the little-endian two's complement encoding of v to buf.
func AppendS32(buf []byte, v int32) []byte {
	return le.AppendUint32(buf, uint32(v))
}
