package bytecode

import (
	"slvm/pkg/codec"
)

// Builder constructs a bytecode image. The header is written up front with
// the entry point at the first instruction; SetEntry moves it.
type Builder struct {
	bytes []byte
}

// NewBuilder creates a builder holding only the image header.
func NewBuilder() *Builder {
	b := &Builder{bytes: make([]byte, 0, 64)}
	b.bytes = append(b.bytes, Magic[:]...)
	b.bytes = codec.AppendU32(b.bytes, HeaderSize)
	return b
}

// Offset returns the offset the next emitted byte will occupy.
func (b *Builder) Offset() uint32 {
	return uint32(len(b.bytes))
}

// SetEntry points the header's entry word at off.
func (b *Builder) SetEntry(off uint32) {
	b.PatchU32(uint32(len(Magic)), off)
}

// PatchU32 overwrites the four bytes at off.
func (b *Builder) PatchU32(off uint32, v uint32) {
	pos := int(off)
	codec.PutU32(b.bytes, &pos, v)
}

// Emit appends an opcode tag with no operands.
func (b *Builder) Emit(op Opcode) {
	b.bytes = codec.AppendU16(b.bytes, uint16(op))
}

// EmitRaw appends raw bytes to the image.
func (b *Builder) EmitRaw(data ...byte) {
	b.bytes = append(b.bytes, data...)
}

// EmitS32 appends an opcode followed by a single s32 operand.
func (b *Builder) EmitS32(op Opcode, operand int32) {
	b.Emit(op)
	b.bytes = codec.AppendS32(b.bytes, operand)
}

func (b *Builder) PushS32(v int32) { b.EmitS32(OpPushS32, v) }
func (b *Builder) PopS32()         { b.Emit(OpPopS32) }
func (b *Builder) AddS32()         { b.Emit(OpAddS32) }
func (b *Builder) SubS32()         { b.Emit(OpSubS32) }
func (b *Builder) Ret()            { b.Emit(OpRet) }
func (b *Builder) LargS32(i int32) { b.EmitS32(OpLargS32, i) }

// Func emits a func marker and its prologue, and returns the call target:
// the offset of the prologue's argument-count word.
func (b *Builder) Func(argc, retSize uint32) uint32 {
	b.Emit(OpFunc)
	target := b.Offset()
	b.bytes = codec.AppendU32(b.bytes, argc)
	b.bytes = codec.AppendU32(b.bytes, retSize)
	return target
}

// Call emits a call to target with inline arguments. It returns the offset
// of the target word so forward references can be patched later.
func (b *Builder) Call(target uint32, args ...int32) uint32 {
	b.Emit(OpCall)
	at := b.Offset()
	b.bytes = codec.AppendU32(b.bytes, target)
	for _, a := range args {
		b.bytes = codec.AppendS32(b.bytes, a)
	}
	return at
}

// Bytes returns the image built so far.
func (b *Builder) Bytes() []byte {
	return b.bytes
}

// CodeUnit returns a snapshot of the image.
func (b *Builder) CodeUnit() *CodeUnit {
	return NewCodeUnit(b.bytes)
}
