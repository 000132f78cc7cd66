package bytecode

import (
	"errors"
	"fmt"
	"slvm/pkg/codec"
	"strconv"
	"strings"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Offset   int     // offset of the opcode tag
	Op       Opcode  // decoded tag
	Operands []int64 // operands in source order; call arguments follow the target
	Width    int     // encoded size, tag and inline arguments included
}

func (ins Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(ins.Op.String())
	for _, o := range ins.Operands {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(o, 10))
	}
	return sb.String()
}

var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrTruncated     = errors.New("truncated instruction")
	ErrBadCallTarget = errors.New("call target outside image")
)

// Decode reads the instruction whose tag starts at pos.
func Decode(code []byte, pos int) (Instruction, error) {
	ins := Instruction{Offset: pos}
	if pos+OpcodeWidth > len(code) {
		return ins, ErrTruncated
	}

	cur := pos
	ins.Op = Opcode(codec.ReadU16(code, &cur))
	def, ok := Lookup(ins.Op)
	if !ok {
		return ins, fmt.Errorf("%w %d at %d", ErrUnknownOpcode, uint16(ins.Op), pos)
	}

	if cur+len(def.Operands)*OperandWidth > len(code) {
		return ins, fmt.Errorf("%w: %s at %d", ErrTruncated, def.Name, pos)
	}
	for _, kind := range def.Operands {
		switch kind {
		case S32:
			ins.Operands = append(ins.Operands, int64(codec.ReadS32(code, &cur)))
		default:
			ins.Operands = append(ins.Operands, int64(codec.ReadU32(code, &cur)))
		}
	}

	if def.InlineArgs {
		target := int(ins.Operands[0])
		if target+OperandWidth > len(code) {
			return ins, fmt.Errorf("%w: %d at %d", ErrBadCallTarget, target, pos)
		}
		tp := target
		argc := int(codec.ReadU32(code, &tp))
		if cur+argc*OperandWidth > len(code) {
			return ins, fmt.Errorf("%w: %s at %d", ErrTruncated, def.Name, pos)
		}
		for i := 0; i < argc; i++ {
			ins.Operands = append(ins.Operands, int64(codec.ReadS32(code, &cur)))
		}
	}

	ins.Width = cur - pos
	return ins, nil
}

// Instructions decodes the image linearly from the end of the header. On a
// decode error it returns what was decoded so far together with the error.
func Instructions(cu *CodeUnit) ([]Instruction, error) {
	code := cu.Bytes()
	var out []Instruction

	for pos := HeaderSize; pos < len(code); {
		ins, err := Decode(code, pos)
		if err != nil {
			return out, err
		}
		out = append(out, ins)
		pos += ins.Width
	}

	return out, nil
}

// Disassemble renders the image as one mnemonic line per instruction.
// Decoding stops at the first instruction that cannot be decoded; that
// instruction is rendered as a final "unknown <tag>" or "truncated" line.
func Disassemble(cu *CodeUnit) string {
	var out strings.Builder

	list, err := Instructions(cu)
	for _, ins := range list {
		out.WriteString(ins.String())
		out.WriteByte('\n')
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownOpcode):
		code := cu.Bytes()
		pos := HeaderSize
		if len(list) > 0 {
			last := list[len(list)-1]
			pos = last.Offset + last.Width
		}
		fmt.Fprintf(&out, "unknown %d\n", codec.ReadU16(code, &pos))
	case errors.Is(err, ErrBadCallTarget):
		out.WriteString("bad call target\n")
	default:
		fmt.Fprintf(&out, "truncated\n")
	}

	return out.String()
}
