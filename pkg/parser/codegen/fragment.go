package codegen

import (
	"fmt"
	"slvm/pkg/bytecode"
)

// Instruction is one emitted bytecode instruction. Operand is ignored for
// opcodes that take none.
type Instruction struct {
	Op      bytecode.Opcode
	Operand int32
}

func (i Instruction) String() string {
	if i.Op == bytecode.OpPushS32 {
		return fmt.Sprintf("%s %d", i.Op, i.Operand)
	}
	return i.Op.String()
}

// fragment is the code computing one expression together with the value
// it leaves on the stack. Programs read no input, so every value is known
// while compiling.
type fragment struct {
	code  []Instruction
	value int32
}

func constant(v int32) *fragment {
	return &fragment{code: []Instruction{{Op: bytecode.OpPushS32, Operand: v}}, value: v}
}

// join concatenates the code of both operands and applies op to them.
func join(left, right *fragment, op bytecode.Opcode, value int32) *fragment {
	code := make([]Instruction, 0, len(left.code)+len(right.code)+1)
	code = append(code, left.code...)
	code = append(code, right.code...)
	code = append(code, Instruction{Op: op})
	return &fragment{code: code, value: value}
}
