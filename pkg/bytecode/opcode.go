package bytecode

import "fmt"

// Opcode is the 16-bit tag that starts every instruction.
type Opcode uint16

const (
	OpPushS32 Opcode = iota // push_s32 <s32>
	OpPopS32                // pop_s32
	OpAddS32                // add_s32
	OpSubS32                // sub_s32
	OpFunc                  // func <argc:u32> <retSize:u32>
	OpCall                  // call <target:u32> <arg:s32>*argc
	OpRet                   // ret
	OpLargS32               // larg_s32 <index:s32>
)

// OperandKind describes how one encoded operand is interpreted.
type OperandKind int

const (
	S32 OperandKind = iota
	U32
	Addr
)

// Every operand in the instruction set is four bytes wide.
const OperandWidth = 4

// OpcodeWidth is the size of the opcode tag.
const OpcodeWidth = 2

type Definition struct {
	Name     string
	Operands []OperandKind
	// InlineArgs marks call: after the fixed operands come as many s32
	// argument words as the callee prologue declares.
	InlineArgs bool
}

// Width returns the encoded size of the fixed part of the instruction,
// tag included.
func (d *Definition) Width() int {
	return OpcodeWidth + len(d.Operands)*OperandWidth
}

var definitions = map[Opcode]*Definition{
	OpPushS32: {"push_s32", []OperandKind{S32}, false},
	OpPopS32:  {"pop_s32", nil, false},
	OpAddS32:  {"add_s32", nil, false},
	OpSubS32:  {"sub_s32", nil, false},
	OpFunc:    {"func", []OperandKind{U32, U32}, false},
	OpCall:    {"call", []OperandKind{Addr}, true},
	OpRet:     {"ret", nil, false},
	OpLargS32: {"larg_s32", []OperandKind{S32}, false},
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(definitions))
	for op, def := range definitions {
		m[def.Name] = op
	}
	return m
}()

// Lookup returns the definition of op, or false when op is outside the
// instruction set.
func Lookup(op Opcode) (*Definition, bool) {
	def, ok := definitions[op]
	return def, ok
}

// LookupName maps a mnemonic back to its opcode.
func LookupName(name string) (Opcode, bool) {
	op, ok := byName[name]
	return op, ok
}

func (op Opcode) String() string {
	if def, ok := definitions[op]; ok {
		return def.Name
	}
	return fmt.Sprintf("unknown(%d)", uint16(op))
}
