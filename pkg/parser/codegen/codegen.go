// Package codegen turns the semantic actions of the source parser into a
// bytecode image. Addition and subtraction are emitted as add_s32 and
// sub_s32; multiplication, division and remainder have no instruction and
// are folded while compiling.
package codegen

import (
	"slvm/pkg/bytecode"
	"slvm/pkg/lexer"
	"slvm/pkg/parser/stack"
)

type Codegen struct {
	ss           *stack.Stack[*fragment] // Semantic stack
	pb           []Instruction           // Program block, complete once a return is seen
	currentToken lexer.Token             // Current token being processed
	target       lexer.Token             // Variable of the statement being compiled
	symbolTable  map[string]int32        // Variable values
	returned     bool                    // A return statement was compiled
	unreachable  bool                    // Code after the return was reported
	errors       []string                // List of semantic errors
}

// NewCodegen creates a new Codegen instance
func NewCodegen() *Codegen {
	return &Codegen{
		ss:          stack.NewStack[*fragment](),
		pb:          make([]Instruction, 0),
		symbolTable: make(map[string]int32),
	}
}

// SetCurrentToken sets the current token being processed
func (c *Codegen) SetCurrentToken(token lexer.Token) {
	c.currentToken = token
}

// GetProgram returns the generated program block
func (c *Codegen) GetProgram() []Instruction {
	return c.pb
}

// CodeUnit assembles the program block into an image entered at its
// first instruction.
func (c *Codegen) CodeUnit() *bytecode.CodeUnit {
	b := bytecode.NewBuilder()
	for _, in := range c.pb {
		if def, ok := bytecode.Lookup(in.Op); ok && len(def.Operands) == 1 {
			b.EmitS32(in.Op, in.Operand)
		} else {
			b.Emit(in.Op)
		}
	}
	return b.CodeUnit()
}

// Value returns the value bound to name.
func (c *Codegen) Value(name string) (int32, bool) {
	v, ok := c.symbolTable[name]
	return v, ok
}

func (c *Codegen) push(f *fragment) {
	c.ss.Push(f)
}

// pop removes n fragments and returns them bottom first, or nil when a
// syntax error left the stack short.
func (c *Codegen) pop(n int) []*fragment {
	if c.ss.Size() < n {
		for c.ss.Size() > 0 {
			c.ss.Pop()
		}
		return nil
	}

	out := make([]*fragment, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = c.ss.Pop()
	}
	return out
}
