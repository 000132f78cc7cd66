// Package asm assembles the textual instruction listing into a bytecode
// image. Its input grammar is line oriented:
//
//	.entry <label|number>
//	<label>:
//	func [name] <argc> <retSize>
//	call <label|number> <arg>*
//	push_s32 <int> | pop_s32 | add_s32 | sub_s32 | ret | larg_s32 <int>
//
// Comments start with // or ; and run to the end of the line. The output of
// bytecode.Disassemble is valid input.
package asm

import (
	"fmt"
	"math"
	"slvm/pkg/bytecode"
	"strconv"
	"strings"
)

// reference is a use of a label or numeric call target, resolved after the
// whole source has been read.
type reference struct {
	label  string   // empty for numeric targets
	target uint32   // numeric target
	at     uint32   // offset of the word to patch
	argc   int      // inline argument count, -1 when not a call
	pos    Position // source position of the operand
}

type Assembler struct {
	lexer        *Lexer
	currentToken Token

	b       *bytecode.Builder
	labels  map[string]uint32 // label -> offset
	pending []string          // labels bound to the current offset
	funcs   map[uint32]uint32 // call target -> declared argc
	refs    []reference
	entry   *reference

	errors ErrorList
}

// NewAssembler creates an assembler reading src.
func NewAssembler(src string) *Assembler {
	return &Assembler{
		lexer:  NewLexer(src),
		b:      bytecode.NewBuilder(),
		labels: make(map[string]uint32),
		funcs:  make(map[uint32]uint32),
	}
}

// Assemble translates src into a bytecode image. All errors found in src
// are returned together as an ErrorList.
func Assemble(src string) (*bytecode.CodeUnit, error) {
	a := NewAssembler(src)
	a.Parse()

	if len(a.errors) > 0 {
		return nil, a.errors
	}

	return a.b.CodeUnit(), nil
}

// Errors returns the list of assembly errors
func (a *Assembler) Errors() ErrorList {
	return a.errors
}

// Parse reads the whole source and resolves label references.
func (a *Assembler) Parse() {
	a.next()

	for a.currentToken.Type != EOF {
		a.line()
	}

	a.resolve()
}

func (a *Assembler) next() {
	a.currentToken = a.lexer.NextToken()
}

// line parses one label, directive or instruction.
func (a *Assembler) line() {
	tok := a.currentToken

	switch tok.Type {
	case NEWLINE:
		a.next()
		return

	case DIRECTIVE:
		if !a.directive() {
			a.skipLine()
			return
		}

	case IDENT:
		if a.lexer.Peek().Type == COLON {
			a.defineLabel(tok.Literal, tok.Pos)
			a.next() // label
			a.next() // :
			return
		}
		if !a.instruction() {
			a.skipLine()
			return
		}

	case ILLEGAL:
		a.addError(fmt.Sprintf("Illegal character %q", tok.Lexeme))
		a.skipLine()
		return

	default:
		a.addError(fmt.Sprintf("Unexpected %q", tok.Lexeme))
		a.skipLine()
		return
	}

	a.endLine()
}

// endLine expects the end of the current line.
func (a *Assembler) endLine() {
	switch a.currentToken.Type {
	case NEWLINE:
		a.next()
	case EOF:
	default:
		a.addError(a.categorizeError(NEWLINE, a.currentToken))
		a.skipLine()
	}
}

// skipLine drops the rest of the current line after an error.
func (a *Assembler) skipLine() {
	for a.currentToken.Type != NEWLINE && a.currentToken.Type != EOF {
		a.next()
	}
	if a.currentToken.Type == NEWLINE {
		a.next()
	}
}

func (a *Assembler) defineLabel(name string, pos Position) {
	if _, ok := a.labels[name]; ok {
		a.addErrorAt(pos, fmt.Sprintf("Label %q redefined", name))
		return
	}
	a.labels[name] = a.b.Offset()
	a.pending = append(a.pending, name)
}

func (a *Assembler) directive() bool {
	tok := a.currentToken
	a.next()

	switch tok.Literal {
	case "entry":
		if a.entry != nil {
			a.addErrorAt(tok.Pos, "Entry point redefined")
			return false
		}
		ref, ok := a.target(-1)
		if !ok {
			return false
		}
		a.entry = &ref
		return true
	}

	a.addErrorAt(tok.Pos, fmt.Sprintf("Unknown directive %q", tok.Lexeme))
	return false
}

func (a *Assembler) instruction() bool {
	tok := a.currentToken
	op, ok := bytecode.LookupName(tok.Literal)
	if !ok {
		a.addError(fmt.Sprintf("Unknown instruction %q", tok.Lexeme))
		return false
	}
	a.next()

	// labels waiting on this offset now name the instruction, except for
	// func, where they name the call target instead
	pending := a.pending
	a.pending = nil

	switch op {
	case bytecode.OpPushS32, bytecode.OpLargS32:
		v, ok := a.number(math.MinInt32, math.MaxInt32)
		if !ok {
			return false
		}
		a.b.EmitS32(op, int32(v))

	case bytecode.OpFunc:
		var name Token
		if a.currentToken.Type == IDENT {
			name = a.currentToken
			a.next()
		}
		argc, ok := a.number(0, math.MaxUint32)
		if !ok {
			return false
		}
		retSize, ok := a.number(0, math.MaxUint32)
		if !ok {
			return false
		}

		target := a.b.Func(uint32(argc), uint32(retSize))
		a.funcs[target] = uint32(argc)
		for _, l := range pending {
			a.labels[l] = target
		}
		if name.Type == IDENT {
			if _, ok := a.labels[name.Literal]; ok {
				a.addErrorAt(name.Pos, fmt.Sprintf("Label %q redefined", name.Literal))
			} else {
				a.labels[name.Literal] = target
			}
		}

	case bytecode.OpCall:
		ref, ok := a.target(0)
		if !ok {
			return false
		}

		var args []int32
		for a.currentToken.Type == NUM {
			v, ok := a.number(math.MinInt32, math.MaxInt32)
			if !ok {
				return false
			}
			args = append(args, int32(v))
		}

		ref.argc = len(args)
		ref.at = a.b.Call(ref.target, args...)
		a.refs = append(a.refs, ref)

	default:
		a.b.Emit(op)
	}

	return true
}

// target reads a label or numeric address operand.
func (a *Assembler) target(argc int) (reference, bool) {
	tok := a.currentToken
	ref := reference{argc: argc, pos: tok.Pos}

	switch tok.Type {
	case IDENT:
		ref.label = tok.Literal
		a.next()
		return ref, true
	case NUM:
		v, ok := a.number(0, math.MaxUint32)
		ref.target = uint32(v)
		return ref, ok
	}

	a.addError(a.categorizeError(IDENT, tok))
	return ref, false
}

// number reads an integer operand in [lo, hi].
func (a *Assembler) number(lo, hi int64) (int64, bool) {
	tok := a.currentToken
	if tok.Type != NUM {
		a.addError(a.categorizeError(NUM, tok))
		return 0, false
	}

	v, err := parseNum(tok.Literal)
	if err != nil || v < lo || v > hi {
		a.addError(fmt.Sprintf("Number %s out of range", tok.Lexeme))
		return 0, false
	}

	a.next()
	return v, true
}

// parseNum reads a decimal or 0x-prefixed hexadecimal integer. Leading
// zeros are decimal.
func parseNum(s string) (int64, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}

	u, err := strconv.ParseUint(s, base, 63)
	if err != nil {
		return 0, err
	}

	v := int64(u)
	if neg {
		v = -v
	}
	return v, nil
}

// resolve patches label references and checks call argument counts.
func (a *Assembler) resolve() {
	for _, ref := range a.refs {
		target, ok := a.lookup(ref)
		if !ok {
			continue
		}

		argc, isFunc := a.funcs[target]
		switch {
		case isFunc && int(argc) != ref.argc:
			a.addErrorAt(ref.pos, fmt.Sprintf("Call passes %d arguments, callee takes %d", ref.argc, argc))
		case !isFunc && ref.label != "":
			a.addErrorAt(ref.pos, fmt.Sprintf("Label %q is not a func", ref.label))
		case ref.label != "":
			a.b.PatchU32(ref.at, target)
		}
	}

	if a.entry != nil {
		if target, ok := a.lookup(*a.entry); ok {
			// a func label names the prologue; execution starts at its body
			if _, isFunc := a.funcs[target]; isFunc && a.entry.label != "" {
				target += 2 * bytecode.OperandWidth
			}
			if target > a.b.Offset() {
				a.addErrorAt(a.entry.pos, fmt.Sprintf("Entry point %d outside image", target))
			} else {
				a.b.SetEntry(target)
			}
		}
	}
}

func (a *Assembler) lookup(ref reference) (uint32, bool) {
	if ref.label == "" {
		return ref.target, true
	}

	target, ok := a.labels[ref.label]
	if !ok {
		a.addErrorAt(ref.pos, fmt.Sprintf("Undefined label %q", ref.label))
	}
	return target, ok
}
