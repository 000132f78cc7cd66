// Package parser compiles slvm source programs with an LL(1) table
// parser driving the semantic actions of package codegen.
package parser

import (
	"slvm/pkg/bytecode"
	"slvm/pkg/lexer"
	"slvm/pkg/parser/codegen"
	"slvm/pkg/parser/stack"
	"strings"
)

type Parser struct {
	stack        *stack.Stack[string] // LL(1) parsing stack
	lexer        *lexer.Lexer         // lexer instance
	cg           *codegen.Codegen     // code generator instance
	currentToken lexer.Token          // current token
	table        ParsingTable         // LL(1) parsing table
	errors       []string             // list of errors
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		cg:     codegen.NewCodegen(),
		table:  NewParsingTable(),
		stack:  stack.NewStack("$", "Program"), // Program is the start symbol and $ the bottom of the stack
		errors: []string{},
	}

	p.nextToken()

	return p
}

// Parse parses the whole input, running semantic actions as they surface
func (p *Parser) Parse() {
	for p.stack.Size() > 1 { // only $ left
		top := p.stack.Pop()

		if p.isTerminal(top) {
			if p.isSemanticAction(top) {
				p.cg.ExecuteAction(top)
			} else if p.matchTerminal(top) {
				p.cg.SetCurrentToken(p.currentToken)
				p.nextToken()
			} else {
				p.handleTerminalError(top)
			}
			continue
		}

		production, ok := p.table[top][p.currentToken.Type]
		if !ok {
			p.handleNonTerminalError(top)
			continue
		}

		// push the right-hand side in reverse so its first symbol is on top
		for i := len(production.RHS) - 1; i >= 0; i-- {
			if production.RHS[i] != "ε" {
				p.stack.Push(production.RHS[i])
			}
		}
	}

	if p.currentToken.Type != lexer.EOF {
		p.handleUnexpectedEndOfInput()
	}
}

// nextToken advances to the next token from the lexer
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

// isSemanticAction checks if a symbol is a semantic action
func (p *Parser) isSemanticAction(symbol string) bool {
	return strings.HasPrefix(symbol, "@")
}

// GetProgram returns the generated instructions
func (p *Parser) GetProgram() []codegen.Instruction {
	return p.cg.GetProgram()
}

// GetSemanticErrors returns the list of semantic errors
func (p *Parser) GetSemanticErrors() []string {
	return p.cg.GetErrors()
}

// CodeUnit returns the compiled image. It is only meaningful when Parse
// reported neither syntax nor semantic errors.
func (p *Parser) CodeUnit() *bytecode.CodeUnit {
	return p.cg.CodeUnit()
}

// GetCG returns the code generator instance
func (p *Parser) GetCG() *codegen.Codegen {
	return p.cg
}
