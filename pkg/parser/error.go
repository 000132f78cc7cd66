package parser

import (
	"fmt"
	"slvm/pkg/color"
	"slvm/pkg/lexer"
)

// handleTerminalError reports a terminal on the stack that does not match
// the current token. It neither advances tokens nor modifies the stack.
func (p *Parser) handleTerminalError(expected string) {
	p.addError(p.categorizeError(expected, p.currentToken))
}

// handleNonTerminalError reports a non-terminal with no production for the
// current token.
func (p *Parser) handleNonTerminalError(expected string) {
	// an expression tail running into the next statement
	if p.isExpressionTail(expected) && p.isStatementBoundary(p.currentToken.Type) {
		p.addError("Missing semicolon")
		return
	}

	p.addError(p.categorizeError(expected, p.currentToken))
}

// handleUnexpectedEndOfInput is called when the stack empties before the input
func (p *Parser) handleUnexpectedEndOfInput() {
	p.addError(fmt.Sprintf("Unexpected token '%s' at end of input", p.currentToken.Lexeme))
}

// addError records a parsing error at the current token
func (p *Parser) addError(msg string) {
	pos := p.currentToken.Pos
	formatted := color.RedText(msg) + " at " + color.Position(pos.Line, pos.Column)

	// a token that both ends an expression and fails the next match is reported once
	if n := len(p.errors); n > 0 && p.errors[n-1] == formatted {
		return
	}
	p.errors = append(p.errors, formatted)
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) isExpressionTail(sym string) bool {
	switch sym {
	case "Expr'", "Term'":
		return true
	default:
		return false
	}
}

// isStatementBoundary checks if a token type starts a statement or ends the input
func (p *Parser) isStatementBoundary(t lexer.TokenType) bool {
	switch t {
	case lexer.ID, lexer.NUM, lexer.RETURN, lexer.EOF:
		return true
	default:
		return false
	}
}

// categorizeError provides a specific message based on the expected symbol
// and the current token
func (p *Parser) categorizeError(expected string, current lexer.Token) string {
	if current.Type == lexer.ILLEGAL {
		return fmt.Sprintf("Illegal character %q", current.Lexeme)
	}

	switch expected {
	case ")":
		return "Missing closing parenthesis"
	case ";":
		return "Missing semicolon"
	case "=", "Binding":
		return "Missing assignment operator"
	case "id":
		return "Expected identifier"
	case "Stmt", "StmtList", "Program", "$":
		return fmt.Sprintf("Unexpected %q at start of statement", current.Lexeme)
	case "Expr", "Term", "Factor":
		if current.Type == lexer.SEMICOLON || current.Type == lexer.RPAREN || current.Type == lexer.EOF {
			return "Missing expression"
		}
		return fmt.Sprintf("Expected expression, found %q", current.Lexeme)
	}

	return "Syntax error"
}
