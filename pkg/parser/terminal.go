package parser

import (
	"slvm/pkg/lexer"
	"strings"
)

var terminals = map[string]lexer.TokenType{
	"return": lexer.RETURN,
	"id":     lexer.ID,
	"num":    lexer.NUM,
	"=":      lexer.ASSIGN,
	"+":      lexer.PLUS,
	"-":      lexer.MINUS,
	"*":      lexer.MULT,
	"/":      lexer.DIV,
	"%":      lexer.MOD,
	";":      lexer.SEMICOLON,
	":":      lexer.COLON,
	"(":      lexer.LPAREN,
	")":      lexer.RPAREN,
	"$":      lexer.EOF,
}

// isTerminal checks if a symbol is a terminal. Semantic actions count as
// terminals
func (p *Parser) isTerminal(symbol string) bool {
	if strings.HasPrefix(symbol, "@") {
		return true
	}

	_, ok := terminals[symbol]
	return ok
}

// matchTerminal checks if the current token matches the expected terminal
func (p *Parser) matchTerminal(expected string) bool {
	t, ok := terminals[expected]
	return ok && p.currentToken.Type == t
}
