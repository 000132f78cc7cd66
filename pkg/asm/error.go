package asm

import (
	"fmt"
	"slvm/pkg/color"
	"strings"
)

// Error is one assembly error with its source position.
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at Line: %d, Column %d", e.Msg, e.Pos.Line, e.Pos.Column)
}

// Pretty renders the error the way the CLI prints it.
func (e *Error) Pretty() string {
	return color.RedText(e.Msg) + " at " + color.Position(e.Pos.Line, e.Pos.Column)
}

// ErrorList collects every error of one assembly pass.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// addError records an error at the current token
func (a *Assembler) addError(msg string) {
	a.addErrorAt(a.currentToken.Pos, msg)
}

// addErrorAt records an error at pos
func (a *Assembler) addErrorAt(pos Position, msg string) {
	a.errors = append(a.errors, &Error{Pos: pos, Msg: msg})
}

// categorizeError provides a specific error message based on what the
// assembler expected and the token it found instead
func (a *Assembler) categorizeError(expected TokenType, current Token) string {
	switch expected {
	case NUM:
		switch current.Type {
		case NEWLINE, EOF:
			return "Missing operand"
		case IDENT:
			return fmt.Sprintf("Expected number, found %q", current.Lexeme)
		}
		return "Expected number"
	case IDENT:
		if current.Type == NEWLINE || current.Type == EOF {
			return "Missing label"
		}
		return "Expected label"
	case NEWLINE:
		if current.Type == ILLEGAL {
			return fmt.Sprintf("Illegal character %q", current.Lexeme)
		}
		return fmt.Sprintf("Unexpected %q after instruction", current.Lexeme)
	}

	return "Syntax error"
}
