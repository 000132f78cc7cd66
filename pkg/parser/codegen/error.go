package codegen

import (
	"slvm/pkg/color"
	"slvm/pkg/lexer"
)

func (c *Codegen) addError(e string) {
	c.errors = append(c.errors, e)
}

func at(pos lexer.Position) string {
	return " at " + color.Position(pos.Line, pos.Column)
}

func (c *Codegen) addUndefinedVariableError(name string, pos lexer.Position) {
	c.addError(color.RedText("Undefined variable") + " `" + color.BlueText(name) + "`" + at(pos))
}

func (c *Codegen) addRedeclarationError(name string, pos lexer.Position) {
	c.addError(color.RedText("Redeclaration of variable") + " `" + color.BlueText(name) + "`" + at(pos))
}

func (c *Codegen) addNumberRangeError(lexeme string, pos lexer.Position) {
	c.addError(color.RedText("Number out of range") + " `" + color.BlueText(lexeme) + "`" + at(pos))
}

func (c *Codegen) addDivisionByZeroError(pos lexer.Position) {
	c.addError(color.RedText("Division by zero") + at(pos))
}

func (c *Codegen) addUnreachableError(pos lexer.Position) {
	c.addError(color.RedText("Unreachable statement after return") + at(pos))
}

func (c *Codegen) addMissingReturnError(pos lexer.Position) {
	c.addError(color.RedText("Missing return statement") + at(pos))
}

func (c *Codegen) GetErrors() []string {
	return c.errors
}
