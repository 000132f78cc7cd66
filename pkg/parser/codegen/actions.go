package codegen

import (
	"slvm/pkg/bytecode"
	"strconv"

	"github.com/charmbracelet/log"
)

// pushAction pushes the literal just matched
func (c *Codegen) pushAction() {
	v, err := strconv.ParseInt(c.currentToken.Literal, 10, 32)
	if err != nil {
		c.addNumberRangeError(c.currentToken.Lexeme, c.currentToken.Pos)
		v = 0
	}
	c.push(constant(int32(v)))
}

// loadAction pushes the value of the variable just matched
func (c *Codegen) loadAction() {
	name := c.currentToken.Lexeme
	v, exists := c.symbolTable[name]
	if !exists {
		c.addUndefinedVariableError(name, c.currentToken.Pos)
	}
	c.push(constant(v))
}

// binaryOpAction combines the two topmost operands
func (c *Codegen) binaryOpAction(op byte) {
	operands := c.pop(2)
	if operands == nil {
		return
	}
	left, right := operands[0], operands[1]

	switch op {
	case '+':
		c.push(join(left, right, bytecode.OpAddS32, left.value+right.value))
	case '-':
		c.push(join(left, right, bytecode.OpSubS32, left.value-right.value))
	case '*':
		c.push(constant(left.value * right.value))
	case '/', '%':
		if right.value == 0 {
			c.addDivisionByZeroError(c.currentToken.Pos)
			c.push(constant(0))
			return
		}
		if op == '/' {
			c.push(constant(left.value / right.value))
		} else {
			c.push(constant(left.value % right.value))
		}
	}
}

// negAction negates the topmost operand as 0 - x
func (c *Codegen) negAction() {
	operands := c.pop(1)
	if operands == nil {
		return
	}
	c.push(join(constant(0), operands[0], bytecode.OpSubS32, -operands[0].value))
}

// captureTargetAction remembers the variable a statement binds
func (c *Codegen) captureTargetAction() {
	c.target = c.currentToken
	c.statementAction()
}

// statementAction flags the first statement following a return
func (c *Codegen) statementAction() {
	if c.returned && !c.unreachable {
		c.unreachable = true
		c.addUnreachableError(c.currentToken.Pos)
	}
}

// defineAction declares the captured variable with the topmost value
func (c *Codegen) defineAction() {
	operands := c.pop(1)
	if operands == nil {
		return
	}

	name := c.target.Lexeme
	if _, exists := c.symbolTable[name]; exists {
		c.addRedeclarationError(name, c.target.Pos)
		return
	}
	c.symbolTable[name] = operands[0].value
}

// assignAction stores the topmost value in a declared variable
func (c *Codegen) assignAction() {
	operands := c.pop(1)
	if operands == nil {
		return
	}

	name := c.target.Lexeme
	if _, exists := c.symbolTable[name]; !exists {
		c.addUndefinedVariableError(name, c.target.Pos)
		return
	}
	c.symbolTable[name] = operands[0].value
}

// returnAction emits the returned expression followed by ret
func (c *Codegen) returnAction() {
	operands := c.pop(1)
	if operands == nil || c.returned {
		return
	}

	c.pb = append(c.pb, operands[0].code...)
	c.pb = append(c.pb, Instruction{Op: bytecode.OpRet})
	c.returned = true
}

// endAction checks the program returned a value
func (c *Codegen) endAction() {
	if !c.returned {
		c.addMissingReturnError(c.currentToken.Pos)
	}
}

// ExecuteAction runs the semantic action named by a grammar symbol
func (c *Codegen) ExecuteAction(actionName string) {
	SemanticActions := map[string]func(){
		"@push":           c.pushAction,
		"@load":           c.loadAction,
		"@add":            func() { c.binaryOpAction('+') },
		"@sub":            func() { c.binaryOpAction('-') },
		"@mul":            func() { c.binaryOpAction('*') },
		"@div":            func() { c.binaryOpAction('/') },
		"@mod":            func() { c.binaryOpAction('%') },
		"@neg":            c.negAction,
		"@capture_target": c.captureTargetAction,
		"@stmt":           c.statementAction,
		"@define":         c.defineAction,
		"@assign":         c.assignAction,
		"@return":         c.returnAction,
		"@end":            c.endAction,
	}

	if action, exists := SemanticActions[actionName]; exists {
		action()
	} else {
		log.Error("Unknown semantic action", "action", actionName)
	}
}
