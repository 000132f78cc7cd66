package parser

import "slvm/pkg/lexer"

type Production struct {
	LHS string
	RHS []string
}

type ParsingTable map[string]map[lexer.TokenType]Production

// Operator actions follow the right operand and precede the recursion,
// which keeps + - * / % left associative.
var grammar = []Production{
	{},                                                       // 0 - empty
	{LHS: "Program", RHS: []string{"StmtList", "$", "@end"}}, // 1

	{LHS: "StmtList", RHS: []string{"Stmt", "StmtList"}}, // 2
	{LHS: "StmtList", RHS: []string{"ε"}},                // 3

	{LHS: "Stmt", RHS: []string{"id", "@capture_target", "Binding", ";"}},   // 4
	{LHS: "Stmt", RHS: []string{"return", "@stmt", "Expr", ";", "@return"}}, // 5

	{LHS: "Binding", RHS: []string{":", "=", "Expr", "@define"}}, // 6
	{LHS: "Binding", RHS: []string{"=", "Expr", "@assign"}},      // 7

	{LHS: "Expr", RHS: []string{"Term", "Expr'"}}, // 8

	{LHS: "Expr'", RHS: []string{"+", "Term", "@add", "Expr'"}}, // 9
	{LHS: "Expr'", RHS: []string{"-", "Term", "@sub", "Expr'"}}, // 10
	{LHS: "Expr'", RHS: []string{"ε"}},                          // 11

	{LHS: "Term", RHS: []string{"Factor", "Term'"}}, // 12

	{LHS: "Term'", RHS: []string{"*", "Factor", "@mul", "Term'"}}, // 13
	{LHS: "Term'", RHS: []string{"/", "Factor", "@div", "Term'"}}, // 14
	{LHS: "Term'", RHS: []string{"%", "Factor", "@mod", "Term'"}}, // 15
	{LHS: "Term'", RHS: []string{"ε"}},                            // 16

	{LHS: "Factor", RHS: []string{"num", "@push"}},        // 17
	{LHS: "Factor", RHS: []string{"id", "@load"}},         // 18
	{LHS: "Factor", RHS: []string{"(", "Expr", ")"}},      // 19
	{LHS: "Factor", RHS: []string{"-", "Factor", "@neg"}}, // 20
}

// NewParsingTable returns the LL(1) table of the source grammar
func NewParsingTable() ParsingTable {
	return ParsingTable{
		"Program": {
			lexer.ID:     grammar[1],
			lexer.RETURN: grammar[1],
			lexer.EOF:    grammar[1],
		},

		"StmtList": {
			lexer.ID:     grammar[2],
			lexer.RETURN: grammar[2],
			lexer.EOF:    grammar[3],
		},

		"Stmt": {
			lexer.ID:     grammar[4],
			lexer.RETURN: grammar[5],
		},

		"Binding": {
			lexer.COLON:  grammar[6],
			lexer.ASSIGN: grammar[7],
		},

		"Expr": {
			lexer.NUM:    grammar[8],
			lexer.ID:     grammar[8],
			lexer.LPAREN: grammar[8],
			lexer.MINUS:  grammar[8],
		},

		"Expr'": {
			lexer.PLUS:      grammar[9],
			lexer.MINUS:     grammar[10],
			lexer.SEMICOLON: grammar[11],
			lexer.RPAREN:    grammar[11],
		},

		"Term": {
			lexer.NUM:    grammar[12],
			lexer.ID:     grammar[12],
			lexer.LPAREN: grammar[12],
			lexer.MINUS:  grammar[12],
		},

		"Term'": {
			lexer.MULT:      grammar[13],
			lexer.DIV:       grammar[14],
			lexer.MOD:       grammar[15],
			lexer.PLUS:      grammar[16],
			lexer.MINUS:     grammar[16],
			lexer.SEMICOLON: grammar[16],
			lexer.RPAREN:    grammar[16],
		},

		"Factor": {
			lexer.NUM:    grammar[17],
			lexer.ID:     grammar[18],
			lexer.LPAREN: grammar[19],
			lexer.MINUS:  grammar[20],
		},
	}
}
