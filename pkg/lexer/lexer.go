// Package lexer tokenizes slvm source programs: declarations `x := e;`,
// assignments `x = e;` and `return e;` over integer arithmetic.
package lexer

type Lexer struct {
	input        string // input string to be tokenized
	length       int    // length of the input string
	position     int    // current position in the input string
	line         int    // current line number for error reporting
	column       int    // current column number for error reporting
	currentToken Token  // previous token, for unary minus handling
}

// NewLexer creates a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:  s,
		length: len(s),
		line:   1,
		column: 1,
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.position >= l.length {
		tok := NewToken(EOF, "", "", l.currentPosition())
		l.currentToken = tok
		return tok
	}

	// '-' directly followed by digits is a negative literal where an
	// operand is expected, so -2147483648 stays representable
	if l.input[l.position] == '-' && l.prevAllowsUnary() {
		if l.position+1 < l.length && isDigit(l.input[l.position+1]) {
			t, lex, matched := MatchToken(l.input[l.position+1:])
			if matched && t == NUM {
				lexeme := "-" + lex
				tok := NewToken(NUM, lexeme, lexeme, l.currentPosition())
				l.advance(len(lexeme))
				l.currentToken = tok
				return tok
			}
		}
	}

	tokenType, lexeme, matched := MatchToken(l.input[l.position:])
	if !matched {
		tok := NewToken(ILLEGAL, lexeme, "", l.currentPosition())
		l.advance(len(lexeme))
		l.currentToken = tok
		return tok
	}

	literal := ""
	if tokenType == NUM || tokenType == ID {
		literal = lexeme
	}

	tok := NewToken(tokenType, lexeme, literal, l.currentPosition())
	l.advance(len(lexeme))
	l.currentToken = tok

	return tok
}

// Peek returns the next token without advancing
func (l *Lexer) Peek() Token {
	cpos, cline, ccol, ctok := l.position, l.line, l.column, l.currentToken

	token := l.NextToken()

	l.position, l.line, l.column, l.currentToken = cpos, cline, ccol, ctok
	return token
}

// skipWhitespace skips whitespace and // comments
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]

		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			l.advance(1)
		} else if ch == '/' && l.position+1 < l.length && l.input[l.position+1] == '/' {
			for l.position < l.length && l.input[l.position] != '\n' {
				l.advance(1)
			}
		} else {
			break
		}
	}
}

// advance moves the lexer position by n characters
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// prevAllowsUnary reports whether the previous token leaves the lexer
// expecting an operand
func (l *Lexer) prevAllowsUnary() bool {
	switch l.currentToken.Type {
	case EOF, ASSIGN, LPAREN, SEMICOLON, RETURN,
		PLUS, MINUS, MULT, DIV, MOD:
		return true
	default:
		return false
	}
}
