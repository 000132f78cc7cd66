package asm

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// Get the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.currentPosition()

	// End of input
	if l.position >= l.length {
		return NewToken(EOF, "", "", pos)
	}

	// Line breaks end an instruction
	if l.input[l.position] == '\n' {
		l.advance(1)
		return NewToken(NEWLINE, "\n", "", pos)
	}

	// Regex match the first token it sees from the remaining input from current position to the end
	remaining := l.input[l.position:]
	tokenType, lexeme, matched := MatchToken(remaining)

	if !matched {
		l.advance(1)
		return NewToken(ILLEGAL, lexeme, "", pos)
	}

	var literal string
	switch tokenType {
	case DIRECTIVE:
		// drop the leading dot
		literal = lexeme[1:]
	case COLON:
	default:
		literal = lexeme
	}

	l.advance(len(lexeme))
	return NewToken(tokenType, lexeme, literal, pos)
}

// View next token without advancing the position
func (l *Lexer) Peek() Token {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column

	token := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol

	return token
}

// Skip blanks and comments. Line breaks are tokens and are left in place.
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]

		if ch == ' ' || ch == '\t' || ch == '\r' || ch == ',' {
			l.column++
			l.position++
		} else if ch == ';' || (ch == '/' && l.position+1 < l.length && l.input[l.position+1] == '/') {
			for l.position < l.length && l.input[l.position] != '\n' {
				l.column++
				l.position++
			}
		} else {
			break
		}
	}
}

// Advance the lexer position by n characters
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

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
