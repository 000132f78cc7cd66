package lexer

import (
	"regexp"
)

// Token regex patterns
var tokenRegexes = map[TokenType]*regexp.Regexp{
	RETURN: regexp.MustCompile(`^return\b`),

	ASSIGN: regexp.MustCompile(`^=`),
	PLUS:   regexp.MustCompile(`^\+`),
	MINUS:  regexp.MustCompile(`^-`),
	MULT:   regexp.MustCompile(`^\*`),
	DIV:    regexp.MustCompile(`^/`),
	MOD:    regexp.MustCompile(`^%`),

	SEMICOLON: regexp.MustCompile(`^;`),
	COLON:     regexp.MustCompile(`^:`),
	LPAREN:    regexp.MustCompile(`^\(`),
	RPAREN:    regexp.MustCompile(`^\)`),

	NUM: regexp.MustCompile(`^\d+\b`),
	ID:  regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`),
}

// Keywords come first so that `return` is never read as an identifier
var tokenPrecedenceOrder = []TokenType{
	RETURN, ASSIGN, PLUS, MINUS, MULT, DIV, MOD,
	SEMICOLON, COLON, LPAREN, RPAREN, NUM, ID,
}

// MatchToken matches the token at the start of s
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if match := tokenRegexes[tokenType].FindString(s); match != "" {
			return tokenType, match, true
		}
	}

	return ILLEGAL, s[:1], false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
