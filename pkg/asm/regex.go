package asm

import (
	"regexp"
)

type tokenRegex struct {
	Pattern *regexp.Regexp
	Raw     string
}

// Token regex patterns
var tokenRegexes = map[TokenType]tokenRegex{
	DIRECTIVE: {regexp.MustCompile(`^\.[a-zA-Z_]+`), `^\.[a-zA-Z_]+`},
	COLON:     {regexp.MustCompile(`^:`), `^:`},
	NUM:       {regexp.MustCompile(`^[-+]?(0[xX][0-9a-fA-F]+|\d+)\b`), `^[-+]?(0[xX][0-9a-fA-F]+|\d+)\b`},
	IDENT:     {regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*`), `^[a-zA-Z_][a-zA-Z0-9_.]*`},
}

// Token precedence order for matching
var tokenPrecedenceOrder = []TokenType{
	DIRECTIVE, COLON, NUM, IDENT,
}

// Get the regex pattern for a token type
func (t TokenType) Regex() *regexp.Regexp {
	if regex, ok := tokenRegexes[t]; ok {
		return regex.Pattern
	}

	return nil
}

// Get the raw regex string for a token type
func (t TokenType) RawRegex() string {
	if regex, ok := tokenRegexes[t]; ok {
		return regex.Raw
	}

	return ""
}

// Match the first token at the start of the string
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if regex, ok := tokenRegexes[tokenType]; ok {
			if match := regex.Pattern.FindString(s); match != "" {
				return tokenType, match, true
			}
		}
	}

	return ILLEGAL, string(s[0]), false
}
