package lexer_test

import (
	"slvm/pkg/lexer"
	"testing"
)

func TestTokens(t *testing.T) {
	input := "x := 10 / 2; // halve\n" + "y = (x - 3) * -4 % 5;\n" + "return -y + x;"
	mylexer := lexer.NewLexer(input)

	expectedTokens := []lexer.TokenType{
		lexer.ID, lexer.COLON, lexer.ASSIGN, lexer.NUM, lexer.DIV, lexer.NUM, lexer.SEMICOLON,
		lexer.ID, lexer.ASSIGN, lexer.LPAREN, lexer.ID, lexer.MINUS, lexer.NUM, lexer.RPAREN,
		lexer.MULT, lexer.NUM, lexer.MOD, lexer.NUM, lexer.SEMICOLON,
		lexer.RETURN, lexer.MINUS, lexer.ID, lexer.PLUS, lexer.ID, lexer.SEMICOLON,
		lexer.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, token.Type)
		}
	}
}

func TestNegativeLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"x := -5;", []string{"x", ":", "=", "-5", ";"}},
		{"return 3 - -2147483648;", []string{"return", "3", "-", "-2147483648", ";"}},
		{"return x -1;", []string{"return", "x", "-", "1", ";"}},
		{"return (1)-1;", []string{"return", "(", "1", ")", "-", "1", ";"}},
	}

	for _, tt := range tests {
		l := lexer.NewLexer(tt.input)
		for i, lexeme := range tt.expected {
			if tok := l.NextToken(); tok.Lexeme != lexeme {
				t.Errorf("%q token %d: expected %q, got %q", tt.input, i, lexeme, tok.Lexeme)
			}
		}
		if tok := l.NextToken(); tok.Type != lexer.EOF {
			t.Errorf("%q: expected EOF, got %s", tt.input, tok)
		}
	}
}

func TestPositionsAndIllegal(t *testing.T) {
	l := lexer.NewLexer("returnx\n  @ 12")

	first := l.NextToken()
	if first.Type != lexer.ID || first.Literal != "returnx" {
		t.Errorf("expected identifier returnx, got %s", first)
	}

	if peeked := l.Peek(); peeked.Type != lexer.ILLEGAL {
		t.Errorf("expected peek to see the illegal character, got %s", peeked)
	}

	illegal := l.NextToken()
	if illegal.Type != lexer.ILLEGAL || illegal.Lexeme != "@" {
		t.Errorf("expected illegal @, got %s", illegal)
	}
	if illegal.Pos != (lexer.Position{Line: 2, Column: 3, Offset: 10}) {
		t.Errorf("expected position 2, 3, 10, got %s", illegal.Pos)
	}

	if num := l.NextToken(); num.Type != lexer.NUM || num.Pos.Column != 5 {
		t.Errorf("expected number at column 5, got %s", num)
	}
}
