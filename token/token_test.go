package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tok := CreateToken(LPA, 3, 7)
	if tok.TokenType != LPA {
		t.Errorf("CreateToken type - got: %s, want: %s", tok.TokenType, LPA)
	}
	if tok.Lexeme != "(" {
		t.Errorf("CreateToken lexeme - got: %q, want: %q", tok.Lexeme, "(")
	}
	if tok.Literal != nil {
		t.Errorf("CreateToken literal - got: %v, want: nil", tok.Literal)
	}
	if tok.Line != 3 || tok.Column != 7 {
		t.Errorf("CreateToken position - got: line %d column %d, want: line 3 column 7", tok.Line, tok.Column)
	}
}

func TestCreateLiteralToken(t *testing.T) {
	tok := CreateLiteralToken(NUMBER, 123.0, "123", 0, 0)
	if tok.TokenType != NUMBER {
		t.Errorf("CreateLiteralToken type - got: %s, want: %s", tok.TokenType, NUMBER)
	}
	if tok.Lexeme != "123" {
		t.Errorf("CreateLiteralToken lexeme - got: %q, want: %q", tok.Lexeme, "123")
	}
	if tok.Literal != 123.0 {
		t.Errorf("CreateLiteralToken literal - got: %v, want: 123.0", tok.Literal)
	}
}

func TestKeyWordsLookup(t *testing.T) {
	keywords := map[string]TokenType{
		"and":    AND,
		"else":   ELSE,
		"false":  FALSE,
		"fun":    FUNC,
		"for":    FOR,
		"if":     IF,
		"nil":    NIL,
		"or":     OR,
		"print":  PRINT,
		"return": RETURN,
		"true":   TRUE,
		"var":    VAR,
		"while":  WHILE,
	}
	for lexeme, want := range keywords {
		got, ok := KeyWords[lexeme]
		if !ok {
			t.Errorf("KeyWords missing entry for %q", lexeme)
			continue
		}
		if got != want {
			t.Errorf("KeyWords[%q] - got: %s, want: %s", lexeme, got, want)
		}
	}

	if _, ok := KeyWords["myVar"]; ok {
		t.Errorf("KeyWords should not contain regular identifiers")
	}
}

func TestTokenString(t *testing.T) {
	tok := CreateLiteralToken(NUMBER, 123.0, "123", 3, 10)
	want := `Token {Type: NUMBER, Value: "123"}`
	if tok.String() != want {
		t.Errorf("Token.String() - got: %s, want: %s", tok.String(), want)
	}
}
