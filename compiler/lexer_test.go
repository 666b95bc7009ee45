package compiler

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `( ) { } , ; = + - * / += -= *= /= < > <= >= == !=`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenComma, ","},
		{TokenSemicolon, ";"},
		{TokenAssign, "="},
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenPlusEq, "+="},
		{TokenMinusEq, "-="},
		{TokenStarEq, "*="},
		{TokenSlashEq, "/="},
		{TokenLess, "<"},
		{TokenGreater, ">"},
		{TokenLessEq, "<="},
		{TokenGreaterEq, ">="},
		{TokenEqual, "=="},
		{TokenNotEqual, "!="},
		{TokenEOF, ""},
	}

	l := NewLexer(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, exp.typ)
		}
		if tok.Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, tok.Literal, exp.lit)
		}
	}
}

func TestLexerReservedWordsAndIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"int", TokenInt},
		{"print", TokenPrint},
		{"if", TokenIf},
		{"while", TokenWhile},
		{"x", TokenIdentifier},
		{"integer", TokenIdentifier},
		{"_tmp2", TokenIdentifier},
		{"printer", TokenIdentifier},
	}

	for _, tc := range tests {
		tok := NewLexer(tc.input).NextToken()
		if tok.Type != tc.typ {
			t.Errorf("Lexer(%q): type = %v, want %v", tc.input, tok.Type, tc.typ)
		}
		if tok.Literal != tc.input {
			t.Errorf("Lexer(%q): literal = %q", tc.input, tok.Literal)
		}
	}
}

func TestLexerIntegers(t *testing.T) {
	for _, input := range []string{"0", "42", "1234567890"} {
		tok := NewLexer(input).NextToken()
		if tok.Type != TokenInteger {
			t.Errorf("Lexer(%q): type = %v, want INT", input, tok.Type)
		}
		if tok.Literal != input {
			t.Errorf("Lexer(%q): literal = %q", input, tok.Literal)
		}
	}
}

func TestLexerMalformedNumber(t *testing.T) {
	tok := NewLexer("12abc").NextToken()
	if tok.Type != TokenError {
		t.Fatalf("type = %v, want ERROR", tok.Type)
	}
	if tok.Literal != "malformed number: 12abc" {
		t.Errorf("literal = %q", tok.Literal)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	tok := NewLexer("@").NextToken()
	if tok.Type != TokenError {
		t.Fatalf("type = %v, want ERROR", tok.Type)
	}
	if tok.Literal != "unexpected character: @" {
		t.Errorf("literal = %q", tok.Literal)
	}
}

func TestLexerComments(t *testing.T) {
	input := "// leading comment\nint x = 1; // trailing\n// last"
	tokens := Tokenize(input)

	want := []TokenType{TokenInt, TokenIdentifier, TokenAssign, TokenInteger, TokenSemicolon, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("token[%d] = %v, want %v", i, tokens[i].Type, typ)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	input := "int a = 1;\n  print a;"
	tokens := Tokenize(input)

	var printTok Token
	for _, tok := range tokens {
		if tok.Type == TokenPrint {
			printTok = tok
		}
	}
	if printTok.Pos.Line != 2 {
		t.Errorf("print line = %d, want 2", printTok.Pos.Line)
	}
	if printTok.Pos.Column != 3 {
		t.Errorf("print column = %d, want 3", printTok.Pos.Column)
	}
	if printTok.Pos.Offset != 13 {
		t.Errorf("print offset = %d, want 13", printTok.Pos.Offset)
	}
}

func TestTokenizeStopsAtError(t *testing.T) {
	tokens := Tokenize("int a = 1 $ 2;")
	last := tokens[len(tokens)-1]
	if last.Type != TokenError {
		t.Fatalf("last token = %v, want ERROR", last)
	}
	if len(tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(tokens))
	}
}

func TestTokenTypeNames(t *testing.T) {
	tests := []struct {
		typ  TokenType
		want string
	}{
		{TokenInteger, "INT"},
		{TokenIdentifier, "ID"},
		{TokenPlusEq, "PLUS_ASSIGN"},
		{TokenSemicolon, "SEMI"},
		{TokenType(999), "Token(999)"},
	}
	for _, tc := range tests {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", int(tc.typ), got, tc.want)
		}
	}
}
