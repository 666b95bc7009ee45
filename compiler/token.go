package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the statement language lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenInteger    // 42
	TokenIdentifier // foo, bar_2

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenAssign    // =
	TokenPlusEq    // +=
	TokenMinusEq   // -=
	TokenStarEq    // *=
	TokenSlashEq   // /=
	TokenLess      // <
	TokenGreater   // >
	TokenLessEq    // <=
	TokenGreaterEq // >=
	TokenEqual     // ==
	TokenNotEqual  // !=

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenSemicolon // ;

	// Reserved words
	TokenInt
	TokenPrint
	TokenIf
	TokenWhile
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenError:      "ERROR",
	TokenInteger:    "INT",
	TokenIdentifier: "ID",
	TokenPlus:       "PLUS",
	TokenMinus:      "MINUS",
	TokenStar:       "MUL",
	TokenSlash:      "DIV",
	TokenAssign:     "ASSIGN",
	TokenPlusEq:     "PLUS_ASSIGN",
	TokenMinusEq:    "MINUS_ASSIGN",
	TokenStarEq:     "MUL_ASSIGN",
	TokenSlashEq:    "DIV_ASSIGN",
	TokenLess:       "LT",
	TokenGreater:    "GT",
	TokenLessEq:     "LE",
	TokenGreaterEq:  "GE",
	TokenEqual:      "EQ",
	TokenNotEqual:   "NE",
	TokenLParen:     "LPAREN",
	TokenRParen:     "RPAREN",
	TokenLBrace:     "LBRACE",
	TokenRBrace:     "RBRACE",
	TokenComma:      "COMMA",
	TokenSemicolon:  "SEMI",
	TokenInt:        "INT_TYPE",
	TokenPrint:      "PRINT",
	TokenIf:         "IF",
	TokenWhile:      "WHILE",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // the raw text
	Pos     Position // start position
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if t.Type == TokenError {
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Reserved words mapped to their token types.
var reservedWords = map[string]TokenType{
	"int":   TokenInt,
	"print": TokenPrint,
	"if":    TokenIf,
	"while": TokenWhile,
}

// compoundOps maps compound assignment tokens to their arithmetic operator.
var compoundOps = map[TokenType]string{
	TokenPlusEq:  "+",
	TokenMinusEq: "-",
	TokenStarEq:  "*",
	TokenSlashEq: "/",
}

// comparisonOps maps comparison tokens to their operator text.
var comparisonOps = map[TokenType]string{
	TokenLess:      "<",
	TokenGreater:   ">",
	TokenLessEq:    "<=",
	TokenGreaterEq: ">=",
	TokenEqual:     "==",
	TokenNotEqual:  "!=",
}
