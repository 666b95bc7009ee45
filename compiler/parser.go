package compiler

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Parser: Recursive descent parser for the statement language
// ---------------------------------------------------------------------------

// Parser parses source code into an AST.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	prevEnd   Position // end of the last consumed token
	errors    []string
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevEnd = p.curToken.Pos
	p.prevEnd.Offset += len(p.curToken.Literal)
	p.prevEnd.Column += len(p.curToken.Literal)
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if the peek token is of the given type.
func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expect advances if the current token matches, otherwise records an error.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.describe(p.curToken))
	return false
}

// describe renders a token for error messages.
func (p *Parser) describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return tok.Literal
	}
	return fmt.Sprintf("%q", tok.Literal)
}

// errorf records a parse error.
func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf("line %d: %s", p.curToken.Pos.Line, fmt.Sprintf(format, args...))
	p.errors = append(p.errors, msg)
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// synchronize skips tokens until just past the next ';' or up to a '}' so
// parsing can resume after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(TokenEOF) {
		if p.curTokenIs(TokenSemicolon) {
			p.nextToken()
			return
		}
		if p.curTokenIs(TokenRBrace) {
			return
		}
		p.nextToken()
	}
}

// ---------------------------------------------------------------------------
// Top-level parsing
// ---------------------------------------------------------------------------

// ParseProgram parses a whole source file.
func (p *Parser) ParseProgram() *Program {
	startPos := p.curToken.Pos
	var stmts []Stmt

	for !p.curTokenIs(TokenEOF) {
		if p.curTokenIs(TokenRBrace) {
			p.errorf("unexpected %s", p.describe(p.curToken))
			p.nextToken()
			continue
		}
		stmt := p.ParseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return &Program{
		SpanVal:    MakeSpan(startPos, p.curToken.Pos),
		Statements: stmts,
	}
}

// ParseStatement parses a single statement. On error it records the error,
// skips to the end of the statement and returns nil.
func (p *Parser) ParseStatement() Stmt {
	before := len(p.errors)
	var stmt Stmt

	switch p.curToken.Type {
	case TokenInt:
		stmt = p.parseDeclaration()
	case TokenPrint:
		stmt = p.parsePrint()
	case TokenIf:
		stmt = p.parseIf()
	case TokenWhile:
		stmt = p.parseWhile()
	case TokenIdentifier:
		stmt = p.parseAssignment()
	case TokenError:
		p.errorf("%s", p.curToken.Literal)
		p.nextToken()
	default:
		p.errorf("unexpected %s at start of statement", p.describe(p.curToken))
	}

	if stmt == nil && len(p.errors) > before {
		p.synchronize()
	}
	return stmt
}

// parseDeclaration parses "int x = expr;" or "int f(a, b);".
func (p *Parser) parseDeclaration() Stmt {
	startPos := p.curToken.Pos
	p.nextToken() // consume int

	if !p.curTokenIs(TokenIdentifier) {
		p.errorf("expected identifier after 'int', got %s", p.describe(p.curToken))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(TokenLParen) {
		return p.parseFuncDecl(name, startPos)
	}

	if !p.expect(TokenAssign) {
		return nil
	}
	value := p.ParseExpression()
	if value == nil {
		return nil
	}
	if !p.expect(TokenSemicolon) {
		return nil
	}
	return &DeclAssign{
		SpanVal: MakeSpan(startPos, p.prevEnd),
		Name:    name,
		Value:   value,
	}
}

// parseFuncDecl parses the parameter list of a function declaration.
func (p *Parser) parseFuncDecl(name string, startPos Position) Stmt {
	p.nextToken() // consume (

	var params []string
	for !p.curTokenIs(TokenRParen) {
		if !p.curTokenIs(TokenIdentifier) {
			p.errorf("expected parameter name, got %s", p.describe(p.curToken))
			return nil
		}
		params = append(params, p.curToken.Literal)
		p.nextToken()
		if p.curTokenIs(TokenComma) {
			p.nextToken()
			continue
		}
		if !p.curTokenIs(TokenRParen) {
			p.errorf("expected ',' or ')', got %s", p.describe(p.curToken))
			return nil
		}
	}
	p.nextToken() // consume )

	if !p.expect(TokenSemicolon) {
		return nil
	}
	return &FuncDecl{
		SpanVal:    MakeSpan(startPos, p.prevEnd),
		Name:       name,
		ReturnType: "int",
		Params:     params,
	}
}

// parseAssignment parses "x = expr;" or "x op= expr;".
func (p *Parser) parseAssignment() Stmt {
	startPos := p.curToken.Pos
	name := p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(TokenAssign) {
		p.nextToken()
		value := p.ParseExpression()
		if value == nil || !p.expect(TokenSemicolon) {
			return nil
		}
		return &ReAssign{
			SpanVal: MakeSpan(startPos, p.prevEnd),
			Name:    name,
			Value:   value,
		}
	}

	if op, ok := compoundOps[p.curToken.Type]; ok {
		p.nextToken()
		value := p.ParseExpression()
		if value == nil || !p.expect(TokenSemicolon) {
			return nil
		}
		return &AssignOp{
			SpanVal: MakeSpan(startPos, p.prevEnd),
			Name:    name,
			Op:      op,
			Value:   value,
		}
	}

	p.errorf("expected assignment to '%s', got %s", name, p.describe(p.curToken))
	return nil
}

// parsePrint parses "print expr;".
func (p *Parser) parsePrint() Stmt {
	startPos := p.curToken.Pos
	p.nextToken() // consume print

	value := p.ParseExpression()
	if value == nil || !p.expect(TokenSemicolon) {
		return nil
	}
	return &Print{
		SpanVal: MakeSpan(startPos, p.prevEnd),
		Value:   value,
	}
}

// parseIf parses "if (cond) { ... }".
func (p *Parser) parseIf() Stmt {
	startPos := p.curToken.Pos
	p.nextToken() // consume if

	cond, body, ok := p.parseGuardedBlock()
	if !ok {
		return nil
	}
	return &If{
		SpanVal: MakeSpan(startPos, p.prevEnd),
		Cond:    cond,
		Body:    body,
	}
}

// parseWhile parses "while (cond) { ... }".
func (p *Parser) parseWhile() Stmt {
	startPos := p.curToken.Pos
	p.nextToken() // consume while

	cond, body, ok := p.parseGuardedBlock()
	if !ok {
		return nil
	}
	return &While{
		SpanVal: MakeSpan(startPos, p.prevEnd),
		Cond:    cond,
		Body:    body,
	}
}

// parseGuardedBlock parses "(cond) { stmts }" shared by if and while.
func (p *Parser) parseGuardedBlock() (Expr, []Stmt, bool) {
	if !p.expect(TokenLParen) {
		return nil, nil, false
	}
	cond := p.parseCondition()
	if cond == nil || !p.expect(TokenRParen) {
		return nil, nil, false
	}
	if !p.expect(TokenLBrace) {
		return nil, nil, false
	}

	var body []Stmt
	for !p.curTokenIs(TokenRBrace) && !p.curTokenIs(TokenEOF) {
		if stmt := p.ParseStatement(); stmt != nil {
			body = append(body, stmt)
		}
	}
	if !p.expect(TokenRBrace) {
		return nil, nil, false
	}
	return cond, body, true
}

// parseCondition parses an expression optionally followed by one comparison.
func (p *Parser) parseCondition() Expr {
	left := p.ParseExpression()
	if left == nil {
		return nil
	}
	if op, ok := comparisonOps[p.curToken.Type]; ok {
		p.nextToken()
		right := p.ParseExpression()
		if right == nil {
			return nil
		}
		return &BinaryExpr{
			SpanVal: MakeSpan(left.Span().Start, right.Span().End),
			Left:    left,
			Op:      op,
			Right:   right,
		}
	}
	return left
}

// ---------------------------------------------------------------------------
// Expression parsing (arithmetic precedence)
// ---------------------------------------------------------------------------

// ParseExpression parses an additive expression (lowest precedence).
func (p *Parser) ParseExpression() Expr {
	left := p.parseTerm()
	if left == nil {
		return nil
	}

	for p.curTokenIs(TokenPlus) || p.curTokenIs(TokenMinus) {
		op := p.curToken.Literal
		p.nextToken()

		right := p.parseTerm()
		if right == nil {
			return nil
		}
		left = &BinaryExpr{
			SpanVal: MakeSpan(left.Span().Start, right.Span().End),
			Left:    left,
			Op:      op,
			Right:   right,
		}
	}
	return left
}

// parseTerm parses a multiplicative expression.
func (p *Parser) parseTerm() Expr {
	left := p.parseFactor()
	if left == nil {
		return nil
	}

	for p.curTokenIs(TokenStar) || p.curTokenIs(TokenSlash) {
		op := p.curToken.Literal
		p.nextToken()

		right := p.parseFactor()
		if right == nil {
			return nil
		}
		left = &BinaryExpr{
			SpanVal: MakeSpan(left.Span().Start, right.Span().End),
			Left:    left,
			Op:      op,
			Right:   right,
		}
	}
	return left
}

// parseFactor parses literals, identifiers and parenthesized expressions.
func (p *Parser) parseFactor() Expr {
	switch p.curToken.Type {
	case TokenInteger:
		return p.parseInteger(false)
	case TokenMinus:
		if p.peekTokenIs(TokenInteger) {
			return p.parseInteger(true)
		}
		p.errorf("expected integer after '-', got %s", p.describe(p.peekToken))
		return nil
	case TokenIdentifier:
		ident := &Identifier{
			SpanVal: MakeSpan(p.curToken.Pos, p.curToken.Pos),
			Name:    p.curToken.Literal,
		}
		p.nextToken()
		ident.SpanVal.End = p.prevEnd
		return ident
	case TokenLParen:
		startPos := p.curToken.Pos
		p.nextToken()
		inner := p.ParseExpression()
		if inner == nil || !p.expect(TokenRParen) {
			return nil
		}
		return &ParenExpr{
			SpanVal: MakeSpan(startPos, p.prevEnd),
			Inner:   inner,
		}
	case TokenError:
		p.errorf("%s", p.curToken.Literal)
		return nil
	default:
		p.errorf("unexpected %s in expression", p.describe(p.curToken))
		return nil
	}
}

// parseInteger parses an integer literal, with a leading '-' when negative is set.
func (p *Parser) parseInteger(negative bool) Expr {
	pos := p.curToken.Pos
	if negative {
		p.nextToken() // consume -
	}
	literal := p.curToken.Literal
	if negative {
		literal = "-" + literal
	}

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer: %s", literal)
		return nil
	}

	p.nextToken()
	return &IntLiteral{
		SpanVal: MakeSpan(pos, p.prevEnd),
		Literal: literal,
		Value:   value,
	}
}

// Parse parses source text into a Program, returning accumulated errors.
func Parse(source string) (*Program, []string) {
	p := NewParser(source)
	prog := p.ParseProgram()
	return prog, p.Errors()
}
