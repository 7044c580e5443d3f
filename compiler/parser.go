package compiler

import "fmt"

// parser takes tokens from the lexer and produces an AST (Abstract Syntax
// Tree). It is a recursive descent parser with a single token of lookahead.
// Whitespace tokens are skipped by the cursor and never reach the grammar.

// maxDepth bounds how deeply parentheses and function calls may nest.
const maxDepth = 1000

const (
	clauseProjection = "projection"
	clauseTable      = "table"
	clauseFilter     = "filter"
)

var (
	comparisonOps = map[TokenType]string{
		TkEq:    OpEq,
		TkNotEq: OpNotEq,
		TkLt:    OpLt,
		TkLtEq:  OpLtEq,
		TkGt:    OpGt,
		TkGtEq:  OpGtEq,
	}
	additiveOps = map[TokenType]string{
		TkPlus:  OpAdd,
		TkMinus: OpSub,
	}
	multiplicativeOps = map[TokenType]string{
		TkAsterisk: OpMul,
		TkSlash:    OpDiv,
	}
)

// Parser builds a statement from sql. A Parser may be reused for many inputs
// but not by concurrent callers.
//
// By default every grammar violation is an *Error. A permissive parser instead
// makes a best effort: commas between result columns are optional, tokens that
// do not fit are skipped, and input that is not a SELECT produces a NoneStmt.
// Everything skipped is reported by Diagnostics.
type Parser struct {
	lexer       *Lexer
	permissive  bool
	tokens      []Token
	pos         int
	depth       int
	diagnostics []error
}

func NewParser() *Parser {
	return &Parser{lexer: NewLexer("")}
}

func NewPermissiveParser() *Parser {
	return &Parser{lexer: NewPermissiveLexer(""), permissive: true}
}

// Parse parses sql with a strict parser.
func Parse(sql string) (Stmt, error) {
	return NewParser().Parse(sql)
}

func (p *Parser) Parse(sql string) (Stmt, error) {
	p.reset(nil)
	p.lexer.Init(sql)
	tokens, err := p.lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	p.reset(tokens)
	p.diagnostics = append(p.diagnostics, p.lexer.Diagnostics()...)
	return p.parseStmt()
}

// ParseTokens parses tokens that were already lexed. The tokens do not need a
// trailing TkEOF. Without one the end of input is placed right after the last
// token's Value, which is only approximate since a whitespace run is always
// " " and uppercasing may change a word's byte length. Pass the tokens from
// Tokenize unchanged for exact offsets.
func (p *Parser) ParseTokens(tokens []Token) (Stmt, error) {
	p.reset(tokens)
	return p.parseStmt()
}

// Diagnostics returns what a permissive parser skipped during the last parse.
// It is always empty for a strict parser.
func (p *Parser) Diagnostics() []error {
	return p.diagnostics
}

func (p *Parser) reset(tokens []Token) {
	p.tokens = tokens
	p.pos = 0
	p.depth = 0
	p.diagnostics = nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	t := p.peek()
	if t.IsKeyword(KwSelect) {
		stmt, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		return stmt, nil
	}
	err := &Error{
		Kind:       UnexpectedTopLevelToken,
		Offset:     t.Pos,
		TokenIndex: p.pos,
		Expected:   "SELECT",
		Found:      t.describe(),
	}
	if p.permissive {
		p.diagnostics = append(p.diagnostics, err)
		return &NoneStmt{}, nil
	}
	return nil, err
}

func (p *Parser) parseSelect() (*SelectStmt, error) {
	p.next()
	stmt := &SelectStmt{}
	clause := clauseProjection
	expected := "',' or FROM or WHERE or end of input"
	projection, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	stmt.Projection = projection
	if p.peek().IsKeyword(KwFrom) {
		p.next()
		from, err := p.parseTable()
		if err != nil {
			return nil, err
		}
		stmt.From = from
		clause = clauseTable
		expected = "WHERE or end of input"
	}
	if p.peek().IsKeyword(KwWhere) {
		p.next()
		selection, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		stmt.Selection = selection
		clause = clauseFilter
		expected = "end of input"
	}
	for t := p.peek(); t.Type != TkEOF; t = p.peek() {
		err := p.clauseErr(clause, expected, t)
		if !p.permissive {
			return nil, err
		}
		p.diagnostics = append(p.diagnostics, err)
		p.next()
	}
	return stmt, nil
}

func (p *Parser) parseProjection() ([]SelectItem, error) {
	if p.permissive {
		return p.parseProjectionPermissive(), nil
	}
	items := []SelectItem{}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.peek().Type != TkComma {
			return items, nil
		}
		p.next()
	}
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.peek().Type == TkAsterisk {
		p.next()
		return &Wildcard{}, nil
	}
	e, err := p.parseExpr(clauseProjection)
	if err != nil {
		return nil, err
	}
	return &UnnamedExpr{Expr: e}, nil
}

// parseProjectionPermissive takes every word and number up to FROM or WHERE as
// its own result column regardless of commas.
func (p *Parser) parseProjectionPermissive() []SelectItem {
	items := []SelectItem{}
	for {
		t := p.peek()
		switch {
		case t.Type == TkEOF, t.IsKeyword(KwFrom), t.IsKeyword(KwWhere):
			return items
		case t.Type == TkWord && t.Keyword == NoKeyword:
			items = append(items, &UnnamedExpr{Expr: &Identifier{Ident: Ident{Value: t.Value}}})
		case t.Type == TkNumber:
			items = append(items, &UnnamedExpr{Expr: &NumberLit{Value: t.Number}})
		case t.Type == TkAsterisk:
			items = append(items, &Wildcard{})
		case t.Type == TkComma:
		default:
			p.diagnostics = append(p.diagnostics, p.clauseErr(clauseProjection, "expression", t))
		}
		p.next()
	}
}

func (p *Parser) parseTable() (*Table, error) {
	t := p.peek()
	if t.Type != TkWord || t.Keyword != NoKeyword {
		err := p.clauseErr(clauseTable, "table name", t)
		if !p.permissive {
			return nil, err
		}
		p.diagnostics = append(p.diagnostics, err)
		return nil, nil
	}
	p.next()
	return &Table{Name: t.Value}, nil
}

func (p *Parser) parseFilter() (Expr, error) {
	e, err := p.parseExpr(clauseFilter)
	if err != nil {
		if !p.permissive {
			return nil, err
		}
		p.diagnostics = append(p.diagnostics, err)
		return nil, nil
	}
	return e, nil
}

// parseExpr parses an arithmetic expression optionally compared to another.
// Comparisons do not chain so a = b = c is an error.
func (p *Parser) parseExpr(clause string) (Expr, error) {
	left, err := p.parseArith(clause)
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.peek().Type]
	if !ok {
		return left, nil
	}
	p.next()
	right, err := p.parseArith(clause)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Left: left, Operator: op, Right: right}, nil
}

func (p *Parser) parseArith(clause string) (Expr, error) {
	return p.parseBinary(clause, additiveOps, p.parseTerm)
}

func (p *Parser) parseTerm(clause string) (Expr, error) {
	return p.parseBinary(clause, multiplicativeOps, p.parseFactor)
}

// parseBinary parses a left associative chain of operands joined by ops.
func (p *Parser) parseBinary(clause string, ops map[TokenType]string, operand func(string) (Expr, error)) (Expr, error) {
	left, err := operand(clause)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Type]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := operand(clause)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseFactor(clause string) (Expr, error) {
	t := p.peek()
	switch {
	case t.Type == TkNumber:
		p.next()
		return &NumberLit{Value: t.Number}, nil
	case t.Type == TkWord && t.Keyword == NoKeyword:
		p.next()
		if p.peek().Type == TkLeftParen {
			call, err := p.parseCall(clause, t)
			if err != nil {
				return nil, err
			}
			return call, nil
		}
		return &Identifier{Ident: Ident{Value: t.Value}}, nil
	case t.Type == TkLeftParen:
		if err := p.descend(clause, t); err != nil {
			return nil, err
		}
		defer p.ascend()
		p.next()
		inner, err := p.parseExpr(clause)
		if err != nil {
			return nil, err
		}
		if rp := p.peek(); rp.Type != TkRightParen {
			return nil, p.clauseErr(clause, "')'", rp)
		}
		p.next()
		return &ParenExpr{Inner: inner}, nil
	}
	return nil, p.clauseErr(clause, "expression", t)
}

func (p *Parser) parseCall(clause string, name Token) (*CallExpr, error) {
	if err := p.descend(clause, p.peek()); err != nil {
		return nil, err
	}
	defer p.ascend()
	p.next()
	call := &CallExpr{Name: name.Value, Args: []Expr{}}
	if p.peek().Type == TkRightParen {
		p.next()
		return call, nil
	}
	for {
		var arg Expr
		if p.peek().Type == TkAsterisk {
			p.next()
			arg = &WildcardArg{}
		} else {
			var err error
			arg, err = p.parseExpr(clause)
			if err != nil {
				return nil, err
			}
		}
		call.Args = append(call.Args, arg)
		switch t := p.peek(); t.Type {
		case TkComma:
			p.next()
		case TkRightParen:
			p.next()
			return call, nil
		default:
			return nil, p.clauseErr(clause, "',' or ')'", t)
		}
	}
}

// descend enters one level of nesting at t. Every successful descend is paired
// with an ascend.
func (p *Parser) descend(clause string, t Token) error {
	if p.depth >= maxDepth {
		return p.clauseErr(clause, fmt.Sprintf("at most %d nested expressions", maxDepth), t)
	}
	p.depth++
	return nil
}

func (p *Parser) ascend() {
	p.depth--
}

// peek returns the next token that is not whitespace without consuming it.
func (p *Parser) peek() Token {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Type == TkWhitespace {
		p.pos++
	}
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

// next consumes the token returned by peek.
func (p *Parser) next() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) eof() Token {
	if len(p.tokens) == 0 {
		return Token{Type: TkEOF}
	}
	last := p.tokens[len(p.tokens)-1]
	if last.Type == TkEOF {
		return last
	}
	return Token{Type: TkEOF, Pos: last.Pos + len(last.Value)}
}

// clauseErr reports t, the token at the cursor, as not fitting clause.
func (p *Parser) clauseErr(clause, expected string, t Token) *Error {
	return &Error{
		Kind:       UnexpectedTokenInClause,
		Offset:     t.Pos,
		TokenIndex: p.pos,
		Clause:     clause,
		Expected:   expected,
		Found:      t.describe(),
	}
}
