package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Parse tokenizes and parses formula text into an immutable expression tree.
//
// Every bracketed variable must be named in known. The first violation
// found, left to right, is returned as a *[SyntaxError] that unwraps to
// [ErrLex] or [ErrSyntax]. Function names and arities are only checked when
// [WithStrictCalls] is enabled; otherwise they are evaluation errors.
func Parse(text string, known []string, opts ...Option) (Expr, error) {
	o := makeOptions(opts...)

	return parse(context.Background(), text, known, o)
}

func parse(
	ctx context.Context,
	text string,
	known []string,
	o options,
) (Expr, error) {
	tokens, lexErr := scan(text)

	p := &parser{
		tokens: tokens,
		lexErr: lexErr,
		known:  make(map[string]struct{}, len(known)),
		strict: o.key.strict,
		limit:  o.key.maxDepth,
	}

	for _, name := range known {
		p.known[name] = struct{}{}
	}

	expr, serr := p.parseFormula()
	if serr != nil {
		serr.Source = text

		o.logger.TraceContext(ctx, "parse failed",
			slog.String("source", text),
			slog.Any("error", serr))

		return nil, serr
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.String("source", text),
		slog.Int("token_count", len(tokens)))

	return expr, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	lexErr *SyntaxError // reported when the parser reaches tokenInvalid
	pos    int
	known  map[string]struct{}
	strict bool
	depth  int
	limit  int
}

// parseFormula parses: expr EOF.
func (p *parser) parseFormula() (Expr, *SyntaxError) {
	if p.peek().Kind == TokenEOF {
		return nil, p.errorf(p.peek(), "empty expression")
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.errorf(tok, "unexpected %s after complete expression",
			tok.describe())
	}

	return expr, nil
}

// parseOr parses: andExpr (OR andExpr)*.
func (p *parser) parseOr() (Expr, *SyntaxError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().is(TokenKeyword, keywordOr) {
		op := p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: OpOr, X: left, Y: right, OpPos: op.Pos}
	}

	return left, nil
}

// parseAnd parses: notExpr (AND notExpr)*.
func (p *parser) parseAnd() (Expr, *SyntaxError) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.peek().is(TokenKeyword, keywordAnd) {
		op := p.advance()

		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: OpAnd, X: left, Y: right, OpPos: op.Pos}
	}

	return left, nil
}

// parseNot parses: NOT notExpr | relExpr.
func (p *parser) parseNot() (Expr, *SyntaxError) {
	if p.peek().is(TokenKeyword, keywordNot) {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		op := p.advance()

		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: OpNot, X: x, Pos: op.Pos}, nil
	}

	return p.parseRel()
}

// parseRel parses: addExpr (relOp addExpr)?.
// Comparisons do not chain.
func (p *parser) parseRel() (Expr, *SyntaxError) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	op, ok := p.relOp()
	if !ok {
		return left, nil
	}

	opTok := p.advance()

	if err := p.checkOrdering(op, opTok, left); err != nil {
		return nil, err
	}

	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	if err := p.checkOrdering(op, opTok, right); err != nil {
		return nil, err
	}

	if _, chained := p.relOp(); chained {
		return nil, p.errorf(p.peek(),
			"comparisons cannot be chained; combine them with AND/OR "+
				"and parentheses")
	}

	return &Binary{Op: op, X: left, Y: right, OpPos: opTok.Pos}, nil
}

// checkOrdering rejects a string literal operand of an ordering operator.
func (p *parser) checkOrdering(op Op, opTok Token, side Expr) *SyntaxError {
	if !op.isOrdering() {
		return nil
	}

	if lit, ok := side.(*Literal); ok && lit.Value.Kind() == KindText {
		return p.errorf(opTok, "operator %q cannot compare string literal %s",
			op.String(), lit.Value.String())
	}

	return nil
}

// parseAdd parses: mulExpr (('+'|'-') mulExpr)*.
func (p *parser) parseAdd() (Expr, *SyntaxError) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		var op Op

		switch {
		case tok.is(TokenOp, "+"):
			op = OpAdd
		case tok.is(TokenOp, "-"):
			op = OpSub
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, X: left, Y: right, OpPos: tok.Pos}
	}
}

// parseMul parses: unary (('*'|'/') unary)*.
func (p *parser) parseMul() (Expr, *SyntaxError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		var op Op

		switch {
		case tok.is(TokenOp, "*"):
			op = OpMul
		case tok.is(TokenOp, "/"):
			op = OpDiv
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, X: left, Y: right, OpPos: tok.Pos}
	}
}

// parseUnary parses: '-' unary | primary.
func (p *parser) parseUnary() (Expr, *SyntaxError) {
	if tok := p.peek(); tok.is(TokenOp, "-") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: OpNeg, X: x, Pos: tok.Pos}, nil
	}

	return p.parsePrimary()
}

// parsePrimary parses a literal, variable, call or parenthesized expression.
func (p *parser) parsePrimary() (Expr, *SyntaxError) {
	tok := p.peek()

	switch tok.Kind {
	case TokenNumber:
		p.advance()

		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(tok, "malformed number %q", tok.Text)
		}

		return &Literal{Value: Number(f), Pos: tok.Pos}, nil

	case TokenString:
		p.advance()

		return &Literal{Value: Text(tok.Text), Pos: tok.Pos}, nil

	case TokenIdent:
		p.advance()

		if _, ok := p.known[tok.Text]; !ok {
			return nil, p.errorf(tok, "unknown variable [%s]", tok.Text)
		}

		return &VarRef{Name: tok.Text, Pos: tok.Pos}, nil

	case TokenName:
		return p.parseCall()

	case TokenLParen:
		p.advance()

		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if !p.peek().is(TokenRParen, ")") {
			return nil, p.errorf(p.peek(),
				"expected ')' to close '(' at column %d, found %s",
				tok.Pos.Column, p.peek().describe())
		}

		p.advance()

		return expr, nil

	case TokenEOF:
		return nil, p.errorf(tok, "unexpected end of expression; "+
			"expected a value")

	default:
		return nil, p.errorf(tok, "unexpected %s; expected a value",
			tok.describe())
	}
}

// parseCall parses: NAME '(' (expr (',' expr)*)? ')'.
func (p *parser) parseCall() (Expr, *SyntaxError) {
	nameTok := p.advance()

	if !p.peek().is(TokenLParen, "(") {
		return nil, p.errorf(nameTok,
			"unexpected name %q; variables are written as [%s]",
			nameTok.Text, nameTok.Text)
	}

	p.advance()

	call := &Call{
		Name: strings.ToUpper(nameTok.Text),
		Pos:  nameTok.Pos,
	}

	if !p.peek().is(TokenRParen, ")") {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, arg)

			if !p.peek().is(TokenComma, ",") {
				break
			}

			p.advance()
		}
	}

	if !p.peek().is(TokenRParen, ")") {
		return nil, p.errorf(p.peek(),
			"expected ',' or ')' in call to %s, found %s",
			call.Name, p.peek().describe())
	}

	p.advance()

	if p.strict {
		fn, ok := LookupFunction(call.Name)
		if !ok {
			return nil, p.errorf(nameTok, "unknown function %s", call.Name)
		}

		if !fn.accepts(len(call.Args)) {
			return nil, p.errorf(nameTok, "%s expects %s, got %d",
				call.Name, fn.arity(), len(call.Args))
		}
	}

	return call, nil
}

// Helper methods

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

// advance consumes and returns the current token. The trailing EOF or
// invalid token is never consumed.
func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF && tok.Kind != tokenInvalid {
		p.pos++
	}

	return tok
}

// enter descends one nesting level, failing once the limit is exceeded.
func (p *parser) enter() *SyntaxError {
	p.depth++
	if p.depth > p.limit {
		return p.errorf(p.peek(), "expression nested deeper than %d levels",
			p.limit)
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// relOp reports the comparison operator at the current token, if any.
func (p *parser) relOp() (Op, bool) {
	tok := p.peek()
	if tok.Kind != TokenOp {
		return 0, false
	}

	op, ok := relOps[tok.Text]

	return op, ok
}

// errorf reports a syntax error at tok. If tok is where lexing failed, the
// lexical error is reported instead.
func (p *parser) errorf(tok Token, format string, args ...any) *SyntaxError {
	if tok.Kind == tokenInvalid && p.lexErr != nil {
		return p.lexErr
	}

	return newSyntaxError(ErrSyntax, tok.Pos, fmt.Sprintf(format, args...))
}
