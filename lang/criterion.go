package lang

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
)

// Criterion owns one parsed formula, its source text and the variable names
// it was validated against.
//
// The zero Criterion is empty and ready to use. [Criterion.Evaluate] and
// [Criterion.EvaluateBool] may be called concurrently with each other and
// with [Criterion.SetExpression]; each call observes either the previous or
// the new formula in full.
type Criterion struct {
	prog atomic.Pointer[program]
	opts options
}

// program is an immutable compiled formula. It may be shared between
// Criterion values.
type program struct {
	source string
	names  []string
	expr   Expr
}

// New returns an empty Criterion.
func New(opts ...Option) *Criterion {
	return &Criterion{opts: makeOptions(opts...)}
}

// SetExpression parses text, requiring every bracketed variable to appear in
// known, and installs the result. On failure the previous formula is kept
// and the returned error describes the first syntax violation.
func (c *Criterion) SetExpression(text string, known []string) error {
	return c.SetExpressionContext(context.Background(), text, known)
}

// SetExpressionContext is [Criterion.SetExpression] with a context for
// logging.
func (c *Criterion) SetExpressionContext(
	ctx context.Context,
	text string,
	known []string,
) error {
	o := c.options()

	expr, err := parse(ctx, text, known, o)
	if err != nil {
		return err
	}

	c.prog.Store(&program{
		source: text,
		names:  slices.Clone(known),
		expr:   expr,
	})

	return nil
}

// Expression returns the source text of the installed formula.
func (c *Criterion) Expression() string {
	if p := c.prog.Load(); p != nil {
		return p.source
	}

	return ""
}

// Names returns the variable names the installed formula was validated
// against.
func (c *Criterion) Names() []string {
	if p := c.prog.Load(); p != nil {
		return slices.Clone(p.names)
	}

	return nil
}

// AST returns the installed expression tree, or nil if none is installed.
func (c *Criterion) AST() Expr {
	if p := c.prog.Load(); p != nil {
		return p.expr
	}

	return nil
}

// Variables returns the distinct variable names the installed formula
// references, sorted.
func (c *Criterion) Variables() []string {
	return Variables(c.AST())
}

// Evaluate evaluates the installed formula against scope.
func (c *Criterion) Evaluate(scope Scope) (Value, error) {
	return c.EvaluateContext(context.Background(), scope)
}

// EvaluateContext is [Criterion.Evaluate] with a context for logging.
func (c *Criterion) EvaluateContext(
	ctx context.Context,
	scope Scope,
) (Value, error) {
	p := c.prog.Load()
	if p == nil {
		return Missing(), ErrNoExpression
	}

	v, err := Eval(p.expr, scope)

	logger := c.options().logger
	if err != nil {
		logger.TraceContext(ctx, "evaluate failed",
			slog.String("source", p.source),
			slog.Any("error", err))

		return v, err
	}

	logger.TraceContext(ctx, "evaluate complete",
		slog.String("source", p.source),
		slog.String("result", v.String()))

	return v, nil
}

// EvaluateBool evaluates the installed formula and requires a boolean
// result. A [Missing] result counts as false.
func (c *Criterion) EvaluateBool(scope Scope) (bool, error) {
	v, err := c.Evaluate(scope)
	if err != nil {
		return false, err
	}

	if b, ok := truthy(v); ok {
		return b, nil
	}

	return false, ErrTypeMismatch.With(
		slog.String("expected", KindBool.String()),
		slog.String("got", v.Kind().String()),
	)
}

func (c *Criterion) options() options {
	if c.opts.key.maxDepth == 0 {
		return makeOptions()
	}

	return c.opts
}
