package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/criterion/lang"
	"github.com/ardnew/criterion/log"
)

// Formula holds the flags shared by every command that compiles a formula.
type Formula struct {
	Expr   string   `arg:"" help:"Formula text, or '-' to read it from stdin." name:"expr"`
	Names  []string `       help:"Variable name the formula may reference, in addition to table columns." name:"name" short:"n"`
	Strict bool     `       help:"Reject unknown functions and wrong argument counts before evaluation."`
}

// compile parses the formula against known, sharing parsed trees across
// calls through the process-wide cache.
func (f *Formula) compile(
	ctx context.Context,
	known []string,
) (*lang.Criterion, error) {
	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithStrictCalls(f.Strict),
	}

	var (
		c   *lang.Criterion
		err error
	)

	if f.Expr == stdinSource {
		c, err = lang.CompileReader(ctx, os.Stdin, known, opts...)
	} else {
		c, err = lang.Compile(ctx, f.Expr, known, opts...)
	}

	if err != nil {
		return nil, ErrExpression.Wrap(err).With(slog.String("expr", f.Expr))
	}

	log.DebugContext(ctx, "formula compiled",
		slog.String("expr", c.Expression()),
		slog.Any("variables", c.Variables()))

	return c, nil
}
