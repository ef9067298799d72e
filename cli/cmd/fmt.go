package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/criterion/lang"
)

// Fmt parses a formula and renders it in the chosen style.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical formula text (default)."`
	JSON   JSON   `cmd:""                    help:"Format the expression tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the expression tree as YAML."`
	Tree   Tree   `cmd:""                    help:"Print the expression tree as indented text."`
}

// Native formats a formula as canonical formula text.
type Native struct {
	Formula `embed:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := f.compile(ctx, f.Names)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(output(ctx), lang.Format(c.AST()))

	return err
}

// JSON formats the expression tree as JSON.
type JSON struct {
	Formula `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := j.compile(ctx, j.Names)
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(ctx, output(ctx), c.AST(), j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML formats the expression tree as YAML.
type YAML struct {
	Formula `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := y.compile(ctx, y.Names)
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, output(ctx), c.AST(), y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// Tree prints the expression tree, one node per line.
type Tree struct {
	Formula `embed:""`
}

// Run executes the fmt tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := t.compile(ctx, t.Names)
	if err != nil {
		return err
	}

	return lang.Print(output(ctx), c.AST())
}
