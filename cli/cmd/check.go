package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/criterion/lang"
)

// Check validates a formula without evaluating it.
type Check struct {
	Formula `embed:""`

	Format string `help:"Sample table format (${tableFormats}); default from file extension." placeholder:"FORMAT" short:"F"`
}

// Run executes the check command. It prints "ok" for a valid formula, or the
// syntax error with a caret under the offending column.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tbl, err := loadTable(ctx, c.Format)
	if err != nil {
		return err
	}

	w := output(ctx)

	_, err = c.compile(ctx, knownNames(tbl, c.Names))
	if err != nil {
		var serr *lang.SyntaxError
		if errors.As(err, &serr) {
			fmt.Fprintln(w, serr.Error())
			fmt.Fprintln(w, serr.Snippet())
		}

		return err
	}

	fmt.Fprintln(w, "ok")

	return nil
}
