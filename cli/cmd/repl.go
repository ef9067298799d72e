package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/criterion/cli/cmd/repl"
	"github.com/ardnew/criterion/log"
)

// Repl starts an interactive formula session.
type Repl struct {
	Format  string   `help:"Sample table format (${tableFormats}); default from file extension." placeholder:"FORMAT" short:"F"`
	Names   []string `help:"Declare additional variable names."                                 name:"name"          short:"n" placeholder:"NAME"`
	History string   `help:"History file; empty disables persistence."                          default:"${history}" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tbl, err := loadTable(ctx, r.Format)
	if err != nil {
		return err
	}

	names := knownNames(tbl, r.Names)

	log.DebugContext(ctx, "repl session",
		slog.Int("names", len(names)),
		slog.String("history", r.History))

	return repl.Run(ctx, tbl, names, r.History, log.Default())
}
