package cmd

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/criterion/lang"
)

// Funcs lists the builtin functions.
type Funcs struct {
	Query string `arg:"" help:"Fuzzy filter applied to function names." optional:""`
	Brief bool   `help:"Print only signatures."                          short:"1"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) error {
	w := output(ctx)

	for fn := range matchFunctions(f.Query) {
		if f.Brief {
			fmt.Fprintln(w, fn.Signature())

			continue
		}

		fmt.Fprintf(w, "%s\n    %s\n", fn.Signature(), fn.Help)

		if fn.Example != "" {
			fmt.Fprintf(w, "    e.g. %s\n", fn.Example)
		}
	}

	return nil
}

// functionNames implements [fuzzy.Source] over the builtin registry.
type functionNames []*lang.Function

func (s functionNames) String(i int) string { return s[i].Name }
func (s functionNames) Len() int            { return len(s) }

// matchFunctions yields the builtins whose names fuzzily match query, best
// match first. An empty query yields every builtin in name order.
func matchFunctions(query string) iter.Seq[*lang.Function] {
	all := functionNames(slices.Collect(lang.Functions()))

	if query == "" {
		return slices.Values(all)
	}

	return func(yield func(*lang.Function) bool) {
		for _, m := range fuzzy.FindFrom(strings.ToUpper(query), all) {
			if !yield(all[m.Index]) {
				return
			}
		}
	}
}
