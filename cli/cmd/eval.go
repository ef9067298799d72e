package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/criterion/lang"
	"github.com/ardnew/criterion/log"
)

// Eval evaluates a formula against every row of the sample table.
type Eval struct {
	Formula `embed:""`

	Format string `help:"Sample table format (${tableFormats}); default from file extension." placeholder:"FORMAT" short:"F"`
	Bool   bool   `help:"Require a boolean result; Missing counts as false."                                           short:"b"`
	Output string `help:"Result encoding (${evalOutputs})."                                      default:"text" enum:"${evalOutputs}" short:"o"`
	Jobs   int    `help:"Rows evaluated concurrently (0 uses every CPU)."                         default:"0"                          short:"j"`
}

// rowResult is the outcome of evaluating one row.
type rowResult struct {
	Row   int    `json:"row"             yaml:"row"`
	Value any    `json:"value"           yaml:"value"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	value lang.Value
}

// EvalOutputs lists the accepted values of the --output flag.
func EvalOutputs() []string { return []string{"text", "yaml", "json"} }

// Run executes the eval command. Per-row failures are reported alongside the
// successful rows and make the command fail once every row is printed.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tbl, err := loadTable(ctx, e.Format)
	if err != nil {
		return err
	}

	c, err := e.compile(ctx, knownNames(tbl, e.Names))
	if err != nil {
		return err
	}

	if tbl == nil || tbl.Len() == 0 {
		return ErrNoTable
	}

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]rowResult, tbl.Len())

	var g errgroup.Group

	g.SetLimit(jobs)

	for i, row := range tbl.All() {
		g.Go(func() error {
			results[i] = e.evaluate(ctx, c, i, row)

			return nil
		})
	}

	_ = g.Wait()

	failed := 0

	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}

	log.DebugContext(ctx, "evaluation complete",
		slog.Int("rows", len(results)),
		slog.Int("failed", failed),
		slog.Int("jobs", jobs))

	if err := writeResults(output(ctx), e.Output, results); err != nil {
		return err
	}

	if failed > 0 {
		return ErrRowsFailed.With(
			slog.Int("failed", failed),
			slog.Int("rows", len(results)),
		)
	}

	return nil
}

func (e *Eval) evaluate(
	ctx context.Context,
	c *lang.Criterion,
	i int,
	row lang.Symbols,
) rowResult {
	res := rowResult{Row: i + 1}

	if e.Bool {
		b, err := c.EvaluateBool(row)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.value, res.Value = lang.Bool(b), b
		}

		return res
	}

	v, err := c.EvaluateContext(ctx, row)
	if err != nil {
		res.Error = err.Error()

		return res
	}

	res.value, res.Value = v, v.Native()

	// JSON has no encoding for non-finite numbers.
	if f, ok := v.Number(); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		res.Value = v.String()
	}

	return res
}

func writeResults(w io.Writer, style string, results []rowResult) error {
	switch style {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(results); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case "yaml":
		data, err := yaml.Marshal(results)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	case "text", "":
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintf(w, "%d\terror: %s\n", res.Row, res.Error)

				continue
			}

			fmt.Fprintf(w, "%d\t%s\n", res.Row, res.value.String())
		}

		return nil

	default:
		return ErrInvalidStyle.With(slog.String("output", style))
	}
}
