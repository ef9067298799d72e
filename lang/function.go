package lang

import (
	"iter"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Function describes a builtin formula function.
type Function struct {
	Name    string // upper-case
	Help    string // one-line description
	Example string // a formula using the function

	// Params names each argument position for display. When Max < 0 the
	// last parameter repeats.
	Params []string

	// Min and Max bound the number of arguments. Max < 0 means variadic.
	Min, Max int

	call func(c *call) (Value, error)
}

// registry holds every builtin, keyed by upper-case name. It is built once
// at init and never modified.
var registry = func() map[string]*Function {
	m := make(map[string]*Function)

	for _, group := range [][]*Function{mathFuncs, statFuncs, textFuncs} {
		for _, fn := range group {
			m[fn.Name] = fn
		}
	}

	return m
}()

// LookupFunction returns the builtin with the given upper-case name.
func LookupFunction(name string) (*Function, bool) {
	fn, ok := registry[name]

	return fn, ok
}

// Functions returns an iterator over all builtins, sorted by name.
func Functions() iter.Seq[*Function] {
	return func(yield func(*Function) bool) {
		for _, name := range slices.Sorted(maps.Keys(registry)) {
			if !yield(registry[name]) {
				return
			}
		}
	}
}

// Signature renders the calling convention, e.g. "LOG10(x, [ignored])".
func (f *Function) Signature() string {
	return f.Name + "(" + strings.Join(f.Labels(), ", ") + ")"
}

// Labels returns the display label of each parameter. Optional parameters
// are bracketed and a variadic tail is shown as "...".
func (f *Function) Labels() []string {
	labels := make([]string, 0, len(f.Params)+1)

	for i, p := range f.Params {
		if i >= f.Min {
			p = "[" + p + "]"
		}

		labels = append(labels, p)
	}

	if f.Max < 0 {
		labels = append(labels, "...")
	}

	return labels
}

func (f *Function) accepts(n int) bool {
	return n >= f.Min && (f.Max < 0 || n <= f.Max)
}

// arity describes the accepted argument count for error messages.
func (f *Function) arity() string {
	switch {
	case f.Max < 0:
		return "at least " + plural(f.Min, "argument")
	case f.Min == f.Max:
		return plural(f.Min, "argument")
	default:
		return strconv.Itoa(f.Min) + " to " + plural(f.Max, "argument")
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return strconv.Itoa(n) + " " + noun + "s"
}

// invoke checks arity and runs f on evaluated arguments.
func (f *Function) invoke(args []Value) (Value, error) {
	if !f.accepts(len(args)) {
		return Missing(), ErrBadArguments.With(
			slog.String("function", f.Name),
			slog.String("expected", f.arity()),
			slog.Int("got", len(args)),
		)
	}

	return f.call(&call{fn: f, args: args})
}

// call carries the arguments of one function invocation and provides typed
// accessors that produce [ErrBadArguments] naming the function.
type call struct {
	fn   *Function
	args []Value
}

func (c *call) badArg(i int, want string) error {
	return ErrBadArguments.With(
		slog.String("function", c.fn.Name),
		slog.Int("argument", i+1),
		slog.String("expected", want),
		slog.String("got", c.args[i].Kind().String()),
	)
}

// missing reports whether any argument is Missing.
func (c *call) missing() bool {
	for _, v := range c.args {
		if v.IsMissing() {
			return true
		}
	}

	return false
}

func (c *call) number(i int) (float64, error) {
	if f, ok := c.args[i].Number(); ok {
		return f, nil
	}

	return 0, c.badArg(i, "Number")
}

// integer truncates a numeric argument toward zero, clamped to the int32
// range so that counts and positions never overflow index arithmetic.
func (c *call) integer(i int) (int, error) {
	f, err := c.number(i)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, c.badArg(i, "finite Number")
	}

	return int(math.Trunc(max(math.MinInt32, min(f, math.MaxInt32)))), nil
}

func (c *call) text(i int) (string, error) {
	if s, ok := c.args[i].Text(); ok {
		return s, nil
	}

	return "", c.badArg(i, "Text")
}

// numbers returns every argument as a number.
func (c *call) numbers() ([]float64, error) {
	xs := make([]float64, len(c.args))

	for i := range c.args {
		f, err := c.number(i)
		if err != nil {
			return nil, err
		}

		xs[i] = f
	}

	return xs, nil
}

// unary adapts a float function of one argument.
func unary(fn func(float64) float64) func(*call) (Value, error) {
	return func(c *call) (Value, error) {
		if c.missing() {
			return Missing(), nil
		}

		x, err := c.number(0)
		if err != nil {
			return Missing(), err
		}

		return Number(fn(x)), nil
	}
}

// aggregate adapts a float function over all arguments.
func aggregate(fn func([]float64) float64) func(*call) (Value, error) {
	return func(c *call) (Value, error) {
		if c.missing() {
			return Missing(), nil
		}

		xs, err := c.numbers()
		if err != nil {
			return Missing(), err
		}

		return Number(fn(xs)), nil
	}
}
