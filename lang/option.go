package lang

import "github.com/ardnew/criterion/log"

// DefaultMaxDepth is the default limit on expression nesting.
const DefaultMaxDepth = 256

// options holds the configuration shared by parsing, compilation and
// evaluation. Only the fields in key affect cached compilation results.
type options struct {
	key    optionsKey
	logger log.Logger // outside key, doesn't affect cache
}

// optionsKey holds the options that change what a formula compiles to.
type optionsKey struct {
	strict   bool
	maxDepth int
}

// Option configures parsing, compilation or a [Criterion].
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrictCalls enables parse-time checking of function names and
// argument counts. By default these are reported when the formula is
// evaluated.
func WithStrictCalls(strict bool) Option {
	return func(o *options) {
		o.key.strict = strict
	}
}

// WithMaxDepth sets the maximum nesting depth of parentheses, calls and
// prefix operators. Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.key.maxDepth = depth
	}
}

func makeOptions(opts ...Option) options {
	o := options{key: optionsKey{maxDepth: DefaultMaxDepth}}

	for _, opt := range opts {
		opt(&o)
	}

	if o.key.maxDepth < 1 {
		o.key.maxDepth = DefaultMaxDepth
	}

	return o
}
