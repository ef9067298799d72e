package lang

import "math"

var mathFuncs = []*Function{
	{
		Name:    "LOG",
		Help:    "Logarithm of x in the given base",
		Example: "LOG(64, 2)",
		Params:  []string{"x", "base"},
		Min:     2, Max: 2,
		call: func(c *call) (Value, error) {
			if c.missing() {
				return Missing(), nil
			}

			x, err := c.number(0)
			if err != nil {
				return Missing(), err
			}

			base, err := c.number(1)
			if err != nil {
				return Missing(), err
			}

			return Number(math.Log(x) / math.Log(base)), nil
		},
	},
	{
		Name:    "LOG10",
		Help:    "Base-10 logarithm of x; a second argument is accepted and ignored",
		Example: "LOG10(100)",
		Params:  []string{"x", "ignored"},
		Min:     1, Max: 2,
		call: func(c *call) (Value, error) {
			if c.missing() {
				return Missing(), nil
			}

			xs, err := c.numbers()
			if err != nil {
				return Missing(), err
			}

			return Number(math.Log10(xs[0])), nil
		},
	},
	{
		Name:    "SQRT",
		Help:    "Square root of x",
		Example: "SQRT(9)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Sqrt),
	},
	{
		Name:    "SIN",
		Help:    "Sine of x radians",
		Example: "SIN(0.5 * 3.14159)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Sin),
	},
	{
		Name:    "COS",
		Help:    "Cosine of x radians",
		Example: "COS(0)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Cos),
	},
	{
		Name:    "EXP",
		Help:    "e raised to the power x",
		Example: "EXP(1)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Exp),
	},
	{
		Name:    "POWER",
		Help:    "x raised to the power y",
		Example: "POWER(2, 10)",
		Params:  []string{"x", "y"},
		Min:     2, Max: 2,
		call: func(c *call) (Value, error) {
			if c.missing() {
				return Missing(), nil
			}

			xs, err := c.numbers()
			if err != nil {
				return Missing(), err
			}

			return Number(math.Pow(xs[0], xs[1])), nil
		},
	},
	{
		Name:    "ABS",
		Help:    "Absolute value of x",
		Example: "ABS([x] - [y])",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Abs),
	},
	{
		Name:    "ROUND",
		Help:    "x rounded to the nearest integer, halves away from zero",
		Example: "ROUND(2.5)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Round),
	},
	{
		Name:    "CEILING",
		Help:    "Smallest integer not less than x",
		Example: "CEILING(1.2)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Ceil),
	},
	{
		Name:    "FLOOR",
		Help:    "Largest integer not greater than x",
		Example: "FLOOR(1.8)",
		Params:  []string{"x"},
		Min:     1, Max: 1,
		call:    unary(math.Floor),
	},
	{
		Name:    "IF",
		Help:    "b if cond is true, otherwise c; a missing cond counts as false",
		Example: "IF(3 > 5, 1, -1)",
		Params:  []string{"cond", "then", "else"},
		Min:     3, Max: 3,
		call: func(c *call) (Value, error) {
			cond, ok := truthy(c.args[0])
			if !ok {
				return Missing(), c.badArg(0, "Bool")
			}

			if cond {
				return c.args[1], nil
			}

			return c.args[2], nil
		},
	},
	{
		Name:    "ISNUMBER",
		Help:    "Whether x is a number",
		Example: "ISNUMBER([x])",
		Params:  []string{"v"},
		Min:     1, Max: 1,
		call: func(c *call) (Value, error) {
			return Bool(c.args[0].Kind() == KindNumber), nil
		},
	},
}
