package lang

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// T-test types accepted by TTEST.
const (
	ttestPaired  = 1 // paired samples
	ttestPooled  = 2 // two samples, equal variance
	ttestWelch   = 3 // two samples, unequal variance
	ttestMinSize = 2
)

var statFuncs = []*Function{
	{
		Name:    "SUM",
		Help:    "Sum of the arguments",
		Example: "SUM(1.0, 0.5, 0.25, 0.25)",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call:    aggregate(floats.Sum),
	},
	{
		Name:    "AVERAGE",
		Help:    "Arithmetic mean of the arguments",
		Example: "AVERAGE([a], [b], [c])",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call: aggregate(func(xs []float64) float64 {
			return stat.Mean(xs, nil)
		}),
	},
	{
		Name:    "MAX",
		Help:    "Largest argument",
		Example: "MAX([a], [b])",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call:    aggregate(floats.Max),
	},
	{
		Name:    "MIN",
		Help:    "Smallest argument",
		Example: "MIN([a], [b])",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call:    aggregate(floats.Min),
	},
	{
		Name:    "SUMSQ",
		Help:    "Sum of the squares of the arguments",
		Example: "SUMSQ(1, 2, 3)",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call: aggregate(func(xs []float64) float64 {
			return floats.Dot(xs, xs)
		}),
	},
	{
		Name:    "VAR",
		Help:    "Sample variance of the arguments (n-1 denominator)",
		Example: "VAR(6, 8, -3, 10, 4)",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call:    aggregate(sampleVariance),
	},
	{
		Name:    "STDEV",
		Help:    "Sample standard deviation of the arguments (n-1 denominator)",
		Example: "STDEV(6, 8, -3, 10, 4)",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call: aggregate(func(xs []float64) float64 {
			return math.Sqrt(sampleVariance(xs))
		}),
	},
	{
		Name:    "ARRAY",
		Help:    "Groups numbers into a sample; only valid as a TTEST argument",
		Example: "ARRAY([a1], [a2], [a3])",
		Params:  []string{"x"},
		Min:     1, Max: -1,
		call: func(c *call) (Value, error) {
			if c.missing() {
				return Missing(), nil
			}

			xs, err := c.numbers()
			if err != nil {
				return Missing(), err
			}

			return array(xs), nil
		},
	},
	{
		Name: "TTEST",
		Help: "Student's t-test p-value; tails is 1 or 2, " +
			"type is 1 (paired), 2 (equal variance) or 3 (unequal variance)",
		Example: "TTEST(ARRAY(1, 4, 3, 4), ARRAY(1, 2, 5, 9), 2, 3)",
		Params:  []string{"a", "b", "tails", "type"},
		Min:     4, Max: 4,
		call:    ttest,
	},
}

// sampleVariance divides by n-1 and is 0 for a single observation.
func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}

	return stat.Variance(xs, nil)
}

func ttest(c *call) (Value, error) {
	if c.missing() {
		return Missing(), nil
	}

	var samples [2][]float64

	for i := range samples {
		if c.args[i].Kind() != KindArray {
			return Missing(), c.badArg(i, "Array")
		}

		samples[i] = c.args[i].array
		if len(samples[i]) < ttestMinSize {
			return Missing(), ErrBadArguments.With(
				slog.String("function", c.fn.Name),
				slog.Int("argument", i+1),
				slog.String("issue", "sample needs at least 2 values"),
			)
		}
	}

	tails, err := c.integer(2)
	if err != nil {
		return Missing(), err
	}

	if tails != 1 && tails != 2 {
		return Missing(), c.badArg(2, "1 or 2")
	}

	kind, err := c.integer(3)
	if err != nil {
		return Missing(), err
	}

	x, y := samples[0], samples[1]

	var t, df float64

	switch kind {
	case ttestPaired:
		if len(x) != len(y) {
			return Missing(), ErrBadArguments.With(
				slog.String("function", c.fn.Name),
				slog.String("issue", "paired samples differ in length"),
				slog.Int("len1", len(x)),
				slog.Int("len2", len(y)),
			)
		}

		d := make([]float64, len(x))
		floats.SubTo(d, x, y)

		n := float64(len(d))
		t = stat.Mean(d, nil) / math.Sqrt(stat.Variance(d, nil)/n)
		df = n - 1

	case ttestPooled:
		n1, n2 := float64(len(x)), float64(len(y))
		m1, v1 := stat.MeanVariance(x, nil)
		m2, v2 := stat.MeanVariance(y, nil)

		df = n1 + n2 - 2
		pooled := ((n1-1)*v1 + (n2-1)*v2) / df
		t = (m1 - m2) / math.Sqrt(pooled*(1/n1+1/n2))

	case ttestWelch:
		n1, n2 := float64(len(x)), float64(len(y))
		m1, v1 := stat.MeanVariance(x, nil)
		m2, v2 := stat.MeanVariance(y, nil)

		s1, s2 := v1/n1, v2/n2
		t = (m1 - m2) / math.Sqrt(s1+s2)
		df = (s1 + s2) * (s1 + s2) / (s1*s1/(n1-1) + s2*s2/(n2-1))

	default:
		return Missing(), c.badArg(3, "1, 2 or 3")
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 1 - dist.CDF(math.Abs(t))

	return Number(float64(tails) * p), nil
}
