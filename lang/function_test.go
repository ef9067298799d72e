package lang

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestFunctions_Numeric(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		tol   float64
	}{
		{input: "AVERAGE(LOG(2, 2), LOG10(100, 0), SQRT(9))", want: 2},
		{input: "SUM(1.0, 0.5, 0.25, 0.25)", want: 2},
		{input: "SUM(SIN(0.5 * 3.14159), COS(0))", want: 2, tol: 1e-6},
		{input: "LOG(64, 2)", want: 6},
		{input: "LOG10(1000)", want: 3},
		{input: "SUMSQ(1, 2, 3)", want: 14},
		{input: "MAX(3, -1, 7, 2)", want: 7},
		{input: "MIN(3, -1, 7, 2)", want: -1},
		{input: "STDEV(1, 3, 5)", want: 2},
		{input: "VAR(1, 3, 5)", want: 4},
		{input: "STDEV(6, 8, -3, 10, 4)", want: 5},
		{input: "VAR(6, 8, -3, 10, 4)", want: 25},
		{input: "STDEV(1, 1, 1)", want: 0},
		{input: "STDEV(42)", want: 0},
		{input: "VAR(42)", want: 0},
		{input: "VAR(1, 3)", want: 2},
		{input: "POWER(2, 10)", want: 1024},
		{input: "EXP(0)", want: 1},
		{input: "ABS(-3.5)", want: 3.5},
		{input: "ROUND(2.5)", want: 3},
		{input: "ROUND(-2.5)", want: -3},
		{input: "CEILING(1.2)", want: 2},
		{input: "FLOOR(-1.2)", want: -2},
		{input: "IF(1 < 2, 10, 20)", want: 10},
		{input: "LEN(\"abcde\")", want: 5},
		{input: "LEN(\"héllo\")", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := evalString(t, tt.input, nil)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			got, ok := v.Number()
			if !ok {
				t.Fatalf("result %v is %v, want Number", v, v.Kind())
			}

			tol := tt.tol
			if tol == 0 {
				tol = 1e-9
			}

			if math.Abs(got-tt.want) > tol {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFunctions_TTest(t *testing.T) {
	const (
		a = "ARRAY(1, 4, 3, 4)"
		b = "ARRAY(1, 2, 5, 9)"
	)

	tests := []struct {
		tails, kind int
		want        float64
	}{
		{tails: 1, kind: 1, want: 0.2319},
		{tails: 2, kind: 1, want: 0.4639},
		{tails: 1, kind: 2, want: 0.2706},
		{tails: 2, kind: 2, want: 0.5413},
		{tails: 1, kind: 3, want: 0.2767},
		{tails: 2, kind: 3, want: 0.5535},
	}

	for _, tt := range tests {
		input := "TTEST(" + a + ", " + b + ", " +
			formatNumber(float64(tt.tails)) + ", " +
			formatNumber(float64(tt.kind)) + ")"

		t.Run(input, func(t *testing.T) {
			v, err := evalString(t, input, nil)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			got, _ := v.Number()
			if math.Abs(got-tt.want) > 5e-4 {
				t.Errorf("got %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestFunctions_TTestTwoTailedDoublesOneTailed(t *testing.T) {
	for _, kind := range []string{"1", "2", "3"} {
		t.Run("type "+kind, func(t *testing.T) {
			one, err := evalString(t,
				"TTEST(ARRAY(2, 4, 6, 9), ARRAY(1, 3, 3, 4), 1, "+kind+")", nil)
			if err != nil {
				t.Fatal(err)
			}

			two, err := evalString(t,
				"TTEST(ARRAY(2, 4, 6, 9), ARRAY(1, 3, 3, 4), 2, "+kind+")", nil)
			if err != nil {
				t.Fatal(err)
			}

			p1, _ := one.Number()
			p2, _ := two.Number()

			if math.Abs(2*p1-p2) > 1e-12 {
				t.Errorf("two-tailed %v is not twice one-tailed %v", p2, p1)
			}
		})
	}
}

func TestFunctions_TTestErrors(t *testing.T) {
	for _, input := range []string{
		"TTEST(ARRAY(1, 2), ARRAY(1, 2), 3, 1)",
		"TTEST(ARRAY(1, 2), ARRAY(1, 2), 1, 4)",
		"TTEST(ARRAY(1, 2), ARRAY(1, 2, 3), 1, 1)",
		"TTEST(ARRAY(1), ARRAY(1, 2), 1, 2)",
		"TTEST(ARRAY(1, 2), 2, 1, 2)",
		"TTEST(ARRAY(1, 2), ARRAY(1, 2), 1)",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := evalString(t, input, nil)
			if !errors.Is(err, ErrBadArguments) {
				t.Fatalf("expected ErrBadArguments, got %v", err)
			}

			if !strings.Contains(err.Error(), "TTEST") {
				t.Errorf("error %q does not name the function", err)
			}
		})
	}
}

func TestFunctions_Text(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{input: `MID("abcde", 2, 2)`, want: Text("bc")},
		{input: `MID("abcde", 4, 10)`, want: Text("de")},
		{input: `MID("abcde", 9, 1)`, want: Text("")},
		{input: `RIGHT("abcde", 2)`, want: Text("de")},
		{input: `RIGHT("abcde")`, want: Text("e")},
		{input: `RIGHT("abc", 10)`, want: Text("abc")},
		{input: `LEFT("abcde", 3)`, want: Text("abc")},
		{input: `LEFT("abcde", 0)`, want: Text("")},
		{input: `LEFT("héllo", 2)`, want: Text("hé")},
		{input: `LEFT("abc", 99999999999999999999999999999)`, want: Text("abc")},
		{input: `RIGHT("abc", 99999999999999999999999999999)`, want: Text("abc")},
		{input: `MID("abcde", 2, 9223372036854774784)`, want: Text("bcde")},
		{input: `MID("abcde", 99999999999, 1)`, want: Text("")},
		{input: `FIND("a", "abc", 99999999999)`, want: Number(0)},
		{input: `FIND("ss", "mississippi")`, want: Number(3)},
		{input: `FIND("ss", "mississippi", 3)`, want: Number(3)},
		{input: `FIND("ss", "mississippi", 4)`, want: Number(6)},
		{input: `FIND("zz", "mississippi")`, want: Number(0)},
		{input: `FIND("i", "mississippi", 50)`, want: Number(0)},
		{input: `CONCATENATE("id-", 42, "-", 0.5)`, want: Text("id-42-0.5")},
		{input: `TRIM("  abc ")`, want: Text("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := evalString(t, tt.input, nil)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			if !v.Equal(tt.want) {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestFunctions_TextHugeArguments(t *testing.T) {
	symbols := Symbols{"s": Text(strings.Repeat("a", 3000))}

	tests := []struct {
		input string
		want  Value
	}{
		{input: `MID([s], 2000, 9223372036854774784)`, want: Text(strings.Repeat("a", 1001))},
		{input: `MID([s], 9999999999999999999999999999999999999999, 9999999999999999999999999999999999999999)`, want: Text("")},
		{input: `LEN(LEFT([s], 9999999999999999999999999999999999999999))`, want: Number(3000)},
		{input: `LEN(RIGHT([s], 100000000000000000000))`, want: Number(3000)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := evalString(t, tt.input, symbols)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			if !v.Equal(tt.want) {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestFunctions_TextErrors(t *testing.T) {
	for _, input := range []string{
		`MID("abcde", 0, 2)`,
		`MID("abcde", 1, -1)`,
		`LEFT("abcde", -1)`,
		`LEFT("abcde")`,
		`FIND("a", "abc", 0)`,
		`FIND(1, "abc")`,
		`CONCATENATE("a", 1 < 2)`,
	} {
		t.Run(input, func(t *testing.T) {
			if _, err := evalString(t, input, nil); !errors.Is(err, ErrBadArguments) {
				t.Errorf("expected ErrBadArguments, got %v", err)
			}
		})
	}
}

func TestFunctions_Registry(t *testing.T) {
	var names []string

	for fn := range Functions() {
		names = append(names, fn.Name)

		if fn.Name != strings.ToUpper(fn.Name) {
			t.Errorf("%s: name is not upper-case", fn.Name)
		}

		if fn.Help == "" || fn.Example == "" {
			t.Errorf("%s: missing help or example", fn.Name)
		}

		if _, err := Parse(fn.Example, []string{"x", "y", "a", "b", "c", "a1", "a2", "a3"}, WithStrictCalls(true)); err != nil {
			t.Errorf("%s: example %q does not parse: %v", fn.Name, fn.Example, err)
		}
	}

	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Functions not sorted: %q before %q", names[i-1], names[i])
		}
	}

	if _, ok := LookupFunction("TTEST"); !ok {
		t.Error("TTEST not registered")
	}

	if _, ok := LookupFunction("ttest"); ok {
		t.Error("lookup is expected to use upper-case names")
	}
}

func TestFunction_Signature(t *testing.T) {
	tests := map[string]string{
		"LOG":   "LOG(x, base)",
		"LOG10": "LOG10(x, [ignored])",
		"SUM":   "SUM(x, ...)",
		"SQRT":  "SQRT(x)",
		"FIND":  "FIND(needle, s, [start])",
	}

	for name, want := range tests {
		fn, ok := LookupFunction(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}

		if got := fn.Signature(); got != want {
			t.Errorf("%s.Signature() = %q, want %q", name, got, want)
		}
	}
}
