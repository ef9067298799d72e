package lang

import (
	"errors"
	"math"
	"testing"
)

// evalString parses and evaluates input against symbols, declaring every
// symbol name.
func evalString(t *testing.T, input string, symbols Symbols) (Value, error) {
	t.Helper()

	known := make([]string, 0, len(symbols))
	for name := range symbols {
		known = append(known, name)
	}

	expr, err := Parse(input, known)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", input, err)
	}

	return Eval(expr, symbols)
}

func TestEval_Boolean(t *testing.T) {
	xy := Symbols{"x": Number(5.0), "y": Number(-1.0)}
	spaced := Symbols{"jouw waarde": Number(5.0), "mijn waarde": Number(-1.0)}
	na := Symbols{"var1": Text("NA"), "var2": Number(1.0)}
	color := Symbols{"color": Text("red")}

	tests := []struct {
		input   string
		symbols Symbols
		want    bool
	}{
		{"[x] > 0 AND [y] < 0", xy, true},
		{"[x] > 0 AND [y] > 0", xy, false},
		{"NOT (2 > 1)", xy, false},
		{"NOT (2 > 1) AND (1 > 2)", xy, false},
		{"5.0 > [y]", xy, true},
		{"[y] = -5.0", xy, false},
		{"[x] = 0 AND [y] = 0 OR [x] = 5.0 AND [y] = -1.0", xy, true},
		{"[x] = 0 AND ([y] = 0 OR [x] = -5.0) AND [y] = -1.0", xy, false},
		{"[x] <> 5", xy, false},
		{"[x] >= 5 AND [y] <= -1", xy, true},
		{"[jouw waarde] > 0 AND [mijn waarde] < 0", spaced, true},
		{"[jouw waarde] = 5 OR [mijn waarde] = 5", spaced, true},

		// Missing data truth table.
		{"([var1] > 0) OR ([var2] > 0)", na, true},
		{"([var2] < 0) OR ([var1] < 0)", na, false},
		{"([var2] > 0) AND ([var1] > 0)", na, false},
		{"([var1] > 0) AND ([var2] > 0)", na, false},
		{"[var1] = 0", na, false},
		{"[var1] <> 0", na, false},
		{"[var1] = \"NA\"", na, false},
		{"NOT ([var1] > 0)", na, true},
		{"[var1] + 1 > 0", na, false},
		{"NOT [var1]", na, true},

		{`[color] = "red"`, color, true},
		{`"red" = [color]`, color, true},
		{`[color] <> "red"`, color, false},
		{`[color] <> "blue"`, color, true},
		{`ISNUMBER(1.0) AND NOT ISNUMBER("hello")`, nil, true},
		{"2.0 + 0.01 > 2.0", nil, true},
		{"2 >= 2 + 0.01", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := evalString(t, tt.input, tt.symbols)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			b, ok := v.Bool()
			if !ok {
				t.Fatalf("result %v is %v, want Bool", v, v.Kind())
			}

			if b != tt.want {
				t.Errorf("got %v, want %v", b, tt.want)
			}
		})
	}
}

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"-1.0 - -1.0", 0},
		{"1.0 - 2.0", -1},
		{"-2.5 * 4.0", -10},
		{"3.2 / 1.6", 2},
		{"3.0 * 4.0 + 2.1", 14.1},
		{"3.0 * (4.0 + 2.1)", 18.3},
		{"5--3", 8},
		{"10 / 4 / 5", 0.5},
		{"IF (3 > 5, 1, -1)", -1},
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

			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	v, err := evalString(t, "1 / 0", nil)
	if err != nil {
		t.Fatal(err)
	}

	if f, _ := v.Number(); !math.IsInf(f, 1) {
		t.Errorf("1 / 0 = %v, want +Inf", v)
	}
}

func TestEval_MissingPropagates(t *testing.T) {
	symbols := Symbols{"a": Text("NA"), "b": Missing()}

	for _, input := range []string{
		"[a] + 1",
		"-[a]",
		"[b] * 2",
		"SUM(1, [a])",
		"LEN([a])",
		"IF(1 = 1, [a], 0)",
	} {
		t.Run(input, func(t *testing.T) {
			v, err := evalString(t, input, symbols)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}

			if !v.IsMissing() {
				t.Errorf("got %v, want Missing", v)
			}
		})
	}
}

func TestEval_LiteralNAIsText(t *testing.T) {
	v, err := evalString(t, `"NA" = "NA"`, nil)
	if err != nil {
		t.Fatal(err)
	}

	if b, _ := v.Bool(); !b {
		t.Errorf(`"NA" = "NA" is %v, want TRUE`, v)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		input   string
		symbols Symbols
		want    error
	}{
		{"LOG10(ARRAY(1.0))", nil, ErrBadArguments},
		{"LEN(1.0)", nil, ErrBadArguments},
		{"TTEST (1,1,1,1)", nil, ErrBadArguments},
		{`SUM("a","b")`, nil, ErrBadArguments},
		{"RIGHT(1 < 2)", nil, ErrBadArguments},
		{"IF()", nil, ErrBadArguments},
		{"IF(1, 2, 3)", nil, ErrBadArguments},
		{"RIGHT()", nil, ErrBadArguments},
		{"LEN()", nil, ErrBadArguments},
		{"LOG(1)", nil, ErrBadArguments},
		{"LOG10()", nil, ErrBadArguments},
		{"NONSENSE()", nil, ErrUnknownFunction},
		{`1 + "a"`, nil, ErrTypeMismatch},
		{`-"a"`, nil, ErrTypeMismatch},
		{`"a" = 1`, nil, ErrTypeMismatch},
		{"1 AND 2 > 1", nil, ErrTypeMismatch},
		{"NOT 1", nil, ErrTypeMismatch},
		{"ARRAY(1, 2)", nil, ErrTypeMismatch},
		{"[x] < 0", Symbols{"x": Text("low")}, ErrTypeMismatch},
		{"(1 < 2) = (2 < 3)", nil, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := evalString(t, tt.input, tt.symbols)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEval_UnboundVariable(t *testing.T) {
	expr, err := Parse("[x] > 0 AND [y] > 0", []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Eval(expr, Symbols{"x": Number(1), "y": Number(1)}); err != nil {
		t.Fatalf("bound evaluation failed: %v", err)
	}

	_, err = Eval(expr, Symbols{"x": Number(1)})
	if !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected ErrUnboundVariable, got %v", err)
	}
}

func TestEval_ScopeFunc(t *testing.T) {
	expr, err := Parse("[row] * 2", []string{"row"})
	if err != nil {
		t.Fatal(err)
	}

	scope := ScopeFunc(func(name string) (Value, bool) {
		return Number(21), name == "row"
	})

	v, err := Eval(expr, scope)
	if err != nil {
		t.Fatal(err)
	}

	if f, _ := v.Number(); f != 42 {
		t.Errorf("got %v, want 42", v)
	}
}

func TestEval_NumericComparisons(t *testing.T) {
	values := []float64{-2.5, -1, 0, 0.5, 1, 3.25}
	ops := []string{"=", "<>", "<", ">", "<=", ">="}

	native := func(op string, a, b float64) bool {
		switch op {
		case "=":
			return a == b
		case "<>":
			return a != b
		case "<":
			return a < b
		case ">":
			return a > b
		case "<=":
			return a <= b
		default:
			return a >= b
		}
	}

	for _, a := range values {
		for _, b := range values {
			for _, op := range ops {
				expr := &Binary{
					Op: relOps[op],
					X:  &Literal{Value: Number(a)},
					Y:  &Literal{Value: Number(b)},
				}

				v, err := Eval(expr, nil)
				if err != nil {
					t.Fatalf("%v %s %v: %v", a, op, b, err)
				}

				if got, _ := v.Bool(); got != native(op, a, b) {
					t.Errorf("%v %s %v = %v", a, op, b, got)
				}
			}
		}
	}
}
