package lang

import (
	"errors"
	"math"
	"testing"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{in: nil, want: Missing()},
		{in: 3, want: Number(3)},
		{in: int64(-2), want: Number(-2)},
		{in: uint8(7), want: Number(7)},
		{in: float32(0.5), want: Number(0.5)},
		{in: 1.25, want: Number(1.25)},
		{in: "NA", want: Text("NA")},
		{in: true, want: Bool(true)},
		{in: Text("x"), want: Text("x")},
	}

	for _, tt := range tests {
		got, err := ValueOf(tt.in)
		if err != nil {
			t.Errorf("ValueOf(%#v) error: %v", tt.in, err)

			continue
		}

		if !got.Equal(tt.want) {
			t.Errorf("ValueOf(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ValueOf([]int{1}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("ValueOf(slice) error = %v, want ErrTypeMismatch", err)
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{v: Number(14.1), want: "14.1"},
		{v: Number(1e21), want: "1000000000000000000000"},
		{v: Number(math.Inf(-1)), want: "-Inf"},
		{v: Text("a b"), want: `"a b"`},
		{v: Bool(false), want: "FALSE"},
		{v: Missing(), want: "NA"},
		{v: array([]float64{1, 2.5}), want: "ARRAY(1, 2.5)"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValue_ZeroIsMissing(t *testing.T) {
	var v Value

	if !v.IsMissing() || v.Kind() != KindMissing {
		t.Errorf("zero Value is %v", v.Kind())
	}

	if v.Native() != nil {
		t.Errorf("Native() = %v, want nil", v.Native())
	}
}

func TestError_IsAndAttributes(t *testing.T) {
	var err error = ErrBadArguments.With()
	if !errors.Is(err, ErrBadArguments) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrTypeMismatch) {
		t.Error("derived error matches an unrelated sentinel")
	}

	_, err = evalString(t, `LEN(1)`, nil)

	want := `bad arguments (function="LEN", argument=1, expected="Text", got="Number")`
	if err == nil || err.Error() != want {
		t.Errorf("Error() = %v, want %s", err, want)
	}
}
