package lang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MissingMarker is the text that marks missing sample data. A variable bound
// to this text evaluates to [Missing].
const MissingMarker = "NA"

// Kind indicates the type of a [Value].
type Kind uint8

const (
	// KindMissing is the missing-data sentinel. It is the zero Kind.
	KindMissing Kind = iota

	// KindNumber is a float64 value.
	KindNumber

	// KindText is a string value.
	KindText

	// KindBool is a boolean value.
	KindBool

	// KindArray is the opaque result of ARRAY, accepted only by TTEST.
	KindArray
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "Missing"

	case KindNumber:
		return "Number"

	case KindText:
		return "Text"

	case KindBool:
		return "Bool"

	case KindArray:
		return "Array"

	default:
		return "Unknown"
	}
}

// Value is an immutable formula value. The zero Value is [Missing].
type Value struct {
	kind  Kind
	num   float64
	text  string
	flag  bool
	array []float64 // never mutated after construction
}

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Missing returns the missing-data sentinel.
func Missing() Value { return Value{} }

// array returns an ARRAY value holding a private copy of xs.
func array(xs []float64) Value {
	return Value{kind: KindArray, array: append([]float64(nil), xs...)}
}

// ValueOf converts a decoded Go value into a Value.
// Supported inputs are nil (Missing), Value, bool, string, and all integer
// and floating-point types.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Missing(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	default:
		return Missing(), ErrTypeMismatch.Wrap(
			fmt.Errorf("cannot convert %T to a value", v))
	}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing-data sentinel.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the string payload and whether v is text.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Bool returns the boolean payload and whether v is a boolean.
func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

// Equal reports whether v and w have the same kind and payload.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindNumber:
		return v.num == w.num
	case KindText:
		return v.text == w.text
	case KindBool:
		return v.flag == w.flag
	case KindArray:
		if len(v.array) != len(w.array) {
			return false
		}

		for i := range v.array {
			if v.array[i] != w.array[i] {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// Native returns v as a plain Go value: nil, float64, string, bool or
// []float64.
func (v Value) Native() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	case KindArray:
		return append([]float64(nil), v.array...)
	default:
		return nil
	}
}

// String renders v in formula syntax where one exists.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindText:
		return strconv.Quote(v.text)
	case KindBool:
		if v.flag {
			return "TRUE"
		}

		return "FALSE"
	case KindArray:
		parts := make([]string, len(v.array))
		for i, x := range v.array {
			parts[i] = formatNumber(x)
		}

		return "ARRAY(" + strings.Join(parts, ", ") + ")"
	default:
		return MissingMarker
	}
}

// resolve applies the missing-data rule to a bound symbol value.
func resolve(v Value) Value {
	if v.kind == KindText && v.text == MissingMarker {
		return Missing()
	}

	return v
}

// truthy maps a logical operand to a boolean. Missing counts as false.
func truthy(v Value) (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.flag, true
	case KindMissing:
		return false, true
	default:
		return false, false
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
