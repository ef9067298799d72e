package lang

import (
	"log/slog"
)

// Scope resolves variable names to values during evaluation.
type Scope interface {
	Lookup(name string) (Value, bool)
}

// Symbols is a caller-owned symbol table mapping variable names to values.
type Symbols map[string]Value

// Lookup implements [Scope].
func (s Symbols) Lookup(name string) (Value, bool) {
	v, ok := s[name]

	return v, ok
}

// ScopeFunc adapts a function to the [Scope] interface.
type ScopeFunc func(name string) (Value, bool)

// Lookup implements [Scope].
func (f ScopeFunc) Lookup(name string) (Value, bool) { return f(name) }

// Eval evaluates expr against scope. It has no side effects and is safe for
// concurrent use on a shared tree.
//
// A variable bound to the text "NA" evaluates to [Missing]. Any comparison
// with a Missing operand is false; arithmetic and functions propagate
// Missing; AND, OR, NOT and IF treat it as false.
func Eval(expr Expr, scope Scope) (Value, error) {
	if expr == nil {
		return Missing(), ErrNoExpression
	}

	if scope == nil {
		scope = Symbols(nil)
	}

	v, err := eval(expr, scope)
	if err != nil {
		return Missing(), err
	}

	if v.Kind() == KindArray {
		return Missing(), ErrTypeMismatch.With(
			slog.String("issue", "ARRAY is only valid as a TTEST argument"),
		)
	}

	return v, nil
}

func eval(expr Expr, scope Scope) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil

	case *VarRef:
		v, ok := scope.Lookup(e.Name)
		if !ok {
			return Missing(), ErrUnboundVariable.With(
				slog.String("variable", e.Name),
				slog.Int("column", e.Pos.Column),
			)
		}

		return resolve(v), nil

	case *Unary:
		x, err := eval(e.X, scope)
		if err != nil {
			return Missing(), err
		}

		return evalUnary(e, x)

	case *Binary:
		x, err := eval(e.X, scope)
		if err != nil {
			return Missing(), err
		}

		y, err := eval(e.Y, scope)
		if err != nil {
			return Missing(), err
		}

		return evalBinary(e, x, y)

	case *Call:
		fn, ok := LookupFunction(e.Name)
		if !ok {
			return Missing(), ErrUnknownFunction.With(
				slog.String("function", e.Name),
				slog.Int("column", e.Pos.Column),
			)
		}

		args := make([]Value, len(e.Args))

		for i, arg := range e.Args {
			v, err := eval(arg, scope)
			if err != nil {
				return Missing(), err
			}

			args[i] = v
		}

		return fn.invoke(args)

	default:
		return Missing(), ErrTypeMismatch.With(
			slog.String("issue", "unsupported expression node"),
		)
	}
}

func evalUnary(e *Unary, x Value) (Value, error) {
	switch e.Op {
	case OpNeg:
		if x.IsMissing() {
			return Missing(), nil
		}

		if f, ok := x.Number(); ok {
			return Number(-f), nil
		}

	case OpNot:
		if b, ok := truthy(x); ok {
			return Bool(!b), nil
		}
	}

	return Missing(), mismatch(e.Op, e.Pos, x)
}

func evalBinary(e *Binary, x, y Value) (Value, error) {
	switch {
	case e.Op == OpAnd || e.Op == OpOr:
		a, aok := truthy(x)
		b, bok := truthy(y)

		if !aok || !bok {
			return Missing(), mismatch(e.Op, e.OpPos, x, y)
		}

		if e.Op == OpAnd {
			return Bool(a && b), nil
		}

		return Bool(a || b), nil

	case e.Op.isComparison():
		if x.IsMissing() || y.IsMissing() {
			return Bool(false), nil
		}

		return compare(e, x, y)
	}

	if x.IsMissing() || y.IsMissing() {
		return Missing(), nil
	}

	a, aok := x.Number()
	b, bok := y.Number()

	if !aok || !bok {
		return Missing(), mismatch(e.Op, e.OpPos, x, y)
	}

	switch e.Op {
	case OpAdd:
		return Number(a + b), nil
	case OpSub:
		return Number(a - b), nil
	case OpMul:
		return Number(a * b), nil
	case OpDiv:
		return Number(a / b), nil
	}

	return Missing(), mismatch(e.Op, e.OpPos, x, y)
}

// compare applies a relational operator to two non-missing values.
func compare(e *Binary, x, y Value) (Value, error) {
	if a, ok := x.Number(); ok {
		if b, ok := y.Number(); ok {
			switch e.Op {
			case OpEq:
				return Bool(a == b), nil
			case OpNe:
				return Bool(a != b), nil
			case OpLt:
				return Bool(a < b), nil
			case OpGt:
				return Bool(a > b), nil
			case OpLe:
				return Bool(a <= b), nil
			case OpGe:
				return Bool(a >= b), nil
			}
		}
	}

	if a, ok := x.Text(); ok {
		if b, ok := y.Text(); ok {
			switch e.Op {
			case OpEq:
				return Bool(a == b), nil
			case OpNe:
				return Bool(a != b), nil
			}
		}
	}

	return Missing(), mismatch(e.Op, e.OpPos, x, y)
}

func mismatch(op Op, pos Position, operands ...Value) error {
	kinds := make([]string, len(operands))
	for i, v := range operands {
		kinds[i] = v.Kind().String()
	}

	attrs := []slog.Attr{
		slog.String("operator", op.String()),
		slog.Int("column", pos.Column),
		slog.Any("operands", kinds),
	}

	return ErrTypeMismatch.With(attrs...)
}
