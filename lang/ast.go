package lang

import (
	"iter"
	"slices"
)

// Op identifies a unary or binary operator.
type Op int

const (
	OpAdd Op = iota // +
	OpSub           // -
	OpMul           // *
	OpDiv           // /
	OpNeg           // unary -
	OpNot           // NOT
	OpAnd           // AND
	OpOr            // OR
	OpEq            // =
	OpNe            // <>
	OpLt            // <
	OpGt            // >
	OpLe            // <=
	OpGe            // >=
)

var opSymbol = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpNeg: "-",
	OpNot: "NOT",
	OpAnd: "AND",
	OpOr:  "OR",
	OpEq:  "=",
	OpNe:  "<>",
	OpLt:  "<",
	OpGt:  ">",
	OpLe:  "<=",
	OpGe:  ">=",
}

// String returns the operator as written in formula source.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opSymbol) {
		return "?"
	}

	return opSymbol[op]
}

// isComparison reports whether op is one of the relational operators.
func (op Op) isComparison() bool {
	return op >= OpEq && op <= OpGe
}

// isOrdering reports whether op compares by magnitude.
func (op Op) isOrdering() bool {
	return op >= OpLt && op <= OpGe
}

// relOps maps comparison operator text to its Op.
var relOps = map[string]Op{
	"=":  OpEq,
	"<>": OpNe,
	"<":  OpLt,
	">":  OpGt,
	"<=": OpLe,
	">=": OpGe,
}

// Expr is a node of a parsed formula. Trees returned by [Parse] are never
// mutated and may be shared between goroutines.
type Expr interface {
	// Position returns the source location where the node begins.
	Position() Position

	exprNode()
}

// Literal is a number or string constant.
type Literal struct {
	Value Value
	Pos   Position
}

// VarRef is a bracketed variable reference.
type VarRef struct {
	Name string
	Pos  Position
}

// Unary is a prefix operation (OpNeg or OpNot).
type Unary struct {
	Op  Op
	X   Expr
	Pos Position
}

// Binary is an infix operation.
type Binary struct {
	Op    Op
	X, Y  Expr
	OpPos Position
}

// Call is a builtin function invocation. Name is upper-case.
type Call struct {
	Name string
	Args []Expr
	Pos  Position
}

func (e *Literal) Position() Position { return e.Pos }
func (e *VarRef) Position() Position  { return e.Pos }
func (e *Unary) Position() Position   { return e.Pos }
func (e *Binary) Position() Position  { return e.X.Position() }
func (e *Call) Position() Position    { return e.Pos }

func (*Literal) exprNode() {}
func (*VarRef) exprNode()  {}
func (*Unary) exprNode()   {}
func (*Binary) exprNode()  {}
func (*Call) exprNode()    {}

// Inspect returns an iterator over e and all of its descendants in
// depth-first, left-to-right order.
func Inspect(e Expr) iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		inspect(e, yield)
	}
}

func inspect(e Expr, yield func(Expr) bool) bool {
	if e == nil {
		return true
	}

	if !yield(e) {
		return false
	}

	switch n := e.(type) {
	case *Unary:
		return inspect(n.X, yield)

	case *Binary:
		return inspect(n.X, yield) && inspect(n.Y, yield)

	case *Call:
		for _, arg := range n.Args {
			if !inspect(arg, yield) {
				return false
			}
		}
	}

	return true
}

// Variables returns the distinct variable names referenced by e, sorted.
func Variables(e Expr) []string {
	seen := make(map[string]struct{})

	for n := range Inspect(e) {
		if ref, ok := n.(*VarRef); ok {
			seen[ref.Name] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

// Calls returns the distinct function names invoked by e, sorted.
func Calls(e Expr) []string {
	seen := make(map[string]struct{})

	for n := range Inspect(e) {
		if call, ok := n.(*Call); ok {
			seen[call.Name] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
