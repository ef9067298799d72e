package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Binding strength of each grammar level, lowest first.
const (
	precOr = iota + 1
	precAnd
	precNot
	precRel
	precAdd
	precMul
	precUnary
	precPrimary
)

func precedence(e Expr) int {
	switch n := e.(type) {
	case *Binary:
		return binaryPrec(n.Op)

	case *Unary:
		if n.Op == OpNot {
			return precNot
		}

		return precUnary

	default:
		return precPrimary
	}
}

func binaryPrec(op Op) int {
	switch op {
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpAdd, OpSub:
		return precAdd
	case OpMul, OpDiv:
		return precMul
	default:
		return precRel
	}
}

// Format renders expr as formula source with canonical spacing, upper-case
// keywords and only the parentheses needed to preserve its structure.
// Parsing the result yields an equivalent tree.
func Format(expr Expr) string {
	var sb strings.Builder

	format(&sb, expr)

	return sb.String()
}

func format(sb *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		if s, ok := e.Value.Text(); ok {
			sb.WriteString(`"` + s + `"`)
		} else {
			sb.WriteString(e.Value.String())
		}

	case *VarRef:
		sb.WriteString("[" + e.Name + "]")

	case *Unary:
		if e.Op == OpNot {
			sb.WriteString("NOT ")
			formatOperand(sb, e.X, precedence(e.X) < precNot)
		} else {
			sb.WriteString("-")
			formatOperand(sb, e.X, precedence(e.X) < precUnary)
		}

	case *Binary:
		prec := binaryPrec(e.Op)
		if prec == precRel {
			// Comparisons do not chain, so a comparison operand always
			// needs parentheses.
			formatOperand(sb, e.X, precedence(e.X) <= prec)
		} else {
			formatOperand(sb, e.X, precedence(e.X) < prec)
		}

		sb.WriteString(" " + e.Op.String() + " ")
		formatOperand(sb, e.Y, precedence(e.Y) <= prec)

	case *Call:
		sb.WriteString(e.Name + "(")

		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			format(sb, arg)
		}

		sb.WriteString(")")
	}
}

func formatOperand(sb *strings.Builder, e Expr, paren bool) {
	if paren {
		sb.WriteString("(")
	}

	format(sb, e)

	if paren {
		sb.WriteString(")")
	}
}

// Print writes an indented dump of the expression tree to w, one node per
// line.
func Print(w io.Writer, expr Expr) error {
	return printNode(w, expr, 0)
}

func printNode(w io.Writer, expr Expr, depth int) error {
	indent := strings.Repeat("  ", depth)

	var (
		line     string
		children []Expr
	)

	switch e := expr.(type) {
	case *Literal:
		line = "Literal " + e.Value.String()

	case *VarRef:
		line = "Variable [" + e.Name + "]"

	case *Unary:
		line = "Unary " + e.Op.String()
		children = []Expr{e.X}

	case *Binary:
		line = "Binary " + e.Op.String()
		children = []Expr{e.X, e.Y}

	case *Call:
		line = "Call " + e.Name
		children = e.Args

	default:
		line = "<unknown>"
	}

	if _, err := fmt.Fprintln(w, indent+line); err != nil {
		return err
	}

	for _, child := range children {
		if err := printNode(w, child, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// ToMap converts expr to a structure of maps, slices and scalars suitable
// for YAML or JSON encoding.
func ToMap(expr Expr) map[string]any {
	switch e := expr.(type) {
	case *Literal:
		return map[string]any{
			"literal": e.Value.Native(),
			"kind":    e.Value.Kind().String(),
		}

	case *VarRef:
		return map[string]any{"variable": e.Name}

	case *Unary:
		return map[string]any{
			"op":   e.Op.String(),
			"args": []any{ToMap(e.X)},
		}

	case *Binary:
		return map[string]any{
			"op":   e.Op.String(),
			"args": []any{ToMap(e.X), ToMap(e.Y)},
		}

	case *Call:
		args := make([]any, len(e.Args))
		for i, arg := range e.Args {
			args[i] = ToMap(arg)
		}

		return map[string]any{
			"call": e.Name,
			"args": args,
		}

	default:
		return nil
	}
}

// FormatJSON writes the expression tree as JSON to the writer.
func FormatJSON(_ context.Context, w io.Writer, expr Expr, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(
			ToMap(expr), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToMap(expr))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the expression tree as YAML to the writer.
func FormatYAML(ctx context.Context, w io.Writer, expr Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToMap(expr), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
