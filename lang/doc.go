// Package lang implements the criterion formula language: a small
// expression language for classifying and computing values over rows of
// sample data.
//
// A formula is parsed once against the set of variable names that will be
// available, then evaluated any number of times against different symbol
// tables. Parsed trees are immutable and evaluation has no side effects, so
// one tree may be evaluated from many goroutines at once.
//
// # Grammar
//
// Precedence, lowest to highest:
//
//	expr      → orExpr
//	orExpr    → andExpr ('OR' andExpr)*
//	andExpr   → notExpr ('AND' notExpr)*
//	notExpr   → 'NOT' notExpr | relExpr
//	relExpr   → addExpr (relOp addExpr)?
//	addExpr   → mulExpr (('+' | '-') mulExpr)*
//	mulExpr   → unary (('*' | '/') unary)*
//	unary     → '-' unary | primary
//	primary   → Number | String | '[' name ']' | Name '(' args? ')' | '(' expr ')'
//	relOp     → '=' | '<>' | '<' | '>' | '<=' | '>='
//
// Comparisons do not chain: "5 = 5 = 5" is a syntax error and compound
// conditions are written with AND, OR and parentheses. Keywords and
// function names are case-insensitive. Variable names are written in
// brackets and may contain spaces.
//
// # Missing data
//
// A variable bound to the text "NA" holds [Missing]. Comparing a Missing
// value is always false, never an error:
//
//	[a] > 0 OR [b] > 0     // a = "NA", b = 1   → TRUE
//	[b] > 0 AND [a] > 0    // a = "NA", b = 1   → FALSE
//
// Arithmetic and functions on Missing yield Missing.
//
// # Example
//
//	c := lang.New()
//	if err := c.SetExpression("[x] > 0 AND [y] < 0", []string{"x", "y"}); err != nil {
//		// report err to the user; any previous formula is still installed
//	}
//
//	ok, err := c.EvaluateBool(lang.Symbols{
//		"x": lang.Number(5),
//		"y": lang.Number(-1),
//	})
package lang
