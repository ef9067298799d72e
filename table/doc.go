// Package table loads rows of sample data for formula evaluation.
//
// A [Table] holds an ordered list of column names, which serve as the
// declared variable names when a formula is parsed, and one
// [lang.Symbols] per row. Tables are read from YAML (or JSON) documents and
// from comma- or tab-separated text with a header row.
//
// Empty cells become [lang.Missing]. The text "NA" is kept as text; the
// evaluator treats it as missing data.
package table
