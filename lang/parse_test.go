package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	known := []string{"x", "y", "color", "jouw waarde", "mijn waarde"}

	tests := []string{
		"([x] < -0.5)",
		"[x] = 5.0",
		`[color] = "red"`,
		`"red" = [color]`,
		`"red" <> [color]`,
		"(5=5) AND (5=5)",
		"NOT (2 > 1) AND (1 > 2)",
		"[x] = 0 AND [y] = 0 OR [x] = 5.0 AND [y] = -1.0",
		"[jouw waarde] > 0 AND [mijn waarde] < 0",
		"5--3",
		"-[x] * -[y]",
		"NOT NOT [x] >= 1",
		"IF (3 > 5, 1, -1)",
		"sum(1, 2)",
		"NONSENSE()",
		"[x] <= [y]",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input, known); err != nil {
				t.Errorf("Parse(%q) error: %v", input, err)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	known := []string{"x", "color"}

	tests := []struct {
		name   string
		input  string
		column int
		detail string
	}{
		{name: "chained equality", input: "5 = 5 = 5", column: 7, detail: "chained"},
		{name: "chained ordering", input: "5 < 6 > 5", column: 7, detail: "chained"},
		{name: "bare name", input: "abcd", column: 1, detail: "abcd"},
		{name: "trailing operand", input: "[x] < -0.5 3", column: 12},
		{name: "missing operand", input: "[x] < -0.5 AND", column: 15},
		{name: "unbalanced paren", input: "([x] < -0.5", column: 12, detail: "')'"},
		{name: "string literal ordering", input: `"red" > [color]`, column: 7, detail: "string literal"},
		{name: "string literal ordering right", input: `[color] <= "red"`, column: 9, detail: "string literal"},
		{name: "string literal ordering before unknown variable", input: `"red" > [zzz]`, column: 7, detail: "string literal"},
		{name: "unknown variable", input: "[z] > 1", column: 1, detail: "[z]"},
		{name: "bare name before lexical error", input: "x = 5.0.0", column: 1},
		{name: "empty", input: "", column: 1, detail: "empty"},
		{name: "stray close paren", input: "1 + 2)", column: 6},
		{name: "missing comma", input: "SUM(1 2)", column: 7, detail: "SUM"},
		{name: "dangling keyword", input: "AND [x] > 1", column: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, known)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}

			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("error %T is not a *SyntaxError", err)
			}

			if !errors.Is(err, ErrSyntax) && !errors.Is(err, ErrLex) {
				t.Errorf("error %v is neither ErrSyntax nor ErrLex", err)
			}

			if serr.Pos.Column != tt.column {
				t.Errorf("error at column %d, want %d: %v",
					serr.Pos.Column, tt.column, err)
			}

			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", err, tt.detail)
			}

			if serr.Source != tt.input {
				t.Errorf("Source = %q, want %q", serr.Source, tt.input)
			}
		})
	}
}

func TestParse_LexicalErrorAfterValidPrefix(t *testing.T) {
	_, err := Parse("[x] = 5.0.0", []string{"x"})
	if !errors.Is(err, ErrLex) {
		t.Fatalf("expected ErrLex, got %v", err)
	}
}

func TestParse_Precedence(t *testing.T) {
	known := []string{"a", "b", "c"}

	tests := []struct {
		input string
		want  string
	}{
		{input: "1 + 2 * 3", want: "1 + 2 * 3"},
		{input: "(1 + 2) * 3", want: "(1 + 2) * 3"},
		{input: "1 - 2 - 3", want: "1 - 2 - 3"},
		{input: "1 - (2 - 3)", want: "1 - (2 - 3)"},
		{input: "[a] > 0 or [b] > 0 and [c] > 0", want: "[a] > 0 OR [b] > 0 AND [c] > 0"},
		{input: "([a] > 0 OR [b] > 0) AND [c] > 0", want: "([a] > 0 OR [b] > 0) AND [c] > 0"},
		{input: "NOT [a] = 1", want: "NOT [a] = 1"},
		{input: "-(1 + 2)", want: "-(1 + 2)"},
		{input: "- - 1", want: "--1"},
		{input: "(1 = 1) = (2 = 2)", want: "(1 = 1) = (2 = 2)"},
		{input: `log10( 100 , 0 )`, want: "LOG10(100, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input, known)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got := Format(expr); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Tree(t *testing.T) {
	expr, err := Parse("[x] > 0 AND NOT [y] = 1", []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}

	and, ok := expr.(*Binary)
	if !ok || and.Op != OpAnd {
		t.Fatalf("root is %T, want AND", expr)
	}

	gt, ok := and.X.(*Binary)
	if !ok || gt.Op != OpGt {
		t.Fatalf("left is %#v, want >", and.X)
	}

	if ref, ok := gt.X.(*VarRef); !ok || ref.Name != "x" {
		t.Errorf("comparison operand is %#v, want [x]", gt.X)
	}

	not, ok := and.Y.(*Unary)
	if !ok || not.Op != OpNot {
		t.Fatalf("right is %#v, want NOT", and.Y)
	}

	if _, ok := not.X.(*Binary); !ok {
		t.Errorf("NOT operand is %T, want comparison", not.X)
	}

	if got := Variables(expr); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Variables = %v, want [x y]", got)
	}
}

func TestParse_StrictCalls(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "SUM(1, 2)", wantErr: false},
		{input: "LOG10(1, 2)", wantErr: false},
		{input: "NONSENSE()", wantErr: true},
		{input: "LOG(1)", wantErr: true},
		{input: "IF()", wantErr: true},
		{input: "RIGHT()", wantErr: true},
		{input: "LOG10(1, 2, 3)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input, nil, WithStrictCalls(true))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if _, err := Parse(tt.input, nil); err != nil {
				t.Errorf("Parse(%q) without strict calls: %v", tt.input, err)
			}
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)

	if _, err := Parse(deep, nil); err != nil {
		t.Fatalf("default depth rejected %d levels: %v", 20, err)
	}

	_, err := Parse(deep, nil, WithMaxDepth(10))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax beyond max depth, got %v", err)
	}

	if !strings.Contains(err.Error(), "nested") {
		t.Errorf("error %q does not describe nesting", err)
	}
}
