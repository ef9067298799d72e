package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestNativeRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		names   []string
		want    string
		wantErr bool
	}{
		{
			name:  "canonical spacing",
			input: "[x]>1 and not [y]<=2",
			names: []string{"x", "y"},
			want:  "[x] > 1 AND NOT [y] <= 2\n",
		},
		{
			name:  "function names upper-cased",
			input: `left("abc",2)="ab"`,
			want:  `LEFT("abc", 2) = "ab"` + "\n",
		},
		{
			name:  "redundant parentheses dropped",
			input: "((1 + 2)) * 3",
			want:  "(1 + 2) * 3\n",
		},
		{
			name:    "undeclared variable",
			input:   "[x] > 1",
			wantErr: true,
		},
		{
			name:    "syntax error",
			input:   "1 +",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t)

			native := &Native{Formula: Formula{Expr: tt.input, Names: tt.names}}

			err := native.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Native.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrExpression) {
					t.Errorf("Native.Run() error = %v, want %v", err, ErrExpression)
				}

				return
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestTreeRun(t *testing.T) {
	ctx, out := testContext(t)

	tree := &Tree{Formula: Formula{Expr: "NOT [x] > -1", Names: []string{"x"}}}
	if err := tree.Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"Unary NOT",
		"  Binary >",
		"    Variable [x]",
		"    Unary -",
		"      Literal 1",
	}, "\n") + "\n"

	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestJSONRun(t *testing.T) {
	ctx, out := testContext(t)

	j := &JSON{Formula: Formula{Expr: "SUM([a], 2) >= 3", Names: []string{"a"}}, Indent: 2}
	if err := j.Run(ctx); err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}

	if doc["op"] != ">=" {
		t.Errorf("op = %v, want >=", doc["op"])
	}

	args, ok := doc["args"].([]any)
	if !ok || len(args) != 2 {
		t.Fatalf("args = %v", doc["args"])
	}

	call, ok := args[0].(map[string]any)
	if !ok || call["call"] != "SUM" {
		t.Errorf("first operand = %v, want a SUM call", args[0])
	}
}

func TestYAMLRun(t *testing.T) {
	for _, indent := range []int{0, 4} {
		ctx, out := testContext(t)

		y := &YAML{Formula: Formula{Expr: `[s] <> "x"`, Names: []string{"s"}}, Indent: indent}
		if err := y.Run(ctx); err != nil {
			t.Fatal(err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("indent %d: invalid YAML %q: %v", indent, out, err)
		}

		if doc["op"] != "<>" {
			t.Errorf("indent %d: op = %v, want <>", indent, doc["op"])
		}
	}
}
