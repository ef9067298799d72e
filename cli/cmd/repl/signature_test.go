package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{
			name:   "no function call",
			input:  "[x] + 1",
			cursor: 7,
		},
		{
			name:       "simple function first arg",
			input:      "LOG(",
			cursor:     4,
			wantName:   "LOG",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "lower case name",
			input:      "log([x]",
			cursor:     7,
			wantName:   "LOG",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "second arg",
			input:      "LOG([x], 2",
			cursor:     10,
			wantName:   "LOG",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "space before paren",
			input:      "SQRT (",
			cursor:     6,
			wantName:   "SQRT",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "nested call closed",
			input:      "IF(ABS([x]) > 1,",
			cursor:     16,
			wantName:   "IF",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "cursor inside nested call",
			input:      "IF(ABS([x]) > 1, 1, 0)",
			cursor:     7,
			wantName:   "ABS",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "grouping paren defers to call",
			input:      "SUM(([a] + [b]) * 2, (",
			cursor:     22,
			wantName:   "SUM",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "comma inside string",
			input:      `FIND(",", [s]`,
			cursor:     13,
			wantName:   "FIND",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "paren inside string",
			input:      `LEN("(", `,
			cursor:     9,
			wantName:   "LEN",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "comma inside variable name",
			input:      "ABS([a, b]",
			cursor:     10,
			wantName:   "ABS",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:   "keyword is not a name",
			input:  "NOT (",
			cursor: 5,
		},
		{
			name:   "call closed before cursor",
			input:  "ABS([x]) + ",
			cursor: 11,
		},
		{
			name:       "cursor past end clamps",
			input:      "SUM(1, 2",
			cursor:     99,
			wantName:   "SUM",
			wantIndex:  1,
			wantInCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("detectFunctionCall().name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall().argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall().inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name          string
		funcName      string
		wantSignature string
		wantParams    []string
	}{
		{
			name:          "fixed arity",
			funcName:      "LOG",
			wantSignature: "LOG(x, base)",
			wantParams:    []string{"x", "base"},
		},
		{
			name:          "lower case lookup",
			funcName:      "sqrt",
			wantSignature: "SQRT(x)",
			wantParams:    []string{"x"},
		},
		{
			name:          "optional param",
			funcName:      "FIND",
			wantSignature: "FIND(needle, s, [start])",
			wantParams:    []string{"needle", "s", "[start]"},
		},
		{
			name:          "variadic",
			funcName:      "SUM",
			wantSignature: "SUM(x, ...)",
			wantParams:    []string{"x", "..."},
		},
		{
			name:          "three params",
			funcName:      "IF",
			wantSignature: "IF(cond, then, else)",
			wantParams:    []string{"cond", "then", "else"},
		},
		{
			name:     "unknown function",
			funcName: "NOPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, params := getSignature(tt.funcName)

			if sig != tt.wantSignature {
				t.Errorf("getSignature(%q) signature = %q, want %q",
					tt.funcName, sig, tt.wantSignature)
			}

			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("getSignature(%q) params = %q, want %q",
					tt.funcName, params, tt.wantParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		params    []string
		argIdx    int
		want      []string
	}{
		{
			name:      "first param",
			signature: "LOG(x, base)",
			params:    []string{"x", "base"},
			argIdx:    0,
			want:      []string{"LOG", "x", "base"},
		},
		{
			name:      "variadic tail",
			signature: "SUM(x, ...)",
			params:    []string{"x", "..."},
			argIdx:    4,
			want:      []string{"SUM", "x", "..."},
		},
		{
			name:      "no parens",
			signature: "PI",
			want:      []string{"PI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.signature, tt.params, tt.argIdx)

			for _, part := range tt.want {
				if !strings.Contains(got, part) {
					t.Errorf("renderSignatureHint() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func BenchmarkDetectFunctionCall(b *testing.B) {
	input := `IF(AND([height] > 1.8, FIND("x", [name]) > 0), SUM([a], [b], `

	for b.Loop() {
		detectFunctionCall(input, len(input))
	}
}
