package repl

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/criterion/lang"
	"github.com/ardnew/criterion/log"
	"github.com/ardnew/criterion/table"
)

func sampleTable() *table.Table {
	return &table.Table{
		Columns: []string{"x", "name"},
		Rows: []lang.Symbols{
			{"x": lang.Number(1), "name": lang.Text("a")},
			{"x": lang.Number(3), "name": lang.Text(lang.MissingMarker)},
		},
	}
}

func newTestModel(t testing.TB, tbl *table.Table, names []string) model {
	t.Helper()

	return newModel(t.Context(), tbl, names, NewHistory(""), log.Make(io.Discard))
}

// send feeds msgs through Update in order.
func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewModel_DeclaresNames(t *testing.T) {
	m := newTestModel(t, sampleTable(), []string{"extra", "x"})

	want := []string{"x", "name", "extra"}
	if strings.Join(m.names, ",") != strings.Join(want, ",") {
		t.Errorf("names = %q, want %q", m.names, want)
	}
}

func TestModel_Eval(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	tests := []struct {
		name    string
		row     string
		formula string
		want    string
		wantErr error
	}{
		{name: "first row", formula: "[x] * 2", want: "2"},
		{name: "second row", row: "2", formula: "[x] * 2", want: "6"},
		{name: "missing marker", row: "2", formula: "[name]", want: "NA"},
		{name: "comparison", row: "1", formula: `[name] = "a"`, want: "TRUE"},
		{name: "unknown variable", formula: "[y]", wantErr: lang.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.row != "" {
				if _, err := m.command("row", tt.row); err != nil {
					t.Fatalf("row %s: %v", tt.row, err)
				}
			}

			v, err := m.eval(tt.formula)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("eval(%q) error = %v, want %v", tt.formula, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("eval(%q) error = %v", tt.formula, err)
			}

			if v.String() != tt.want {
				t.Errorf("eval(%q) = %s, want %s", tt.formula, v, tt.want)
			}
		})
	}
}

func TestModel_SetUnset(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	if _, err := m.command("set", "x = 10"); err != nil {
		t.Fatalf("set error = %v", err)
	}

	if v, err := m.eval("[x] * 2"); err != nil || v.String() != "20" {
		t.Errorf("eval with binding = %v, %v; want 20", v, err)
	}

	if _, err := m.command("set", `[greeting]="hi there"`); err != nil {
		t.Fatalf("set error = %v", err)
	}

	if v, err := m.eval("LEN([greeting])"); err != nil || v.String() != "8" {
		t.Errorf("eval declared name = %v, %v; want 8", v, err)
	}

	if _, err := m.command("unset", "x"); err != nil {
		t.Fatalf("unset error = %v", err)
	}

	if v, err := m.eval("[x] * 2"); err != nil || v.String() != "2" {
		t.Errorf("eval after unset = %v, %v; want 2", v, err)
	}

	if _, err := m.command("set", "novalue"); err == nil {
		t.Error("set without '=' succeeded")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want lang.Value
	}{
		{"1.5", lang.Number(1.5)},
		{"-2", lang.Number(-2)},
		{`"12"`, lang.Text("12")},
		{"true", lang.Bool(true)},
		{"FALSE", lang.Bool(false)},
		{"NA", lang.Text("NA")},
		{"abc", lang.Text("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := parseValue(tt.raw); !got.Equal(tt.want) {
				t.Errorf("parseValue(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestModel_Row(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	out, err := m.command("row", "")
	if err != nil || !strings.Contains(out, "row 1 of 2") {
		t.Errorf("row = %q, %v", out, err)
	}

	for _, arg := range []string{"0", "3", "two"} {
		if _, err := m.command("row", arg); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("row %s error = %v, want ErrOutOfBounds", arg, err)
		}
	}

	empty := newTestModel(t, nil, []string{"x"})
	if _, err := empty.command("row", "1"); !errors.Is(err, ErrNoRows) {
		t.Errorf("row without table error = %v, want ErrNoRows", err)
	}
}

func TestModel_Rows(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	if _, err := m.command("rows", ""); !errors.Is(err, ErrNoFormula) {
		t.Fatalf("rows without formula error = %v, want ErrNoFormula", err)
	}

	if _, err := m.eval("[x] + 1"); err != nil {
		t.Fatal(err)
	}

	out, err := m.command("rows", "")
	if err != nil {
		t.Fatalf("rows error = %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rows printed %d lines, want 2:\n%s", len(lines), out)
	}

	if !strings.HasPrefix(lines[0], "*") || !strings.Contains(lines[0], "2") {
		t.Errorf("line 1 = %q", lines[0])
	}

	if !strings.Contains(lines[1], "4") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestModel_FormatCommands(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	for _, name := range []string{"fmt", "tree"} {
		if _, err := m.command(name, ""); !errors.Is(err, ErrNoFormula) {
			t.Errorf("%s without formula error = %v, want ErrNoFormula", name, err)
		}
	}

	if _, err := m.eval("[x]+1*2"); err != nil {
		t.Fatal(err)
	}

	out, err := m.command("fmt", "")
	if err != nil || out != lang.Format(m.crit.AST()) {
		t.Errorf("fmt = %q, %v", out, err)
	}

	out, err = m.command("tree", "")
	if err != nil || !strings.Contains(out, "x") {
		t.Errorf("tree = %q, %v", out, err)
	}
}

func TestModel_MiscCommands(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	out, err := m.command("vars", "")
	if err != nil || !strings.Contains(out, "[x] = 1") {
		t.Errorf("vars = %q, %v", out, err)
	}

	out, err = m.command("funcs", "sqrt")
	if err != nil || !strings.Contains(out, "SQRT(x)") {
		t.Errorf("funcs sqrt = %q, %v", out, err)
	}

	out, err = m.command("help", "")
	if err != nil || !strings.Contains(out, "set NAME=VALUE") {
		t.Errorf("help = %q, %v", out, err)
	}

	if _, err := m.command("bogus", ""); err == nil {
		t.Error("unknown command succeeded")
	}
}

func TestUpdate_EnterEvaluates(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	m = send(m, typed("[x] + 1"), key(tea.KeyEnter))

	if got := m.crit.Expression(); got != "[x] + 1" {
		t.Errorf("Expression() = %q, want %q", got, "[x] + 1")
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty", m.input.Value())
	}

	if m.history.Len() != 1 {
		t.Errorf("history.Len() = %d, want 1", m.history.Len())
	}
}

func TestUpdate_Validation(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	m = send(m, typed("[nope] > 1"))
	if m.invalid == nil {
		t.Fatal("invalid = nil for unknown variable")
	}

	if view := m.View(); !strings.Contains(view, "unknown variable") {
		t.Errorf("View() = %q, missing validation error", view)
	}

	m = send(m, key(tea.KeyCtrlC), typed("[x] > 1"))
	if m.invalid != nil {
		t.Errorf("invalid = %v for valid formula", m.invalid)
	}
}

func TestUpdate_ModeToggle(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	m = send(m, typed("[x]"), key(tea.KeyEsc))
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc mode = %v input = %q", m.mode, m.input.Value())
	}

	m = send(m, typed("row 2"), key(tea.KeyEnter))
	if m.row != 1 {
		t.Errorf("row = %d, want 1", m.row)
	}

	m = send(m, key(tea.KeyEsc))
	if m.mode != modeEval || m.input.Value() != "" {
		t.Errorf("after Esc mode = %v input = %q", m.mode, m.input.Value())
	}
}

func TestUpdate_History(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	m = send(m,
		typed("[x] + 1"), key(tea.KeyEnter),
		key(tea.KeyEsc), typed("vars"), key(tea.KeyEnter),
	)

	m = send(m, key(tea.KeyUp))
	if m.input.Value() != "vars" || m.mode != modeCtrl {
		t.Errorf("Up: input = %q mode = %v", m.input.Value(), m.mode)
	}

	m = send(m, key(tea.KeyUp))
	if m.input.Value() != "[x] + 1" || m.mode != modeEval {
		t.Errorf("Up Up: input = %q mode = %v", m.input.Value(), m.mode)
	}

	m = send(m, key(tea.KeyDown), key(tea.KeyDown))
	if m.input.Value() != "" {
		t.Errorf("Down past newest: input = %q, want empty", m.input.Value())
	}

	m = send(m, key(tea.KeyShiftUp))
	if m.input.Value() != "vars" {
		t.Errorf("ShiftUp in command mode: input = %q, want vars", m.input.Value())
	}
}

func TestUpdate_TabCompletion(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		input string
		want  string
	}{
		{name: "function", input: "SQR", want: "SQRT"},
		{name: "column closes bracket", names: []string{"height"}, input: "[hei", want: "[height]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil, tt.names)

			m = send(m, typed(tt.input), key(tea.KeyTab))
			if got := m.input.Value(); got != tt.want {
				t.Errorf("after Tab input = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpdate_EditMessages(t *testing.T) {
	m := newTestModel(t, sampleTable(), nil)

	m = send(m, editFormulaMsg{text: "[x] * 10"})
	if got := m.crit.Expression(); got != "[x] * 10" {
		t.Errorf("Expression() = %q after edit", got)
	}

	if got := m.input.Value(); got != "[x] * 10" {
		t.Errorf("input = %q after edit", got)
	}

	m = send(m, editDeclinedMsg{})
	if !m.quitting {
		t.Error("quitting = false after declined edit")
	}
}

func TestErrorText(t *testing.T) {
	_, err := lang.Parse(`[x] = "open`, []string{"x"})
	if err == nil {
		t.Fatal("expected parse error")
	}

	text := errorText(err)
	if !strings.Contains(text, "^") {
		t.Errorf("errorText() = %q, missing caret", text)
	}

	if got := errorText(ErrNoFormula); strings.Contains(got, "^") {
		t.Errorf("errorText(non-syntax) = %q", got)
	}
}
