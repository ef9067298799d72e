package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/criterion/lang"
	"github.com/ardnew/criterion/log"
	"github.com/ardnew/criterion/table"
)

// editFormulaMsg is sent when the editor produced a valid formula.
type editFormulaMsg struct{ text string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a syntax
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for any other reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help            Print this help
  vars            List declared variables and their current values
  row [N]         Show or select the sample row formulas evaluate against
  rows            Evaluate the current formula against every row
  set NAME=VALUE  Bind a variable, overriding the row (declares NAME)
  unset NAME      Remove a binding made with set
  fmt             Print the current formula in canonical form
  tree            Print the current formula's expression tree
  funcs [QUERY]   List builtin functions, fuzzy-filtered
  edit            Edit the formula in $EDITOR
  clear           Clear screen
  quit            Exit

Usage:
  Type a formula and press Enter to evaluate it against the current row
  Variables are written in brackets: [height] > 1.8 AND [group] = "A"
  The line below the input reports syntax errors as you type
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between formula and command modes
  Use Up/Down arrows for history (mode switches automatically)
  Use Shift+Up/Shift+Down for history within the current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the formula echo line.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	crit         *lang.Criterion
	table        *table.Table  // may be nil
	names        []string      // declared variable names
	row          int           // index of the current sample row
	bound        lang.Symbols  // values bound with set; override the row
	invalid      error         // syntax error of the formula being typed
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	span         span          // region of input being completed
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive formula session over the rows of tbl, which may
// be nil. Formulas may reference the table's columns and any of names.
// History is persisted at historyPath unless it is empty.
func Run(
	ctx context.Context,
	tbl *table.Table,
	names []string,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err))
	}

	m := newModel(ctx, tbl, names, history, logger)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", historyPath),
		slog.Int("history_count", history.Len()),
		slog.Int("rows", m.rowCount()),
		slog.Any("names", m.names),
	)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	tbl *table.Table,
	names []string,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	var declared []string
	if tbl != nil {
		declared = slices.Clone(tbl.Columns)
	}

	for _, name := range names {
		if !slices.Contains(declared, name) {
			declared = append(declared, name)
		}
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		crit:       lang.New(lang.WithLogger(logger)),
		table:      tbl,
		names:      declared,
		bound:      make(lang.Symbols),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editFormulaMsg:
		m.evalText, m.evalCursor = msg.text, len(msg.text)
		if m.mode == modeEval {
			m.input.SetValue(msg.text)
			m.input.CursorEnd()
		}

		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.String("formula", msg.text))

		return m, tea.Sequence(
			tea.Println(formatCommand(msg.text)),
			m.evaluate(msg.text),
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, byteOffset(input, m.input.Position()))

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(m.idleHint()))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeEval:
		if signature, params := getSignature(call.name); signature != "" {
			b.WriteString(renderSignatureHint(signature, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	if m.mode == modeEval && strings.TrimSpace(input) != "" {
		if m.invalid != nil {
			b.WriteString(errorStyle.Render("✗ " + m.invalid.Error()))
		} else {
			b.WriteString(resultStyle.Render("✓"))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// idleHint describes what to type next.
func (m model) idleHint() string {
	if m.mode == modeCtrl {
		return "Type: help, vars, row, rows, set, edit, quit (press Esc to return)"
	}

	if n := m.rowCount(); n > 0 {
		return fmt.Sprintf("Row %d of %d. Type a formula or press Esc for commands",
			m.row+1, n)
	}

	return "Type a formula or press Esc for commands"
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refresh(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refresh(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(false), nil

	case tea.KeyDown:
		return m.historyNext(false), nil

	case tea.KeyShiftUp:
		return m.historyPrev(true), nil

	case tea.KeyShiftDown:
		return m.historyNext(true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refresh(&m, false)

			return m, nil
		}

		return m.toggleMode(), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space ends tab-cycling and keeps the selected candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refresh(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) edits without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refresh(&m, false)

	return m, cmd
}

// cycle steps through completion candidates in direction dir (+1 or -1).
// A single candidate is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes candidate for the completion word and moves
// the cursor past it.
func replaceCurrentWord(m *model, candidate string) {
	input := m.input.Value()
	text := m.completion(candidate)

	head := input[:m.span.start] + text

	m.input.SetValue(head + input[m.span.end:])
	m.input.SetCursor(utf8.RuneCountInString(head))

	m.span.word = candidate
	m.span.end = m.span.start + len(candidate)
}

// refresh recomputes completions and validity for the current input. When
// autoConfirm is set and the typed word already equals the only candidate,
// the candidate is accepted. Deletions and cursor motion pass false so the
// user can edit freely.
func refresh(m *model, autoConfirm bool) {
	m.matches, m.span = m.computeMatches()
	m.validate()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.span.word == m.matches[0].Str {
		replaceCurrentWord(m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
		m.validate()
	}
}

// validate parses the formula being typed against the declared names.
func (m *model) validate() {
	m.invalid = nil

	text := strings.TrimSpace(m.input.Value())
	if m.mode != modeEval || text == "" {
		return
	}

	_, m.invalid = lang.Parse(text, m.names)
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	refresh(&m, false)

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input))

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input))

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		m.evaluate(input),
	)
}

// evaluate installs text as the formula and prints its value for the
// current row.
func (m model) evaluate(text string) tea.Cmd {
	v, err := m.eval(text)
	if err != nil {
		return tea.Println(errorStyle.Render(errorText(err)))
	}

	return tea.Println(resultStyle.Render(v.String()))
}

// eval installs text as the formula and evaluates it against the current
// scope. A syntax error leaves the previous formula installed.
func (m model) eval(text string) (lang.Value, error) {
	ctx := m.ctxFunc()

	if err := m.crit.SetExpressionContext(ctx, text, m.names); err != nil {
		return lang.Missing(), err
	}

	v, err := m.crit.EvaluateContext(ctx, m.scope(m.currentRow()))

	m.logger.TraceContext(ctx, "repl eval result",
		slog.String("result", v.String()),
		slog.Bool("ok", err == nil))

	return v, err
}

// scope resolves variables from the set bindings first, then row.
func (m model) scope(row lang.Symbols) lang.Scope {
	bound := m.bound

	return lang.ScopeFunc(func(name string) (lang.Value, bool) {
		if v, ok := bound[name]; ok {
			return v, true
		}

		v, ok := row[name]

		return v, ok
	})
}

func (m model) rowCount() int {
	if m.table == nil {
		return 0
	}

	return m.table.Len()
}

func (m model) currentRow() lang.Symbols {
	if m.row < m.rowCount() {
		return m.table.Rows[m.row]
	}

	return nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	echoCmd := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())
	}

	out, err := m.command(name, arg)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	if out == "" {
		return m, echoCmd
	}

	return m, tea.Sequence(echoCmd, tea.Println(out))
}

// command runs a control command that only prints output or changes
// session state.
func (m *model) command(name, arg string) (string, error) {
	switch name {
	case "h", "help":
		return helpMessage(), nil

	case "vars":
		return m.listVars(), nil

	case "row":
		return m.selectRow(arg)

	case "rows":
		return m.evaluateRows()

	case "set":
		return m.set(arg)

	case "unset":
		delete(m.bound, unbracket(arg))

		return "", nil

	case "fmt":
		expr := m.crit.AST()
		if expr == nil {
			return "", ErrNoFormula
		}

		return lang.Format(expr), nil

	case "tree":
		expr := m.crit.AST()
		if expr == nil {
			return "", ErrNoFormula
		}

		var b strings.Builder
		if err := lang.Print(&b, expr); err != nil {
			return "", err
		}

		return strings.TrimRight(b.String(), "\n"), nil

	case "funcs":
		return listFunctions(arg), nil

	default:
		return "", fmt.Errorf("unknown command %q (try 'help')", name)
	}
}

func (m *model) listVars() string {
	if len(m.names) == 0 {
		return hintStyle.Render("  no variables declared")
	}

	row := m.currentRow()

	var b strings.Builder

	for _, name := range m.names {
		var value string

		if v, ok := m.bound[name]; ok {
			value = v.String() + hintStyle.Render(" (set)")
		} else if v, ok := row[name]; ok {
			value = v.String()
		} else {
			value = hintStyle.Render("unbound")
		}

		fmt.Fprintf(&b, "  [%s] = %s\n", name, value)
	}

	return strings.TrimRight(b.String(), "\n")
}

// selectRow reports or changes the current row. Rows are numbered from 1.
func (m *model) selectRow(arg string) (string, error) {
	n := m.rowCount()
	if n == 0 {
		return "", ErrNoRows
	}

	if arg != "" {
		i, err := strconv.Atoi(arg)
		if err != nil || i < 1 || i > n {
			return "", fmt.Errorf("%w: row %s of %d", ErrOutOfBounds, arg, n)
		}

		m.row = i - 1
	}

	out := fmt.Sprintf("row %d of %d", m.row+1, n)

	if text := m.crit.Expression(); text != "" {
		v, err := m.crit.EvaluateContext(m.ctxFunc(), m.scope(m.currentRow()))
		if err != nil {
			return out + "\n" + errorStyle.Render(errorText(err)), nil
		}

		out += "\n" + resultStyle.Render(v.String())
	}

	return out, nil
}

// evaluateRows evaluates the current formula against every row.
func (m *model) evaluateRows() (string, error) {
	if m.crit.AST() == nil {
		return "", ErrNoFormula
	}

	if m.rowCount() == 0 {
		return "", ErrNoRows
	}

	var b strings.Builder

	for i, row := range m.table.All() {
		marker := " "
		if i == m.row {
			marker = "*"
		}

		v, err := m.crit.EvaluateContext(m.ctxFunc(), m.scope(row))
		if err != nil {
			fmt.Fprintf(&b, "%s%4d  %s\n", marker, i+1, errorStyle.Render(err.Error()))

			continue
		}

		fmt.Fprintf(&b, "%s%4d  %s\n", marker, i+1, resultStyle.Render(v.String()))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// set binds NAME=VALUE, declaring NAME if needed.
func (m *model) set(arg string) (string, error) {
	name, raw, ok := strings.Cut(arg, "=")

	name = unbracket(name)
	if !ok || name == "" {
		return "", errors.New("usage: set NAME=VALUE")
	}

	v := parseValue(strings.TrimSpace(raw))

	m.bound[name] = v
	if !slices.Contains(m.names, name) {
		m.names = append(m.names, name)
	}

	return fmt.Sprintf("[%s] = %s", name, v.String()), nil
}

// edit opens the formula being typed, or the installed formula, in the
// user's editor.
func (m model) edit() tea.Cmd {
	text := m.evalText
	if text == "" {
		text = m.crit.Expression()
	}

	cmd := &editFormulaCommand{
		text:    text,
		names:   slices.Clone(m.names),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == "":
			return editCancelledMsg{}
		default:
			return editFormulaMsg{text: cmd.result}
		}
	})
}

// recall loads history entry i into the input, switching to its mode.
func (m model) recall(i int) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	m.historyIdx = i
	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.CursorEnd()
	refresh(&m, false)

	return m
}

// historyPrev recalls the previous entry, optionally of the current mode
// only.
func (m model) historyPrev(sameMode bool) model {
	for i := m.historyIdx - 1; i >= 0; i-- {
		entry, err := m.history.Entry(i)
		if err == nil && (!sameMode || entry.Mode == m.mode) {
			return m.recall(i)
		}
	}

	return m
}

// historyNext recalls the next entry, optionally of the current mode only.
// Moving past the newest entry clears the input.
func (m model) historyNext(sameMode bool) model {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		entry, err := m.history.Entry(i)
		if err == nil && (!sameMode || entry.Mode == m.mode) {
			return m.recall(i)
		}
	}

	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refresh(&m, false)
	}

	return m
}

// toggleMode switches between formula and command modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to mode, saving and restoring each mode's input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refresh(&m, false)

	return m
}

// listFunctions renders the builtins matching query, one per line.
func listFunctions(query string) string {
	var fns []*lang.Function

	if query == "" {
		fns = slices.Collect(lang.Functions())
	} else {
		for _, match := range fuzzy.Find(strings.ToUpper(query), functionNames) {
			fn, _ := lang.LookupFunction(match.Str)
			fns = append(fns, fn)
		}
	}

	var b strings.Builder

	for _, fn := range fns {
		fmt.Fprintf(&b, "  %s  %s\n",
			signatureNameStyle.Render(fn.Signature()),
			hintStyle.Render(fn.Help))
	}

	return strings.TrimRight(b.String(), "\n")
}

// errorText renders err, adding the caret snippet for syntax errors.
func errorText(err error) string {
	text := "error: " + err.Error()

	if snippet := snippetOf(err); snippet != "" {
		text += "\n" + strings.TrimRight(snippet, "\n")
	}

	return text
}

func snippetOf(err error) string {
	var serr *lang.SyntaxError
	if errors.As(err, &serr) {
		return serr.Snippet()
	}

	return ""
}

// unbracket trims space and one enclosing pair of brackets from a name.
func unbracket(name string) string {
	name = strings.TrimSpace(name)

	if inner, ok := strings.CutPrefix(name, "["); ok {
		if inner, ok := strings.CutSuffix(inner, "]"); ok {
			return inner
		}
	}

	return name
}

// parseValue interprets the text of a set command. Quoted text is a string,
// TRUE and FALSE are booleans, numeric text is a number and anything else,
// including NA, is kept as text.
func parseValue(raw string) lang.Value {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return lang.Text(raw[1 : len(raw)-1])
	}

	switch strings.ToUpper(raw) {
	case "TRUE":
		return lang.Bool(true)
	case "FALSE":
		return lang.Bool(false)
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return lang.Number(f)
	}

	return lang.Text(raw)
}
