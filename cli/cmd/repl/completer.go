package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/criterion/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "vars", "row", "rows", "set", "unset",
	"fmt", "tree", "funcs", "edit", "clear", "quit",
}

// keywords complete alongside function names.
var keywords = []string{"AND", "OR", "NOT"}

// functionNames lists every builtin name, sorted.
var functionNames = func() []string {
	var names []string
	for fn := range lang.Functions() {
		names = append(names, fn.Name)
	}

	return names
}()

// span is the region of input being completed.
type span struct {
	word       string
	start, end int  // byte offsets of word within input
	column     bool // word is inside an unclosed '[' and names a variable
	quoted     bool // cursor is inside a string literal
}

// isNameRune reports whether r may appear in a function name or keyword.
func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordSpan locates the completion word at cursor. Inside an open '[' the
// word runs from the bracket to the matching ']' (or end of input) and may
// contain spaces; elsewhere it is the run of name characters around cursor.
func wordSpan(input string, cursor int) span {
	cursor = min(cursor, len(input))

	var (
		inString bool
		bracket  = -1
	)

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case inString:
			inString = r != '"'
		case bracket >= 0:
			if r == ']' {
				bracket = -1
			}
		case r == '"':
			inString = true
		case r == '[':
			bracket = i
		}

		i += size
	}

	if inString {
		return span{start: cursor, end: cursor, quoted: true}
	}

	if bracket >= 0 {
		start := bracket + 1

		end := len(input)
		if j := strings.IndexByte(input[cursor:], ']'); j >= 0 {
			end = cursor + j
		}

		return span{word: input[start:end], start: start, end: end, column: true}
	}

	start := cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isNameRune(r) {
			break
		}

		start -= size
	}

	end := cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isNameRune(r) {
			break
		}

		end += size
	}

	return span{word: input[start:end], start: start, end: end}
}

// byteOffset converts a rune position within input to a byte offset.
func byteOffset(input string, pos int) int {
	for i := range input {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(input)
}

// computeMatches ranks completion candidates for the word at the cursor.
// An empty word completes nothing, except directly after '[' where every
// declared name is offered.
func (m model) computeMatches() (fuzzy.Matches, span) {
	input := m.input.Value()
	sp := wordSpan(input, byteOffset(input, m.input.Position()))

	var candidates []string

	switch {
	case m.mode == modeCtrl:
		candidates = ctrlCommands

		// Only the command word itself completes.
		if len(strings.Fields(input[:sp.start])) > 0 {
			return nil, sp
		}

	case sp.quoted:
		return nil, sp

	case sp.column:
		candidates = m.names

		if sp.word == "" {
			matches := make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, sp
		}

	default:
		candidates = slices.Concat(functionNames, keywords)
	}

	if sp.word == "" || len(candidates) == 0 {
		return nil, sp
	}

	return fuzzy.Find(sp.word, candidates), sp
}

// completion returns the text that replaces the completion word when the
// user accepts candidate. Variable names are closed with ']' when the
// bracket is still open.
func (m model) completion(candidate string) string {
	input := m.input.Value()

	if m.span.column && !strings.HasPrefix(input[m.span.end:], "]") {
		return candidate + "]"
	}

	return candidate
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. Matched characters are highlighted and the selected
// candidate, while tab-cycling, is inverted.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		if i > 0 && !last && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Function names are shown with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if _, ok := lang.LookupFunction(match.Str); ok {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
