package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/criterion/lang"
)

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the innermost function call enclosing the cursor.
type functionCall struct {
	name     string // upper-case function name
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall scans input up to cursor and reports the innermost
// named call whose argument list is still open. Parentheses inside string
// literals and bracketed variable names are ignored, and a bare grouping
// parenthesis defers to the call around it.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	type frame struct {
		name string
		args int
	}

	var (
		stack     []frame
		inString  bool
		inBracket bool
	)

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case inString:
			inString = r != '"'

		case inBracket:
			inBracket = r != ']'

		case r == '"':
			inString = true

		case r == '[':
			inBracket = true

		case r == '(':
			stack = append(stack, frame{name: nameBefore(input, i)})

		case r == ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case r == ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}

		i += size
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name != "" {
			return functionCall{
				name:     stack[i].name,
				argIndex: stack[i].args,
				inCall:   true,
			}
		}
	}

	return functionCall{}
}

// nameBefore returns the upper-cased identifier that ends just before the
// parenthesis at offset paren, skipping white space. Keywords are not names.
func nameBefore(input string, paren int) string {
	end := paren

	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:end])
		if !unicode.IsSpace(r) {
			break
		}

		end -= size
	}

	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	switch name := strings.ToUpper(input[start:end]); name {
	case "AND", "OR", "NOT":
		return ""
	default:
		return name
	}
}

// getSignature returns the calling convention and parameter labels of the
// named builtin, or empty values if there is no such function.
func getSignature(name string) (signature string, params []string) {
	fn, ok := lang.LookupFunction(strings.ToUpper(name))
	if !ok {
		return "", nil
	}

	return fn.Signature(), fn.Labels()
}

// renderSignatureHint renders a signature with the parameter at argIdx
// highlighted. Past the last parameter of a variadic function the trailing
// "..." is highlighted.
func renderSignatureHint(signature string, params []string, argIdx int) string {
	name, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		current := i == argIdx
		if param == "..." {
			current = argIdx >= i
		}

		if current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
