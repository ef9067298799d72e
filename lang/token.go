package lang

import "strconv"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota

	// TokenNumber is a decimal literal such as 5, 0.25 or .5.
	TokenNumber

	// TokenString is a double-quoted literal. Text holds the unquoted body.
	TokenString

	// TokenIdent is a bracketed variable reference. Text holds the name
	// between the brackets.
	TokenIdent

	// TokenName is a bare identifier, legal only as a function name.
	TokenName

	// TokenOp is an arithmetic or comparison operator.
	TokenOp

	// TokenKeyword is one of AND, OR, NOT. Text is upper-case.
	TokenKeyword

	TokenLParen
	TokenRParen
	TokenComma

	// tokenInvalid stands in for input that failed to lex.
	tokenInvalid
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of expression"

	case TokenNumber:
		return "number"

	case TokenString:
		return "string"

	case TokenIdent:
		return "variable"

	case TokenName:
		return "name"

	case TokenOp:
		return "operator"

	case TokenKeyword:
		return "keyword"

	case TokenLParen:
		return "'('"

	case TokenRParen:
		return "')'"

	case TokenComma:
		return "','"

	case tokenInvalid:
		return "invalid input"

	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Position identifies a location in formula source.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

// Token is a single lexical unit of a formula.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// describe renders the token for use in error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF, TokenLParen, TokenRParen, TokenComma:
		return t.Kind.String()

	case TokenString:
		return "string " + strconv.Quote(t.Text)

	case TokenIdent:
		return "variable [" + t.Text + "]"

	default:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	}
}

// is reports whether t is of kind k with exactly the given text.
func (t Token) is(k TokenKind, text string) bool {
	return t.Kind == k && t.Text == text
}
