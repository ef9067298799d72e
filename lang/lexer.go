package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords recognized case-insensitively by the lexer.
const (
	keywordAnd = "AND"
	keywordOr  = "OR"
	keywordNot = "NOT"
)

// Tokenize splits formula text into tokens. The returned slice always ends
// with a [TokenEOF] token.
//
// A leading '-' is never part of a number literal; it is emitted as an
// operator so that "5--3" reads as 5 - (-3).
func Tokenize(text string) ([]Token, error) {
	tokens, err := scan(text)
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

// scan tokenizes text. On a lexical error it returns the tokens preceding
// the error followed by a single tokenInvalid at the error position, so the
// parser can still report an earlier grammatical error first.
func scan(text string) ([]Token, *SyntaxError) {
	l := &lexer{
		input: []byte(text),
		line:  1,
		col:   1,
	}

	tokens := make([]Token, 0, len(text)/2+1)

	for {
		tok, err := l.next()
		if err != nil {
			err.Source = text

			return append(tokens, Token{Kind: tokenInvalid, Pos: err.Pos}), err
		}

		tokens = append(tokens, tok)

		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

// lexer holds the lexer state.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// next scans one token.
func (l *lexer) next() (Token, *SyntaxError) {
	l.skipWhitespace()

	pos := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	ch := l.peek()

	switch {
	case isDigit(ch) || ch == '.':
		return l.lexNumber(pos)

	case ch == '"':
		return l.lexString(pos)

	case ch == '[':
		return l.lexIdent(pos)

	case isNameStart(ch):
		return l.lexName(pos), nil
	}

	l.advance()

	switch ch {
	case '(':
		return Token{Kind: TokenLParen, Text: "(", Pos: pos}, nil

	case ')':
		return Token{Kind: TokenRParen, Text: ")", Pos: pos}, nil

	case ',':
		return Token{Kind: TokenComma, Text: ",", Pos: pos}, nil

	case '+', '-', '*', '/', '=':
		return Token{Kind: TokenOp, Text: string(ch), Pos: pos}, nil

	case '<':
		if l.expect('>') {
			return Token{Kind: TokenOp, Text: "<>", Pos: pos}, nil
		}

		if l.expect('=') {
			return Token{Kind: TokenOp, Text: "<=", Pos: pos}, nil
		}

		return Token{Kind: TokenOp, Text: "<", Pos: pos}, nil

	case '>':
		if l.expect('=') {
			return Token{Kind: TokenOp, Text: ">=", Pos: pos}, nil
		}

		return Token{Kind: TokenOp, Text: ">", Pos: pos}, nil
	}

	return Token{}, newSyntaxError(ErrLex, pos,
		"unexpected character "+quoteRune(ch))
}

// lexNumber scans digits with at most one decimal point.
func (l *lexer) lexNumber(pos Position) (Token, *SyntaxError) {
	start := l.pos
	dots := 0

	for !l.eof() {
		ch := l.peek()
		if ch == '.' {
			dots++
		} else if !isDigit(ch) {
			break
		}

		l.advance()
	}

	text := string(l.input[start:l.pos])

	switch {
	case dots > 1:
		return Token{}, newSyntaxError(ErrLex, pos,
			"malformed number \""+text+"\"")

	case text == ".":
		return Token{}, newSyntaxError(ErrLex, pos,
			"malformed number \".\"")
	}

	return Token{Kind: TokenNumber, Text: text, Pos: pos}, nil
}

// lexString scans a double-quoted literal. There is no escape processing.
func (l *lexer) lexString(pos Position) (Token, *SyntaxError) {
	l.advance() // skip opening quote

	start := l.pos

	for !l.eof() {
		if l.peek() == '"' {
			text := string(l.input[start:l.pos])

			l.advance() // skip closing quote

			return Token{Kind: TokenString, Text: text, Pos: pos}, nil
		}

		l.advance()
	}

	return Token{}, newSyntaxError(ErrLex, pos, "unterminated string")
}

// lexIdent scans a bracketed variable name. The name is everything up to the
// closing bracket and may contain spaces.
func (l *lexer) lexIdent(pos Position) (Token, *SyntaxError) {
	l.advance() // skip '['

	start := l.pos

	for !l.eof() {
		if l.peek() == ']' {
			text := string(l.input[start:l.pos])

			l.advance() // skip ']'

			return Token{Kind: TokenIdent, Text: text, Pos: pos}, nil
		}

		l.advance()
	}

	return Token{}, newSyntaxError(ErrLex, pos, "missing closing ']'")
}

// lexName scans a bare identifier, promoting AND/OR/NOT to keywords.
func (l *lexer) lexName(pos Position) Token {
	start := l.pos

	for !l.eof() && isNameContinue(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])

	switch upper := strings.ToUpper(text); upper {
	case keywordAnd, keywordOr, keywordNot:
		return Token{Kind: TokenKeyword, Text: upper, Pos: pos}

	default:
		return Token{Kind: TokenName, Text: text, Pos: pos}
	}
}

// Helper methods

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) expect(ch rune) bool {
	if l.peek() == ch {
		l.advance()

		return true
	}

	return false
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameContinue(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
