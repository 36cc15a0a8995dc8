package parser

import (
	"fmt"
	"unicode"

	"github.com/antlr4-go/antlr/v4"
	"martianoff/effectful/efferr"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokIdent
	tokInt
	tokString

	// keywords
	tokVal
	tokIf
	tokElse
	tokMatch
	tokCase
	tokFor
	tokYield
	tokTrue
	tokFalse

	// punctuation
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokDot
	tokColon
	tokSemi
	tokArrow  // =>
	tokLArrow // <-
	tokAssign
	tokAt
	tokBang

	// operators
	tokOrOr
	tokAndAnd
	tokEq
	tokNeq
	tokLt
	tokLe
	tokGt
	tokGe
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
)

var keywords = map[string]tokenType{
	"val":   tokVal,
	"if":    tokIf,
	"else":  tokElse,
	"match": tokMatch,
	"case":  tokCase,
	"for":   tokFor,
	"yield": tokYield,
	"true":  tokTrue,
	"false": tokFalse,
}

type token struct {
	Type   tokenType
	Text   string
	Line   int
	Column int
}

func (t token) String() string {
	if t.Type == tokEOF {
		return "end of input"
	}
	if t.Type == tokNewline {
		return "newline"
	}
	return fmt.Sprintf("%q", t.Text)
}

// errorListener collects syntax errors with their positions.
type errorListener struct {
	Errors []error
}

func (l *errorListener) SyntaxError(line, column int, msg string) {
	l.Errors = append(l.Errors, efferr.NewSyntaxError(line, column, msg))
}

// lexer turns a character stream into tokens. Newlines are significant only
// at the top level and directly inside braces; inside parentheses and
// brackets they are skipped.
type lexer struct {
	input    antlr.CharStream
	line     int
	column   int
	nesting  []rune
	listener *errorListener
}

func newLexer(input string, listener *errorListener) *lexer {
	return &lexer{
		input:    antlr.NewInputStream(input),
		line:     1,
		column:   1,
		listener: listener,
	}
}

func (l *lexer) peek(offset int) rune {
	c := l.input.LA(offset)
	if c == antlr.TokenEOF {
		return 0
	}
	return rune(c)
}

func (l *lexer) advance() rune {
	c := l.peek(1)
	if c == 0 {
		return 0
	}
	l.input.Consume()
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func (l *lexer) newlinesSignificant() bool {
	return len(l.nesting) == 0 || l.nesting[len(l.nesting)-1] == '{'
}

// tokenize returns every token of the input, ending with tokEOF.
func (l *lexer) tokenize() []token {
	var tokens []token
	for {
		tok, ok := l.next()
		if !ok {
			continue
		}
		if tok.Type == tokNewline {
			if len(tokens) == 0 || tokens[len(tokens)-1].Type == tokNewline || !l.newlinesSignificant() {
				continue
			}
		}
		tokens = append(tokens, tok)
		if tok.Type == tokEOF {
			return tokens
		}
	}
}

// next scans one token. It returns false for input that produced no token
// (whitespace, comments, bad characters).
func (l *lexer) next() (token, bool) {
	c := l.peek(1)
	line, col := l.line, l.column
	mk := func(tt tokenType, text string) (token, bool) {
		return token{Type: tt, Text: text, Line: line, Column: col}, true
	}

	switch {
	case c == 0:
		return mk(tokEOF, "")
	case c == '\n':
		l.advance()
		return mk(tokNewline, "\n")
	case c == ' ' || c == '\t' || c == '\r':
		l.advance()
		return token{}, false
	case c == '/' && l.peek(2) == '/':
		for l.peek(1) != '\n' && l.peek(1) != 0 {
			l.advance()
		}
		return token{}, false
	case unicode.IsDigit(c):
		start := l.input.Index()
		for unicode.IsDigit(l.peek(1)) {
			l.advance()
		}
		return mk(tokInt, l.input.GetText(start, l.input.Index()-1))
	case isIdentStart(c):
		start := l.input.Index()
		for isIdentPart(l.peek(1)) {
			l.advance()
		}
		text := l.input.GetText(start, l.input.Index()-1)
		if kw, ok := keywords[text]; ok {
			return mk(kw, text)
		}
		return mk(tokIdent, text)
	case c == '"':
		return l.scanString(line, col)
	}

	l.advance()
	two := string(c) + string(l.peek(1))
	switch two {
	case "=>":
		l.advance()
		return mk(tokArrow, two)
	case "<-":
		l.advance()
		return mk(tokLArrow, two)
	case "||":
		l.advance()
		return mk(tokOrOr, two)
	case "&&":
		l.advance()
		return mk(tokAndAnd, two)
	case "==":
		l.advance()
		return mk(tokEq, two)
	case "!=":
		l.advance()
		return mk(tokNeq, two)
	case "<=":
		l.advance()
		return mk(tokLe, two)
	case ">=":
		l.advance()
		return mk(tokGe, two)
	}

	switch c {
	case '(':
		l.nesting = append(l.nesting, c)
		return mk(tokLParen, "(")
	case '[':
		l.nesting = append(l.nesting, c)
		return mk(tokLBracket, "[")
	case '{':
		l.nesting = append(l.nesting, c)
		return mk(tokLBrace, "{")
	case ')':
		l.close('(')
		return mk(tokRParen, ")")
	case ']':
		l.close('[')
		return mk(tokRBracket, "]")
	case '}':
		l.close('{')
		return mk(tokRBrace, "}")
	case ',':
		return mk(tokComma, ",")
	case '.':
		return mk(tokDot, ".")
	case ':':
		return mk(tokColon, ":")
	case ';':
		return mk(tokSemi, ";")
	case '=':
		return mk(tokAssign, "=")
	case '@':
		return mk(tokAt, "@")
	case '!':
		return mk(tokBang, "!")
	case '<':
		return mk(tokLt, "<")
	case '>':
		return mk(tokGt, ">")
	case '+':
		return mk(tokPlus, "+")
	case '-':
		return mk(tokMinus, "-")
	case '*':
		return mk(tokStar, "*")
	case '/':
		return mk(tokSlash, "/")
	case '%':
		return mk(tokPercent, "%")
	}

	l.listener.SyntaxError(line, col, fmt.Sprintf("unexpected character %q", c))
	return token{}, false
}

func (l *lexer) close(open rune) {
	if n := len(l.nesting); n > 0 && l.nesting[n-1] == open {
		l.nesting = l.nesting[:n-1]
	}
}

func (l *lexer) scanString(line, col int) (token, bool) {
	l.advance() // opening quote
	var text []rune
	for {
		c := l.peek(1)
		switch c {
		case 0, '\n':
			l.listener.SyntaxError(line, col, "unterminated string literal")
			return token{Type: tokString, Text: string(text), Line: line, Column: col}, true
		case '"':
			l.advance()
			return token{Type: tokString, Text: string(text), Line: line, Column: col}, true
		case '\\':
			l.advance()
			esc := l.advance()
			switch esc {
			case 'n':
				text = append(text, '\n')
			case 't':
				text = append(text, '\t')
			default:
				text = append(text, esc)
			}
		default:
			text = append(text, l.advance())
		}
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

// '$' is accepted inside identifiers so generated names read back.
func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c) || c == '$'
}
