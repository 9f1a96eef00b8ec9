package token

import (
	"strings"
	"unicode/utf8"

	"github.com/wippyai/wasm-ast/errors"
)

// isLetter matches the characters of a bare word: [A-Za-z0-9_/].
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || c == '_' || c == '/'
}

// isIDChar matches the characters allowed after '$' in an identifier.
func isIDChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) ||
		strings.IndexByte("!#$%&*+./:<=>?@\\[]^_`|~-", c) >= 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func isNewline(c byte) bool {
	return c == '\n' || c == '\r'
}

type lexer struct {
	src    string
	tokens []Token
	pos    int
	line   int
	col    int
}

// Tokenize splits WebAssembly text source into tokens in a single
// left-to-right pass. Whitespace is dropped; comments are kept as tokens.
func Tokenize(source string) ([]Token, error) {
	l := &lexer{src: source, line: 1, col: 1}

	for l.pos < len(l.src) {
		if err := l.next(); err != nil {
			return nil, err
		}
	}

	return l.tokens, nil
}

func (l *lexer) next() error {
	c := l.src[l.pos]

	switch {
	case c == ';' && l.peek(1) == ';':
		l.lineComment()
	case c == '(' && l.peek(1) == ';':
		return l.blockComment()
	case c == '(':
		l.single(OpenParen)
	case c == ')':
		l.single(CloseParen)
	case c == '=':
		l.single(Equal)
	case isNewline(c):
		l.newline()
	case isSpace(c):
		l.advance(1)
	case c == '$':
		l.identifier()
	case l.atNumber():
		return l.number()
	case c == '"':
		return l.quoted()
	case isLetter(c):
		l.word()
	default:
		return l.unexpected()
	}
	return nil
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// advance consumes n bytes that are known to be ASCII.
func (l *lexer) advance(n int) {
	l.pos += n
	l.col += n
}

// advanceRune consumes one possibly multi-byte character.
func (l *lexer) advanceRune() {
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.col++
}

func (l *lexer) newline() {
	if l.src[l.pos] == '\r' && l.peek(1) == '\n' {
		l.pos++
	}
	l.pos++
	l.line++
	l.col = 1
}

func (l *lexer) here() Position {
	return Position{Line: l.line, Column: l.col}
}

func (l *lexer) emit(typ Type, value string, at Position) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Pos: at})
}

func (l *lexer) single(typ Type) {
	l.emit(typ, l.src[l.pos:l.pos+1], l.here())
	l.advance(1)
}

func (l *lexer) lineComment() {
	at := l.here()
	l.advance(2)

	start := l.pos
	for l.pos < len(l.src) && !isNewline(l.src[l.pos]) {
		l.advanceRune()
	}

	l.tokens = append(l.tokens, Token{Type: Comment, Value: l.src[start:l.pos], Pos: at, Comment: CommentLeading})
}

// blockComment consumes up to the first ";)". Block comments do not nest.
func (l *lexer) blockComment() error {
	at := l.here()
	l.advance(2)

	start := l.pos
	for {
		if l.pos >= len(l.src) {
			return l.fail(at, "unterminated block comment")
		}
		c := l.src[l.pos]
		if c == ';' && l.peek(1) == ')' {
			break
		}
		if isNewline(c) {
			l.newline()
			continue
		}
		l.advanceRune()
	}
	text := l.src[start:l.pos]
	l.advance(2)

	l.tokens = append(l.tokens, Token{Type: Comment, Value: text, Pos: at, Comment: CommentBlock})
	return nil
}

func (l *lexer) identifier() {
	at := l.here()
	l.advance(1)

	start := l.pos
	for l.pos < len(l.src) && isIDChar(l.src[l.pos]) {
		l.pos++
	}
	value := l.src[start:l.pos]
	l.col += len(value)

	l.emit(Identifier, value, at)
}

func (l *lexer) atNumber() bool {
	c := l.src[l.pos]
	if isDigit(c) || c == '.' || c == '_' || c == '+' || c == '-' {
		return true
	}
	if l.pos+3 > len(l.src) {
		return false
	}
	switch strings.ToLower(l.src[l.pos : l.pos+3]) {
	case "nan", "inf":
		return true
	}
	return false
}

func (l *lexer) number() error {
	value := ScanNumber(l.src[l.pos:])
	if value == "" {
		return l.unexpected()
	}

	l.emit(Number, value, l.here())
	l.advance(len(value))
	return nil
}

// quoted keeps escape sequences undecoded; only an unescaped quote ends it.
func (l *lexer) quoted() error {
	at := l.here()
	l.advance(1)

	start := l.pos
	for {
		if l.pos >= len(l.src) {
			return l.fail(at, "unterminated string")
		}
		c := l.src[l.pos]
		if c == '"' {
			break
		}
		if isNewline(c) {
			return l.unexpected()
		}
		if c == '\\' && l.pos+1 < len(l.src) && !isNewline(l.src[l.pos+1]) {
			l.advance(1)
		}
		l.advanceRune()
	}
	value := l.src[start:l.pos]
	l.advance(1)

	l.emit(String, value, at)
	return nil
}

func (l *lexer) run() string {
	start := l.pos
	for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
		l.pos++
	}
	l.col += l.pos - start
	return l.src[start:l.pos]
}

// word handles keywords, value types, names, and member access such as
// i32.add, which yields a valtype (or name), a dot, and a name.
func (l *lexer) word() {
	at := l.here()
	value := l.run()

	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		if IsValtype(value) {
			l.emit(Valtype, value, at)
		} else {
			l.emit(Name, value, at)
		}

		l.emit(Dot, ".", l.here())
		l.advance(1)

		at = l.here()
		l.emit(Name, l.run(), at)
		return
	}

	switch {
	case IsKeyword(value):
		l.emit(Keyword, value, at)
	case IsValtype(value):
		l.emit(Valtype, value, at)
	default:
		l.emit(Name, value, at)
	}
}

func (l *lexer) unexpected() error {
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return l.fail(l.here(), "unexpected character %q", r)
}

func (l *lexer) fail(at Position, format string, args ...any) error {
	return errors.New(errors.PhaseLex, errors.KindLexical).
		At(at.Line, at.Column).
		Frame(CodeFrame(l.src, at.Line, at.Column)).
		Detail(format, args...).
		Build()
}
