package fealex

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// keywords is the fixed set of reserved words. Everything else lexing like
// an identifier is a glyph name. Glyph names colliding with a keyword have
// to be escaped with a backslash, e.g. `\sub`.
var keywords = map[string]bool{
	"anchor":              true,
	"anchorDef":           true,
	"anon":                true,
	"anonymous":           true,
	"base":                true,
	"by":                  true,
	"contourpoint":        true,
	"cursive":             true,
	"cvParameters":        true,
	"device":              true,
	"enum":                true,
	"enumerate":           true,
	"excludeDFLT":         true,
	"exclude_dflt":        true,
	"feature":             true,
	"featureNames":        true,
	"from":                true,
	"ignore":              true,
	"IgnoreBaseGlyphs":    true,
	"IgnoreLigatures":     true,
	"IgnoreMarks":         true,
	"include":             true,
	"includeDFLT":         true,
	"include_dflt":        true,
	"language":            true,
	"languagesystem":      true,
	"ligComponent":        true,
	"ligature":            true,
	"lookup":              true,
	"lookupflag":          true,
	"mark":                true,
	"MarkAttachmentType":  true,
	"markClass":           true,
	"name":                true,
	"NULL":                true,
	"parameters":          true,
	"pos":                 true,
	"position":            true,
	"required":            true,
	"reversesub":          true,
	"RightToLeft":         true,
	"rsub":                true,
	"script":              true,
	"sizemenuname":        true,
	"sub":                 true,
	"substitute":          true,
	"subtable":            true,
	"table":               true,
	"useExtension":        true,
	"UseMarkFilteringSet": true,
	"valueRecordDef":      true,
}

// IsKeyword is true if word is reserved in feature files.
func IsKeyword(word string) bool {
	return keywords[word]
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src     string
	pos     int // byte index of the next rune to consume
	line    int // current 1-based source line
	col     int // current 1-based column
	include int // state of include(...) recognition
	done    bool
}

// New creates a lexer for feature file source text.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Source returns the text the lexer operates on.
func (l *Lexer) Source() string {
	return l.src
}

// All returns the sequence of tokens of the lexer's source, not including
// the final EOF token. A lexical error is yielded as a token of kind Error
// and ends the sequence.
//
// The sequence is restartable: every call to All lexes the source from
// the start, independent of the lexer's own position.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		lx := New(l.src)
		for {
			t := lx.Next()
			if t.Kind == EOF {
				return
			}
			if !yield(t) || t.Kind == Error {
				return
			}
		}
	}
}

// Lex splits src into tokens, excluding EOF. It returns a *LexError for the
// first lexical error.
func Lex(src string) ([]Token, error) {
	var tokens []Token
	for t := range New(src).All() {
		if t.Kind == Error {
			return tokens, &LexError{Pos: t.Pos, Msg: t.Text}
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Next returns the next token. After the end of input or after an error,
// Next keeps returning EOF tokens.
func (l *Lexer) Next() Token {
	if l.done {
		return l.token(EOF, "", l.position())
	}
	l.skipWhitespace()
	start := l.position()
	if l.pos >= len(l.src) {
		l.done = true
		return l.token(EOF, "", start)
	}
	if l.include == 2 {
		return l.lexPath(start)
	}
	r := l.peek()
	switch {
	case r == '#':
		for l.pos < len(l.src) && l.peek() != '\n' {
			l.advance()
		}
		return l.token(Comment, l.src[start.Offset:l.pos], start)
	case r == '"':
		return l.lexString(start)
	case r == '@':
		l.advance()
		if !isNameStart(l.peek()) {
			return l.fail(start, "class name expected after '@'")
		}
		l.scanName()
		return l.token(ClassName, l.src[start.Offset+1:l.pos], start)
	case r == '\\':
		l.advance()
		if isDigit(l.peek()) {
			for isDigit(l.peek()) {
				l.advance()
			}
			return l.token(Glyph, l.src[start.Offset:l.pos], start) // CID
		}
		if !isNameStart(l.peek()) {
			return l.fail(start, "glyph name expected after '\\'")
		}
		l.scanName()
		return l.token(Glyph, l.src[start.Offset+1:l.pos], start)
	case isDigit(r) || (r == '-' && isDigit(l.peek2())):
		return l.lexNumber(start)
	case isNameStart(r):
		l.scanName()
		word := l.src[start.Offset:l.pos]
		l.include = 0
		if keywords[word] {
			if word == "include" {
				l.include = 1
			}
			return l.token(Keyword, word, start)
		}
		return l.token(Glyph, word, start)
	}
	l.advance()
	var kind Kind
	switch r {
	case '{':
		kind = LBrace
	case '}':
		kind = RBrace
	case '[':
		kind = LBracket
	case ']':
		kind = RBracket
	case '(':
		kind = LParen
		if l.include == 1 {
			l.include = 2
		}
	case ')':
		kind = RParen
	case '<':
		kind = LAngle
	case '>':
		kind = RAngle
	case ';':
		kind = Semicolon
	case ',':
		kind = Comma
	case '\'':
		kind = Mark
	case '=':
		kind = Equals
	case '-':
		kind = Hyphen
	default:
		return l.fail(start, "invalid character "+quoteRune(r))
	}
	if kind != LParen {
		l.include = 0
	}
	return l.token(kind, string(r), start)
}

func (l *Lexer) lexString(start Position) Token {
	l.advance() // opening quote
	for {
		if l.pos >= len(l.src) {
			return l.fail(start, "unterminated string")
		}
		if l.advance() == '"' {
			break
		}
	}
	return l.token(String, l.src[start.Offset:l.pos], start)
}

func (l *Lexer) lexNumber(start Position) Token {
	if l.peek() == '-' {
		l.advance()
	}
	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X') {
		l.advance()
		l.advance()
		if !isHexDigit(l.peek()) {
			return l.fail(start, "malformed hexadecimal number")
		}
		for isHexDigit(l.peek()) {
			l.advance()
		}
		return l.token(Number, l.src[start.Offset:l.pos], start)
	}
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peek2()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.token(Number, l.src[start.Offset:l.pos], start)
}

// lexPath reads the raw file argument of an include statement.
func (l *Lexer) lexPath(start Position) Token {
	l.include = 0
	for l.pos < len(l.src) && l.peek() != ')' {
		if l.peek() == '\n' {
			return l.fail(start, "unterminated include path")
		}
		l.advance()
	}
	path := strings.TrimSpace(l.src[start.Offset:l.pos])
	if path == "" {
		return l.fail(start, "empty include path")
	}
	return l.token(Path, path, start)
}

func (l *Lexer) token(kind Kind, text string, start Position) Token {
	return Token{Kind: kind, Text: text, Pos: start, End: l.pos}
}

func (l *Lexer) fail(start Position, msg string) Token {
	l.done = true
	return Token{Kind: Error, Text: msg, Pos: start, End: l.pos}
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if l.pos+size >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+size:])
	return r
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanName() {
	for isNameChar(l.peek()) {
		l.advance()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameStart(r rune) bool {
	return isLetter(r) || r == '_' || r == '.'
}

// isNameChar also accepts '/' for table tags like 'OS/2'.
func isNameChar(r rune) bool {
	if isLetter(r) || isDigit(r) {
		return true
	}
	switch r {
	case '_', '.', '-', '+', '*', '^', '~', '/':
		return true
	}
	return false
}

func quoteRune(r rune) string {
	if r == utf8.RuneError {
		return "(invalid UTF-8)"
	}
	return "'" + string(r) + "'"
}
