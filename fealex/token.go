package fealex

import "fmt"

// Kind identifies the category of a lexed token.
type Kind int

const (
	EOF       Kind = iota // sentinel: end of input
	Error                 // lexical error, Text holds the message
	Comment               // '#' up to end of line
	Keyword               // reserved word of the feature file syntax
	Glyph                 // glyph name or other identifier, CIDs included
	ClassName             // @name, Text holds the name without '@'
	Number                // integer, negative, fractional or hexadecimal literal
	String                // double-quoted string, Text includes the quotes
	Path                  // raw argument of include(...)
	LBrace                // {
	RBrace                // }
	LBracket              // [
	RBracket              // ]
	LParen                // (
	RParen                // )
	LAngle                // <
	RAngle                // >
	Semicolon             // ;
	Comma                 // ,
	Mark                  // '
	Equals                // =
	Hyphen                // -
)

var kindNames = [...]string{
	EOF:       "end of input",
	Error:     "error",
	Comment:   "comment",
	Keyword:   "keyword",
	Glyph:     "glyph name",
	ClassName: "class name",
	Number:    "number",
	String:    "string",
	Path:      "path",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	LParen:    "'('",
	RParen:    "')'",
	LAngle:    "'<'",
	RAngle:    "'>'",
	Semicolon: "';'",
	Comma:     "','",
	Mark:      "'''",
	Equals:    "'='",
	Hyphen:    "'-'",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Position of a token in the input.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1 (character count per line)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical item of a feature file.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
	End  int // byte offset of the first byte after the token
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Error:
		return fmt.Sprintf("ERROR %q", t.Text)
	case ClassName:
		return fmt.Sprintf("%s @%s", t.Kind, t.Text)
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Is is true if t is a keyword with text kw.
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && t.Text == kw
}

// Word returns the text of keywords and glyph names, which some statements
// accept interchangeably (table tags, lookup names). For other tokens it
// returns the empty string.
func (t Token) Word() string {
	if t.Kind == Keyword || t.Kind == Glyph {
		return t.Text
	}
	return ""
}

// LexError is a lexical error: an invalid character or an unterminated literal.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("feature file syntax: lexical error at %s: %s", e.Pos, e.Msg)
}
