package fealex

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []Kind {
	k := make([]Kind, len(tokens))
	for i, t := range tokens {
		k[i] = t.Kind
	}
	return k
}

func texts(tokens []Token) []string {
	s := make([]string, len(tokens))
	for i, t := range tokens {
		s[i] = t.Text
	}
	return s
}

func TestLexFeatureBlock(t *testing.T) {
	tokens, err := Lex("feature liga { sub f i by f_i; } liga;")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Keyword, Glyph, LBrace, Keyword, Glyph, Glyph, Keyword, Glyph,
		Semicolon, RBrace, Glyph, Semicolon}, kinds(tokens))
	assert.Equal(t, []string{"feature", "liga", "{", "sub", "f", "i", "by", "f_i",
		";", "}", "liga", ";"}, texts(tokens))
	assert.True(t, tokens[3].Is("sub"))
	assert.False(t, tokens[4].Is("sub"))
}

func TestLexPositions(t *testing.T) {
	tokens, err := Lex("a\n  @cls;")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 3}, tokens[1].Pos)
	assert.Equal(t, ClassName, tokens[1].Kind)
	assert.Equal(t, "cls", tokens[1].Text)
	assert.Equal(t, 8, tokens[1].End)
	assert.Equal(t, "2:7", tokens[2].Pos.String())
}

func TestLexNumbers(t *testing.T) {
	tokens, err := Lex("pos a -80; 0x1F 1.5 12")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Keyword, Glyph, Number, Semicolon, Number, Number, Number}, kinds(tokens))
	assert.Equal(t, []string{"pos", "a", "-80", ";", "0x1F", "1.5", "12"}, texts(tokens))
}

func TestLexRanges(t *testing.T) {
	tokens, err := Lex("[a - z] [a-z] [\\100-\\120]")
	require.NoError(t, err)
	assert.Equal(t, []Kind{LBracket, Glyph, Hyphen, Glyph, RBracket,
		LBracket, Glyph, RBracket,
		LBracket, Glyph, Hyphen, Glyph, RBracket}, kinds(tokens))
	assert.Equal(t, "a-z", tokens[6].Text)
	assert.Equal(t, `\100`, tokens[9].Text)
	assert.Equal(t, `\120`, tokens[11].Text)
}

func TestLexEscapes(t *testing.T) {
	tokens, err := Lex(`sub \sub by \by;`)
	require.NoError(t, err)
	assert.Equal(t, []Kind{Keyword, Glyph, Keyword, Glyph, Semicolon}, kinds(tokens))
	assert.Equal(t, "sub", tokens[1].Text)
	assert.Equal(t, "by", tokens[3].Text)
}

func TestLexKeywordCase(t *testing.T) {
	tokens, err := Lex("lookupflag IgnoreMarks ignoremarks;")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Keyword, Keyword, Glyph, Semicolon}, kinds(tokens))
	assert.True(t, IsKeyword("markClass"))
	assert.False(t, IsKeyword("markclass"))
}

func TestLexInclude(t *testing.T) {
	tokens, err := Lex("include( ../features/kern.fea );\nsub a by b;")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Keyword, LParen, Path, RParen, Semicolon,
		Keyword, Glyph, Keyword, Glyph, Semicolon}, kinds(tokens))
	assert.Equal(t, "../features/kern.fea", tokens[2].Text)
}

func TestLexCommentsAndStrings(t *testing.T) {
	tokens, err := Lex("sizemenuname \"Grüße\"; # comment\ntable OS/2 { } OS/2;")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Keyword, String, Semicolon, Comment,
		Keyword, Glyph, LBrace, RBrace, Glyph, Semicolon}, kinds(tokens))
	assert.Equal(t, `"Grüße"`, tokens[1].Text)
	assert.Equal(t, "# comment", tokens[3].Text)
	assert.Equal(t, "OS/2", tokens[5].Text)
	// columns count characters, not bytes
	assert.Equal(t, 21, tokens[2].Pos.Column)
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		line int
		col  int
	}{
		{"sub a by \"b;", 1, 10},
		{"sub a\n $ b;", 2, 2},
		{"@ x", 1, 1},
		{"sub \\; ", 1, 5},
	}
	for _, c := range cases {
		_, err := Lex(c.src)
		var lexerr *LexError
		require.ErrorAs(t, err, &lexerr, "source %q", c.src)
		assert.Equal(t, c.line, lexerr.Pos.Line, "source %q", c.src)
		assert.Equal(t, c.col, lexerr.Pos.Column, "source %q", c.src)
	}
}

func TestLexerStopsAfterError(t *testing.T) {
	l := New("a $ b")
	assert.Equal(t, Glyph, l.Next().Kind)
	assert.Equal(t, Error, l.Next().Kind)
	assert.Equal(t, EOF, l.Next().Kind)
	assert.Equal(t, EOF, l.Next().Kind)
}

func TestAllIsRestartable(t *testing.T) {
	l := New("script latn; language TRK;")
	l.Next()
	l.Next()
	first := slices.Collect(l.All())
	second := slices.Collect(l.All())
	assert.Len(t, first, 6)
	assert.Equal(t, first, second)
	var n int
	for range l.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
