package fea

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/npillmayer/otfea/fealex"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `feature xxxx {
  script latn;
  sub a by b;
  script grek;
  sub x by z;
} xxxx;
`

func loadFea(t *testing.T, name string) string {
	t.Helper()
	src, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("cannot read test feature file %s: %v", name, err)
	}
	return string(src)
}

func mustParse(t *testing.T, src string, opts ...ParseOption) *Feature {
	t.Helper()
	f, err := Parse(src, opts...)
	require.NoError(t, err)
	require.NotNil(t, f)
	return f
}

func typeNames(sts []Statement) []string {
	names := make([]string, len(sts))
	for i, st := range sts {
		names[i] = fmt.Sprintf("%T", st)
	}
	return names
}

func TestParseScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, scenario)
	blocks := f.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, ot.T("xxxx"), blocks[0].Tag)
	sts := blocks[0].Statements
	require.Equal(t, []string{"*fea.ScriptStatement", "*fea.SingleSub",
		"*fea.ScriptStatement", "*fea.SingleSub"}, typeNames(sts))
	latn := LangSys{Script: ot.T("latn"), Lang: ot.DFLTLang}
	grek := LangSys{Script: ot.T("grek"), Lang: ot.DFLTLang}
	assert.Equal(t, latn, sts[1].Scope())
	assert.Equal(t, grek, sts[3].Scope())
	sub := sts[1].(*SingleSub)
	assert.Equal(t, "a", sub.In.Glyph)
	assert.Equal(t, "b", sub.Out.Glyph)
	assert.Equal(t, []ot.Tag{ot.T("latn"), ot.T("grek")}, f.Scripts())
}

func TestParseLanguageScopes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `
languagesystem DFLT dflt;
languagesystem Latn trk;
feature liga {
  sub a by b;
  script latn;
  language TRK;
  sub c by d;
  language deu required;
  sub e by f;
  script grek;
  sub g by h;
} liga;
`)
	assert.Equal(t, []LangSys{Wildcard, {Script: ot.T("latn"), Lang: ot.T("TRK ")}}, f.LanguageSystems())
	var scopes []string
	for _, st := range f.Blocks()[0].Statements {
		if _, ok := st.(Rule); ok {
			scopes = append(scopes, st.Scope().String())
		}
	}
	assert.Equal(t, []string{"DFLT/dflt", "latn/TRK", "latn/DEU", "grek/dflt"}, scopes)
	lang := f.Blocks()[0].Statements[4].(*LanguageStatement)
	assert.Equal(t, ot.T("DEU "), lang.Tag)
	assert.True(t, lang.Required)
	assert.False(t, lang.ExcludeDefault)
}

func TestParseClasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `
@lc = [a - c];
@all = [@lc x a];
@num = [one.001 - one.003];
@cid = [\100 - \102];
feature test {
  @local = [y z];
  sub @local by [Y Z];
} test;
@lc = [a b];
`)
	require.Len(t, f.Classes(), 5)
	assert.Equal(t, []string{"a", "b", "c", "x"}, f.Class("all").Members)
	assert.Equal(t, []string{"one.001", "one.002", "one.003"}, f.Class("num").Members)
	assert.Equal(t, []string{`\100`, `\101`, `\102`}, f.Class("cid").Members)
	assert.Equal(t, []string{"a", "b"}, f.Class("lc").Members, "expected last definition to win")
	assert.Nil(t, f.Class("local"), "expected feature scoped class to be invisible at file scope")
	sub := f.Blocks()[0].Statements[1].(*SingleSub)
	assert.Equal(t, "local", sub.In.Class.Name)
	assert.True(t, sub.Out.Class.IsInline())
	assert.Equal(t, []string{"Y", "Z"}, sub.Out.Class.Members)
	//
	_, err := Parse(`feature a { @local = [y]; } a; feature b { sub @local by x; } b;`)
	var unresolved *UnresolvedClassError
	require.True(t, errors.As(err, &unresolved), "expected unresolved class error, got %v", err)
	assert.Equal(t, "local", unresolved.Name)
	assert.False(t, unresolved.Self)
}

func TestParseRuleKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `
lookup L1 { sub a by b; } L1;
feature test {
  sub a by b;
  sub a by b c;
  sub a by NULL;
  sub a from [a.1 a.2];
  sub f i by f_i;
  sub x a' lookup L1 y;
  sub x a' y by b;
  rsub x a' by b;
  ignore sub x a', a' y;
  pos a b -10;
  enum pos a [b c] -10;
  substitute \sub by \by;
} test;
`)
	sts := f.Blocks()[0].Statements
	assert.Equal(t, []string{"*fea.SingleSub", "*fea.MultipleSub", "*fea.MultipleSub",
		"*fea.AlternateSub", "*fea.LigatureSub", "*fea.ChainSub", "*fea.SingleSub",
		"*fea.ReverseChainSub", "*fea.IgnoreSub", "*fea.Positioning", "*fea.Positioning",
		"*fea.SingleSub"}, typeNames(sts))
	assert.Len(t, sts[1].(*MultipleSub).Out, 2)
	assert.Empty(t, sts[2].(*MultipleSub).Out)
	assert.Equal(t, []string{"a.1", "a.2"}, sts[3].(*AlternateSub).Alternates.Members)
	chain := sts[5].(*ChainSub)
	assert.Equal(t, "x", chain.Backtrack[0].Glyph)
	assert.Equal(t, "y", chain.Lookahead[0].Glyph)
	assert.Equal(t, []string{"L1"}, chain.LookupNames())
	ctx := sts[6].(*SingleSub)
	assert.Equal(t, []string{"x", "y", "a", "b"}, ctx.Glyphs())
	assert.Len(t, sts[8].(*IgnoreSub).Patterns, 2)
	assert.Equal(t, []string{"a", "b"}, sts[9].(Rule).Glyphs())
	assert.Equal(t, []string{"a", "b", "c"}, sts[10].(Rule).Glyphs())
	assert.Equal(t, "enum", sts[10].(*Positioning).Keyword)
	escaped := sts[11].(*SingleSub)
	assert.Equal(t, "sub", escaped.In.Glyph)
	assert.Equal(t, "by", escaped.Out.Glyph)
}

func TestParseLookups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `
lookup OUTER useExtension { sub a by b; } OUTER;
feature test {
  script latn;
  lookup INNER { sub c by d; } INNER;
  lookup OUTER;
} test;
`)
	require.Len(t, f.Lookups(), 2)
	assert.True(t, f.Lookup("OUTER").UseExtension)
	inner := f.Lookup("INNER")
	require.NotNil(t, inner)
	assert.Equal(t, LangSys{Script: ot.T("latn"), Lang: ot.DFLTLang}, inner.Scope())
	ref := f.Blocks()[0].Statements[2].(*LookupReference)
	assert.Equal(t, "OUTER", ref.Name)
	assert.Nil(t, f.Lookup("NONE"))
}

func TestParseOpaque(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, `
@base = [a b];
markClass [acute] <anchor 0 500> @TOP;
include(other.fea)
table GDEF {
  GlyphClassDef @base, , @TOP, ;
} GDEF;
feature kern {
  lookupflag IgnoreMarks;
  pos base @base <anchor 250 450> mark @TOP;
} kern;
`)
	require.Len(t, f.Items, 5)
	include := f.Items[2].(*Opaque)
	assert.Equal(t, "include", include.Keyword)
	assert.Equal(t, "other.fea", include.Span[2].Text)
	gdef := f.Items[3].(*Opaque)
	assert.Equal(t, "table", gdef.Keyword)
	var classes, marks int
	for _, frag := range gdef.Span {
		if frag.Class != nil {
			classes++
		}
		if frag.Mark != "" {
			marks++
		}
	}
	assert.Equal(t, 1, classes)
	assert.Equal(t, 1, marks)
	sts := f.Blocks()[0].Statements
	assert.Equal(t, "lookupflag", sts[0].(*Opaque).Keyword)
	assert.Equal(t, []string{"a", "b"}, sts[1].(Rule).Glyphs())
}

func TestParseComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	src := "# head\nfeature liga {\n  # inside\n  sub f i by f_i; # trailing\n} liga;\n"
	f := mustParse(t, src)
	require.Len(t, f.Items, 1)
	assert.Len(t, f.Blocks()[0].Statements, 1)
	f = mustParse(t, src, KeepComments)
	require.Len(t, f.Items, 2)
	assert.Equal(t, "# head", f.Items[0].(*Comment).Text)
	assert.Equal(t, []string{"*fea.Comment", "*fea.LigatureSub", "*fea.Comment"},
		typeNames(f.Blocks()[0].Statements))
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	syntax := []string{
		"feature liga { sub a by b; } calt;",
		"feature liga { lookup FOO; } liga;",
		"feature liga { sub a b by c d; } liga;",
		"feature liga { sub [a b] by [c]; } liga;",
		"feature liga { sub a by [b c]; } liga;",
		"feature liga { sub a by b } liga;",
		"feature liga { sub a by b;",
		"feature liga { sub a' b c' by d; } liga;",
		"feature liga { sub a by b c'; } liga;",
		"feature liga { rsub a b by c; } liga;",
		"feature liga { ignore sub a b; } liga;",
		"feature toolong { sub a by b; } toolong;",
		"sub a by b;",
		"lookup L { script latn; } L;",
		"lookup L { sub a by b; } M;",
		"lookup L { sub a by b; } L; lookup L { sub c by d; } L;",
		"lookup L;",
		"@a = [a - B];",
		"markClass [acute] <anchor 0 500 @TOP;",
	}
	for _, src := range syntax {
		f, err := Parse(src)
		assert.Nil(t, f)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), "expected syntax error for %q, got %v", src, err)
	}
	_, err := Parse("@a = [@a x];")
	var unresolved *UnresolvedClassError
	require.True(t, errors.As(err, &unresolved))
	assert.True(t, unresolved.Self)
	assert.Contains(t, err.Error(), "references itself")
	//
	_, err = Parse("feature liga {\n  sub a $ by b;\n} liga;")
	var lexerr *fealex.LexError
	require.True(t, errors.As(err, &lexerr), "expected lexical error, got %v", err)
	assert.Equal(t, 2, lexerr.Pos.Line)
	assert.Equal(t, 9, lexerr.Pos.Column)
}

func TestParseErrorPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	_, err := Parse("feature liga {\n  sub a by b\n} liga;")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Equal(t, 1, perr.Pos.Column)
	assert.Equal(t, "';'", perr.Expected)
	assert.Contains(t, err.Error(), "3:1")
}

func TestParseFixtures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f := mustParse(t, loadFea(t, "latin.fea"))
	assert.Len(t, f.LanguageSystems(), 3)
	assert.Len(t, f.Classes(), 4)
	assert.Len(t, f.Lookups(), 2)
	assert.Len(t, f.Blocks(), 7)
	glyphs := f.Glyphs()
	for _, g := range []string{"a", "f.sc", "f_f_i", "dotlessi", "acute", "V", "T"} {
		assert.True(t, glyphs.Contains(g), "expected glyph %s to be referenced", g)
	}
	assert.False(t, glyphs.Contains("GDEF"))
	//
	f = mustParse(t, loadFea(t, "scripts.fea"))
	assert.Equal(t, []ot.Tag{ot.DFLT, ot.T("latn"), ot.T("grek"), ot.T("cyrl")}, f.Scripts())
	assert.Len(t, f.Lookups(), 2)
	assert.Len(t, f.Classes(), 0)
}

func TestInvariant(t *testing.T) {
	assert.NotPanics(t, func() { invariant(true, "unreachable") })
	assert.PanicsWithValue(t, "fea: internal error: bad item 3", func() { invariant(false, "bad item %d", 3) })
}
