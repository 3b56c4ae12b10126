package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	latinFea   = "../fea/testdata/latin.fea"
	scriptsFea = "../fea/testdata/scripts.fea"
)

func run(t *testing.T, intp *Intp, line string) error {
	cmd, err := parseCommand(line)
	require.NoError(t, err)
	err, _ = intp.execute(cmd)
	return err
}

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	cmd, err := parseCommand("script:Latn  lang:TRK subset write:out.fea")
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{code: SCRIPT, arg: "Latn"},
		{code: LANG, arg: "TRK"},
		{code: SUBSET},
		{code: WRITE, arg: "out.fea"},
	}, cmd.op)
	cmd, err = parseCommand("FONT:fonts/x.otf:fi reset:x quit subset")
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{code: FONT, arg: "fonts/x.otf", opt: "fi"},
		{code: RESET},
		{code: QUIT},
	}, cmd.op)
	_, err = parseCommand("features bogus")
	assert.Error(t, err)
}

func TestSubsetSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	assert.Equal(t, "()", intp.String())
	require.NoError(t, run(t, intp, "load:"+scriptsFea+" script:cyrl lang:SRB subset"))
	assert.Equal(t, "( file="+scriptsFea+" target=cyrl/SRB subset )", intp.String())
	assert.Equal(t, `languagesystem DFLT dflt;
languagesystem cyrl dflt;
languagesystem cyrl SRB;

feature liga {
  sub f i by f_i;
  sub be by be.SRB;
} liga;

lookup LOCL_GREK {
  sub [alpha beta] by [alpha.locl beta.locl];
} LOCL_GREK;

feature ss01 {
  lookup LOCL_GREK;
} ss01;
`, intp.feature.Write())
	//
	require.NoError(t, run(t, intp, "glyphs:f,i,f_i subset"))
	assert.Equal(t, "( file="+scriptsFea+" target=cyrl/SRB glyphs=3 subset )", intp.String())
	assert.Len(t, intp.feature.Blocks(), 1)
	//
	require.NoError(t, run(t, intp, "reset"))
	assert.Same(t, intp.source, intp.feature)
	assert.Equal(t, ot.DFLT, intp.script)
	assert.Equal(t, ot.DFLTLang, intp.lang)
	assert.Nil(t, intp.glyphs)
}

func TestScriptOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, run(t, intp, "script:Latn lang:tr"))
	assert.Equal(t, ot.T("latn"), intp.script)
	assert.Equal(t, ot.T("TRK"), intp.lang)
	require.NoError(t, run(t, intp, "script:grek"))
	assert.Equal(t, ot.DFLTLang, intp.lang, "script resets the language")
	assert.Error(t, run(t, intp, "script:toolong"))
}

func TestGlyphsOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, run(t, intp, "glyphs:a,b"))
	assert.Equal(t, fea.NewGlyphSet("a", "b"), intp.glyphs)
	assert.Equal(t, []string{"a", "b"}, sortedGlyphs(intp.glyphs))
	require.NoError(t, run(t, intp, "glyphs:-"))
	assert.Nil(t, intp.glyphs)
}

func TestNoFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	for _, line := range []string{"features", "classes", "lookups", "scripts", "subset", "write"} {
		assert.ErrorIs(t, run(t, intp, line), errNoFeatures, line)
	}
	assert.Error(t, run(t, intp, "load:"+filepath.Join(t.TempDir(), "missing.fea")))
	assert.Error(t, run(t, intp, "load"))
}

func TestLookupErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, run(t, intp, "load:"+latinFea))
	require.NoError(t, run(t, intp, "features:liga classes:@lc lookups:DOTLESS"))
	assert.Error(t, run(t, intp, "features:ss20"))
	assert.Error(t, run(t, intp, "classes:nope"))
	assert.Error(t, run(t, intp, "lookups:NOPE"))
}

func TestWriteOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	out := filepath.Join(t.TempDir(), "latn.fea")
	require.NoError(t, run(t, intp, "load:"+scriptsFea+" script:latn subset write:"+out))
	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, intp.feature.Write(), string(src))
	f, err := fea.Parse(string(src))
	require.NoError(t, err)
	assert.Equal(t, []ot.Tag{ot.DFLT, ot.T("latn")}, f.Scripts())
}

func TestFeatureTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, intp.loadFeatures(latinFea))
	assert.Equal(t, [][]string{
		{"Feature", "Scripts", "Rules", "Lookups"},
		{"aalt", "DFLT", "0", "-"},
		{"smcp", "DFLT", "0", "SMALLCAPS"},
		{"onum", "DFLT", "1", "-"},
		{"liga", "DFLT latn", "4", "-"},
		{"calt", "DFLT", "2", "-"},
		{"mark", "DFLT", "1", "-"},
		{"kern", "DFLT", "3", "-"},
	}, featureTable(intp.feature))
}

func TestClassTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	f, err := fea.Parse("@lc = [a - f]; @long = [a - k]; @sc = [@lc A];")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Class", "Size", "Members"},
		{"@lc", "6", "a b c d e f"},
		{"@long", "11", "a b c d e f g h …"},
		{"@sc", "7", "a b c d e f A"},
	}, classTable(f))
}

func TestLookupTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.tools")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, intp.loadFeatures(scriptsFea))
	assert.Equal(t, [][]string{
		{"Lookup", "Feature", "Scope", "Rules"},
		{"LOCL_TRK", "locl", "latn/TRK", "1"},
		{"LOCL_GREK", "locl", "grek/dflt", "1"},
	}, lookupTable(intp.feature))
}
