package otfea

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	f, err := ParseFile("fea/testdata/latin.fea")
	require.NoError(t, err)
	assert.Len(t, f.Blocks(), 7)
	//
	path := filepath.Join(t.TempDir(), "broken.fea")
	require.NoError(t, os.WriteFile(path, []byte("feature liga { sub a by b; } calt;"), 0o644))
	_, err = ParseFile(path)
	var perr *fea.ParseError
	require.True(t, errors.As(err, &perr), "expected a syntax error, got %v", err)
	assert.Contains(t, err.Error(), "broken.fea")
	assert.Equal(t, 1, perr.Pos.Line)
	//
	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.fea"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSubsetSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	src := "feature xxxx {\n  script latn;\n  sub a by b;\n  script grek;\n  sub x by z;\n} xxxx;\n"
	out, err := SubsetSource(src, "Latn", "", fea.NewGlyphSet("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "feature xxxx {\n  sub a by b;\n} xxxx;\n", out)
	out, err = SubsetSource(src, "grek", "dflt", nil)
	require.NoError(t, err)
	assert.Equal(t, "feature xxxx {\n  sub x by z;\n} xxxx;\n", out)
	//
	_, err = SubsetSource(src, "toolong", "", nil)
	assert.Error(t, err)
	_, err = SubsetSource("feature xxxx {", "latn", "", nil)
	assert.Error(t, err)
}

func TestResolveLangSys(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	script, lang, err := ResolveLangSys("Latn", "tr")
	require.NoError(t, err)
	assert.Equal(t, ot.T("latn"), script)
	assert.Equal(t, ot.T("TRK"), lang)
	script, lang, err = ResolveLangSys("", "")
	require.NoError(t, err)
	assert.Equal(t, ot.DFLT, script)
	assert.Equal(t, ot.DFLTLang, lang)
}

func TestGlyphSetFromFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	glyphs, err := GlyphSetFromFont(path)
	require.NoError(t, err)
	assert.True(t, glyphs.Contains("A"))
	assert.False(t, glyphs.Contains("f_f_i.swash"))
	//
	glyphs, err = GlyphSetForText(path, "fi")
	require.NoError(t, err)
	assert.Equal(t, fea.NewGlyphSet("f", "i"), glyphs)
	out, err := SubsetSource("feature liga {\n  sub f i by f_i;\n  sub f by f.alt;\n} liga;\n",
		"latn", "", glyphs)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
