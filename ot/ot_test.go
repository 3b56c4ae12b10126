package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	if T("lao") != MakeTag([]byte("lao")) {
		t.Errorf("expected T and MakeTag to pad 'lao' identically")
	}
	if T("lao").String() != "lao " {
		t.Errorf("expected tag 'lao' to be padded with a space, is %q", T("lao").String())
	}
	if T("lao").Trimmed() != "lao" {
		t.Errorf("expected trimmed tag to be 'lao', is %q", T("lao").Trimmed())
	}
	if T("DFLT") != DFLT || T("dflt") != DFLTLang {
		t.Errorf("wildcard tag constants do not match their strings")
	}
}

func TestNormalization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	//
	cases := []struct {
		in       string
		script   string
		language string
	}{
		{"latn", "latn", "LATN"},
		{"Latn", "latn", "LATN"},
		{"dflt", "DFLT", "dflt"},
		{"DFLT", "DFLT", "dflt"},
		{"trk", "trk ", "TRK "},
		{"", "DFLT", "dflt"},
	}
	for _, c := range cases {
		if s := ScriptTag(c.in).String(); s != c.script {
			t.Errorf("ScriptTag(%q) = %q, want %q", c.in, s, c.script)
		}
		if l := LanguageTag(c.in).String(); l != c.language {
			t.Errorf("LanguageTag(%q) = %q, want %q", c.in, l, c.language)
		}
	}
	if NormalizeScript(0) != DFLT {
		t.Errorf("expected zero script tag to normalize to DFLT")
	}
	if NormalizeLanguage(0) != DFLTLang {
		t.Errorf("expected zero language tag to normalize to dflt")
	}
}

// --- Test Suite Preparation ------------------------------------------------

type LangSysTestEnviron struct {
	suite.Suite
}

// listen for 'go test' command --> run test methods
func TestLangSysFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.fea")
	defer teardown()
	suite.Run(t, new(LangSysTestEnviron))
}

// --- Tests -----------------------------------------------------------------

func (env *LangSysTestEnviron) TestLanguageTagForLanguage() {
	langs := []struct {
		in  string
		out string
	}{
		{"DE", "DEU"},
		{"DE_de", "DEU"},
		{"DE_ch", "DEU"},
		{"EN_us", "ENG"},
		{"tr", "TRK"},
		{"mr", "MAR"},
	}
	for _, pair := range langs {
		tag := LanguageTagForLanguage(language.Make(pair.in), language.High)
		env.Equal(T(pair.out).String(), tag.String(), "expected language match %s", pair.out)
	}
}

func (env *LangSysTestEnviron) TestScriptTagForScript() {
	scripts := []struct {
		in  string
		out string
	}{
		{"Latn", "latn"},
		{"Grek", "grek"},
		{"Deva", "deva"},
		{"Laoo", "lao "},
		{"Hira", "kana"},
	}
	for _, pair := range scripts {
		tag := ScriptTagForScript(language.MustParseScript(pair.in))
		env.Equal(pair.out, tag.String(), "expected script match for %s", pair.in)
	}
}

func (env *LangSysTestEnviron) TestResolveScript() {
	inputs := map[string]string{
		"latn": "latn",
		"Latn": "latn",
		"dev2": "dev2",
		"Laoo": "lao ",
		"lao":  "lao ",
		"dflt": "DFLT",
		"":     "DFLT",
	}
	for in, out := range inputs {
		tag, err := ResolveScript(in)
		env.Require().NoError(err, "script %q", in)
		env.Equal(out, tag.String(), "resolving script %q", in)
	}
	_, err := ResolveScript("latin")
	env.Error(err, "expected overlong script tag to be rejected")
}

func (env *LangSysTestEnviron) TestResolveLanguage() {
	inputs := map[string]string{
		"TRK":   "TRK ",
		"MAR":   "MAR ",
		"tr":    "TRK ",
		"de-CH": "DEU ",
		"dflt":  "dflt",
		"":      "dflt",
	}
	for in, out := range inputs {
		tag, err := ResolveLanguage(in)
		env.Require().NoError(err, "language %q", in)
		env.Equal(out, tag.String(), "resolving language %q", in)
	}
}
