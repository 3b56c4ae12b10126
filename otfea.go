package otfea

import (
	"fmt"
	"os"

	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
)

// ParseFile reads and parses a feature file. Syntax errors are wrapped into
// an error carrying the file name; use errors.As to retrieve the
// *fea.ParseError (or one of the other error types of fea.Parse).
//
// Include statements are not followed.
func ParseFile(path string, opts ...fea.ParseOption) (*fea.Feature, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := fea.Parse(string(src), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Debugf("parsed feature file %s", path)
	return f, nil
}

// SubsetSource parses feature file source and returns the source of its
// subset for script, language and glyphs (see fea.Feature.Subset).
//
// Script may be an OpenType script tag ("latn", "DFLT") or an ISO 15924 code
// ("Latn"). Language may be an OpenType language system tag ("TRK", "dflt")
// or a BCP 47 language ("tr"). An empty language selects all languages of
// the script.
func SubsetSource(src, script, language string, glyphs fea.GlyphSet) (string, error) {
	scr, lang, err := ResolveLangSys(script, language)
	if err != nil {
		return "", err
	}
	f, err := fea.Parse(src)
	if err != nil {
		return "", err
	}
	return f.Subset(scr, lang, glyphs).Write(), nil
}

// ResolveLangSys interprets a script and a language as given by users and
// returns the corresponding OpenType tags.
func ResolveLangSys(script, language string) (ot.Tag, ot.Tag, error) {
	scr, err := ot.ResolveScript(script)
	if err != nil {
		return 0, 0, err
	}
	lang, err := ot.ResolveLanguage(language)
	if err != nil {
		return 0, 0, err
	}
	return scr, lang, nil
}
