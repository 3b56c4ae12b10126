/*
Package otfea is for reading and subsetting OpenType feature files.

Feature files describe the layout features of an OpenType font: glyph
substitutions (GSUB) and glyph positioning (GPOS), organized by script and
language system. Package otfea offers convenience functions on top of package
fea, which does the actual work:

▪︎ ParseFile reads a feature file from disk.

▪︎ SubsetSource subsets feature file source for a script and language, given
as OpenType tags or as ISO 15924 script codes and BCP 47 language tags.

▪︎ GlyphSetFromFont and GlyphSetForText compute glyph sets from the glyph
names of a font, to restrict a feature file to the glyphs a font (or a text)
actually needs.

# Links

Feature file syntax:
https://adobe-type-tools.github.io/afdko/OpenTypeFeatureFileSpecification.html

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otfea

import (
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/internal/fontload"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.fea'
func tracer() tracing.Trace {
	return tracing.Select("font.fea")
}

// GlyphSetFromFont loads an OpenType font (TTF or OTF) and returns the set of
// its glyph names. The font has to carry glyph names, i.e., a 'post' table of
// version 2 or a CFF table.
func GlyphSetFromFont(fontfile string) (fea.GlyphSet, error) {
	f, err := fontload.LoadOpenTypeFont(fontfile)
	if err != nil {
		return nil, err
	}
	names, err := f.GlyphNames()
	if err != nil {
		return nil, err
	}
	tracer().Infof("font %s has %d named glyphs", f.Fontname, len(names))
	return fea.NewGlyphSet(names...), nil
}

// GlyphSetForText loads an OpenType font and returns the names of the glyphs
// the font maps the characters of text to.
//
// Ligatures, alternates and other glyphs not mapped from characters directly
// are not included; the result is intended to be extended with the glyphs
// of the substitutions of interest.
func GlyphSetForText(fontfile string, text string) (fea.GlyphSet, error) {
	f, err := fontload.LoadOpenTypeFont(fontfile)
	if err != nil {
		return nil, err
	}
	names, err := f.GlyphNamesForText(text)
	if err != nil {
		return nil, err
	}
	return fea.NewGlyphSet(names...), nil
}
