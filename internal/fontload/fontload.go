// Package fontload loads OpenType fonts and extracts glyph names from them.
// Glyph names link a font to the glyph names used by its feature files.
package fontload

import (
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'font.fea'
func tracer() tracing.Trace {
	return tracing.Select("font.fea")
}

// ErrNoGlyphNames is returned for fonts without glyph names, e.g., fonts with
// a version 3 'post' table.
var ErrNoGlyphNames = errors.New("font does not contain glyph names")

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontfile, err)
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err == nil {
		tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	}
	return f, nil
}

// GlyphNames returns the names of all glyphs of f, in glyph ID order.
// Glyphs without a name are skipped.
func (f *ScalableFont) GlyphNames() ([]string, error) {
	var buf sfnt.Buffer
	n := f.SFNT.NumGlyphs()
	names := make([]string, 0, n)
	for gid := 0; gid < n; gid++ {
		name, err := f.SFNT.GlyphName(&buf, sfnt.GlyphIndex(gid))
		if err != nil {
			return nil, fmt.Errorf("glyph name of glyph %d: %w", gid, err)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoGlyphNames
	}
	tracer().Debugf("font %s: %d glyph names for %d glyphs", f.Fontname, len(names), n)
	return names, nil
}

// GlyphNamesForText returns the names of the glyphs the font's cmap maps the
// characters of text to, each name once. Characters not covered by the font
// are ignored.
func (f *ScalableFont) GlyphNamesForText(text string) ([]string, error) {
	var buf sfnt.Buffer
	var names []string
	seen := map[sfnt.GlyphIndex]bool{}
	for _, r := range text {
		gid, err := f.SFNT.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index of %q: %w", r, err)
		}
		if gid == 0 || seen[gid] {
			continue
		}
		seen[gid] = true
		name, err := f.SFNT.GlyphName(&buf, gid)
		if err != nil {
			return nil, fmt.Errorf("glyph name of glyph %d: %w", gid, err)
		}
		if name == "" {
			return nil, ErrNoGlyphNames
		}
		names = append(names, name)
	}
	return names, nil
}
