package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/npillmayer/otfea"
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/pterm/pterm"
)

var errNoFeatures = errors.New("no feature file loaded")

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// resetOp discards a subset and the subset target.
func resetOp(intp *Intp, op *Op) (error, bool) {
	intp.feature = intp.source
	intp.script, intp.lang, intp.glyphs = ot.DFLT, ot.DFLTLang, nil
	return nil, false
}

func loadOp(intp *Intp, op *Op) (error, bool) {
	path, ok := op.hasArg()
	if !ok {
		return errors.New("usage: load:<feature file>"), false
	}
	return intp.loadFeatures(path), false
}

func (intp *Intp) loadFeatures(path string) error {
	f, err := otfea.ParseFile(path)
	if err != nil {
		return err
	}
	intp.path, intp.source, intp.feature = path, f, f
	pterm.Printf("%d feature blocks, %d classes, %d lookups\n",
		len(f.Blocks()), len(f.Classes()), len(f.Lookups()))
	return nil
}

func (intp *Intp) checkFeatures() error {
	if intp.feature == nil {
		return errNoFeatures
	}
	return nil
}

func featuresOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFeatures(); err != nil {
		return
	}
	if tag, ok := op.hasArg(); ok {
		blocks := featureBlocks(intp.feature, ot.T(tag))
		if len(blocks) == 0 {
			return fmt.Errorf("no feature block for '%s'", tag), false
		}
		for _, b := range blocks {
			pterm.Print(fea.NewFeature(b).Write())
		}
		return
	}
	renderTable(featureTable(intp.feature))
	return
}

func scriptsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFeatures(); err != nil {
		return
	}
	lss := intp.feature.LanguageSystems()
	langs := make([]string, len(lss))
	for i, ls := range lss {
		langs[i] = ls.String()
	}
	pterm.Printf("Language systems: %s\n", strings.Join(langs, " "))
	scripts := intp.feature.Scripts()
	tags := make([]string, len(scripts))
	for i, s := range scripts {
		tags[i] = s.Trimmed()
	}
	pterm.Printf("Scripts: %s\n", strings.Join(tags, " "))
	return
}

func classesOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFeatures(); err != nil {
		return
	}
	if name, ok := op.hasArg(); ok {
		c := intp.feature.Class(strings.TrimPrefix(name, "@"))
		if c == nil {
			return fmt.Errorf("no glyph class @%s", strings.TrimPrefix(name, "@")), false
		}
		pterm.Printf("@%s = [%s]\n", c.Name, strings.Join(c.Members, " "))
		return
	}
	renderTable(classTable(intp.feature))
	return
}

func lookupsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFeatures(); err != nil {
		return
	}
	if name, ok := op.hasArg(); ok {
		lb := intp.feature.Lookup(name)
		if lb == nil {
			return fmt.Errorf("no lookup %s", name), false
		}
		pterm.Print(fea.NewFeature(lb).Write())
		return
	}
	renderTable(lookupTable(intp.feature))
	return
}

func scriptOp(intp *Intp, op *Op) (err error, stop bool) {
	if op.noArg() {
		pterm.Printf("script = %s\n", intp.script.Trimmed())
		return
	}
	var script ot.Tag
	if script, err = ot.ResolveScript(op.arg); err != nil {
		return
	}
	intp.script = script
	intp.lang = ot.DFLTLang
	return
}

func langOp(intp *Intp, op *Op) (err error, stop bool) {
	if op.noArg() {
		pterm.Printf("lang = %s\n", intp.lang.Trimmed())
		return
	}
	var lang ot.Tag
	if lang, err = ot.ResolveLanguage(op.arg); err != nil {
		return
	}
	intp.lang = lang
	return
}

// glyphsOp sets the glyph filter from a comma separated list, "glyphs:-"
// removes it.
func glyphsOp(intp *Intp, op *Op) (err error, stop bool) {
	switch op.arg {
	case "":
		if intp.glyphs == nil {
			pterm.Println("no glyph filter")
			return
		}
		pterm.Printf("%d glyphs: %s\n", len(intp.glyphs), strings.Join(sortedGlyphs(intp.glyphs), " "))
	case "-":
		intp.glyphs = nil
	default:
		intp.glyphs = fea.NewGlyphSet(strings.Split(op.arg, ",")...)
	}
	return
}

// fontOp sets the glyph filter from the glyph names of a font, or from the
// glyphs the font maps a text to.
func fontOp(intp *Intp, op *Op) (err error, stop bool) {
	path, ok := op.hasArg()
	if !ok {
		return errors.New("usage: font:<font file>[:<text>]"), false
	}
	return intp.loadGlyphs(path, op.opt), false
}

func (intp *Intp) loadGlyphs(fontfile, text string) (err error) {
	var glyphs fea.GlyphSet
	if text == "" {
		glyphs, err = otfea.GlyphSetFromFont(fontfile)
	} else {
		glyphs, err = otfea.GlyphSetForText(fontfile, text)
	}
	if err != nil {
		return err
	}
	intp.glyphs = glyphs
	pterm.Printf("glyph filter with %d glyphs\n", len(glyphs))
	return nil
}

// subsetOp subsets the loaded feature file for the current target. The
// result replaces the current model until the next reset.
func subsetOp(intp *Intp, op *Op) (err error, stop bool) {
	if intp.source == nil {
		return errNoFeatures, false
	}
	intp.feature = intp.source.Subset(intp.script, intp.lang, intp.glyphs)
	pterm.Printf("subset for %s/%s: %d of %d feature blocks, %d of %d lookups\n",
		intp.script.Trimmed(), intp.lang.Trimmed(),
		len(intp.feature.Blocks()), len(intp.source.Blocks()),
		len(intp.feature.Lookups()), len(intp.source.Lookups()))
	return
}

// writeOp prints the current model as feature file source, or writes it to
// a file given as argument.
func writeOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFeatures(); err != nil {
		return
	}
	src := intp.feature.Write()
	if path, ok := op.hasArg(); ok {
		if err = os.WriteFile(path, []byte(src), 0o644); err == nil {
			pterm.Printf("wrote %s\n", path)
		}
		return
	}
	pterm.Print(src)
	return
}

func featureBlocks(f *fea.Feature, tag ot.Tag) []*fea.FeatureBlock {
	var blocks []*fea.FeatureBlock
	for _, b := range f.Blocks() {
		if b.Tag == tag {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func sortedGlyphs(glyphs fea.GlyphSet) []string {
	names := make([]string, 0, len(glyphs))
	for g := range glyphs {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}
