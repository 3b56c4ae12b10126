package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "subset":
		pterm.Info.Println("Subsetting")
		pterm.Println(`
	subset restricts the loaded feature file to the current target:
	+----------------+-----------------------------------------------+
	| script:<tag>   | script, OpenType tag or ISO 15924 (latn Latn) |
	| lang:<tag>     | language, OpenType tag or BCP 47 (TRK tr)     |
	| glyphs:<a,b,c> | glyph filter from a list, glyphs:- removes it |
	| font:<file>    | glyph filter from the glyph names of a font   |
	+----------------+-----------------------------------------------+
	Statements for the script or DFLT are kept. lang:dflt keeps every
	language of the script; any other language keeps the statements for
	the language and for dflt. Rules with glyphs outside the glyph filter
	are dropped, lookups and feature blocks left empty are dropped as well.

	The subset replaces the current model, reset returns to the file as loaded.
	`)
	case "script", "scripts", "lang", "langsys", "language":
		pterm.Info.Println("Language systems")
		pterm.Println(`
	Statements of a feature block apply to the language system set by the
	most recent script and language statements of the block:
	+-----------------------+-------------------+
	| (start of block)      | DFLT dflt         |
	| script latn;          | latn dflt         |
	| language TRK;         | latn TRK          |
	+-----------------------+-------------------+
	A language statement includes the dflt rules of the script, unless
	followed by exclude_dflt.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load:<file>          load a feature file
	features[:<tag>]     list feature blocks or print the blocks for a tag
	scripts              list language systems and scripts
	classes[:<name>]     list glyph classes or print a class
	lookups[:<name>]     list named lookups or print a lookup
	script:<tag>         set the script of the subset target
	lang:<tag>           set the language of the subset target
	glyphs[:<a,b,c>]     show or set the glyph filter
	font:<file>[:<text>] set the glyph filter from a font
	subset               subset for the current target
	write[:<file>]       print or save the current model
	reset                return to the file as loaded
	help[:<topic>]       help on subset, scripts
	quit                 leave (or <ctrl>D)

	Commands may be chained on a line, e.g. "script:latn lang:TRK subset write".
	`)
	}
}
