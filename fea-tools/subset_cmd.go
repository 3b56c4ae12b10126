package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/otfea"
	"github.com/npillmayer/otfea/fea"
	"github.com/thatisuday/commando"
)

// subsetRequest collects the arguments of the subset command.
type subsetRequest struct {
	path     string
	script   string
	lang     string
	glyphs   string // glyph names, comma/space separated
	font     string
	text     string
	indent   string
	comments bool
	body     bool // omit the enclosing feature block lines
}

func runSubsetCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setVerbosity(flags)
	path := strings.TrimSpace(args["file"].Value)
	if path == "" {
		fatalf("feature file path is required")
	}
	indent := strings.Repeat(" ", max(0, mustFlagInt(flags["indent"], "indent")))
	if mustFlagBool(flags["tabs"], "tabs") {
		indent = "\t"
	}
	req := subsetRequest{
		path:     path,
		script:   mustFlagString(flags["script"], "script"),
		lang:     mustFlagString(flags["lang"], "lang"),
		glyphs:   mustFlagString(flags["glyphs"], "glyphs"),
		font:     mustFlagString(flags["font"], "font"),
		text:     mustFlagString(flags["text"], "text"),
		indent:   indent,
		comments: mustFlagBool(flags["comments"], "comments"),
		body:     mustFlagBool(flags["body"], "body"),
	}
	out, err := subsetFile(req)
	if err != nil {
		fatalf("%v", err)
	}
	output := mustFlagString(flags["output"], "output")
	if output == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
		fatalf("cannot write %s: %v", output, err)
	}
	tracer().Infof("wrote %s", output)
}

// subsetFile parses a feature file and returns the source of its subset.
func subsetFile(req subsetRequest) (string, error) {
	targets, err := requestedTargets(req)
	if err != nil {
		return "", err
	}
	glyphs, err := requestedGlyphs(req)
	if err != nil {
		return "", err
	}
	var opts []fea.ParseOption
	if req.comments {
		opts = append(opts, fea.KeepComments)
	}
	f, err := otfea.ParseFile(req.path, opts...)
	if err != nil {
		return "", err
	}
	tracer().Infof("subsetting %s for %v", req.path, targets)
	wopts := []fea.WriteOption{fea.WithIndent(req.indent)}
	if req.body {
		wopts = append(wopts, fea.BodyOnly())
	}
	return f.SubsetAll(targets, glyphs).Write(wopts...), nil
}

// requestedTargets resolves the language systems to subset for. Several
// scripts or languages may be given, comma/space separated; every script is
// combined with every language.
func requestedTargets(req subsetRequest) ([]fea.LangSys, error) {
	scripts, langs := splitCSVSpace(req.script), splitCSVSpace(req.lang)
	if len(scripts) == 0 {
		scripts = []string{""}
	}
	if len(langs) == 0 {
		langs = []string{""}
	}
	var targets []fea.LangSys
	for _, s := range scripts {
		for _, l := range langs {
			script, lang, err := otfea.ResolveLangSys(s, l)
			if err != nil {
				return nil, err
			}
			targets = append(targets, fea.LangSys{Script: script, Lang: lang})
		}
	}
	return targets, nil
}

// requestedGlyphs is the union of the glyphs given by name and the glyphs
// taken from a font. It is nil if neither is given, which disables glyph
// filtering.
func requestedGlyphs(req subsetRequest) (fea.GlyphSet, error) {
	if req.text != "" && req.font == "" {
		return nil, errors.New("--text requires --font")
	}
	var glyphs fea.GlyphSet
	if names := splitCSVSpace(req.glyphs); len(names) > 0 {
		glyphs = fea.NewGlyphSet(names...)
	}
	if req.font == "" {
		return glyphs, nil
	}
	var fromFont fea.GlyphSet
	var err error
	if req.text != "" {
		fromFont, err = otfea.GlyphSetForText(req.font, req.text)
	} else {
		fromFont, err = otfea.GlyphSetFromFont(req.font)
	}
	if err != nil {
		return nil, err
	}
	if glyphs == nil {
		return fromFont, nil
	}
	for g := range fromFont {
		glyphs[g] = struct{}{}
	}
	return glyphs, nil
}
