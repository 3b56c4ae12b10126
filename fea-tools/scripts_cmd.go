package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/npillmayer/otfea"
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/thatisuday/commando"
)

func runScriptsCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setVerbosity(flags)
	path := strings.TrimSpace(args["file"].Value)
	if path == "" {
		fatalf("feature file path is required")
	}
	f, err := otfea.ParseFile(path)
	if err != nil {
		fatalf("%v", err)
	}
	printScripts(os.Stdout, f)
}

// printScripts prints the language systems of f, followed by a line per
// script listing the features with statements declared for the script.
func printScripts(w io.Writer, f *fea.Feature) {
	for _, ls := range f.LanguageSystems() {
		fmt.Fprintf(w, "languagesystem %s %s\n", ls.Script.Trimmed(), ls.Lang.Trimmed())
	}
	scripts := f.Scripts()
	features := map[ot.Tag][]string{}
	for _, b := range f.Blocks() {
		tag := b.Tag.Trimmed()
		for _, st := range b.Statements {
			if !isEffective(st) {
				continue
			}
			script := st.Scope().Script
			if slices.Contains(features[script], tag) {
				continue
			}
			if !slices.Contains(scripts, script) {
				scripts = append(scripts, script)
			}
			features[script] = append(features[script], tag)
		}
	}
	for _, script := range scripts {
		if len(features[script]) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", script.Trimmed(), strings.Join(features[script], " "))
	}
}

// isEffective is false for statements which do not contribute to a feature
// by themselves.
func isEffective(st fea.Statement) bool {
	switch st.(type) {
	case *fea.ScriptStatement, *fea.LanguageStatement, *fea.ClassDefinition,
		*fea.MarkClassDefinition, *fea.Comment:
		return false
	}
	return true
}
