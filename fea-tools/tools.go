package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'otfea.tools'
func tracer() tracing.Trace {
	return tracing.Select("otfea.tools")
}

func main() {
	setupTracing()

	commando.
		SetExecutableName("fea-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for checking and subsetting OpenType feature files.")

	commando.
		Register("subset").
		SetDescription("Restrict a feature file to one or more scripts and languages and an optional set of glyphs.").
		SetShortDescription("subset a feature file").
		AddArgument("file", "feature file path", "").
		AddFlag("script,s", "scripts (OpenType tags or ISO 15924, e.g. latn, Latn, DFLT; comma separated)", commando.String, "DFLT").
		AddFlag("lang,l", "languages (OpenType tags or BCP 47, e.g. TRK, tr; comma separated); dflt selects all languages", commando.String, "dflt").
		AddFlag("glyphs,g", "glyph names to keep (comma/space separated)", commando.String, "-").
		AddFlag("font,f", "keep the glyphs of an OpenType font", commando.String, "-").
		AddFlag("text,t", "with --font: keep only the glyphs the font maps this text to", commando.String, "-").
		AddFlag("output,o", "output file (- for stdout)", commando.String, "-").
		AddFlag("indent,i", "number of spaces per indentation level", commando.Int, 2).
		AddFlag("tabs", "indent with tabs", commando.Bool, nil).
		AddFlag("comments,c", "keep comments", commando.Bool, nil).
		AddFlag("body,b", "write feature block bodies only", commando.Bool, nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runSubsetCommand)

	commando.
		Register("check").
		SetDescription("Parse feature files and print a summary or the syntax errors.").
		SetShortDescription("check feature files").
		AddArgument("files...", "feature file paths", "").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runCheckCommand)

	commando.
		Register("scripts").
		SetDescription("Print the language systems of a feature file and the features provided per script.").
		SetShortDescription("list scripts").
		AddArgument("file", "feature file path", "").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runScriptsCommand)

	commando.Parse(nil)
}

// setupTracing routes tracing to the Go standard logger. Tracing is quiet
// unless a command is run with --verbose.
func setupTracing() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace.font.fea":    "Error",
		"trace.otfea.tools": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func setVerbosity(flags map[string]commando.FlagValue) {
	if mustFlagBool(flags["verbose"], "verbose") {
		tracing.Select("font.fea").SetTraceLevel(tracing.LevelInfo)
		tracer().SetTraceLevel(tracing.LevelInfo)
	}
}

func splitCSVSpace(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// mustFlagString returns the value of a string flag, with "-" meaning unset.
func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	if s = strings.TrimSpace(s); s == "-" {
		return ""
	}
	return s
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "fea-tools: "+format+"\n", args...)
	os.Exit(1)
}
