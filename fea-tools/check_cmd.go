package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/otfea"
	"github.com/thatisuday/commando"
)

func runCheckCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setVerbosity(flags)
	paths := splitCSVSpace(args["files"].Value)
	if len(paths) == 0 {
		fatalf("feature file path is required")
	}
	if failed := checkFiles(os.Stdout, paths); failed > 0 {
		fatalf("%d of %d files failed", failed, len(paths))
	}
}

// checkFiles parses feature files and prints a line per file, either a
// summary or the error. It returns the number of files failing to parse.
func checkFiles(w io.Writer, paths []string) (failed int) {
	for _, path := range paths {
		f, err := otfea.ParseFile(path)
		if err != nil {
			failed++
			// ParseFile errors carry the path already
			msg := err.Error()
			if !strings.HasPrefix(msg, path) {
				msg = path + ": " + msg
			}
			fmt.Fprintln(w, msg)
			continue
		}
		fmt.Fprintf(w, "%s: ok, %d language systems, %d feature blocks, %d classes, %d lookups, %d glyphs\n",
			path, len(f.LanguageSystems()), len(f.Blocks()), len(f.Classes()), len(f.Lookups()), len(f.Glyphs()))
	}
	return
}
