package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otfea/fea"
	"github.com/pterm/pterm"
)

// maxMembers is the number of class members shown in tables.
const maxMembers = 8

func renderTable(data [][]string) {
	if len(data) <= 1 {
		pterm.Println("(none)")
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

// featureTable has a row per feature block.
func featureTable(f *fea.Feature) [][]string {
	data := [][]string{
		{"Feature", "Scripts", "Rules", "Lookups"},
	}
	for _, b := range f.Blocks() {
		var scripts, lookups []string
		rules := 0
		for _, st := range b.Statements {
			switch s := st.(type) {
			case *fea.ScriptStatement, *fea.LanguageStatement, *fea.Comment:
				continue
			case *fea.LookupBlock:
				lookups = appendNew(lookups, s.Name)
				rules += countRules(s.Statements)
			case *fea.LookupReference:
				lookups = appendNew(lookups, s.Name)
			case fea.Rule:
				rules++
			}
			scripts = appendNew(scripts, st.Scope().Script.Trimmed())
		}
		data = append(data, []string{
			b.Tag.Trimmed(),
			strings.Join(scripts, " "),
			fmt.Sprintf("%d", rules),
			dashIfEmpty(strings.Join(lookups, " ")),
		})
	}
	return data
}

// classTable has a row per named glyph class at file scope.
func classTable(f *fea.Feature) [][]string {
	data := [][]string{
		{"Class", "Size", "Members"},
	}
	for _, c := range f.Classes() {
		members := c.Members
		more := ""
		if len(members) > maxMembers {
			members, more = members[:maxMembers], " …"
		}
		data = append(data, []string{
			"@" + c.Name,
			fmt.Sprintf("%d", len(c.Members)),
			strings.Join(members, " ") + more,
		})
	}
	return data
}

// lookupTable has a row per named lookup, with the feature it is defined in,
// if any.
func lookupTable(f *fea.Feature) [][]string {
	data := [][]string{
		{"Lookup", "Feature", "Scope", "Rules"},
	}
	row := func(lb *fea.LookupBlock, feature string) []string {
		return []string{lb.Name, feature, lb.Scope().String(), fmt.Sprintf("%d", countRules(lb.Statements))}
	}
	for _, item := range f.Items {
		switch it := item.(type) {
		case *fea.LookupBlock:
			data = append(data, row(it, "-"))
		case *fea.FeatureBlock:
			for _, st := range it.Statements {
				if lb, ok := st.(*fea.LookupBlock); ok {
					data = append(data, row(lb, it.Tag.Trimmed()))
				}
			}
		}
	}
	return data
}

func countRules(sts []fea.Statement) int {
	n := 0
	for _, st := range sts {
		if _, ok := st.(fea.Rule); ok {
			n++
		}
	}
	return n
}

func appendNew(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
