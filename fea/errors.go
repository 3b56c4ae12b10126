package fea

import (
	"fmt"

	"github.com/npillmayer/otfea/fealex"
)

// ParseError is a syntax error in a feature file.
type ParseError struct {
	Pos      fealex.Position
	Expected string // description of what the parser expected, if any
	Found    string // the offending token
	Msg      string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Msg != "" && e.Found != "":
		return fmt.Sprintf("feature file syntax: %s: %s, found %s", e.Pos, e.Msg, e.Found)
	case e.Msg != "":
		return fmt.Sprintf("feature file syntax: %s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("feature file syntax: %s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// UnresolvedClassError is reported for references to glyph classes which are
// not defined in a visible scope, or which are referenced from within their own
// definition.
type UnresolvedClassError struct {
	Pos  fealex.Position
	Name string
	Self bool // reference from within the definition of the class
}

// Error implements the error interface.
func (e *UnresolvedClassError) Error() string {
	if e.Self {
		return fmt.Sprintf("feature file syntax: %s: glyph class @%s references itself", e.Pos, e.Name)
	}
	return fmt.Sprintf("feature file syntax: %s: undefined glyph class @%s", e.Pos, e.Name)
}
