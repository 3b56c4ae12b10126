package fea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// GlyphClass is an ordered set of glyph names. Named classes are defined by
// `@name = [ … ];`, inline classes appear in brackets within rules.
type GlyphClass struct {
	Name    string      // empty for inline classes
	Items   []ClassItem // source form of the class
	Members []string    // resolved glyph names, without duplicates, in source order
	Origin  string      // for classes derived by subsetting: name of the original class
}

// ClassItem is an entry of a class definition: a glyph, a glyph range or a
// reference to another class.
type ClassItem struct {
	Glyph    string
	RangeEnd string      // last glyph of a range `Glyph - RangeEnd`
	Class    *GlyphClass // referenced named class
}

// IsInline is true for anonymous classes.
func (c *GlyphClass) IsInline() bool {
	return c.Name == ""
}

// Contains is true if glyph is a member of c.
func (c *GlyphClass) Contains(glyph string) bool {
	for _, g := range c.Members {
		if g == glyph {
			return true
		}
	}
	return false
}

func (c *GlyphClass) String() string {
	if c.Name != "" {
		return "@" + c.Name
	}
	return "[" + strings.Join(c.Members, " ") + "]"
}

// newClass creates a class from items, resolving ranges and class references.
func newClass(name string, items []ClassItem) (*GlyphClass, error) {
	set := linkedhashset.New()
	for _, item := range items {
		switch {
		case item.Class != nil:
			for _, g := range item.Class.Members {
				set.Add(g)
			}
		case item.RangeEnd != "":
			glyphs, err := expandRange(item.Glyph, item.RangeEnd)
			if err != nil {
				return nil, err
			}
			for _, g := range glyphs {
				set.Add(g)
			}
		default:
			set.Add(item.Glyph)
		}
	}
	return &GlyphClass{Name: name, Items: items, Members: setMembers(set)}, nil
}

// classFromGlyphs creates a class from a flat list of glyph names.
func classFromGlyphs(name, origin string, glyphs []string) *GlyphClass {
	set := linkedhashset.New()
	items := make([]ClassItem, 0, len(glyphs))
	for _, g := range glyphs {
		if !set.Contains(g) {
			set.Add(g)
			items = append(items, ClassItem{Glyph: g})
		}
	}
	return &GlyphClass{Name: name, Items: items, Members: setMembers(set), Origin: origin}
}

func setMembers(set *linkedhashset.Set) []string {
	members := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		members = append(members, v.(string))
	}
	return members
}

// expandRange enumerates the glyphs of a range `first - last`. Accepted are
// ranges of CIDs (`\100 - \120`), ranges where the names differ in a single
// letter (`a - z`, `A.sc - Z.sc`), and ranges where the names differ in a run
// of digits (`cid00010 - cid00020`, `a.001 - a.012`).
func expandRange(first, last string) ([]string, error) {
	if strings.HasPrefix(first, `\`) && strings.HasPrefix(last, `\`) {
		from, err1 := strconv.Atoi(first[1:])
		to, err2 := strconv.Atoi(last[1:])
		if err1 != nil || err2 != nil || from > to {
			return nil, rangeError(first, last)
		}
		glyphs := make([]string, 0, to-from+1)
		for cid := from; cid <= to; cid++ {
			glyphs = append(glyphs, `\`+strconv.Itoa(cid))
		}
		return glyphs, nil
	}
	if len(first) != len(last) || first == last {
		return nil, rangeError(first, last)
	}
	i := 0 // first differing position
	for first[i] == last[i] {
		i++
	}
	j := len(first) - 1 // last differing position
	for first[j] == last[j] {
		j--
	}
	if i == j && isRangeLetter(first[i], last[i]) {
		glyphs := make([]string, 0, int(last[i]-first[i])+1)
		for c := first[i]; c <= last[i]; c++ {
			glyphs = append(glyphs, first[:i]+string(c)+first[i+1:])
		}
		return glyphs, nil
	}
	for i > 0 && isDigit(first[i-1]) {
		i--
	}
	for j < len(first)-1 && isDigit(first[j+1]) {
		j++
	}
	digitsA, digitsB := first[i:j+1], last[i:j+1]
	from, err1 := strconv.Atoi(digitsA)
	to, err2 := strconv.Atoi(digitsB)
	if !allDigits(digitsA) || !allDigits(digitsB) || err1 != nil || err2 != nil || from > to {
		return nil, rangeError(first, last)
	}
	width := len(digitsA)
	glyphs := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		glyphs = append(glyphs, fmt.Sprintf("%s%0*d%s", first[:i], width, n, first[j+1:]))
	}
	return glyphs, nil
}

func rangeError(first, last string) error {
	return fmt.Errorf("invalid glyph range %s - %s", first, last)
}

func isRangeLetter(a, b byte) bool {
	return a < b && ((a >= 'a' && b <= 'z') || (a >= 'A' && b <= 'Z'))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// --- Sequences -------------------------------------------------------------

// Element is a position within a rule's glyph sequence: either a single
// glyph or a glyph class.
type Element struct {
	Glyph   string
	Class   *GlyphClass
	Marked  bool     // element is followed by ' in the source
	Lookups []string // lookups applied at this position (contextual rules)
}

// IsClass is true if e is a glyph class.
func (e Element) IsClass() bool {
	return e.Class != nil
}

// Members returns the glyphs e stands for.
func (e Element) Members() []string {
	if e.Class != nil {
		return e.Class.Members
	}
	return []string{e.Glyph}
}

func (e Element) String() string {
	if e.Class != nil {
		return e.Class.String()
	}
	return e.Glyph
}

// Sequence is a sequence of glyphs and glyph classes.
type Sequence []Element

// Glyphs returns all glyphs referenced by s.
func (s Sequence) Glyphs() []string {
	var glyphs []string
	for _, e := range s {
		glyphs = append(glyphs, e.Members()...)
	}
	return glyphs
}

// --- Glyph sets ------------------------------------------------------------

// GlyphSet is a set of glyph names. A nil GlyphSet disables glyph filtering
// when subsetting.
type GlyphSet map[string]struct{}

// NewGlyphSet creates a glyph set from a list of glyph names.
func NewGlyphSet(glyphs ...string) GlyphSet {
	gs := make(GlyphSet, len(glyphs))
	for _, g := range glyphs {
		gs[g] = struct{}{}
	}
	return gs
}

// Contains is true if glyph is in gs. Every glyph is contained in a nil set.
func (gs GlyphSet) Contains(glyph string) bool {
	if gs == nil {
		return true
	}
	_, ok := gs[glyph]
	return ok
}

// --- Class scopes ----------------------------------------------------------

// classScope is a table of named classes. Scopes are nested: file, feature
// block, lookup block.
type classScope struct {
	parent  *classScope
	classes map[string]*GlyphClass
}

func (s *classScope) push() *classScope {
	return &classScope{parent: s, classes: map[string]*GlyphClass{}}
}

func (s *classScope) define(c *GlyphClass) {
	s.classes[c.Name] = c
}

func (s *classScope) lookup(name string) *GlyphClass {
	for sc := s; sc != nil; sc = sc.parent {
		if c, ok := sc.classes[name]; ok {
			return c
		}
	}
	return nil
}
