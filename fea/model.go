package fea

import (
	"fmt"

	"github.com/npillmayer/otfea/ot"
)

// --- Language systems ------------------------------------------------------

// LangSys is a pair of script and language system tags.
type LangSys struct {
	Script ot.Tag
	Lang   ot.Tag
}

// Wildcard is the language system of statements outside of any script or
// language scope: (DFLT, dflt).
var Wildcard = LangSys{Script: ot.DFLT, Lang: ot.DFLTLang}

func (ls LangSys) String() string {
	return fmt.Sprintf("%s/%s", ls.Script.Trimmed(), ls.Lang.Trimmed())
}

// IsWildcard is true for (DFLT, dflt).
func (ls LangSys) IsWildcard() bool {
	return ls == Wildcard
}

// Scoped is embedded by all statements. It carries the language system active
// at the point of declaration.
type Scoped struct {
	LS LangSys
}

// Scope returns the language system a statement has been declared for.
func (s Scoped) Scope() LangSys {
	return s.LS
}

// --- Statements ------------------------------------------------------------

// Statement is an entry of a feature block or lookup block. The set of
// statement types is closed; clients switch on the concrete type:
//
//	*ScriptStatement, *LanguageStatement, *LookupReference, *LookupBlock,
//	*ClassDefinition, *MarkClassDefinition, *FeatureReference, *Opaque,
//	*Comment and every Rule.
type Statement interface {
	Scope() LangSys
	isStatement()
}

// TopLevel is an item at file scope. The set of top-level types is closed:
//
//	*LanguageSystem, *ClassDefinition, *MarkClassDefinition, *LookupBlock,
//	*FeatureBlock, *Opaque, *Comment
type TopLevel interface {
	isTopLevel()
}

// LanguageSystem is a `languagesystem` statement.
type LanguageSystem struct {
	Scoped
}

// FeatureBlock is a `feature xxxx { … } xxxx;` block. A feature tag may occur
// in more than one block.
type FeatureBlock struct {
	Tag          ot.Tag
	UseExtension bool
	Statements   []Statement
}

// ScriptStatement switches the script for subsequent statements of a block.
// This resets the language to dflt.
type ScriptStatement struct {
	Scoped
	Tag ot.Tag
}

// LanguageStatement switches the language for subsequent statements of a block.
type LanguageStatement struct {
	Scoped
	Tag            ot.Tag
	ExcludeDefault bool // exclude_dflt
	IncludeDefault bool // include_dflt
	Required       bool
}

// LookupBlock is a named group of rules. At file scope it is a definition
// only, within a feature block it is registered for the block's language
// system at the point of definition as well.
type LookupBlock struct {
	Scoped
	Name         string
	UseExtension bool
	Statements   []Statement
}

// LookupReference is a `lookup NAME;` statement within a feature block.
type LookupReference struct {
	Scoped
	Name string
}

// FeatureReference is a `feature xxxx;` statement, used within 'aalt'.
type FeatureReference struct {
	Scoped
	Tag ot.Tag
}

// ClassDefinition is a named glyph class definition `@name = [ … ];`.
type ClassDefinition struct {
	Scoped
	Class *GlyphClass
}

// MarkClassDefinition is a `markClass <glyphs> <anchor …> @NAME;` statement.
// Multiple definitions for the same name contribute to the same mark class.
type MarkClassDefinition struct {
	Scoped
	Glyphs Element
	Anchor []Fragment // the anchor, verbatim
	Name   string
}

// Opaque is a statement not interpreted beyond its boundaries and kept as a
// span of fragments, including the leading keyword and the final semicolon.
// Keyword is the statement's first token, e.g. "lookupflag" or "table".
type Opaque struct {
	Scoped
	Keyword string
	Span    []Fragment
}

// Comment is a comment line, present only when parsing with KeepComments.
type Comment struct {
	Scoped
	Text string
}

// Fragment is a token of an opaque or positioning span.
// Lead holds the whitespace preceding the token in the source. Fragments
// referring to glyphs, glyph classes, mark classes or lookups are flagged as
// such, as the subsetter has to inspect them.
type Fragment struct {
	Lead   string
	Text   string
	Glyph  bool        // Text is a glyph name
	Class  *GlyphClass // glyph class, named reference or inline
	Mark   string      // name of a referenced mark class
	Lookup string      // name of a referenced lookup
}

func (*LanguageSystem) isTopLevel()      {}
func (*ClassDefinition) isTopLevel()     {}
func (*MarkClassDefinition) isTopLevel() {}
func (*LookupBlock) isTopLevel()         {}
func (*FeatureBlock) isTopLevel()        {}
func (*Opaque) isTopLevel()              {}
func (*Comment) isTopLevel()             {}

func (*ScriptStatement) isStatement()     {}
func (*LanguageStatement) isStatement()   {}
func (*LookupBlock) isStatement()         {}
func (*LookupReference) isStatement()     {}
func (*FeatureReference) isStatement()    {}
func (*ClassDefinition) isStatement()     {}
func (*MarkClassDefinition) isStatement() {}
func (*Opaque) isStatement()              {}
func (*Comment) isStatement()             {}

// --- Feature ---------------------------------------------------------------

// Feature is the model of a feature file. It is the result of Parse and
// Subset, and must not be modified by clients.
type Feature struct {
	Items []TopLevel

	classes []*GlyphClass // named top-level classes, in order of definition
	lookups []*LookupBlock
}

// NewFeature creates a Feature from top-level items, e.g. to write a single
// block of another Feature. Items are shared, not copied.
func NewFeature(items ...TopLevel) *Feature {
	return newFeature(items)
}

func newFeature(items []TopLevel) *Feature {
	f := &Feature{Items: items}
	for _, item := range items {
		switch it := item.(type) {
		case *ClassDefinition:
			f.classes = append(f.classes, it.Class)
		case *LookupBlock:
			f.lookups = append(f.lookups, it)
		case *FeatureBlock:
			for _, st := range it.Statements {
				if lb, ok := st.(*LookupBlock); ok {
					f.lookups = append(f.lookups, lb)
				}
			}
		}
	}
	return f
}

// LanguageSystems returns the `languagesystem` statements of f.
func (f *Feature) LanguageSystems() []LangSys {
	var lss []LangSys
	for _, item := range f.Items {
		if ls, ok := item.(*LanguageSystem); ok {
			lss = append(lss, ls.LS)
		}
	}
	return lss
}

// Blocks returns the feature blocks of f in source order.
func (f *Feature) Blocks() []*FeatureBlock {
	var blocks []*FeatureBlock
	for _, item := range f.Items {
		if b, ok := item.(*FeatureBlock); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Classes returns the named glyph classes defined at file scope.
func (f *Feature) Classes() []*GlyphClass {
	return f.classes
}

// Class returns the file-scope glyph class called name, or nil. If a class
// is defined more than once, the last definition wins.
func (f *Feature) Class(name string) *GlyphClass {
	for i := len(f.classes) - 1; i >= 0; i-- {
		if f.classes[i].Name == name {
			return f.classes[i]
		}
	}
	return nil
}

// Lookups returns all named lookups, at file scope and within feature blocks.
func (f *Feature) Lookups() []*LookupBlock {
	return f.lookups
}

// Lookup returns the lookup called name, or nil.
func (f *Feature) Lookup(name string) *LookupBlock {
	for _, lb := range f.lookups {
		if lb.Name == name {
			return lb
		}
	}
	return nil
}

// Scripts returns the script tags f provides rules for: the scripts of its
// language systems and script statements, in order of appearance.
func (f *Feature) Scripts() []ot.Tag {
	var scripts []ot.Tag
	seen := map[ot.Tag]bool{}
	add := func(t ot.Tag) {
		if !seen[t] {
			seen[t] = true
			scripts = append(scripts, t)
		}
	}
	for _, item := range f.Items {
		switch it := item.(type) {
		case *LanguageSystem:
			add(it.LS.Script)
		case *FeatureBlock:
			for _, st := range it.Statements {
				if s, ok := st.(*ScriptStatement); ok {
					add(s.Tag)
				}
			}
		}
	}
	return scripts
}

// Glyphs returns the names of all glyphs referenced by f.
func (f *Feature) Glyphs() GlyphSet {
	gs := GlyphSet{}
	var collect func(sts []Statement)
	add := func(names []string) {
		for _, g := range names {
			gs[g] = struct{}{}
		}
	}
	collect = func(sts []Statement) {
		for _, st := range sts {
			switch s := st.(type) {
			case Rule:
				add(s.Glyphs())
			case *ClassDefinition:
				add(s.Class.Members)
			case *MarkClassDefinition:
				add(s.Glyphs.Members())
			case *Opaque:
				add(spanGlyphs(s.Span))
			case *LookupBlock:
				collect(s.Statements)
			}
		}
	}
	for _, item := range f.Items {
		switch it := item.(type) {
		case *ClassDefinition:
			add(it.Class.Members)
		case *MarkClassDefinition:
			add(it.Glyphs.Members())
		case *Opaque:
			add(spanGlyphs(it.Span))
		case *LookupBlock:
			collect(it.Statements)
		case *FeatureBlock:
			collect(it.Statements)
		}
	}
	return gs
}

// spanGlyphs returns the glyphs referenced by fragments.
func spanGlyphs(span []Fragment) []string {
	var glyphs []string
	for _, frag := range span {
		switch {
		case frag.Glyph:
			glyphs = append(glyphs, frag.Text)
		case frag.Class != nil:
			glyphs = append(glyphs, frag.Class.Members...)
		}
	}
	return glyphs
}
