package fea

import (
	"slices"
	"strconv"
	"strings"

	"github.com/npillmayer/otfea/ot"
)

// Subset derives a new Feature, restricted to a script, a language and a set
// of glyphs. f is not modified.
//
// Statements match the target if their script is either script or DFLT and,
// for a language other than dflt (or the zero tag), if their language is
// either lang or dflt. With lang being dflt or zero, statements of every
// language of the script are retained.
//
// If glyphs is non-nil, rules referencing glyphs not in glyphs are dropped.
// Glyph classes are reduced to their intersection with glyphs instead; a
// reduced named class @X is re-defined as @X_subset. Rules with glyph
// classes becoming empty are dropped.
//
// Feature blocks and lookups without remaining rules are dropped, together
// with all references to them.
//
// Script statements and language statements of the source are not
// carried over. If lang is the wildcard, statements for a specific language
// are preceded by generated `script`/`language` statements, switching to the
// language of the statement. For a specific language no such statements are
// generated.
func (f *Feature) Subset(script, lang ot.Tag, glyphs GlyphSet) *Feature {
	return f.SubsetAll([]LangSys{{Script: script, Lang: lang}}, glyphs)
}

// SubsetAll derives a new Feature for a number of language systems at once.
// A statement is retained if it matches any of the targets, with the matching
// rule of Subset. A nil or empty list of targets retains the statements of all
// language systems, leaving glyph filtering only.
//
// For a single target, SubsetAll is the same as Subset. For more than one
// target, every retained statement is written within its source language
// system: `script` and `language` statements are generated as needed.
func (f *Feature) SubsetAll(targets []LangSys, glyphs GlyphSet) *Feature {
	s := newSubsetter(f, targets, glyphs)
	items := s.run(f)
	out := newFeature(items)
	tracer().Infof("subset for %s: %d of %d feature blocks, %d of %d lookups",
		s.target(), len(out.Blocks()), len(f.Blocks()), len(out.lookups), len(f.lookups))
	return out
}

// subsetter holds the state of a single call to SubsetAll.
type subsetter struct {
	targets []LangSys
	single  bool // exactly one target
	anyLang bool // with single: the target's language is the wildcard
	glyphs  GlyphSet

	classes    map[*GlyphClass]*GlyphClass // memo of reduced classes, nil for empty ones
	names      map[string]bool             // class names in use
	global     map[*GlyphClass]bool        // output classes defined at file scope
	marks      map[string]int              // count of remaining definitions per mark class
	lookupDefs map[string]*LookupBlock     // reduced lookups, nil for dropped ones
	emitted    map[string]bool             // lookups present in the output
	pending    []TopLevel                  // lookups to insert before the current top-level item
}

func newSubsetter(f *Feature, targets []LangSys, glyphs GlyphSet) *subsetter {
	s := &subsetter{
		glyphs:     glyphs,
		classes:    map[*GlyphClass]*GlyphClass{},
		names:      map[string]bool{},
		global:     map[*GlyphClass]bool{},
		marks:      map[string]int{},
		lookupDefs: map[string]*LookupBlock{},
		emitted:    map[string]bool{},
	}
	for _, t := range targets {
		t = LangSys{Script: ot.NormalizeScript(t.Script), Lang: ot.NormalizeLanguage(t.Lang)}
		if !slices.Contains(s.targets, t) {
			s.targets = append(s.targets, t)
		}
	}
	s.single = len(s.targets) == 1
	s.anyLang = s.single && s.targets[0].Lang == ot.DFLTLang
	for _, name := range classNames(f) {
		s.names[name] = true
	}
	return s
}

func (s *subsetter) target() string {
	if len(s.targets) == 0 {
		return "all language systems"
	}
	parts := make([]string, len(s.targets))
	for i, t := range s.targets {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// matches is the script and language filter.
func (s *subsetter) matches(ls LangSys) bool {
	if len(s.targets) == 0 {
		return true
	}
	for _, t := range s.targets {
		if ls.Script != t.Script && ls.Script != ot.DFLT {
			continue
		}
		if t.Lang == ot.DFLTLang || ls.Lang == t.Lang || ls.Lang == ot.DFLTLang {
			return true
		}
	}
	return false
}

func (s *subsetter) run(f *Feature) []TopLevel {
	var items []TopLevel
	for _, item := range f.Items {
		var out TopLevel
		switch it := item.(type) {
		case *LanguageSystem:
			if s.matches(it.LS) {
				out = it
			}
		case *ClassDefinition:
			if def := s.classDefinition(it); def != nil {
				s.global[def.Class] = true
				out = def
			}
		case *MarkClassDefinition:
			if def := s.markClassDefinition(it); def != nil {
				out = def
			}
		case *LookupBlock:
			if lb := s.lookupDefinition(it); lb != nil {
				s.requireLookups(lb.Statements)
				s.emitted[lb.Name] = true
				out = lb
			}
		case *FeatureBlock:
			if fb := s.featureBlock(it); fb != nil {
				out = fb
			}
		case *Opaque:
			out = s.opaque(it)
		case *Comment:
			out = it
		default:
			invariant(false, "unknown top-level item %T", item)
		}
		items = append(items, s.pending...)
		s.pending = s.pending[:0]
		if out != nil {
			items = append(items, out)
		}
	}
	return pruneFeatureReferences(f, items)
}

// --- Blocks ----------------------------------------------------------------

// header tracks the language system of the output within a feature block.
type header struct {
	ls     LangSys                      // current language system of the output, for multiple targets
	script bool                         // a script statement has been generated
	lang   ot.Tag                       // current language of the output
	source map[ot.Tag]*LanguageStatement // latest source statement per language
}

func (s *subsetter) featureBlock(b *FeatureBlock) *FeatureBlock {
	out := &FeatureBlock{Tag: b.Tag, UseExtension: b.UseExtension}
	h := header{ls: Wildcard, lang: ot.DFLTLang, source: map[ot.Tag]*LanguageStatement{}}
	add := func(st Statement) {
		out.Statements = append(s.switchLanguage(out.Statements, st.Scope(), &h), st)
	}
	for _, st := range b.Statements {
		switch x := st.(type) {
		case *ScriptStatement:
		case *LanguageStatement:
			h.source[x.Tag] = x
		case *ClassDefinition:
			if def := s.classDefinition(x); def != nil {
				out.Statements = append(out.Statements, def)
			}
		case *MarkClassDefinition:
			if def := s.markClassDefinition(x); def != nil {
				out.Statements = append(out.Statements, def)
			}
		case *Opaque:
			out.Statements = append(out.Statements, s.opaque(x))
		case *Comment:
			out.Statements = append(out.Statements, x)
		case *LookupBlock:
			lb := s.lookupDefinition(x)
			if lb == nil || !s.matches(x.LS) {
				continue
			}
			s.requireLookups(lb.Statements)
			s.emitted[lb.Name] = true
			add(lb)
		case *LookupReference:
			if !s.matches(x.LS) {
				continue
			}
			if !s.lookupSurvives(x.Name) {
				tracer().Debugf("lookup reference %s dropped from feature '%s'", x.Name, b.Tag.Trimmed())
				continue
			}
			s.ensureLookup(x.Name)
			add(x)
		case *FeatureReference:
			if s.matches(x.LS) {
				add(x)
			}
		case Rule:
			if !s.matches(x.Scope()) {
				continue
			}
			if r := s.rule(x); r != nil {
				s.requireLookups([]Statement{r})
				add(r)
			}
		default:
			invariant(false, "unknown statement %T in feature block", st)
		}
	}
	if !substantive(out.Statements) {
		tracer().Debugf("feature block '%s' dropped for %s", b.Tag.Trimmed(), s.target())
		return nil
	}
	return out
}

// switchLanguage appends generated script and language statements, if the
// language system of the next statement differs from the current one.
func (s *subsetter) switchLanguage(sts []Statement, ls LangSys, h *header) []Statement {
	if !s.single {
		return s.restoreLanguage(sts, ls, h)
	}
	if !s.anyLang || ls.Lang == h.lang {
		return sts
	}
	script := s.targets[0].Script
	ls.Script = script
	if ls.Lang == ot.DFLTLang {
		h.lang = ot.DFLTLang
		return append(sts, &ScriptStatement{Scoped: Scoped{ls}, Tag: script})
	}
	if !h.script {
		h.script = true
		dflt := LangSys{Script: script, Lang: ot.DFLTLang}
		sts = append(sts, &ScriptStatement{Scoped: Scoped{dflt}, Tag: script})
	}
	h.lang = ls.Lang
	return append(sts, s.languageStatement(ls, h))
}

// restoreLanguage switches the output to the source language system of the
// next statement.
func (s *subsetter) restoreLanguage(sts []Statement, ls LangSys, h *header) []Statement {
	if ls == h.ls {
		return sts
	}
	if ls.Script != h.ls.Script {
		h.ls = LangSys{Script: ls.Script, Lang: ot.DFLTLang}
		sts = append(sts, &ScriptStatement{Scoped: Scoped{h.ls}, Tag: ls.Script})
	}
	if ls.Lang != h.ls.Lang {
		h.ls = ls
		sts = append(sts, s.languageStatement(ls, h))
	}
	return sts
}

// languageStatement creates a language statement for ls, with the flags of
// the latest source statement for the language.
func (s *subsetter) languageStatement(ls LangSys, h *header) *LanguageStatement {
	lang := &LanguageStatement{Scoped: Scoped{ls}, Tag: ls.Lang}
	if src := h.source[ls.Lang]; src != nil {
		lang.ExcludeDefault = src.ExcludeDefault
		lang.IncludeDefault = src.IncludeDefault
		lang.Required = src.Required
	}
	return lang
}

// substantive is true for statement lists containing rules or lookups.
func substantive(sts []Statement) bool {
	for _, st := range sts {
		switch st.(type) {
		case Rule, *LookupBlock, *LookupReference, *FeatureReference:
			return true
		}
	}
	return false
}

func pruneFeatureReferences(f *Feature, items []TopLevel) []TopLevel {
	defined := map[ot.Tag]bool{}
	for _, b := range f.Blocks() {
		defined[b.Tag] = true
	}
	for changed := true; changed; {
		changed = false
		present := map[ot.Tag]bool{}
		for _, item := range items {
			if b, ok := item.(*FeatureBlock); ok {
				present[b.Tag] = true
			}
		}
		kept := items[:0:0]
		for _, item := range items {
			b, ok := item.(*FeatureBlock)
			if !ok {
				kept = append(kept, item)
				continue
			}
			sts := slices.DeleteFunc(slices.Clone(b.Statements), func(st Statement) bool {
				ref, ok := st.(*FeatureReference)
				return ok && defined[ref.Tag] && !present[ref.Tag]
			})
			if len(sts) != len(b.Statements) {
				changed = true
				b.Statements = sts
			}
			if !substantive(b.Statements) {
				changed = true
				continue
			}
			kept = append(kept, b)
		}
		items = kept
	}
	return items
}

// --- Lookups ---------------------------------------------------------------

// lookupDefinition reduces the rules of a lookup. Lookups are filtered by
// glyphs only, the language system applies to their point of registration.
func (s *subsetter) lookupDefinition(lb *LookupBlock) *LookupBlock {
	out := &LookupBlock{Scoped: lb.Scoped, Name: lb.Name, UseExtension: lb.UseExtension}
	for _, st := range lb.Statements {
		switch x := st.(type) {
		case *ClassDefinition:
			if def := s.classDefinition(x); def != nil {
				out.Statements = append(out.Statements, def)
			}
		case *MarkClassDefinition:
			if def := s.markClassDefinition(x); def != nil {
				out.Statements = append(out.Statements, def)
			}
		case *Opaque:
			out.Statements = append(out.Statements, s.opaque(x))
		case *Comment:
			out.Statements = append(out.Statements, x)
		case Rule:
			if r := s.rule(x); r != nil {
				out.Statements = append(out.Statements, r)
			}
		default:
			invariant(false, "unexpected statement %T in lookup %s", st, lb.Name)
		}
	}
	if !substantive(out.Statements) {
		tracer().Debugf("lookup %s dropped", lb.Name)
		out = nil
	}
	s.lookupDefs[lb.Name] = out
	return out
}

func (s *subsetter) lookupSurvives(name string) bool {
	lb, ok := s.lookupDefs[name]
	invariant(ok, "lookup %s referenced before definition", name)
	return lb != nil
}

// requireLookups makes sure that all lookups called by rules are present in
// the output.
func (s *subsetter) requireLookups(sts []Statement) {
	for _, st := range sts {
		switch r := st.(type) {
		case *ChainSub:
			for _, name := range r.LookupNames() {
				s.ensureLookup(name)
			}
		case *Positioning:
			for _, frag := range r.Span {
				if frag.Lookup != "" {
					s.ensureLookup(frag.Lookup)
				}
			}
		}
	}
}

// ensureLookup inserts a lookup at file scope, just before the current
// top-level item, if it is not already part of the output. This is the case
// for lookups defined within a feature block, in a part which has been
// dropped.
func (s *subsetter) ensureLookup(name string) {
	if s.emitted[name] {
		return
	}
	lb := s.lookupDefs[name]
	invariant(lb != nil, "reference to dropped lookup %s", name)
	s.emitted[name] = true
	s.requireLookups(lb.Statements)
	tracer().Debugf("lookup %s moved to file scope", name)
	s.pending = append(s.pending, s.rehome(lb))
}

// rehome creates a copy of a lookup for file scope. Named classes defined
// within a feature block are not visible there; they are replaced by inline
// classes.
func (s *subsetter) rehome(lb *LookupBlock) *LookupBlock {
	local := map[*GlyphClass]bool{}
	out := &LookupBlock{Scoped: Scoped{Wildcard}, Name: lb.Name, UseExtension: lb.UseExtension}
	for _, st := range lb.Statements {
		out.Statements = append(out.Statements, s.relocate(st, local))
	}
	return out
}

func (s *subsetter) relocate(st Statement, local map[*GlyphClass]bool) Statement {
	loc := func(e Element) Element { return s.localize(e, local) }
	seq := func(q Sequence) Sequence {
		out := make(Sequence, len(q))
		for i, e := range q {
			out[i] = loc(e)
		}
		return out
	}
	ctx := func(c Context) Context {
		return Context{Backtrack: seq(c.Backtrack), Lookahead: seq(c.Lookahead)}
	}
	wildcard := Scoped{Wildcard}
	switch x := st.(type) {
	case *ClassDefinition:
		local[x.Class] = true
		return &ClassDefinition{Scoped: wildcard, Class: x.Class}
	case *MarkClassDefinition:
		return &MarkClassDefinition{Scoped: wildcard, Glyphs: loc(x.Glyphs), Anchor: x.Anchor, Name: x.Name}
	case *Opaque:
		return &Opaque{Scoped: wildcard, Keyword: x.Keyword, Span: s.localizeSpan(x.Span, local)}
	case *Comment:
		return &Comment{Scoped: wildcard, Text: x.Text}
	case *SingleSub:
		return &SingleSub{Scoped: wildcard, Context: ctx(x.Context), In: loc(x.In), Out: loc(x.Out)}
	case *MultipleSub:
		return &MultipleSub{Scoped: wildcard, Context: ctx(x.Context), In: loc(x.In), Out: seq(x.Out)}
	case *AlternateSub:
		alt := loc(Element{Class: x.Alternates})
		return &AlternateSub{Scoped: wildcard, Context: ctx(x.Context), In: loc(x.In), Alternates: alt.Class}
	case *LigatureSub:
		return &LigatureSub{Scoped: wildcard, Context: ctx(x.Context), In: seq(x.In), Out: loc(x.Out)}
	case *ChainSub:
		return &ChainSub{Scoped: wildcard, Context: ctx(x.Context), Input: seq(x.Input)}
	case *ReverseChainSub:
		return &ReverseChainSub{Scoped: wildcard, Context: ctx(x.Context), In: loc(x.In), Out: loc(x.Out)}
	case *IgnoreSub:
		patterns := make([]Pattern, len(x.Patterns))
		for i, p := range x.Patterns {
			patterns[i] = Pattern{Context: ctx(p.Context), Input: seq(p.Input)}
		}
		return &IgnoreSub{Scoped: wildcard, Reverse: x.Reverse, Patterns: patterns}
	case *Positioning:
		return &Positioning{Scoped: wildcard, Keyword: x.Keyword, Span: s.localizeSpan(x.Span, local)}
	}
	invariant(false, "unexpected statement %T in lookup", st)
	return nil
}

func (s *subsetter) localize(e Element, local map[*GlyphClass]bool) Element {
	if c := e.Class; c != nil && c.Name != "" && !s.global[c] && !local[c] {
		e.Class = classFromGlyphs("", c.Name, c.Members)
	}
	return e
}

func (s *subsetter) localizeSpan(span []Fragment, local map[*GlyphClass]bool) []Fragment {
	out := slices.Clone(span)
	for i, frag := range out {
		if frag.Class != nil {
			out[i].Class = s.localize(Element{Class: frag.Class}, local).Class
		}
	}
	return out
}

// --- Classes ---------------------------------------------------------------

// class returns the intersection of c and the glyph set: c itself if all of
// its members are in the glyph set, nil if none is.
func (s *subsetter) class(c *GlyphClass) *GlyphClass {
	if s.glyphs == nil {
		return c
	}
	if r, ok := s.classes[c]; ok {
		return r
	}
	members := make([]string, 0, len(c.Members))
	for _, g := range c.Members {
		if s.glyphs.Contains(g) {
			members = append(members, g)
		}
	}
	var r *GlyphClass
	switch {
	case len(members) == 0:
		if c.Name != "" {
			tracer().Debugf("glyph class @%s is empty for glyph set", c.Name)
		}
	case len(members) == len(c.Members) && s.itemsSurvive(c):
		r = c
	case len(members) == len(c.Members):
		// a referenced class has been renamed or dropped
		r = classFromGlyphs(c.Name, c.Origin, members)
	case c.Name == "":
		r = classFromGlyphs("", c.Origin, members)
	default:
		r = classFromGlyphs(s.className(c.Name+"_subset"), c.Name, members)
	}
	s.classes[c] = r
	return r
}

// itemsSurvive is true if all classes referenced by the items of c are left
// unchanged by the glyph filter.
func (s *subsetter) itemsSurvive(c *GlyphClass) bool {
	for _, item := range c.Items {
		if item.Class != nil && s.class(item.Class) != item.Class {
			return false
		}
	}
	return true
}

// className returns a class name not yet in use, derived from base.
func (s *subsetter) className(base string) string {
	name := base
	for n := 1; s.names[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	s.names[name] = true
	return name
}

func (s *subsetter) classDefinition(def *ClassDefinition) *ClassDefinition {
	c := s.class(def.Class)
	switch c {
	case nil:
		return nil
	case def.Class:
		return def
	}
	return &ClassDefinition{Scoped: def.Scoped, Class: c}
}

func (s *subsetter) markClassDefinition(def *MarkClassDefinition) *MarkClassDefinition {
	e, ok := s.element(def.Glyphs)
	if !ok {
		return nil
	}
	s.marks[def.Name]++
	return &MarkClassDefinition{Scoped: def.Scoped, Glyphs: e, Anchor: def.Anchor, Name: def.Name}
}

func (s *subsetter) opaque(o *Opaque) *Opaque {
	span, changed := slices.Clone(o.Span), false
	for i, frag := range span {
		if frag.Mark != "" && s.marks[frag.Mark] == 0 {
			changed = true
			span[i] = Fragment{Lead: frag.Lead, Text: "[]"}
			continue
		}
		if frag.Class == nil {
			continue
		}
		c := s.class(frag.Class)
		if c == frag.Class {
			continue
		}
		changed = true
		if c == nil {
			span[i] = Fragment{Lead: frag.Lead, Text: "[]"}
		} else {
			span[i].Class = c
		}
	}
	if !changed {
		return o
	}
	return &Opaque{Scoped: o.Scoped, Keyword: o.Keyword, Span: span}
}

// --- Rules -----------------------------------------------------------------

func (s *subsetter) element(e Element) (Element, bool) {
	if e.Class == nil {
		return e, s.glyphs.Contains(e.Glyph)
	}
	c := s.class(e.Class)
	if c == nil {
		return e, false
	}
	e.Class = c
	return e, true
}

func (s *subsetter) sequence(seq Sequence) (Sequence, bool) {
	if seq == nil {
		return nil, true
	}
	out := make(Sequence, len(seq))
	for i, e := range seq {
		var ok bool
		if out[i], ok = s.element(e); !ok {
			return nil, false
		}
	}
	return out, true
}

func (s *subsetter) context(c Context) (Context, bool) {
	bt, ok1 := s.sequence(c.Backtrack)
	la, ok2 := s.sequence(c.Lookahead)
	return Context{Backtrack: bt, Lookahead: la}, ok1 && ok2
}

// pair reduces the input and output of a single substitution. Class to class
// substitutions are filtered pair-wise.
func (s *subsetter) pair(in, out Element) (Element, Element, bool) {
	if !in.IsClass() || !out.IsClass() {
		in, ok1 := s.element(in)
		out, ok2 := s.element(out)
		return in, out, ok1 && ok2
	}
	invariant(len(in.Class.Members) == len(out.Class.Members), "class sizes differ in single substitution")
	var ins, outs []string
	for i, g := range in.Class.Members {
		if s.glyphs.Contains(g) && s.glyphs.Contains(out.Class.Members[i]) {
			ins = append(ins, g)
			outs = append(outs, out.Class.Members[i])
		}
	}
	if len(ins) == 0 {
		return in, out, false
	}
	cin, cout := s.class(in.Class), s.class(out.Class)
	if cin != nil && cout != nil && slices.Equal(cin.Members, ins) && slices.Equal(cout.Members, outs) {
		in.Class, out.Class = cin, cout
		return in, out, true
	}
	in.Class = classFromGlyphs("", in.Class.Name, ins)
	out.Class = classFromGlyphs("", out.Class.Name, outs)
	return in, out, true
}

// rule reduces a rule to the glyph set, or returns nil if the rule has to be
// dropped.
func (s *subsetter) rule(r Rule) Rule {
	switch x := r.(type) {
	case *SingleSub:
		ctx, ok1 := s.context(x.Context)
		in, out, ok2 := s.pair(x.In, x.Out)
		if ok1 && ok2 {
			return &SingleSub{Scoped: x.Scoped, Context: ctx, In: in, Out: out}
		}
	case *MultipleSub:
		ctx, ok1 := s.context(x.Context)
		in, ok2 := s.element(x.In)
		out, ok3 := s.sequence(x.Out)
		if ok1 && ok2 && ok3 {
			return &MultipleSub{Scoped: x.Scoped, Context: ctx, In: in, Out: out}
		}
	case *AlternateSub:
		ctx, ok1 := s.context(x.Context)
		in, ok2 := s.element(x.In)
		alt := s.class(x.Alternates)
		if ok1 && ok2 && alt != nil {
			return &AlternateSub{Scoped: x.Scoped, Context: ctx, In: in, Alternates: alt}
		}
	case *LigatureSub:
		ctx, ok1 := s.context(x.Context)
		in, ok2 := s.sequence(x.In)
		out, ok3 := s.element(x.Out)
		if ok1 && ok2 && ok3 {
			return &LigatureSub{Scoped: x.Scoped, Context: ctx, In: in, Out: out}
		}
	case *ChainSub:
		return s.chainSub(x)
	case *ReverseChainSub:
		ctx, ok1 := s.context(x.Context)
		in, out, ok2 := s.pair(x.In, x.Out)
		if ok1 && ok2 {
			return &ReverseChainSub{Scoped: x.Scoped, Context: ctx, In: in, Out: out}
		}
	case *IgnoreSub:
		var patterns []Pattern
		for _, p := range x.Patterns {
			ctx, ok1 := s.context(p.Context)
			in, ok2 := s.sequence(p.Input)
			if ok1 && ok2 {
				patterns = append(patterns, Pattern{Context: ctx, Input: in})
			}
		}
		if len(patterns) > 0 {
			return &IgnoreSub{Scoped: x.Scoped, Reverse: x.Reverse, Patterns: patterns}
		}
	case *Positioning:
		return s.positioning(x)
	default:
		invariant(false, "unknown rule type %T", r)
	}
	return nil
}

func (s *subsetter) chainSub(r *ChainSub) Rule {
	ctx, ok := s.context(r.Context)
	if !ok {
		return nil
	}
	input, ok := s.sequence(r.Input)
	if !ok {
		return nil
	}
	calls := 0
	for i, e := range input {
		var lookups []string
		for _, name := range e.Lookups {
			if s.lookupSurvives(name) {
				lookups = append(lookups, name)
			}
		}
		input[i].Lookups = lookups
		calls += len(lookups)
	}
	if calls == 0 {
		return nil
	}
	return &ChainSub{Scoped: r.Scoped, Context: ctx, Input: input}
}

func (s *subsetter) positioning(r *Positioning) Rule {
	span := slices.Clone(r.Span)
	for i, frag := range span {
		switch {
		case frag.Glyph:
			if !s.glyphs.Contains(frag.Text) {
				return nil
			}
		case frag.Class != nil:
			c := s.class(frag.Class)
			if c == nil {
				return nil
			}
			span[i].Class = c
		case frag.Mark != "":
			if s.marks[frag.Mark] == 0 {
				return nil
			}
		case frag.Lookup != "":
			if !s.lookupSurvives(frag.Lookup) {
				return nil
			}
		}
	}
	return &Positioning{Scoped: r.Scoped, Keyword: r.Keyword, Span: span}
}

// classNames returns the names of all classes defined in f.
func classNames(f *Feature) []string {
	var names []string
	var collect func(sts []Statement)
	collect = func(sts []Statement) {
		for _, st := range sts {
			switch x := st.(type) {
			case *ClassDefinition:
				names = append(names, x.Class.Name)
			case *LookupBlock:
				collect(x.Statements)
			}
		}
	}
	for _, item := range f.Items {
		switch x := item.(type) {
		case *ClassDefinition:
			names = append(names, x.Class.Name)
		case *LookupBlock:
			collect(x.Statements)
		case *FeatureBlock:
			collect(x.Statements)
		}
	}
	return names
}
