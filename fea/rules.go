package fea

// Rule is a substitution or positioning rule. The set of rules is closed:
//
//	*SingleSub, *MultipleSub, *AlternateSub, *LigatureSub, *ChainSub,
//	*ReverseChainSub, *IgnoreSub, *Positioning
type Rule interface {
	Statement
	// Glyphs returns all glyph names referenced by the rule, with classes
	// expanded to their members.
	Glyphs() []string
	isRule()
}

// Context is the backtrack and lookahead sequence of a contextual rule.
type Context struct {
	Backtrack Sequence
	Lookahead Sequence
}

func (c Context) glyphs() []string {
	return append(c.Backtrack.Glyphs(), c.Lookahead.Glyphs()...)
}

// SingleSub replaces a glyph by a glyph (GSUB lookup type 1):
//
//	sub a by b;
//	sub [a b] by [c d];
//	sub @A by x;
//
// With a non-empty context, the input element is marked: `sub x a' y by b;`.
type SingleSub struct {
	Scoped
	Context
	In  Element
	Out Element
}

// MultipleSub replaces a glyph by a sequence of glyphs (type 2). An empty
// output sequence is written as `by NULL` and deletes the input glyph.
type MultipleSub struct {
	Scoped
	Context
	In  Element
	Out Sequence
}

// AlternateSub offers alternates for a glyph (type 3): `sub a from [a.1 a.2];`.
type AlternateSub struct {
	Scoped
	Context
	In         Element
	Alternates *GlyphClass
}

// LigatureSub replaces a sequence of glyphs by a single glyph (type 4).
type LigatureSub struct {
	Scoped
	Context
	In  Sequence
	Out Element
}

// ChainSub is a chaining contextual substitution calling lookups at marked
// input positions (type 6): `sub a b' lookup L1 c;`.
type ChainSub struct {
	Scoped
	Context
	Input Sequence
}

// ReverseChainSub is a reverse chaining single substitution (type 8):
// `rsub a b' c by d;`.
type ReverseChainSub struct {
	Scoped
	Context
	In  Element
	Out Element
}

// Pattern is a contextual match pattern of an ignore statement.
type Pattern struct {
	Context
	Input Sequence
}

// IgnoreSub is an `ignore sub` (or `ignore rsub`) statement with a comma
// separated list of patterns.
type IgnoreSub struct {
	Scoped
	Reverse  bool
	Patterns []Pattern
}

// Positioning is a GPOS rule (`pos`, `enum pos`, `ignore pos`), kept as a span
// of fragments. Glyph names, glyph class and mark class references as well as
// lookup references within the span are flagged.
type Positioning struct {
	Scoped
	Keyword string // first keyword of the rule: pos, position, enum, enumerate, ignore
	Span    []Fragment
}

func (r *SingleSub) Glyphs() []string {
	return append(append(r.Context.glyphs(), r.In.Members()...), r.Out.Members()...)
}

func (r *MultipleSub) Glyphs() []string {
	return append(append(r.Context.glyphs(), r.In.Members()...), r.Out.Glyphs()...)
}

func (r *AlternateSub) Glyphs() []string {
	return append(append(r.Context.glyphs(), r.In.Members()...), r.Alternates.Members...)
}

func (r *LigatureSub) Glyphs() []string {
	return append(append(r.Context.glyphs(), r.In.Glyphs()...), r.Out.Members()...)
}

func (r *ChainSub) Glyphs() []string {
	return append(r.Context.glyphs(), r.Input.Glyphs()...)
}

func (r *ReverseChainSub) Glyphs() []string {
	return append(append(r.Context.glyphs(), r.In.Members()...), r.Out.Members()...)
}

func (r *IgnoreSub) Glyphs() []string {
	var glyphs []string
	for _, p := range r.Patterns {
		glyphs = append(append(glyphs, p.Context.glyphs()...), p.Input.Glyphs()...)
	}
	return glyphs
}

func (r *Positioning) Glyphs() []string {
	return spanGlyphs(r.Span)
}

// LookupNames returns the names of the lookups called by a chaining rule.
func (r *ChainSub) LookupNames() []string {
	var names []string
	for _, e := range r.Input {
		names = append(names, e.Lookups...)
	}
	return names
}

func (*SingleSub) isStatement()       {}
func (*MultipleSub) isStatement()     {}
func (*AlternateSub) isStatement()    {}
func (*LigatureSub) isStatement()     {}
func (*ChainSub) isStatement()        {}
func (*ReverseChainSub) isStatement() {}
func (*IgnoreSub) isStatement()       {}
func (*Positioning) isStatement()     {}

func (*SingleSub) isRule()       {}
func (*MultipleSub) isRule()     {}
func (*AlternateSub) isRule()    {}
func (*LigatureSub) isRule()     {}
func (*ChainSub) isRule()        {}
func (*ReverseChainSub) isRule() {}
func (*IgnoreSub) isRule()       {}
func (*Positioning) isRule()     {}
