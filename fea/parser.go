package fea

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otfea/fealex"
	"github.com/npillmayer/otfea/ot"
)

// ParseOption guides and influences the parsing of feature files.
type ParseOption int

const (
	KeepComments ParseOption = iota // keep comments as Comment statements
)

// Parse reads feature file source and creates a Feature from it.
// Parsing fails on the first error, which is one of *fealex.LexError,
// *ParseError or *UnresolvedClassError.
func Parse(src string, opts ...ParseOption) (f *Feature, err error) {
	p := &parser{
		lex:         fealex.New(src),
		src:         src,
		scope:       &classScope{classes: map[string]*GlyphClass{}},
		defining:    map[string]bool{},
		lookups:     map[string]*LookupBlock{},
		markClasses: map[string]bool{},
		ls:          Wildcard,
	}
	for _, opt := range opts {
		if opt == KeepComments {
			p.keepComments = true
		}
	}
	defer func() {
		if r := recover(); r != nil {
			f = nil
			switch e := r.(type) {
			case *ParseError:
				err = e
			case *UnresolvedClassError:
				err = e
			case *fealex.LexError:
				err = e
			default:
				panic(r)
			}
			tracer().Debugf("parsing feature file failed: %v", err)
		}
	}()
	items := p.parseFile()
	f = newFeature(items)
	tracer().Debugf("parsed feature file: %d top-level items, %d lookups", len(f.Items), len(f.lookups))
	return f, nil
}

// item is a token together with the whitespace preceding it.
type item struct {
	fealex.Token
	lead string
}

type parser struct {
	lex          *fealex.Lexer
	src          string
	backlog      []item
	lastEnd      int // end offset of the last token read from the lexer
	keepComments bool
	comments     []string // comments not yet attached to a statement
	prev         item     // the token returned by the latest readItem

	scope       *classScope
	defining    map[string]bool // classes currently being defined
	lookups     map[string]*LookupBlock
	markClasses map[string]bool
	ls          LangSys // current language system
}

// --- Top level -------------------------------------------------------------

func (p *parser) parseFile() []TopLevel {
	var items []TopLevel
	for {
		t := p.peek()
		for _, c := range p.takeComments() {
			items = append(items, c)
		}
		if t.Kind == fealex.EOF {
			return items
		}
		p.ls = Wildcard
		items = append(items, p.topLevel())
	}
}

func (p *parser) topLevel() TopLevel {
	t := p.readItem()
	switch {
	case t.Is("languagesystem"):
		script := ot.ScriptTag(p.tag("script tag"))
		lang := ot.LanguageTag(p.tag("language tag"))
		p.required(fealex.Semicolon, "';'")
		return &LanguageSystem{Scoped{LangSys{Script: script, Lang: lang}}}
	case t.Kind == fealex.ClassName:
		return p.classDefinition(t)
	case t.Is("markClass"):
		return p.markClass()
	case t.Is("lookup"):
		lb, ref := p.lookup(t)
		if lb == nil {
			p.fatal(t, "reference to lookup %s outside of a feature block", ref.Name)
		}
		return lb
	case t.Is("feature"):
		return p.featureBlock(t)
	case isRuleKeyword(t):
		p.fatal(t, "rule outside of a feature or lookup block")
	case t.Kind == fealex.Keyword || t.Kind == fealex.Glyph:
		return p.opaque(t)
	}
	p.unexpected(t)
	return nil
}

func isRuleKeyword(t item) bool {
	switch t.Word() {
	case "sub", "substitute", "rsub", "reversesub", "pos", "position", "enum", "enumerate", "ignore":
		return t.Kind == fealex.Keyword
	}
	return false
}

func (p *parser) featureBlock(start item) *FeatureBlock {
	tag := p.tag("feature tag")
	block := &FeatureBlock{Tag: ot.T(tag)}
	block.UseExtension = p.optionalKeyword("useExtension")
	p.required(fealex.LBrace, "'{'")
	tracer().Debugf("parsing feature block '%s' at %s", tag, start.Pos)
	p.scope = p.scope.push()
	p.ls = Wildcard
	block.Statements = p.statements(false)
	p.required(fealex.RBrace, "'}'")
	if end := p.tag("feature tag"); end != tag {
		p.fatal(p.last(), "feature block '%s' closed by '%s'", tag, end)
	}
	p.required(fealex.Semicolon, "';'")
	p.scope = p.scope.parent
	p.ls = Wildcard
	return block
}

// lookup parses a lookup block or a lookup reference, after the keyword.
func (p *parser) lookup(start item) (*LookupBlock, *LookupReference) {
	name := p.lookupName()
	if p.optional(fealex.Semicolon) {
		if p.lookups[name] == nil {
			p.fatal(start, "reference to undefined lookup %s", name)
		}
		return nil, &LookupReference{Scoped: Scoped{p.ls}, Name: name}
	}
	if p.lookups[name] != nil {
		p.fatal(start, "lookup %s is already defined", name)
	}
	lb := &LookupBlock{Scoped: Scoped{p.ls}, Name: name}
	lb.UseExtension = p.optionalKeyword("useExtension")
	p.required(fealex.LBrace, "'{'")
	tracer().Debugf("parsing lookup %s for %s at %s", name, p.ls, start.Pos)
	p.scope = p.scope.push()
	lb.Statements = p.statements(true)
	p.required(fealex.RBrace, "'}'")
	if end := p.lookupName(); end != name {
		p.fatal(p.last(), "lookup %s closed by %s", name, end)
	}
	p.required(fealex.Semicolon, "';'")
	p.scope = p.scope.parent
	p.lookups[name] = lb
	return lb, nil
}

// --- Block statements ------------------------------------------------------

func (p *parser) statements(inLookup bool) []Statement {
	var sts []Statement
	for {
		t := p.peek()
		for _, c := range p.takeComments() {
			sts = append(sts, c)
		}
		switch t.Kind {
		case fealex.RBrace:
			return sts
		case fealex.EOF:
			p.expected(t, "'}'")
		}
		sts = append(sts, p.statement(inLookup))
	}
}

func (p *parser) statement(inLookup bool) Statement {
	t := p.readItem()
	switch {
	case t.Is("script"):
		if inLookup {
			p.fatal(t, "script statement within a lookup block")
		}
		tag := ot.ScriptTag(p.tag("script tag"))
		p.required(fealex.Semicolon, "';'")
		p.ls = LangSys{Script: tag, Lang: ot.DFLTLang}
		return &ScriptStatement{Scoped: Scoped{p.ls}, Tag: tag}
	case t.Is("language"):
		if inLookup {
			p.fatal(t, "language statement within a lookup block")
		}
		return p.languageStatement()
	case t.Is("lookup"):
		if inLookup {
			p.fatal(t, "lookup within a lookup block")
		}
		lb, ref := p.lookup(t)
		if lb != nil {
			return lb
		}
		return ref
	case t.Is("feature"):
		if inLookup {
			p.fatal(t, "feature reference within a lookup block")
		}
		tag := p.tag("feature tag")
		p.required(fealex.Semicolon, "';'")
		return &FeatureReference{Scoped: Scoped{p.ls}, Tag: ot.T(tag)}
	case t.Kind == fealex.ClassName:
		return p.classDefinition(t)
	case t.Is("markClass"):
		return p.markClass()
	case t.Is("sub") || t.Is("substitute"):
		return p.substitution(t, false)
	case t.Is("rsub") || t.Is("reversesub"):
		return p.substitution(t, true)
	case t.Is("ignore"):
		next := p.peek()
		switch {
		case next.Is("sub") || next.Is("substitute"):
			p.readItem()
			return p.ignoreSub(false)
		case next.Is("rsub") || next.Is("reversesub"):
			p.readItem()
			return p.ignoreSub(true)
		case next.Is("pos") || next.Is("position"):
			return &Positioning{Scoped: Scoped{p.ls}, Keyword: t.Text, Span: p.span(t, true)}
		}
		p.expected(next, "'sub' or 'pos'")
	case t.Is("pos") || t.Is("position") || t.Is("enum") || t.Is("enumerate"):
		return &Positioning{Scoped: Scoped{p.ls}, Keyword: t.Text, Span: p.span(t, true)}
	case t.Kind == fealex.Keyword || t.Kind == fealex.Glyph:
		return p.opaque(t)
	}
	p.unexpected(t)
	return nil
}

func (p *parser) languageStatement() *LanguageStatement {
	tag := ot.LanguageTag(p.tag("language tag"))
	st := &LanguageStatement{Tag: tag}
	for {
		switch {
		case p.optionalKeyword("exclude_dflt") || p.optionalKeyword("excludeDFLT"):
			st.ExcludeDefault = true
		case p.optionalKeyword("include_dflt") || p.optionalKeyword("includeDFLT"):
			st.IncludeDefault = true
		case p.optionalKeyword("required"):
			st.Required = true
		default:
			p.required(fealex.Semicolon, "';'")
			p.ls.Lang = tag
			st.LS = p.ls
			return st
		}
	}
}

// --- Classes ---------------------------------------------------------------

func (p *parser) classDefinition(name item) *ClassDefinition {
	p.required(fealex.Equals, "'='")
	p.defining[name.Text] = true
	var items []ClassItem
	t := p.readItem()
	switch t.Kind {
	case fealex.LBracket:
		items = p.classItems()
	case fealex.ClassName:
		items = []ClassItem{{Class: p.resolveClass(t)}}
	default:
		p.expected(t, "'[' or class name")
	}
	delete(p.defining, name.Text)
	p.required(fealex.Semicolon, "';'")
	class, err := newClass(name.Text, items)
	if err != nil {
		p.fatal(name, "%v", err)
	}
	p.scope.define(class)
	return &ClassDefinition{Scoped: Scoped{p.ls}, Class: class}
}

// classItems reads the items of a bracketed class, after the '['.
func (p *parser) classItems() []ClassItem {
	var items []ClassItem
	for {
		t := p.readItem()
		switch t.Kind {
		case fealex.RBracket:
			return items
		case fealex.Glyph:
			if p.optional(fealex.Hyphen) {
				end := p.required(fealex.Glyph, "glyph name")
				items = append(items, ClassItem{Glyph: t.Text, RangeEnd: end.Text})
				continue
			}
			items = append(items, ClassItem{Glyph: t.Text})
		case fealex.ClassName:
			items = append(items, ClassItem{Class: p.resolveClass(t)})
		default:
			p.expected(t, "glyph name, class name or ']'")
		}
	}
}

func (p *parser) inlineClass(start item) *GlyphClass {
	class, err := newClass("", p.classItems())
	if err != nil {
		p.fatal(start, "%v", err)
	}
	return class
}

func (p *parser) resolveClass(t item) *GlyphClass {
	if c := p.scope.lookup(t.Text); c != nil {
		return c
	}
	panic(&UnresolvedClassError{Pos: t.Pos, Name: t.Text, Self: p.defining[t.Text]})
}

func (p *parser) markClass() *MarkClassDefinition {
	t := p.readItem()
	glyphs, ok := p.element(t)
	if !ok {
		p.expected(t, "glyph or glyph class")
	}
	st := &MarkClassDefinition{Scoped: Scoped{p.ls}, Glyphs: glyphs}
	lt := p.required(fealex.LAngle, "anchor")
	st.Anchor = p.angled(lt)
	name := p.required(fealex.ClassName, "mark class name")
	p.required(fealex.Semicolon, "';'")
	st.Name = name.Text
	if p.scope.lookup(name.Text) != nil {
		p.fatal(name, "mark class @%s conflicts with glyph class of the same name", name.Text)
	}
	p.markClasses[name.Text] = true
	return st
}

// angled reads a span in angle brackets, starting with the '<' already read.
func (p *parser) angled(start item) []Fragment {
	frags := []Fragment{{Text: start.Text}}
	depth := 1
	for depth > 0 {
		t := p.readItem()
		switch t.Kind {
		case fealex.EOF, fealex.Semicolon:
			p.expected(t, "'>'")
		case fealex.LAngle:
			depth++
		case fealex.RAngle:
			depth--
		}
		frags = append(frags, Fragment{Lead: t.lead, Text: p.raw(t)})
	}
	return frags
}

// --- Substitutions ---------------------------------------------------------

// element interprets t as a glyph, a class reference or an inline class.
func (p *parser) element(t item) (Element, bool) {
	switch t.Kind {
	case fealex.Glyph:
		return Element{Glyph: t.Text}, true
	case fealex.ClassName:
		return Element{Class: p.resolveClass(t)}, true
	case fealex.LBracket:
		return Element{Class: p.inlineClass(t)}, true
	}
	return Element{}, false
}

// pattern reads a sequence of possibly marked elements, each optionally
// followed by lookup references.
func (p *parser) pattern() Sequence {
	var seq Sequence
	for {
		t := p.readItem()
		e, ok := p.element(t)
		if !ok {
			p.unread(t)
			return seq
		}
		e.Marked = p.optional(fealex.Mark)
		for p.peek().Is("lookup") {
			lt := p.readItem()
			if !e.Marked {
				p.fatal(lt, "lookup reference after unmarked glyph")
			}
			name := p.lookupName()
			if p.lookups[name] == nil {
				p.fatal(lt, "reference to undefined lookup %s", name)
			}
			e.Lookups = append(e.Lookups, name)
		}
		seq = append(seq, e)
	}
}

// split separates a pattern into context and input. Without marked elements,
// all of seq is input.
func (p *parser) split(seq Sequence, at item) (Context, Sequence, bool) {
	first, last := -1, -1
	for i, e := range seq {
		if e.Marked {
			if first < 0 {
				first = i
			} else if last < i-1 {
				p.fatal(at, "marked glyphs must be contiguous")
			}
			last = i
		}
	}
	if first < 0 {
		return Context{}, seq, false
	}
	return Context{Backtrack: seq[:first], Lookahead: seq[last+1:]}, seq[first : last+1], true
}

func (p *parser) substitution(kw item, reverse bool) Rule {
	seq := p.pattern()
	if len(seq) == 0 {
		p.expected(p.peek(), "glyph or glyph class")
	}
	ctx, in, marked := p.split(seq, kw)
	t := p.readItem()
	switch {
	case t.Is("by"):
		p.noLookups(seq, kw)
		if reverse {
			return p.reverseSub(kw, ctx, in)
		}
		return p.subBy(kw, ctx, in)
	case t.Is("from") && !reverse:
		p.noLookups(seq, kw)
		if len(in) != 1 {
			p.fatal(kw, "alternate substitution with more than one input glyph")
		}
		ct := p.readItem()
		var alternates *GlyphClass
		switch ct.Kind {
		case fealex.LBracket:
			alternates = p.inlineClass(ct)
		case fealex.ClassName:
			alternates = p.resolveClass(ct)
		default:
			p.expected(ct, "glyph class")
		}
		p.required(fealex.Semicolon, "';'")
		return &AlternateSub{Scoped: Scoped{p.ls}, Context: ctx, In: in[0], Alternates: alternates}
	case t.Kind == fealex.Semicolon && !reverse:
		if !marked || !hasLookups(seq) {
			p.fatal(t, "expected 'by', 'from' or lookup reference")
		}
		return &ChainSub{Scoped: Scoped{p.ls}, Context: ctx, Input: in}
	}
	if reverse {
		p.expected(t, "'by'")
	}
	p.expected(t, "'by', 'from' or ';'")
	return nil
}

func (p *parser) subBy(kw item, ctx Context, in Sequence) Rule {
	if p.optionalKeyword("NULL") {
		p.required(fealex.Semicolon, "';'")
		if len(in) != 1 {
			p.fatal(kw, "deletion of more than one glyph")
		}
		return &MultipleSub{Scoped: Scoped{p.ls}, Context: ctx, In: in[0]}
	}
	out := p.replacement()
	switch {
	case len(in) == 1 && len(out) == 1:
		p.checkSingle(kw, in[0], out[0])
		return &SingleSub{Scoped: Scoped{p.ls}, Context: ctx, In: in[0], Out: out[0]}
	case len(in) == 1:
		for _, e := range out {
			if e.IsClass() {
				p.fatal(kw, "glyph class in output of multiple substitution")
			}
		}
		return &MultipleSub{Scoped: Scoped{p.ls}, Context: ctx, In: in[0], Out: out}
	case len(out) == 1:
		if out[0].IsClass() {
			p.fatal(kw, "glyph class as output of ligature substitution")
		}
		return &LigatureSub{Scoped: Scoped{p.ls}, Context: ctx, In: in, Out: out[0]}
	}
	p.fatal(kw, "unsupported substitution of %d glyphs by %d glyphs", len(in), len(out))
	return nil
}

func (p *parser) reverseSub(kw item, ctx Context, in Sequence) Rule {
	if len(in) != 1 {
		p.fatal(kw, "reverse substitution needs exactly one input glyph or class")
	}
	out := p.replacement()
	if len(out) != 1 {
		p.fatal(kw, "reverse substitution needs exactly one replacement")
	}
	p.checkSingle(kw, in[0], out[0])
	return &ReverseChainSub{Scoped: Scoped{p.ls}, Context: ctx, In: in[0], Out: out[0]}
}

// replacement reads the output sequence of a rule after 'by', including the
// final semicolon.
func (p *parser) replacement() Sequence {
	out := p.pattern()
	if len(out) == 0 {
		p.expected(p.peek(), "glyph or glyph class")
	}
	for _, e := range out {
		if e.Marked {
			p.fatal(p.last(), "marked glyph in replacement")
		}
	}
	p.required(fealex.Semicolon, "';'")
	return out
}

func (p *parser) ignoreSub(reverse bool) *IgnoreSub {
	st := &IgnoreSub{Scoped: Scoped{p.ls}, Reverse: reverse}
	for {
		at := p.peek()
		seq := p.pattern()
		ctx, in, marked := p.split(seq, at)
		if !marked {
			p.fatal(at, "ignore pattern without marked glyph")
		}
		p.noLookups(seq, at)
		st.Patterns = append(st.Patterns, Pattern{Context: ctx, Input: in})
		if !p.optional(fealex.Comma) {
			break
		}
	}
	p.required(fealex.Semicolon, "';'")
	return st
}

func (p *parser) checkSingle(at item, in, out Element) {
	switch {
	case !in.IsClass() && out.IsClass():
		p.fatal(at, "substitution of a single glyph by a glyph class")
	case in.IsClass() && out.IsClass() && len(in.Class.Members) != len(out.Class.Members):
		p.fatal(at, "glyph classes of different size in substitution: %d vs %d",
			len(in.Class.Members), len(out.Class.Members))
	}
}

func hasLookups(seq Sequence) bool {
	for _, e := range seq {
		if len(e.Lookups) > 0 {
			return true
		}
	}
	return false
}

func (p *parser) noLookups(seq Sequence, at item) {
	if hasLookups(seq) {
		p.fatal(at, "lookup reference not allowed in this rule")
	}
}

// --- Opaque spans ----------------------------------------------------------

func (p *parser) opaque(start item) *Opaque {
	st := &Opaque{Scoped: Scoped{p.ls}, Keyword: start.Text}
	if start.Is("include") {
		lp := p.required(fealex.LParen, "'('")
		path := p.required(fealex.Path, "file name")
		rp := p.required(fealex.RParen, "')'")
		st.Span = []Fragment{{Text: start.Text}, {Lead: lp.lead, Text: lp.Text},
			{Lead: path.lead, Text: path.Text}, {Lead: rp.lead, Text: rp.Text}}
		if p.peek().Kind == fealex.Semicolon {
			sc := p.readItem()
			st.Span = append(st.Span, Fragment{Lead: sc.lead, Text: sc.Text})
		}
		return st
	}
	st.Span = p.span(start, false)
	return st
}

// span reads tokens up to a semicolon outside of braces. With glyphs set,
// glyph names outside of angle brackets are flagged as glyphs.
func (p *parser) span(start item, glyphs bool) []Fragment {
	frags := []Fragment{{Text: start.Text}}
	braces, angles := 0, 0
	afterLookup := false
	for {
		t := p.readItem()
		frag := Fragment{Lead: t.lead, Text: p.raw(t)}
		switch t.Kind {
		case fealex.EOF:
			p.expected(t, "';'")
		case fealex.Semicolon:
			if braces == 0 {
				return append(frags, frag)
			}
		case fealex.LBrace:
			braces++
		case fealex.RBrace:
			if braces == 0 {
				p.unexpected(t)
			}
			braces--
		case fealex.LAngle:
			angles++
		case fealex.RAngle:
			angles--
		case fealex.LBracket:
			frag.Text = ""
			frag.Class = p.inlineClass(t)
		case fealex.ClassName:
			frag.Text = "@" + t.Text
			if p.markClasses[t.Text] {
				frag.Mark = t.Text
			} else {
				frag.Class = p.resolveClass(t)
			}
		case fealex.Glyph:
			switch {
			case afterLookup:
				if p.lookups[t.Text] == nil {
					p.fatal(t, "reference to undefined lookup %s", t.Text)
				}
				frag.Lookup = t.Text
			case glyphs && angles == 0:
				frag.Text = t.Text
				frag.Glyph = true
			}
		}
		afterLookup = t.Is("lookup")
		frags = append(frags, frag)
	}
}

// --- Tokens ----------------------------------------------------------------

func (p *parser) tag(desc string) string {
	t := p.readItem()
	w := t.Word()
	if w == "" {
		p.expected(t, desc)
	}
	if len(w) > 4 {
		p.fatal(t, "invalid tag '%s'", w)
	}
	return w
}

func (p *parser) lookupName() string {
	return p.required(fealex.Glyph, "lookup name").Text
}

// raw returns the source text of a token.
func (p *parser) raw(t item) string {
	if t.Kind == fealex.EOF || t.Kind == fealex.Path {
		return t.Text
	}
	return p.src[t.Pos.Offset:t.End]
}

func (p *parser) readItem() item {
	if n := len(p.backlog); n > 0 {
		t := p.backlog[n-1]
		p.backlog = p.backlog[:n-1]
		p.prev = t
		return t
	}
	for {
		tok := p.lex.Next()
		switch tok.Kind {
		case fealex.Error:
			panic(&fealex.LexError{Pos: tok.Pos, Msg: tok.Text})
		case fealex.Comment:
			if p.keepComments {
				p.comments = append(p.comments, tok.Text)
			}
			continue
		}
		t := item{Token: tok, lead: leadingSpace(p.src[p.lastEnd:tok.Pos.Offset])}
		p.lastEnd = tok.End
		p.prev = t
		return t
	}
}

func (p *parser) unread(t item) {
	p.backlog = append(p.backlog, t)
}

func (p *parser) peek() item {
	t := p.readItem()
	p.unread(t)
	return t
}

// last returns the token read most recently.
func (p *parser) last() item {
	return p.prev
}

func (p *parser) required(kind fealex.Kind, desc string) item {
	t := p.readItem()
	if t.Kind != kind {
		p.expected(t, desc)
	}
	return t
}

func (p *parser) optional(kind fealex.Kind) bool {
	t := p.readItem()
	if t.Kind != kind {
		p.unread(t)
		return false
	}
	return true
}

func (p *parser) optionalKeyword(kw string) bool {
	t := p.readItem()
	if !t.Is(kw) {
		p.unread(t)
		return false
	}
	return true
}

func (p *parser) takeComments() []*Comment {
	if len(p.comments) == 0 {
		return nil
	}
	comments := make([]*Comment, len(p.comments))
	for i, text := range p.comments {
		comments[i] = &Comment{Scoped: Scoped{p.ls}, Text: text}
	}
	p.comments = p.comments[:0]
	return comments
}

func (p *parser) expected(t item, desc string) {
	panic(&ParseError{Pos: t.Pos, Expected: desc, Found: t.Token.String()})
}

func (p *parser) unexpected(t item) {
	panic(&ParseError{Pos: t.Pos, Found: t.Token.String(), Msg: "unexpected token"})
}

func (p *parser) fatal(t item, format string, args ...any) {
	panic(&ParseError{Pos: t.Pos, Msg: fmt.Sprintf(format, args...)})
}

// leadingSpace returns the whitespace between two tokens. Comments in
// between are removed, keeping the line structure.
func leadingSpace(s string) string {
	if !strings.Contains(s, "#") {
		return s
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return "\n" + s[i+1:]
	}
	return " "
}
