package fea

import (
	"io"
	"strings"

	"github.com/npillmayer/otfea/fealex"
)

// WriteOption configures the output of Write.
type WriteOption func(*writer)

// WithIndent sets the indentation for statements within blocks. The default
// is two spaces.
func WithIndent(indent string) WriteOption {
	return func(w *writer) {
		w.indent = indent
	}
}

// BodyOnly writes feature blocks without the enclosing "feature xxxx {"
// and "} xxxx;" lines. Their statements are written at file scope, ready to
// be included into a feature block elsewhere.
func BodyOnly() WriteOption {
	return func(w *writer) {
		w.bodyOnly = true
	}
}

// Write serializes f as feature file source.
//
// Statements are written one per line, with one level of indentation per
// block level. Blocks at file scope are separated by blank lines. Opaque
// statements are written as found in the source, with glyph class
// references adapted to subsetting.
func (f *Feature) Write(opts ...WriteOption) string {
	w := &writer{indent: "  "}
	for _, opt := range opts {
		opt(w)
	}
	for i, item := range f.Items {
		if i > 0 && (isBlock(item) || isBlock(f.Items[i-1])) {
			w.b.WriteByte('\n')
		}
		w.topLevel(item)
	}
	return w.b.String()
}

// WriteTo writes the source of f to out, using the default layout.
func (f *Feature) WriteTo(out io.Writer) (int64, error) {
	n, err := io.WriteString(out, f.Write())
	return int64(n), err
}

type writer struct {
	b        strings.Builder
	indent   string
	bodyOnly bool
}

func isBlock(item TopLevel) bool {
	switch it := item.(type) {
	case *FeatureBlock, *LookupBlock:
		return true
	case *Opaque:
		return it.Keyword == "table"
	}
	return false
}

func (w *writer) line(depth int, parts ...string) {
	for range depth {
		w.b.WriteString(w.indent)
	}
	for _, s := range parts {
		w.b.WriteString(s)
	}
	w.b.WriteByte('\n')
}

func (w *writer) topLevel(item TopLevel) {
	switch it := item.(type) {
	case *LanguageSystem:
		w.line(0, "languagesystem ", it.LS.Script.Trimmed(), " ", it.LS.Lang.Trimmed(), ";")
	case *FeatureBlock:
		if w.bodyOnly {
			w.statements(it.Statements, 0)
			return
		}
		tag := it.Tag.Trimmed()
		w.line(0, "feature ", tag, extension(it.UseExtension), " {")
		w.statements(it.Statements, 1)
		w.line(0, "} ", tag, ";")
	case *LookupBlock:
		w.statement(it, 0)
	case *ClassDefinition:
		w.statement(it, 0)
	case *MarkClassDefinition:
		w.statement(it, 0)
	case *Opaque:
		w.statement(it, 0)
	case *Comment:
		w.statement(it, 0)
	default:
		invariant(false, "unknown top-level item %T", item)
	}
}

func (w *writer) statements(sts []Statement, depth int) {
	for _, st := range sts {
		w.statement(st, depth)
	}
}

func (w *writer) statement(st Statement, depth int) {
	switch x := st.(type) {
	case *ScriptStatement:
		w.line(depth, "script ", x.Tag.Trimmed(), ";")
	case *LanguageStatement:
		var flags string
		if x.ExcludeDefault {
			flags += " exclude_dflt"
		}
		if x.IncludeDefault {
			flags += " include_dflt"
		}
		if x.Required {
			flags += " required"
		}
		w.line(depth, "language ", x.Tag.Trimmed(), flags, ";")
	case *LookupBlock:
		w.line(depth, "lookup ", x.Name, extension(x.UseExtension), " {")
		w.statements(x.Statements, depth+1)
		w.line(depth, "} ", x.Name, ";")
	case *LookupReference:
		w.line(depth, "lookup ", x.Name, ";")
	case *FeatureReference:
		w.line(depth, "feature ", x.Tag.Trimmed(), ";")
	case *ClassDefinition:
		w.line(depth, "@", x.Class.Name, " = [", classItems(x.Class), "];")
	case *MarkClassDefinition:
		w.line(depth, "markClass ", element(x.Glyphs), " ", span(x.Anchor), " @", x.Name, ";")
	case *Opaque:
		w.line(depth, span(x.Span))
	case *Comment:
		w.line(depth, x.Text)
	case Rule:
		w.line(depth, ruleText(x))
	default:
		invariant(false, "unknown statement %T", st)
	}
}

func ruleText(r Rule) string {
	switch x := r.(type) {
	case *SingleSub:
		return "sub " + pattern(x.Context, Sequence{x.In}) + " by " + element(x.Out) + ";"
	case *MultipleSub:
		out := "NULL"
		if len(x.Out) > 0 {
			out = sequence(x.Out)
		}
		return "sub " + pattern(x.Context, Sequence{x.In}) + " by " + out + ";"
	case *AlternateSub:
		return "sub " + pattern(x.Context, Sequence{x.In}) + " from " + classRef(x.Alternates) + ";"
	case *LigatureSub:
		return "sub " + pattern(x.Context, x.In) + " by " + element(x.Out) + ";"
	case *ChainSub:
		return "sub " + pattern(x.Context, x.Input) + ";"
	case *ReverseChainSub:
		return "rsub " + pattern(x.Context, Sequence{x.In}) + " by " + element(x.Out) + ";"
	case *IgnoreSub:
		kw := "ignore sub "
		if x.Reverse {
			kw = "ignore rsub "
		}
		patterns := make([]string, len(x.Patterns))
		for i, p := range x.Patterns {
			patterns[i] = pattern(p.Context, p.Input)
		}
		return kw + strings.Join(patterns, ", ") + ";"
	case *Positioning:
		return span(x.Span)
	}
	invariant(false, "unknown rule type %T", r)
	return ""
}

func pattern(ctx Context, input Sequence) string {
	parts := make([]string, 0, len(ctx.Backtrack)+len(input)+len(ctx.Lookahead))
	for _, seq := range []Sequence{ctx.Backtrack, input, ctx.Lookahead} {
		if len(seq) > 0 {
			parts = append(parts, sequence(seq))
		}
	}
	return strings.Join(parts, " ")
}

func sequence(seq Sequence) string {
	parts := make([]string, len(seq))
	for i, e := range seq {
		parts[i] = element(e)
	}
	return strings.Join(parts, " ")
}

func element(e Element) string {
	var s string
	if e.Class != nil {
		s = classRef(e.Class)
	} else {
		s = glyphName(e.Glyph)
	}
	if e.Marked {
		s += "'"
	}
	for _, name := range e.Lookups {
		s += " lookup " + name
	}
	return s
}

func classRef(c *GlyphClass) string {
	if c.Name != "" {
		return "@" + c.Name
	}
	return "[" + classItems(c) + "]"
}

func classItems(c *GlyphClass) string {
	parts := make([]string, len(c.Items))
	for i, item := range c.Items {
		switch {
		case item.Class != nil:
			parts[i] = "@" + item.Class.Name
		case item.RangeEnd != "":
			parts[i] = glyphName(item.Glyph) + " - " + glyphName(item.RangeEnd)
		default:
			parts[i] = glyphName(item.Glyph)
		}
	}
	return strings.Join(parts, " ")
}

// span writes fragments with their original spacing, omitting the spacing in
// front of the first one.
func span(frags []Fragment) string {
	var b strings.Builder
	for i, frag := range frags {
		if i > 0 {
			b.WriteString(frag.Lead)
		}
		switch {
		case frag.Class != nil:
			b.WriteString(classRef(frag.Class))
		case frag.Glyph:
			b.WriteString(glyphName(frag.Text))
		default:
			b.WriteString(frag.Text)
		}
	}
	return b.String()
}

// glyphName escapes glyph names colliding with keywords.
func glyphName(g string) string {
	if fealex.IsKeyword(g) {
		return `\` + g
	}
	return g
}

func extension(use bool) string {
	if use {
		return " useExtension"
	}
	return ""
}
