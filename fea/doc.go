/*
Package fea reads, subsets and writes OpenType feature files.

Feature files describe the OpenType layout features of a font in the text syntax
of the Adobe Font Development Kit for OpenType (AFDKO), e.g.

	languagesystem DFLT dflt;
	languagesystem latn dflt;

	@figures = [zero - nine];

	feature liga {
	    sub f i by f_i;
	} liga;

Parse reads feature file source into a Feature. A Feature is immutable: the
model is organized as top-level items (language systems, glyph class
definitions, lookups, feature blocks), with every statement within a block
carrying the script and language system it has been declared for.

Subset derives a new Feature restricted to a script, a language and,
optionally, a set of glyph names. Rules referencing glyphs outside of the glyph
set are removed or, in case of glyph classes, rewritten to the intersection of
the class and the glyph set. Blocks and lookups becoming empty are dropped.

Write serializes a Feature to canonical feature file syntax.

Constructs which are not relevant for subsetting (anchors, value records,
device tables, table blocks, feature names and the like) are kept as opaque
token spans and written verbatim. References to glyph classes within these
spans are resolved nevertheless, so that subsetting is able to rewrite them.

# Links

Feature file syntax:
https://adobe-type-tools.github.io/afdko/OpenTypeFeatureFileSpecification.html

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fea

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.fea'
func tracer() tracing.Trace {
	return tracing.Select("font.fea")
}

// invariant panics if an internal invariant does not hold.
func invariant(condition bool, format string, args ...any) {
	if !condition {
		panic(fmt.Sprintf("fea: internal error: "+format, args...))
	}
}
