/*
Package ot provides OpenType tags and their conventions, as used by
feature files and the tools working on them.

OpenType identifies scripts, language systems and features by 4-byte tags.
Tags shorter than 4 characters are padded with spaces ('lao ', 'yi  ').
By convention, script tags and feature tags are lower case, language system tags
are upper case. The two wildcard tags are 'DFLT' (script) and 'dflt' (language).
Package `ot` normalizes tags accordingly, and maps ISO 15924 scripts and BCP 47
languages onto OpenType tags.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

Script tags:
https://docs.microsoft.com/en-us/typography/opentype/spec/scripttags

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.fea'
func tracer() tracing.Trace {
	return tracing.Select("font.fea")
}
