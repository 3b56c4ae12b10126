package ot

import (
	"strings"
)

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// DFLT is the script tag for features that are not script-specific.
// dflt is the language tag of a script's default language system.
const (
	DFLT     Tag = 0x44464c54 // 'DFLT'
	DFLTLang Tag = 0x64666c74 // 'dflt'
)

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate.
// Shorter byte slices are padded with spaces, following the OpenType convention.
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{' ', ' ', ' ', ' '}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append(append([]byte{}, b...), []byte{' ', ' ', ' ', ' '}[:4-len(b)]...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// Trimmed returns the tag as a string without its space padding, the way tags
// are written in feature files (`script lao;` for tag 'lao ').
func (t Tag) Trimmed() string {
	return strings.TrimRight(t.String(), " ")
}

// IsZero is true for the zero value, which is never a valid tag.
func (t Tag) IsZero() bool {
	return t == 0
}

// ScriptTag normalizes a script tag string according to OpenType conventions:
// script tags are lower case, with the exception of `DFLT`.
//
//	ScriptTag("Latn") => 'latn'
//	ScriptTag("dflt") => 'DFLT'
func ScriptTag(s string) Tag {
	return NormalizeScript(T(s))
}

// LanguageTag normalizes a language system tag string according to OpenType
// conventions: language tags are upper case, with the exception of `dflt`.
//
//	LanguageTag("trk")  => 'TRK '
//	LanguageTag("DFLT") => 'dflt'
func LanguageTag(s string) Tag {
	return NormalizeLanguage(T(s))
}

// NormalizeScript maps a tag to the canonical case of a script tag.
// The zero tag and the blank tag are normalized to DFLT.
func NormalizeScript(t Tag) Tag {
	if t == 0 {
		return DFLT
	}
	s := t.String()
	if strings.TrimSpace(s) == "" || strings.EqualFold(s, "dflt") {
		return DFLT
	}
	return T(strings.ToLower(s))
}

// NormalizeLanguage maps a tag to the canonical case of a language system tag.
// The zero tag and the blank tag are normalized to dflt.
func NormalizeLanguage(t Tag) Tag {
	if t == 0 {
		return DFLTLang
	}
	s := t.String()
	if strings.TrimSpace(s) == "" || strings.EqualFold(s, "dflt") {
		return DFLTLang
	}
	return T(strings.ToUpper(s))
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}
