package ot

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// ScriptTagForScript returns the OpenType script tag for an ISO 15924 script.
// Scripts with a "new" Indic-style shaping tag (e.g. 'dev2') are mapped to
// their old-style tag ('deva'), which is what feature files usually declare.
//
// Derived from harfbuzz/src/hb-ot-tag.cc.
func ScriptTagForScript(script language.Script) Tag {
	s := script.String()
	switch s {
	case "", "Zzzz", "Zyyy", "Zinh":
		return DFLT
	case "Hira", "Kana", "Hrkt":
		return T("kana") // Katakana and Hiragana both map to 'kana'
	case "Laoo":
		return T("lao ") // spaces at the end are preserved, unlike ISO 15924
	case "Yiii":
		return T("yi  ")
	case "Nkoo":
		return T("nko ")
	case "Vaii":
		return T("vai ")
	case "Zmth":
		return T("math")
	}
	return ScriptTag(s)
}

// LanguageTagForLanguage returns the OpenType language system tag for a BCP 47
// language. If the base language cannot be determined with a confidence of at
// least minConf, dflt is returned.
func LanguageTagForLanguage(lang language.Tag, minConf language.Confidence) Tag {
	base, conf := lang.Base()
	if conf < minConf {
		return DFLTLang
	}
	iso3 := base.ISO3()
	if iso3 == "" || iso3 == "und" {
		return DFLTLang
	}
	if tag, ok := iso639toOT[iso3]; ok {
		return LanguageTag(tag)
	}
	return LanguageTag(iso3)
}

// ResolveScript interprets a script given on a command line or in a
// configuration. Inputs may be OpenType tags ("latn", "dev2", "DFLT") or
// ISO 15924 codes ("Latn", "Laoo").
func ResolveScript(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "dflt") {
		return DFLT, nil
	}
	if len(s) > 4 {
		return 0, fmt.Errorf("invalid script tag %q: longer than 4 characters", s)
	}
	if len(s) < 4 || strings.IndexFunc(s, unicode.IsDigit) >= 0 || isLower(s) {
		return ScriptTag(s), nil
	}
	if scr, err := language.ParseScript(s); err == nil {
		tag := ScriptTagForScript(scr)
		tracer().Debugf("script %q resolved to OpenType script tag '%s'", s, tag)
		return tag, nil
	}
	return ScriptTag(s), nil
}

// ResolveLanguage interprets a language given on a command line or in a
// configuration. Inputs may be OpenType language tags ("TRK", "dflt") or
// BCP 47 language identifiers ("tr", "de-CH").
func ResolveLanguage(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "dflt") {
		return DFLTLang, nil
	}
	if len(s) <= 4 && isUpper(s) {
		return LanguageTag(s), nil
	}
	lang, err := language.Parse(s)
	if err != nil {
		if len(s) <= 4 {
			return LanguageTag(s), nil
		}
		return 0, fmt.Errorf("invalid language %q: %w", s, err)
	}
	tag := LanguageTagForLanguage(lang, language.Low)
	tracer().Debugf("language %q resolved to OpenType language tag '%s'", s, tag)
	return tag, nil
}

func isLower(s string) bool {
	return strings.ToLower(s) == s
}

func isUpper(s string) bool {
	return strings.ToUpper(s) == s
}

// iso639toOT maps ISO 639-3 codes to OpenType language system tags where they
// differ, or where a language is commonly used in feature files.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/languagetags
var iso639toOT = map[string]string{
	"aze": "AZE",
	"bel": "BEL",
	"ben": "BEN",
	"bul": "BGR",
	"cat": "CAT",
	"ces": "CSY",
	"chv": "CHU",
	"crh": "CRT",
	"cym": "WEL",
	"dan": "DAN",
	"deu": "DEU",
	"ell": "ELL",
	"eng": "ENG",
	"est": "ETI",
	"eus": "EUQ",
	"fas": "FAR",
	"fin": "FIN",
	"fra": "FRA",
	"gle": "IRI",
	"glg": "GAL",
	"guj": "GUJ",
	"heb": "IWR",
	"hin": "HIN",
	"hrv": "HRV",
	"hun": "HUN",
	"isl": "ISL",
	"ita": "ITA",
	"jpn": "JAN",
	"kan": "KAN",
	"kaz": "KAZ",
	"khm": "KHM",
	"kir": "KIR",
	"kor": "KOR",
	"lav": "LVI",
	"lit": "LTH",
	"mal": "MAL",
	"mar": "MAR",
	"mkd": "MKD",
	"mlt": "MTS",
	"mon": "MNG",
	"mya": "BRM",
	"nep": "NEP",
	"nld": "NLD",
	"nor": "NOR",
	"ori": "ORI",
	"pan": "PAN",
	"pol": "PLK",
	"por": "PTG",
	"ron": "ROM",
	"rus": "RUS",
	"san": "SAN",
	"slk": "SKY",
	"slv": "SLV",
	"spa": "ESP",
	"sqi": "SQI",
	"srp": "SRB",
	"swe": "SVE",
	"tam": "TAM",
	"tat": "TAT",
	"tel": "TEL",
	"tgk": "TAJ",
	"tha": "THA",
	"tur": "TRK",
	"ukr": "UKR",
	"urd": "URD",
	"uzb": "UZB",
	"vie": "VIT",
	"zho": "ZHS",
}
