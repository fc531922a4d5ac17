package language

import (
	"strings"

	"bartender/internal/textutil"
)

type entry struct {
	code2   string
	code3   string
	alt3    string
	display string
	voice   string
}

var languages = []entry{
	{"en", "eng", "", "English", "en-US-AriaNeural"},
	{"es", "spa", "", "Spanish", "es-ES-ElviraNeural"},
	{"fr", "fra", "fre", "French", "fr-FR-DeniseNeural"},
	{"de", "deu", "ger", "German", "de-DE-KatjaNeural"},
	{"it", "ita", "", "Italian", "it-IT-ElsaNeural"},
	{"pt", "por", "", "Portuguese", "pt-BR-FranciscaNeural"},
	{"ja", "jpn", "", "Japanese", "ja-JP-NanamiNeural"},
	{"ko", "kor", "", "Korean", "ko-KR-SunHiNeural"},
	{"zh", "zho", "chi", "Chinese", "zh-CN-XiaoxiaoNeural"},
	{"ru", "rus", "", "Russian", "ru-RU-SvetlanaNeural"},
	{"nl", "nld", "dut", "Dutch", "nl-NL-ColetteNeural"},
	{"pl", "pol", "", "Polish", "pl-PL-ZofiaNeural"},
	{"sv", "swe", "", "Swedish", "sv-SE-SofieNeural"},
	{"da", "dan", "", "Danish", "da-DK-ChristelNeural"},
	{"no", "nor", "", "Norwegian", "nb-NO-PernilleNeural"},
	{"fi", "fin", "", "Finnish", "fi-FI-NooraNeural"},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		byWord[strings.ToLower(e.display)] = e
	}
}

func lookup(value string) *entry {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}
	// Locale tags such as "es-MX" or "pt_BR" resolve through their base.
	if base, _, ok := strings.Cut(strings.ReplaceAll(value, "_", "-"), "-"); ok && len(base) == 2 {
		value = base
	}
	if e, ok := byCode2[value]; ok {
		return e
	}
	if e, ok := byCode3[value]; ok {
		return e
	}
	if e, ok := byWord[value]; ok {
		return e
	}
	return nil
}

// Resolve returns the display name for a recognized code or word. Anything
// else is returned through textutil.TitleCase.
// Blank input returns "".
func Resolve(value string) string {
	trimmed := strings.Join(strings.Fields(value), " ")
	if trimmed == "" {
		return ""
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	return textutil.TitleCase(trimmed)
}

// Voice returns the default neural voice for a recognized language, or "".
func Voice(value string) string {
	if e := lookup(value); e != nil {
		return e.voice
	}
	return ""
}
