package domain

import "unicode"

// Language is a closed catalog language tag.
type Language string

// Recognised language tags. LanguageAll marks mixed or undetermined
// content and lives only in the aggregate catalog.
const (
	LanguageKorean   Language = "ko"
	LanguageEnglish  Language = "en"
	LanguageChinese  Language = "ch"
	LanguageJapanese Language = "jp"
	LanguageAll      Language = "all"
)

// Languages lists every recognised tag, aggregate last.
func Languages() []Language {
	return []Language{LanguageKorean, LanguageEnglish, LanguageChinese, LanguageJapanese, LanguageAll}
}

// Valid reports whether the tag is one of the recognised values.
func (l Language) Valid() bool {
	switch l {
	case LanguageKorean, LanguageEnglish, LanguageChinese, LanguageJapanese, LanguageAll:
		return true
	}
	return false
}

// ParseLanguage normalises a user-supplied tag, defaulting to the
// aggregate for empty input.
func ParseLanguage(s string) (Language, error) {
	if s == "" {
		return LanguageAll, nil
	}
	l := Language(s)
	if !l.Valid() {
		return "", ErrUnknownLanguage
	}
	return l, nil
}

// Script ranges used by DetectLanguage. Hangul covers both complete
// syllables and compatibility jamo; CJK Unified Ideographs are treated
// as Chinese; Hiragana and Katakana as Japanese.
var (
	hangulRange = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x3131, Hi: 0x318e, Stride: 1}, // compatibility jamo
			{Lo: 0xac00, Hi: 0xd7a3, Stride: 1}, // syllables
		},
	}
	cjkRange = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
		},
	}
	kanaRange = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // hiragana
			{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // katakana
		},
	}
)

// DetectLanguage classifies free text into a catalog language tag.
//
// Each script family is tested independently and contributes one tag
// when present. Only Latin letters match the English predicate, so
// punctuation, digits and symbols never influence the verdict. Exactly
// one matched tag yields that tag; zero or several yield
// (LanguageAll, mixed=true) and the message is stored only in the
// aggregate catalog.
//
// Deterministic and pure; no external calls.
func DetectLanguage(text string) (Language, bool) {
	var hasKorean, hasChinese, hasJapanese, hasLatin bool
	for _, r := range text {
		switch {
		case unicode.Is(hangulRange, r):
			hasKorean = true
		case unicode.Is(cjkRange, r):
			hasChinese = true
		case unicode.Is(kanaRange, r):
			hasJapanese = true
		case r < 0x80 && unicode.IsLetter(r):
			hasLatin = true
		}
	}

	matched := make([]Language, 0, 4)
	if hasKorean {
		matched = append(matched, LanguageKorean)
	}
	if hasChinese {
		matched = append(matched, LanguageChinese)
	}
	if hasJapanese {
		matched = append(matched, LanguageJapanese)
	}
	if hasLatin {
		matched = append(matched, LanguageEnglish)
	}

	if len(matched) == 1 {
		return matched[0], false
	}
	return LanguageAll, true
}
