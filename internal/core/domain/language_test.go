package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage_SingleScript(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{name: "korean syllables", text: "안녕하세요 개발자님", want: LanguageKorean},
		{name: "korean jamo only", text: "ㅋㅋㅋ", want: LanguageKorean},
		{name: "chinese ideographs", text: "程序员的生活", want: LanguageChinese},
		{name: "hiragana", text: "こんにちは", want: LanguageJapanese},
		{name: "katakana", text: "プログラマー", want: LanguageJapanese},
		{name: "latin letters", text: "Hello world", want: LanguageEnglish},
		{name: "latin with punctuation and digits", text: "go build -o bin/app v1.2!", want: LanguageEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, mixed := DetectLanguage(tt.text)
			assert.Equal(t, tt.want, lang)
			assert.False(t, mixed)
		})
	}
}

func TestDetectLanguage_Mixed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "korean plus latin", text: "안녕 hello"},
		{name: "korean plus chinese", text: "안녕 你好"},
		{name: "japanese plus chinese", text: "こんにちは 你好"},
		{name: "three scripts", text: "안녕 こんにちは 你好"},
		{name: "cjk plus latin", text: "デバッグ debug 完了"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, mixed := DetectLanguage(tt.text)
			assert.Equal(t, LanguageAll, lang)
			assert.True(t, mixed)
		})
	}
}

func TestDetectLanguage_NoScript(t *testing.T) {
	// Digits, punctuation and emoji match no script predicate.
	lang, mixed := DetectLanguage("1234 !!! 🎉")
	assert.Equal(t, LanguageAll, lang)
	assert.True(t, mixed)
}

func TestDetectLanguage_LatinOnlyNeverMixed(t *testing.T) {
	inputs := []string{"a", "Hello", "ship it", "LGTM", "refactor the parser"}
	for _, text := range inputs {
		_, mixed := DetectLanguage(text)
		assert.False(t, mixed, "input %q", text)
	}
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, LanguageAll, lang)

	lang, err = ParseLanguage("ko")
	require.NoError(t, err)
	assert.Equal(t, LanguageKorean, lang)

	_, err = ParseLanguage("fr")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
