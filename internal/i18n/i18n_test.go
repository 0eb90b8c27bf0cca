package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", LocaleEnglish},
		{"en-US", LocaleEnglish},
		{"en_GB.UTF-8", LocaleEnglish},
		{"zh", LocaleChinese},
		{"zh_CN.UTF-8", LocaleChinese},
		{"zh-TW", LocaleChinese},
		{"C", ""},
		{"", ""},
		{"fr_FR.UTF-8", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.input))
		})
	}
}

func TestDetect_PrefersFirstSupported(t *testing.T) {
	assert.Equal(t, LocaleChinese, Detect("", "de_DE.UTF-8", "zh_CN.UTF-8", "en_US"))
	assert.Equal(t, LocaleEnglish, Detect("fr"))
	assert.Equal(t, LocaleEnglish, Detect())
}

func TestTranslator_Messages(t *testing.T) {
	tr := New("zh")
	assert.Equal(t, "代码统计", tr.T(KeyTitle))
	assert.Equal(t, LocaleChinese, tr.Locale())

	assert.True(t, tr.SetLocale("en-US"))
	assert.Equal(t, "Code Stats", tr.T(KeyTitle))
	assert.Equal(t, "unknownKey", tr.T("unknownKey"))

	assert.False(t, tr.SetLocale("fr"))
	assert.Equal(t, LocaleEnglish, tr.Locale())
}

func TestTranslator_UnsupportedFallsBackToEnglish(t *testing.T) {
	tr := New("de")
	assert.Equal(t, LocaleEnglish, tr.Locale())
}

func TestTranslator_FormatCount(t *testing.T) {
	tr := New("en")
	assert.Equal(t, "1,234,567", tr.FormatCount(1234567))
	assert.Equal(t, "0", tr.FormatCount(0))
}

func TestAllLocalesHaveSameKeys(t *testing.T) {
	for _, locale := range Locales() {
		assert.Len(t, messages[locale], len(messages[LocaleEnglish]), locale)
		for key := range messages[LocaleEnglish] {
			assert.Contains(t, messages[locale], key, locale)
		}
	}
}
