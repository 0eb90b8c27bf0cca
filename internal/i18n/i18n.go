// Package i18n holds the widget's message tables and locale handling.
package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys
const (
	KeyClickForDetails = "clickForDetails"
	KeyClickToRetry    = "clickToRetry"
	KeyConfigureServer = "configureServer"
	KeyConnectFailed   = "connectFailed"
	KeyFetchFailed     = "fetchFailed"
	KeyLinesOfCode     = "linesOfCode"
	KeyLoading         = "loading"
	KeyNoServer        = "noServer"
	KeyNoServerHint    = "noServerHint"
	KeyPollFailed      = "pollFailed"
	KeyPollTimeout     = "pollTimeout"
	KeyTitle           = "title"
)

// Supported locales
const (
	LocaleEnglish = "en"
	LocaleChinese = "zh"
)

var messages = map[string]map[string]string{
	LocaleChinese: {
		KeyClickForDetails: "点击查看详情",
		KeyClickToRetry:    "点击重试",
		KeyConfigureServer: "请先运行 repolines config 配置服务器地址",
		KeyConnectFailed:   "连接服务器失败",
		KeyFetchFailed:     "获取失败",
		KeyLinesOfCode:     "行代码",
		KeyLoading:         "正在统计中...",
		KeyNoServer:        "请先配置服务器",
		KeyNoServerHint:    "运行 repolines config 设置",
		KeyPollFailed:      "获取统计失败",
		KeyPollTimeout:     "统计超时，请稍后重试",
		KeyTitle:           "代码统计",
	},
	LocaleEnglish: {
		KeyClickForDetails: "Click for details",
		KeyClickToRetry:    "Click to retry",
		KeyConfigureServer: "Run repolines config to set the statistics server first",
		KeyConnectFailed:   "Could not reach the server",
		KeyFetchFailed:     "Failed to fetch",
		KeyLinesOfCode:     "lines of code",
		KeyLoading:         "Counting...",
		KeyNoServer:        "Configure a server first",
		KeyNoServerHint:    "Run repolines config",
		KeyPollFailed:      "Failed to fetch statistics",
		KeyPollTimeout:     "Counting timed out, try again later",
		KeyTitle:           "Code Stats",
	},
}

// Translator resolves message keys for the active locale
type Translator struct {
	locale  string
	mu      sync.RWMutex
	printer *message.Printer
}

// New returns a Translator for locale; unsupported locales fall back to English
func New(locale string) *Translator {
	t := &Translator{}
	if !t.SetLocale(locale) {
		t.SetLocale(LocaleEnglish)
	}
	return t
}

// Detect picks the first supported locale from the preferred list
// (persisted preference first, then environment values like LANG).
func Detect(preferred ...string) string {
	for _, p := range preferred {
		if code := Match(p); code != "" {
			return code
		}
	}
	return LocaleEnglish
}

// Match maps a language identifier such as "zh_CN.UTF-8" or "en-US" to a
// supported locale code, or "" when it is not supported.
func Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ReplaceAll(raw, "_", "-")
	if raw == "" || raw == "C" || raw == "POSIX" {
		return ""
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	switch base.String() {
	case LocaleChinese:
		return LocaleChinese
	case LocaleEnglish:
		return LocaleEnglish
	}
	return ""
}

// T returns the message for key; unknown keys are returned unchanged
func (t *Translator) T(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if msg, ok := messages[t.locale][key]; ok {
		return msg
	}
	if msg, ok := messages[LocaleEnglish][key]; ok {
		return msg
	}
	return key
}

// FormatCount groups digits the way the locale does (1,234,567)
func (t *Translator) FormatCount(n int64) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.printer.Sprintf("%d", n)
}

// Locale returns the active locale code
func (t *Translator) Locale() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locale
}

// SetLocale switches the active locale. Returns false for unsupported locales.
func (t *Translator) SetLocale(locale string) bool {
	code := Match(locale)
	if code == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.locale = code
	t.printer = message.NewPrinter(language.Make(code))
	return true
}

// Locales returns the supported locale codes
func Locales() []string {
	return []string{LocaleChinese, LocaleEnglish}
}
