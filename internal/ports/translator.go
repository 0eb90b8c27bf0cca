package ports

// Translator resolves localized strings
type Translator interface {
	// T returns the message for key in the current locale
	T(key string) string

	// FormatCount formats n with the locale's digit grouping
	FormatCount(n int64) string

	// Locale returns the active locale code
	Locale() string

	// SetLocale switches the locale; unknown codes are ignored
	SetLocale(locale string) bool
}
