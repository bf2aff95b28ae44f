package valueobjects

import (
	pkgerrors "ideaforge-backend/pkg/errors"
)

// Locale identifies the language analyses and documents are produced in.
// The set is closed; unknown codes are rejected at construction.
type Locale struct {
	code string
}

var supportedLocales = map[string]bool{
	"en": true,
	"es": true,
}

// DefaultLocale is the locale used when a user has no preference set
func DefaultLocale() Locale {
	return Locale{code: "en"}
}

// NewLocale creates a Locale, failing for codes outside the supported set
func NewLocale(code string) (Locale, error) {
	if !supportedLocales[code] {
		return Locale{}, pkgerrors.NewInvalidValueError("unsupported locale: " + code).
			WithCode("UNSUPPORTED_LOCALE").
			WithDetail("code", code)
	}
	return Locale{code: code}, nil
}

// Code returns the locale code
func (l Locale) Code() string {
	return l.code
}

// Equals checks if two Locales are equal
func (l Locale) Equals(other Locale) bool {
	return l.code == other.code
}

// IsZero checks if the Locale is the zero value
func (l Locale) IsZero() bool {
	return l.code == ""
}
