// Package i18n holds the dashboard dictionaries (French, English, Arabic)
// and language negotiation helpers.
package i18n

import (
	"strings"
)

// Lang is a supported UI language.
type Lang string

const (
	FR Lang = "fr"
	EN Lang = "en"
	AR Lang = "ar"
)

// Default is the language used when none is negotiated.
const Default = FR

// Supported lists the supported languages in preference order.
func Supported() []Lang {
	return []Lang{FR, EN, AR}
}

// Parse resolves a language tag or an Accept-Language header value
// ("fr-FR,fr;q=0.9,en;q=0.8") to a supported language. Unknown values
// return Default.
func Parse(value string) Lang {
	for _, part := range strings.Split(value, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(tag, "-")
		switch Lang(strings.ToLower(base)) {
		case FR:
			return FR
		case EN:
			return EN
		case AR:
			return AR
		}
	}
	return Default
}

// Translate looks key up in the dictionary of lang; unsupported languages
// use the Default dictionary. Unknown keys are returned unchanged, which
// passes English backend messages through verbatim.
func Translate(lang Lang, key string) string {
	dict, ok := dictionaries[lang]
	if !ok {
		dict = dictionaries[Default]
	}
	if v, ok := dict[key]; ok {
		return v
	}
	return key
}

// Text is a label translated in every supported language.
type Text struct {
	FR string `json:"fr" toml:"fr"`
	EN string `json:"en" toml:"en"`
	AR string `json:"ar" toml:"ar"`
}

// Get returns the label in lang, falling back to French then English.
func (t Text) Get(lang Lang) string {
	var v string
	switch lang {
	case EN:
		v = t.EN
	case AR:
		v = t.AR
	default:
		v = t.FR
	}
	if v != "" {
		return v
	}
	if t.FR != "" {
		return t.FR
	}
	return t.EN
}

// IsZero reports whether no translation is set.
func (t Text) IsZero() bool {
	return t.FR == "" && t.EN == "" && t.AR == ""
}
