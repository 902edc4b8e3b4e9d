package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := map[string]Lang{
		"":                        FR,
		"en":                      EN,
		"EN-us":                   EN,
		"ar-MA,fr;q=0.8":          AR,
		"de-DE,en;q=0.8,fr;q=0.5": EN,
		"es":                      FR,
		" fr-FR , en;q=0.9":       FR,
	}
	for input, want := range tests {
		assert.Equal(t, want, Parse(input), "input %q", input)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Ce champ est obligatoire.", Translate(FR, "This field is required."))
	assert.Equal(t, "This field is required.", Translate(EN, "This field is required."))
	assert.Equal(t, "Sociétés", Translate(Lang("xx"), "table.company-list"))
	assert.Equal(t, "Companies", Translate(EN, "table.company-list"))
	assert.Equal(t, "unknown key", Translate(AR, "unknown key"))
}

func TestText_Get(t *testing.T) {
	text := Text{FR: "Banque", EN: "Bank"}
	assert.Equal(t, "Bank", text.Get(EN))
	assert.Equal(t, "Banque", text.Get(FR))
	assert.Equal(t, "Banque", text.Get(AR), "missing Arabic falls back to French")
	assert.Equal(t, "Only EN", Text{EN: "Only EN"}.Get(AR))
	assert.True(t, Text{}.IsZero())
}
