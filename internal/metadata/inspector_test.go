package metadata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditFields struct {
	CreatedAt time.Time `json:"created_at" entity:"disabled,nocard"`
}

type sampleIdentification struct {
	auditFields
	ID           int             `json:"id" entity:"-"`
	Label        string          `json:"label" entity:"required"`
	Bank         int             `json:"bank" entity:"lookup=Bank,tab=1"`
	Amount       decimal.Decimal `json:"amount"`
	ContactEmail string          `json:"contact_email"`
	WebsiteURL   string          `json:"website_url,omitempty"`
	IsActive     bool            `json:"is_active"`
	Comment      string          `json:"comment" entity:"nolist,order=50"`
	internal     string
	Ignored      string `json:"-"`
}

func TestInspect(t *testing.T) {
	def := Inspect(sampleIdentification{}, "PaymentIdentification", "/payment-identifications/")

	assert.Equal(t, "PaymentIdentification", def.Name)
	assert.Equal(t, "/payment-identifications/", def.APIURI)
	require.NoError(t, def.Validate())

	want := map[string]FieldType{
		"created_at":    TypeDate,
		"label":         TypeString,
		"bank":          TypeLookup,
		"amount":        TypeNumber,
		"contact_email": TypeEmail,
		"website_url":   TypeURL,
		"is_active":     TypeBoolean,
		"comment":       TypeTextarea,
	}
	assert.Len(t, def.Fields, len(want))
	for name, typ := range want {
		f, ok := def.FieldByName(name)
		require.True(t, ok, name)
		assert.Equal(t, typ, f.Type, name)
	}

	created, _ := def.FieldByName("created_at")
	assert.True(t, created.Disabled)
	assert.False(t, created.InCard())

	bank, _ := def.FieldByName("bank")
	assert.Equal(t, "Bank", bank.LookupEntity)
	assert.Equal(t, 1, bank.Tab)

	comment, _ := def.FieldByName("comment")
	assert.Equal(t, 50, comment.Order)
	assert.False(t, comment.InList())

	label, _ := def.FieldByName("label")
	assert.True(t, label.Required)
}

func TestGuessLabel(t *testing.T) {
	assert.Equal(t, "Tax ID", guessLabel("TaxID"))
	assert.Equal(t, "IBAN Code", guessLabel("IBANCode"))
	assert.Equal(t, "Name", guessLabel("Name"))
	assert.Equal(t, "Website URL", guessLabel("WebsiteURL"))
}
