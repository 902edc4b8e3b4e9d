package main

import (
	"fmt"

	"bankreco/internal/core/i18n"
	"bankreco/internal/infrastructure/backend"
	"bankreco/internal/metadata"
)

// setupMetadataRegistry loads the built-in entity definitions and adds
// the reconciliation entities derived from the backend models.
func setupMetadataRegistry() (*metadata.Registry, error) {
	reg, err := metadata.Default()
	if err != nil {
		return nil, err
	}

	register := func(entity any, name, apiURI string, list, card i18n.Text) error {
		def := metadata.Inspect(entity, name, apiURI)
		def.TitleList = list
		def.TitleForm = card
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		return nil
	}

	entities := []struct {
		entity     any
		name, uri  string
		list, card i18n.Text
	}{
		{
			backend.PaymentIdentification{}, "PaymentIdentification", "/payment-identifications/",
			i18n.Text{FR: "Identifications de paiement", EN: "Payment identifications"},
			i18n.Text{FR: "Identification de paiement", EN: "Payment identification"},
		},
		{
			backend.BankLedgerEntry{}, "BankLedgerEntry", "/bank-ledger-entries/",
			i18n.Text{FR: "Écritures bancaires", EN: "Bank ledger entries"},
			i18n.Text{FR: "Écriture bancaire", EN: "Bank ledger entry"},
		},
		{
			backend.CustomerLedgerEntry{}, "CustomerLedgerEntry", "/customer-ledger-entries/",
			i18n.Text{FR: "Écritures clients", EN: "Customer ledger entries"},
			i18n.Text{FR: "Écriture client", EN: "Customer ledger entry"},
		},
		{
			backend.ConventionParameter{}, "ConventionParameter", "/convention-parameters/",
			i18n.Text{FR: "Paramètres de convention", EN: "Convention parameters"},
			i18n.Text{FR: "Paramètre de convention", EN: "Convention parameter"},
		},
	}
	for _, e := range entities {
		if err := register(e.entity, e.name, e.uri, e.list, e.card); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
