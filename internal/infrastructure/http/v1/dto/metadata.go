package dto

import (
	"bankreco/internal/core/i18n"
	"bankreco/internal/metadata"
)

// EntitySummary is an entry of the entity catalogue.
type EntitySummary struct {
	Name      string    `json:"name"`
	APIURI    string    `json:"apiURI"`
	TitleList i18n.Text `json:"titleList"`
	TitleForm i18n.Text `json:"titleForm"`
}

// FromEntity summarizes a definition.
func FromEntity(def metadata.EntityDefinition) EntitySummary {
	return EntitySummary{
		Name:      def.Name,
		APIURI:    def.APIURI,
		TitleList: def.TitleList,
		TitleForm: def.TitleForm,
	}
}

// LayoutRequest asks for the form layout of a record.
type LayoutRequest struct {
	Data map[string]any `json:"data"`

	// Mode is "view" (default) or "edit".
	Mode string `json:"mode" binding:"omitempty,oneof=view edit"`

	// WithOptions fills lookup fields with the choices fetched from the
	// backend.
	WithOptions bool `json:"withOptions"`
}

// LookupResponse is the answer of a lookup search.
type LookupResponse struct {
	Entity string           `json:"entity"`
	Query  string           `json:"query,omitempty"`
	Total  int              `json:"total"`
	Items  []map[string]any `json:"items"`
}
