// Package metadata describes the editable business entities of the
// dashboard (fields, tabs, labels, lookups) so forms and tables can be
// generated without per-entity code.
package metadata

import (
	"bankreco/internal/core/i18n"
)

// FieldType is the closed set of field kinds the form renderer knows.
type FieldType string

const (
	TypeString   FieldType = "String"
	TypeNumber   FieldType = "Number"
	TypeBoolean  FieldType = "Boolean"
	TypeDate     FieldType = "Date"
	TypeLookup   FieldType = "Lookup"
	TypeEmail    FieldType = "Email"
	TypePhone    FieldType = "Phone"
	TypeURL      FieldType = "Url"
	TypeTextarea FieldType = "Textarea"
	TypeImage    FieldType = "Image"
)

// AllFieldTypes returns every valid field type.
func AllFieldTypes() []FieldType {
	return []FieldType{
		TypeString,
		TypeNumber,
		TypeBoolean,
		TypeDate,
		TypeLookup,
		TypeEmail,
		TypePhone,
		TypeURL,
		TypeTextarea,
		TypeImage,
	}
}

// IsValid checks if the field type is known.
func (t FieldType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeLookup,
		TypeEmail, TypePhone, TypeURL, TypeTextarea, TypeImage:
		return true
	default:
		return false
	}
}

// EntityField describes one field of an entity.
type EntityField struct {
	Field        string    `json:"field" toml:"field"`
	Label        i18n.Text `json:"label" toml:"label"`
	Type         FieldType `json:"type" toml:"type"`
	Required     bool      `json:"required,omitempty" toml:"required"`
	Disabled     bool      `json:"disabled,omitempty" toml:"disabled"`
	Tab          int       `json:"tab,omitempty" toml:"tab"` // 0: not in any tab
	Order        int       `json:"order,omitempty" toml:"order"`
	ShowList     *bool     `json:"showList,omitempty" toml:"show_list"`
	ShowCard     *bool     `json:"showCard,omitempty" toml:"show_card"`
	LookupEntity string    `json:"lookupEntity,omitempty" toml:"lookup_entity"`

	// HiddenWhen is an optional CEL expression over `data` (the entity
	// record) and `editing`; the field is omitted when it yields true.
	HiddenWhen string `json:"hiddenWhen,omitempty" toml:"hidden_when"`
}

// InList reports whether the field is shown in list tables (default true).
func (f EntityField) InList() bool {
	return f.ShowList == nil || *f.ShowList
}

// InCard reports whether the field is shown on detail cards (default true).
func (f EntityField) InCard() bool {
	return f.ShowCard == nil || *f.ShowCard
}

// EntityTab groups fields with a matching Tab id.
type EntityTab struct {
	ID    int       `json:"id" toml:"id"`
	Title i18n.Text `json:"title" toml:"title"`
	Open  bool      `json:"open,omitempty" toml:"open"`
}

// Crumb is one breadcrumb entry of an entity page.
type Crumb struct {
	Label i18n.Text `json:"label" toml:"label"`
	Link  string    `json:"link,omitempty" toml:"link"`
}

// EntityDefinition is the read-only schema of an entity type.
type EntityDefinition struct {
	Name       string        `json:"name" toml:"name"`
	APIURI     string        `json:"apiURI" toml:"api_uri"`
	TitleList  i18n.Text     `json:"titleList" toml:"title_list"`
	TitleForm  i18n.Text     `json:"titleForm" toml:"title_form"`
	Breadcrumb []Crumb       `json:"breadcrumb,omitempty" toml:"breadcrumb"`
	Tabs       []EntityTab   `json:"tabs,omitempty" toml:"tabs"`
	Fields     []EntityField `json:"fields" toml:"fields"`
}

// FieldByName returns the field definition named name.
func (d EntityDefinition) FieldByName(name string) (EntityField, bool) {
	for _, f := range d.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return EntityField{}, false
}
