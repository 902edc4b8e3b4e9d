package metadata

import (
	"bankreco/internal/core/i18n"
	"bankreco/internal/domain/columns"
)

// ListColumns returns the column definitions of the entity's list table,
// labelled in lang, ready to be registered in a column registry.
func ListColumns(def EntityDefinition, lang i18n.Lang) []columns.ColumnDef {
	fields := def.ListFields()
	defs := make([]columns.ColumnDef, 0, len(fields))
	for _, f := range fields {
		label := f.Label.Get(lang)
		if label == "" {
			label = f.Field
		}
		defs = append(defs, columns.ColumnDef{ID: f.Field, Label: label})
	}
	return defs
}
