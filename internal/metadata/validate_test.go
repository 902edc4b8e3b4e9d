package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankreco/internal/core/i18n"
)

func fieldNames(fields []EntityField) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return names
}

func TestSortFields(t *testing.T) {
	fields := []EntityField{
		{Field: "three", Order: 3},
		{Field: "one", Order: 1},
		{Field: "two", Order: 2},
	}
	assert.Equal(t, []string{"one", "two", "three"}, fieldNames(SortFields(fields)))
	assert.Equal(t, "three", fields[0].Field, "input is left untouched")
}

func TestSortFields_StableOnTies(t *testing.T) {
	fields := []EntityField{
		{Field: "b"},
		{Field: "a"},
		{Field: "z", Order: -1},
		{Field: "c"},
	}
	assert.Equal(t, []string{"z", "b", "a", "c"}, fieldNames(SortFields(fields)))
}

func TestListFields(t *testing.T) {
	hidden := false
	def := EntityDefinition{
		Name: "Company",
		Fields: []EntityField{
			{Field: "name", Type: TypeString, Order: 2},
			{Field: "address", Type: TypeTextarea, Order: 1, ShowList: &hidden},
			{Field: "code", Type: TypeString, Order: 1},
		},
	}
	assert.Equal(t, []string{"code", "name"}, fieldNames(def.ListFields()))
}

func TestAllFieldTypesAreValid(t *testing.T) {
	for _, ft := range AllFieldTypes() {
		assert.True(t, ft.IsValid(), ft)
	}
	assert.False(t, FieldType("Money").IsValid())
}

func TestListColumns(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	company, ok := reg.Get("Company")
	require.True(t, ok)

	defs := ListColumns(company, i18n.EN)
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	// sorted by order across tabs, declaration order on ties
	assert.Equal(t, []string{"logo", "code", "email", "name", "phone", "is_active", "created_at"}, ids)
	assert.Equal(t, "Name", defs[3].Label)

	noLabel := EntityDefinition{Name: "X", Fields: []EntityField{{Field: "raw", Type: TypeString}}}
	assert.Equal(t, "raw", ListColumns(noLabel, i18n.FR)[0].Label)
}
