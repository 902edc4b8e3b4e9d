package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defs(ids ...string) []ColumnDef {
	out := make([]ColumnDef, 0, len(ids))
	for _, id := range ids {
		out = append(out, ColumnDef{ID: id, Label: id})
	}
	return out
}

func TestMergeColumns(t *testing.T) {
	tests := []struct {
		name    string
		current []Column
		defs    []ColumnDef
		want    []Column
	}{
		{
			name: "new table defaults to visible",
			defs: defs("a", "b"),
			want: []Column{{ID: "a", Label: "a", Visible: true}, {ID: "b", Label: "b", Visible: true}},
		},
		{
			name:    "keeps hidden column and adds new one",
			current: []Column{{ID: "a", Label: "a", Visible: false}},
			defs:    defs("a", "b"),
			want:    []Column{{ID: "a", Label: "a", Visible: false}, {ID: "b", Label: "b", Visible: true}},
		},
		{
			name: "drops removed column",
			current: []Column{
				{ID: "a", Label: "a", Visible: true},
				{ID: "b", Label: "b", Visible: false},
				{ID: "c", Label: "c", Visible: false},
			},
			defs: defs("a", "c"),
			want: []Column{{ID: "a", Label: "a", Visible: true}, {ID: "c", Label: "c", Visible: false}},
		},
		{
			name:    "follows new order and labels",
			current: []Column{{ID: "a", Label: "old", Visible: false}, {ID: "b", Label: "b", Visible: true}},
			defs:    []ColumnDef{{ID: "b", Label: "B"}, {ID: "a", Label: "A"}},
			want:    []Column{{ID: "b", Label: "B", Visible: true}, {ID: "a", Label: "A", Visible: false}},
		},
		{
			name: "duplicate ids keep first occurrence",
			defs: []ColumnDef{{ID: "a", Label: "first"}, {ID: "a", Label: "second"}},
			want: []Column{{ID: "a", Label: "first", Visible: true}},
		},
		{
			name:    "empty definition clears columns",
			current: []Column{{ID: "a", Label: "a", Visible: true}},
			defs:    nil,
			want:    []Column{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeColumns(tt.current, tt.defs))
		})
	}
}

func TestMergeColumns_Idempotent(t *testing.T) {
	current := []Column{{ID: "a", Label: "a", Visible: false}}
	once := MergeColumns(current, defs("a", "b"))
	twice := MergeColumns(once, defs("a", "b"))
	assert.Equal(t, once, twice)
}

func TestMergeColumns_DoesNotMutateInput(t *testing.T) {
	current := []Column{{ID: "a", Label: "a", Visible: false}}
	_ = MergeColumns(current, defs("b"))
	assert.Equal(t, []Column{{ID: "a", Label: "a", Visible: false}}, current)
}
