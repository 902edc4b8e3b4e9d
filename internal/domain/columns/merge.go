package columns

// MergeColumns rebuilds a table's column list from a new set of column
// definitions. Columns present in both keep their current visibility,
// new columns start visible and columns missing from defs are dropped.
// The result follows the order of defs; duplicate ids keep their first
// occurrence. MergeColumns does not modify its arguments.
func MergeColumns(current []Column, defs []ColumnDef) []Column {
	visible := make(map[string]bool, len(current))
	for _, c := range current {
		visible[c.ID] = c.Visible
	}

	seen := make(map[string]struct{}, len(defs))
	merged := make([]Column, 0, len(defs))
	for _, d := range defs {
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}

		v, ok := visible[d.ID]
		if !ok {
			v = true
		}
		merged = append(merged, Column{ID: d.ID, Label: d.Label, Visible: v})
	}
	return merged
}
