// Package columns provides the column visibility registry: per-route table
// registrations with user-chosen column visibility that survives
// re-registration and is persisted as a single JSON snapshot.
package columns

import "slices"

// DefaultOrder is used for tables registered without an explicit order,
// placing them after every explicitly ordered table.
const DefaultOrder = 999

// DefaultVisible is returned by IsColumnVisible for tables or columns the
// registry knows nothing about. Unconfigured data is shown, never hidden.
const DefaultVisible = true

// Column is a single table column and its visibility.
type Column struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// ColumnDef is a column as declared by the page registering a table.
type ColumnDef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TableInfo is a registered table on a given route.
type TableInfo struct {
	TableID   string   `json:"tableId"`
	TableName string   `json:"tableName"`
	Columns   []Column `json:"columns"`
	Order     int      `json:"order"`
	Pathname  string   `json:"pathname"`
}

// Key returns the composite registry key: "pathname:tableId", or the bare
// table id for tables registered without a route.
func Key(tableID, pathname string) string {
	if pathname == "" {
		return tableID
	}
	return pathname + ":" + tableID
}

// Column returns the column with the given id.
func (t TableInfo) Column(id string) (Column, bool) {
	for _, c := range t.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// VisibleColumns returns the ids of visible columns, in table order.
func (t TableInfo) VisibleColumns() []string {
	ids := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Visible {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (t TableInfo) clone() TableInfo {
	t.Columns = slices.Clone(t.Columns)
	return t
}

func (t TableInfo) equal(o TableInfo) bool {
	return t.TableID == o.TableID &&
		t.TableName == o.TableName &&
		t.Order == o.Order &&
		t.Pathname == o.Pathname &&
		slices.Equal(t.Columns, o.Columns)
}
