package dto

import "bankreco/internal/domain/columns"

// RegisterTableRequest registers a list table. Columns may be omitted
// when Entity names an entity definition: its list fields are used.
type RegisterTableRequest struct {
	TableID   string              `json:"tableId" binding:"required"`
	TableName string              `json:"tableName"`
	Columns   []columns.ColumnDef `json:"columns"`
	Entity    string              `json:"entity"`
	Order     *int                `json:"order"`
	Pathname  string              `json:"pathname"`
}

// OrderOrDefault returns the requested order or columns.DefaultOrder.
func (r RegisterTableRequest) OrderOrDefault() int {
	if r.Order == nil {
		return columns.DefaultOrder
	}
	return *r.Order
}

// UpdateVisibilityRequest shows or hides a column.
type UpdateVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// VisibilityResponse answers a visibility query.
type VisibilityResponse struct {
	TableID  string `json:"tableId"`
	ColumnID string `json:"columnId"`
	Visible  bool   `json:"visible"`
}

// TableListResponse lists registered tables.
type TableListResponse struct {
	Items []columns.TableInfo `json:"items"`
}
