package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Record is an untyped backend row.
type Record = map[string]any

// Resource is a REST collection such as /banks/: list, detail and CRUD
// endpoints following the backend's trailing-slash convention.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds the collection at path to c.
func NewResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{c: c, path: "/" + strings.Trim(path, "/") + "/"}
}

// Path returns the collection path.
func (r Resource[T]) Path() string {
	return r.path
}

func (r Resource[T]) item(id string) string {
	return r.path + url.PathEscape(id) + "/"
}

// List fetches the collection. Both plain arrays and paginated
// {"results": [...]} answers are accepted.
func (r Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := r.c.Do(ctx, http.MethodGet, r.path, query, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

// Get fetches one item.
func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.Do(ctx, http.MethodGet, r.item(id), nil, nil, &out)
	return out, err
}

// Create posts a new item and returns the stored version.
func (r Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := r.c.Do(ctx, http.MethodPost, r.path, nil, item, &out)
	return out, err
}

// Update replaces an item.
func (r Resource[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var out T
	err := r.c.Do(ctx, http.MethodPut, r.item(id), nil, item, &out)
	return out, err
}

// Patch updates the given fields of an item.
func (r Resource[T]) Patch(ctx context.Context, id string, fields map[string]any) (T, error) {
	var out T
	err := r.c.Do(ctx, http.MethodPatch, r.item(id), nil, fields, &out)
	return out, err
}

// Delete removes an item.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("backend: decode page: %w", err)
		}
		if page.Results == nil {
			page.Results = []T{}
		}
		return page.Results, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("backend: decode list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Records returns an untyped view of any collection, used by lookups.
func (c *Client) Records(path string) Resource[Record] {
	return NewResource[Record](c, path)
}

func (c *Client) Companies() Resource[Company] { return NewResource[Company](c, "/companies/") }
func (c *Client) Banks() Resource[Bank]        { return NewResource[Bank](c, "/banks/") }
func (c *Client) Agencies() Resource[Agency]   { return NewResource[Agency](c, "/agencies/") }
func (c *Client) Users() Resource[User]        { return NewResource[User](c, "/users/") }

func (c *Client) PaymentIdentifications() Resource[PaymentIdentification] {
	return NewResource[PaymentIdentification](c, "/payment-identifications/")
}

func (c *Client) BankLedgerEntries() Resource[BankLedgerEntry] {
	return NewResource[BankLedgerEntry](c, "/bank-ledger-entries/")
}

func (c *Client) CustomerLedgerEntries() Resource[CustomerLedgerEntry] {
	return NewResource[CustomerLedgerEntry](c, "/customer-ledger-entries/")
}

func (c *Client) ConventionParameters() Resource[ConventionParameter] {
	return NewResource[ConventionParameter](c, "/convention-parameters/")
}
