package columns

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bankreco/pkg/logger"
)

// Registry maps (pathname, tableId) pairs to table column settings.
// All methods are safe for concurrent use. Mutations return immediately;
// the resulting snapshot is persisted in the background when the registry
// was created with Load.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]TableInfo

	persist   *persister
	closeOnce sync.Once
	closeErr  error
}

// NewRegistry creates an empty, non-persistent registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]TableInfo)}
}

// Load restores the registry stored under key and persists every later
// mutation back to it. Corrupt stored data is logged and discarded: the
// registry then starts empty. Only a failing store returns an error.
func Load(ctx context.Context, store Store, key string, log *logger.Logger) (*Registry, error) {
	if log == nil {
		log = logger.Nop()
	}

	data, err := store.Load(ctx, key)
	if errors.Is(err, ErrCorrupt) {
		log.Warnw("discarding corrupt column settings", "key", key, "error", err)
		data, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load column settings %q: %w", key, err)
	}

	r := NewRegistry()
	if len(data) > 0 {
		tables, err := decodeSnapshot(data)
		if err != nil {
			log.Warnw("discarding corrupt column settings", "key", key, "error", err)
		} else {
			r.tables = tables
		}
	}

	r.persist = newPersister(store, key, log)
	return r, nil
}

// Restore builds a non-persistent registry from a snapshot produced by
// Snapshot.
func Restore(data []byte) (*Registry, error) {
	tables, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode column settings: %w", err)
	}
	r := NewRegistry()
	r.tables = tables
	return r, nil
}

// RegisterTable inserts a table or merges it with the existing
// registration under the same composite key (see MergeColumns). Calling it
// repeatedly with the same arguments changes nothing.
func (r *Registry) RegisterTable(tableID, tableName string, defs []ColumnDef, order int, pathname string) {
	key := Key(tableID, pathname)

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.tables[key]
	next := TableInfo{
		TableID:   tableID,
		TableName: tableName,
		Columns:   MergeColumns(current.Columns, defs),
		Order:     order,
		Pathname:  pathname,
	}

	if existing, ok := r.tables[key]; ok && existing.equal(next) {
		return
	}
	r.tables[key] = next
	r.changedLocked()
}

// UnregisterTable removes a table. Unknown tables are ignored.
func (r *Registry) UnregisterTable(tableID, pathname string) {
	key := Key(tableID, pathname)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[key]; !ok {
		return
	}
	delete(r.tables, key)
	r.changedLocked()
}

// UnregisterTablesByPathname removes every table registered on pathname,
// matched either by the stored pathname or by the "pathname:" key prefix.
func (r *Registry) UnregisterTablesByPathname(pathname string) {
	prefix := pathname + ":"

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, t := range r.tables {
		if t.Pathname == pathname || strings.HasPrefix(key, prefix) {
			delete(r.tables, key)
			removed++
		}
	}
	if removed > 0 {
		r.changedLocked()
	}
}

// UpdateColumnVisibility sets the visibility of one column. Unknown
// tables and columns are ignored.
func (r *Registry) UpdateColumnVisibility(tableID, columnID string, visible bool, pathname string) {
	key := Key(tableID, pathname)

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[key]
	if !ok {
		return
	}
	i := slices.IndexFunc(t.Columns, func(c Column) bool { return c.ID == columnID })
	if i < 0 || t.Columns[i].Visible == visible {
		return
	}

	t = t.clone()
	t.Columns[i].Visible = visible
	r.tables[key] = t
	r.changedLocked()
}

// GetTableInfo returns a copy of the registered table.
func (r *Registry) GetTableInfo(tableID, pathname string) (TableInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[Key(tableID, pathname)]
	if !ok {
		return TableInfo{}, false
	}
	return t.clone(), true
}

// GetAllTables returns the tables registered on pathname, or every table
// when pathname is empty, sorted ascending by order. Ties are broken by
// composite key so the result is deterministic.
func (r *Registry) GetAllTables(pathname string) []TableInfo {
	r.mu.RLock()
	keys := make([]string, 0, len(r.tables))
	for key, t := range r.tables {
		if pathname == "" || t.Pathname == pathname {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	result := make([]TableInfo, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.tables[key].clone())
	}
	r.mu.RUnlock()

	slices.SortStableFunc(result, func(a, b TableInfo) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return result
}

// IsColumnVisible reports the stored visibility of a column, or
// DefaultVisible when the table or the column is unknown.
func (r *Registry) IsColumnVisible(tableID, columnID, pathname string) bool {
	t, ok := r.GetTableInfo(tableID, pathname)
	if !ok {
		return DefaultVisible
	}
	c, ok := t.Column(columnID)
	if !ok {
		return DefaultVisible
	}
	return c.Visible
}

// Clear removes every table.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.tables) == 0 {
		return
	}
	r.tables = make(map[string]TableInfo)
	r.changedLocked()
}

// Snapshot returns the JSON document persisted for this registry:
// an object keyed by composite key.
func (r *Registry) Snapshot() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return json.Marshal(r.tables)
}

// Flush blocks until the latest snapshot has been written.
func (r *Registry) Flush(ctx context.Context) error {
	if r.persist == nil {
		return nil
	}
	return r.persist.flush(ctx)
}

// Close stops the background writer after flushing pending changes.
func (r *Registry) Close(ctx context.Context) error {
	if r.persist == nil {
		return nil
	}
	r.closeOnce.Do(func() {
		r.closeErr = r.persist.close(ctx)
	})
	return r.closeErr
}

// changedLocked hands the current state to the persister. Called with
// r.mu held so snapshots are submitted in mutation order.
func (r *Registry) changedLocked() {
	if r.persist == nil {
		return
	}
	data, err := json.Marshal(r.tables)
	if err != nil {
		r.persist.log.Errorw("failed to encode column settings", "key", r.persist.key, "error", err)
		return
	}
	r.persist.submit(data)
}

func decodeSnapshot(data []byte) (map[string]TableInfo, error) {
	var tables map[string]TableInfo
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, err
	}
	if tables == nil {
		tables = make(map[string]TableInfo)
	}
	return tables, nil
}
