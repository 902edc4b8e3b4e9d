package columns

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var companyColumns = []ColumnDef{
	{ID: "logo", Label: "Logo"},
	{ID: "code", Label: "Code"},
	{ID: "name", Label: "Name"},
}

func TestRegistry_RegisterTwiceIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "Table", defs("a", "b"), 1, "/x")
	first, ok := r.GetTableInfo("t1", "/x")
	require.True(t, ok)

	r.RegisterTable("t1", "Table", defs("a", "b"), 1, "/x")
	second, ok := r.GetTableInfo("t1", "/x")
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Len(t, r.GetAllTables(""), 1)
}

func TestRegistry_ReRegisterPreservesVisibility(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "Table", defs("A"), DefaultOrder, "")
	r.UpdateColumnVisibility("t1", "A", false, "")

	r.RegisterTable("t1", "Table", defs("A", "B"), DefaultOrder, "")

	info, ok := r.GetTableInfo("t1", "")
	require.True(t, ok)
	assert.Equal(t, []Column{
		{ID: "A", Label: "A", Visible: false},
		{ID: "B", Label: "B", Visible: true},
	}, info.Columns)
}

func TestRegistry_ReRegisterPrunesColumns(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "Table", defs("A", "B", "C"), DefaultOrder, "")
	r.RegisterTable("t1", "Table", defs("A", "C"), DefaultOrder, "")

	info, _ := r.GetTableInfo("t1", "")
	_, found := info.Column("B")
	assert.False(t, found)
	assert.Len(t, info.Columns, 2)
}

func TestRegistry_ScopedByPathname(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "On X", defs("a"), 1, "/x")
	r.RegisterTable("t1", "On Y", defs("a"), 1, "/y")

	x := r.GetAllTables("/x")
	require.Len(t, x, 1)
	assert.Equal(t, "On X", x[0].TableName)

	y := r.GetAllTables("/y")
	require.Len(t, y, 1)
	assert.Equal(t, "On Y", y[0].TableName)

	assert.Len(t, r.GetAllTables(""), 2)
}

func TestRegistry_DefaultVisibleFallback(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.IsColumnVisible("unknown-table", "any-col", ""))

	r.RegisterTable("t1", "Table", defs("a"), 1, "")
	r.UpdateColumnVisibility("t1", "a", false, "")
	assert.False(t, r.IsColumnVisible("t1", "a", ""))
	assert.True(t, r.IsColumnVisible("t1", "unknown-col", ""))
	assert.True(t, r.IsColumnVisible("t1", "a", "/other"))
}

func TestRegistry_UnregisterTablesByPathname(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "T1", defs("a"), 1, "/x")
	r.RegisterTable("t2", "T2", defs("a"), 2, "/x")
	r.RegisterTable("t1", "T1", defs("a"), 1, "/y")

	r.UnregisterTablesByPathname("/x")

	assert.Empty(t, r.GetAllTables("/x"))
	assert.Len(t, r.GetAllTables("/y"), 1)
}

func TestRegistry_UnregisterTablesByPathname_MatchesKeyPrefix(t *testing.T) {
	r, store := loadedRegistry(t, `{"/x:legacy":{"tableId":"legacy","tableName":"Legacy","columns":[],"order":1,"pathname":""}}`)
	defer r.Close(context.Background())

	r.UnregisterTablesByPathname("/x")
	assert.Empty(t, r.GetAllTables(""))

	require.NoError(t, r.Flush(context.Background()))
	data, _ := store.Load(context.Background(), "k")
	assert.JSONEq(t, `{}`, string(data))
}

func TestRegistry_UnregisterTable(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "T1", defs("a"), 1, "/x")

	r.UnregisterTable("missing", "/x")
	r.UnregisterTable("t1", "")
	_, ok := r.GetTableInfo("t1", "/x")
	assert.True(t, ok, "bare key must not remove a route-scoped table")

	r.UnregisterTable("t1", "/x")
	_, ok = r.GetTableInfo("t1", "/x")
	assert.False(t, ok)
}

func TestRegistry_UpdateColumnVisibility_UnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.UpdateColumnVisibility("missing", "a", false, "")
	r.RegisterTable("t1", "T1", defs("a"), 1, "")
	r.UpdateColumnVisibility("t1", "missing", false, "")

	info, _ := r.GetTableInfo("t1", "")
	assert.Equal(t, []Column{{ID: "a", Label: "a", Visible: true}}, info.Columns)
}

func TestRegistry_GetAllTablesSortedByOrder(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("late", "Late", defs("a"), DefaultOrder, "/p")
	r.RegisterTable("first", "First", defs("a"), 1, "/p")
	r.RegisterTable("second", "Second", defs("a"), 2, "/p")

	tables := r.GetAllTables("/p")
	require.Len(t, tables, 3)
	assert.Equal(t, "first", tables[0].TableID)
	assert.Equal(t, "second", tables[1].TableID)
	assert.Equal(t, "late", tables[2].TableID)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("t1", "T1", defs("a"), 1, "")

	info, _ := r.GetTableInfo("t1", "")
	info.Columns[0].Visible = false

	assert.True(t, r.IsColumnVisible("t1", "a", ""))
}

func TestRegistry_CompanyScenario(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("company-list", "Companies", companyColumns, 1, "/admin/company")
	r.UpdateColumnVisibility("company-list", "logo", false, "/admin/company")

	info, ok := r.GetTableInfo("company-list", "/admin/company")
	require.True(t, ok)
	assert.Equal(t, []Column{
		{ID: "logo", Label: "Logo", Visible: false},
		{ID: "code", Label: "Code", Visible: true},
		{ID: "name", Label: "Name", Visible: true},
	}, info.Columns)

	r.RegisterTable("company-list", "Companies", []ColumnDef{
		{ID: "code", Label: "Code"},
		{ID: "name", Label: "Name"},
		{ID: "users", Label: "Users"},
	}, 1, "/admin/company")

	info, _ = r.GetTableInfo("company-list", "/admin/company")
	assert.Equal(t, []Column{
		{ID: "code", Label: "Code", Visible: true},
		{ID: "name", Label: "Name", Visible: true},
		{ID: "users", Label: "Users", Visible: true},
	}, info.Columns)
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.RegisterTable("t", "T", defs("a", "b"), 1, "/p")
			r.UpdateColumnVisibility("t", "a", i%2 == 0, "/p")
			_ = r.GetAllTables("/p")
			_ = r.IsColumnVisible("t", "b", "/p")
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.GetAllTables("/p"), 1)
}

// --- persistence ---

func loadedRegistry(t *testing.T, stored string) (*Registry, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	if stored != "" {
		require.NoError(t, store.Save(context.Background(), "k", []byte(stored)))
	}
	r, err := Load(context.Background(), store, "k", nil)
	require.NoError(t, err)
	return r, store
}

func TestRegistry_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, store := loadedRegistry(t, "")

	r.RegisterTable("company-list", "Companies", companyColumns, 1, "/admin/company")
	r.RegisterTable("banks", "Banks", defs("code", "name"), DefaultOrder, "")
	r.UpdateColumnVisibility("company-list", "logo", false, "/admin/company")
	r.RegisterTable("tmp", "Tmp", defs("x"), 3, "/tmp")
	r.UnregisterTablesByPathname("/tmp")
	require.NoError(t, r.Close(ctx))

	reloaded, err := Load(ctx, store, "k", nil)
	require.NoError(t, err)
	defer reloaded.Close(ctx)

	assert.Equal(t, r.GetAllTables(""), reloaded.GetAllTables(""))
	assert.False(t, reloaded.IsColumnVisible("company-list", "logo", "/admin/company"))
	_, ok := reloaded.GetTableInfo("tmp", "/tmp")
	assert.False(t, ok)
}

func TestRegistry_SnapshotShape(t *testing.T) {
	r := NewRegistry()
	r.RegisterTable("banks", "Banks", defs("code"), 2, "/admin/bank")

	data, err := r.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"/admin/bank:banks": {
			"tableId": "banks",
			"tableName": "Banks",
			"columns": [{"id": "code", "label": "code", "visible": true}],
			"order": 2,
			"pathname": "/admin/bank"
		}
	}`, string(data))
}

func TestLoad_CorruptDataStartsEmpty(t *testing.T) {
	r, _ := loadedRegistry(t, `{"broken":`)
	defer r.Close(context.Background())

	assert.Empty(t, r.GetAllTables(""))
	assert.True(t, r.IsColumnVisible("any", "col", ""))
}

type failingStore struct {
	*MemoryStore
	mu      sync.Mutex
	loadErr error
	saveErr error
}

func (s *failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(ctx, key)
}

func (s *failingStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, key, value)
}

func (s *failingStore) setSaveErr(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

func TestLoad_StoreErrorIsReturned(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), loadErr: errors.New("db down")}
	_, err := Load(context.Background(), store, "k", nil)
	assert.ErrorContains(t, err, "db down")
}

func TestLoad_UndecodableStoredValueStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{
		MemoryStore: NewMemoryStore(),
		loadErr:     fmt.Errorf("decode setting: %w: bad frame", ErrCorrupt),
	}

	r, err := Load(ctx, store, "k", nil)
	require.NoError(t, err)
	defer r.Close(ctx)
	assert.Empty(t, r.GetAllTables(""))

	// the next mutation replaces the unreadable value
	r.RegisterTable("t1", "T1", defs("a"), 1, "")
	require.NoError(t, r.Flush(ctx))
	data, err := store.MemoryStore.Load(ctx, "k")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tableId":"t1"`)
}

func TestRegistry_FailedSaveIsRetriedOnFlush(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	store.setSaveErr(errors.New("disk full"))

	r, err := Load(ctx, store, "k", nil)
	require.NoError(t, err)
	defer r.Close(ctx)

	r.RegisterTable("t1", "T1", defs("a"), 1, "")
	// Either the background writer or Flush hits the failure; the
	// snapshot stays pending in both cases.
	_ = r.Flush(ctx)

	store.setSaveErr(nil)
	require.NoError(t, r.Flush(ctx))

	data, err := store.MemoryStore.Load(ctx, "k")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tableId":"t1"`)
}

func TestRestore(t *testing.T) {
	src := NewRegistry()
	src.RegisterTable("company-list", "Companies", companyColumns, 1, "/admin/company")
	src.UpdateColumnVisibility("company-list", "code", false, "/admin/company")

	data, err := src.Snapshot()
	require.NoError(t, err)

	r, err := Restore(data)
	require.NoError(t, err)
	assert.False(t, r.IsColumnVisible("company-list", "code", "/admin/company"))
	assert.Equal(t, src.GetAllTables(""), r.GetAllTables(""))

	// Restored registries never write back.
	r.Clear()
	require.NoError(t, r.Close(t.Context()))

	_, err = Restore([]byte("{"))
	assert.Error(t, err)
}
