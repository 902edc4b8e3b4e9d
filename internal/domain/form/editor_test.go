package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankreco/internal/core/apperror"
	"bankreco/internal/core/i18n"
	"bankreco/internal/metadata"
)

var bankConfig = Config{Fields: []metadata.EntityField{
	{Field: "code", Type: metadata.TypeString, Required: true, Order: 1},
	{Field: "name", Type: metadata.TypeString, Order: 2},
	{Field: "is_active", Type: metadata.TypeBoolean, Order: 3},
	{Field: "created_at", Type: metadata.TypeDate, Disabled: true, Order: 4},
}}

func TestEditor_EditAndCancel(t *testing.T) {
	var changes []map[string]any
	e := NewEditor(bankConfig, map[string]any{"code": "BK"}, Callbacks{
		OnDataChange: func(p map[string]any) { changes = append(changes, p) },
	}, nil)

	assert.Equal(t, ModeView, e.State().Mode)

	e.Edit()
	require.NoError(t, e.Change(map[string]any{"code": "BK2"}))
	assert.Equal(t, "BK2", e.State().Data["code"])

	e.Cancel()
	state := e.State()
	assert.Equal(t, ModeView, state.Mode)
	assert.Equal(t, "BK", state.Data["code"])
	assert.Equal(t, []map[string]any{{"code": "BK2"}, {"code": "BK"}}, changes)
}

func TestEditor_ChangeRespectsDisabledRule(t *testing.T) {
	e := NewEditor(bankConfig, nil, Callbacks{}, nil)

	err := e.Change(map[string]any{"name": "x"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// booleans stay editable in view mode
	require.NoError(t, e.Change(map[string]any{"is_active": true}))
	assert.Equal(t, true, e.State().Data["is_active"])

	e.Edit()
	require.NoError(t, e.Change(map[string]any{"name": "x", "id": 4}))
	assert.Error(t, e.Change(map[string]any{"created_at": "2024-01-01"}))
}

func TestEditor_SaveSuccessReturnsToView(t *testing.T) {
	var saved map[string]any
	e := NewEditor(bankConfig, map[string]any{"code": "BK"}, Callbacks{
		OnSave: func(_ context.Context, data map[string]any) error {
			saved = data
			return nil
		},
	}, nil)

	e.Edit()
	require.NoError(t, e.Change(map[string]any{"name": "Bank"}))
	require.NoError(t, e.Save(context.Background()))

	assert.Equal(t, map[string]any{"code": "BK", "name": "Bank"}, saved)
	state := e.State()
	assert.Equal(t, ModeView, state.Mode)
	assert.False(t, state.Saving)
}

func TestEditor_SaveFailureStaysInEdit(t *testing.T) {
	boom := errors.New("code: this field must be unique")
	e := NewEditor(bankConfig, nil, Callbacks{
		OnSave: func(context.Context, map[string]any) error { return boom },
	}, nil)

	e.Edit()
	err := e.Save(context.Background())
	assert.ErrorIs(t, err, boom)

	state := e.State()
	assert.Equal(t, ModeEdit, state.Mode)
	assert.False(t, state.Saving)
}

func TestEditor_ConcurrentSaveRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	e := NewEditor(bankConfig, nil, Callbacks{
		OnSave: func(context.Context, map[string]any) error {
			close(started)
			<-release
			return nil
		},
	}, nil)
	e.Edit()

	done := make(chan error, 1)
	go func() { done <- e.Save(context.Background()) }()
	<-started

	assert.True(t, e.State().Saving)
	assert.True(t, e.State().Busy())

	err := e.Save(context.Background())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeBusy, appErr.Code)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, e.State().Busy())
}

func TestEditor_Delete(t *testing.T) {
	var deleted string
	e := NewEditor(bankConfig, nil, Callbacks{
		OnDelete: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}, nil)

	require.NoError(t, e.Delete(context.Background(), "42"))
	assert.Equal(t, "42", deleted)
	assert.False(t, e.State().Deleting)
}

func TestEditor_DeleteFailure(t *testing.T) {
	boom := errors.New("protected")
	e := NewEditor(bankConfig, nil, Callbacks{
		OnDelete: func(context.Context, string) error { return boom },
	}, nil)

	assert.ErrorIs(t, e.Delete(context.Background(), "1"), boom)
	assert.False(t, e.State().Deleting)
}

func TestEditor_RefreshReplacesData(t *testing.T) {
	var changed map[string]any
	e := NewEditor(bankConfig, map[string]any{"code": "old"}, Callbacks{
		OnRefresh: func(context.Context) (map[string]any, error) {
			return map[string]any{"code": "new"}, nil
		},
		OnDataChange: func(p map[string]any) { changed = p },
	}, nil)

	require.NoError(t, e.Refresh(context.Background()))
	assert.Equal(t, "new", e.State().Data["code"])
	assert.Equal(t, map[string]any{"code": "new"}, changed)
	assert.False(t, e.State().Refreshing)
}

func TestEditor_StaleRefreshDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	var calls int
	var mu sync.Mutex

	e := NewEditor(bankConfig, map[string]any{"code": "initial"}, Callbacks{
		OnRefresh: func(ctx context.Context) (map[string]any, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()

			if n == 1 {
				close(slowStarted)
				select {
				case <-ctx.Done():
				case <-time.After(5 * time.Second):
				}
				return map[string]any{"code": "stale"}, nil
			}
			return map[string]any{"code": "fresh"}, nil
		},
	}, nil)

	first := make(chan error, 1)
	go func() { first <- e.Refresh(context.Background()) }()
	<-slowStarted

	require.NoError(t, e.Refresh(context.Background()))
	assert.ErrorIs(t, <-first, context.Canceled)
	assert.Equal(t, "fresh", e.State().Data["code"])
	assert.False(t, e.State().Refreshing)
}

func TestEditor_RefreshFailureKeepsData(t *testing.T) {
	boom := errors.New("no response")
	e := NewEditor(bankConfig, map[string]any{"code": "BK"}, Callbacks{
		OnRefresh: func(context.Context) (map[string]any, error) { return nil, boom },
	}, nil)

	assert.ErrorIs(t, e.Refresh(context.Background()), boom)
	assert.Equal(t, "BK", e.State().Data["code"])
}

func TestEditor_LayoutFollowsMode(t *testing.T) {
	e := NewEditor(bankConfig, map[string]any{"code": "BK"}, Callbacks{}, nil)

	layout, err := e.Layout(i18n.FR, nil)
	require.NoError(t, err)
	assert.False(t, layout.Editing)
	assert.True(t, layout.Groups[0].Fields[0].Disabled)

	e.Edit()
	layout, err = e.Layout(i18n.FR, nil)
	require.NoError(t, err)
	assert.True(t, layout.Editing)
	assert.False(t, layout.Groups[0].Fields[0].Disabled)
	assert.Equal(t, "BK", layout.Groups[0].Fields[0].Value)
}

func TestEditor_Back(t *testing.T) {
	called := false
	e := NewEditor(bankConfig, nil, Callbacks{OnBack: func() { called = true }}, nil)
	e.Back()
	assert.True(t, called)

	NewEditor(bankConfig, nil, Callbacks{}, nil).Back()
}
