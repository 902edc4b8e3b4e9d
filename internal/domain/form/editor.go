package form

import (
	"context"
	"maps"
	"sync"

	"bankreco/internal/core/apperror"
	"bankreco/internal/core/i18n"
	"bankreco/pkg/logger"
)

// Mode of a detail card.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Callbacks connect an Editor to its owner. The owner keeps the record;
// every field change is reported through OnDataChange. Nil callbacks are
// skipped.
type Callbacks struct {
	OnDataChange func(partial map[string]any)
	OnSave       func(ctx context.Context, data map[string]any) error
	OnDelete     func(ctx context.Context, id string) error
	OnRefresh    func(ctx context.Context) (map[string]any, error)
	OnBack       func()
}

// State is a point-in-time view of an Editor.
type State struct {
	Mode       Mode           `json:"mode"`
	Saving     bool           `json:"saving"`
	Deleting   bool           `json:"deleting"`
	Refreshing bool           `json:"refreshing"`
	Data       map[string]any `json:"data"`
}

// Busy reports whether a save, delete or refresh is in flight.
func (s State) Busy() bool {
	return s.Saving || s.Deleting || s.Refreshing
}

// Editor drives the view/edit lifecycle of one record card.
type Editor struct {
	cfg Config
	cb  Callbacks
	log *logger.Logger

	mu       sync.Mutex
	mode     Mode
	data     map[string]any
	original map[string]any
	saving   bool
	deleting bool

	refreshGen    uint64
	refreshCancel context.CancelFunc
}

// NewEditor creates an editor in view mode over data.
func NewEditor(cfg Config, data map[string]any, cb Callbacks, log *logger.Logger) *Editor {
	if log == nil {
		log = logger.Nop()
	}
	return &Editor{
		cfg:  cfg,
		cb:   cb,
		log:  log.WithComponent("form"),
		mode: ModeView,
		data: maps.Clone(data),
	}
}

// State returns a copy of the editor state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() State {
	data := maps.Clone(e.data)
	if data == nil {
		data = map[string]any{}
	}
	return State{
		Mode:       e.mode,
		Saving:     e.saving,
		Deleting:   e.deleting,
		Refreshing: e.refreshCancel != nil,
		Data:       data,
	}
}

// Layout renders the record in the current mode.
func (e *Editor) Layout(lang i18n.Lang, lookups map[string][]Option) (Layout, error) {
	e.mu.Lock()
	data := maps.Clone(e.data)
	editing := e.mode == ModeEdit
	e.mu.Unlock()

	return Render(e.cfg, data, Options{Editing: editing, Lang: lang, LookupOptions: lookups})
}

// Edit switches to edit mode, remembering the record for Cancel.
func (e *Editor) Edit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeEdit {
		return
	}
	e.mode = ModeEdit
	e.original = maps.Clone(e.data)
}

// Cancel leaves edit mode and restores the record as it was on Edit.
func (e *Editor) Cancel() {
	e.mu.Lock()
	if e.mode != ModeEdit {
		e.mu.Unlock()
		return
	}
	e.mode = ModeView
	restored := e.original
	e.data = maps.Clone(restored)
	e.original = nil
	e.mu.Unlock()

	if restored != nil && e.cb.OnDataChange != nil {
		e.cb.OnDataChange(maps.Clone(restored))
	}
}

// Change applies a partial update. Fields the current mode renders
// disabled are rejected; keys that are not form fields pass through.
func (e *Editor) Change(partial map[string]any) error {
	if len(partial) == 0 {
		return nil
	}

	e.mu.Lock()
	editing := e.mode == ModeEdit
	for name := range partial {
		for _, f := range e.cfg.Fields {
			if f.Field == name && IsDisabled(f, editing) {
				e.mu.Unlock()
				return apperror.NewValidation("field is read-only").WithDetail("field", name)
			}
		}
	}
	if e.data == nil {
		e.data = make(map[string]any, len(partial))
	}
	maps.Copy(e.data, partial)
	e.mu.Unlock()

	if e.cb.OnDataChange != nil {
		e.cb.OnDataChange(maps.Clone(partial))
	}
	return nil
}

// Save hands the record to OnSave. The editor returns to view mode only
// when the save succeeds; on failure it stays in edit mode and the error
// is logged and returned. A save while another is running is rejected.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return apperror.NewBusy("save")
	}
	e.saving = true
	data := maps.Clone(e.data)
	e.mu.Unlock()

	var err error
	if e.cb.OnSave != nil {
		err = e.cb.OnSave(ctx, data)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if err != nil {
		e.log.WithContext(ctx).Warnw("save failed", "error", err)
		return err
	}
	e.mode = ModeView
	e.original = nil
	return nil
}

// Delete hands the record id to OnDelete. A delete while another is
// running is rejected.
func (e *Editor) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.deleting {
		e.mu.Unlock()
		return apperror.NewBusy("delete")
	}
	e.deleting = true
	e.mu.Unlock()

	var err error
	if e.cb.OnDelete != nil {
		err = e.cb.OnDelete(ctx, id)
	}

	e.mu.Lock()
	e.deleting = false
	e.mu.Unlock()

	if err != nil {
		e.log.WithContext(ctx).Warnw("delete failed", "id", id, "error", err)
		return err
	}
	return nil
}

// Refresh reloads the record through OnRefresh. Starting a refresh
// cancels the one in flight; a result that arrives after a newer refresh
// started is dropped, so the record never goes back to older data.
func (e *Editor) Refresh(ctx context.Context) error {
	if e.cb.OnRefresh == nil {
		return nil
	}

	e.mu.Lock()
	if e.refreshCancel != nil {
		e.refreshCancel()
	}
	e.refreshGen++
	gen := e.refreshGen
	ctx, cancel := context.WithCancel(ctx)
	e.refreshCancel = cancel
	e.mu.Unlock()

	data, err := e.cb.OnRefresh(ctx)
	cancel()

	e.mu.Lock()
	if gen != e.refreshGen {
		e.mu.Unlock()
		e.log.WithContext(ctx).Debugw("discarding superseded refresh", "generation", gen)
		return context.Canceled
	}
	e.refreshCancel = nil
	if err != nil {
		e.mu.Unlock()
		e.log.WithContext(ctx).Warnw("refresh failed", "error", err)
		return err
	}
	e.data = maps.Clone(data)
	e.mu.Unlock()

	if e.cb.OnDataChange != nil {
		e.cb.OnDataChange(maps.Clone(data))
	}
	return nil
}

// Back leaves the card.
func (e *Editor) Back() {
	if e.cb.OnBack != nil {
		e.cb.OnBack()
	}
}
