// Package lookup models the modal picker used to choose a record of
// another entity for a lookup field.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bankreco/internal/core/apperror"
	"bankreco/pkg/logger"
)

// Record is one row returned by a lookup source.
type Record = map[string]any

// Fetcher loads the records behind a lookup URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]Record, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, uri string) ([]Record, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]Record, error) {
	return f(ctx, uri)
}

// Size is a modal size preset.
type Size string

const (
	SizeSmall  Size = "sm"
	SizeLarge  Size = "lg"
	SizeXLarge Size = "xl"
)

// Next returns the preset after s: sm, lg, xl, then sm again.
func (s Size) Next() Size {
	switch s {
	case SizeSmall:
		return SizeLarge
	case SizeLarge:
		return SizeXLarge
	default:
		return SizeSmall
	}
}

// Config describes one lookup field.
type Config struct {
	// URI is the list endpoint of the looked-up entity.
	URI string

	// FieldName is the form field the selection is written to.
	FieldName string

	// OnItemSelected receives the chosen record.
	OnItemSelected func(record Record, fieldName string)
}

// State is a point-in-time view of a Picker.
type State struct {
	Open    bool   `json:"open"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Size    Size   `json:"size"`
	Query   string `json:"query,omitempty"`
	Total   int    `json:"total"`
	Visible int    `json:"visible"`
}

// Picker is the state of a lookup modal. Fetches never retry on their
// own: after a failure the error is kept until Retry.
type Picker struct {
	fetcher Fetcher
	cfg     Config
	log     *logger.Logger

	mu      sync.Mutex
	open    bool
	records []Record
	query   string
	size    Size
	err     error

	gen    uint64
	cancel context.CancelFunc
}

// NewPicker creates a closed picker.
func NewPicker(fetcher Fetcher, cfg Config, log *logger.Logger) *Picker {
	if log == nil {
		log = logger.Nop()
	}
	return &Picker{
		fetcher: fetcher,
		cfg:     cfg,
		log:     log.WithComponent("lookup").With("uri", cfg.URI),
		size:    SizeSmall,
	}
}

// Open shows the modal and loads the records.
func (p *Picker) Open(ctx context.Context) error {
	p.mu.Lock()
	p.open = true
	p.query = ""
	p.mu.Unlock()
	return p.fetch(ctx)
}

// Retry reloads the records after a failure.
func (p *Picker) Retry(ctx context.Context) error {
	return p.fetch(ctx)
}

// fetch starts a new load, cancelling the one in flight. The result of a
// superseded load is discarded.
func (p *Picker) fetch(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.err = nil
	p.mu.Unlock()

	records, err := p.fetcher.Fetch(ctx, p.cfg.URI)
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return context.Canceled
	}
	p.cancel = nil
	if err != nil {
		p.err = err
		p.log.WithContext(ctx).Warnw("lookup fetch failed", "error", err)
		return err
	}
	p.records = records
	return nil
}

// Filter sets the search query and returns the matching records.
func (p *Picker) Filter(query string) []Record {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()
	return p.Visible()
}

// Visible returns the records matching the current query.
func (p *Picker) Visible() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Match(p.records, p.query)
}

// Select commits the visible record at index and closes the modal.
func (p *Picker) Select(index int) (Record, error) {
	visible := p.Visible()
	if index < 0 || index >= len(visible) {
		return nil, apperror.NewValidation("no record at this position").WithDetail("index", index)
	}
	record := visible[index]

	if p.cfg.OnItemSelected != nil {
		p.cfg.OnItemSelected(record, p.cfg.FieldName)
	}
	p.Close()
	return record, nil
}

// Close hides the modal and abandons any load in flight.
func (p *Picker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.open = false
	p.query = ""
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.gen++
	}
}

// ToggleSize moves to the next size preset.
func (p *Picker) ToggleSize() Size {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size = p.size.Next()
	return p.size
}

// State returns the picker state.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := State{
		Open:    p.open,
		Loading: p.cancel != nil,
		Size:    p.size,
		Query:   p.query,
		Total:   len(p.records),
		Visible: len(Match(p.records, p.query)),
	}
	if p.err != nil {
		s.Error = p.err.Error()
	}
	return s
}

// Err returns the last fetch error, if any.
func (p *Picker) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Match returns the records having at least one value whose text
// contains query, ignoring case. The query is used as typed, spaces
// included. An empty query matches everything.
func Match(records []Record, query string) []Record {
	q := strings.ToLower(query)
	if q == "" {
		return slices.Clone(records)
	}

	var matched []Record
	for _, r := range records {
		for _, v := range r {
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

// IsCanceled reports whether err comes from a superseded or closed fetch.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
