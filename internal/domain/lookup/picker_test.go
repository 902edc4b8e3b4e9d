package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var banks = []Record{
	{"id": 1, "code": "BMCE", "name": "Bank of Africa"},
	{"id": 2, "code": "CIH", "name": "CIH Bank"},
	{"id": 3, "code": "ATW", "name": "Attijariwafa", "city": nil},
}

func staticFetcher(records []Record) FetcherFunc {
	return func(context.Context, string) ([]Record, error) { return records, nil }
}

func TestMatch(t *testing.T) {
	tests := []struct {
		query string
		want  []any
	}{
		{"", []any{1, 2, 3}},
		{"bank", []any{1, 2}},
		{"ATTIJARI", []any{3}},
		{" bank", []any{2}},
		{"  attijari ", nil},
		{"3", []any{3}},
		{"nil", nil},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []any
			for _, r := range Match(banks, tt.query) {
				ids = append(ids, r["id"])
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSize_Next(t *testing.T) {
	assert.Equal(t, SizeLarge, SizeSmall.Next())
	assert.Equal(t, SizeXLarge, SizeLarge.Next())
	assert.Equal(t, SizeSmall, SizeXLarge.Next())
	assert.Equal(t, SizeSmall, Size("").Next())
}

func TestPicker_ToggleSizeCycles(t *testing.T) {
	p := NewPicker(staticFetcher(nil), Config{}, nil)
	assert.Equal(t, SizeSmall, p.State().Size)
	assert.Equal(t, SizeLarge, p.ToggleSize())
	assert.Equal(t, SizeXLarge, p.ToggleSize())
	assert.Equal(t, SizeSmall, p.ToggleSize())
}

func TestPicker_OpenFilterSelect(t *testing.T) {
	var gotURI string
	var selected Record
	var selectedField string

	fetcher := FetcherFunc(func(_ context.Context, uri string) ([]Record, error) {
		gotURI = uri
		return banks, nil
	})
	p := NewPicker(fetcher, Config{
		URI:       "/banks/",
		FieldName: "bank",
		OnItemSelected: func(r Record, field string) {
			selected = r
			selectedField = field
		},
	}, nil)

	require.NoError(t, p.Open(context.Background()))
	assert.Equal(t, "/banks/", gotURI)

	state := p.State()
	assert.True(t, state.Open)
	assert.False(t, state.Loading)
	assert.Equal(t, 3, state.Total)

	visible := p.Filter("cih")
	require.Len(t, visible, 1)
	assert.Equal(t, 1, p.State().Visible)

	record, err := p.Select(0)
	require.NoError(t, err)
	assert.Equal(t, banks[1], record)
	assert.Equal(t, banks[1], selected)
	assert.Equal(t, "bank", selectedField)

	state = p.State()
	assert.False(t, state.Open)
	assert.Empty(t, state.Query)
}

func TestPicker_SelectOutOfRange(t *testing.T) {
	called := false
	p := NewPicker(staticFetcher(banks), Config{
		OnItemSelected: func(Record, string) { called = true },
	}, nil)
	require.NoError(t, p.Open(context.Background()))

	_, err := p.Select(5)
	assert.Error(t, err)
	_, err = p.Select(-1)
	assert.Error(t, err)
	assert.False(t, called)
	assert.True(t, p.State().Open)
}

func TestPicker_FetchErrorAndRetry(t *testing.T) {
	boom := errors.New("no response")
	fail := true
	fetcher := FetcherFunc(func(context.Context, string) ([]Record, error) {
		if fail {
			return nil, boom
		}
		return banks, nil
	})
	p := NewPicker(fetcher, Config{URI: "/banks/"}, nil)

	err := p.Open(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.Err(), boom)
	assert.Equal(t, "no response", p.State().Error)
	assert.Empty(t, p.Visible())

	fail = false
	require.NoError(t, p.Retry(context.Background()))
	assert.NoError(t, p.Err())
	assert.Empty(t, p.State().Error)
	assert.Len(t, p.Visible(), 3)
}

func TestPicker_SupersededFetchDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	fetcher := FetcherFunc(func(ctx context.Context, _ string) ([]Record, error) {
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
			return banks, nil
		}
		return banks[:1], nil
	})
	p := NewPicker(fetcher, Config{}, nil)

	first := make(chan error, 1)
	go func() { first <- p.Open(context.Background()) }()
	<-slowStarted

	require.NoError(t, p.Retry(context.Background()))
	err := <-first
	assert.True(t, IsCanceled(err))
	assert.Len(t, p.Visible(), 1)
	assert.False(t, p.State().Loading)
}

func TestPicker_CloseAbandonsFetch(t *testing.T) {
	started := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, _ string) ([]Record, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := NewPicker(fetcher, Config{}, nil)

	done := make(chan error, 1)
	go func() { done <- p.Open(context.Background()) }()
	<-started

	p.Close()
	assert.True(t, IsCanceled(<-done))
	assert.NoError(t, p.Err())
	assert.False(t, p.State().Open)
}
