package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/storage"
)

const settingsTable = "sys_ui_settings"

const settingsSchema = `
CREATE TABLE IF NOT EXISTS sys_ui_settings (
	setting_key TEXT PRIMARY KEY,
	value       BYTEA NOT NULL,
	compression TEXT NOT NULL DEFAULT 'none',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var _ columns.Store = (*SettingsStore)(nil)

// SettingsStore keeps UI settings documents (one per key) in the
// sys_ui_settings table. Large values are zstd-compressed.
type SettingsStore struct {
	txm   *TxManager
	codec *storage.Codec
	now   func() time.Time
}

// NewSettingsStore creates a store.
func NewSettingsStore(txm *TxManager, codec *storage.Codec) *SettingsStore {
	return &SettingsStore{txm: txm, codec: codec, now: time.Now}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

type settingRow struct {
	Value       []byte `db:"value"`
	Compression string `db:"compression"`
}

// EnsureSchema creates the settings table if needed.
func (s *SettingsStore) EnsureSchema(ctx context.Context) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.txm.GetQuerier(ctx).Exec(ctx, settingsSchema); err != nil {
			return fmt.Errorf("create %s: %w", settingsTable, err)
		}
		return nil
	})
}

// Load returns the value stored under key, or nil if there is none.
func (s *SettingsStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "settings.load", trace.WithAttributes(attribute.String("settings.key", key)))
	defer span.End()

	query, args, err := builder().
		Select("value", "compression").
		From(settingsTable).
		Where(squirrel.Eq{"setting_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row settingRow
	if err := pgxscan.Get(ctx, s.txm.GetQuerier(ctx), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load setting %q: %w", key, err)
	}
	value, err := s.codec.Decode(row.Value, storage.CompressionAlgo(row.Compression))
	if err != nil {
		return nil, fmt.Errorf("decode setting %q: %w: %w", key, columns.ErrCorrupt, err)
	}
	return value, nil
}

// Save stores value under key, replacing any previous value.
func (s *SettingsStore) Save(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "settings.save", trace.WithAttributes(
		attribute.String("settings.key", key),
		attribute.Int("settings.size", len(value)),
	))
	defer span.End()

	query, args, err := s.upsert(key, value)
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	return nil
}

func (s *SettingsStore) upsert(key string, value []byte) (string, []any, error) {
	stored, algo := s.codec.Encode(value)
	return builder().
		Insert(settingsTable).
		Columns("setting_key", "value", "compression", "updated_at").
		Values(key, stored, string(algo), s.now().UTC()).
		Suffix("ON CONFLICT (setting_key) DO UPDATE SET " +
			"value = EXCLUDED.value, compression = EXCLUDED.compression, updated_at = EXCLUDED.updated_at").
		ToSql()
}

// Delete removes key. Missing keys are ignored.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "settings.delete", trace.WithAttributes(attribute.String("settings.key", key)))
	defer span.End()

	query, args, err := builder().
		Delete(settingsTable).
		Where(squirrel.Eq{"setting_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return s.txm.pool.Ping(ctx)
}
