// Package sqlite stores dashboard settings in a local SQLite file, for
// single-node deployments without PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/storage"
)

var tracer = otel.Tracer("bankreco/sqlite")

const settingsTable = "ui_settings"

const settingsSchema = `
CREATE TABLE IF NOT EXISTS ui_settings (
	setting_key TEXT PRIMARY KEY,
	value       BLOB NOT NULL,
	compression TEXT NOT NULL DEFAULT 'none',
	updated_at  TIMESTAMP NOT NULL
)`

var _ columns.Store = (*SettingsStore)(nil)

// SettingsStore keeps UI settings documents in SQLite.
type SettingsStore struct {
	db    *sql.DB
	codec *storage.Codec
}

// Open opens (or creates) the database at path and its schema. Use
// ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, codec *storage.Codec) (*SettingsStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// one writer; also keeps an in-memory database on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, settingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s: %w", settingsTable, err)
	}
	return &SettingsStore{db: db, codec: codec}, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

type settingRow struct {
	Value       []byte `db:"value"`
	Compression string `db:"compression"`
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
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
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

	stored, algo := s.codec.Encode(value)
	query, args, err := builder().
		Insert(settingsTable).
		Columns("setting_key", "value", "compression", "updated_at").
		Values(key, stored, string(algo), time.Now().UTC()).
		Suffix("ON CONFLICT (setting_key) DO UPDATE SET " +
			"value = excluded.value, compression = excluded.compression, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	query, args, err := builder().
		Delete(settingsTable).
		Where(squirrel.Eq{"setting_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

// Ping checks the database.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SettingsStore) Close() error {
	return s.db.Close()
}
