// Package main provides a CLI for the stored dashboard settings.
// Usage: settings show <user-id> [--pathname /admin/company]
//
//	settings reset <user-id>
//	settings copy <user-id> --from local.db
//	settings schema
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/storage"
	"bankreco/internal/infrastructure/storage/postgres"
	"bankreco/internal/infrastructure/storage/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "show":
		showSettings(ctx)
	case "reset":
		resetSettings(ctx)
	case "copy":
		copySettings(ctx)
	case "schema":
		ensureSchema(ctx)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Bankreco Settings CLI

Usage:
  settings <command> [options]

Commands:
  show      Print the column settings of a user
  reset     Delete the column settings of a user
  copy      Copy a user's settings from a local SQLite file to PostgreSQL
  schema    Create the PostgreSQL settings table
  help      Show this help

Environment Variables:
  DATABASE_URL    PostgreSQL connection string (settings are read from
                  SETTINGS_PATH when unset)
  SETTINGS_PATH   SQLite settings file (default bankreco-settings.db)

Examples:
  settings show 42 --pathname /admin/company
  settings reset 42
  settings copy 42 --from bankreco-settings.db
  settings schema`)
}

// flagValue returns the value following name in the arguments after the
// command, or "".
func flagValue(name string) string {
	for i := 2; i < len(os.Args)-1; i++ {
		if os.Args[i] == name {
			return os.Args[i+1]
		}
	}
	return ""
}

// userArg returns the positional user id.
func userArg(usage string) string {
	if len(os.Args) < 3 || strings.HasPrefix(os.Args[2], "--") {
		fmt.Println("Error: user id is required")
		fmt.Println("Usage: " + usage)
		os.Exit(1)
	}
	return os.Args[2]
}

func newCodec() *storage.Codec {
	codec, err := storage.NewCodec(storage.DefaultCompressThreshold)
	if err != nil {
		fail("init codec", err)
	}
	return codec
}

// openStore opens the store the server uses: PostgreSQL when DATABASE_URL
// is set, the SQLite file otherwise.
func openStore(ctx context.Context) (columns.Store, func()) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		store, closeFn := openPostgres(ctx, dsn)
		return store, closeFn
	}

	path := os.Getenv("SETTINGS_PATH")
	if path == "" {
		path = "bankreco-settings.db"
	}
	store, err := sqlite.Open(ctx, path, newCodec())
	if err != nil {
		fail("open settings file", err)
	}
	return store, func() { _ = store.Close() }
}

func openPostgres(ctx context.Context, dsn string) (*postgres.SettingsStore, func()) {
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		fail("connect to database", err)
	}
	return postgres.NewSettingsStore(postgres.NewTxManager(pool), newCodec()), pool.Close
}

func showSettings(ctx context.Context) {
	userID := userArg("settings show <user-id> [--pathname <route>]")
	store, closeFn := openStore(ctx)
	defer closeFn()

	data, err := store.Load(ctx, columns.UserKey(userID))
	if err != nil {
		fail("load settings", err)
	}
	if data == nil {
		fmt.Printf("No settings stored for user %s\n", userID)
		return
	}

	// A non-persistent registry keeps the CLI read-only.
	reg, err := columns.Restore(data)
	if err != nil {
		fail("decode settings", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATHNAME\tTABLE\tORDER\tVISIBLE\tHIDDEN")
	for _, t := range reg.GetAllTables(flagValue("--pathname")) {
		var hidden []string
		for _, c := range t.Columns {
			if !c.Visible {
				hidden = append(hidden, c.ID)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			t.Pathname, t.TableID, t.Order,
			strings.Join(t.VisibleColumns(), ","), strings.Join(hidden, ","))
	}
	_ = w.Flush()
}

func resetSettings(ctx context.Context) {
	userID := userArg("settings reset <user-id>")
	store, closeFn := openStore(ctx)
	defer closeFn()

	if err := store.Delete(ctx, columns.UserKey(userID)); err != nil {
		fail("delete settings", err)
	}
	fmt.Printf("Settings of user %s deleted\n", userID)
}

func copySettings(ctx context.Context) {
	userID := userArg("settings copy <user-id> --from <sqlite-file>")
	from := flagValue("--from")
	dsn := os.Getenv("DATABASE_URL")
	if from == "" || dsn == "" {
		fmt.Println("Error: --from and DATABASE_URL are required")
		os.Exit(1)
	}

	src, err := sqlite.Open(ctx, from, newCodec())
	if err != nil {
		fail("open "+from, err)
	}
	defer src.Close()

	dst, closeFn := openPostgres(ctx, dsn)
	defer closeFn()

	key := columns.UserKey(userID)
	data, err := src.Load(ctx, key)
	if err != nil {
		fail("load settings", err)
	}
	if data == nil {
		fmt.Printf("No settings stored for user %s in %s\n", userID, from)
		return
	}
	if err := dst.Save(ctx, key, data); err != nil {
		fail("save settings", err)
	}
	fmt.Printf("Copied %d bytes of settings for user %s\n", len(data), userID)
}

func ensureSchema(ctx context.Context) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("Error: DATABASE_URL environment variable is required")
		os.Exit(1)
	}
	store, closeFn := openPostgres(ctx, dsn)
	defer closeFn()

	if err := store.EnsureSchema(ctx); err != nil {
		fail("create settings table", err)
	}
	fmt.Println("Settings table ready")
}

func fail(action string, err error) {
	fmt.Printf("Error: failed to %s: %v\n", action, err)
	os.Exit(1)
}
