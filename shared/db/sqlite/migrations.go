package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dfryer1193/apodwall/shared/db"
)

type migration struct {
	version int
	name    string
	up      string
}

// Applied migrations are never edited; schema changes get a new version.
var migrations = []migration{
	{
		version: 1,
		name:    "create_images_table",
		up: `CREATE TABLE IF NOT EXISTS images (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			hash TEXT NOT NULL
		)`,
	},
}

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// runMigrations brings the schema up to date, one transaction per migration.
func runMigrations(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, createSchemaMigrations); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var applied int
	if err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&applied); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range pending(applied) {
		if err := db.RunInTransaction(ctx, conn, m.apply); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}

	return nil
}

func pending(applied int) []migration {
	var out []migration
	for _, m := range migrations {
		if m.version > applied {
			out = append(out, m)
		}
	}
	return out
}

func (m migration) apply(ctx context.Context) error {
	tx, _ := db.GetTx(ctx)

	if _, err := tx.ExecContext(ctx, m.up); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}

	return nil
}
