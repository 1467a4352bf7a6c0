package sqlite

import (
	"testing"
)

func connectTestDB(t *testing.T, dir string) *SQLiteDB {
	t.Helper()
	database := NewSQLiteDB(NewSQLiteConfig(dir, ""))
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return database
}

func TestRunMigrations(t *testing.T) {
	database := connectTestDB(t, t.TempDir())
	defer database.Close()

	db := database.DB()

	for _, table := range []string{"schema_migrations", "images"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check %s table: %v", table, err)
		}
		if count != 1 {
			t.Errorf("%s table not created", table)
		}
	}

	var version int
	var name string
	err := db.QueryRow("SELECT version, name FROM schema_migrations WHERE version = 1").Scan(&version, &name)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if name != "create_images_table" {
		t.Errorf("name = %q, want %q", name, "create_images_table")
	}
}

func TestRunMigrations_IdempotentKeepsRecords(t *testing.T) {
	dir := t.TempDir()

	database := connectTestDB(t, dir)
	_, err := database.DB().Exec(
		"INSERT INTO images (path, size, hash) VALUES (?, ?, ?)",
		"/tmp/images/pic.jpg", 42, "abc123",
	)
	if err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}
	database.Close()

	database = connectTestDB(t, dir)
	defer database.Close()
	db := database.DB()

	var migrationsApplied int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 1").Scan(&migrationsApplied); err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if migrationsApplied != 1 {
		t.Errorf("migration recorded %d times, want 1", migrationsApplied)
	}

	var images int
	if err := db.QueryRow("SELECT COUNT(*) FROM images").Scan(&images); err != nil {
		t.Fatalf("Failed to count images: %v", err)
	}
	if images != 1 {
		t.Errorf("images = %d after reconnect, want 1", images)
	}
}

func TestImagesTableSchema(t *testing.T) {
	database := connectTestDB(t, t.TempDir())
	defer database.Close()
	db := database.DB()

	if _, err := db.Exec("INSERT INTO images (path, size, hash) VALUES (?, ?, ?)", "a.jpg", 1, "h1"); err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	if _, err := db.Exec("INSERT INTO images (path, size, hash) VALUES (?, ?, ?)", "a.jpg", 2, "h2"); err == nil {
		t.Error("Expected primary key violation on duplicate path")
	}

	if _, err := db.Exec("INSERT INTO images (path, hash) VALUES (?, ?)", "b.jpg", "h3"); err == nil {
		t.Error("Expected NOT NULL violation on missing size")
	}
}

func TestPendingMigrations(t *testing.T) {
	if got := len(pending(0)); got != len(migrations) {
		t.Errorf("Expected %d pending migrations on a fresh store, got %d", len(migrations), got)
	}

	latest := migrations[len(migrations)-1].version
	if got := pending(latest); len(got) != 0 {
		t.Errorf("Expected no pending migrations at version %d, got %d", latest, len(got))
	}
}
