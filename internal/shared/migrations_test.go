package shared

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		t.Run("creates the session table", func(t *testing.T) {
			db := openTestDB(t)

			if err := RunMigrations(db); err != nil {
				t.Fatalf("RunMigrations failed: %v", err)
			}

			if _, err := db.Exec(`INSERT INTO session (key, value) VALUES ('token', 'tok')`); err != nil {
				t.Errorf("session table not usable: %v", err)
			}
		})

		t.Run("is idempotent", func(t *testing.T) {
			db := openTestDB(t)

			if err := RunMigrations(db); err != nil {
				t.Fatalf("first run failed: %v", err)
			}
			if err := RunMigrations(db); err != nil {
				t.Fatalf("second run failed: %v", err)
			}
		})

		t.Run("records the applied version", func(t *testing.T) {
			db := openTestDB(t)

			if err := RunMigrations(db); err != nil {
				t.Fatalf("RunMigrations failed: %v", err)
			}

			version, err := getCurrentVersion(db)
			if err != nil {
				t.Fatalf("getCurrentVersion failed: %v", err)
			}
			if version < 0 {
				t.Errorf("expected a recorded version, got %d", version)
			}
		})
	})

	t.Run("getCurrentVersion", func(t *testing.T) {
		t.Run("fresh database reports none", func(t *testing.T) {
			db := openTestDB(t)

			if err := createMigrationsTable(db); err != nil {
				t.Fatalf("createMigrationsTable failed: %v", err)
			}

			version, err := getCurrentVersion(db)
			if err != nil {
				t.Fatalf("getCurrentVersion failed: %v", err)
			}
			if version != -1 {
				t.Errorf("expected -1, got %d", version)
			}
		})
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		t.Run("drops the session table", func(t *testing.T) {
			db := openTestDB(t)

			if err := RunMigrations(db); err != nil {
				t.Fatalf("RunMigrations failed: %v", err)
			}
			if err := RollbackMigration(db); err != nil {
				t.Fatalf("RollbackMigration failed: %v", err)
			}

			if _, err := db.Exec(`INSERT INTO session (key, value) VALUES ('token', 'tok')`); err == nil {
				t.Error("expected session table to be gone")
			}
		})

		t.Run("nothing to roll back is an error", func(t *testing.T) {
			db := openTestDB(t)

			if err := createMigrationsTable(db); err != nil {
				t.Fatalf("createMigrationsTable failed: %v", err)
			}
			if err := RollbackMigration(db); err == nil {
				t.Error("expected error with no applied migrations")
			}
		})
	})
}
