package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vaani.db")
	db, err := Open(ctx, "sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"users", "websites"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	// Running the bootstrap a second time must be harmless.
	if err := EnsureSchema(ctx, db, "sqlite3"); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite3", "file:fkcheck?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var on int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if on != 1 {
		t.Fatalf("foreign_keys = %d, want 1", on)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO websites (user_id) VALUES (999)`); err == nil {
		t.Fatalf("expected foreign key violation for unknown user")
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "x"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestMySQLDSN(t *testing.T) {
	got := mysqlDSN("u:p@tcp(localhost:3306)/vaani?parseTime=false")
	want := "u:p@tcp(localhost:3306)/vaani?parseTime=false&clientFoundRows=true&charset=utf8mb4"
	if got != want {
		t.Fatalf("mysqlDSN = %q, want %q", got, want)
	}
}
