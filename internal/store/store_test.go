package store

import (
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"books", "users", "checkouts"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// 再適用してもエラーにならない
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUniqueIndexes(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`INSERT INTO users (name, email, password_hash) VALUES ('A', 'a@x.com', 'h')`); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (name, email, password_hash) VALUES ('B', 'a@x.com', 'h')`); err == nil {
		t.Fatal("duplicate email should violate the unique index")
	}

	if _, err := db.Exec(`INSERT INTO books (title, author, isbn) VALUES ('T', 'A', '1')`); err != nil {
		t.Fatalf("insert book: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO books (title, author, isbn) VALUES ('U', 'B', '1')`); err == nil {
		t.Fatal("duplicate isbn should violate the unique index")
	}
	// NULLのISBNは一意制約の対象外
	if _, err := db.Exec(`INSERT INTO books (title, author) VALUES ('V', 'C')`); err != nil {
		t.Fatalf("insert book without isbn: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO books (title, author) VALUES ('W', 'D')`); err != nil {
		t.Fatalf("second book without isbn: %v", err)
	}
}
