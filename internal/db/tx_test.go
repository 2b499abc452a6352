package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE history (uuid TEXT PRIMARY KEY, name TEXT NOT NULL)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Commits(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO history VALUES (?, ?)`, "a", "SWR3"); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO history VALUES (?, ?)`, "b", "FIP")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if got := countRows(t, db); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testErr := errors.New("trim failed")

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO history VALUES (?, ?)`, "a", "SWR3"); err != nil {
			return err
		}
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}
	if got := countRows(t, db); got != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", got)
	}
}

func TestWithTx_RollsBackOnStatementError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO history VALUES (?, ?)`, "a", "SWR3"); err != nil {
			return err
		}
		// Duplicate primary key.
		_, err := tx.Exec(`INSERT INTO history VALUES (?, ?)`, "a", "SWR3 again")
		return err
	})

	if err == nil {
		t.Fatal("WithTx should return error")
	}
	if got := countRows(t, db); got != 0 {
		t.Errorf("count = %d, want 0 (all rolled back)", got)
	}
}

func TestNullStringValue(t *testing.T) {
	tests := []struct {
		in   sql.NullString
		want string
	}{
		{sql.NullString{String: "MP3", Valid: true}, "MP3"},
		{sql.NullString{String: "", Valid: true}, ""},
		{sql.NullString{String: "stale", Valid: false}, ""},
	}
	for _, tt := range tests {
		if got := NullStringValue(tt.in); got != tt.want {
			t.Errorf("NullStringValue(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNullString_RoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	if _, err := conn.Exec(`ALTER TABLE history ADD COLUMN codec TEXT`); err != nil {
		t.Fatalf("alter: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO history (uuid, name, codec) VALUES ('a', 'FIP', ?), ('b', 'SWR3', ?)`,
		NullString("AAC"), NullString("")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var nulls int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM history WHERE codec IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("query: %v", err)
	}
	if nulls != 1 {
		t.Errorf("NULL codecs = %d, want 1", nulls)
	}

	var codec sql.NullString
	if err := conn.QueryRow(`SELECT codec FROM history WHERE uuid = 'a'`).Scan(&codec); err != nil {
		t.Fatalf("query: %v", err)
	}
	if got := NullStringValue(codec); got != "AAC" {
		t.Errorf("codec = %q, want AAC", got)
	}
}
