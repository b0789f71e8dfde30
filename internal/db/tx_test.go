package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return conn
}

func countNotes(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTxCommits(t *testing.T) {
	conn := openTestDB(t)

	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO notes (body) VALUES (?)`, "first"); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO notes (body) VALUES (?)`, "second")
		return err
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, countNotes(t, conn))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	boom := errors.New("boom")

	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO notes (body) VALUES (?)`, "doomed"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countNotes(t, conn), "insert should be rolled back")
}

func TestWithTxPropagatesBeginError(t *testing.T) {
	conn := openTestDB(t)
	conn.Close()

	err := WithTx(conn, func(*sql.Tx) error { return nil })

	assert.Error(t, err)
}

func TestNullStringValue(t *testing.T) {
	assert.Equal(t, "hello", NullStringValue(sql.NullString{String: "hello", Valid: true}))
	assert.Equal(t, "", NullStringValue(sql.NullString{String: "hello", Valid: false}))
	assert.Equal(t, "", NullStringValue(sql.NullString{}))
}
