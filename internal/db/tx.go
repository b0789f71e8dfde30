// Package db holds small database/sql helpers shared by the
// SQLite-backed stores.
package db

import "database/sql"

// WithTx runs fn inside a transaction, committing on success. Any error
// from fn (or from Begin) rolls the transaction back and is returned.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullStringValue unwraps a NullString, mapping NULL to "".
func NullStringValue(n sql.NullString) string {
	if n.Valid {
		return n.String
	}
	return ""
}
