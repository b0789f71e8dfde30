package state

import (
	"database/sql"

	dbutil "github.com/llehouerou/sleeve/internal/db"
)

const currentSchemaVersion = 1

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS navigation_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		root TEXT NOT NULL,
		current_path TEXT NOT NULL,
		selected_name TEXT
	);
`

// initSchema creates the tables and stamps the version in one transaction.
func initSchema(db *sql.DB) error {
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(schemaDDL); err != nil {
			return err
		}
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`,
			currentSchemaVersion)
		return err
	})
}
