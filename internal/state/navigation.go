package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/sleeve/internal/db"
)

// NavigationState is the browsing position restored on the next run.
type NavigationState struct {
	Root         string
	CurrentPath  string
	SelectedName string
}

// navigation_state holds a single row pinned to id = 1.
func getNavigation(db *sql.DB) (*NavigationState, error) {
	var (
		st       NavigationState
		selected sql.NullString
	)
	err := db.QueryRow(
		`SELECT root, current_path, selected_name FROM navigation_state WHERE id = 1`,
	).Scan(&st.Root, &st.CurrentPath, &selected)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil //nolint:nilnil // nothing saved yet on first run
	case err != nil:
		return nil, err
	}

	st.SelectedName = dbutil.NullStringValue(selected)
	return &st, nil
}

func saveNavigation(db *sql.DB, st NavigationState) error {
	_, err := db.Exec(`
		INSERT INTO navigation_state (id, root, current_path, selected_name)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			root = excluded.root,
			current_path = excluded.current_path,
			selected_name = excluded.selected_name`,
		st.Root, st.CurrentPath, st.SelectedName)
	return err
}
