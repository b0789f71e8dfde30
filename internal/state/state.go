package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

// Interface is the session-state contract consumers depend on, so tests
// can substitute Mock for the SQLite-backed Manager.
type Interface interface {
	SaveNavigation(state NavigationState)
	GetNavigation() (*NavigationState, error)
	Close() error
}

var _ Interface = (*Manager)(nil)

// Writes triggered by cursor movement arrive in bursts; only the last
// one within this window hits the database.
const saveDebounce = 500 * time.Millisecond

// Manager persists session state to a SQLite database in the user's
// XDG data directory.
type Manager struct {
	db *sql.DB

	mu      sync.Mutex
	timer   *time.Timer
	pending *NavigationState
}

// Open opens the state database, creating it and its schema on first use.
func Open() (*Manager, error) {
	path, err := xdg.DataFile(filepath.Join("sleeve", "sleeve.db"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// SaveNavigation schedules a debounced write of the navigation state.
// Rapid calls collapse into a single write of the latest value.
func (m *Manager) SaveNavigation(state NavigationState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = &state
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(saveDebounce, m.flush)
}

// GetNavigation returns the saved navigation state, or nil when nothing
// has been saved yet.
func (m *Manager) GetNavigation() (*NavigationState, error) {
	return getNavigation(m.db)
}

// Close flushes any pending save and closes the database.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()

	m.flush()
	return m.db.Close()
}

func (m *Manager) flush() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	if pending != nil {
		_ = saveNavigation(m.db, *pending)
	}
}
