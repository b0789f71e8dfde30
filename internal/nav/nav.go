// Package nav implements the directory navigator that fronts the batch
// engine: a mode machine (no directory, browsing, batch active), the
// current listing with a clamped selection, and the batch-session
// lifecycle. Location and selection are persisted through the state
// store and restored on demand.
package nav

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/batch"
	"github.com/llehouerou/sleeve/internal/media"
	"github.com/llehouerou/sleeve/internal/state"
)

// ErrNoDirectory is returned by operations that need an open directory
// while the navigator has none.
var ErrNoDirectory = errors.New("no directory open")

// ErrBatchActive is returned by navigation operations while a batch
// session exists; moving would desync the session snapshot.
var ErrBatchActive = errors.New("navigation is frozen while batch mode is active")

// Mode is the navigator's lifecycle state.
type Mode int

const (
	// NoDirectory means nothing has been opened yet.
	NoDirectory Mode = iota
	// Browsing means a directory is open and navigation is live.
	Browsing
	// BatchActive means a batch session holds a snapshot; navigation
	// is frozen until the session is discarded.
	BatchActive
)

func (m Mode) String() string {
	switch m {
	case NoDirectory:
		return "no directory"
	case Browsing:
		return "browsing"
	case BatchActive:
		return "batch"
	}
	return "unknown"
}

// Entry is one row of the current directory listing.
type Entry struct {
	Path  string
	IsDir bool
}

// Name returns the entry's base name.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// TargetKind distinguishes what a delete target points at.
type TargetKind int

const (
	// TargetFile deletes a single file.
	TargetFile TargetKind = iota
	// TargetDir deletes a directory and everything under it.
	TargetDir
)

// Target identifies one deletable entry.
type Target struct {
	Kind TargetKind
	Path string
}

// Controller drives navigation and owns the batch session lifecycle.
// It is not safe for concurrent use; one goroutine drives it.
type Controller struct {
	files media.FileService
	tags  media.TagService
	state state.Interface
	log   logrus.FieldLogger

	mode      Mode
	root      string
	current   string
	entries   []Entry
	selection int

	session *batch.Session
}

// New creates a controller. The state store may be nil, which disables
// persistence.
func New(fileSvc media.FileService, tagSvc media.TagService, st state.Interface, log logrus.FieldLogger) *Controller {
	return &Controller{
		files: fileSvc,
		tags:  tagSvc,
		state: st,
		log:   log,
	}
}

// Mode returns the current lifecycle state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Root returns the directory ScanDirectory was last called with.
func (c *Controller) Root() string {
	return c.root
}

// CurrentPath returns the directory whose listing is shown.
func (c *Controller) CurrentPath() string {
	return c.current
}

// Entries returns the current directory listing, subdirectories first.
func (c *Controller) Entries() []Entry {
	return c.entries
}

// Selection returns the index of the selected entry.
func (c *Controller) Selection() int {
	return c.selection
}

// Selected returns the selected entry, or nil when the listing is empty.
func (c *Controller) Selected() *Entry {
	if len(c.entries) == 0 || c.selection >= len(c.entries) {
		return nil
	}
	return &c.entries[c.selection]
}

// SelectedName returns the selected entry's base name, or empty.
func (c *Controller) SelectedName() string {
	if e := c.Selected(); e != nil {
		return e.Name()
	}
	return ""
}

// Restore reopens the last persisted location. It returns false when
// nothing usable was saved or the saved directory no longer exists.
func (c *Controller) Restore() bool {
	if c.state == nil {
		return false
	}
	nav, err := c.state.GetNavigation()
	if err != nil || nav == nil || nav.CurrentPath == "" {
		return false
	}
	if _, err := os.Stat(nav.CurrentPath); err != nil {
		return false
	}

	root := nav.Root
	if root == "" {
		root = nav.CurrentPath
	}
	if err := c.ScanDirectory(root); err != nil {
		return false
	}
	if nav.CurrentPath != c.root {
		if err := c.NavigateToDirectory(nav.CurrentPath); err != nil {
			c.log.WithError(err).Warn("could not restore saved directory")
		}
	}
	if nav.SelectedName != "" {
		c.focusName(nav.SelectedName)
	}
	return true
}

func (c *Controller) persist() {
	if c.state == nil || c.mode == NoDirectory {
		return
	}
	c.state.SaveNavigation(state.NavigationState{
		Root:         c.root,
		CurrentPath:  c.current,
		SelectedName: c.SelectedName(),
	})
}
