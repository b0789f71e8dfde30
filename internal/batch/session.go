package batch

import (
	"errors"
	"sync/atomic"

	"github.com/llehouerou/sleeve/internal/media"
)

// ErrBusy is returned when a pipeline or batch commit is requested
// while another one is already running on the same session.
var ErrBusy = errors.New("batch operation already in progress")

// ErrNoSession is returned by operations that need an active batch
// session when none exists.
var ErrNoSession = errors.New("no active batch session")

// Session owns the state of one batch-mode engagement: the recursive
// file snapshot, the shared template, and the path-keyed pending-lyrics
// map that survives item re-reads. A session is created when batch mode
// is enabled and discarded wholesale — without persisting anything —
// when it is disabled.
type Session struct {
	// Items is the authoritative file list. Pipelines and the batch
	// commit mutate entries in place by index.
	Items []media.Item

	// Template is the shared edit target for the whole batch.
	Template *Template

	lyrics map[string]string
	busy   atomic.Bool
}

// NewSession creates a session over the given snapshot. A nil template
// is replaced with an empty one so callers never check.
func NewSession(items []media.Item, template *Template) *Session {
	if template == nil {
		template = NewTemplate(nil)
	}
	return &Session{
		Items:    items,
		Template: template,
		lyrics:   make(map[string]string),
	}
}

// Len returns the number of items in the batch.
func (s *Session) Len() int {
	return len(s.Items)
}

// Acquire claims the session's single pipeline slot. It returns ErrBusy
// when another pipeline or batch commit holds it; callers must Release
// when done. At most one batch operation runs per session at a time.
func (s *Session) Acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// Release frees the pipeline slot.
func (s *Session) Release() {
	s.busy.Store(false)
}

// Busy reports whether a pipeline or batch commit is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// SetLyrics records fetched lyrics for a path. The map is the durable
// source consulted at commit time: it survives the item snapshot being
// re-read, which drops per-item overlays.
func (s *Session) SetLyrics(path, text string) {
	s.lyrics[path] = text
}

// Lyrics returns the recorded lyrics for a path.
func (s *Session) Lyrics(path string) (string, bool) {
	text, ok := s.lyrics[path]
	return text, ok
}

// LyricsCount returns how many paths have recorded lyrics.
func (s *Session) LyricsCount() int {
	return len(s.lyrics)
}
