// Package media holds the entity model shared by the batch engine: the
// per-file item with its pending-change overlay, the three-state Field
// type, the status labels pipelines attach to items, and the
// collaborator interfaces the composition root wires together.
package media

import (
	"path/filepath"
	"time"

	"github.com/llehouerou/sleeve/internal/tags"
)

// Status labels attached to items by the enrichment pipelines and the
// commit engine. Free text by contract; these are the values the
// shipped pipelines use.
const (
	StatusDone              = "Done"
	StatusError             = "Error"
	StatusNotFound          = "Not found"
	StatusSkippedNoMetadata = "Skipped (no metadata)"
	StatusSkippedHasCover   = "Skipped (has cover)"
	StatusSearchingLyrics   = "Searching lyrics…"
	StatusSearchingCover    = "Searching cover…"
	StatusConverting        = "Converting…"
	StatusConverted         = "Converted"
	StatusConversionFailed  = "Conversion failed"
	StatusSkippedSameFormat = "Skipped (same format)"
	StatusSaving            = "Saving…"
	StatusSaved             = "Saved"
	StatusUnchanged         = "Unchanged"
	StatusSaveFailed        = "Save failed"
)

// Item is one audio file under edit. Identity is the absolute path.
// Tag is a snapshot of on-disk state, nil until loaded; it is never
// mutated in place — changes travel through the Pending overlay until a
// commit writes them back and refreshes the snapshot.
type Item struct {
	Path     string
	Tag      *tags.Tag
	Duration time.Duration
	Pending  Pending
}

// DisplayName returns the file name without its directory.
func (i Item) DisplayName() string {
	return filepath.Base(i.Path)
}

// Loaded reports whether the tag snapshot has been read.
func (i Item) Loaded() bool {
	return i.Tag != nil
}

// Pending is the per-item overlay of uncommitted changes. Lyrics and
// Cover distinguish "no change" from "explicitly remove" via Field.
type Pending struct {
	Lyrics        Field[string]
	Cover         Field[[]byte]
	ExtractLyrics bool
	Romanize      bool
	Status        string
	Busy          bool
}

// Reset drops the whole overlay. Called after a successful commit.
func (p *Pending) Reset() {
	*p = Pending{}
}

// HasChanges reports whether the overlay carries anything a commit
// would act on (status and busy are presentation, not changes).
func (p Pending) HasChanges() bool {
	return !p.Lyrics.IsUnset() || !p.Cover.IsUnset() || p.ExtractLyrics || p.Romanize
}
