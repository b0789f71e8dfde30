package batch

import (
	"github.com/llehouerou/sleeve/internal/media"
	"github.com/llehouerou/sleeve/internal/tags"
)

// Template is the batch-wide edit target. Tag carries the shared field
// values to apply, Dirty records which of them the user actually
// touched; everything else in Tag is seed data for display and search
// fallbacks, never written to files.
type Template struct {
	Tag   tags.Tag
	Dirty FieldSet

	// Cover is a batch-wide pending cover, unioned into items that
	// have none of their own at commit time.
	Cover media.Field[[]byte]

	// Batch-wide behavior flags for the pipelines and commits.
	Romanize      bool
	ExtractLyrics bool
	ReplaceCovers bool
}

// NewTemplate builds a fresh template seeded from the given tag's
// shared-field values (typically the first file of the batch). The
// dirty set starts empty: seed values are suggestions, not edits.
func NewTemplate(seed *tags.Tag) *Template {
	t := &Template{Dirty: NewFieldSet()}
	if seed != nil {
		for _, f := range MergeFields() {
			f.apply(&t.Tag, f.Value(seed))
		}
	}
	return t
}

// Set records a template field edit and marks the field dirty.
func (t *Template) Set(f Field, value string) {
	f.apply(&t.Tag, value)
	t.Dirty.Mark(f)
}

// Value returns the template's current value for the field.
func (t *Template) Value(f Field) string {
	return f.Value(&t.Tag)
}
