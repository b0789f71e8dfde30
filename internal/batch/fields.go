// Package batch implements the pending-change reconciliation core: the
// dirty-field set and merge function that layer a batch template over
// per-file tags, the batch session that owns the active file list, and
// the pre-edit metadata analysis.
package batch

import (
	"fmt"
	"sort"

	"github.com/llehouerou/sleeve/internal/tags"
)

// Field identifies one template-mergeable tag field. Title, track and
// disc numbers are per-file-unique and deliberately have no Field value:
// a template can never touch them.
type Field string

const (
	FieldArtist      Field = "artist"
	FieldAlbumArtist Field = "albumartist"
	FieldAlbum       Field = "album"
	FieldGenre       Field = "genre"
	FieldYear        Field = "year"
)

// MergeFields lists every template-mergeable field in display order.
func MergeFields() []Field {
	return []Field{FieldArtist, FieldAlbumArtist, FieldAlbum, FieldGenre, FieldYear}
}

// ParseField converts a user-supplied field name into a Field.
func ParseField(name string) (Field, error) {
	switch Field(name) {
	case FieldArtist, FieldAlbumArtist, FieldAlbum, FieldGenre, FieldYear:
		return Field(name), nil
	}
	return "", fmt.Errorf("unknown field %q (want artist, albumartist, album, genre or year)", name)
}

// Value returns the tag's current value for the field. Year reads the
// tag's date, of which the year is the leading component.
func (f Field) Value(t *tags.Tag) string {
	if t == nil {
		return ""
	}
	switch f {
	case FieldArtist:
		return t.Artist
	case FieldAlbumArtist:
		return t.AlbumArtist
	case FieldAlbum:
		return t.Album
	case FieldGenre:
		return t.Genre
	case FieldYear:
		return t.Date
	}
	return ""
}

// apply writes the value into the tag's field.
func (f Field) apply(t *tags.Tag, value string) {
	switch f {
	case FieldArtist:
		t.Artist = value
	case FieldAlbumArtist:
		t.AlbumArtist = value
	case FieldAlbum:
		t.Album = value
	case FieldGenre:
		t.Genre = value
	case FieldYear:
		t.Date = value
	}
}

// FieldSet records which template fields the user explicitly edited.
// Only marked fields are eligible to overwrite per-file values. The nil
// map reads as empty; call NewFieldSet before marking.
type FieldSet map[Field]struct{}

// NewFieldSet returns an empty, markable set.
func NewFieldSet() FieldSet {
	return make(FieldSet)
}

// Mark records that the user edited the field.
func (s FieldSet) Mark(f Field) {
	s[f] = struct{}{}
}

// Unmark removes the field from the set.
func (s FieldSet) Unmark(f Field) {
	delete(s, f)
}

// Has reports whether the field was explicitly edited.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Len returns the number of dirty fields.
func (s FieldSet) Len() int {
	return len(s)
}

// Fields returns the dirty fields in sorted order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the set.
func (s FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}
