package media

import (
	"context"
	"time"

	"github.com/llehouerou/sleeve/internal/tags"
)

// FileService abstracts the filesystem operations the navigator and
// commit engine need. ListDirectory reports a missing path as an empty
// listing, not an error, so deleting the current directory simply
// yields an empty view. ReadLyricsSidecar likewise reports a missing
// sidecar as empty text.
type FileService interface {
	ListDirectory(path string) (dirs []string, files []string, err error)
	ListAllFilesRecursive(path string) ([]string, error)
	Rename(path, newName string) (string, error)
	DeleteFile(path string) error
	DeleteDirectory(path string) error
	WriteLyricsSidecar(audioPath, lyrics string) error
	ReadLyricsSidecar(audioPath string) (string, error)
}

// TagService reads and writes on-disk tag state. ReadTags also probes
// the audio duration; a failed probe returns zero duration with the
// tags intact.
type TagService interface {
	ReadTags(path string) (*tags.Tag, time.Duration, error)
	WriteTags(path string, t *tags.Tag) error
}

// LyricsMatch is a successful lyrics lookup. Either field may be empty;
// Best prefers the synced form.
type LyricsMatch struct {
	PlainLyrics  string
	SyncedLyrics string
}

// Best returns the synced lyrics when present, else the plain ones.
func (m *LyricsMatch) Best() string {
	if m == nil {
		return ""
	}
	if m.SyncedLyrics != "" {
		return m.SyncedLyrics
	}
	return m.PlainLyrics
}

// LyricsService finds lyrics for a track. A nil match with a nil error
// means the lookup succeeded but nothing matched.
type LyricsService interface {
	FindBestMatch(ctx context.Context, artist, title, album string, duration time.Duration) (*LyricsMatch, error)
}

// RomanizeService converts lyrics to a romanized form. ErrUnsupported
// (or any error) means the caller keeps the original text.
type RomanizeService interface {
	Romanize(text string) (string, error)
}

// CoverService fetches front-cover image bytes for a release. A nil
// slice with a nil error means no cover was found.
type CoverService interface {
	FetchCover(ctx context.Context, artist, album string) ([]byte, error)
}

// ConvertService transcodes an audio file and returns the path of the
// produced artifact.
type ConvertService interface {
	Convert(ctx context.Context, path string) (string, error)
}
