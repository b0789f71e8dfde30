package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Read reads tag metadata from a music file, including lyrics and
// embedded pictures. Audio stream properties are ReadAudioInfo's job.
//
// dhowden/tag makes the first pass since it covers every supported
// container, but it only exposes the basic fields, so a format-specific
// pass fills in dates, identifier tags and the full picture list.
// Files it cannot parse at all (some UTF-16 ID3 tags, ffmpeg-created
// M4As) go to a dedicated fallback reader instead.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return readFallback(path, err)
	}

	t := tagFromMetadata(path, m)
	fillExtended(path, t)
	t.Sanitize()
	return t, nil
}

// tagFromMetadata maps dhowden/tag's common fields onto a Tag. The
// filename stands in for a missing title and the track artist for a
// missing album artist.
func tagFromMetadata(path string, m tag.Metadata) *Tag {
	t := &Tag{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Date:        yearToDate(m.Year()),
		Lyrics:      m.Lyrics(),
	}
	t.TrackNumber, t.TotalTracks = m.Track()
	t.DiscNumber, t.TotalDiscs = m.Disc()

	if t.Title == "" {
		t.Title = filepath.Base(path)
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = t.Artist
	}
	if pic := m.Picture(); pic != nil {
		t.Pictures = []Picture{{
			MIME:        pic.MIMEType,
			Description: pic.Description,
			Data:        pic.Data,
		}}
	}
	return t
}

// readFallback parses the file with a format-specific reader after
// dhowden/tag failed. readErr is returned for extensions no reader
// claims.
func readFallback(path string, readErr error) (*Tag, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		return readMP3WithID3v2(path)
	case ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4:
		return readWithTaglib(path)
	default:
		return nil, readErr
	}
}

// fillExtended runs the format-specific second pass over a tag built
// from dhowden/tag.
func fillExtended(path string, t *Tag) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		fillFromID3v2(path, t)
	case ExtFLAC:
		fillFromTaglib(path, t)
		readFLACPictures(path, t)
	case ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4:
		fillFromTaglib(path, t)
	}
}

// ReadWithAudio reads both tag metadata and audio stream properties.
// An unreadable stream is an error; an unreadable tag degrades to a
// filename-only Tag.
func ReadWithAudio(path string) (*FileInfo, error) {
	audio, err := ReadAudioInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read audio info: %w", err)
	}

	t, err := Read(path)
	if err != nil {
		t = &Tag{
			Path:  path,
			Title: filepath.Base(path),
		}
	}

	return &FileInfo{Tag: *t, AudioInfo: *audio}, nil
}

// yearToDate converts a year integer to a date string, empty for 0.
func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
