// Package tags provides unified tag reading and writing for music files.
// It consolidates metadata, lyrics and embedded-picture handling for MP3,
// FLAC, Opus/OGG and M4A formats behind one Tag value.
package tags

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Extensions of the supported container formats.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// id3Magic opens every ID3v2 header.
const id3Magic = "ID3"

// syncsafeLen decodes a 4-byte syncsafe ID3v2 length, 7 bits per byte.
func syncsafeLen(b []byte) int64 {
	return int64(b[0])<<21 | int64(b[1])<<14 | int64(b[2])<<7 | int64(b[3])
}

// Picture is one embedded image. Pictures keep file order on read; the
// first picture is treated as the front cover on formats that only store
// a single image.
type Picture struct {
	MIME        string
	Description string
	Data        []byte
}

// FrontCover builds a front-cover picture from raw image bytes, detecting
// the MIME type from the data.
func FrontCover(data []byte) Picture {
	return Picture{
		MIME:        detectMimeType(data),
		Description: "Front Cover",
		Data:        data,
	}
}

// Tag is the complete metadata set of one music file, shared by the
// readers and writers of every supported format.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string

	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	// Date is the release date (YYYY-MM-DD or YYYY).
	Date         string
	OriginalDate string

	// Lyrics holds the full lyric text, synced (LRC) or plain.
	Lyrics string

	// Pictures are the embedded images, in file order.
	Pictures []Picture

	ArtistSortName string

	Label         string
	CatalogNumber string
	Barcode       string
	Media         string
	ISRC          string

	MBArtistID       string
	MBReleaseID      string
	MBReleaseGroupID string
	MBRecordingID    string
	MBTrackID        string
}

// Year derives the numeric year from Date, 0 when absent or unparseable.
func (t *Tag) Year() int {
	y, _ := strconv.Atoi(yearOf(t.Date))
	return y
}

// OriginalYear derives the year portion of OriginalDate, "" when absent.
func (t *Tag) OriginalYear() string {
	return yearOf(t.OriginalDate)
}

// yearOf returns the leading YYYY of a date string.
func yearOf(date string) string {
	if len(date) > 4 {
		return date[:4]
	}
	return date
}

// HasPictures reports whether any image is embedded.
func (t *Tag) HasPictures() bool {
	return len(t.Pictures) > 0
}

// Clone returns a deep copy. Picture data is copied so the clone can be
// modified without aliasing the original.
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	c := *t
	if len(t.Pictures) > 0 {
		c.Pictures = make([]Picture, len(t.Pictures))
		for i, p := range t.Pictures {
			c.Pictures[i] = Picture{
				MIME:        p.MIME,
				Description: p.Description,
				Data:        bytes.Clone(p.Data),
			}
		}
	}
	return &c
}

// Equal reports value equality over every metadata field, lyrics and
// pictures. Path is identity, not content, and is excluded: the same tag
// set at two paths compares equal.
func (t *Tag) Equal(other *Tag) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Title != other.Title ||
		t.Artist != other.Artist ||
		t.AlbumArtist != other.AlbumArtist ||
		t.Album != other.Album ||
		t.Genre != other.Genre ||
		t.TrackNumber != other.TrackNumber ||
		t.TotalTracks != other.TotalTracks ||
		t.DiscNumber != other.DiscNumber ||
		t.TotalDiscs != other.TotalDiscs ||
		t.Date != other.Date ||
		t.OriginalDate != other.OriginalDate ||
		t.Lyrics != other.Lyrics ||
		t.ArtistSortName != other.ArtistSortName ||
		t.Label != other.Label ||
		t.CatalogNumber != other.CatalogNumber ||
		t.Barcode != other.Barcode ||
		t.Media != other.Media ||
		t.ISRC != other.ISRC ||
		t.MBArtistID != other.MBArtistID ||
		t.MBReleaseID != other.MBReleaseID ||
		t.MBReleaseGroupID != other.MBReleaseGroupID ||
		t.MBRecordingID != other.MBRecordingID ||
		t.MBTrackID != other.MBTrackID {
		return false
	}
	if len(t.Pictures) != len(other.Pictures) {
		return false
	}
	for i := range t.Pictures {
		if t.Pictures[i].MIME != other.Pictures[i].MIME ||
			!bytes.Equal(t.Pictures[i].Data, other.Pictures[i].Data) {
			return false
		}
	}
	return true
}

// Sanitize strips NUL bytes and surrounding whitespace from the
// single-line fields. Some taggers pad fixed-width fields with NULs and
// taglib passes them through verbatim. Lyrics are left untouched since
// they legitimately contain newlines.
func (t *Tag) Sanitize() {
	fields := []*string{
		&t.Title, &t.Artist, &t.AlbumArtist, &t.Album, &t.Genre,
		&t.Date, &t.OriginalDate, &t.ArtistSortName,
		&t.Label, &t.CatalogNumber, &t.Barcode, &t.Media, &t.ISRC,
		&t.MBArtistID, &t.MBReleaseID, &t.MBReleaseGroupID,
		&t.MBRecordingID, &t.MBTrackID,
	}
	for _, f := range fields {
		*f = strings.TrimSpace(strings.ReplaceAll(*f, "\x00", ""))
	}
}

// AudioInfo describes the audio stream itself rather than its tags.
type AudioInfo struct {
	Duration   time.Duration
	Format     string // MP3, FLAC, OPUS, VORBIS, AAC, ALAC
	SampleRate int
}

// FileInfo pairs a file's tags with its stream properties.
type FileInfo struct {
	Tag
	AudioInfo
}

// IsMusicFile reports whether the path carries a supported extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4:
		return true
	}
	return false
}

// taglibTags gives a taglib result map lookup helpers shared by the
// format-specific readers.
type taglibTags map[string][]string

// get returns the first value present among keys.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if v := t[key]; len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// getInt parses the key's first value, 0 when missing or malformed.
func (t taglibTags) getInt(key string) int {
	n, _ := strconv.Atoi(t.get(key))
	return n
}

// parseNumberPair reads a key holding "N" or "N/M".
func (t taglibTags) parseNumberPair(key string) (num, total int) {
	return splitNumberPair(t.get(key))
}

// splitNumberPair parses "N" or "N/M" into its parts. ID3 TRCK/TPOS
// frames and M4A number atoms both use this shape.
func splitNumberPair(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	numPart, totalPart, found := strings.Cut(s, "/")
	num, _ = strconv.Atoi(numPart)
	if found {
		total, _ = strconv.Atoi(totalPart)
	}
	return num, total
}
