package tags

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"go.senan.xyz/taglib"
)

// fixture writes a one second audio file into dir. MP3 fixtures are a
// bare frame written directly; every other format is encoded with
// ffmpeg, skipping the test when it is not installed.
func fixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ExtMP3 {
		// A single MPEG1 layer III frame: 128kbps, 44.1kHz, stereo.
		frame := make([]byte, 417)
		copy(frame, []byte{0xff, 0xfb, 0x90, 0x00})
		if err := os.WriteFile(path, frame, 0o600); err != nil {
			t.Fatalf("write mp3 fixture: %v", err)
		}
		return path
	}

	codecs := map[string]string{
		ExtOPUS: "libopus",
		ExtOGG:  "libvorbis",
		ExtOGA:  "libvorbis",
		ExtFLAC: "flac",
		ExtM4A:  "aac",
	}
	codec, ok := codecs[ext]
	if !ok {
		t.Fatalf("no fixture codec for %q", ext)
	}

	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1",
		"-c:a", codec, path)
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}
	return path
}

// taggedFixture writes an audio file carrying the given tag.
func taggedFixture(t *testing.T, dir, name string, tag *Tag) string {
	t.Helper()
	path := fixture(t, dir, name)
	if err := Write(path, tag); err != nil {
		t.Fatalf("tag fixture %s: %v", name, err)
	}
	return path
}

// referenceTag returns a tag with every writable text and number field
// set. Pictures are exercised separately, their handling differs per
// container.
func referenceTag() *Tag {
	return &Tag{
		Title:            "Night Drive",
		Artist:           "The Voltage",
		AlbumArtist:      "Voltage Collective",
		Album:            "Signal Path",
		Genre:            "Electronic",
		TrackNumber:      7,
		TotalTracks:      11,
		DiscNumber:       2,
		TotalDiscs:       3,
		Date:             "2021-03-12",
		OriginalDate:     "1984-06-01",
		Lyrics:           "[00:12.40] Wires hum in the dark\n[00:17.80] Static on the line",
		ArtistSortName:   "Voltage, The",
		Label:            "Midnight Signals",
		CatalogNumber:    "MS-042",
		Barcode:          "5051083112345",
		Media:            "Digital Media",
		ISRC:             "GBAYE2100077",
		MBArtistID:       "0f8a3b42-9d11-4c6e-8e57-30f2a4a3c001",
		MBReleaseID:      "77c1a2f0-44d3-48b9-9b6f-30f2a4a3c002",
		MBReleaseGroupID: "b2640b4a-f9e8-41a7-a6ba-30f2a4a3c003",
		MBRecordingID:    "5c59b2f3-1f33-4f3a-8e9a-30f2a4a3c004",
		MBTrackID:        "e4f0a1d9-6a77-4f05-b1de-30f2a4a3c005",
	}
}

// checkTagFields compares every text and number field of two tags.
func checkTagFields(t *testing.T, got, want *Tag) {
	t.Helper()
	checks := []struct {
		field     string
		got, want any
	}{
		{"Title", got.Title, want.Title},
		{"Artist", got.Artist, want.Artist},
		{"AlbumArtist", got.AlbumArtist, want.AlbumArtist},
		{"Album", got.Album, want.Album},
		{"Genre", got.Genre, want.Genre},
		{"TrackNumber", got.TrackNumber, want.TrackNumber},
		{"TotalTracks", got.TotalTracks, want.TotalTracks},
		{"DiscNumber", got.DiscNumber, want.DiscNumber},
		{"TotalDiscs", got.TotalDiscs, want.TotalDiscs},
		{"Date", got.Date, want.Date},
		{"OriginalDate", got.OriginalDate, want.OriginalDate},
		{"Lyrics", got.Lyrics, want.Lyrics},
		{"ArtistSortName", got.ArtistSortName, want.ArtistSortName},
		{"Label", got.Label, want.Label},
		{"CatalogNumber", got.CatalogNumber, want.CatalogNumber},
		{"Barcode", got.Barcode, want.Barcode},
		{"Media", got.Media, want.Media},
		{"ISRC", got.ISRC, want.ISRC},
		{"MBArtistID", got.MBArtistID, want.MBArtistID},
		{"MBReleaseID", got.MBReleaseID, want.MBReleaseID},
		{"MBReleaseGroupID", got.MBReleaseGroupID, want.MBReleaseGroupID},
		{"MBRecordingID", got.MBRecordingID, want.MBRecordingID},
		{"MBTrackID", got.MBTrackID, want.MBTrackID},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
		}
	}
}

// TestRead writes the full tag set through Write and reads it back
// through Read for every supported container.
func TestRead(t *testing.T) {
	for _, name := range []string{"a.mp3", "a.flac", "a.opus", "a.ogg", "a.oga", "a.m4a"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			want := referenceTag()
			path := taggedFixture(t, dir, name, want)

			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got.Path != path {
				t.Errorf("Path = %q, want %q", got.Path, path)
			}
			checkTagFields(t, got, want)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read("/nonexistent/a.mp3"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRead_Fallbacks(t *testing.T) {
	dir := t.TempDir()

	t.Run("title from filename", func(t *testing.T) {
		path := taggedFixture(t, dir, "My Song.mp3", &Tag{
			Artist: "The Voltage",
			Album:  "Signal Path",
		})

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got.Title != "My Song.mp3" {
			t.Errorf("Title = %q, want filename", got.Title)
		}
	})

	t.Run("album artist from artist", func(t *testing.T) {
		path := taggedFixture(t, dir, "solo.mp3", &Tag{
			Title:  "Solo Cut",
			Artist: "Lone Voice",
		})

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got.AlbumArtist != "Lone Voice" {
			t.Errorf("AlbumArtist = %q, want %q", got.AlbumArtist, "Lone Voice")
		}
	})
}

func TestRead_Unicode(t *testing.T) {
	dir := t.TempDir()
	want := &Tag{
		Title:       "夜のドライブ",
		Artist:      "Вольтаж",
		Album:       "Größte Stücke",
		AlbumArtist: "전압 집단",
		Lyrics:      "가사 한 줄\n두 번째 줄",
	}
	path := taggedFixture(t, dir, "unicode.mp3", want)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	checkTagFields(t, got, want)
}

// TestRead_TaglibKeyedComments covers the extended pass over comments
// written under TagLib's canonical key spellings by another tagger.
func TestRead_TaglibKeyedComments(t *testing.T) {
	dir := t.TempDir()
	path := fixture(t, dir, "keyed.flac")

	comments := map[string][]string{
		"TITLE":                      {"Night Drive"},
		"ARTIST":                     {"The Voltage"},
		"DATE":                       {"2021-03-12"},
		"ORIGINALDATE":               {"1984-06-01"},
		"LYRICS":                     {"Wires hum in the dark"},
		"ARTISTSORT":                 {"Voltage, The"},
		"LABEL":                      {"Midnight Signals"},
		"CATALOGNUMBER":              {"MS-042"},
		"BARCODE":                    {"5051083112345"},
		"MEDIA":                      {"CD"},
		"ISRC":                       {"GBAYE2100077"},
		"MUSICBRAINZ_ARTISTID":       {"artist-id"},
		"MUSICBRAINZ_ALBUMID":        {"release-id"},
		"MUSICBRAINZ_RELEASEGROUPID": {"group-id"},
		"MUSICBRAINZ_TRACKID":        {"recording-id"},
		"MUSICBRAINZ_RELEASETRACKID": {"track-id"},
		"TRACKNUMBER":                {"7"},
		"TOTALTRACKS":                {"11"},
	}
	if err := taglib.WriteTags(path, comments, taglib.Clear); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	checkTagFields(t, got, &Tag{
		Title:            "Night Drive",
		Artist:           "The Voltage",
		AlbumArtist:      "The Voltage",
		TrackNumber:      7,
		TotalTracks:      11,
		Date:             "2021-03-12",
		OriginalDate:     "1984-06-01",
		Lyrics:           "Wires hum in the dark",
		ArtistSortName:   "Voltage, The",
		Label:            "Midnight Signals",
		CatalogNumber:    "MS-042",
		Barcode:          "5051083112345",
		Media:            "CD",
		ISRC:             "GBAYE2100077",
		MBArtistID:       "artist-id",
		MBReleaseID:      "release-id",
		MBReleaseGroupID: "group-id",
		MBRecordingID:    "recording-id",
		MBTrackID:        "track-id",
	})
}

// TestReadWithTaglib exercises the fallback reader directly; Read only
// reaches it for files dhowden/tag cannot parse.
func TestReadWithTaglib(t *testing.T) {
	dir := t.TempDir()

	t.Run("full comment set", func(t *testing.T) {
		want := referenceTag()
		path := taggedFixture(t, dir, "direct.flac", want)

		got, err := readWithTaglib(path)
		if err != nil {
			t.Fatalf("readWithTaglib: %v", err)
		}
		if got.Path != path {
			t.Errorf("Path = %q, want %q", got.Path, path)
		}
		checkTagFields(t, got, want)
	})

	t.Run("missing title uses filename", func(t *testing.T) {
		path := fixture(t, dir, "untitled.flac")
		comments := map[string][]string{"ARTIST": {"Someone"}}
		if err := taglib.WriteTags(path, comments, taglib.Clear); err != nil {
			t.Fatalf("WriteTags: %v", err)
		}

		got, err := readWithTaglib(path)
		if err != nil {
			t.Fatalf("readWithTaglib: %v", err)
		}
		if got.Title != "untitled.flac" {
			t.Errorf("Title = %q, want filename", got.Title)
		}
		if got.AlbumArtist != "Someone" {
			t.Errorf("AlbumArtist = %q, want artist", got.AlbumArtist)
		}
	})
}

func TestReadWithAudio(t *testing.T) {
	dir := t.TempDir()
	path := taggedFixture(t, dir, "both.flac", &Tag{
		Title:  "Night Drive",
		Artist: "The Voltage",
	})

	got, err := ReadWithAudio(path)
	if err != nil {
		t.Fatalf("ReadWithAudio: %v", err)
	}

	if got.Title != "Night Drive" {
		t.Errorf("Title = %q, want %q", got.Title, "Night Drive")
	}
	if got.Format != "FLAC" {
		t.Errorf("Format = %q, want FLAC", got.Format)
	}
	if got.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", got.SampleRate)
	}
	if got.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", got.Duration)
	}
}

func TestReadWithAudio_UnreadableStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ReadWithAudio(path); err == nil {
		t.Error("expected error for unsupported stream")
	}
}

func TestYearToDate(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{0, ""},
		{2023, "2023"},
		{1984, "1984"},
	}
	for _, tt := range tests {
		if got := yearToDate(tt.year); got != tt.want {
			t.Errorf("yearToDate(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}
