package tags

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2/v2"
)

// withID3Frames opens the fixture for raw frame editing.
func withID3Frames(t *testing.T, path string, edit func(id3 *id3v2.Tag)) {
	t.Helper()
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open for tagging: %v", err)
	}
	defer id3.Close()

	edit(id3)
	if err := id3.Save(); err != nil {
		t.Fatalf("save frames: %v", err)
	}
}

func TestReadMP3WithID3v2(t *testing.T) {
	dir := t.TempDir()

	t.Run("frame set", func(t *testing.T) {
		path := fixture(t, dir, "full.mp3")
		withID3Frames(t, path, func(id3 *id3v2.Tag) {
			id3.SetTitle("Night Drive")
			id3.SetArtist("The Voltage")
			id3.SetAlbum("Signal Path")
			id3.SetYear("2021")
			id3.SetGenre("Electronic")
			id3.AddTextFrame("TRCK", id3v2.EncodingUTF8, "7/11")
			id3.AddTextFrame("TPOS", id3v2.EncodingUTF8, "2/3")
			id3.AddTextFrame("TPE2", id3v2.EncodingUTF8, "Voltage Collective")
		})

		got, err := readMP3WithID3v2(path)
		if err != nil {
			t.Fatalf("readMP3WithID3v2: %v", err)
		}
		checkTagFields(t, got, &Tag{
			Title:       "Night Drive",
			Artist:      "The Voltage",
			AlbumArtist: "Voltage Collective",
			Album:       "Signal Path",
			Genre:       "Electronic",
			Date:        "2021",
			TrackNumber: 7,
			TotalTracks: 11,
			DiscNumber:  2,
			TotalDiscs:  3,
		})
	})

	t.Run("fallbacks", func(t *testing.T) {
		path := fixture(t, dir, "spare.mp3")
		withID3Frames(t, path, func(id3 *id3v2.Tag) {
			id3.SetArtist("Lone Voice")
			id3.SetAlbum("Signal Path")
		})

		got, err := readMP3WithID3v2(path)
		if err != nil {
			t.Fatalf("readMP3WithID3v2: %v", err)
		}
		if got.Title != "spare.mp3" {
			t.Errorf("Title = %q, want filename", got.Title)
		}
		if got.AlbumArtist != "Lone Voice" {
			t.Errorf("AlbumArtist = %q, want artist", got.AlbumArtist)
		}
	})
}

func TestID3DateFrames(t *testing.T) {
	dir := t.TempDir()

	read := func(t *testing.T, name string, edit func(id3 *id3v2.Tag)) *Tag {
		t.Helper()
		path := fixture(t, dir, name)
		withID3Frames(t, path, func(id3 *id3v2.Tag) {
			id3.SetTitle("Dated")
			edit(id3)
		})
		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		return got
	}

	t.Run("v2.3 year and date frames", func(t *testing.T) {
		got := read(t, "v23.mp3", func(id3 *id3v2.Tag) {
			id3.AddTextFrame("TYER", id3v2.EncodingUTF8, "2023")
			id3.AddTextFrame("TDAT", id3v2.EncodingUTF8, "1506") // DDMM
			id3.AddTextFrame("TORY", id3v2.EncodingUTF8, "1999")
		})
		if got.Date != "2023-06-15" {
			t.Errorf("Date = %q, want %q", got.Date, "2023-06-15")
		}
		if got.OriginalDate != "1999" {
			t.Errorf("OriginalDate = %q, want %q", got.OriginalDate, "1999")
		}
	})

	t.Run("v2.4 frames win", func(t *testing.T) {
		got := read(t, "v24.mp3", func(id3 *id3v2.Tag) {
			id3.AddTextFrame("TDRC", id3v2.EncodingUTF8, "2020-01-02")
			id3.AddTextFrame("TYER", id3v2.EncodingUTF8, "1999")
			id3.AddTextFrame("TDOR", id3v2.EncodingUTF8, "1981-11-23")
			id3.AddTextFrame("TORY", id3v2.EncodingUTF8, "1970")
		})
		if got.Date != "2020-01-02" {
			t.Errorf("Date = %q, want %q", got.Date, "2020-01-02")
		}
		if got.OriginalDate != "1981-11-23" {
			t.Errorf("OriginalDate = %q, want %q", got.OriginalDate, "1981-11-23")
		}
	})

	t.Run("original year user frame", func(t *testing.T) {
		got := read(t, "txxx.mp3", func(id3 *id3v2.Tag) {
			id3.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: "ORIGINALYEAR",
				Value:       "1984",
			})
		})
		if got.OriginalDate != "1984" {
			t.Errorf("OriginalDate = %q, want %q", got.OriginalDate, "1984")
		}
	})
}

func TestID3Lyrics_SkipsEmptyFrames(t *testing.T) {
	path := fixture(t, t.TempDir(), "lyrics.mp3")

	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open for tagging: %v", err)
	}
	defer id3.Close()

	// Some taggers leave empty USLT frames behind.
	id3.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "eng",
		Lyrics:   "",
	})
	id3.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "kor",
		Lyrics:   "가사 한 줄",
	})

	if got := id3Lyrics(id3); got != "가사 한 줄" {
		t.Errorf("id3Lyrics() = %q, want %q", got, "가사 한 줄")
	}
}

func TestID3Pictures_FileOrder(t *testing.T) {
	path := fixture(t, t.TempDir(), "pics.mp3")

	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open for tagging: %v", err)
	}
	defer id3.Close()

	front := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1}
	back := []byte{0xFF, 0xD8, 0xFF, 0xE0, 2}
	id3.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mimeJPEG,
		PictureType: id3v2.PTFrontCover,
		Description: "Front Cover",
		Picture:     front,
	})
	id3.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mimeJPEG,
		PictureType: id3v2.PTBackCover,
		Description: "Back",
		Picture:     back,
	})

	pics := id3Pictures(id3)
	if len(pics) != 2 {
		t.Fatalf("len(pics) = %d, want 2", len(pics))
	}
	if !bytes.Equal(pics[0].Data, front) || pics[0].Description != "Front Cover" {
		t.Errorf("first picture = %q (%d bytes), want front cover", pics[0].Description, len(pics[0].Data))
	}
	if !bytes.Equal(pics[1].Data, back) || pics[1].Description != "Back" {
		t.Errorf("second picture = %q (%d bytes), want back cover", pics[1].Description, len(pics[1].Data))
	}
}
