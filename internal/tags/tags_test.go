package tags

import (
	"bytes"
	"testing"
)

func TestTag_Year(t *testing.T) {
	tests := []struct {
		name string
		date string
		want int
	}{
		{"empty", "", 0},
		{"year only", "2023", 2023},
		{"full date", "2023-06-15", 2023},
		{"partial date", "2023-06", 2023},
		{"invalid", "invalid", 0},
		{"short", "23", 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := &Tag{Date: tt.date}
			if got := tag.Year(); got != tt.want {
				t.Errorf("Year() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTag_OriginalYear(t *testing.T) {
	tests := []struct {
		name         string
		originalDate string
		want         string
	}{
		{"empty", "", ""},
		{"year only", "1999", "1999"},
		{"full date", "1999-12-31", "1999"},
		{"partial date", "1999-12", "1999"},
		{"short", "99", "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := &Tag{OriginalDate: tt.originalDate}
			if got := tag.OriginalYear(); got != tt.want {
				t.Errorf("OriginalYear() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"song.FLAC", true},
		{"song.opus", true},
		{"song.ogg", true},
		{"song.oga", true},
		{"song.OGA", true},
		{"song.m4a", true},
		{"song.mp4", true},
		{"song.wav", false},
		{"song.txt", false},
		{"song", false},
		{"/path/to/music.flac", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsMusicFile(tt.path); got != tt.want {
				t.Errorf("IsMusicFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSplitNumberPair(t *testing.T) {
	tests := []struct {
		input      string
		num, total int
	}{
		{"", 0, 0},
		{"7", 7, 0},
		{"7/11", 7, 11},
		{"1/1", 1, 1},
		{"junk", 0, 0},
		{"7/junk", 7, 0},
		{"junk/11", 0, 11},
	}

	for _, tt := range tests {
		num, total := splitNumberPair(tt.input)
		if num != tt.num || total != tt.total {
			t.Errorf("splitNumberPair(%q) = (%d, %d), want (%d, %d)",
				tt.input, num, total, tt.num, tt.total)
		}
	}
}

func TestTag_Equal(t *testing.T) {
	base := func() *Tag {
		return &Tag{
			Path:        "/music/a.mp3",
			Title:       "Title",
			Artist:      "Artist",
			Album:       "Album",
			Genre:       "Rock",
			TrackNumber: 3,
			Lyrics:      "line one\nline two",
			Pictures:    []Picture{{MIME: mimeJPEG, Description: "Front Cover", Data: []byte{1, 2, 3}}},
		}
	}

	t.Run("identical", func(t *testing.T) {
		if !base().Equal(base()) {
			t.Error("Equal() = false for identical tags")
		}
	})

	t.Run("path ignored", func(t *testing.T) {
		other := base()
		other.Path = "/music/elsewhere.mp3"
		if !base().Equal(other) {
			t.Error("Equal() should ignore Path")
		}
	})

	t.Run("title differs", func(t *testing.T) {
		other := base()
		other.Title = "Other"
		if base().Equal(other) {
			t.Error("Equal() = true despite title change")
		}
	})

	t.Run("lyrics differ", func(t *testing.T) {
		other := base()
		other.Lyrics = ""
		if base().Equal(other) {
			t.Error("Equal() = true despite lyrics change")
		}
	})

	t.Run("picture bytes differ", func(t *testing.T) {
		other := base()
		other.Pictures[0].Data = []byte{9, 9, 9}
		if base().Equal(other) {
			t.Error("Equal() = true despite picture change")
		}
	})

	t.Run("picture count differs", func(t *testing.T) {
		other := base()
		other.Pictures = nil
		if base().Equal(other) {
			t.Error("Equal() = true despite picture removal")
		}
	})

	t.Run("nil other", func(t *testing.T) {
		if base().Equal(nil) {
			t.Error("Equal(nil) = true")
		}
	})
}

func TestTag_Clone(t *testing.T) {
	original := &Tag{
		Title:    "Title",
		Artist:   "Artist",
		Lyrics:   "some lyrics",
		Pictures: []Picture{{MIME: mimePNG, Data: []byte{1, 2, 3}}},
	}

	clone := original.Clone()
	if !original.Equal(clone) {
		t.Fatal("clone should equal original")
	}

	// Mutating the clone's picture data must not leak into the original.
	clone.Pictures[0].Data[0] = 99
	if original.Pictures[0].Data[0] == 99 {
		t.Error("Clone() shares picture data with original")
	}

	clone.Pictures = append(clone.Pictures, Picture{Data: []byte{4}})
	if len(original.Pictures) != 1 {
		t.Error("Clone() shares picture slice with original")
	}
}

func TestTag_CloneNil(t *testing.T) {
	var tag *Tag
	if tag.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestTag_Sanitize(t *testing.T) {
	tag := &Tag{
		Title:  " Title with NUL\x00 ",
		Artist: "\x00Artist\x00",
		Album:  "  spaced  ",
		Lyrics: "  line one\x00\nline two  ",
	}

	tag.Sanitize()

	if tag.Title != "Title with NUL" {
		t.Errorf("Title = %q", tag.Title)
	}
	if tag.Artist != "Artist" {
		t.Errorf("Artist = %q", tag.Artist)
	}
	if tag.Album != "spaced" {
		t.Errorf("Album = %q", tag.Album)
	}
	// Lyrics keep internal structure untouched.
	if tag.Lyrics != "  line one\x00\nline two  " {
		t.Errorf("Lyrics = %q, want unchanged", tag.Lyrics)
	}
}

func TestTag_HasPictures(t *testing.T) {
	tag := &Tag{}
	if tag.HasPictures() {
		t.Error("HasPictures() = true for empty tag")
	}

	tag.Pictures = []Picture{{Data: []byte{1}}}
	if !tag.HasPictures() {
		t.Error("HasPictures() = false with a picture present")
	}
}

func TestFrontCover(t *testing.T) {
	jpegData := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	pic := FrontCover(jpegData)

	if pic.MIME != mimeJPEG {
		t.Errorf("MIME = %q, want %q", pic.MIME, mimeJPEG)
	}
	if pic.Description != "Front Cover" {
		t.Errorf("Description = %q, want %q", pic.Description, "Front Cover")
	}
	if !bytes.Equal(pic.Data, jpegData) {
		t.Error("Data mismatch")
	}
}
