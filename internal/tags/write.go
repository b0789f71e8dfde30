package tags

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Write writes tag metadata to a music file in place. The Tag's picture
// list is authoritative: existing embedded images are replaced by
// t.Pictures, and an empty list removes them on formats that support
// removal. The file must already exist.
func Write(path string, t *Tag) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		return writeMP3Tags(path, t)
	case ExtFLAC:
		return writeFLACTags(path, t)
	case ExtOPUS, ExtOGG, ExtOGA:
		return writeOggTags(path, t)
	case ExtM4A, ExtMP4:
		return writeM4ATags(path, t)
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
}

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// detectMimeType sniffs image data, normalized to the two types tag
// containers care about. Unknown data defaults to JPEG.
func detectMimeType(data []byte) string {
	if len(data) == 0 {
		return mimeJPEG
	}
	if http.DetectContentType(data) == mimePNG {
		return mimePNG
	}
	return mimeJPEG
}

// normalizePicture fills embedding defaults for the i-th picture: the
// first one is the front cover, later ones untyped extras.
func normalizePicture(i int, p Picture) (front bool, desc, mime string) {
	front = i == 0
	desc = p.Description
	if front && desc == "" {
		desc = "Front Cover"
	}
	mime = p.MIME
	if mime == "" {
		mime = detectMimeType(p.Data)
	}
	return front, desc, mime
}

// hasLeadingID3v2 reports whether the file starts with an ID3v2 block.
func hasLeadingID3v2(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, 3)
	if _, err := f.Read(header); err != nil {
		return false
	}
	return string(header) == id3Magic
}

// stripLeadingID3v2 rewrites the file without its leading ID3v2 block;
// a file without one is left untouched. MP3s carrying v2.2 tags the
// id3v2 library cannot parse and FLACs with bolted-on ID3 headers both
// need this before their writers can work on them.
func stripLeadingID3v2(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if len(data) < 10 || string(data[:3]) != id3Magic {
		return nil
	}

	// The declared size excludes the 10-byte header and the optional
	// v2.4 footer.
	tagSize := int(syncsafeLen(data[6:10])) + 10
	if data[5]&0x10 != 0 {
		tagSize += 10
	}
	if tagSize >= len(data) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", tagSize, len(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	return os.WriteFile(path, data[tagSize:], info.Mode().Perm())
}
