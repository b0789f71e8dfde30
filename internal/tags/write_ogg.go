package tags

import (
	"fmt"

	"go.senan.xyz/taglib"
)

// writeOggTags rewrites the Vorbis comments of an Opus or Vorbis file
// through TagLib. The comment set is the same one the FLAC writer
// produces; taglib.Clear drops any keys outside it.
func writeOggTags(path string, t *Tag) error {
	tags := make(map[string][]string)
	for _, e := range vorbisEntries(t) {
		if e.value != "" {
			tags[e.key] = []string{e.value}
		}
	}

	if err := taglib.WriteTags(path, tags, taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	// TagLib stores a single image per file; extra pictures are not
	// representable, and an empty list leaves any existing image alone.
	if len(t.Pictures) > 0 && len(t.Pictures[0].Data) > 0 {
		if err := taglib.WriteImage(path, t.Pictures[0].Data); err != nil {
			return fmt.Errorf("write cover art: %w", err)
		}
	}

	return nil
}
