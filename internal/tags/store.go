package tags

import "time"

// Store adapts the package functions to the tag-service contract the
// engine consumes: read returns the parsed tag plus the stream duration,
// write persists a full tag value.
type Store struct{}

// NewStore returns a Store.
func NewStore() *Store {
	return &Store{}
}

// ReadTags reads the file's tags and probes its duration. A failed
// duration probe is not fatal; the tag is returned with zero duration
// since lyric matching only uses duration as a hint.
func (*Store) ReadTags(path string) (*Tag, time.Duration, error) {
	t, err := Read(path)
	if err != nil {
		return nil, 0, err
	}
	audio, err := ReadAudioInfo(path)
	if err != nil {
		return t, 0, nil
	}
	return t, audio.Duration, nil
}

// WriteTags persists the tag value to the file.
func (*Store) WriteTags(path string, t *Tag) error {
	return Write(path, t)
}
