// internal/media/mock.go
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/llehouerou/sleeve/internal/tags"
)

// MockTagService is a call-recording test double for TagService. Reads
// and writes go through an in-memory map so a write followed by a read
// round-trips like the real codec.
type MockTagService struct {
	TagsByPath map[string]*tags.Tag
	Durations  map[string]time.Duration
	ReadErrs   map[string]error
	WriteErrs  map[string]error

	Reads  []string
	Writes []TagWrite
}

// TagWrite records one WriteTags call.
type TagWrite struct {
	Path string
	Tag  *tags.Tag
}

// NewMockTagService returns an empty mock tag store.
func NewMockTagService() *MockTagService {
	return &MockTagService{
		TagsByPath: make(map[string]*tags.Tag),
		Durations:  make(map[string]time.Duration),
		ReadErrs:   make(map[string]error),
		WriteErrs:  make(map[string]error),
	}
}

// Seed stores a tag for a path, as if it were already on disk.
func (m *MockTagService) Seed(path string, t *tags.Tag, d time.Duration) {
	m.TagsByPath[path] = t.Clone()
	m.Durations[path] = d
}

func (m *MockTagService) ReadTags(path string) (*tags.Tag, time.Duration, error) {
	m.Reads = append(m.Reads, path)
	if err := m.ReadErrs[path]; err != nil {
		return nil, 0, err
	}
	t, ok := m.TagsByPath[path]
	if !ok {
		return nil, 0, fmt.Errorf("mock: no tags for %s", path)
	}
	return t.Clone(), m.Durations[path], nil
}

func (m *MockTagService) WriteTags(path string, t *tags.Tag) error {
	m.Writes = append(m.Writes, TagWrite{Path: path, Tag: t.Clone()})
	if err := m.WriteErrs[path]; err != nil {
		return err
	}
	m.TagsByPath[path] = t.Clone()
	return nil
}

// WriteCount returns how many writes hit the given path.
func (m *MockTagService) WriteCount(path string) int {
	n := 0
	for _, w := range m.Writes {
		if w.Path == path {
			n++
		}
	}
	return n
}

// LyricsQuery records one FindBestMatch call.
type LyricsQuery struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// MockLyricsService is a test double for LyricsService keyed by title.
type MockLyricsService struct {
	Matches map[string]*LyricsMatch
	Errs    map[string]error

	Queries []LyricsQuery
}

// NewMockLyricsService returns an empty mock lyrics source.
func NewMockLyricsService() *MockLyricsService {
	return &MockLyricsService{
		Matches: make(map[string]*LyricsMatch),
		Errs:    make(map[string]error),
	}
}

func (m *MockLyricsService) FindBestMatch(_ context.Context, artist, title, album string, duration time.Duration) (*LyricsMatch, error) {
	m.Queries = append(m.Queries, LyricsQuery{Artist: artist, Title: title, Album: album, Duration: duration})
	if err := m.Errs[title]; err != nil {
		return nil, err
	}
	return m.Matches[title], nil
}

// MockRomanizeService is a test double for RomanizeService. Texts with
// no configured output fail with Err (or a default unsupported error).
type MockRomanizeService struct {
	Out map[string]string
	Err error

	Calls []string
}

// NewMockRomanizeService returns an empty mock romanizer.
func NewMockRomanizeService() *MockRomanizeService {
	return &MockRomanizeService{Out: make(map[string]string)}
}

func (m *MockRomanizeService) Romanize(text string) (string, error) {
	m.Calls = append(m.Calls, text)
	if out, ok := m.Out[text]; ok {
		return out, nil
	}
	if m.Err != nil {
		return "", m.Err
	}
	return "", fmt.Errorf("mock: no romanization for %q", text)
}

// MockCoverService is a test double for CoverService keyed by
// "artist|album".
type MockCoverService struct {
	Covers map[string][]byte
	Errs   map[string]error

	Queries []string
}

// NewMockCoverService returns an empty mock cover source.
func NewMockCoverService() *MockCoverService {
	return &MockCoverService{
		Covers: make(map[string][]byte),
		Errs:   make(map[string]error),
	}
}

// CoverKey builds the lookup key used by the mock.
func CoverKey(artist, album string) string {
	return artist + "|" + album
}

func (m *MockCoverService) FetchCover(_ context.Context, artist, album string) ([]byte, error) {
	key := CoverKey(artist, album)
	m.Queries = append(m.Queries, key)
	if err := m.Errs[key]; err != nil {
		return nil, err
	}
	return m.Covers[key], nil
}

// MockConvertService is a test double for ConvertService.
type MockConvertService struct {
	Artifacts map[string]string
	Errs      map[string]error

	Calls []string
}

// NewMockConvertService returns an empty mock converter.
func NewMockConvertService() *MockConvertService {
	return &MockConvertService{
		Artifacts: make(map[string]string),
		Errs:      make(map[string]error),
	}
}

func (m *MockConvertService) Convert(_ context.Context, path string) (string, error) {
	m.Calls = append(m.Calls, path)
	if err := m.Errs[path]; err != nil {
		return "", err
	}
	return m.Artifacts[path], nil
}

// MockFileService is an in-memory test double for FileService. Dirs
// maps a directory to its subdirectory paths, Files to its audio file
// paths; the recursive listing walks both.
type MockFileService struct {
	Dirs  map[string][]string
	Files map[string][]string

	SidecarErr error
	RenameErr  error
	DeleteErr  error

	Sidecars map[string]string
	Renamed  map[string]string
	Deleted  []string
}

// NewMockFileService returns an empty mock filesystem.
func NewMockFileService() *MockFileService {
	return &MockFileService{
		Dirs:     make(map[string][]string),
		Files:    make(map[string][]string),
		Sidecars: make(map[string]string),
		Renamed:  make(map[string]string),
	}
}

func (m *MockFileService) ListDirectory(path string) ([]string, []string, error) {
	dirs := append([]string(nil), m.Dirs[path]...)
	files := append([]string(nil), m.Files[path]...)
	sort.Strings(dirs)
	sort.Strings(files)
	return dirs, files, nil
}

func (m *MockFileService) ListAllFilesRecursive(path string) ([]string, error) {
	files := append([]string(nil), m.Files[path]...)
	for _, dir := range m.Dirs[path] {
		sub, err := m.ListAllFilesRecursive(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	sort.Strings(files)
	return files, nil
}

func (m *MockFileService) Rename(path, newName string) (string, error) {
	if m.RenameErr != nil {
		return "", m.RenameErr
	}
	newPath := filepath.Join(filepath.Dir(path), newName)
	m.Renamed[path] = newPath
	dir := filepath.Dir(path)
	for i, f := range m.Files[dir] {
		if f == path {
			m.Files[dir][i] = newPath
		}
	}
	return newPath, nil
}

func (m *MockFileService) DeleteFile(path string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, path)
	dir := filepath.Dir(path)
	kept := m.Files[dir][:0]
	for _, f := range m.Files[dir] {
		if f != path {
			kept = append(kept, f)
		}
	}
	m.Files[dir] = kept
	return nil
}

func (m *MockFileService) DeleteDirectory(path string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, path)
	for _, sub := range m.Dirs[path] {
		_ = m.DeleteDirectory(sub)
	}
	delete(m.Dirs, path)
	delete(m.Files, path)
	parent := filepath.Dir(path)
	kept := m.Dirs[parent][:0]
	for _, d := range m.Dirs[parent] {
		if d != path {
			kept = append(kept, d)
		}
	}
	m.Dirs[parent] = kept
	return nil
}

func (m *MockFileService) WriteLyricsSidecar(audioPath, lyrics string) error {
	if m.SidecarErr != nil {
		return m.SidecarErr
	}
	m.Sidecars[audioPath] = lyrics
	return nil
}

func (m *MockFileService) ReadLyricsSidecar(audioPath string) (string, error) {
	if m.SidecarErr != nil {
		return "", m.SidecarErr
	}
	return m.Sidecars[audioPath], nil
}

// RecordingObserver captures observer events for assertions.
type RecordingObserver struct {
	Started  []string
	Finished []string
	Updates  []ItemUpdate
}

// ItemUpdate records one ItemUpdated event.
type ItemUpdate struct {
	Index  int
	Status string
	Busy   bool
}

func (o *RecordingObserver) PipelineStarted(name string, total int) {
	o.Started = append(o.Started, fmt.Sprintf("%s/%d", name, total))
}

func (o *RecordingObserver) ItemUpdated(index int, item Item) {
	o.Updates = append(o.Updates, ItemUpdate{Index: index, Status: item.Pending.Status, Busy: item.Pending.Busy})
}

func (o *RecordingObserver) PipelineFinished(name string, summary string) {
	o.Finished = append(o.Finished, fmt.Sprintf("%s: %s", name, summary))
}

// Compile-time interface checks.
var (
	_ TagService      = (*MockTagService)(nil)
	_ LyricsService   = (*MockLyricsService)(nil)
	_ RomanizeService = (*MockRomanizeService)(nil)
	_ CoverService    = (*MockCoverService)(nil)
	_ ConvertService  = (*MockConvertService)(nil)
	_ FileService     = (*MockFileService)(nil)
	_ Observer        = (*RecordingObserver)(nil)
)
