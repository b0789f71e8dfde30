// Package fsys implements the filesystem side of the engine: directory
// listings for navigation, recursive snapshots for batch mode, and the
// rename/delete/sidecar operations the commit path needs.
package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/llehouerou/sleeve/internal/media"
	"github.com/llehouerou/sleeve/internal/tags"
)

// Service performs real filesystem operations.
type Service struct{}

// New creates a filesystem service.
func New() *Service {
	return &Service{}
}

var _ media.FileService = (*Service)(nil)

// ListDirectory returns the subdirectories and music files directly
// under path, both sorted by name. Hidden entries and non-music files
// are skipped. A path that no longer exists yields empty listings, not
// an error, so a view over a deleted directory simply goes empty.
func (s *Service) ListDirectory(path string) ([]string, []string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read directory: %w", err)
	}

	var dirs, files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(path, name)
		if e.IsDir() {
			dirs = append(dirs, full)
			continue
		}
		if tags.IsMusicFile(full) {
			files = append(files, full)
		}
	}
	return dirs, files, nil
}

// ListAllFilesRecursive returns every music file under root, sorted by
// path. Hidden directories are not descended into; unreadable entries
// are skipped so one bad subtree never aborts the scan.
func (s *Service) ListAllFilesRecursive(root string) ([]string, error) {
	var paths []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if tags.IsMusicFile(path) {
			paths = append(paths, path)
		}
		return nil
	})

	sort.Strings(paths)
	return paths, nil
}

// Rename gives path a new base name within its directory and returns
// the new path. It refuses names containing a path separator and never
// overwrites an existing entry.
func (s *Service) Rename(path, newName string) (string, error) {
	if newName == "" {
		return "", fmt.Errorf("rename: empty name")
	}
	if strings.ContainsRune(newName, os.PathSeparator) {
		return "", fmt.Errorf("rename: name %q contains a path separator", newName)
	}

	newPath := filepath.Join(filepath.Dir(path), newName)
	if newPath == path {
		return path, nil
	}
	if _, err := os.Stat(newPath); err == nil {
		return "", fmt.Errorf("rename: %s already exists", newPath)
	}
	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}
	return newPath, nil
}

// DeleteFile removes a single file.
func (s *Service) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// DeleteDirectory removes a directory and everything under it.
func (s *Service) DeleteDirectory(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete directory: %w", err)
	}
	return nil
}

// WriteLyricsSidecar writes lyrics to a .lrc file next to the audio
// file, replacing any existing sidecar.
func (s *Service) WriteLyricsSidecar(audioPath, lyrics string) error {
	if err := os.WriteFile(SidecarPath(audioPath), []byte(lyrics), 0o644); err != nil {
		return fmt.Errorf("write lyrics sidecar: %w", err)
	}
	return nil
}

// ReadLyricsSidecar returns the contents of the .lrc file next to the
// audio file. A missing sidecar yields empty text, not an error.
func (s *Service) ReadLyricsSidecar(audioPath string) (string, error) {
	data, err := os.ReadFile(SidecarPath(audioPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read lyrics sidecar: %w", err)
	}
	return string(data), nil
}

// SidecarPath returns the .lrc path paired with an audio file.
func SidecarPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}
