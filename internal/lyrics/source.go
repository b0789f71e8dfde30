// Package lyrics finds the best lyrics for a track, consulting a local
// cache before the lrclib.net API. Synced results are cached for the
// next lookup.
package lyrics

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/lrclib"
	"github.com/llehouerou/sleeve/internal/media"
)

// maxDurationDrift is how far a search result's duration may deviate
// from the track's before it is rejected as a different recording.
const maxDurationDrift = 10.0 // seconds

// Source provides lyrics from the cache or the lrclib API.
type Source struct {
	client   *lrclib.Client
	cacheDir string // empty disables caching
	log      logrus.FieldLogger
}

// NewSource creates a lyrics source. An empty cacheDir disables the
// on-disk cache.
func NewSource(client *lrclib.Client, cacheDir string, log logrus.FieldLogger) *Source {
	return &Source{
		client:   client,
		cacheDir: cacheDir,
		log:      log,
	}
}

var _ media.LyricsService = (*Source)(nil)

// DefaultCacheDir returns the XDG cache location for fetched lyrics.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "sleeve", "lyrics")
}

// FindBestMatch looks up lyrics for a track: cache first, then an exact
// lrclib get, then a fuzzy search picking the result whose duration is
// closest to the track's. A nil match with nil error means the lookup
// ran but nothing fits.
func (s *Source) FindBestMatch(ctx context.Context, artist, title, album string, duration time.Duration) (*media.LyricsMatch, error) {
	if text, ok := s.fromCache(artist, title); ok {
		return matchFromText(text), nil
	}

	result, err := s.client.Get(ctx, artist, title, album, duration)
	if errors.Is(err, lrclib.ErrNotFound) {
		result, err = s.searchBest(ctx, artist, title, duration)
	}
	if err != nil {
		return nil, err
	}
	if result == nil || result.Instrumental || (!result.HasSyncedLyrics() && !result.HasPlainLyrics()) {
		return nil, nil
	}

	if result.HasSyncedLyrics() {
		if err := s.saveToCache(artist, title, result.SyncedLyrics); err != nil {
			s.log.WithError(err).Debug("lyrics cache write failed")
		}
	}

	return &media.LyricsMatch{
		PlainLyrics:  result.PlainLyrics,
		SyncedLyrics: result.SyncedLyrics,
	}, nil
}

// searchBest falls back to the fuzzy search endpoint and picks the
// closest candidate. A nil result means nothing matched.
func (s *Source) searchBest(ctx context.Context, artist, title string, duration time.Duration) (*lrclib.LyricsResult, error) {
	results, err := s.client.Search(ctx, artist, title)
	if err != nil {
		return nil, err
	}
	return bestResult(results, duration), nil
}

// bestResult scores candidates by duration distance, with a small
// penalty for plain-only lyrics so synced results win near ties.
// Candidates drifting more than maxDurationDrift are rejected.
func bestResult(results []lrclib.LyricsResult, duration time.Duration) *lrclib.LyricsResult {
	var best *lrclib.LyricsResult
	var bestScore float64
	for i := range results {
		r := &results[i]
		if r.Instrumental || (!r.HasSyncedLyrics() && !r.HasPlainLyrics()) {
			continue
		}
		score := 0.0
		if duration > 0 && r.Duration > 0 {
			score = math.Abs(r.Duration - duration.Seconds())
			if score > maxDurationDrift {
				continue
			}
		}
		if !r.HasSyncedLyrics() {
			score += 0.5
		}
		if best == nil || score < bestScore {
			best = r
			bestScore = score
		}
	}
	return best
}

// timestampRe matches LRC line timestamps like [01:23.45].
var timestampRe = regexp.MustCompile(`\[\d{1,2}:\d{2}(?:\.\d{1,3})?\]`)

// IsSynced reports whether lyric text carries LRC timestamps.
func IsSynced(text string) bool {
	return timestampRe.MatchString(text)
}

// matchFromText rebuilds a match from cached text, classifying it as
// synced or plain by its timestamps.
func matchFromText(text string) *media.LyricsMatch {
	if IsSynced(text) {
		return &media.LyricsMatch{SyncedLyrics: text}
	}
	return &media.LyricsMatch{PlainLyrics: text}
}

// fromCache loads previously fetched lyrics for a track.
func (s *Source) fromCache(artist, title string) (string, bool) {
	path := s.cachePath(artist, title)
	if path == "" {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// saveToCache saves lyric text to the cache directory.
func (s *Source) saveToCache(artist, title, content string) error {
	path := s.cachePath(artist, title)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// cachePath returns the cache file path for a track.
func (s *Source) cachePath(artist, title string) string {
	if s.cacheDir == "" || artist == "" || title == "" {
		return ""
	}
	return filepath.Join(s.cacheDir, sanitizeFilename(artist), sanitizeFilename(title)+".lrc")
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFilename makes a tag value safe to use as a file name:
// reserved characters become underscores, surrounding dots and spaces
// go, and overlong names are truncated.
func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "_"
	}
	return name
}
