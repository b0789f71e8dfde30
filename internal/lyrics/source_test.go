package lyrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/lrclib"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestSource(t *testing.T, handler http.Handler) (*Source, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cacheDir := t.TempDir()
	return NewSource(lrclib.New(srv.URL), cacheDir, testLogger()), cacheDir
}

func TestFindBestMatch_GetHit(t *testing.T) {
	src, cacheDir := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("path = %q, want /get", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"trackName": "Song", "plainLyrics": "words",
			"syncedLyrics": "[00:01.00] words"}`))
	}))

	match, err := src.FindBestMatch(t.Context(), "Artist", "Song", "Album", 200*time.Second)
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if match == nil || match.SyncedLyrics != "[00:01.00] words" {
		t.Fatalf("match = %+v", match)
	}
	if match.Best() != "[00:01.00] words" {
		t.Errorf("Best() = %q, want synced preferred", match.Best())
	}

	// Synced result is written back to the cache.
	cached, err := os.ReadFile(filepath.Join(cacheDir, "Artist", "Song.lrc"))
	if err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	if string(cached) != "[00:01.00] words" {
		t.Errorf("cached = %q", cached)
	}
}

func TestFindBestMatch_CacheShortCircuitsAPI(t *testing.T) {
	src, cacheDir := newTestSource(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("API called despite cache hit")
	}))

	dir := filepath.Join(cacheDir, "Artist")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Song.lrc"), []byte("[00:05.00] cached"), 0o600); err != nil {
		t.Fatal(err)
	}

	match, err := src.FindBestMatch(t.Context(), "Artist", "Song", "", 0)
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if match == nil || match.SyncedLyrics != "[00:05.00] cached" {
		t.Errorf("match = %+v", match)
	}
}

func TestFindBestMatch_PlainCacheClassified(t *testing.T) {
	src, cacheDir := newTestSource(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("API called despite cache hit")
	}))

	dir := filepath.Join(cacheDir, "Artist")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Song.lrc"), []byte("no timestamps here"), 0o600); err != nil {
		t.Fatal(err)
	}

	match, err := src.FindBestMatch(t.Context(), "Artist", "Song", "", 0)
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if match == nil || match.PlainLyrics != "no timestamps here" || match.SyncedLyrics != "" {
		t.Errorf("match = %+v, want plain classification", match)
	}
}

func TestFindBestMatch_SearchFallback(t *testing.T) {
	src, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get":
			w.WriteHeader(http.StatusNotFound)
		case "/search":
			_, _ = w.Write([]byte(`[
				{"trackName": "Song (live)", "duration": 251, "plainLyrics": "live words"},
				{"trackName": "Song", "duration": 200, "syncedLyrics": "[00:01.00] studio words"},
				{"trackName": "Song (extended)", "duration": 300, "syncedLyrics": "[00:01.00] too long"}
			]`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	match, err := src.FindBestMatch(t.Context(), "Artist", "Song", "", 202*time.Second)
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if match == nil || match.SyncedLyrics != "[00:01.00] studio words" {
		t.Errorf("match = %+v, want closest-duration synced result", match)
	}
}

func TestFindBestMatch_NothingFound(t *testing.T) {
	src, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/get" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	match, err := src.FindBestMatch(t.Context(), "Artist", "Unknown", "", 0)
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if match != nil {
		t.Errorf("match = %+v, want nil", match)
	}
}

func TestFindBestMatch_InstrumentalIsNoMatch(t *testing.T) {
	src, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"trackName": "Song", "instrumental": true}`))
	}))

	match, err := src.FindBestMatch(t.Context(), "Artist", "Song", "", 0)
	if err != nil {
		t.Fatalf("FindBestMatch: %v", err)
	}
	if match != nil {
		t.Errorf("match = %+v, want nil for instrumental", match)
	}
}

func TestFindBestMatch_ServerErrorPropagates(t *testing.T) {
	src, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := src.FindBestMatch(t.Context(), "Artist", "Song", "", 0); err == nil {
		t.Error("expected error from failing API")
	}
}

func TestBestResult(t *testing.T) {
	synced := func(d float64) lrclib.LyricsResult {
		return lrclib.LyricsResult{Duration: d, SyncedLyrics: "[00:01.00] x"}
	}
	plain := func(d float64) lrclib.LyricsResult {
		return lrclib.LyricsResult{Duration: d, PlainLyrics: "x"}
	}

	tests := []struct {
		name     string
		results  []lrclib.LyricsResult
		duration time.Duration
		wantIdx  int // -1 for nil
	}{
		{"closest duration wins", []lrclib.LyricsResult{synced(190), synced(201), synced(240)}, 200 * time.Second, 1},
		{"synced beats plain at equal distance", []lrclib.LyricsResult{plain(200), synced(200)}, 200 * time.Second, 1},
		{"all drift too far", []lrclib.LyricsResult{synced(100), synced(350)}, 200 * time.Second, -1},
		{"no duration picks first usable", []lrclib.LyricsResult{{Instrumental: true}, plain(0)}, 0, 1},
		{"empty results", nil, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestResult(tt.results, tt.duration)
			if tt.wantIdx == -1 {
				if got != nil {
					t.Errorf("bestResult = %+v, want nil", got)
				}
				return
			}
			if got != &tt.results[tt.wantIdx] {
				t.Errorf("bestResult = %+v, want index %d", got, tt.wantIdx)
			}
		})
	}
}

func TestIsSynced(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"[00:01.00] line", true},
		{"[1:23] terse stamp", true},
		{"plain words", false},
		{"[intro] section label", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSynced(tt.text); got != tt.want {
			t.Errorf("IsSynced(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AC/DC", "AC_DC"},
		{"What?", "What_"},
		{"  dots... ", "dots"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
