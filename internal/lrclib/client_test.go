package lrclib

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Get(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("path = %q, want /get", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 42,
			"trackName": "Autobahn",
			"artistName": "Kraftwerk",
			"albumName": "Autobahn",
			"duration": 1369,
			"plainLyrics": "Wir fahren fahren fahren",
			"syncedLyrics": "[00:10.00] Wir fahren fahren fahren"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Get(t.Context(), "Kraftwerk", "Autobahn", "Autobahn", 1369*time.Second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	want := map[string]string{
		"artist_name": "Kraftwerk",
		"track_name":  "Autobahn",
		"album_name":  "Autobahn",
		"duration":    "1369",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if result.TrackName != "Autobahn" || result.ID != 42 {
		t.Errorf("result = %+v", result)
	}
	if !result.HasSyncedLyrics() || !result.HasPlainLyrics() {
		t.Error("expected both lyric forms present")
	}
}

func TestClient_GetOmitsEmptyParams(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Get(t.Context(), "Kraftwerk", "Autobahn", "", 0); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := query["album_name"]; ok {
		t.Error("album_name sent for empty album")
	}
	if _, ok := query["duration"]; ok {
		t.Error("duration sent for zero duration")
	}
}

func TestClient_GetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Get(t.Context(), "Nobody", "Nothing", "", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_GetServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Get(t.Context(), "Kraftwerk", "Autobahn", "", 0)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want generic error", err)
	}
}

func TestClient_Search(t *testing.T) {
	var gotTrack, gotArtist string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		gotTrack = r.URL.Query().Get("track_name")
		gotArtist = r.URL.Query().Get("artist_name")
		_, _ = w.Write([]byte(`[
			{"id": 1, "trackName": "Autobahn", "duration": 1369},
			{"id": 2, "trackName": "Autobahn (live)", "duration": 1401}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	results, err := c.Search(t.Context(), "Kraftwerk", "Autobahn")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotTrack != "Autobahn" || gotArtist != "Kraftwerk" {
		t.Errorf("query track=%q artist=%q", gotTrack, gotArtist)
	}
	if len(results) != 2 || results[0].ID != 1 {
		t.Errorf("results = %+v", results)
	}
}
