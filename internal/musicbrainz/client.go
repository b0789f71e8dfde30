package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL     = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL = "https://coverartarchive.org"
	userAgent          = "sleeve/0.1 (https://github.com/llehouerou/sleeve)"

	// MusicBrainz allows one request per second per client.
	requestInterval = time.Second

	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second
)

// Client provides access to the MusicBrainz API and the Cover Art Archive.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	coverArtURL string

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a MusicBrainz API client. Empty URLs select the
// public endpoints.
func NewClient(baseURL, coverArtURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if coverArtURL == "" {
		coverArtURL = defaultCoverArtURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		coverArtURL: coverArtURL,
	}
}

// SearchReleases searches for album releases matching the query and
// returns them ordered by search relevance, best first. Query uses
// MusicBrainz Lucene syntax; see ReleaseQuery for the fielded form.
func (c *Client) SearchReleases(ctx context.Context, query string) ([]Release, error) {
	params := url.Values{}
	// Parenthesize so the type filter applies to the whole query.
	params.Set("query", "("+query+") AND primarytype:album")
	params.Set("fmt", "json")
	params.Set("limit", "25")

	var result searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/release?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(result.Releases))
	for i := range result.Releases {
		releases = append(releases, toRelease(&result.Releases[i]))
	}
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Score > releases[j].Score
	})
	return releases, nil
}

// ReleaseQuery builds a fielded Lucene query for an artist/album pair.
// Values are quoted so embedded spaces and operators stay literal.
func ReleaseQuery(artist, album string) string {
	var parts []string
	if artist != "" {
		parts = append(parts, `artist:"`+escapeLucene(artist)+`"`)
	}
	if album != "" {
		parts = append(parts, `release:"`+escapeLucene(album)+`"`)
	}
	return strings.Join(parts, " AND ")
}

// escapeLucene escapes quotes and backslashes inside a quoted phrase.
func escapeLucene(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// getJSON performs a throttled, retried GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// throttle spaces requests at least requestInterval apart.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := requestInterval - time.Since(c.lastRequest); wait > 0 {
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

// do sends the request, retrying 5xx responses and transport errors
// with doubling delays. 4xx responses return to the caller unretried.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = min(delay*2, maxDelay)
		}
		c.throttle()

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
		default:
			return resp, nil
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

func toRelease(r *releaseResult) Release {
	rel := Release{
		ID:      r.ID,
		Title:   r.Title,
		Artist:  joinCredits(r.ArtistCredit),
		Date:    r.Date,
		Country: r.Country,
		Score:   r.Score,
	}
	if r.ReleaseGroup != nil {
		rel.ReleaseType = r.ReleaseGroup.PrimaryType
	}
	for _, m := range r.Media {
		rel.TrackCount += m.TrackCount
	}
	return rel
}

// joinCredits flattens an artist-credit list into a display name,
// keeping the join phrases ("feat.", "&") between contributors.
func joinCredits(credits []artistCredit) string {
	var b strings.Builder
	for _, c := range credits {
		name := c.Name
		if name == "" {
			name = c.Artist.Name
		}
		b.WriteString(name)
		b.WriteString(c.JoinPhrase)
	}
	return b.String()
}
