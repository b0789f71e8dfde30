package musicbrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Cover Art Archive size tiers. The archive scales images on demand.
const (
	coverSizeMedium = "front-500"
	coverSizeLarge  = "front-1200"
)

// GetCoverArt fetches the front cover for a release at the 500px tier,
// a good balance of quality and size. Returns nil bytes when the
// archive has no front image for the release.
func (c *Client) GetCoverArt(ctx context.Context, releaseMBID string) ([]byte, error) {
	return c.frontCover(ctx, releaseMBID, coverSizeMedium)
}

// GetCoverArtLarge fetches the front cover at the 1200px tier.
func (c *Client) GetCoverArtLarge(ctx context.Context, releaseMBID string) ([]byte, error) {
	return c.frontCover(ctx, releaseMBID, coverSizeLarge)
}

func (c *Client) frontCover(ctx context.Context, releaseMBID, size string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/release/%s/%s", c.coverArtURL, releaseMBID, size)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.throttle()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The archive has no front image; not an error.
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}
