package musicbrainz

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder for fetched artwork

	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/media"
)

// releaseCandidates caps how many search results get a cover-art probe.
const releaseCandidates = 5

// CoverSource resolves front-cover artwork for an artist/album pair:
// it searches MusicBrainz releases and probes the Cover Art Archive for
// the best-scoring candidates until one has a front image.
type CoverSource struct {
	client  *Client
	maxSize int // longest edge in pixels; 0 keeps the original size
	log     logrus.FieldLogger
}

// NewCoverSource creates a cover source over the given client.
func NewCoverSource(client *Client, maxSize int, log logrus.FieldLogger) *CoverSource {
	return &CoverSource{
		client:  client,
		maxSize: maxSize,
		log:     log,
	}
}

var _ media.CoverService = (*CoverSource)(nil)

// FetchCover returns front-cover image bytes for the artist/album pair,
// or nil when no release has artwork. Failures probing one release are
// logged and the next candidate is tried.
func (s *CoverSource) FetchCover(ctx context.Context, artist, album string) ([]byte, error) {
	query := ReleaseQuery(artist, album)
	if query == "" {
		return nil, nil
	}

	releases, err := s.client.SearchReleases(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search releases: %w", err)
	}

	for i, rel := range releases {
		if i >= releaseCandidates {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := s.fetchArt(ctx, rel.ID)
		if err != nil {
			s.log.WithError(err).WithField("release", rel.ID).Debug("cover art fetch failed")
			continue
		}
		if data == nil {
			continue
		}
		return s.fit(data), nil
	}

	return nil, nil
}

// fetchArt picks the archive size tier closest to the configured limit.
func (s *CoverSource) fetchArt(ctx context.Context, releaseID string) ([]byte, error) {
	if s.maxSize > 500 || s.maxSize <= 0 {
		return s.client.GetCoverArtLarge(ctx, releaseID)
	}
	return s.client.GetCoverArt(ctx, releaseID)
}

// fit downscales oversized artwork to maxSize on the longest edge,
// re-encoding as JPEG. Images that fit, or that fail to decode, pass
// through unchanged.
func (s *CoverSource) fit(data []byte) []byte {
	if s.maxSize <= 0 {
		return data
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	bounds := img.Bounds()
	if bounds.Dx() <= s.maxSize && bounds.Dy() <= s.maxSize {
		return data
	}

	resized := resize.Thumbnail(uint(s.maxSize), uint(s.maxSize), img, resize.Lanczos3) //nolint:gosec // maxSize is validated positive

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return data
	}
	return buf.Bytes()
}
