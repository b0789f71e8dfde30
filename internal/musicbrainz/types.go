// Package musicbrainz provides a client for the MusicBrainz API and the
// Cover Art Archive, plus the release-search logic the cover pipeline
// uses to pick artwork for an artist/album pair.
package musicbrainz

// Release is a condensed MusicBrainz release (one concrete issue of an
// album), built from a search result.
type Release struct {
	ID          string
	Title       string
	Artist      string
	Date        string
	Country     string
	TrackCount  int
	Score       int    // search relevance, 0-100
	ReleaseType string // Album, Single, EP
}

// Wire shapes for the /release search endpoint.

type searchResponse struct {
	Releases []releaseResult `json:"releases"`
}

type releaseResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Score        int            `json:"score"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	ReleaseGroup *releaseGroup  `json:"release-group"`
	Media        []medium       `json:"media"`
}

type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		SortName string `json:"sort-name"`
	} `json:"artist"`
	JoinPhrase string `json:"joinphrase"`
}

type releaseGroup struct {
	ID          string `json:"id"`
	PrimaryType string `json:"primary-type"`
}

type medium struct {
	Position   int    `json:"position"`
	Format     string `json:"format"`
	TrackCount int    `json:"track-count"`
}
