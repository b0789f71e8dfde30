package tags

import (
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"
)

// readWithTaglib reads a file's metadata entirely through TagLib. It
// handles every container TagLib understands and serves as the fallback
// when dhowden/tag cannot parse a file at all. FLAC pictures need a
// separate pass; TagLib's map API does not expose image blocks.
func readWithTaglib(path string) (*Tag, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tm := taglibTags(raw)

	title := tm.get(taglib.Title)
	if title == "" {
		title = filepath.Base(path)
	}
	artist := tm.get(taglib.Artist)
	albumArtist := tm.get(taglib.AlbumArtist)
	if albumArtist == "" {
		albumArtist = artist
	}

	// M4A atoms store "N/M" pairs, Vorbis comments plain numbers;
	// parseNumberPair accepts both.
	trackNum, trackTotal := tm.parseNumberPair(taglib.TrackNumber)
	discNum, discTotal := tm.parseNumberPair(taglib.DiscNumber)

	t := &Tag{
		Path:        path,
		Title:       title,
		Artist:      artist,
		AlbumArtist: albumArtist,
		Album:       tm.get(taglib.Album),
		Genre:       tm.get(taglib.Genre),
		TrackNumber: trackNum,
		TotalTracks: trackTotal,
		DiscNumber:  discNum,
		TotalDiscs:  discTotal,
	}

	fillFromTaglibMap(tm, t)
	if strings.ToLower(filepath.Ext(path)) == ExtFLAC {
		readFLACPictures(path, t)
	}

	t.Sanitize()
	return t, nil
}

// fillFromTaglib reads the file's tags and merges the extended fields
// into t. The primary dhowden/tag pass does not expose dates, sort
// names or identifier tags, so this runs after it.
func fillFromTaglib(path string, t *Tag) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return
	}
	fillFromTaglibMap(taglibTags(raw), t)
}

// fillFromTaglibMap merges extended fields from an already-read tag
// map. Identifier tags are looked up under every spelling found in the
// wild: TagLib's underscore form, the all-caps spaced form, and the
// mixed-case form Picard and Mutagen write.
func fillFromTaglibMap(tm taglibTags, t *Tag) {
	t.Date = tm.get(taglib.Date, "YEAR")
	t.OriginalDate = tm.get(taglib.OriginalDate, "ORIGINALYEAR")

	if lyrics := tm.get(taglib.Lyrics, "UNSYNCEDLYRICS"); lyrics != "" {
		t.Lyrics = lyrics
	}

	t.ArtistSortName = tm.get(taglib.ArtistSort)
	t.Label = tm.get(taglib.Label, "LABEL")
	t.CatalogNumber = tm.get(taglib.CatalogNumber, "CATALOGNUMBER")
	t.Barcode = tm.get(taglib.Barcode, "BARCODE")
	t.Media = tm.get(taglib.Media, "MEDIA")
	t.ISRC = tm.get(taglib.ISRC, "ISRC")

	t.MBArtistID = tm.get(taglib.MusicBrainzArtistID,
		"MUSICBRAINZ ARTIST ID", "MusicBrainz Artist Id")
	t.MBReleaseID = tm.get(taglib.MusicBrainzAlbumID,
		"MUSICBRAINZ ALBUM ID", "MusicBrainz Album Id")
	t.MBReleaseGroupID = tm.get(taglib.MusicBrainzReleaseGroupID,
		"MUSICBRAINZ RELEASE GROUP ID", "MusicBrainz Release Group Id")
	// Recording IDs live under the TRACKID key for historical reasons.
	t.MBRecordingID = tm.get(taglib.MusicBrainzTrackID,
		"MUSICBRAINZ TRACK ID", "MusicBrainz Track Id")
	t.MBTrackID = tm.get(taglib.MusicBrainzReleaseTrackID,
		"MUSICBRAINZ RELEASE TRACK ID", "MusicBrainz Release Track Id")

	if t.TotalTracks == 0 {
		t.TotalTracks = tm.getInt("TOTALTRACKS")
	}
	if t.TotalDiscs == 0 {
		t.TotalDiscs = tm.getInt("TOTALDISCS")
	}
}
