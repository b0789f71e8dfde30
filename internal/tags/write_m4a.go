package tags

import (
	"fmt"

	"github.com/Sorrow446/go-mp4tag"
)

// writeM4ATags writes MP4/M4A tags using go-mp4tag.
func writeM4ATags(path string, t *Tag) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	// Fields without a standard atom travel as freeform atoms under the
	// names Picard and Mutagen use. Track and disc totals are duplicated
	// there; some players only read the freeform form.
	freeform := []struct{ name, value string }{
		{"ORIGINALDATE", t.OriginalDate},
		{"ORIGINALYEAR", t.OriginalYear()},
		{"LABEL", t.Label},
		{"CATALOGNUMBER", t.CatalogNumber},
		{"BARCODE", t.Barcode},
		{"MEDIA", t.Media},
		{"ISRC", t.ISRC},
		{"TOTALTRACKS", positiveItoa(t.TotalTracks)},
		{"TOTALDISCS", positiveItoa(t.TotalDiscs)},
		{"MusicBrainz Artist Id", t.MBArtistID},
		{"MusicBrainz Album Id", t.MBReleaseID},
		{"MusicBrainz Release Group Id", t.MBReleaseGroupID},
		{"MusicBrainz Release Track Id", t.MBTrackID},
		{"MusicBrainz Track Id", t.MBRecordingID},
	}
	custom := make(map[string]string, len(freeform))
	for _, f := range freeform {
		if f.value != "" {
			custom[f.name] = f.value
		}
	}

	mtags := &mp4tag.MP4Tags{
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		AlbumArtist: t.AlbumArtist,
		ArtistSort:  t.ArtistSortName,
		Lyrics:      t.Lyrics,
		TrackNumber: clampInt16(t.TrackNumber),
		TrackTotal:  clampInt16(t.TotalTracks),
		DiscNumber:  clampInt16(t.DiscNumber),
		DiscTotal:   clampInt16(t.TotalDiscs),
		Date:        t.Date,
		CustomGenre: t.Genre,
		Custom:      custom,
	}

	for _, p := range t.Pictures {
		if len(p.Data) == 0 {
			continue
		}
		mtags.Pictures = append(mtags.Pictures, &mp4tag.MP4Picture{Data: p.Data})
	}

	if err := mp4.Write(mtags, nil); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// clampInt16 narrows an int to the int16 range mp4tag's number fields use.
func clampInt16(n int) int16 {
	if n > 32767 {
		return 32767
	}
	if n < -32768 {
		return -32768
	}
	return int16(n)
}
