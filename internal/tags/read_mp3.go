package tags

import (
	"path/filepath"

	"github.com/bogem/id3v2/v2"
)

// readMP3WithID3v2 reads MP3 metadata using only the id3v2 library. It
// is the fallback for files dhowden/tag chokes on, typically UTF-16
// encoded v2.3 tags.
func readMP3WithID3v2(path string) (*Tag, error) {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3.Close()

	title := id3.Title()
	if title == "" {
		title = filepath.Base(path)
	}
	artist := id3.Artist()
	albumArtist := id3Text(id3, "TPE2")
	if albumArtist == "" {
		albumArtist = artist
	}

	track, totalTracks := splitNumberPair(id3Text(id3, "TRCK"))
	disc, totalDiscs := splitNumberPair(id3Text(id3, "TPOS"))

	date := ""
	if year := id3.Year(); len(year) >= 4 {
		date = year[:4]
	}

	t := &Tag{
		Path:        path,
		Title:       title,
		Artist:      artist,
		AlbumArtist: albumArtist,
		Album:       id3.Album(),
		Genre:       id3.Genre(),
		Date:        date,
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
	}

	fillFromID3v2(path, t)
	t.Sanitize()
	return t, nil
}

// fillFromID3v2 merges the frames dhowden/tag does not expose: date
// frames, unsynchronised lyrics, identifier frames, and the complete
// picture list.
func fillFromID3v2(path string, t *Tag) {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer id3.Close()

	t.Date = id3Date(id3)
	t.OriginalDate = id3OriginalDate(id3)

	if lyrics := id3Lyrics(id3); lyrics != "" {
		t.Lyrics = lyrics
	}

	t.ArtistSortName = id3Text(id3, "TSOP")
	t.Label = id3Text(id3, "TPUB")
	t.Media = id3Text(id3, "TMED")
	t.ISRC = id3Text(id3, "TSRC")

	// MusicBrainz identifiers live in TXXX frames, except the recording
	// ID which Picard writes as a UFID frame.
	t.MBArtistID = id3UserText(id3, "MusicBrainz Artist Id")
	t.MBReleaseID = id3UserText(id3, "MusicBrainz Album Id")
	t.MBReleaseGroupID = id3UserText(id3, "MusicBrainz Release Group Id")
	t.MBTrackID = id3UserText(id3, "MusicBrainz Release Track Id")
	t.MBRecordingID = id3RecordingID(id3)

	t.CatalogNumber = id3UserText(id3, "CATALOGNUMBER")
	t.Barcode = id3UserText(id3, "BARCODE")

	if pics := id3Pictures(id3); len(pics) > 0 {
		t.Pictures = pics
	}
}

// id3Date reads the recording date: the v2.4 TDRC frame, else the v2.3
// TYER year combined with the DDMM-format TDAT frame when present.
func id3Date(id3 *id3v2.Tag) string {
	if date := id3Text(id3, "TDRC"); date != "" {
		return date
	}
	year := id3Text(id3, "TYER")
	if year == "" {
		return ""
	}
	if tdat := id3Text(id3, "TDAT"); len(tdat) == 4 {
		return year + "-" + tdat[2:4] + "-" + tdat[0:2]
	}
	return year
}

// id3OriginalDate reads the original release date: v2.4 TDOR, v2.3
// TORY, else the ORIGINALYEAR user frame.
func id3OriginalDate(id3 *id3v2.Tag) string {
	if date := id3Text(id3, "TDOR"); date != "" {
		return date
	}
	if year := id3Text(id3, "TORY"); year != "" {
		return year
	}
	return id3UserText(id3, "ORIGINALYEAR")
}

// id3Text reads a text frame value.
func id3Text(id3 *id3v2.Tag, frameID string) string {
	frames := id3.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

// id3UserText reads a user-defined TXXX frame value by description.
func id3UserText(id3 *id3v2.Tag, description string) string {
	for _, frame := range id3.GetFrames("TXXX") {
		if txxx, ok := frame.(id3v2.UserDefinedTextFrame); ok && txxx.Description == description {
			return txxx.Value
		}
	}
	return ""
}

// id3Lyrics reads the first non-empty USLT frame.
func id3Lyrics(id3 *id3v2.Tag) string {
	frames := id3.GetFrames(id3.CommonID("Unsynchronised lyrics/text transcription"))
	for _, frame := range frames {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok && uslt.Lyrics != "" {
			return uslt.Lyrics
		}
	}
	return ""
}

// id3RecordingID reads the MusicBrainz recording ID from the UFID frame
// owned by musicbrainz.org.
func id3RecordingID(id3 *id3v2.Tag) string {
	for _, frame := range id3.GetFrames("UFID") {
		if ufid, ok := frame.(id3v2.UFIDFrame); ok && ufid.OwnerIdentifier == "http://musicbrainz.org" {
			return string(ufid.Identifier)
		}
	}
	return ""
}

// id3Pictures reads all APIC frames in file order.
func id3Pictures(id3 *id3v2.Tag) []Picture {
	frames := id3.GetFrames(id3.CommonID("Attached picture"))
	if len(frames) == 0 {
		return nil
	}
	pics := make([]Picture, 0, len(frames))
	for _, frame := range frames {
		pf, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pf.Picture) == 0 {
			continue
		}
		pics = append(pics, Picture{
			MIME:        pf.MimeType,
			Description: pf.Description,
			Data:        pf.Picture,
		})
	}
	return pics
}
