package tags

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bogem/id3v2/v2"
)

// writeMP3Tags rebuilds the ID3v2 tag of an MP3 file from t. Tags are
// written as v2.4 with UTF-8 encoding; an unsupported v2.2 tag is
// stripped first so the library can start fresh.
func writeMP3Tags(path string, t *Tag) error {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		if stripErr := stripLeadingID3v2(path); stripErr != nil {
			return fmt.Errorf("strip unsupported ID3v2.2 tag: %w", stripErr)
		}
		id3, err = id3v2.Open(path, id3v2.Options{Parse: true})
	}
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer id3.Close()

	id3.SetVersion(4)
	id3.SetDefaultEncoding(id3v2.EncodingUTF8)

	// Rebuilding from scratch avoids duplicate frames.
	id3.DeleteAllFrames()

	id3.SetTitle(t.Title)
	id3.SetArtist(t.Artist)
	id3.SetAlbum(t.Album)
	id3.SetGenre(t.Genre)
	if t.AlbumArtist != "" {
		id3.AddTextFrame(id3.CommonID("Band/Orchestra/Accompaniment"), id3v2.EncodingUTF8, t.AlbumArtist)
	}

	id3.AddTextFrame(id3.CommonID("Track number/Position in set"), id3v2.EncodingUTF8,
		joinNumberPair(t.TrackNumber, t.TotalTracks))
	if t.DiscNumber > 0 {
		id3.AddTextFrame(id3.CommonID("Part of a set"), id3v2.EncodingUTF8,
			joinNumberPair(t.DiscNumber, t.TotalDiscs))
	}

	if t.Date != "" {
		id3.AddTextFrame("TDRC", id3v2.EncodingUTF8, t.Date)
	}
	if t.OriginalDate != "" {
		id3.AddTextFrame("TDOR", id3v2.EncodingUTF8, t.OriginalDate)
		// ORIGINALYEAR as TXXX for taggers that predate TDOR.
		if len(t.OriginalDate) >= 4 {
			addUserText(id3, "ORIGINALYEAR", t.OriginalDate[:4])
		}
	}

	if t.Lyrics != "" {
		id3.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            t.Lyrics,
		})
	}

	addTextFrame(id3, "TSOP", t.ArtistSortName)
	addTextFrame(id3, "TPUB", t.Label)
	addTextFrame(id3, "TMED", t.Media)
	addTextFrame(id3, "TSRC", t.ISRC)

	// MusicBrainz identifiers as TXXX frames under Picard's exact
	// descriptions; the recording ID goes into a UFID frame instead.
	addUserText(id3, "MusicBrainz Artist Id", t.MBArtistID)
	addUserText(id3, "MusicBrainz Album Id", t.MBReleaseID)
	addUserText(id3, "MusicBrainz Release Group Id", t.MBReleaseGroupID)
	addUserText(id3, "MusicBrainz Release Track Id", t.MBTrackID)
	if t.MBRecordingID != "" {
		id3.AddFrame("UFID", id3v2.UFIDFrame{
			OwnerIdentifier: "http://musicbrainz.org",
			Identifier:      []byte(t.MBRecordingID),
		})
	}

	addUserText(id3, "CATALOGNUMBER", t.CatalogNumber)
	addUserText(id3, "BARCODE", t.Barcode)

	for i, p := range t.Pictures {
		if len(p.Data) == 0 {
			continue
		}
		front, desc, mime := normalizePicture(i, p)
		picType := byte(id3v2.PTOther)
		if front {
			picType = id3v2.PTFrontCover
		}
		id3.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mime,
			PictureType: picType,
			Description: desc,
			Picture:     p.Data,
		})
	}

	if err := id3.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// joinNumberPair renders "N" or "N/M" for TRCK/TPOS style frames.
func joinNumberPair(num, total int) string {
	if total > 0 {
		return strconv.Itoa(num) + "/" + strconv.Itoa(total)
	}
	return strconv.Itoa(num)
}

// addTextFrame adds a text frame when the value is non-empty.
func addTextFrame(id3 *id3v2.Tag, frameID, value string) {
	if value == "" {
		return
	}
	id3.AddTextFrame(frameID, id3v2.EncodingUTF8, value)
}

// addUserText adds a TXXX frame when the value is non-empty.
func addUserText(id3 *id3v2.Tag, description, value string) {
	if value == "" {
		return
	}
	id3.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: description,
		Value:       value,
	})
}
