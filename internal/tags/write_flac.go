package tags

import (
	"fmt"
	"strconv"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// writeFLACTags rewrites the Vorbis comment block and the picture
// blocks of a FLAC file from t. Some taggers bolt an ID3v2 header onto
// FLAC files; it is stripped before parsing since go-flac refuses it.
func writeFLACTags(path string, t *Tag) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		if !hasLeadingID3v2(path) {
			return fmt.Errorf("parse file: %w", err)
		}
		if stripErr := stripLeadingID3v2(path); stripErr != nil {
			return fmt.Errorf("strip ID3v2 header: %w", stripErr)
		}
		if f, err = flac.ParseFile(path); err != nil {
			return fmt.Errorf("parse file after ID3 strip: %w", err)
		}
	}

	// A fresh comment block avoids duplicate tags.
	cmts := flacvorbis.New()
	for _, e := range vorbisEntries(t) {
		if e.value == "" {
			continue
		}
		if err := cmts.Add(e.key, e.value); err != nil {
			return fmt.Errorf("add %s: %w", e.key, err)
		}
	}
	cmtBlock := cmts.Marshal()

	replaced := false
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			f.Meta[i] = &cmtBlock
			replaced = true
			break
		}
	}
	if !replaced {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	// The picture list is authoritative: drop existing picture blocks
	// and rebuild from t.Pictures.
	kept := make([]*flac.MetaDataBlock, 0, len(f.Meta))
	for _, meta := range f.Meta {
		if meta.Type != flac.Picture {
			kept = append(kept, meta)
		}
	}
	f.Meta = kept

	for i, p := range t.Pictures {
		if len(p.Data) == 0 {
			continue
		}
		front, desc, mime := normalizePicture(i, p)
		picType := flacpicture.PictureTypeOther
		if front {
			picType = flacpicture.PictureTypeFrontCover
		}
		pic, err := flacpicture.NewFromImageData(picType, desc, p.Data, mime)
		if err != nil {
			return fmt.Errorf("create picture: %w", err)
		}
		picBlock := pic.Marshal()
		f.Meta = append(f.Meta, &picBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

type vorbisEntry struct {
	key   string
	value string
}

// vorbisEntries flattens a Tag into Vorbis comment pairs. Zero numbers
// render empty; the caller skips empty values.
func vorbisEntries(t *Tag) []vorbisEntry {
	return []vorbisEntry{
		{"TITLE", t.Title},
		{"ARTIST", t.Artist},
		{"ALBUMARTIST", t.AlbumArtist},
		{"ALBUM", t.Album},
		{"GENRE", t.Genre},
		{"TRACKNUMBER", positiveItoa(t.TrackNumber)},
		{"TOTALTRACKS", positiveItoa(t.TotalTracks)},
		{"DISCNUMBER", positiveItoa(t.DiscNumber)},
		{"TOTALDISCS", positiveItoa(t.TotalDiscs)},
		{"DATE", t.Date},
		{"ORIGINALDATE", t.OriginalDate},
		{"ORIGINALYEAR", t.OriginalYear()},
		{"LYRICS", t.Lyrics},
		{"ARTISTSORT", t.ArtistSortName},
		{"LABEL", t.Label},
		{"CATALOGNUMBER", t.CatalogNumber},
		{"BARCODE", t.Barcode},
		{"MEDIA", t.Media},
		{"ISRC", t.ISRC},
		{"MUSICBRAINZ_ARTISTID", t.MBArtistID},
		{"MUSICBRAINZ_ALBUMID", t.MBReleaseID},
		{"MUSICBRAINZ_RELEASEGROUPID", t.MBReleaseGroupID},
		{"MUSICBRAINZ_RELEASETRACKID", t.MBTrackID},
		{"MUSICBRAINZ_TRACKID", t.MBRecordingID},
	}
}

func positiveItoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
