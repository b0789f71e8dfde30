// Package enrich drives the asynchronous per-batch pipelines: lyric
// fetch, cover fetch and transcoding. Each pipeline walks the session's
// file list strictly in order, one item at a time, updating the item's
// status label and busy flag around every blocking step and notifying
// the observer after each item so progress is visible while the run is
// in flight. One item's failure never aborts the loop.
package enrich

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/batch"
	"github.com/llehouerou/sleeve/internal/media"
)

// Pipeline names reported to the observer.
const (
	PipelineLyrics  = "lyrics"
	PipelineCovers  = "covers"
	PipelineConvert = "convert"
)

// Summary aggregates the per-item outcomes of one pipeline run.
type Summary struct {
	Done     int
	Skipped  int
	NotFound int
	Failed   int
}

// Total returns the number of items the run touched.
func (s Summary) Total() int {
	return s.Done + s.Skipped + s.NotFound + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d done, %d skipped, %d not found, %d failed",
		s.Done, s.Skipped, s.NotFound, s.Failed)
}

// Orchestrator sequences the enrichment pipelines over batch sessions.
// All collaborators are constructor-injected; none are optional except
// the romanizer, whose absence simply disables romanization.
type Orchestrator struct {
	tags     media.TagService
	files    media.FileService
	lyrics   media.LyricsService
	romanize media.RomanizeService
	covers   media.CoverService
	convert  media.ConvertService
	log      logrus.FieldLogger
}

// New creates an orchestrator.
func New(
	tagSvc media.TagService,
	fileSvc media.FileService,
	lyricsSvc media.LyricsService,
	romanizeSvc media.RomanizeService,
	coverSvc media.CoverService,
	convertSvc media.ConvertService,
	log logrus.FieldLogger,
) *Orchestrator {
	return &Orchestrator{
		tags:     tagSvc,
		files:    fileSvc,
		lyrics:   lyricsSvc,
		romanize: romanizeSvc,
		covers:   coverSvc,
		convert:  convertSvc,
		log:      log,
	}
}

// searchKey is the lookup key derived from an item's tags, with
// template values as fallbacks for artist and album.
type searchKey struct {
	artist string
	title  string
	album  string
}

// deriveKey builds the search key for an item: artist falls back from
// track artist to album artist to the template's artist, title falls
// back to the file name without extension, album falls back to the
// template's album.
func deriveKey(item *media.Item, tpl *batch.Template) searchKey {
	var key searchKey
	if item.Tag != nil {
		key.artist = item.Tag.Artist
		if key.artist == "" {
			key.artist = item.Tag.AlbumArtist
		}
		key.title = item.Tag.Title
		key.album = item.Tag.Album
	}
	if key.artist == "" {
		key.artist = tpl.Value(batch.FieldArtist)
	}
	if key.title == "" {
		name := item.DisplayName()
		key.title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if key.album == "" {
		key.album = tpl.Value(batch.FieldAlbum)
	}
	return key
}

// ensureLoaded reads the item's tags through the tag service when the
// snapshot is missing. The bool reports whether the item is usable.
func (o *Orchestrator) ensureLoaded(item *media.Item) bool {
	if item.Loaded() {
		return true
	}
	t, d, err := o.tags.ReadTags(item.Path)
	if err != nil {
		o.log.WithError(err).WithField("path", item.Path).Warn("tag read failed")
		return false
	}
	item.Tag = t
	item.Duration = d
	return true
}

// FetchLyrics runs the lyric pipeline over the session. For each item
// it consults a local .lrc sidecar first, then derives the search key
// and queries the lyrics service, optionally romanizes the result, and
// stores the final text in both the item's pending overlay and the
// session's path-keyed map. It returns ErrBusy without touching
// anything when another pipeline holds the session.
func (o *Orchestrator) FetchLyrics(ctx context.Context, s *batch.Session, obs media.Observer) (Summary, error) {
	if s == nil {
		return Summary{}, batch.ErrNoSession
	}
	if err := s.Acquire(); err != nil {
		return Summary{}, err
	}
	defer s.Release()

	obs = media.ObserverOrNop(obs)
	obs.PipelineStarted(PipelineLyrics, s.Len())

	var sum Summary
	for i := range s.Items {
		item := &s.Items[i]
		o.begin(item, i, media.StatusSearchingLyrics, obs)

		status := o.fetchLyricsForItem(ctx, s, item)
		switch status {
		case media.StatusDone:
			sum.Done++
		case media.StatusNotFound:
			sum.NotFound++
		case media.StatusError:
			sum.Failed++
		default:
			sum.Skipped++
		}

		o.finish(item, i, status, obs)
	}

	obs.PipelineFinished(PipelineLyrics, sum.String())
	return sum, nil
}

// fetchLyricsForItem handles one item and returns its final status.
// Collaborator errors are contained here; only the status escapes.
func (o *Orchestrator) fetchLyricsForItem(ctx context.Context, s *batch.Session, item *media.Item) string {
	if !o.ensureLoaded(item) {
		return media.StatusError
	}

	// A sidecar already on disk beats any lookup; it needs no metadata.
	if text := o.sidecarLyrics(item.Path); text != "" {
		o.storeLyrics(s, item, text)
		return media.StatusDone
	}

	key := deriveKey(item, s.Template)
	if key.artist == "" || key.title == "" {
		return media.StatusSkippedNoMetadata
	}

	match, err := o.lyrics.FindBestMatch(ctx, key.artist, key.title, key.album, item.Duration)
	if err != nil {
		o.log.WithError(err).WithField("path", item.Path).Warn("lyrics lookup failed")
		return media.StatusError
	}
	text := match.Best()
	if text == "" {
		return media.StatusNotFound
	}

	o.storeLyrics(s, item, text)
	return media.StatusDone
}

// storeLyrics applies the template's romanize flag and records the text
// in the item's overlay and the session map.
func (o *Orchestrator) storeLyrics(s *batch.Session, item *media.Item, text string) {
	if s.Template.Romanize {
		text = o.romanized(text, item.Path)
	}
	item.Pending.Lyrics = media.Set(text)
	s.SetLyrics(item.Path, text)
}

// sidecarLyrics reads an existing .lrc next to the file. Read failures
// are logged and treated as no sidecar.
func (o *Orchestrator) sidecarLyrics(path string) string {
	text, err := o.files.ReadLyricsSidecar(path)
	if err != nil {
		o.log.WithError(err).WithField("path", path).Debug("sidecar read failed")
		return ""
	}
	return text
}

// romanized converts the text when the romanizer can; any failure falls
// back to the original text, never to an aborted item.
func (o *Orchestrator) romanized(text, path string) string {
	if o.romanize == nil || text == "" {
		return text
	}
	out, err := o.romanize.Romanize(text)
	if err != nil || out == "" {
		if err != nil {
			o.log.WithError(err).WithField("path", path).Debug("romanization unavailable, keeping original")
		}
		return text
	}
	return out
}

// FetchCovers runs the cover pipeline over the session. Items that
// already carry an embedded picture or a pending cover are skipped
// unless the template's ReplaceCovers flag is set.
func (o *Orchestrator) FetchCovers(ctx context.Context, s *batch.Session, obs media.Observer) (Summary, error) {
	if s == nil {
		return Summary{}, batch.ErrNoSession
	}
	if err := s.Acquire(); err != nil {
		return Summary{}, err
	}
	defer s.Release()

	obs = media.ObserverOrNop(obs)
	obs.PipelineStarted(PipelineCovers, s.Len())

	var sum Summary
	for i := range s.Items {
		item := &s.Items[i]
		o.begin(item, i, media.StatusSearchingCover, obs)

		status := o.fetchCoverForItem(ctx, s, item)
		switch status {
		case media.StatusDone:
			sum.Done++
		case media.StatusNotFound:
			sum.NotFound++
		case media.StatusError:
			sum.Failed++
		default:
			sum.Skipped++
		}

		o.finish(item, i, status, obs)
	}

	obs.PipelineFinished(PipelineCovers, sum.String())
	return sum, nil
}

func (o *Orchestrator) fetchCoverForItem(ctx context.Context, s *batch.Session, item *media.Item) string {
	if !o.ensureLoaded(item) {
		return media.StatusError
	}

	hasCover := item.Tag.HasPictures() || item.Pending.Cover.IsSet()
	if hasCover && !s.Template.ReplaceCovers {
		return media.StatusSkippedHasCover
	}

	key := deriveKey(item, s.Template)
	if key.artist == "" || key.album == "" {
		return media.StatusSkippedNoMetadata
	}

	data, err := o.covers.FetchCover(ctx, key.artist, key.album)
	if err != nil {
		o.log.WithError(err).WithField("path", item.Path).Warn("cover lookup failed")
		return media.StatusError
	}
	if len(data) == 0 {
		return media.StatusNotFound
	}

	item.Pending.Cover = media.Set(data)
	return media.StatusDone
}

// Convert runs the transcode pipeline over the session. The converter
// reports an already-converted item with an empty artifact path and a
// nil error, which becomes a skip rather than a failure.
func (o *Orchestrator) Convert(ctx context.Context, s *batch.Session, obs media.Observer) (Summary, error) {
	if s == nil {
		return Summary{}, batch.ErrNoSession
	}
	if err := s.Acquire(); err != nil {
		return Summary{}, err
	}
	defer s.Release()

	obs = media.ObserverOrNop(obs)
	obs.PipelineStarted(PipelineConvert, s.Len())

	var sum Summary
	for i := range s.Items {
		item := &s.Items[i]
		o.begin(item, i, media.StatusConverting, obs)

		var status string
		artifact, err := o.convert.Convert(ctx, item.Path)
		switch {
		case err != nil:
			o.log.WithError(err).WithField("path", item.Path).Warn("conversion failed")
			status = media.StatusConversionFailed
			sum.Failed++
		case artifact == "":
			status = media.StatusSkippedSameFormat
			sum.Skipped++
		default:
			o.log.WithFields(logrus.Fields{"path": item.Path, "artifact": artifact}).Debug("converted")
			status = media.StatusConverted
			sum.Done++
		}

		o.finish(item, i, status, obs)
	}

	obs.PipelineFinished(PipelineConvert, sum.String())
	return sum, nil
}

// begin marks an item as in progress and notifies the observer.
func (o *Orchestrator) begin(item *media.Item, index int, status string, obs media.Observer) {
	item.Pending.Busy = true
	item.Pending.Status = status
	obs.ItemUpdated(index, *item)
}

// finish records an item's final status and notifies the observer.
func (o *Orchestrator) finish(item *media.Item, index int, status string, obs media.Observer) {
	item.Pending.Busy = false
	item.Pending.Status = status
	obs.ItemUpdated(index, *item)
}
