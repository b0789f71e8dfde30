// Package save implements the commit engine: it reconciles a file's
// pending overlay, the batch template and the on-disk tags into one
// candidate tag value, writes it through the tag service only when
// something actually changed, and clears the overlay only on confirmed
// success so a failed item can always be retried.
package save

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/batch"
	"github.com/llehouerou/sleeve/internal/media"
	"github.com/llehouerou/sleeve/internal/tags"
)

// Pipeline is the batch-commit name reported to the observer.
const Pipeline = "save"

// Outcome is the result of committing one item.
type Outcome int

const (
	// OutcomeUnchanged means nothing needed writing.
	OutcomeUnchanged Outcome = iota
	// OutcomeWrote means tags or a lyrics sidecar were persisted.
	OutcomeWrote
	// OutcomeFailed means a write failed; the pending overlay is kept.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeWrote:
		return "wrote"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Summary aggregates the per-item outcomes of one batch commit.
type Summary struct {
	Saved     int
	Unchanged int
	Failed    int
}

// Total returns the number of items the batch commit touched.
func (s Summary) Total() int {
	return s.Saved + s.Unchanged + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d saved, %d unchanged, %d failed", s.Saved, s.Unchanged, s.Failed)
}

// Engine commits reconciled items to persistent tag storage.
type Engine struct {
	tags     media.TagService
	files    media.FileService
	romanize media.RomanizeService
	log      logrus.FieldLogger
}

// New creates a commit engine.
func New(tagSvc media.TagService, fileSvc media.FileService, romanizeSvc media.RomanizeService, log logrus.FieldLogger) *Engine {
	return &Engine{
		tags:     tagSvc,
		files:    fileSvc,
		romanize: romanizeSvc,
		log:      log,
	}
}

// Commit persists one item's reconciled state. A nil template makes
// this a single-file save: the merge step is the identity and only the
// item's own overlay applies.
//
// The candidate is built in layers: the current on-disk tags (read
// through the tag service when the snapshot is missing; a failed read
// logs and proceeds as "no current tags"), the template's dirty fields,
// then the resolved lyrics and pictures from the overlay. The tag write
// happens only when the candidate differs from the current tags by
// value. On success the overlay is cleared and the snapshot re-read
// from the service; on failure the overlay is left intact for retry.
func (e *Engine) Commit(item media.Item, tpl *batch.Template) (media.Item, Outcome, error) {
	current := item.Tag
	if current == nil {
		t, d, err := e.tags.ReadTags(item.Path)
		if err != nil {
			e.log.WithError(err).WithField("path", item.Path).Warn("tag read failed, committing over empty tags")
		} else {
			current = t
			item.Tag = t
			item.Duration = d
		}
	}

	romanizeWanted := item.Pending.Romanize || (tpl != nil && tpl.Romanize)
	extractWanted := item.Pending.ExtractLyrics || (tpl != nil && tpl.ExtractLyrics)

	lyrics := e.resolveLyrics(item, current, romanizeWanted)

	var tplTag *tags.Tag
	var dirty batch.FieldSet
	if tpl != nil {
		tplTag = &tpl.Tag
		dirty = tpl.Dirty
	}
	candidate := batch.MergeForSave(current, tplTag, dirty)
	candidate.Path = item.Path
	candidate.Lyrics = lyrics
	switch {
	case item.Pending.Cover.IsSet():
		candidate.Pictures = []tags.Picture{tags.FrontCover(item.Pending.Cover.Value())}
	case item.Pending.Cover.IsCleared():
		candidate.Pictures = nil
	}

	baseline := current
	if baseline == nil {
		baseline = &tags.Tag{}
	}
	needsWrite := !candidate.Equal(baseline)

	if needsWrite {
		if err := e.tags.WriteTags(item.Path, candidate); err != nil {
			return item, OutcomeFailed, fmt.Errorf("write tags: %w", err)
		}
	}

	sidecarWritten := false
	if extractWanted && lyrics != "" {
		if err := e.files.WriteLyricsSidecar(item.Path, lyrics); err != nil {
			// The tag write above is not rolled back; the caller sees
			// the partial success as a failed commit with the overlay
			// kept for retry.
			return item, OutcomeFailed, fmt.Errorf("write lyrics sidecar: %w", err)
		}
		sidecarWritten = true
	}

	item.Pending.Reset()

	if needsWrite {
		t, d, err := e.tags.ReadTags(item.Path)
		if err != nil {
			e.log.WithError(err).WithField("path", item.Path).Warn("re-read after save failed, keeping written value as snapshot")
			item.Tag = candidate
		} else {
			item.Tag = t
			item.Duration = d
		}
	}

	if needsWrite || sidecarWritten {
		return item, OutcomeWrote, nil
	}
	return item, OutcomeUnchanged, nil
}

// resolveLyrics computes the lyric text the candidate will carry: the
// pending value when one is set, empty when the overlay marks an
// explicit clear, otherwise the current on-disk lyrics. The romanize
// flag re-runs romanization over that source; a romanizer failure keeps
// the source text, so lyrics are never lost to an unavailable
// transliterator.
func (e *Engine) resolveLyrics(item media.Item, current *tags.Tag, romanizeWanted bool) string {
	var source string
	switch {
	case item.Pending.Lyrics.IsSet():
		source = item.Pending.Lyrics.Value()
	case item.Pending.Lyrics.IsCleared():
		return ""
	default:
		if current != nil {
			source = current.Lyrics
		}
	}

	if !romanizeWanted || source == "" || e.romanize == nil {
		return source
	}
	out, err := e.romanize.Romanize(source)
	if err != nil || out == "" {
		if err != nil {
			e.log.WithError(err).WithField("path", item.Path).Debug("romanization unavailable, keeping original lyrics")
		}
		return source
	}
	return out
}

// CommitBatch commits every item of the session in list order. Before
// each commit it seeds the item's pending lyrics from the session's
// path-keyed map and unions the template's pending cover into items
// that have none of their own. Failures are contained per item; each
// item's final status reflects its actual outcome.
func (e *Engine) CommitBatch(s *batch.Session, obs media.Observer) (Summary, error) {
	if s == nil {
		return Summary{}, batch.ErrNoSession
	}
	if err := s.Acquire(); err != nil {
		return Summary{}, err
	}
	defer s.Release()

	obs = media.ObserverOrNop(obs)
	obs.PipelineStarted(Pipeline, s.Len())

	var sum Summary
	for i := range s.Items {
		item := s.Items[i]
		item.Pending.Busy = true
		item.Pending.Status = media.StatusSaving
		s.Items[i] = item
		obs.ItemUpdated(i, item)

		if item.Pending.Lyrics.IsUnset() {
			if text, ok := s.Lyrics(item.Path); ok {
				item.Pending.Lyrics = media.Set(text)
			}
		}
		if item.Pending.Cover.IsUnset() && !s.Template.Cover.IsUnset() {
			item.Pending.Cover = s.Template.Cover
		}

		updated, outcome, err := e.Commit(item, s.Template)
		switch outcome {
		case OutcomeWrote:
			sum.Saved++
			updated.Pending.Status = media.StatusSaved
		case OutcomeUnchanged:
			sum.Unchanged++
			updated.Pending.Status = media.StatusUnchanged
		case OutcomeFailed:
			sum.Failed++
			updated.Pending.Status = media.StatusSaveFailed
			e.log.WithError(err).WithField("path", item.Path).Error("save failed")
		}
		updated.Pending.Busy = false
		s.Items[i] = updated
		obs.ItemUpdated(i, updated)
	}

	obs.PipelineFinished(Pipeline, sum.String())
	return sum, nil
}
