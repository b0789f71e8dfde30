package nav

import (
	"github.com/llehouerou/sleeve/internal/batch"
	"github.com/llehouerou/sleeve/internal/media"
	"github.com/llehouerou/sleeve/internal/tags"
)

// ToggleBatchMode enables or disables batch mode.
//
// Enabling snapshots every music file under the current directory,
// eagerly loads their tags (a failed read logs and leaves the item
// unloaded) and builds a fresh template seeded from the first loaded
// file with an empty dirty set. Disabling discards the session and its
// pending state entirely; nothing from it is persisted.
func (c *Controller) ToggleBatchMode(on bool) error {
	if !on {
		if c.mode == BatchActive {
			c.session = nil
			c.mode = Browsing
		}
		return nil
	}

	switch c.mode {
	case BatchActive:
		return nil
	case NoDirectory:
		return ErrNoDirectory
	}

	paths, err := c.files.ListAllFilesRecursive(c.current)
	if err != nil {
		return err
	}

	items := make([]media.Item, 0, len(paths))
	for _, p := range paths {
		item := media.Item{Path: p}
		t, d, err := c.tags.ReadTags(p)
		if err != nil {
			c.log.WithError(err).WithField("path", p).Warn("tag read failed, leaving item unloaded")
		} else {
			item.Tag = t
			item.Duration = d
		}
		items = append(items, item)
	}

	var seed *tags.Tag
	for i := range items {
		if items[i].Loaded() {
			seed = items[i].Tag
			break
		}
	}

	c.session = batch.NewSession(items, batch.NewTemplate(seed))
	c.mode = BatchActive
	return nil
}

// Session returns the active batch session, or nil outside batch mode.
func (c *Controller) Session() *batch.Session {
	return c.session
}

// Analyze returns the per-field value distribution of the active
// session's items, or nil outside batch mode.
func (c *Controller) Analyze() []batch.FieldReport {
	if c.session == nil {
		return nil
	}
	return batch.Analyze(c.session.Items)
}
