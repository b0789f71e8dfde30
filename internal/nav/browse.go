package nav

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScanDirectory opens a directory as the new root and enters browsing.
func (c *Controller) ScanDirectory(path string) error {
	if c.mode == BatchActive {
		return ErrBatchActive
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("scan directory: %w", err)
	}
	entries, err := c.list(abs)
	if err != nil {
		return err
	}

	c.mode = Browsing
	c.root = abs
	c.current = abs
	c.entries = entries
	c.selection = 0
	c.persist()
	return nil
}

// NavigateToDirectory shows another level under the same root.
func (c *Controller) NavigateToDirectory(path string) error {
	if c.mode == BatchActive {
		return ErrBatchActive
	}
	if c.mode == NoDirectory {
		return ErrNoDirectory
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if !c.withinRoot(abs) {
		return fmt.Errorf("navigate: %s is outside %s", abs, c.root)
	}
	entries, err := c.list(abs)
	if err != nil {
		return err
	}

	c.current = abs
	c.entries = entries
	c.selection = 0
	c.persist()
	return nil
}

// NavigateUp moves to the parent directory and keeps the directory we
// came from selected. At the root it is a no-op.
func (c *Controller) NavigateUp() error {
	if c.mode == BatchActive {
		return ErrBatchActive
	}
	if c.mode == NoDirectory {
		return ErrNoDirectory
	}
	if c.current == c.root {
		return nil
	}

	prev := filepath.Base(c.current)
	parent := filepath.Dir(c.current)
	entries, err := c.list(parent)
	if err != nil {
		return err
	}

	c.current = parent
	c.entries = entries
	c.selection = 0
	c.focusName(prev)
	c.persist()
	return nil
}

// Breadcrumbs returns the chain of directories from the root to the
// current one.
func (c *Controller) Breadcrumbs() []string {
	if c.mode == NoDirectory {
		return nil
	}
	var crumbs []string
	p := c.current
	for {
		crumbs = append(crumbs, p)
		if p == c.root {
			break
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs
}

// NavigateToBreadcrumb jumps to the i-th breadcrumb. Out-of-range
// indices are a no-op.
func (c *Controller) NavigateToBreadcrumb(i int) error {
	if c.mode == BatchActive {
		return ErrBatchActive
	}
	if c.mode == NoDirectory {
		return ErrNoDirectory
	}
	crumbs := c.Breadcrumbs()
	if i < 0 || i >= len(crumbs) {
		return nil
	}
	return c.NavigateToDirectory(crumbs[i])
}

// Select moves the selection, clamped into the listing.
func (c *Controller) Select(i int) {
	if len(c.entries) == 0 {
		c.selection = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(c.entries) {
		i = len(c.entries) - 1
	}
	c.selection = i
	c.persist()
}

// SelectByName selects the entry with the given base name. If not
// found, selection stays at the current position.
func (c *Controller) SelectByName(name string) {
	if c.focusName(name) {
		c.persist()
	}
}

func (c *Controller) focusName(name string) bool {
	for i := range c.entries {
		if c.entries[i].Name() == name {
			c.selection = i
			return true
		}
	}
	return false
}

func (c *Controller) list(path string) ([]Entry, error) {
	dirs, files, err := c.files.ListDirectory(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	entries := make([]Entry, 0, len(dirs)+len(files))
	for _, d := range dirs {
		entries = append(entries, Entry{Path: d, IsDir: true})
	}
	for _, f := range files {
		entries = append(entries, Entry{Path: f, IsDir: false})
	}
	return entries, nil
}

func (c *Controller) clampSelection() {
	if c.selection >= len(c.entries) {
		c.selection = len(c.entries) - 1
	}
	if c.selection < 0 {
		c.selection = 0
	}
}

func (c *Controller) withinRoot(path string) bool {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
