package nav

import (
	"fmt"
)

// Delete removes the target and re-lists the current directory. When
// the current directory itself was deleted the listing goes empty; the
// file service reports a missing path that way rather than failing.
func (c *Controller) Delete(target Target) error {
	if c.mode == BatchActive {
		return ErrBatchActive
	}
	if c.mode == NoDirectory {
		return ErrNoDirectory
	}

	var err error
	switch target.Kind {
	case TargetDir:
		err = c.files.DeleteDirectory(target.Path)
	case TargetFile:
		err = c.files.DeleteFile(target.Path)
	default:
		return fmt.Errorf("delete: unknown target kind %d", target.Kind)
	}
	if err != nil {
		return err
	}

	entries, err := c.list(c.current)
	if err != nil {
		return err
	}
	c.entries = entries
	c.clampSelection()
	c.persist()
	return nil
}

// Rename gives an entry a new base name through the file service and
// replaces the entry in place.
func (c *Controller) Rename(path, newName string) (string, error) {
	if c.mode == BatchActive {
		return "", ErrBatchActive
	}
	if c.mode == NoDirectory {
		return "", ErrNoDirectory
	}

	newPath, err := c.files.Rename(path, newName)
	if err != nil {
		return "", err
	}
	for i := range c.entries {
		if c.entries[i].Path == path {
			c.entries[i].Path = newPath
			break
		}
	}
	c.persist()
	return newPath, nil
}
