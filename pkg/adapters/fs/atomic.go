package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/quicknotes/pkg/core"
)

// TempFilePrefix marks in-flight slot writes. The watcher ignores such files.
const TempFilePrefix = "quicknotes-tmp-"

const slotPerm os.FileMode = 0644

// replaceSlot swaps the slot file for data in one rename. Readers see either
// the previous content or the new one, never a partial write. The staging
// file lives next to the slot as "<TempFilePrefix><slot file>-<random>".
func (s *Store) replaceSlot(slot core.Slot, data []byte) (err error) {
	target := s.SlotPath(slot)

	staged, err := os.CreateTemp(filepath.Dir(target), TempFilePrefix+s.slotFile(slot)+"-*")
	if err != nil {
		return fmt.Errorf("slot %s: stage: %w", slot, err)
	}
	name := staged.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err = staged.Write(data); err == nil {
		err = staged.Sync()
	}
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("slot %s: write staged copy: %w", slot, err)
	}

	if err = os.Chmod(name, slotPerm); err != nil {
		return fmt.Errorf("slot %s: chmod: %w", slot, err)
	}
	if err = os.Rename(name, target); err != nil {
		return fmt.Errorf("slot %s: publish: %w", slot, err)
	}

	s.syncDir(filepath.Dir(target))
	return nil
}

// syncDir flushes the directory entry of a rename. Platforms that cannot
// fsync a directory only get a debug line.
func (s *Store) syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		s.debug("directory sync skipped", "dir", dir, "error", err)
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		s.debug("directory sync failed", "dir", dir, "error", err)
	}
}
