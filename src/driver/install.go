package driver

import (
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// installSymlink creates or atomically replaces the symlink at link so
// that it points at target. renameio.Symlink builds the link in a
// sibling temp path and renames it into place, so readers never
// observe a half-written or missing link (spec.md §4.10's "create or
// replace a symbolic link").
func installSymlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0775); err != nil {
		return err
	}
	return renameio.Symlink(target, link)
}
