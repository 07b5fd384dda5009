package driver

import (
	"os"
	"path/filepath"
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/fs"
)

// Clean removes obj, lib and tmp for pkg (spec.md §4.10).
func (d *Driver) Clean(pkg core.Identifier) error {
	c, err := d.Engine.Context(pkg)
	if err != nil {
		return err
	}
	roots := c.Roots()
	var errs *multierror.Error
	for _, dir := range []string{roots.Obj, roots.Lib, roots.Tmp} {
		if err := os.RemoveAll(dir); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Distclean is Clean plus removing bin, the native staging directory,
// and any global-bin symlink whose target lies under this package's
// bindir (spec.md §4.10).
func (d *Driver) Distclean(pkg core.Identifier) error {
	if err := d.Clean(pkg); err != nil {
		return err
	}
	c, err := d.Engine.Context(pkg)
	if err != nil {
		return err
	}
	roots := c.Roots()

	var errs *multierror.Error
	if err := os.RemoveAll(roots.Bin); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := os.RemoveAll(roots.Native); err != nil {
		errs = multierror.Append(errs, err)
	}

	if _, statErr := os.Stat(roots.BinRoot); statErr == nil {
		walkErr := fs.Walk(roots.BinRoot, func(name string, isDir bool) error {
			if isDir {
				return nil
			}
			target, err := os.Readlink(name)
			if err != nil {
				return nil // not a symlink; leave it alone
			}
			if withinDir(target, roots.Bin) {
				if err := os.Remove(name); err != nil {
					errs = multierror.Append(errs, err)
				}
			}
			return nil
		})
		if walkErr != nil {
			errs = multierror.Append(errs, walkErr)
		}
	}
	return errs.ErrorOrNil()
}

func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
