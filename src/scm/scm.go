// Package scm drives the external version-control client on behalf of
// the init/checkout/get front end (spec.md §1, §6). The build core only
// ever consumes its output contract: a package source tree laid out at
// $ROOT/src/<package>.
package scm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakarni/zz/src/cli"
	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/process"
)

// Init lays out an empty package tree for id at root/src/<id> and
// writes a minimal package.lua, without touching any remote.
func Init(root string, id core.Identifier) error {
	dir := filepath.Join(root, "src", string(id))
	if _, err := os.Stat(filepath.Join(dir, core.DescriptorFile)); err == nil {
		return fmt.Errorf("%s already has a %s", dir, core.DescriptorFile)
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	contents := fmt.Sprintf("package = %q\n", id)
	path := filepath.Join(dir, core.DescriptorFile)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cli.Log.Noticef("initialized %s", dir)
	return nil
}

// Checkout clones ref's remote into root/src/<ref.Identifier>, or pulls
// into an existing clone when update is true. When revision is
// non-empty it is checked out after fetch/clone.
func Checkout(root string, ref core.ParsedIdentifier, update bool, revision string) error {
	dir := filepath.Join(root, "src", string(ref.Identifier))
	if _, err := os.Stat(dir); err == nil {
		if !update {
			return fmt.Errorf("%s already exists; pass -u to update it", dir)
		}
		if err := process.Run(dir, "git", "pull", "--ff-only"); err != nil {
			return fmt.Errorf("updating %s: %w", dir, err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(dir), 0775); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(dir), err)
		}
		if err := process.Run("", "git", "clone", ref.URL, dir); err != nil {
			return fmt.Errorf("cloning %s: %w", ref.URL, err)
		}
	}
	if revision != "" {
		if err := process.Run(dir, "git", "checkout", revision); err != nil {
			return fmt.Errorf("checking out %s in %s: %w", revision, dir, err)
		}
	}
	cli.Log.Noticef("checked out %s at %s", ref.Identifier, dir)
	return nil
}

// Get is Checkout without an explicit revision: fetch if absent,
// optionally pull if present and update is requested.
func Get(root string, ref core.ParsedIdentifier, update bool) error {
	return Checkout(root, ref, update, "")
}
