// Package driver implements the top-level build/install/run/test/
// clean/distclean actions (spec.md §4.10): recursive traversal over
// imports, selection of target groups, invocation of make.
package driver

import (
	"fmt"
	"path/filepath"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/wakarni/zz/src/cli"
	"github.com/wakarni/zz/src/context"
	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/process"
)

// Driver owns the engine used to resolve build contexts across actions
// invoked in one process lifetime.
type Driver struct {
	Engine *context.Engine
}

// New returns a Driver rooted at workspaceRoot.
func New(workspaceRoot string) *Driver {
	return &Driver{Engine: context.NewEngine(workspaceRoot)}
}

// Build makes pkg's native targets, its library and, when apps is set,
// its app targets. When recursive is set it first does the same for
// every import, transitively, with the same apps setting. It always runs with the working directory set to srcdir so relative
// paths in native factories are well-defined (spec.md §4.10).
func (d *Driver) Build(pkg core.Identifier, recursive, apps bool) error {
	c, err := d.Engine.Context(pkg)
	if err != nil {
		return err
	}
	return process.WithCwd(c.Roots().Src, func() error {
		return d.build(c, recursive, apps, map[core.Identifier]bool{})
	})
}

func (d *Driver) build(c *context.Context, recursive, apps bool, built map[core.Identifier]bool) error {
	if built[c.Package()] {
		return nil
	}
	built[c.Package()] = true

	if recursive {
		var errs *multierror.Error
		for _, imp := range c.Descriptor().Imports {
			ic, err := d.Engine.Context(imp)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			if err := d.build(ic, recursive, apps, built); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		if err := errs.ErrorOrNil(); err != nil {
			return err
		}
	}

	natives, err := c.NativeTargets()
	if err != nil {
		return err
	}
	for _, n := range natives {
		if err := c.Make(n, false); err != nil {
			return err
		}
	}

	lib, err := c.LibraryTarget()
	if err != nil {
		return err
	}
	if err := c.Make(lib, false); err != nil {
		return err
	}

	if apps {
		for _, app := range c.Descriptor().Apps {
			at, err := c.AppTargets(app)
			if err != nil {
				return err
			}
			if err := c.Make(at, false); err != nil {
				return err
			}
		}
	}
	cli.Log.Noticef("built %s", c.Package())
	return nil
}

// Install builds recursively with apps, then creates or replaces a
// symlink at the global bindir for every app named in the package's
// install list (spec.md §3: "ordered list of application names to be
// symlinked into a global bin directory"; defaults to every app when
// not declared, per Descriptor.Normalize).
func (d *Driver) Install(pkg core.Identifier) error {
	if err := d.Build(pkg, true, true); err != nil {
		return err
	}
	c, err := d.Engine.Context(pkg)
	if err != nil {
		return err
	}
	var errs *multierror.Error
	for _, app := range c.Descriptor().Install {
		at, err := c.AppTargets(app)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		link := filepath.Join(c.Roots().BinRoot, app)
		if err := installSymlink(at.Path(), link); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("installing %s: %w", app, err))
			continue
		}
		cli.Log.Noticef("installed %s -> %s", link, at.Path())
	}
	return errs.ErrorOrNil()
}
