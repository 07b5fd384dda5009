package context

import (
	"path/filepath"

	"github.com/wakarni/zz/src/process"
	"github.com/wakarni/zz/src/target"
)

// LibraryTarget returns the archive lib<libname>.a for this context
// (spec.md §4.5), depending on every target of every exported module,
// memoized per context.
func (c *Context) LibraryTarget() (*target.Target, error) {
	if c.libraryTarget != nil {
		return c.libraryTarget, nil
	}
	name := "lib" + c.descriptor.Libname + ".a"
	path := filepath.Join(c.roots.Lib, name)
	lib := target.NewOutput(name, c.roots.Lib, name)
	lib.IncludeDir = c.roots.Src

	for _, m := range c.descriptor.Exports {
		mts, err := c.ModuleTargets(m)
		if err != nil {
			return nil, err
		}
		for _, mt := range mts {
			lib.Depends = append(lib.Depends, target.ResolvedDep(mt))
		}
	}

	lib.Build = func(self *target.Target, changed []*target.Target) error {
		if len(changed) == 0 {
			return nil
		}
		args := []string{"rsc", path}
		for _, d := range changed {
			args = append(args, d.Path())
		}
		return process.Run(c.roots.Src, "ar", args...)
	}
	c.libraryTarget = lib
	c.Set("library", lib)
	return lib, nil
}
