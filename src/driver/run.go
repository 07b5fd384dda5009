package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/wakarni/zz/src/context"
	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/process"
)

// Run canonicalizes path, rejects it if outside the package's srcdir,
// generates a _run bootstrap that delegates to it, builds the runner
// executable, then execs it with the remaining arguments (spec.md
// §4.10). Exec replaces this process, matching the driver's
// single-process, no-retry model described in §5/§7.
func (d *Driver) Run(pkg core.Identifier, path string, args []string) error {
	c, err := d.Engine.Context(pkg)
	if err != nil {
		return err
	}

	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	srcDir, err := filepath.EvalSymlinks(c.Roots().Src)
	if err != nil {
		return fmt.Errorf("resolving srcdir: %w", err)
	}
	rel, err := filepath.Rel(srcDir, real)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%s does not lie beneath %s", path, c.Roots().Src)
	}

	return process.WithCwd(c.Roots().Src, func() error {
		runner, err := c.RunnerTarget("_run", context.BootstrapSpec{Flavor: context.FlavorRun, Name: "_run"})
		if err != nil {
			return err
		}
		if err := c.Make(runner, true); err != nil {
			return err
		}
		argv := append([]string{runner.Path(), real}, args...)
		return syscall.Exec(runner.Path(), argv, os.Environ())
	})
}
