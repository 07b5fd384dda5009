package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/wakarni/zz/src/context"
	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/fs"
	"github.com/wakarni/zz/src/process"
)

// Test builds recursively without apps, resolves names (defaulting to
// every *_test.* file under srcdir, appending "_test" to bare module
// names), builds the _test executable, then execs it with the resolved
// test paths as arguments (spec.md §4.10).
func (d *Driver) Test(pkg core.Identifier, names []string) error {
	c, err := d.Engine.Context(pkg)
	if err != nil {
		return err
	}
	if err := d.Build(pkg, true, false); err != nil {
		return err
	}

	resolved, err := resolveTestNames(c, names)
	if err != nil {
		return err
	}

	return process.WithCwd(c.Roots().Src, func() error {
		runner, err := c.RunnerTarget("_test", context.BootstrapSpec{Flavor: context.FlavorTest, Name: "_test"})
		if err != nil {
			return err
		}
		if err := c.Make(runner, true); err != nil {
			return err
		}
		argv := append([]string{runner.Path()}, resolved...)
		return syscall.Exec(runner.Path(), argv, os.Environ())
	})
}

func resolveTestNames(c *context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return globTests(c.Roots().Src)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !strings.Contains(n, "_test") {
			n = n + "_test"
		}
		out = append(out, n)
	}
	return out, nil
}

func globTests(srcDir string) ([]string, error) {
	var matches []string
	err := fs.Walk(srcDir, func(name string, isDir bool) error {
		if isDir {
			return nil
		}
		base := filepath.Base(name)
		if strings.Contains(base, "_test.") {
			matches = append(matches, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("globbing tests under %s: %w", srcDir, err)
	}
	return matches, nil
}
