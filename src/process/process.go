// Package process wraps external-tool invocation: the C compiler,
// archiver, linker, and any native-prerequisite build commands. Every
// subprocess inspects its exit code and returns a fatal error on
// non-zero, per spec.md §7 kind 3.
package process

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/wakarni/zz/src/cli"
)

// Run executes command with args, inheriting the parent's environment,
// logging its invocation, and surfacing combined stdout/stderr in the
// returned error if it exits non-zero.
func Run(dir, command string, args ...string) error {
	cli.Log.Debugf("%s %v (in %s)", command, args, dir)
	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v failed: %w\n%s", command, args, err, out)
	}
	return nil
}

// WithCwd runs fn with the process' working directory temporarily
// changed to dir, restoring it on every exit path (spec.md §5/§7: "an
// outer save/restore ensures that every exit path... returns to the
// prior working directory before the error re-surfaces").
func WithCwd(dir string, fn func() error) error {
	if dir == "" {
		return fn()
	}
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("changing to %s: %w", dir, err)
	}
	defer os.Chdir(prev)
	return fn()
}
