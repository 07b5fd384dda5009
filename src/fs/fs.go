// Package fs contains the low-level filesystem helpers the build engine
// is built on: the workspace directory layout, mtime lookups, and
// idempotent directory creation. It deliberately knows nothing about
// packages, targets or descriptors.
package fs

import (
	"os"
	"path/filepath"
	"time"
)

// Roots is the set of canonical directory roots for one package within
// a workspace, derived from the workspace root and the package identifier.
type Roots struct {
	Root    string // workspace root, e.g. $WORKSPACE
	Src     string // $ROOT/src/<P>
	Obj     string // $ROOT/obj/<P>
	Lib     string // $ROOT/lib/<P>
	Bin     string // $ROOT/bin/<P>
	Tmp     string // $ROOT/tmp/<P>
	Native  string // $ROOT/src/<P>/native
	BinRoot string // $ROOT/bin, the global executable directory
}

// NewRoots computes the canonical roots for package identifier p under
// workspace root.
func NewRoots(workspaceRoot, p string) Roots {
	return Roots{
		Root:    workspaceRoot,
		Src:     filepath.Join(workspaceRoot, "src", p),
		Obj:     filepath.Join(workspaceRoot, "obj", p),
		Lib:     filepath.Join(workspaceRoot, "lib", p),
		Bin:     filepath.Join(workspaceRoot, "bin", p),
		Tmp:     filepath.Join(workspaceRoot, "tmp", p),
		Native:  filepath.Join(workspaceRoot, "src", p, "native"),
		BinRoot: filepath.Join(workspaceRoot, "bin"),
	}
}

// WorkspaceRoot returns $WORKSPACE, defaulting to $HOME/zz.
func WorkspaceRoot() string {
	if root := os.Getenv("WORKSPACE"); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "zz"
	}
	return filepath.Join(home, "zz")
}

// NegInf is the sentinel "modification time" of a target with no output
// on disk: it compares earlier than every real file time.
var NegInf = time.Time{}

// ModTime returns the modification time of path, or NegInf if path does
// not exist.
func ModTime(path string) time.Time {
	if path == "" {
		return NegInf
	}
	info, err := os.Stat(path)
	if err != nil {
		return NegInf
	}
	return info.ModTime()
}

// Touch creates path if absent and otherwise advances its mtime to now.
func Touch(path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		if os.IsNotExist(err) {
			f, ferr := os.Create(path)
			if ferr != nil {
				return ferr
			}
			return f.Close()
		}
		return err
	}
	return nil
}

// EnsureDir recursively creates dir if it doesn't already exist. Safe to
// call repeatedly.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0775)
}
