// Package target implements the generic build-graph node described in
// spec.md §3/§4.1: an optional output path, an ordered list of
// dependencies (resolved eagerly or by name against an owning
// resolver), and an optional build closure, with mtime-based
// incremental rebuild.
package target

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/wakarni/zz/src/fs"
)

// BuildFunc mutates the filesystem to produce t.Path(). changed is the
// subset of t's resolved dependencies whose mtime is newer than t's own
// (spec.md §4.1 step 3); composite builders such as the archiver use it
// to operate incrementally.
type BuildFunc func(t *Target, changed []*Target) error

// Ref is a target reference: a string name resolved against the owning
// context (and, failing that, its imports) at build time rather than at
// construction time. See Resolver.
type Ref string

// Dep is one element of a Target's dependency list: either a concrete
// *Target or an unresolved Ref.
type Dep struct {
	Target *Target
	Ref    Ref
}

// ResolvedDep wraps a Dep with a concrete target.
func ResolvedDep(t *Target) Dep { return Dep{Target: t} }

// RefDep wraps a target reference.
func RefDep(name string) Dep { return Dep{Ref: Ref(name)} }

// Target is a build-graph node.
type Target struct {
	// Name is how this target is registered in its owning context's
	// Resolver, if at all; purely for diagnostics here.
	Name string

	dirname  string
	basename string

	// Depends is the ordered list of this target's dependencies.
	Depends []Dep

	// Build is invoked when this target is stale; nil marks a
	// source-only (or purely organizational) target.
	Build BuildFunc

	// CFlags/LdFlags are compiler/linker flags this target contributes
	// to every dependent that walks the DAG collecting them (spec.md
	// §4.4/§4.6).
	CFlags  []string
	LdFlags []string

	// IncludeDir, if set, is the source directory this target's owning
	// context contributes as an include path to any dependent that
	// walks the DAG collecting compile flags (spec.md §4.4).
	IncludeDir string
}

// New constructs an organizational target with no output path.
func New(name string) *Target {
	return &Target{Name: name}
}

// NewOutput constructs a target whose output lives at join(dirname, basename).
func NewOutput(name, dirname, basename string) *Target {
	return &Target{Name: name, dirname: dirname, basename: basename}
}

// FromPath constructs a source-only target (no Build closure) whose
// output path is exactly path; used for plain file dependencies such as
// a module's .lua/.c/.h source.
func FromPath(name, path string) *Target {
	if path == "" {
		return New(name)
	}
	return NewOutput(name, filepath.Dir(path), filepath.Base(path))
}

// Path returns join(dirname, basename), or "" if this target has no
// output (dirname and basename both empty).
func (t *Target) Path() string {
	if t.dirname == "" && t.basename == "" {
		return ""
	}
	return filepath.Join(t.dirname, t.basename)
}

// Dirname is the directory component of Path.
func (t *Target) Dirname() string { return t.dirname }

// Mtime returns the modification time of t.Path(), or fs.NegInf if this
// target has no output path or the file doesn't yet exist.
func (t *Target) Mtime() time.Time { return fs.ModTime(t.Path()) }

// Resolver resolves a Ref to a *Target (spec.md §4.3). See
// src/context for the concrete implementation: a context's own
// registry, then each import's registry in order.
type Resolver interface {
	Resolve(name string) (*Target, error)
}

// Make performs the post-order DAG walk of spec.md §4.1: every
// dependency is made before this target's own Build runs, and Build
// only runs if force is set or some dependency's output is newer than
// this target's own (or this target has no output yet).
func (t *Target) Make(force bool, r Resolver) error {
	m := t.Mtime()
	// maxDep starts at the Unix epoch rather than the zero Go time: the
	// epoch is a concrete, "old but real" value distinct from fs.NegInf
	// (the zero Go time used as the -inf sentinel for a missing output).
	// This reproduces spec.md §4.1's "m_max ← 0": a target with no
	// dependencies and no output of its own (m == -inf) must still be
	// judged stale, because -inf < 0.
	maxDep := time.Unix(0, 0)
	var changed []*Target

	for _, dep := range t.Depends {
		d := dep.Target
		if d == nil {
			resolved, err := r.Resolve(string(dep.Ref))
			if err != nil {
				return fmt.Errorf("resolving %q (dependency of %q): %w", dep.Ref, t.Name, err)
			}
			d = resolved
		}
		if err := d.Make(force, r); err != nil {
			return err
		}
		md := d.Mtime()
		if md.After(m) {
			changed = append(changed, d)
		}
		if md.After(maxDep) {
			maxDep = md
		}
	}

	if (m.Before(maxDep) || force) && t.Build != nil {
		if err := fs.EnsureDir(t.dirname); err != nil {
			return fmt.Errorf("creating output dir for %q: %w", t.Name, err)
		}
		if err := t.Build(t, changed); err != nil {
			return fmt.Errorf("building %q: %w", t.Name, err)
		}
		if t.Path() != "" {
			if err := fs.Touch(t.Path()); err != nil {
				return fmt.Errorf("touching output of %q: %w", t.Name, err)
			}
		}
	}
	return nil
}
