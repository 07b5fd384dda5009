// Package context implements the per-package build context of
// spec.md §4.3–§4.9: the descriptor, workspace paths, the named-target
// registry, and the memoized target-group factories (native, exported
// modules, library, link set, apps, bootstrap).
package context

import (
	"fmt"
	"sync"

	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/fs"
)

// Engine is the explicit, non-global state the build driver threads
// through every operation: the workspace root and the process-wide
// context cache (spec.md §9: "Global module-level state... becomes an
// explicit Engine value threaded through the driver, created at
// startup, destroyed at exit").
type Engine struct {
	WorkspaceRoot string

	mu       sync.Mutex
	contexts map[core.Identifier]*Context
}

// NewEngine constructs an Engine rooted at workspaceRoot.
func NewEngine(workspaceRoot string) *Engine {
	return &Engine{WorkspaceRoot: workspaceRoot, contexts: map[core.Identifier]*Context{}}
}

// Context returns the build context for package p, creating and
// loading it on first reference (spec.md §3: "created lazily on first
// reference, lives for the entire build invocation").
func (e *Engine) Context(p core.Identifier) (*Context, error) {
	e.mu.Lock()
	if c, ok := e.contexts[p]; ok {
		e.mu.Unlock()
		return c, nil
	}
	e.mu.Unlock()

	roots := fs.NewRoots(e.WorkspaceRoot, string(p))
	d, err := core.LoadDescriptor(roots.Src)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", p, err)
	}
	c := newContext(e, d, roots)

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.contexts[p]; ok {
		return existing, nil // lost a race with a concurrent lazy load
	}
	e.contexts[p] = c
	return c, nil
}
