package context

import (
	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/fs"
	"github.com/wakarni/zz/src/target"
)

// Context is the per-package build state described by spec.md §3/§4.3:
// the descriptor, the workspace paths, a named-target registry, and
// memoized bundle handles.
type Context struct {
	engine     *Engine
	descriptor *core.Descriptor
	roots      fs.Roots
	registry   *target.Registry

	// memoized bundle handles; each is built at most once per context.
	nativeTargets   map[string]*target.Target
	moduleTargets   map[string][]*target.Target
	libraryTarget *target.Target
	linkSet       []*target.Target
	appTargets    map[string]*target.Target
}

func newContext(e *Engine, d *core.Descriptor, roots fs.Roots) *Context {
	return &Context{
		engine:        e,
		descriptor:    d,
		roots:         roots,
		registry:      target.NewRegistry(),
		nativeTargets: map[string]*target.Target{},
		moduleTargets: map[string][]*target.Target{},
		appTargets:    map[string]*target.Target{},
	}
}

// Package returns the identifier of the package this context represents.
func (c *Context) Package() core.Identifier { return c.descriptor.Package }

// Descriptor returns the parsed package.lua record.
func (c *Context) Descriptor() *core.Descriptor { return c.descriptor }

// Roots returns the workspace directory layout for this package.
func (c *Context) Roots() fs.Roots { return c.roots }

// SrcDir implements core.ModuleTargetContext.
func (c *Context) SrcDir() string { return c.roots.Src }

// ObjDir implements core.ModuleTargetContext.
func (c *Context) ObjDir() string { return c.roots.Obj }

// Engine returns the owning Engine.
func (c *Context) Engine() *Engine { return c.engine }

// Resolver builds the target resolver for this context per spec.md
// §4.3: this context's own registry, then each import's registry in
// declaration order. Imports are loaded lazily here, if not already.
func (c *Context) Resolver() (target.Resolver, error) {
	var importRegs []*target.Registry
	var importNames []string
	for _, imp := range c.descriptor.Imports {
		ic, err := c.engine.Context(imp)
		if err != nil {
			return nil, err
		}
		importRegs = append(importRegs, ic.registry)
		importNames = append(importNames, string(imp))
	}
	return target.NewChainResolver(string(c.descriptor.Package), c.registry, importNames, importRegs), nil
}

// Set registers t under name in this context's own registry (write-once,
// per spec.md §3).
func (c *Context) Set(name string, t *target.Target) *target.Target {
	return c.registry.Set(name, t)
}

// Get looks up a target registered directly in this context (not
// falling back to imports); used by factories to test memoization.
func (c *Context) Get(name string) (*target.Target, bool) {
	return c.registry.Get(name)
}

// Make runs t.Make against this context's resolver.
func (c *Context) Make(t *target.Target, force bool) error {
	r, err := c.Resolver()
	if err != nil {
		return err
	}
	return t.Make(force, r)
}
