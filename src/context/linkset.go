package context

import (
	"fmt"
	"sort"

	"github.com/wakarni/zz/src/target"
)

// LinkSet returns the concatenation, in import-walk order, of each
// reachable context's library target followed by its native targets
// (spec.md §4.7), memoized per context. Traversal is a cycle-safe DFS
// keyed by context identity; a self-reference is rejected as a logic
// error rather than recursing forever.
func (c *Context) LinkSet() ([]*target.Target, error) {
	if c.linkSet != nil {
		return c.linkSet, nil
	}
	visited := map[*Context]bool{}
	var set []*target.Target

	var walk func(ctx *Context) error
	walk = func(ctx *Context) error {
		if visited[ctx] {
			return nil
		}
		visited[ctx] = true

		lib, err := ctx.LibraryTarget()
		if err != nil {
			return err
		}
		set = append(set, lib)

		natives, err := ctx.NativeTargets()
		if err != nil {
			return err
		}
		names := make([]string, 0, len(natives))
		for libName := range natives {
			names = append(names, libName)
		}
		sort.Strings(names)
		for _, libName := range names {
			set = append(set, natives[libName])
		}

		for _, imp := range ctx.descriptor.Imports {
			impCtx, err := ctx.engine.Context(imp)
			if err != nil {
				return err
			}
			if impCtx == ctx {
				return fmt.Errorf("package %s imports itself", ctx.descriptor.Package)
			}
			if err := walk(impCtx); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c); err != nil {
		return nil, err
	}
	c.linkSet = set
	return set, nil
}

// LdFlags returns the concatenation of each reachable context's
// declared ldflags, in the same visitation order as LinkSet.
func (c *Context) LdFlags() ([]string, error) {
	visited := map[*Context]bool{}
	var flags []string

	var walk func(ctx *Context) error
	walk = func(ctx *Context) error {
		if visited[ctx] {
			return nil
		}
		visited[ctx] = true
		flags = append(flags, ctx.descriptor.LdFlags...)
		for _, imp := range ctx.descriptor.Imports {
			impCtx, err := ctx.engine.Context(imp)
			if err != nil {
				return err
			}
			if err := walk(impCtx); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c); err != nil {
		return nil, err
	}
	return flags, nil
}
