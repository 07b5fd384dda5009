package context

import (
	"fmt"

	"github.com/wakarni/zz/src/target"
)

// NativeTargets materializes every (L, factory) pair in
// Descriptor.Native (spec.md §4.6), registering each returned target
// under the name "libL.a" so cross-package target references can find
// it, and memoizing per context. A factory error is a configuration
// error (spec.md §7 kind 1): it aborts this call but leaves already
// materialized natives registered.
func (c *Context) NativeTargets() (map[string]*target.Target, error) {
	if len(c.nativeTargets) == len(c.descriptor.Native) && len(c.nativeTargets) > 0 {
		return c.nativeTargets, nil
	}
	for lib, factory := range c.descriptor.Native {
		name := "lib" + lib + ".a"
		if t, ok := c.Get(name); ok {
			c.nativeTargets[lib] = t
			continue
		}
		t, err := factory()
		if err != nil {
			return nil, fmt.Errorf("native prerequisite %q: %w", lib, err)
		}
		c.Set(name, t)
		c.nativeTargets[lib] = t
	}
	return c.nativeTargets, nil
}
