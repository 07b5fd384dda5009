package context

import (
	"fmt"

	"github.com/wakarni/zz/src/target"
)

// collectCFlags implements the "walk the dependency graph collecting
// cflags" pattern of spec.md §4.4/§9: an explicit DFS with a
// visited set of target identities, carrying the accumulator as an
// argument rather than reaching for any dynamic introspection.
//
// For every target transitively reachable from self (self excluded),
// its IncludeDir (if any, deduplicated) is added as a "-iquote <dir>"
// flag, and the target's own CFlags are appended verbatim. Dependency
// refs are resolved against r.
func collectCFlags(self *target.Target, r target.Resolver) ([]string, error) {
	visited := map[*target.Target]bool{}
	dirsSeen := map[string]bool{}
	var flags []string

	var walk func(t *target.Target) error
	walk = func(t *target.Target) error {
		for _, dep := range t.Depends {
			d := dep.Target
			if d == nil {
				resolved, err := r.Resolve(string(dep.Ref))
				if err != nil {
					return fmt.Errorf("collecting cflags: %w", err)
				}
				d = resolved
			}
			if visited[d] {
				continue
			}
			visited[d] = true
			if d.IncludeDir != "" && !dirsSeen[d.IncludeDir] {
				dirsSeen[d.IncludeDir] = true
				flags = append(flags, "-iquote", d.IncludeDir)
			}
			flags = append(flags, d.CFlags...)
			if err := walk(d); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(self); err != nil {
		return nil, err
	}
	return flags, nil
}
