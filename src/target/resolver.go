package target

import "fmt"

// Registry is a single context's flat, write-once map of target name to
// target. Spec.md §3: "once set(name, T) has been called, subsequent
// get(name) returns the same T; factories test the registry and are
// responsible for memoization."
type Registry struct {
	targets map[string]*Target
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: map[string]*Target{}}
}

// Get returns the target registered under name, if any.
func (r *Registry) Get(name string) (*Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Set registers t under name. Panics if name is already registered to a
// different target: a logic error per spec.md §7 kind 4
// (double-registration of a named target).
func (r *Registry) Set(name string, t *Target) *Target {
	if existing, ok := r.targets[name]; ok {
		if existing != t {
			panic(fmt.Sprintf("target %q already registered", name))
		}
		return existing
	}
	r.targets[name] = t
	return t
}

// ChainResolver resolves a name against an ordered list of registries:
// the owning context's own registry first, then each import's registry
// in declaration order (spec.md §4.3). This is a flat list, not a
// prototype/inheritance chain, per the design note in spec.md §9.
type ChainResolver struct {
	registries []*Registry
	names      []string // parallel to registries, for error messages
}

// NewChainResolver builds a resolver that consults own, then each of
// imports in order.
func NewChainResolver(ownName string, own *Registry, importNames []string, imports []*Registry) *ChainResolver {
	registries := append([]*Registry{own}, imports...)
	names := append([]string{ownName}, importNames...)
	return &ChainResolver{registries: registries, names: names}
}

// Resolve implements Resolver.
func (c *ChainResolver) Resolve(name string) (*Target, error) {
	for _, r := range c.registries {
		if t, ok := r.Get(name); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("could not resolve target reference %q (searched %v)", name, c.names)
}
