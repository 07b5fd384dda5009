package context

import (
	"path/filepath"

	"github.com/wakarni/zz/src/target"
)

// RunnerTarget builds a bootstrap-only executable under tmp for the
// driver's run and test actions (spec.md §4.10): unlike an app target,
// it carries no app-specific module objects, because its script half
// resolves its payload at runtime (a script path argument, or a list of
// test paths) rather than linking a precompiled module.
func (c *Context) RunnerTarget(outName string, spec BootstrapSpec) (*target.Target, error) {
	bootstrap, err := c.BootstrapTargets(spec)
	if err != nil {
		return nil, err
	}
	linkSet, err := c.LinkSet()
	if err != nil {
		return nil, err
	}
	ldflags, err := c.LdFlags()
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(c.roots.Tmp, outName)
	t := target.NewOutput(outName, c.roots.Tmp, outName)
	for _, d := range linkSet {
		t.Depends = append(t.Depends, target.ResolvedDep(d))
	}
	for _, d := range bootstrap {
		t.Depends = append(t.Depends, target.ResolvedDep(d))
	}
	t.Build = func(self *target.Target, changed []*target.Target) error {
		return link(c.roots.Src, outPath, bootstrap, linkSet, ldflags)
	}
	return t, nil
}
