package context

import (
	"fmt"
	"path/filepath"

	"github.com/wakarni/zz/src/target"
)

// AppTargets returns the executable target for appName at
// bindir/appname (spec.md §4.9), memoized per context.
func (c *Context) AppTargets(appName string) (*target.Target, error) {
	if t, ok := c.appTargets[appName]; ok {
		return t, nil
	}

	var moduleObjs []*target.Target
	if !stringInSlice(c.descriptor.Exports, appName) {
		// Apps that are also library members pick up their objects via
		// the library's transitive edges; others need their own.
		mts, err := c.ModuleTargets(appName)
		if err != nil {
			return nil, fmt.Errorf("app %q: %w", appName, err)
		}
		moduleObjs = mts
	}

	bootstrap, err := c.BootstrapTargets(BootstrapSpec{
		Flavor:  FlavorMain,
		Name:    "_main." + appName,
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("app %q: %w", appName, err)
	}

	linkSet, err := c.LinkSet()
	if err != nil {
		return nil, err
	}
	ldflags, err := c.LdFlags()
	if err != nil {
		return nil, err
	}

	appPath := filepath.Join(c.roots.Bin, appName)
	app := target.NewOutput(appName, c.roots.Bin, appName)
	for _, d := range linkSet {
		app.Depends = append(app.Depends, target.ResolvedDep(d))
	}
	for _, d := range moduleObjs {
		app.Depends = append(app.Depends, target.ResolvedDep(d))
	}
	for _, d := range bootstrap {
		app.Depends = append(app.Depends, target.ResolvedDep(d))
	}

	app.Build = func(self *target.Target, changed []*target.Target) error {
		objects := append(append([]*target.Target{}, bootstrap...), moduleObjs...)
		return link(c.roots.Src, appPath, objects, linkSet, ldflags)
	}

	c.appTargets[appName] = app
	c.Set(appName, app)
	return app, nil
}
