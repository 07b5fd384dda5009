package context

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/process"
	"github.com/wakarni/zz/src/target"
)

// ModuleTargets returns the (script-object, optional C-object) pair for
// module name m, per spec.md §4.4, memoized per context per name.
func (c *Context) ModuleTargets(m string) ([]*target.Target, error) {
	if ts, ok := c.moduleTargets[m]; ok {
		return ts, nil
	}
	lo, err := c.scriptObjectTarget(m)
	if err != nil {
		return nil, err
	}
	ts := []*target.Target{lo}

	cSrc := filepath.Join(c.roots.Src, moduleDir(m), moduleBase(m)+".c")
	if fileExists(cSrc) {
		o, err := c.cObjectTarget(m)
		if err != nil {
			return nil, err
		}
		ts = append(ts, o)
	}
	c.moduleTargets[m] = ts
	c.Set(m+".lo", lo)
	return ts, nil
}

func (c *Context) scriptObjectTarget(m string) (*target.Target, error) {
	if t, ok := c.Get(m + ".lo"); ok {
		return t, nil
	}
	src := filepath.Join(c.roots.Src, moduleDir(m), moduleBase(m)+".lua")
	if !fileExists(src) {
		return nil, fmt.Errorf("module %q: required source %s is missing", m, src)
	}
	objDir := filepath.Join(c.roots.Obj, moduleDir(m))
	objBase := moduleBase(m) + ".lo"
	lo := target.NewOutput(m+".lo", objDir, objBase)
	lo.Depends = []target.Dep{target.ResolvedDep(target.FromPath(src, src))}
	symbol := core.Mangle(c.descriptor.Package, m)
	lo.Build = func(self *target.Target, changed []*target.Target) error {
		if err := core.CompileModule(src, self.Path()); err != nil {
			return err
		}
		return registerSymbol(c.roots.Obj, symbol, self.Path())
	}
	return lo, nil
}

func (c *Context) cObjectTarget(m string) (*target.Target, error) {
	if t, ok := c.Get(m + ".o"); ok {
		return t, nil
	}
	dir := moduleDir(m)
	base := moduleBase(m)
	src := filepath.Join(c.roots.Src, dir, base+".c")
	header := target.NewOutput(base+".h", filepath.Join(c.roots.Src, dir), base+".h") // soft dependency; need not exist

	objDir := filepath.Join(c.roots.Obj, dir)
	o := target.NewOutput(m+".o", objDir, base+".o")
	o.IncludeDir = c.roots.Src
	o.Depends = append([]target.Dep{
		target.ResolvedDep(target.FromPath(src, src)),
		target.ResolvedDep(header),
	}, refDeps(c.descriptor.Depends[m])...)

	o.Build = func(self *target.Target, changed []*target.Target) error {
		r, err := c.Resolver()
		if err != nil {
			return err
		}
		flags, err := collectCFlags(self, r)
		if err != nil {
			return err
		}
		args := append([]string{"-c", "-o", self.Path(), src}, flags...)
		return process.Run(c.roots.Src, cCompiler(), args...)
	}
	return o, nil
}

func refDeps(names []string) []target.Dep {
	deps := make([]target.Dep, len(names))
	for i, n := range names {
		deps[i] = target.RefDep(n)
	}
	return deps
}

func moduleDir(m string) string  { return filepath.Dir(m) }
func moduleBase(m string) string { return filepath.Base(m) }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func stringInSlice(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func cCompiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}

// symbolIndexFile is an append-only record, one line per compiled
// module, of "<mangled symbol> <object path>". It is the only place the
// mangled symbol of a module object is recorded: the object file is
// named after the module (e.g. util.lo), its contents do not include
// the symbol, and nothing in the build reads this index back.
func symbolIndexFile(objRoot string) string {
	return filepath.Join(objRoot, "symbols.idx")
}

func registerSymbol(objRoot, symbol, objPath string) error {
	f, err := os.OpenFile(symbolIndexFile(objRoot), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("recording symbol %s: %w", symbol, err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s %s\n", symbol, objPath)
	return err
}
