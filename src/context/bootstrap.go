package context

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/process"
	"github.com/wakarni/zz/src/target"
)

const (
	mainTemplateC   = "_main.tpl.c"
	mainTemplateLua = "_main.tpl.lua"
	bootstrapSymbol = "_main"
)

// BootstrapFlavor selects which launcher behavior the generated
// bootstrap fragment implements (spec.md §4.8).
type BootstrapFlavor string

const (
	FlavorMain BootstrapFlavor = "_main" // app: run the mangled module for the app
	FlavorRun  BootstrapFlavor = "_run"  // run a script path given at runtime
	FlavorTest BootstrapFlavor = "_test" // run every test argument
)

// BootstrapSpec parameterizes one bootstrap generation.
type BootstrapSpec struct {
	Flavor  BootstrapFlavor
	Name    string // distinguishes this bootstrap's generated file base name
	AppName string // for FlavorMain: the app/module to invoke
}

// BootstrapTargets generates <name>.c and <name>.lua into this
// context's tmp directory and returns the compiled (script-object,
// c-object) pair ready for linking (spec.md §4.8). Both outputs are
// unconditionally force-rebuilt: their logical inputs include run-time
// values (mount tables, test argument lists) that aren't file-backed.
func (c *Context) BootstrapTargets(spec BootstrapSpec) ([]*target.Target, error) {
	coreCtx, err := c.engine.Context(core.CorePackage)
	if err != nil {
		return nil, fmt.Errorf("loading core package for bootstrap: %w", err)
	}

	cSrc := filepath.Join(c.roots.Tmp, spec.Name+".c")
	luaSrc := filepath.Join(c.roots.Tmp, spec.Name+".lua")

	cObj := target.NewOutput(spec.Name+".bootstrap.o", c.roots.Tmp, spec.Name+".o")
	cObj.Build = func(self *target.Target, changed []*target.Target) error {
		if err := copyFile(filepath.Join(coreCtx.roots.Src, mainTemplateC), cSrc); err != nil {
			return fmt.Errorf("missing runtime loader template: %w", err)
		}
		return process.Run(c.roots.Src, cCompiler(), "-c", "-o", self.Path(), cSrc)
	}

	luaObj := target.NewOutput(spec.Name+".bootstrap.lo", c.roots.Tmp, spec.Name+".lo")
	luaObj.Build = func(self *target.Target, changed []*target.Target) error {
		text, err := c.renderBootstrapLua(coreCtx, spec)
		if err != nil {
			return err
		}
		if err := os.WriteFile(luaSrc, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", luaSrc, err)
		}
		if err := core.CompileModule(luaSrc, self.Path()); err != nil {
			return err
		}
		return registerSymbol(c.roots.Obj, bootstrapSymbol, self.Path())
	}

	// Force rebuild: run both targets' Make eagerly here rather than
	// relying on the mtime comparison, per spec.md §4.8.
	if err := c.Make(cObj, true); err != nil {
		return nil, err
	}
	if err := c.Make(luaObj, true); err != nil {
		return nil, err
	}
	return []*target.Target{luaObj, cObj}, nil
}

// renderBootstrapLua assembles <name>.lua: the package/core global
// assignments, the verbatim _main.tpl.lua payload, then the
// flavor-specific bootstrap fragment (spec.md §4.8/§6's literal header).
func (c *Context) renderBootstrapLua(coreCtx *Context, spec BootstrapSpec) (string, error) {
	tplPath := filepath.Join(coreCtx.roots.Src, mainTemplateLua)
	tpl, err := os.ReadFile(tplPath)
	if err != nil {
		return "", fmt.Errorf("missing runtime loader template: %w", err)
	}

	header := fmt.Sprintf("__zz_package = %q\n__zz_core = %q\n", c.descriptor.Package, core.CorePackage)
	fragment, err := c.bootstrapFragment(spec)
	if err != nil {
		return "", err
	}
	return header + string(tpl) + "\n" + fragment, nil
}

func (c *Context) bootstrapFragment(spec BootstrapSpec) (string, error) {
	mounts := c.mountStatements()
	switch spec.Flavor {
	case FlavorMain:
		symbol := core.Mangle(c.descriptor.Package, spec.AppName)
		return mounts + fmt.Sprintf("__zz_run_module(%q)\n", symbol), nil
	case FlavorRun:
		return mounts + "__zz_run_script(arg[1])\n", nil
	case FlavorTest:
		return mounts + "__zz_run_tests(arg)\n", nil
	default:
		return "", fmt.Errorf("unknown bootstrap flavor %q", spec.Flavor)
	}
}

// mountStatements generates virtual-filesystem mount statements from
// Descriptor.Mounts, prefixed against this context's srcdir (spec.md
// §4.8); opaque to the build core beyond being emitted as text. Virtual
// paths are emitted in sorted order so the generated text -- and
// therefore the bootstrap object's bytes -- is stable across runs
// (spec.md §8's idempotence law), independent of Go's randomized map
// iteration.
func (c *Context) mountStatements() string {
	virts := make([]string, 0, len(c.descriptor.Mounts))
	for virt := range c.descriptor.Mounts {
		virts = append(virts, virt)
	}
	sort.Strings(virts)

	s := ""
	for _, virt := range virts {
		rel := c.descriptor.Mounts[virt]
		s += fmt.Sprintf("__zz_mount(%q, %q)\n", virt, filepath.Join(c.roots.Src, rel))
	}
	return s
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
