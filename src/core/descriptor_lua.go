package core

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/wakarni/zz/src/process"
	"github.com/wakarni/zz/src/target"
)

// LoadDescriptor evaluates dir/package.lua (spec.md §4.2) as a literal
// data record and returns its normalized Descriptor. Evaluation errors
// and a missing required 'package' field are both fatal, per spec.md
// §7 kind 1 (configuration errors).
func LoadDescriptor(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorFile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l := lua.NewState()
	if err := l.DoFile(path); err != nil {
		l.Close()
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}

	d := &Descriptor{
		Package: Identifier(luaStringField(l, "package")),
		Libname: luaStringField(l, "libname"),
		Imports: identifiers(luaStringArrayField(l, "imports")),
		Exports: luaStringArrayField(l, "exports"),
		Apps:    luaStringArrayField(l, "apps"),
		Install: luaStringArrayField(l, "install"),
		LdFlags: luaStringArrayField(l, "ldflags"),
		Depends: luaStringArrayMapField(l, "depends"),
		Mounts:  luaStringMapField(l, "mounts"),
		Native:  luaNativeField(l, "native"),
	}
	if len(d.Native) == 0 {
		// Only native factories call back into the state; without any,
		// it is released here.
		l.Close()
	}
	if err := d.Normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func identifiers(ss []string) []Identifier {
	out := make([]Identifier, len(ss))
	for i, s := range ss {
		out[i] = Identifier(s)
	}
	return out
}

func luaStringField(l *lua.LState, name string) string {
	v := l.GetGlobal(name)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func luaStringArrayField(l *lua.LState, name string) []string {
	v := l.GetGlobal(name)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	out := []string{}
	tbl.ForEach(func(_ lua.LValue, val lua.LValue) {
		if s, ok := val.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

func luaStringMapField(l *lua.LState, name string) map[string]string {
	v := l.GetGlobal(name)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	out := map[string]string{}
	tbl.ForEach(func(key lua.LValue, val lua.LValue) {
		k, kok := key.(lua.LString)
		s, sok := val.(lua.LString)
		if kok && sok {
			out[string(k)] = string(s)
		}
	})
	return out
}

func luaStringArrayMapField(l *lua.LState, name string) map[string][]string {
	v := l.GetGlobal(name)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	out := map[string][]string{}
	tbl.ForEach(func(key lua.LValue, val lua.LValue) {
		k, kok := key.(lua.LString)
		inner, iok := val.(*lua.LTable)
		if !kok || !iok {
			return
		}
		var items []string
		inner.ForEach(func(_ lua.LValue, iv lua.LValue) {
			if s, ok := iv.(lua.LString); ok {
				items = append(items, string(s))
			}
		})
		out[string(k)] = items
	})
	return out
}

// luaNativeField reads the `native` table: a mapping from library short
// name to a zero-argument Lua function. Each function is expected to
// return a table describing how to produce libL.a:
//
//	{ path = "...", cmd = {"sh", "-c", "..."}, cflags = {...}, ldflags = {...} }
//
// Only these four fields are read; the returned target has no
// dependencies, so any other field (such as depends) is ignored.
//
// The returned NativeFactory closes over the live *lua.LState so the
// function can be invoked lazily, exactly once, when the owning context
// first materializes this native target (spec.md §4.6).
func luaNativeField(l *lua.LState, name string) map[string]NativeFactory {
	v := l.GetGlobal(name)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	out := map[string]NativeFactory{}
	tbl.ForEach(func(key lua.LValue, val lua.LValue) {
		k, kok := key.(lua.LString)
		fn, fok := val.(*lua.LFunction)
		if !kok || !fok {
			return
		}
		libName := string(k)
		out[libName] = func() (*target.Target, error) {
			return callNativeFactory(l, fn, libName)
		}
	})
	return out
}

func callNativeFactory(l *lua.LState, fn *lua.LFunction, libName string) (*target.Target, error) {
	if err := l.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return nil, fmt.Errorf("calling native factory: %w", err)
	}
	ret := l.Get(-1)
	l.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("native factory for %q did not return a table", libName)
	}
	outPath := luaTableString(tbl, "path")
	t := target.NewOutput("libL:"+libName, filepath.Dir(outPath), filepath.Base(outPath))
	t.CFlags = luaTableStringArray(tbl, "cflags")
	t.LdFlags = luaTableStringArray(tbl, "ldflags")
	cmd := luaTableStringArray(tbl, "cmd")
	if len(cmd) > 0 {
		t.Build = func(self *target.Target, changed []*target.Target) error {
			return runCommand(cmd)
		}
	}
	return t, nil
}

func luaTableString(tbl *lua.LTable, field string) string {
	v := tbl.RawGetString(field)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func luaTableStringArray(tbl *lua.LTable, field string) []string {
	v := tbl.RawGetString(field)
	inner, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	inner.ForEach(func(_ lua.LValue, iv lua.LValue) {
		if s, ok := iv.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

func init() {
	// FunctionProto.Constants is a []lua.LValue; gob needs the concrete
	// types that can appear in it registered up front.
	gob.Register(lua.LNumber(0))
	gob.Register(lua.LString(""))
	gob.Register(lua.LBool(true))
}

// CompileModule compiles a .lua source file into a bytecode object file
// (spec.md §4.4's M.lo). The object is the gob encoding of the compiled
// lua.FunctionProto; gopher-lua itself has no on-disk bytecode format.
func CompileModule(srcPath, destPath string) error {
	l := lua.NewState()
	defer l.Close()

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}
	defer f.Close()

	fn, err := l.Load(f, srcPath)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", srcPath, err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(fn.Proto); err != nil {
		return fmt.Errorf("encoding bytecode for %s: %w", srcPath, err)
	}
	return os.WriteFile(destPath, buf.Bytes(), 0644)
}

func runCommand(cmd []string) error {
	if len(cmd) == 0 {
		return nil
	}
	return process.Run("", cmd[0], cmd[1:]...)
}
