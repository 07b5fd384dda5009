package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakarni/zz/src/target"
)

// CorePackage is the distinguished package implicitly imported by every
// non-core package.
const CorePackage Identifier = "zzlang.org/core"

// DescriptorFile is the name of the per-package descriptor evaluated as
// data.
const DescriptorFile = "package.lua"

// NativeFactory is a user-supplied closure returning the target that
// produces libL.a for one entry of Descriptor.Native (spec.md §4.6). It
// may also set CFlags/LdFlags on the returned target so dependents
// inherit them via the DAG-walk in src/context. A non-nil error is a
// configuration error (spec.md §7 kind 1), not a process-ending one --
// it is the caller's job to decide what a failed native prerequisite
// means for the surrounding build.
type NativeFactory func() (*target.Target, error)

// Descriptor is the parsed representation of one package's package.lua.
type Descriptor struct {
	Package Identifier
	Libname string
	Imports []Identifier
	Native  map[string]NativeFactory
	Exports []string
	Depends map[string][]string
	Mounts  map[string]string
	Apps    []string
	Install []string
	LdFlags []string
}

// Normalize fills in the defaults described in spec.md §3:
//   - libname defaults to the last path component of package
//   - the core package is implicitly appended to imports, unless this
//     package is the core package or already imports it
//   - "package" is implicitly appended to exports if absent
//   - install defaults to the full apps list when not declared
//     explicitly, so a package with apps but no install override still
//     gets every app symlinked (spec.md §4.10's "for every app target")
func (d *Descriptor) Normalize() error {
	if d.Package == "" {
		return fmt.Errorf("package.lua: missing required field 'package'")
	}
	if d.Libname == "" {
		d.Libname = filepath.Base(string(d.Package))
	}
	if d.Package != CorePackage && !containsIdentifier(d.Imports, CorePackage) {
		d.Imports = append(append([]Identifier{}, d.Imports...), CorePackage)
	}
	if !containsString(d.Exports, "package") {
		d.Exports = append(append([]string{}, d.Exports...), "package")
	}
	if d.Install == nil {
		d.Install = append([]string{}, d.Apps...)
	}
	if d.Native == nil {
		d.Native = map[string]NativeFactory{}
	}
	if d.Depends == nil {
		d.Depends = map[string][]string{}
	}
	if d.Mounts == nil {
		d.Mounts = map[string]string{}
	}
	return nil
}

func containsIdentifier(list []Identifier, v Identifier) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// LocatePackageLua walks upward from dir (inclusive) looking for
// package.lua, as required when the package argument is "current".
// Returns the directory containing it.
func LocatePackageLua(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, DescriptorFile)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found above %s", DescriptorFile, dir)
		}
		dir = parent
	}
}
