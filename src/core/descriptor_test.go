package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	d := &Descriptor{Package: "github.com/foo/bar"}
	require.NoError(t, d.Normalize())
	assert.Equal(t, "bar", d.Libname)
	assert.Contains(t, d.Exports, "package")
	assert.Contains(t, d.Imports, CorePackage)
}

func TestNormalizeCorePackageDoesNotImportItself(t *testing.T) {
	d := &Descriptor{Package: CorePackage}
	require.NoError(t, d.Normalize())
	assert.NotContains(t, d.Imports, CorePackage)
}

func TestNormalizeRespectsExplicitCoreImport(t *testing.T) {
	d := &Descriptor{Package: "x", Imports: []Identifier{CorePackage}}
	require.NoError(t, d.Normalize())
	count := 0
	for _, imp := range d.Imports {
		if imp == CorePackage {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNormalizeFailsWithoutPackage(t *testing.T) {
	d := &Descriptor{}
	assert.Error(t, d.Normalize())
}

func TestNormalizeInstallDefaultsToApps(t *testing.T) {
	d := &Descriptor{Package: "x", Apps: []string{"one", "two"}}
	require.NoError(t, d.Normalize())
	assert.Equal(t, []string{"one", "two"}, d.Install)
}

func TestNormalizeRespectsExplicitInstallSubset(t *testing.T) {
	d := &Descriptor{Package: "x", Apps: []string{"one", "two"}, Install: []string{"one"}}
	require.NoError(t, d.Normalize())
	assert.Equal(t, []string{"one"}, d.Install)
}

func TestLocatePackageLuaWalksUpward(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(sub, 0775))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", DescriptorFile), []byte("package='x'"), 0644))

	found, err := LocatePackageLua(sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a"), found)
}

func TestLocatePackageLuaFailsAtRoot(t *testing.T) {
	dir := t.TempDir()
	_, err := LocatePackageLua(dir)
	assert.Error(t, err)
}
