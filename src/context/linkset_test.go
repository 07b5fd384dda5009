package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSetIncludesOwnLibraryAndImportedLibraries(t *testing.T) {
	e, root := newTestEngine(t)

	baseDir := writePkg(t, root, "example.com/base", `
package = "example.com/base"
libname = "base"
exports = {"base"}
`)
	writeModuleSrc(t, baseDir, "base.lua", "return 1")

	appDir := writePkg(t, root, "example.com/app", `
package = "example.com/app"
libname = "app"
imports = {"example.com/base"}
exports = {"top"}
`)
	writeModuleSrc(t, appDir, "top.lua", "return 1")

	c, err := e.Context("example.com/app")
	require.NoError(t, err)
	set, err := c.LinkSet()
	require.NoError(t, err)

	// own library, then base's, then the implicitly-imported core
	// package's (spec.md §3: core is appended to every package's
	// imports unless it already is one).
	require.Len(t, set, 3)
	assert.Contains(t, set[0].Path(), "libapp.a")
	assert.Contains(t, set[1].Path(), "libbase.a")
	assert.Contains(t, set[2].Path(), "libcore.a")
}

func TestLinkSetOrdersNativesByLibNameDeterministically(t *testing.T) {
	e, root := newTestEngine(t)
	dir := writePkg(t, root, "example.com/multinative", `
package = "example.com/multinative"
exports = {"mod"}
native = {
  zlib = function() return { path = "native/libzlib.a" } end,
  alib = function() return { path = "native/libalib.a" } end,
  mlib = function() return { path = "native/libmlib.a" } end,
}
`)
	writeModuleSrc(t, dir, "mod.lua", "return 1")

	c, err := e.Context("example.com/multinative")
	require.NoError(t, err)
	set, err := c.LinkSet()
	require.NoError(t, err)

	// own library, then natives sorted by lib name (alib, mlib, zlib),
	// then the implicitly-imported core package's library.
	require.Len(t, set, 5)
	assert.Contains(t, set[0].Path(), "libmultinative.a")
	assert.Contains(t, set[1].Path(), "libalib.a")
	assert.Contains(t, set[2].Path(), "libmlib.a")
	assert.Contains(t, set[3].Path(), "libzlib.a")
	assert.Contains(t, set[4].Path(), "libcore.a")
}

func TestLinkSetMemoized(t *testing.T) {
	e, root := newTestEngine(t)
	dir := writePkg(t, root, "example.com/solo", `
package = "example.com/solo"
exports = {"solo"}
`)
	writeModuleSrc(t, dir, "solo.lua", "return 1")

	c, err := e.Context("example.com/solo")
	require.NoError(t, err)
	first, err := c.LinkSet()
	require.NoError(t, err)
	second, err := c.LinkSet()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLinkSetRejectsSelfImport(t *testing.T) {
	e, root := newTestEngine(t)
	dir := writePkg(t, root, "example.com/cyclic", `
package = "example.com/cyclic"
imports = {"example.com/cyclic"}
exports = {"mod"}
`)
	writeModuleSrc(t, dir, "mod.lua", "return 1")

	c, err := e.Context("example.com/cyclic")
	require.NoError(t, err)
	_, err = c.LinkSet()
	assert.Error(t, err)
}

func TestLdFlagsConcatenatesAcrossImports(t *testing.T) {
	e, root := newTestEngine(t)

	baseDir := writePkg(t, root, "example.com/base2", `
package = "example.com/base2"
exports = {"base2"}
ldflags = {"-lbase2"}
`)
	writeModuleSrc(t, baseDir, "base2.lua", "return 1")

	appDir := writePkg(t, root, "example.com/app2", `
package = "example.com/app2"
imports = {"example.com/base2"}
exports = {"top2"}
ldflags = {"-lapp2"}
`)
	writeModuleSrc(t, appDir, "top2.lua", "return 1")

	c, err := e.Context("example.com/app2")
	require.NoError(t, err)
	flags, err := c.LdFlags()
	require.NoError(t, err)
	assert.Equal(t, []string{"-lapp2", "-lbase2"}, flags)
}
