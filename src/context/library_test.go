package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryTargetDependsOnEveryExportedModule(t *testing.T) {
	e, root := newTestEngine(t)
	dir := writePkg(t, root, "example.com/util", `
package = "example.com/util"
libname = "util"
exports = {"util", "helper"}
`)
	writeModuleSrc(t, dir, "util.lua", "return 1")
	writeModuleSrc(t, dir, "helper.lua", "return 1")

	c, err := e.Context("example.com/util")
	require.NoError(t, err)
	lib, err := c.LibraryTarget()
	require.NoError(t, err)

	assert.Contains(t, lib.Path(), "libutil.a")
	// util, helper, and "package" (implicitly appended) each contribute
	// one script-object dependency.
	assert.Len(t, lib.Depends, 3)
}

func TestLibraryTargetMemoized(t *testing.T) {
	e, root := newTestEngine(t)
	dir := writePkg(t, root, "example.com/util", `
package = "example.com/util"
exports = {"util"}
`)
	writeModuleSrc(t, dir, "util.lua", "return 1")

	c, err := e.Context("example.com/util")
	require.NoError(t, err)
	first, err := c.LibraryTarget()
	require.NoError(t, err)
	second, err := c.LibraryTarget()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
