package driver

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakarni/zz/src/core"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available on PATH", name)
	}
}

func writePkg(t *testing.T, root, pkg, descriptor string) string {
	t.Helper()
	dir := filepath.Join(root, "src", pkg)
	require.NoError(t, os.MkdirAll(dir, 0775))
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.DescriptorFile), []byte(descriptor), 0644))
	return dir
}

func writeModuleSrc(t *testing.T, dir, name, contents string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0644))
}

func newTestWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	coreDir := writePkg(t, root, "zzlang.org/core", `package = "zzlang.org/core"`)
	writeModuleSrc(t, coreDir, "_main.tpl.c", "int main(int argc, char **argv){ return 0; }\n")
	writeModuleSrc(t, coreDir, "_main.tpl.lua", "-- loader payload\n")
	return root
}

func TestBuildProducesLibraryArchive(t *testing.T) {
	requireTool(t, "cc")
	requireTool(t, "ar")
	root := newTestWorkspace(t)
	dir := writePkg(t, root, "example.com/util", `
package = "example.com/util"
libname = "util"
exports = {"util"}
`)
	writeModuleSrc(t, dir, "util.lua", "return 1")

	d := New(root)
	require.NoError(t, d.Build(core.Identifier("example.com/util"), false, false))

	_, err := os.Stat(filepath.Join(root, "lib", "example.com/util", "libutil.a"))
	assert.NoError(t, err)
}

func TestInstallCreatesGlobalSymlink(t *testing.T) {
	requireTool(t, "cc")
	requireTool(t, "ar")
	root := newTestWorkspace(t)
	dir := writePkg(t, root, "example.com/app", `
package = "example.com/app"
exports = {"top"}
apps = {"top"}
`)
	writeModuleSrc(t, dir, "top.lua", "return 1")

	d := New(root)
	require.NoError(t, d.Install(core.Identifier("example.com/app")))

	link := filepath.Join(root, "bin", "top")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Contains(t, target, filepath.Join("bin", "example.com/app", "top"))
}

func TestInstallOnlySymlinksDeclaredInstallSubset(t *testing.T) {
	requireTool(t, "cc")
	requireTool(t, "ar")
	root := newTestWorkspace(t)
	dir := writePkg(t, root, "example.com/app", `
package = "example.com/app"
exports = {"top", "helper"}
apps = {"top", "helper"}
install = {"top"}
`)
	writeModuleSrc(t, dir, "top.lua", "return 1")
	writeModuleSrc(t, dir, "helper.lua", "return 1")

	d := New(root)
	require.NoError(t, d.Install(core.Identifier("example.com/app")))

	_, err := os.Readlink(filepath.Join(root, "bin", "top"))
	require.NoError(t, err)
	_, err = os.Readlink(filepath.Join(root, "bin", "helper"))
	assert.True(t, os.IsNotExist(err), "helper is not in the install list and should not be symlinked")
}

func TestCleanRemovesObjLibTmp(t *testing.T) {
	requireTool(t, "cc")
	requireTool(t, "ar")
	root := newTestWorkspace(t)
	dir := writePkg(t, root, "example.com/util", `
package = "example.com/util"
exports = {"util"}
`)
	writeModuleSrc(t, dir, "util.lua", "return 1")

	d := New(root)
	require.NoError(t, d.Build(core.Identifier("example.com/util"), false, false))
	require.NoError(t, d.Clean(core.Identifier("example.com/util")))

	for _, sub := range []string{"obj", "lib", "tmp"} {
		_, err := os.Stat(filepath.Join(root, sub, "example.com/util"))
		assert.True(t, os.IsNotExist(err), "%s should be removed", sub)
	}
}

func TestDistcleanRemovesGlobalSymlink(t *testing.T) {
	requireTool(t, "cc")
	requireTool(t, "ar")
	root := newTestWorkspace(t)
	dir := writePkg(t, root, "example.com/app", `
package = "example.com/app"
exports = {"top"}
apps = {"top"}
`)
	writeModuleSrc(t, dir, "top.lua", "return 1")

	d := New(root)
	require.NoError(t, d.Install(core.Identifier("example.com/app")))
	require.NoError(t, d.Distclean(core.Identifier("example.com/app")))

	_, err := os.Lstat(filepath.Join(root, "bin", "top"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "bin", "example.com/app"))
	assert.True(t, os.IsNotExist(err))
}
