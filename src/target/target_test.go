package target

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullResolver never has anything to resolve; used by tests that only
// wire concrete *Target dependencies.
type nullResolver struct{}

func (nullResolver) Resolve(name string) (*Target, error) {
	return nil, assert.AnError
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0775))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestMakeRebuildsWhenStale(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	writeFile(t, src)

	out := filepath.Join(dir, "out.txt")
	calls := 0
	input := NewOutput("src", dir, "src.txt")
	o := NewOutput("out", dir, "out.txt")
	o.Depends = []Dep{ResolvedDep(input)}
	o.Build = func(self *Target, changed []*Target) error {
		calls++
		return os.WriteFile(out, []byte("built"), 0644)
	}

	require.NoError(t, o.Make(false, nullResolver{}))
	assert.Equal(t, 1, calls)

	// Re-running against unchanged input performs no rebuild.
	require.NoError(t, o.Make(false, nullResolver{}))
	assert.Equal(t, 1, calls)

	// Touching the source makes it newer than the (already built) output.
	time.Sleep(10 * time.Millisecond)
	writeFile(t, src)
	require.NoError(t, o.Make(false, nullResolver{}))
	assert.Equal(t, 2, calls)
}

func TestMakeForceAlwaysRebuilds(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	o := NewOutput("out", dir, "out.txt")
	o.Build = func(self *Target, changed []*Target) error {
		calls++
		return os.WriteFile(self.Path(), []byte("x"), 0644)
	}
	require.NoError(t, o.Make(false, nullResolver{}))
	require.NoError(t, o.Make(true, nullResolver{}))
	assert.Equal(t, 2, calls)
}

func TestMakeOrganizationalTargetAlwaysRuns(t *testing.T) {
	// A target with no output path has mtime -inf and no dependencies;
	// per spec.md §4.1 it must still be judged stale every time.
	calls := 0
	root := New("root")
	root.Build = func(self *Target, changed []*Target) error {
		calls++
		return nil
	}
	require.NoError(t, root.Make(false, nullResolver{}))
	require.NoError(t, root.Make(false, nullResolver{}))
	assert.Equal(t, 2, calls)
}

func TestMakeResolvesRefDeps(t *testing.T) {
	dir := t.TempDir()
	leaf := NewOutput("leaf", dir, "leaf.txt")
	writeFile(t, leaf.Path())

	resolver := mapResolver{"leaf": leaf}
	calls := 0
	root := New("root")
	root.Depends = []Dep{RefDep("leaf")}
	root.Build = func(self *Target, changed []*Target) error {
		calls++
		return nil
	}
	require.NoError(t, root.Make(false, resolver))
	assert.Equal(t, 1, calls)
}

func TestMakeFailsOnUnresolvedRef(t *testing.T) {
	root := New("root")
	root.Depends = []Dep{RefDep("missing")}
	err := root.Make(false, mapResolver{})
	assert.Error(t, err)
}

type mapResolver map[string]*Target

func (m mapResolver) Resolve(name string) (*Target, error) {
	if t, ok := m[name]; ok {
		return t, nil
	}
	return nil, assert.AnError
}
