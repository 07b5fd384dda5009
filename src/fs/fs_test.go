package fs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoots(t *testing.T) {
	r := NewRoots("/ws", "github.com/foo/bar")
	assert.Equal(t, "/ws/src/github.com/foo/bar", r.Src)
	assert.Equal(t, "/ws/obj/github.com/foo/bar", r.Obj)
	assert.Equal(t, "/ws/lib/github.com/foo/bar", r.Lib)
	assert.Equal(t, "/ws/bin/github.com/foo/bar", r.Bin)
	assert.Equal(t, "/ws/tmp/github.com/foo/bar", r.Tmp)
	assert.Equal(t, "/ws/bin", r.BinRoot)
}

func TestModTimeMissingIsNegInf(t *testing.T) {
	got := ModTime(filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, NegInf, got)
	assert.True(t, got.Before(time.Now()))
}

func TestTouchCreatesThenAdvances(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f")
	require.NoError(t, Touch(p))
	first := ModTime(p)
	require.False(t, first.Equal(NegInf))

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, Touch(p))
	second := ModTime(p)
	assert.True(t, second.After(first) || second.Equal(first))
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
	assert.DirExists(t, dir)
}
