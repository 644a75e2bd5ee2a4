// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("(+ 1 2)"), 0o600))
	}
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir,
		"z.lisp", "a.lisp", "sub/deep/c.lisp", "sub/b.lisp", "notes.txt",
		".git/hooks/x.lisp", "sub/.cache/y.lisp", "sub/.hidden.lisp")

	files, err := expandArgs([]string{dir + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.lisp"),
		filepath.Join(dir, "sub/b.lisp"),
		filepath.Join(dir, "sub/deep/c.lisp"),
		filepath.Join(dir, "z.lisp"),
	}, files)

	files, err = expandArgs([]string{"x.lisp", dir + "/sub/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"x.lisp",
		filepath.Join(dir, "sub/b.lisp"),
		filepath.Join(dir, "sub/deep/c.lisp"),
	}, files)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."})
	assert.Error(t, err)

	hidden := filepath.Join(dir, ".git")
	_, err = expandArgs([]string{hidden + "/hooks/..."})
	assert.NoError(t, err, "a hidden root is walked when named explicitly")

	writeSources(t, dir, "docs/readme.txt")
	_, err = expandArgs([]string{filepath.Join(dir, "docs") + "/..."})
	assert.ErrorContains(t, err, "no .lisp files")
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".git"))
	assert.True(t, isHidden(".hidden.lisp"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
	assert.False(t, isHidden("sub"))
}
