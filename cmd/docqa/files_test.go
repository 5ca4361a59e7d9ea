package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "nested", "deep", "b.PDF"))
	touch(t, filepath.Join(dir, "nested", "notes.txt"))

	files, err := expandPatterns([]string{
		filepath.Join(dir, "**", "*"),
		filepath.Join(dir, "a.pdf"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "nested", "deep", "b.PDF"),
	}, files)
}

func TestExpandPatternsNoMatch(t *testing.T) {
	files, err := expandPatterns([]string{filepath.Join(t.TempDir(), "*.pdf")})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestExpandPatternsInvalid(t *testing.T) {
	_, err := expandPatterns([]string{"[unclosed"})
	assert.Error(t, err)
}
