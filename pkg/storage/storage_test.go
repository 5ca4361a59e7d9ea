package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStorage(t *testing.T) *FileStorage {
	t.Helper()
	s, err := NewFileStorage(afero.NewMemMapFs(), "uploads", "http://localhost:3000/uploads/")
	require.NoError(t, err)
	return s
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage(t)

	obj, err := s.Put(ctx, "report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(obj.Key, "-report.pdf"))
	assert.Equal(t, "http://localhost:3000/uploads/"+obj.Key, obj.Url)
	assert.Equal(t, int64(8), obj.Size)

	data, err := s.Get(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	require.NoError(t, s.Delete(ctx, obj.Key))
	_, err = s.Get(ctx, obj.Key)
	assert.Error(t, err)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, obj.Key))
}

func TestObjectKeyStripsPaths(t *testing.T) {
	key := ObjectKey("../../etc/my report.pdf")
	assert.True(t, strings.HasSuffix(key, "-my_report.pdf"))
	assert.NotContains(t, key, "/")
}

func TestPutHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newMemStorage(t).Put(ctx, "a.pdf", []byte("x"))
	assert.Error(t, err)
}
