package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// BlobStorage persists original uploads and hands out their public URLs.
type BlobStorage interface {
	Put(ctx context.Context, filename string, data []byte) (*Object, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Object describes one stored blob.
type Object struct {
	Key  string
	Url  string
	Size int64
}

// FileStorage stores blobs on an afero filesystem and serves them from
// publicBaseURL, e.g. http://localhost:3000/uploads.
type FileStorage struct {
	fs            afero.Fs
	root          string
	publicBaseURL string
}

func NewFileStorage(fs afero.Fs, root, publicBaseURL string) (*FileStorage, error) {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	return &FileStorage{
		fs:            fs,
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// NewLocalStorage stores blobs on the OS filesystem under root.
func NewLocalStorage(root, publicBaseURL string) (*FileStorage, error) {
	return NewFileStorage(afero.NewOsFs(), root, publicBaseURL)
}

// ObjectKey is "<uuid>-<sanitized filename>".
func ObjectKey(filename string) string {
	return uuid.NewString() + "-" + sanitize(filename)
}

func (s *FileStorage) Put(ctx context.Context, filename string, data []byte) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := ObjectKey(filename)
	if err := afero.WriteFile(s.fs, s.pathOf(key), data, 0o644); err != nil {
		return nil, fmt.Errorf("write blob %s: %w", key, err)
	}
	return &Object{Key: key, Url: s.URL(key), Size: int64(len(data))}, nil
}

func (s *FileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(s.pathOf(key))
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.fs.Remove(s.pathOf(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// List returns the keys of every stored blob.
func (s *FileStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			keys = append(keys, info.Name())
		}
	}
	return keys, nil
}

// URL is the public address of key.
func (s *FileStorage) URL(key string) string {
	return s.publicBaseURL + "/" + url.PathEscape(key)
}

// Root is the directory served as static files.
func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) pathOf(key string) string {
	return filepath.Join(s.root, path.Base(key))
}

func sanitize(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == 0:
			return -1
		case r == ' ':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload.pdf"
	}
	return name
}
