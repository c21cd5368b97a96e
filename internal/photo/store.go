// Package photo stores uploaded product photos on local disk and resolves the
// opaque keys back to fetchable URLs.
package photo

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves uploaded binaries and resolves stored keys to URLs. The key is a
// generated filename; everything outside this package treats it as opaque.
type Store interface {
	Save(file *multipart.FileHeader) (string, error)
	URL(key string) string
}

type diskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates a store rooted at dir, creating it if needed.
func NewDiskStore(dir, baseURL string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &diskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the upload under a fresh uuid-based name, keeping the original
// extension so the static file server picks a sensible content type.
func (s *diskStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return key, nil
}

func (s *diskStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}
