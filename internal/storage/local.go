package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes media files under a directory served as a static route
type LocalStorage struct {
	Dir     string
	BaseURL string
}

// NewLocalStorage creates a LocalStorage rooted at dir, with URLs under baseURL
func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{Dir: dir, BaseURL: baseURL}
}

func (s *LocalStorage) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + key, nil
}
