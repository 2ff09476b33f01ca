package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"taskmaster.app/taskmaster/internal/logger"
)

// LocalStorage keeps blobs on the local filesystem. It is meant for
// development; URLs point at BaseURL which the HTTP server serves.
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func (s *LocalStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path = normalizePath(path)
	full := filepath.Join(s.basePath, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	logger.Debug("File stored locally", "path", path, "content_type", contentType)

	return fmt.Sprintf("%s/%s", s.baseURL, path), nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	prefix = normalizePath(prefix)
	root := filepath.Join(s.basePath, filepath.FromSlash(prefix))

	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return paths, nil
}

func (s *LocalStorage) Remove(ctx context.Context, paths []string) error {
	for _, path := range paths {
		full := filepath.Join(s.basePath, filepath.FromSlash(normalizePath(path)))
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}
