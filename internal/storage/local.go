package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores uploads on the server's filesystem under a root
// directory and serves them from baseURL.
type LocalStorage struct {
	baseURL string // Server URL (e.g., "http://localhost:8080")
	rootDir string // Local directory for uploads (e.g., "./uploads")
}

// NewLocalStorage creates a local-disk storage backend rooted at rootDir
func NewLocalStorage(baseURL, rootDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", rootDir, err)
	}
	return &LocalStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		rootDir: rootDir,
	}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	// Reject traversal attempts before touching the filesystem
	cleaned := filepath.Clean("/" + key)
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.rootDir, cleaned), nil
}

func (s *LocalStorage) Save(key string, reader io.Reader) (string, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.baseURL + "/uploads/" + strings.TrimLeft(key, "/"), nil
}

func (s *LocalStorage) Exists(key string) (bool, int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return false, 0, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) Delete(key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Open(key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
