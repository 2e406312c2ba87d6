// Package storage persists uploaded profile photos on the local filesystem.
// Stored references are bare filenames; the public URL is built by prefixing
// the service's base URL.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsafeFilename = errors.New("unsafe filename")

// LocalStore writes photos into a single flat directory that is also served
// statically under /uploads/.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the directory photos are stored in.
func (s *LocalStore) Dir() string {
	return s.baseDir
}

// Save writes the upload under a generated name, keeping the original
// extension, and returns the stored filename.
func (s *LocalStore) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.baseDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Half-written file is useless, drop it
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	return filename, nil
}

// Remove deletes a stored photo. A missing file is not an error; replacement
// and deletion are best-effort by contract.
func (s *LocalStore) Remove(filename string) error {
	if !safeFilename(filename) {
		return ErrUnsafeFilename
	}

	err := os.Remove(filepath.Join(s.baseDir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove photo file: %w", err)
	}

	return nil
}

// URL resolves a stored filename to its public URL.
func (s *LocalStore) URL(filename string) string {
	return s.baseURL + "/uploads/" + filename
}

// safeFilename rejects anything that could escape the upload directory.
func safeFilename(name string) bool {
	return name != "" &&
		!strings.Contains(name, "/") &&
		!strings.Contains(name, "\\") &&
		name != "." && name != ".." &&
		filepath.Base(name) == name
}
