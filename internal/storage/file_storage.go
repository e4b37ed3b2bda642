// Package storage persists binary artifacts on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/badigital/ba-workflow/internal/application/port"
)

// LocalFileStore implements port.FileStore on a local directory tree
type LocalFileStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStore creates a new LocalFileStore rooted at baseDir
func NewLocalFileStore(baseDir string, logger *zap.Logger) *LocalFileStore {
	return &LocalFileStore{baseDir: baseDir, logger: logger}
}

// Save writes content under the storage root and returns the full path
func (s *LocalFileStore) Save(relPath string, content []byte) (string, error) {
	fullPath := s.FullPath(relPath)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", filepath.Dir(fullPath)), zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath), zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved",
		zap.String("path", fullPath), zap.Int("size", len(content)))
	return fullPath, nil
}

// Delete removes a file. Deleting a missing file is a no-op.
func (s *LocalFileStore) Delete(relPath string) error {
	fullPath := s.FullPath(relPath)
	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to delete file",
			zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FullPath converts a relative path to its on-disk path
func (s *LocalFileStore) FullPath(relPath string) string {
	return filepath.Join(s.baseDir, relPath)
}

// Exists reports whether a file exists at the relative path
func (s *LocalFileStore) Exists(relPath string) bool {
	_, err := os.Stat(s.FullPath(relPath))
	return err == nil
}

// validatePath checks that the resolved path stays within the storage root
func (s *LocalFileStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes storage root: %s", fullPath)
	}
	return nil
}

var _ port.FileStore = (*LocalFileStore)(nil)
