// storage/file_storage.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStorage accepts an uploaded document and returns a stable relative
// path/name pair for the application record.
type FileStorage interface {
	// SaveUpload writes an uploaded document under the application's folder
	// and returns the path relative to the upload root.
	SaveUpload(applicationID, fileName string, content []byte) (string, error)

	// ValidatePath checks path security (no traversal, within the root).
	ValidatePath(fullPath string) error
}

// LocalFileStorage implements FileStorage on the local filesystem.
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	return &LocalFileStorage{baseDir: baseDir, logger: logger}
}

// SaveUpload stores the file as <root>/<applicationID>/<uuid>_<name>. The
// uuid prefix keeps repeat uploads of the same file name from colliding.
func (s *LocalFileStorage) SaveUpload(applicationID, fileName string, content []byte) (string, error) {
	safeName := filepath.Base(fileName)
	if safeName == "." || safeName == string(filepath.Separator) || safeName == "" {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}

	relPath := filepath.Join(applicationID, uuid.NewString()+"_"+safeName)
	fullPath := filepath.Join(s.baseDir, relPath)

	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create upload directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write uploaded file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", relPath),
		zap.Int("size", len(content)))

	return relPath, nil
}

// ValidatePath checks that the path is safe and within baseDir
func (s *LocalFileStorage) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}
