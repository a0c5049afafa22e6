// storage/file_storage_test.go
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveUpload(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	fs := NewLocalFileStorage(tempDir, logger)

	t.Run("saves under the application folder", func(t *testing.T) {
		relPath, err := fs.SaveUpload("2608280001", "pan.pdf", []byte("PDF content"))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(relPath, "2608280001"+string(filepath.Separator)))
		assert.True(t, strings.HasSuffix(relPath, "_pan.pdf"))

		saved, err := os.ReadFile(filepath.Join(tempDir, relPath))
		require.NoError(t, err)
		assert.Equal(t, []byte("PDF content"), saved)
	})

	t.Run("repeat uploads of the same name do not collide", func(t *testing.T) {
		first, err := fs.SaveUpload("2608280001", "slip.pdf", []byte("one"))
		require.NoError(t, err)
		second, err := fs.SaveUpload("2608280001", "slip.pdf", []byte("two"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("strips directory components from the client file name", func(t *testing.T) {
		relPath, err := fs.SaveUpload("2608280001", "../../evil.sh", []byte("x"))

		require.NoError(t, err)
		assert.NotContains(t, relPath, "..")
		assert.FileExists(t, filepath.Join(tempDir, relPath))
	})
}

func TestLocalFileStorage_ValidatePath(t *testing.T) {
	tempDir := t.TempDir()
	logger := zap.NewNop()
	fs := NewLocalFileStorage(tempDir, logger)

	t.Run("accepts paths inside the root", func(t *testing.T) {
		assert.NoError(t, fs.ValidatePath(filepath.Join(tempDir, "a", "b.pdf")))
	})

	t.Run("rejects escaping paths", func(t *testing.T) {
		assert.Error(t, fs.ValidatePath(filepath.Join(tempDir, "..", "outside.pdf")))
		assert.Error(t, fs.ValidatePath("/etc/passwd"))
	})
}
