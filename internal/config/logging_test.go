package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"spisovka-2024-01-01T10-00-00.log",
		"spisovka-2024-01-02T10-00-00.log",
		"spisovka-2024-01-03T10-00-00.log",
		"other.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	require.NoError(t, pruneLogs(dir, 2))

	left, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "other.txt"),
		filepath.Join(dir, "spisovka-2024-01-02T10-00-00.log"),
		filepath.Join(dir, "spisovka-2024-01-03T10-00-00.log"),
	}, left)
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := NewLogger(&Config{LogDir: dir, LogMaxFiles: 3})
	require.NoError(t, err)

	logger.Info("hello", "spis_id", "s1")
	closeFn()

	files, err := filepath.Glob(filepath.Join(dir, logFilePattern))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"spis_id":"s1"`)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("IMAGE_QUALITY", "not-a-number")

	cfg := Load()
	assert.Equal(t, "test_", cfg.TablePrefix)
	assert.Equal(t, "supabase", cfg.StorageBackend)
	assert.Equal(t, DefaultImageQuality, cfg.Image.Quality)
	assert.True(t, cfg.Debug)
}
