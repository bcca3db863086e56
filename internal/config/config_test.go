package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goplan.yaml")
	content := []byte("matching:\n  occur_check: true\n  numeric_bucketing: true\nsearch:\n  strategy: dfs\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Matching.OccurCheck)
	assert.True(t, cfg.Matching.NumericBucketing)
	assert.Equal(t, "dfs", cfg.Search.Strategy)
	assert.Equal(t, Default().Matching.DefaultOperatorCost, cfg.Matching.DefaultOperatorCost)
}

func TestSaveRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Search.MaxNodes = 42

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Search.MaxNodes)
}
