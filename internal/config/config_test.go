package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"SLDIFF_WORKERS", "SLDIFF_CHUNK_SIZE", "SLDIFF_OUT_DIR", "SLDIFF_LOG_LEVEL", "SLDIFF_PATCH_MAX_BYTES"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
	assert.Equal(t, "ndjson", c.OutDir)
	assert.Zero(t, c.Workers)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "sl-diff.yaml")
	require.NoError(t, os.WriteFile(p, []byte("workers: 3\nchunk_size: 50\nout_dir: reports\n"), 0o644))
	t.Setenv("SLDIFF_CHUNK_SIZE", "7")
	t.Setenv("SLDIFF_LOG_LEVEL", "debug")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 7, c.ChunkSize)
	assert.Equal(t, "reports", c.OutDir)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadIgnoresBadEnvNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLDIFF_WORKERS", "many")
	c, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, c.Workers)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("workers: [1, 2"), 0o644))
	_, err = Load(p)
	assert.ErrorContains(t, err, "failed to parse config YAML")

	t.Setenv("SLDIFF_WORKERS", "-1")
	_, err = Load("")
	assert.ErrorContains(t, err, "workers must be >= 0")
}
