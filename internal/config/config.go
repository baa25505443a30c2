// Package config provides runtime configuration values for the diff run.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// SLDIFF_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the knobs of one run.
type Config struct {
	// Workers bounds concurrent bundle extraction per snapshot; 0 = GOMAXPROCS.
	Workers int `yaml:"workers"`
	// ChunkSize is the number of bundles per worker task; 0 = bundles/workers.
	ChunkSize int `yaml:"chunk_size"`
	// OutDir receives diff_<old>-<new>.json.
	OutDir string `yaml:"out_dir"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// PatchMaxBytes caps the listing patch input; 0 = no limit.
	PatchMaxBytes int `yaml:"patch_max_bytes"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		OutDir:        "ndjson",
		LogLevel:      "info",
		PatchMaxBytes: 64_000_000,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Workers = atoienv("SLDIFF_WORKERS", cfg.Workers)
	cfg.ChunkSize = atoienv("SLDIFF_CHUNK_SIZE", cfg.ChunkSize)
	cfg.OutDir = getenv("SLDIFF_OUT_DIR", cfg.OutDir)
	cfg.LogLevel = getenv("SLDIFF_LOG_LEVEL", cfg.LogLevel)
	cfg.PatchMaxBytes = atoienv("SLDIFF_PATCH_MAX_BYTES", cfg.PatchMaxBytes)
}

// Validate rejects negative sizes and an empty output directory.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	case c.ChunkSize < 0:
		return fmt.Errorf("chunk_size must be >= 0, got %d", c.ChunkSize)
	case c.PatchMaxBytes < 0:
		return fmt.Errorf("patch_max_bytes must be >= 0, got %d", c.PatchMaxBytes)
	case c.OutDir == "":
		return fmt.Errorf("out_dir must be non-empty")
	}
	return nil
}
