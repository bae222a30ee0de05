// Package config handles loading and managing Connectoscope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for Connectoscope.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
}

// AnalysisConfig controls how input connectomes are discovered and
// analyzed.
type AnalysisConfig struct {
	// Pattern is the glob used to discover connectome CSVs in an input
	// directory.
	Pattern string `yaml:"pattern"`
	// MeasuresFile is the parameter file name looked up next to the
	// inputs.
	MeasuresFile string `yaml:"measures_file"`
	// Atlas names the parcellation the connectomes were built with.
	Atlas string `yaml:"atlas"`
}

// StorageConfig selects and configures the bundle storage backend.
type StorageConfig struct {
	// Backend is one of "local", "s3", "gcs".
	Backend string `yaml:"backend"`
	// LocalDir is the base directory for the local backend.
	LocalDir string `yaml:"local_dir"`

	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`

	GCSBucket string `yaml:"gcs_bucket"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Pattern:      "**/*.csv",
			MeasuresFile: "measures.txt",
		},
		Storage: StorageConfig{
			Backend: "local",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .connectoscope/config.yaml in the given
// directory and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".connectoscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the local result directory for analysis runs.
// Uses ~/.cache/connectoscope/ to avoid polluting input directories.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "connectoscope")
}

// BundleDir returns the local bundle storage directory.
func BundleDir() string {
	return filepath.Join(CacheDir(), "bundles")
}
