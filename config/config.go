// Package config loads the optional YAML configuration file. Flags and
// environment variables in cmd/ override anything set here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location relative to the user's home
// directory.
const DefaultPath = ".sitesmith/config.yaml"

// Config is the file-backed configuration.
type Config struct {
	// BaseURL of the generation service.
	BaseURL string `yaml:"base_url"`
	// ExportDir is where exported sites are written.
	ExportDir string `yaml:"export_dir"`
	// TemplatePath points at an HTML file sent as the template reference
	// on generation requests.
	TemplatePath string `yaml:"template_path"`
	// ThreadPath is where the active thread is persisted between runs.
	ThreadPath string `yaml:"thread_path"`
	// ArtifactPath is where the last artifact snapshot is persisted.
	ArtifactPath string `yaml:"artifact_path"`
	// RequestTimeout bounds the update call; the generation stream is
	// bounded by its own context.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ExportDir:      "site",
		ThreadPath:     filepath.Join(home, ".sitesmith", "thread.json"),
		ArtifactPath:   filepath.Join(home, ".sitesmith", "artifact.json"),
		RequestTimeout: 2 * time.Minute,
	}
}

// Load reads the config file at path, layering it over Default. A
// missing file at the default location is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
