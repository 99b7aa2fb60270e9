package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
)

// defaultConfigFile is picked up from the working directory when --config
// isn't given.
const defaultConfigFile = "catcodec.yaml"

const (
	progressAuto   = "auto"
	progressAlways = "always"
	progressNever  = "never"
)

var errBadProgress = errors.New("progress must be auto, always or never")

// Config holds the settings of the catcodec tool.
type Config struct {
	// Progress controls the progress dots: auto prints them on a terminal only.
	Progress string `yaml:"progress,omitempty"`
	// SampleDir is where WAV files are extracted to and read from.
	SampleDir string `yaml:"sample_dir,omitempty"`
}

// loadConfig reads the config file at path, or catcodec.yaml when path is
// empty and that file exists, then applies environment overrides.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{Progress: progressAuto}

	configPath := path
	if configPath == "" {
		configPath = defaultConfigFile
	}

	data, err := os.ReadFile(configPath)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	case path == "" && errors.Is(err, fs.ErrNotExist):
		// no config file is fine
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.Progress = envStr("CATCODEC_PROGRESS", cfg.Progress)
	cfg.SampleDir = envStr("CATCODEC_SAMPLE_DIR", cfg.SampleDir)

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Progress {
	case "", progressAuto, progressAlways, progressNever:
		return nil
	default:
		return fmt.Errorf("%w, got %q", errBadProgress, c.Progress)
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
