// Package config loads cfnslim configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/cfnslim/internal/optimizer"
	"github.com/dshills/cfnslim/internal/splitter"
	"github.com/dshills/cfnslim/pkg/types"
)

// DefaultPath is the config file looked up when none is given
const DefaultPath = ".cfnslim.yaml"

// Environment variable overrides
const (
	EnvSource        = "CFNSLIM_SOURCE"
	EnvOutDir        = "CFNSLIM_OUT_DIR"
	EnvOptimized     = "CFNSLIM_OPTIMIZED"
	EnvLineThreshold = "CFNSLIM_LINE_THRESHOLD"
	EnvLogLevel      = "CFNSLIM_LOG_LEVEL"
)

// Config holds all cfnslim settings
type Config struct {
	Source    string `yaml:"source"`
	OutDir    string `yaml:"out_dir"`
	Optimized string `yaml:"optimized"`

	LineThreshold int `yaml:"line_threshold"`
	MaxBlankRun   int `yaml:"max_blank_run"`

	Preamble string              `yaml:"preamble"`
	Sections []types.SectionSpec `yaml:"sections"`

	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // time.ParseDuration format
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Source:        "template.yaml",
		OutDir:        "infrastructure/cloudformation/split",
		Optimized:     "template-optimized.yaml",
		LineThreshold: optimizer.DefaultLineThreshold,
		MaxBlankRun:   optimizer.DefaultMaxBlankRun,
		Preamble:      DefaultPreamble,
		Sections:      DefaultSections(),
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
	}
}

// Load loads configuration from a YAML file over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies CFNSLIM_* environment variables
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvSource); v != "" {
		c.Source = v
	}
	if v := os.Getenv(EnvOutDir); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv(EnvOptimized); v != "" {
		c.Optimized = v
	}
	if v := os.Getenv(EnvLineThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LineThreshold = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks the configuration for errors that must abort a run
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source path is required")
	}
	if strings.TrimSpace(c.OutDir) == "" {
		return errors.New("output directory is required")
	}
	if strings.TrimSpace(c.Optimized) == "" {
		return errors.New("optimized output path is required")
	}
	if c.LineThreshold <= 0 {
		return fmt.Errorf("line_threshold must be positive, got %d", c.LineThreshold)
	}
	if c.MaxBlankRun < 0 {
		return fmt.Errorf("max_blank_run must be >= 0, got %d", c.MaxBlankRun)
	}
	if len(c.Sections) == 0 {
		return errors.New("at least one section is required")
	}
	if err := splitter.ValidateSpecs(c.Sections); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	return nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
