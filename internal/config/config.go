package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HistoryConfig controls the SQLite log of computed evaluations.
type HistoryConfig struct {
	Enabled *bool `yaml:"enabled" json:"enabled"`
	Limit   int   `yaml:"limit" json:"limit"`
}

// IsEnabled returns whether evaluations are recorded. Defaults to false.
func (c HistoryConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return false
	}
	return *c.Enabled
}

// Config is the top-level configuration parsed from nextrun.yaml.
type Config struct {
	// Reference is the default reference time, "HH:MM" or "now".
	Reference string        `yaml:"reference" json:"reference"`
	Mode      string        `yaml:"mode" json:"mode"`
	OnError   string        `yaml:"on_error" json:"on_error"`
	JobsDir   string        `yaml:"jobs_dir" json:"jobs_dir,omitempty"`
	DataDir   string        `yaml:"data_dir" json:"data_dir"`
	Listen    string        `yaml:"listen" json:"listen"`
	LogLevel  string        `yaml:"log_level" json:"log_level"`
	History   HistoryConfig `yaml:"history" json:"history"`
}

// Error policies for a line that fails to evaluate.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

func applyDefaults(c *Config) {
	c.Reference = strings.TrimSpace(c.Reference)
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = "compat"
	}
	c.OnError = strings.ToLower(strings.TrimSpace(c.OnError))
	if c.OnError == "" {
		c.OnError = OnErrorAbort
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	c.DataDir = expandPath(c.DataDir)
	c.JobsDir = expandPath(c.JobsDir)
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.History.Limit <= 0 {
		c.History.Limit = 50
	}
}

// Validate reports configuration values that can never work.
func (c *Config) Validate() error {
	switch c.OnError {
	case OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("invalid on_error %q: use %q or %q", c.OnError, OnErrorAbort, OnErrorSkip)
	}
	switch c.Mode {
	case "compat", "standard":
	default:
		return fmt.Errorf("invalid mode %q: use \"compat\" or \"standard\"", c.Mode)
	}
	return nil
}

// DBPath returns the history database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "nextrun.db")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "./data"
	}
	return filepath.Join(home, ".local", "share", "nextrun")
}

func expandPath(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return value
	}

	v = os.ExpandEnv(v)

	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return v
	}

	if v == "~" {
		return home
	}
	if strings.HasPrefix(v, "~/") || strings.HasPrefix(v, "~\\") {
		return filepath.Join(home, v[2:])
	}
	return v
}

// Default returns a Config with every field at its default.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// LoadConfig reads a YAML configuration file from path and returns
// a Config with defaults applied for any unset fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}
