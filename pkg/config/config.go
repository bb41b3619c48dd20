// Package config loads tool settings from a YAML file with environment
// overrides. Invalid analysis settings are rejected here, before any
// analysis runs.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/comments"
)

// Credential is one allowed login. Password hashes are bcrypt, generated
// with `rdm -hash-password`.
type Credential struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	DisplayName  string `yaml:"display_name"`
}

// Config is the full tool configuration.
type Config struct {
	RecurrenceThreshold int  `yaml:"recurrence_threshold"`
	LookbackWindowDays  int  `yaml:"lookback_window_days"`
	ExcludeScheduled    bool `yaml:"exclude_scheduled"`

	CommentDBPath string `yaml:"comment_db_path"`
	ExportDir     string `yaml:"export_dir"`

	// Reviewer is the default comment author when the login gate is
	// disabled.
	Reviewer    string       `yaml:"reviewer"`
	Credentials []Credential `yaml:"credentials"`
}

// ValidationError marks configuration rejected before analysis.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Load reads configuration from the given path, falling back to defaults
// when the file does not exist. Environment variables override file
// values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	envOverride(&cfg.CommentDBPath, "RDM_COMMENT_DB")
	envOverride(&cfg.ExportDir, "RDM_EXPORT_DIR")
	envOverride(&cfg.Reviewer, "RDM_REVIEWER")
	envOverrideInt(&cfg.RecurrenceThreshold, "RDM_RECURRENCE_THRESHOLD")
	envOverrideInt(&cfg.LookbackWindowDays, "RDM_LOOKBACK_WINDOW_DAYS")
	envOverrideBool(&cfg.ExcludeScheduled, "RDM_EXCLUDE_SCHEDULED")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	a := analysis.DefaultConfig()
	return &Config{
		RecurrenceThreshold: a.Threshold,
		LookbackWindowDays:  a.WindowDays,
		ExcludeScheduled:    a.ExcludeScheduled,
		CommentDBPath:       comments.DefaultDBPath,
		ExportDir:           "rdm-export",
		Reviewer:            "Engineer",
	}
}

// Validate rejects settings that would make the analysis meaningless.
func (c *Config) Validate() error {
	if c.RecurrenceThreshold < 1 {
		return &ValidationError{Field: "recurrence_threshold", Reason: fmt.Sprintf("must be at least 1, got %d", c.RecurrenceThreshold)}
	}
	if c.LookbackWindowDays < 0 {
		return &ValidationError{Field: "lookback_window_days", Reason: fmt.Sprintf("must not be negative, got %d", c.LookbackWindowDays)}
	}
	if c.CommentDBPath == "" {
		return &ValidationError{Field: "comment_db_path", Reason: "must not be empty"}
	}
	return nil
}

// AnalysisConfig derives the per-run analysis settings.
func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		Threshold:        c.RecurrenceThreshold,
		WindowDays:       c.LookbackWindowDays,
		ExcludeScheduled: c.ExcludeScheduled,
	}
}

// AuthRequired reports whether a login gate is configured.
func (c *Config) AuthRequired() bool {
	return len(c.Credentials) > 0
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}
