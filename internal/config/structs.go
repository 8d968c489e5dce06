// Package config holds the ledgerlens configuration, loadable from
// config files, environment variables and command-line flags.
package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledgerlens/ledgerlens/internal/engine"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	OCR        OCRConfig        `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Backend    BackendConfig    `mapstructure:"backend" yaml:"backend" json:"backend"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier" json:"classifier"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server" json:"server"`
}

// OCRConfig controls the local recognition engine.
type OCRConfig struct {
	Language            string  `mapstructure:"language" yaml:"language" json:"language"`
	Preprocess          bool    `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold" json:"confidence_threshold"`
	TempDir             string  `mapstructure:"temp_dir" yaml:"temp_dir" json:"temp_dir"`
}

// BackendConfig points at the external document-analysis service.
type BackendConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// ClassifierConfig controls transaction categorization.
type ClassifierConfig struct {
	// ModelPath, when set, is loaded at startup and written back on
	// graceful shutdown. Empty means train from the default set.
	ModelPath string `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
	AutoSave  bool   `mapstructure:"auto_save" yaml:"auto_save" json:"auto_save"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Host               string `mapstructure:"host" yaml:"host" json:"host"`
	Port               int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin         string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB        int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec         int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		OCR: OCRConfig{
			Language:            engine.DefaultLanguage,
			Preprocess:          true,
			ConfidenceThreshold: engine.DefaultConfidenceThreshold,
		},
		Backend: BackendConfig{
			BaseURL:    "http://localhost:3001",
			TimeoutSec: 60,
		},
		Classifier: ClassifierConfig{
			AutoSave: true,
		},
		Server: ServerConfig{
			Host:               "localhost",
			Port:               3002,
			CORSOrigin:         "*",
			MaxUploadMB:        10,
			TimeoutSec:         120,
			ShutdownTimeoutSec: 10,
		},
	}
}

// Validate checks the configuration for values that would only fail
// later and more confusingly.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", c.LogLevel)
	}

	if !engine.IsSupportedLanguage(c.OCR.Language) {
		return fmt.Errorf("unsupported ocr.language %q (supported: %v)", c.OCR.Language, engine.SupportedLanguages)
	}
	if c.OCR.ConfidenceThreshold < 0 || c.OCR.ConfidenceThreshold > 100 {
		return fmt.Errorf("ocr.confidence_threshold %.1f out of range [0,100]", c.OCR.ConfidenceThreshold)
	}

	if c.Backend.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
			return fmt.Errorf("invalid backend.base_url %q: %w", c.Backend.BaseURL, err)
		}
	}
	if c.Backend.TimeoutSec <= 0 {
		return fmt.Errorf("backend.timeout_sec must be positive, got %d", c.Backend.TimeoutSec)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 || c.Server.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}

// Save writes the configuration as YAML, for `ledgerlens config init`.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
