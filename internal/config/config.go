// Package config handles configuration and credential loading for dscli.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coodar/dscli/internal/models"
)

// Unknown-command policies
const (
	UnknownCommandForward = "forward" // send unknown /x input to the model as chat text
	UnknownCommandReject  = "reject"  // report the command as unknown and do not send it
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	BaseURL         string             `json:"base_url"`
	DefaultModel    string             `json:"default_model"`
	Temperature     float64            `json:"temperature"`
	AvailableModels []models.ModelInfo `json:"available_models"`
	Stream          bool               `json:"stream"`
	MaxRetries      int                `json:"max_retries"`
	RetryDelayMS    int                `json:"retry_delay_ms"`
	TimeoutSeconds  int                `json:"timeout_seconds"`
	// UnknownCommandPolicy decides what happens to input that starts with
	// "/" but names no known command: "forward" or "reject".
	UnknownCommandPolicy string         `json:"unknown_command_policy"`
	CopyToClipboard      bool           `json:"copy_to_clipboard"`
	Theme                string         `json:"theme,omitempty"`
	Markdown             MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:              models.DefaultBaseURL,
		DefaultModel:         models.ModelChat,
		Temperature:          0.7,
		AvailableModels:      models.DefaultModels(),
		Stream:               true,
		MaxRetries:           3,
		RetryDelayMS:         1000,
		TimeoutSeconds:       300,
		UnknownCommandPolicy: UnknownCommandForward,
		CopyToClipboard:      false,
		Theme:                "tokyonight",
		Markdown:             DefaultMarkdownConfig(),
	}
}

// RetryDelay returns the configured delay between attempts
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// Timeout returns the configured network timeout
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the client cannot work with
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if len(c.AvailableModels) == 0 {
		return fmt.Errorf("available_models must not be empty")
	}
	seen := make(map[string]bool, len(c.AvailableModels))
	for _, m := range c.AvailableModels {
		if m.ID == "" {
			return fmt.Errorf("available_models contains an entry without id")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %q in available_models", m.ID)
		}
		seen[m.ID] = true
	}
	if _, ok := models.FindModel(c.AvailableModels, c.DefaultModel); !ok {
		return fmt.Errorf("default_model %q is not in available_models", c.DefaultModel)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.RetryDelayMS < 0 {
		return fmt.Errorf("retry_delay_ms must not be negative")
	}
	switch c.UnknownCommandPolicy {
	case UnknownCommandForward, UnknownCommandReject:
	default:
		return fmt.Errorf("unknown_command_policy must be %q or %q, got %q",
			UnknownCommandForward, UnknownCommandReject, c.UnknownCommandPolicy)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".dscli"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from path. A missing file yields
// the defaults.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo writes cfg to path
func SaveConfigTo(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
