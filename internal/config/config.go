package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Subject SubjectConfig `json:"subject"`
	Display DisplayConfig `json:"display"`
}

// SubjectConfig identifies whose data this installation tracks
type SubjectConfig struct {
	ID string `json:"id"`
}

// DisplayConfig holds dashboard preferences
type DisplayConfig struct {
	DefaultMetric string `json:"default_metric"`
	DefaultRange  string `json:"default_range"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

var validRanges = []string{"7d", "30d", "90d", "all"}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Subject: SubjectConfig{
			ID: "me",
		},
		Display: DisplayConfig{
			DefaultMetric: "adjusted_score",
			DefaultRange:  "30d",
		},
	}
}

// Load reads the configuration from ~/.trackme/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Subject.ID == "" {
		cfg.Subject.ID = defaults.Subject.ID
	}
	if cfg.Display.DefaultMetric == "" {
		cfg.Display.DefaultMetric = defaults.Display.DefaultMetric
	}
	if cfg.Display.DefaultRange == "" {
		cfg.Display.DefaultRange = defaults.Display.DefaultRange
	}

	return &cfg, nil
}

// LoadOrDefault loads the config, falling back to defaults when no
// config file exists yet.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		defaults := DefaultConfig()
		return &defaults, nil
	}
	return cfg, err
}

// Save writes the configuration to ~/.trackme/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example)
}

// Validate checks if the config has usable fields
func (c *Config) Validate() error {
	if c.Subject.ID == "" {
		return errors.New("subject.id is required")
	}

	if c.Display.DefaultRange != "" {
		valid := false
		for _, r := range validRanges {
			if c.Display.DefaultRange == r {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("display.default_range must be one of %v, got %q", validRanges, c.Display.DefaultRange)
		}
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trackme", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trackme"), nil
}
