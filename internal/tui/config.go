package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stocksage/sage/internal/config"
	"github.com/stocksage/sage/pkg/sageapi"
)

// UIConfig holds TUI-specific preferences separate from the CLI config.
type UIConfig struct {
	LastSector     string `yaml:"last_sector,omitempty"`
	LastCategory   string `yaml:"last_category,omitempty"`
	SortDescending bool   `yaml:"sort_descending,omitempty"`
}

// Category returns the remembered news category, falling back to all.
func (c *UIConfig) Category() sageapi.Category {
	category, err := sageapi.ParseCategory(c.LastCategory)
	if err != nil {
		return sageapi.CategoryAll
	}
	return category
}

// ConfigPath returns the path to the TUI config file.
func ConfigPath() string {
	return filepath.Join(config.ConfigDir(), "ui.yaml")
}

// LoadConfig reads the TUI config at path. A missing file yields defaults.
func LoadConfig(path string) (*UIConfig, error) {
	cfg := &UIConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read ui config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse ui config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the directory if needed.
func SaveConfig(path string, cfg *UIConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode ui config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
