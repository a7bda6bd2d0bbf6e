// Package config loads surf's file configuration. Settings live in
// ~/.surf/config.yaml; a missing file yields the defaults, so a fresh
// install works with nothing but an API key in the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Viewport is the browser viewport size in pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds every user-tunable setting.
type Config struct {
	// Model is the computer-use model name.
	Model string `yaml:"model"`

	// BaseURL overrides the API base URL for OpenAI-compatible gateways.
	BaseURL string `yaml:"base_url,omitempty"`

	// ChatModel is the model for one-shot vision completions (CAPTCHA
	// transcription).
	ChatModel string `yaml:"chat_model,omitempty"`

	// Headless controls whether the browser window is visible.
	Headless bool `yaml:"headless"`

	// Viewport is the browser viewport size.
	Viewport Viewport `yaml:"viewport"`

	// StartURL is navigated to when the browser session opens.
	StartURL string `yaml:"start_url"`

	// MaxRounds caps model round-trips per turn.
	MaxRounds int `yaml:"max_rounds"`

	// ShowImages prints a note for each screenshot capture in the
	// terminal output.
	ShowImages bool `yaml:"show_images"`

	// AllowedDomains and BlockedDomains are glob patterns over hosts
	// for the navigation safety policy. An empty allowed list permits
	// every host not blocked.
	AllowedDomains []string `yaml:"allowed_domains,omitempty"`
	BlockedDomains []string `yaml:"blocked_domains,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Model:      "computer-use-preview",
		Headless:   false,
		Viewport:   Viewport{Width: 1024, Height: 768},
		StartURL:   "https://www.bing.com",
		MaxRounds:  20,
		ShowImages: true,
	}
}

// DefaultPath returns ~/.surf/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".surf", "config.yaml"), nil
}

// Load reads the config file at path, applying defaults for anything the
// file leaves unset. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.MaxRounds <= 0 {
		return nil, fmt.Errorf("max_rounds must be positive, got %d", cfg.MaxRounds)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
