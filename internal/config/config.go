// Package config provides application configuration types, defaults, and the
// default-config bootstrap for cardlens.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cardlens/internal/log"
	"cardlens/internal/tracing"
)

// UIConfig holds viewer interface options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// ThemeConfig holds color customization.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// CompositorConfig controls the corrective stacking passes.
type CompositorConfig struct {
	// Enabled turns the corrective passes on. Only the affected mobile
	// platform needs them; everything else stacks correctly on its own.
	Enabled bool `mapstructure:"enabled"`
}

// Config holds all configuration options for cardlens.
type Config struct {
	// Source is the card config location: an http(s) URL or a file path.
	Source string `mapstructure:"source"`

	// DefaultCard is the card shown when no id is requested. Startup fails
	// if the card config has no entry for it.
	DefaultCard string `mapstructure:"default_card"`

	// Card is the requested card id, usually supplied via --card.
	Card string `mapstructure:"card"`

	// Watch reloads the card when a local config file changes (dev mode).
	Watch bool `mapstructure:"watch"`

	UI         UIConfig         `mapstructure:"ui"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Compositor CompositorConfig `mapstructure:"compositor"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Source:      "cards.json",
		DefaultCard: "card_001",
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		Theme: ThemeConfig{
			Highlight: "#7D56F4",
			Subtle:    "#6B6B6B",
			Error:     "#EF4444",
			Success:   "#10B981",
		},
		Compositor: CompositorConfig{Enabled: true},
		Tracing:    tracing.DefaultConfig(),
	}
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# cardlens configuration

# Card configuration source: an http(s) URL or a local file path.
source: cards.json

# Card shown when no id is requested. Must exist in the card config.
default_card: card_001

# Reload the card when a local config file changes (dev mode).
watch: false

ui:
  show_status_bar: true
  markdown_style: dark  # dark or light

theme:
  highlight: "#7D56F4"
  subtle: "#6B6B6B"
  error: "#EF4444"
  success: "#10B981"

# Corrective stacking passes for platforms that paint the camera feed above
# rendered output. Harmless elsewhere.
compositor:
  enabled: true

# OpenTelemetry tracing for lifecycle operations.
# tracing:
#   enabled: true
#   exporter: otlp       # stdout, otlp or none
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
