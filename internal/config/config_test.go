package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "cards.json", cfg.Source)
	assert.Equal(t, "card_001", cfg.DefaultCard)
	assert.Empty(t, cfg.Card)
	assert.False(t, cfg.Watch)
	assert.True(t, cfg.UI.ShowStatusBar)
	assert.True(t, cfg.Compositor.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestWriteDefaultConfig_CreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cardlens", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_card: card_001")
}

func TestDefaultConfigTemplate_IsValidYAMLMatchingDefaults(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &raw))

	assert.Equal(t, "cards.json", raw["source"])
	assert.Equal(t, "card_001", raw["default_card"])
}

func TestDefaultConfigTemplate_RoundTripsThroughViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	assert.Equal(t, want.Source, cfg.Source)
	assert.Equal(t, want.DefaultCard, cfg.DefaultCard)
	assert.Equal(t, want.UI, cfg.UI)
	assert.Equal(t, want.Theme, cfg.Theme)
	assert.Equal(t, want.Compositor, cfg.Compositor)
}
