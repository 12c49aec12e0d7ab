package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flavornet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultIndexDir, cfg.IndexDir)
	assert.Equal(t, 20, cfg.Thresholds.OriginalComplement)
	assert.Equal(t, 20, cfg.Thresholds.FoodPairing)
	assert.Equal(t, 20, cfg.Thresholds.UpdatedComplement)
	assert.Len(t, cfg.Sources.Recipes, 3)

	_, ok := cfg.Thresholds.SubstitutionThreshold()
	assert.False(t, ok)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("EmptyPath", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("OverridesNamedFields", func(t *testing.T) {
		path := writeConfig(t, `
data_dir: /srv/flavors
thresholds:
  ocn: 5
  substitution_flavor: 2.5
workers: 3
log:
  level: debug
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/srv/flavors", cfg.DataDir)
		assert.Equal(t, 5, cfg.Thresholds.OriginalComplement)
		assert.Equal(t, 20, cfg.Thresholds.FoodPairing)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)

		sf, ok := cfg.Thresholds.SubstitutionThreshold()
		assert.True(t, ok)
		assert.Equal(t, 2.5, sf)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		path := writeConfig(t, "datadir: x\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"NegativeThreshold", func(c *Config) { c.Thresholds.FoodPairing = -1 }, "thresholds.fph"},
		{"NegativeWorkers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"UnknownLogFormat", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"NoRecipes", func(c *Config) { c.Sources.Recipes = nil }, "sources.recipes"},
		{"EmptyIndexDir", func(c *Config) { c.IndexDir = "" }, "index_dir"},
		{"NegativeSubstitution", func(c *Config) {
			v := -0.5
			c.Thresholds.SubstitutionFlavor = &v
		}, "thresholds.substitution_flavor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
