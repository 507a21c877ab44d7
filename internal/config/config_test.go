package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
token: glpat-abc
instance_url: https://gitlab.example.com
refresh_interval: 10
max_tracked_mrs: 3
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "glpat-abc", cfg.Token)
		assert.Equal(t, "https://gitlab.example.com", cfg.InstanceURL)
		assert.Equal(t, 10, cfg.RefreshInterval)
		assert.Equal(t, 3, cfg.MaxTrackedMRs)
		// untouched keys keep their defaults
		assert.True(t, cfg.FocusBranch)
		assert.Equal(t, 3, cfg.MsgTimeout)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeConfig(t, "token: [unclosed")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Token = "glpat-abc"
		return cfg
	}

	t.Run("accepts complete config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects missing token", func(t *testing.T) {
		cfg := valid()
		cfg.Token = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive refresh interval", func(t *testing.T) {
		cfg := valid()
		cfg.RefreshInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive MR cap", func(t *testing.T) {
		cfg := valid()
		cfg.MaxTrackedMRs = 0
		assert.Error(t, cfg.Validate())
	})
}
