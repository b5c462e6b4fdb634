package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmdkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "> ", cfg.Prompt)
	require.False(t, cfg.NoColor)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "prompt = \"$ \"\nno_color = true\n")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "$ ", cfg.Prompt)
	require.True(t, cfg.NoColor)
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, "no_color = true\n")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "> ", cfg.Prompt, "unset keys keep their defaults")
	require.True(t, cfg.NoColor)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, "promt = \"$ \"\n")

	_, err := loadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown keys")
}
