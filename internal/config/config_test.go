package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".gostache.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Empty(t, cfg.Partials.Dir)
	assert.Equal(t, ".mustache", cfg.Partials.Extension)
	assert.Equal(t, 64, cfg.Partials.MaxDepth)
	assert.True(t, cfg.Escaping.HTML)
	assert.False(t, cfg.Output.Markdown)
	assert.False(t, cfg.Output.Sanitize)
	assert.False(t, cfg.Dev.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
partials:
  dir: "templates/partials"
  extension: ".tmpl"
  max_depth: 8
escaping:
  html: false
output:
  markdown: true
  sanitize: true
dev:
  debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "templates", "partials"), cfg.Partials.Dir)
	assert.Equal(t, ".tmpl", cfg.Partials.Extension)
	assert.Equal(t, 8, cfg.Partials.MaxDepth)
	assert.False(t, cfg.Escaping.HTML)
	assert.True(t, cfg.Output.Markdown)
	assert.True(t, cfg.Output.Sanitize)
	assert.True(t, cfg.Dev.Debug)
}

func TestConfig_LoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "output:\n  markdown: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Output.Markdown)
	assert.True(t, cfg.Escaping.HTML)
	assert.Equal(t, ".mustache", cfg.Partials.Extension)
	assert.Equal(t, 64, cfg.Partials.MaxDepth)
}

func TestConfig_AbsolutePartialsDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "shared")
	path := writeConfig(t, t.TempDir(), "partials:\n  dir: "+abs+"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Partials.Dir)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
partials:
  dir: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero depth", func(c *Config) { c.Partials.MaxDepth = 0 }, "max_depth"},
		{"extension without dot", func(c *Config) { c.Partials.Extension = "mustache" }, "extension"},
		{"empty extension", func(c *Config) { c.Partials.Extension = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_LoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "partials:\n  max_depth: -1\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".gostache.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("dev:\n  verbose: true\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	require.NoError(t, os.Chdir(nestedDir))

	// Should find it in the parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "verbose: true")
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	require.NoError(t, os.Chdir(tmpDir))

	assert.Empty(t, FindConfigFile())
}

func TestConfig_MergeWithCLI(t *testing.T) {
	base := NewConfig()
	base.Partials.Dir = "/srv/partials"
	base.Output.Sanitize = true

	override := &Config{}
	override.Partials.Dir = "/tmp/other"
	override.Output.Markdown = true

	merged := MergeConfigs(base, override)

	assert.Equal(t, "/tmp/other", merged.Partials.Dir)
	assert.Equal(t, ".mustache", merged.Partials.Extension) // kept from base
	assert.Equal(t, 64, merged.Partials.MaxDepth)           // kept from base
	assert.True(t, merged.Output.Markdown)                  // switched on by CLI
	assert.True(t, merged.Output.Sanitize)                  // kept from base
	assert.Equal(t, "/srv/partials", base.Partials.Dir, "base must not be modified")
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
partials:
  dir: /from/file
  extension: ".html"
output:
  sanitize: true
dev:
  verbose: true
`)

	cfg, err := LoadConfigWithCLI(path, "/from/cli", true, false, true, false)
	require.NoError(t, err)

	// CLI > config file > defaults
	assert.Equal(t, "/from/cli", cfg.Partials.Dir)
	assert.Equal(t, ".html", cfg.Partials.Extension)
	assert.True(t, cfg.Output.Markdown)
	assert.True(t, cfg.Output.Sanitize)
	assert.True(t, cfg.Dev.Debug)
	assert.True(t, cfg.Dev.Verbose)
	assert.True(t, cfg.Escaping.HTML)
}

func TestLoadConfigWithPrecedence_NoConfigFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", "", false, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestDevConfig_LogLevel(t *testing.T) {
	tests := []struct {
		name     string
		dev      DevConfig
		expected slog.Level
	}{
		{"default", DevConfig{}, slog.LevelWarn},
		{"verbose", DevConfig{Verbose: true}, slog.LevelInfo},
		{"debug", DevConfig{Debug: true}, slog.LevelDebug},
		{"debug wins over verbose", DevConfig{Debug: true, Verbose: true}, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dev.LogLevel())
		})
	}
}

func TestLoadConfigWithCLI_Verbose(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", "", false, false, false, true)
	require.NoError(t, err)
	assert.True(t, cfg.Dev.Verbose)
	assert.Equal(t, slog.LevelInfo, cfg.Dev.LogLevel())
}
