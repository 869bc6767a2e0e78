package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for gostache
type Config struct {
	Partials PartialsConfig `yaml:"partials"`
	Escaping EscapingConfig `yaml:"escaping"`
	Output   OutputConfig   `yaml:"output"`
	Dev      DevConfig      `yaml:"dev"`
}

// PartialsConfig controls how {{>name}} tags are resolved
type PartialsConfig struct {
	// Dir is the partial base path. Relative paths are resolved against the
	// directory holding the config file. Empty means the template's directory.
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
	MaxDepth  int    `yaml:"max_depth"`
}

// EscapingConfig controls escaping of substituted values
type EscapingConfig struct {
	HTML bool `yaml:"html"`
}

// OutputConfig controls post-processing of the rendered text
type OutputConfig struct {
	Markdown bool `yaml:"markdown"`
	Sanitize bool `yaml:"sanitize"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// LogLevel returns the minimum level logged: warnings by default, progress
// messages with Verbose and render tracing with Debug
func (d DevConfig) LogLevel() slog.Level {
	switch {
	case d.Debug:
		return slog.LevelDebug
	case d.Verbose:
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Partials: PartialsConfig{
			Extension: ".mustache",
			MaxDepth:  64,
		},
		Escaping: EscapingConfig{
			HTML: true,
		},
		Output: OutputConfig{
			Markdown: false,
			Sanitize: false,
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Partials.Dir != "" && !filepath.IsAbs(cfg.Partials.Dir) {
		cfg.Partials.Dir = filepath.Join(filepath.Dir(path), cfg.Partials.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Validate checks values that cannot be used as given
func (c *Config) Validate() error {
	if c.Partials.MaxDepth < 1 {
		return fmt.Errorf("partials.max_depth must be at least 1, got %d", c.Partials.MaxDepth)
	}
	if ext := c.Partials.Extension; ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("partials.extension must start with '.', got %q", ext)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".gostache.yml", ".gostache.yaml", "gostache.yml", "gostache.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfigs merges CLI overrides into a base config.
// Non-empty strings and true booleans from override take precedence.
func MergeConfigs(base, override *Config) *Config {
	merged := *base

	if override.Partials.Dir != "" {
		merged.Partials.Dir = override.Partials.Dir
	}
	if override.Partials.Extension != "" {
		merged.Partials.Extension = override.Partials.Extension
	}
	if override.Partials.MaxDepth > 0 {
		merged.Partials.MaxDepth = override.Partials.MaxDepth
	}

	// Flags can only switch features on; a false flag means "not given".
	merged.Output.Markdown = base.Output.Markdown || override.Output.Markdown
	merged.Output.Sanitize = base.Output.Sanitize || override.Output.Sanitize
	merged.Dev.Debug = base.Dev.Debug || override.Dev.Debug
	merged.Dev.Verbose = base.Dev.Verbose || override.Dev.Verbose

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath, cliPartialsDir string, cliMarkdown, cliSanitize, cliDebug, cliVerbose bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	override := &Config{}
	override.Partials.Dir = cliPartialsDir
	override.Output.Markdown = cliMarkdown
	override.Output.Sanitize = cliSanitize
	override.Dev.Debug = cliDebug
	override.Dev.Verbose = cliVerbose

	return MergeConfigs(cfg, override), nil
}
