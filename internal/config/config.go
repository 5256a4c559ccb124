package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/settle/internal/model"
)

// FileName is the config file looked up in the working directory.
const FileName = "settle.yaml"

// EnvPrefix prefixes environment overrides, e.g. SETTLE_LOG_LEVEL.
const EnvPrefix = "settle"

// Config represents the top-level settle.yaml configuration.
type Config struct {
	Importer        ImporterConfig    `yaml:"importer"`
	CurrencyAliases map[string]string `yaml:"currency_aliases,omitempty" envconfig:"currency_aliases"`
	Log             LogConfig         `yaml:"log"`
}

// ImporterConfig selects how snapshot files are read.
type ImporterConfig struct {
	Format   string `yaml:"format"`
	Encoding string `yaml:"encoding"` // auto, utf-8 or windows-1251
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a settle.yaml file from disk and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional is Load that falls back to Default when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Importer: ImporterConfig{
			Format:   "alfabank",
			Encoding: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Aliases returns the built-in currency aliases with the configured ones
// layered on top.
func (c *Config) Aliases() model.CurrencyAliases {
	return model.DefaultCurrencyAliases().Merge(c.CurrencyAliases)
}

func (c *Config) applyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}
