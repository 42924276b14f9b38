// Package config loads EchoLearn settings from an optional YAML file and
// ECHOLEARN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/llm"
	"github.com/GopalOmotec/echolearn-updated/internal/questiongen"
	"github.com/GopalOmotec/echolearn-updated/internal/session"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "ECHOLEARN"

type Config struct {
	// DBPath overrides the default database location.
	DBPath string `mapstructure:"db_path"`

	Session  SessionConfig  `mapstructure:"session"`
	Generate GenerateConfig `mapstructure:"generate"`
	LLM      llm.Config     `mapstructure:"llm"`
}

type SessionConfig struct {
	StartDifficulty int `mapstructure:"start_difficulty"`
	SnapshotKeep    int `mapstructure:"snapshot_keep"`
}

type GenerateConfig struct {
	PerBand     int     `mapstructure:"per_band"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// DefaultPath is $XDG_CONFIG_HOME/echolearn/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "echolearn", "config.yaml"), nil
}

// Load reads path, or the default path when empty. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "")

	v.SetDefault("session.start_difficulty", adaptive.StartDifficulty)
	v.SetDefault("session.snapshot_keep", session.DefaultSnapshotKeep)

	gen := questiongen.DefaultConfig()
	v.SetDefault("generate.per_band", gen.PerBand)
	v.SetDefault("generate.max_tokens", gen.MaxTokens)
	v.SetDefault("generate.temperature", gen.Temperature)

	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.timeout", l.Timeout)
}

// Validate checks the settings every command relies on. LLM credentials
// are checked separately by LLMConfig since most commands never call a
// model.
func (c *Config) Validate() error {
	b := adaptive.DefaultBounds()
	if !b.Contains(c.Session.StartDifficulty) {
		return fmt.Errorf("session.start_difficulty must be within %d-%d, got %d",
			b.Min, b.Max, c.Session.StartDifficulty)
	}
	if c.Session.SnapshotKeep < 1 {
		return fmt.Errorf("session.snapshot_keep must be at least 1, got %d", c.Session.SnapshotKeep)
	}
	if c.Generate.PerBand < 1 {
		return fmt.Errorf("generate.per_band must be at least 1, got %d", c.Generate.PerBand)
	}
	return nil
}

// LLMConfig returns the validated LLM settings. When the selected provider
// has no key, the vendors' standard API key variables are tried.
func (c *Config) LLMConfig() (llm.Config, error) {
	cfg := c.LLM
	if !cfg.HasKey() {
		if found, ok := llm.DiscoverConfig(cfg); ok {
			cfg = found
		}
	}
	if err := cfg.Validate(); err != nil {
		return llm.Config{}, err
	}
	return cfg, nil
}

// GeneratorConfig builds the question generator settings.
func (c *Config) GeneratorConfig() questiongen.Config {
	gen := questiongen.DefaultConfig()
	gen.PerBand = c.Generate.PerBand
	gen.MaxTokens = c.Generate.MaxTokens
	gen.Temperature = c.Generate.Temperature
	return gen
}
