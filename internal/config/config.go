// Package config loads the tool configuration from file and
// environment. A failure here is the one error the tool treats as
// fatal: everything downstream assumes a loaded configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete tool configuration. The structure matches the
// config.yaml file and can be overridden by CLAUSECHECK_* environment
// variables.
type Config struct {
	// RefData points at a reference-data YAML file; empty means the
	// embedded defaults.
	RefData string      `json:"refdata" mapstructure:"refdata"`
	Audit   AuditConfig `json:"audit" mapstructure:"audit"`
	LLM     LLMConfig   `json:"llm" mapstructure:"llm"`
	Output  string      `json:"output" mapstructure:"output"` // "json" or "markdown"
}

// AuditConfig controls the local analysis log.
type AuditConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LLMConfig selects the provider for the ask command.
type LLMConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"`
	Model       string  `json:"model" mapstructure:"model"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

// Load reads the configuration from config.yaml in the working
// directory or ~/.clausecheck, layered under environment variables. A
// missing config file is fine; a malformed one is not.
func Load() (*Config, error) {
	// .env first, for API keys during local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.clausecheck")
	v.SetEnvPrefix("CLAUSECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.RefData = resolvePath(cfg.RefData)
	cfg.Audit.Path = resolvePath(cfg.Audit.Path)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("OUTPUT", "markdown")

	v.SetDefault("AUDIT.ENABLED", false)
	v.SetDefault("AUDIT.PATH", "~/.clausecheck/audit.db")

	v.SetDefault("LLM.PROVIDER", "anthropic")
	v.SetDefault("LLM.MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("LLM.MAX_TOKENS", 1024)
	v.SetDefault("LLM.TEMPERATURE", 0.2)
}

// resolvePath resolves ~ to the home directory and cleans the path.
func resolvePath(p string) string {
	if p == "" {
		return p
	}
	if p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return filepath.Clean(p)
}
