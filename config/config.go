// Package config loads runtime configuration with viper: an optional TOML or
// YAML file, GSA_-prefixed environment variables and built-in defaults, in
// increasing order of precedence from defaults to env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/meghna-1234/game-strategy-ai/logging"
)

const (
	EnvPrefix  = "GSA"
	configDir  = ".game-strategy-ai"
	configName = "config"
)

// Memory backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Generation providers selectable for the advisor tiers.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

// Config is the full runtime configuration.
type Config struct {
	Session SessionConfig `mapstructure:"session"`
	Memory  MemoryConfig  `mapstructure:"memory"`
	Log     LogConfig     `mapstructure:"log"`
	Advisor AdvisorConfig `mapstructure:"advisor"`
}

type SessionConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type MemoryConfig struct {
	Backend string `mapstructure:"backend"`
	// Path of the snapshot; empty selects a per-backend default under the
	// user's home directory.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProviderConfig holds the credentials and model of one provider.
type ProviderConfig struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type AdvisorConfig struct {
	Primary   string        `mapstructure:"primary"`
	Secondary string        `mapstructure:"secondary"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	TipsPath  string        `mapstructure:"tips_path"`
	// MaxModelCalls caps model calls per process across all tiers; 0 is unlimited.
	MaxModelCalls int `mapstructure:"max_model_calls"`

	Gemini     ProviderConfig `mapstructure:"gemini"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

// Provider returns the settings for a provider name.
func (a AdvisorConfig) Provider(name string) (ProviderConfig, bool) {
	switch name {
	case ProviderGemini:
		return a.Gemini, true
	case ProviderAnthropic:
		return a.Anthropic, true
	case ProviderOpenAI:
		return a.OpenAI, true
	case ProviderOpenRouter:
		return a.OpenRouter, true
	default:
		return ProviderConfig{}, false
	}
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for env overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("session.timeout", 2*time.Hour)
	v.SetDefault("session.sweep_interval", 10*time.Minute)

	v.SetDefault("memory.backend", BackendFile)
	v.SetDefault("memory.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("advisor.primary", ProviderGemini)
	v.SetDefault("advisor.secondary", ProviderOpenRouter)
	v.SetDefault("advisor.timeout", 20*time.Second)
	v.SetDefault("advisor.cache_size", 128)
	v.SetDefault("advisor.cache_ttl", 30*time.Minute)
	v.SetDefault("advisor.tips_path", "")
	v.SetDefault("advisor.max_model_calls", 0)

	v.SetDefault("advisor.gemini.model", "gemini-2.0-flash")
	v.SetDefault("advisor.anthropic.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("advisor.openai.model", "gpt-4o-mini")
	v.SetDefault("advisor.openrouter.model", "google/gemma-7b-it:free")
	v.SetDefault("advisor.openrouter.base_url", "https://openrouter.ai/api/v1")
	for _, p := range []string{ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter} {
		v.SetDefault("advisor."+p+".api_key", "")
		if p != ProviderOpenRouter {
			v.SetDefault("advisor."+p+".base_url", "")
		}
	}
}

// vendorKeyEnv lists the conventional API key variables honored in addition
// to the GSA_ ones.
var vendorKeyEnv = map[string]string{
	ProviderGemini:     "GEMINI_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
}

// Load reads configuration into v. An explicit path must exist; otherwise
// $HOME/.game-strategy-ai/config.{toml,yaml} is read when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for provider, env := range vendorKeyEnv {
		key := "advisor." + provider + ".api_key"
		gsaEnv := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, gsaEnv, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDir))
		}
		v.SetConfigName(configName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() error {
	c.Memory.Backend = strings.ToLower(strings.TrimSpace(c.Memory.Backend))
	if c.Memory.Path == "" {
		name := "memory.toml"
		if c.Memory.Backend == BackendSQLite {
			name = "memory.db"
		}
		c.Memory.Path = filepath.Join("~", configDir, name)
	}
	var err error
	if c.Memory.Path, err = expandHome(c.Memory.Path); err != nil {
		return err
	}
	if c.Advisor.TipsPath, err = expandHome(c.Advisor.TipsPath); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Validate rejects non-positive durations, unknown backends and providers.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("session.timeout must be positive, got %s", c.Session.Timeout))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("session.sweep_interval must be positive, got %s", c.Session.SweepInterval))
	}
	switch c.Memory.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("memory.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Memory.Backend))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	for key, name := range map[string]string{"advisor.primary": c.Advisor.Primary, "advisor.secondary": c.Advisor.Secondary} {
		if _, ok := c.Advisor.Provider(name); !ok && name != ProviderNone {
			errs = append(errs, fmt.Errorf("%s: unknown provider %q", key, name))
		}
	}
	if c.Advisor.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("advisor.timeout must be positive, got %s", c.Advisor.Timeout))
	}
	if c.Advisor.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("advisor.cache_ttl must be positive, got %s", c.Advisor.CacheTTL))
	}
	if c.Advisor.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("advisor.cache_size must not be negative, got %d", c.Advisor.CacheSize))
	}
	if c.Advisor.MaxModelCalls < 0 {
		errs = append(errs, fmt.Errorf("advisor.max_model_calls must not be negative, got %d", c.Advisor.MaxModelCalls))
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
