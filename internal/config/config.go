// Package config loads forge settings from config.yaml, the environment and
// an optional .env file in the config directory.
//
// Precedence, highest first: FORGE_* environment variables (including those
// set by .env), config.yaml, built-in defaults. Command-line flags are applied
// on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/forge/internal/paths"
	"github.com/mesh-intelligence/forge/internal/suggest"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// EnvPrefix prefixes every environment override, e.g. FORGE_BACKEND or
// FORGE_SUGGEST_MODEL.
const EnvPrefix = "FORGE"

// Setting keys.
const (
	KeyBackend       = "backend"
	KeyDataDir       = "data_dir"
	KeyDSN           = "dsn"
	KeyLogLevel      = "log_level"
	KeySuggestModel  = "suggest.model"
	KeySuggestAPIKey = "suggest.api_key"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = types.BackendSQLite

// Settings is the resolved configuration.
type Settings struct {
	Backend  string          `mapstructure:"backend" yaml:"backend"`
	DataDir  string          `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	DSN      string          `mapstructure:"dsn" yaml:"dsn,omitempty"`
	LogLevel string          `mapstructure:"log_level" yaml:"log_level,omitempty"`
	Suggest  SuggestSettings `mapstructure:"suggest" yaml:"suggest"`
}

// SuggestSettings configures the metadata suggestion service.
type SuggestSettings struct {
	Model string `mapstructure:"model" yaml:"model"`
	// APIKey is used only when no key has been stored with 'forge config set-key'.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Backend:  DefaultBackend,
		LogLevel: "warn",
		Suggest:  SuggestSettings{Model: suggest.DefaultModel},
	}
}

// StoreConfig returns the key-value store configuration for dataDir.
func (s Settings) StoreConfig(dataDir string) types.Config {
	return types.Config{Backend: s.Backend, DataDir: dataDir, DSN: s.DSN}
}

// Load reads settings for configDir. A missing config.yaml or .env is not an
// error; a malformed one is.
func Load(configDir string) (Settings, error) {
	if err := loadDotEnv(paths.DotEnvFile(configDir)); err != nil {
		return Settings{}, err
	}

	d := Defaults()
	v := viper.New()
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyDSN, "")
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeySuggestModel, d.Suggest.Model)
	v.SetDefault(KeySuggestAPIKey, "")

	v.SetConfigFile(paths.ConfigFile(configDir))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// loadDotEnv exports the variables in path without overriding ones already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// WriteDefault creates config.yaml in configDir from s unless one already
// exists. It reports whether a file was written.
func WriteDefault(configDir string, s Settings) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := "# forge configuration\n# Environment variables FORGE_<KEY> override these values.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
