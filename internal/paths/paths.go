// Package paths resolves configuration and data directory locations for forge.
//
// Both directories follow the same precedence: an explicit flag, then an
// environment variable, then the platform default. The data directory may
// additionally come from the data_dir setting, which ranks after the flag.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "forge"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "FORGE_CONFIG_DIR"
	EnvDataDir   = "FORGE_DATA_DIR"
)

// File names inside the config directory.
const (
	ConfigFileName = "config.yaml"
	DotEnvFileName = ".env"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/forge (fallback ~/.config/forge)
// macOS:   ~/Library/Application Support/forge
// Windows: %APPDATA%/forge
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/forge (fallback ~/.local/share/forge)
// macOS:   ~/Library/Application Support/forge
// Windows: %APPDATA%/forge
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// xdgDir returns $env/forge, or ~/fallback/forge when env is unset.
func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > FORGE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > FORGE_DATA_DIR env > DefaultDataDir().
// internal/config already folds FORGE_DATA_DIR into the data_dir setting, so
// when called from the CLI the environment overrides config.yaml.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// DotEnvFile returns the path of the optional .env file inside configDir.
func DotEnvFile(configDir string) string {
	return filepath.Join(configDir, DotEnvFileName)
}
