// Package config handles loading the taskmaster config.toml file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Accepted values for ui.theme
const (
	ThemeSystem = "system"
	ThemeDark   = "dark"
	ThemeLight  = "light"
)

// Config represents the config.toml file
type Config struct {
	Workspace Workspace `toml:"workspace"`
	Log       Log       `toml:"log"`
	UI        UI        `toml:"ui"`

	// Corrections lists the settings that were invalid and replaced by
	// their defaults.
	Corrections []string `toml:"-"`
}

// Workspace contains workspace-related configuration.
type Workspace struct {
	// Dir is the directory holding the workspace files.
	Dir string `toml:"dir"`
}

// Log contains logging configuration.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
}

// UI contains output styling configuration.
type UI struct {
	Theme string `toml:"theme"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Workspace: Workspace{Dir: defaultWorkspaceDir()},
		Log:       Log{Level: "info"},
		UI:        UI{Theme: ThemeSystem},
	}
}

func defaultWorkspaceDir() string {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskmaster")
}

// DefaultPath returns the location of the global config file
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskmaster", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields the defaults.
// Invalid values are replaced by their defaults and recorded in Corrections.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.check()
	return cfg, nil
}

func (c *Config) check() {
	def := Default()

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, ok := levels[c.Log.Level]; !ok {
		c.Corrections = append(c.Corrections, fmt.Sprintf("log.level %q replaced by %q", c.Log.Level, def.Log.Level))
		c.Log.Level = def.Log.Level
	}

	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	switch c.UI.Theme {
	case ThemeSystem, ThemeDark, ThemeLight:
	default:
		c.Corrections = append(c.Corrections, fmt.Sprintf("ui.theme %q replaced by %q", c.UI.Theme, def.UI.Theme))
		c.UI.Theme = def.UI.Theme
	}

	c.Workspace.Dir = strings.TrimSpace(c.Workspace.Dir)
	if c.Workspace.Dir == "" {
		c.Workspace.Dir = def.Workspace.Dir
	}
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured level as a slog.Level
func (c *Config) LogLevel() slog.Level {
	if level, ok := levels[c.Log.Level]; ok {
		return level
	}
	return slog.LevelInfo
}
