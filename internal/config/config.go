package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// ExporterConfig describes the external session exporter.
type ExporterConfig struct {
	// Command is the exporter binary, looked up on PATH.
	Command string `json:"command,omitempty"`
	// Prefix wraps the exporter, e.g. a sandboxed runtime and its flags.
	Prefix []string `json:"prefix,omitempty"`
	// ConfirmExec asks before handing the terminal to the exporter.
	ConfirmExec bool `json:"confirm_exec"`
	// UsePTY runs captured commands on a pseudo terminal.
	UsePTY bool `json:"use_pty"`
	// TimeoutSeconds bounds captured runs. Zero means no limit.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// Config holds the application configuration
type Config struct {
	Paths    *Paths
	Exporter ExporterConfig
	// Profile is a Firefox profile name or directory. Empty picks the
	// only profile, or asks when there are several.
	Profile string
	// SessionFile overrides the session file found in the profile.
	SessionFile string
	LogLevel    string
	KeyMap      KeyMapConfig
	UI          UISettings
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return defaultConfigAt(paths), nil
}

func defaultConfigAt(paths *Paths) *Config {
	return &Config{
		Paths: paths,
		Exporter: ExporterConfig{
			Command:     "firefox-session-data",
			ConfirmExec: true,
		},
		LogLevel: "info",
		UI:       defaultUISettings(),
	}
}

type fileConfig struct {
	Exporter    *ExporterConfig `json:"exporter,omitempty"`
	Profile     *string         `json:"profile,omitempty"`
	SessionFile *string         `json:"session_file,omitempty"`
	LogLevel    *string         `json:"log_level,omitempty"`
	KeyMap      KeyMapConfig    `json:"keymap,omitempty"`
}

// Load loads config overrides from ~/.tabdeck/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths)
}

// LoadFile loads overrides from an explicit config file.
func LoadFile(path string) (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	paths.ConfigPath = path
	return LoadFrom(paths)
}

// LoadFrom loads overrides from paths.ConfigPath on top of the defaults. A
// missing file is not an error.
func LoadFrom(paths *Paths) (*Config, error) {
	cfg := defaultConfigAt(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var user fileConfig
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}

	if user.Exporter != nil {
		e := *user.Exporter
		if e.Command == "" {
			e.Command = cfg.Exporter.Command
		}
		cfg.Exporter = e
	}
	if user.Profile != nil {
		cfg.Profile = *user.Profile
	}
	if user.SessionFile != nil {
		cfg.SessionFile = *user.SessionFile
	}
	if user.LogLevel != nil {
		cfg.LogLevel = *user.LogLevel
	}
	if len(user.KeyMap.Bindings) > 0 {
		cfg.KeyMap = user.KeyMap
	}
	cfg.UI = parseUISettings(data)
	return cfg, nil
}
