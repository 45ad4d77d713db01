package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// UISettings stores user-facing display preferences.
type UISettings struct {
	ShowKeymapHints bool
	Theme           string // Theme ID, defaults to "gruvbox"
	// Scrollbar is one of "auto", "always", "never".
	Scrollbar string
	WheelStep int

	// Preview virtualization
	VirtualizeThreshold int
	ChunkRows           int
	ChunkMargin         int
}

func defaultUISettings() UISettings {
	return UISettings{
		ShowKeymapHints:     true,
		Theme:               "gruvbox",
		Scrollbar:           "auto",
		WheelStep:           3,
		VirtualizeThreshold: 50_000,
		ChunkRows:           100,
		ChunkMargin:         5,
	}
}

type rawUISettings struct {
	ShowKeymapHints     *bool   `json:"show_keymap_hints"`
	Theme               *string `json:"theme"`
	Scrollbar           *string `json:"scrollbar"`
	WheelStep           *int    `json:"wheel_step"`
	VirtualizeThreshold *int    `json:"virtualize_threshold"`
	ChunkRows           *int    `json:"chunk_rows"`
	ChunkMargin         *int    `json:"chunk_margin"`
}

// parseUISettings reads the "ui" object. Missing or invalid values keep
// their defaults.
func parseUISettings(data []byte) UISettings {
	settings := defaultUISettings()
	var raw struct {
		UI rawUISettings `json:"ui"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return settings
	}
	ui := raw.UI
	if ui.ShowKeymapHints != nil {
		settings.ShowKeymapHints = *ui.ShowKeymapHints
	}
	if ui.Theme != nil && *ui.Theme != "" {
		settings.Theme = *ui.Theme
	}
	if ui.Scrollbar != nil {
		switch *ui.Scrollbar {
		case "auto", "always", "never":
			settings.Scrollbar = *ui.Scrollbar
		}
	}
	positive := func(dst *int, v *int) {
		if v != nil && *v > 0 {
			*dst = *v
		}
	}
	positive(&settings.WheelStep, ui.WheelStep)
	positive(&settings.VirtualizeThreshold, ui.VirtualizeThreshold)
	positive(&settings.ChunkRows, ui.ChunkRows)
	positive(&settings.ChunkMargin, ui.ChunkMargin)
	return settings
}

func saveUISettings(path string, settings UISettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	payload := map[string]any{}
	if existing, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(existing, &payload)
	}

	ui, ok := payload["ui"].(map[string]any)
	if !ok || ui == nil {
		ui = map[string]any{}
	}
	ui["show_keymap_hints"] = settings.ShowKeymapHints
	ui["theme"] = settings.Theme
	ui["scrollbar"] = settings.Scrollbar
	ui["wheel_step"] = settings.WheelStep
	ui["virtualize_threshold"] = settings.VirtualizeThreshold
	ui["chunk_rows"] = settings.ChunkRows
	ui["chunk_margin"] = settings.ChunkMargin
	payload["ui"] = ui

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveUISettings persists UI settings to the config file.
func (c *Config) SaveUISettings() error {
	if c == nil || c.Paths == nil {
		return nil
	}
	return saveUISettings(c.Paths.ConfigPath, c.UI)
}
