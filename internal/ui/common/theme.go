package common

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// ThemeID identifies a color theme.
type ThemeID string

const (
	ThemeGruvbox      ThemeID = "gruvbox"
	ThemeGruvboxLight ThemeID = "gruvbox-light"
	ThemeTokyoNight   ThemeID = "tokyo-night"
	ThemeNord         ThemeID = "nord"
)

// ThemeColors defines all colors used by the application.
type ThemeColors struct {
	Background    color.Color
	Foreground    color.Color
	Muted         color.Color
	Border        color.Color
	BorderFocused color.Color

	Primary   color.Color
	Secondary color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Info      color.Color

	Surface1  color.Color
	Selection color.Color
}

// Theme represents a complete color theme.
type Theme struct {
	ID     ThemeID
	Name   string
	Colors ThemeColors
}

// AvailableThemes returns all predefined themes.
func AvailableThemes() []Theme {
	return []Theme{
		GruvboxTheme(),
		GruvboxLightTheme(),
		TokyoNightTheme(),
		NordTheme(),
	}
}

// GetTheme returns a theme by ID, defaulting to Gruvbox.
func GetTheme(id ThemeID) Theme {
	for _, t := range AvailableThemes() {
		if t.ID == id {
			return t
		}
	}
	return GruvboxTheme()
}

// GruvboxTheme - warm, retro tones with orange accent
func GruvboxTheme() Theme {
	return Theme{
		ID:   ThemeGruvbox,
		Name: "Gruvbox",
		Colors: ThemeColors{
			Background:    lipgloss.Color("#282828"),
			Foreground:    lipgloss.Color("#ebdbb2"),
			Muted:         lipgloss.Color("#928374"),
			Border:        lipgloss.Color("#3c3836"),
			BorderFocused: lipgloss.Color("#fe8019"),

			Primary:   lipgloss.Color("#fe8019"),
			Secondary: lipgloss.Color("#d3869b"),
			Success:   lipgloss.Color("#b8bb26"),
			Warning:   lipgloss.Color("#fabd2f"),
			Error:     lipgloss.Color("#fb4934"),
			Info:      lipgloss.Color("#83a598"),

			Surface1:  lipgloss.Color("#3c3836"),
			Selection: lipgloss.Color("#504945"),
		},
	}
}

// GruvboxLightTheme - light variant
func GruvboxLightTheme() Theme {
	return Theme{
		ID:   ThemeGruvboxLight,
		Name: "Gruvbox Light",
		Colors: ThemeColors{
			Background:    lipgloss.Color("#fbf1c7"),
			Foreground:    lipgloss.Color("#3c3836"),
			Muted:         lipgloss.Color("#928374"),
			Border:        lipgloss.Color("#d5c4a1"),
			BorderFocused: lipgloss.Color("#af3a03"),

			Primary:   lipgloss.Color("#af3a03"),
			Secondary: lipgloss.Color("#8f3f71"),
			Success:   lipgloss.Color("#79740e"),
			Warning:   lipgloss.Color("#b57614"),
			Error:     lipgloss.Color("#9d0006"),
			Info:      lipgloss.Color("#076678"),

			Surface1:  lipgloss.Color("#ebdbb2"),
			Selection: lipgloss.Color("#d5c4a1"),
		},
	}
}

// TokyoNightTheme - cool blue tones
func TokyoNightTheme() Theme {
	return Theme{
		ID:   ThemeTokyoNight,
		Name: "Tokyo Night",
		Colors: ThemeColors{
			Background:    lipgloss.Color("#1a1b26"),
			Foreground:    lipgloss.Color("#a9b1d6"),
			Muted:         lipgloss.Color("#565f89"),
			Border:        lipgloss.Color("#292e42"),
			BorderFocused: lipgloss.Color("#7aa2f7"),

			Primary:   lipgloss.Color("#7aa2f7"),
			Secondary: lipgloss.Color("#bb9af7"),
			Success:   lipgloss.Color("#9ece6a"),
			Warning:   lipgloss.Color("#e0af68"),
			Error:     lipgloss.Color("#f7768e"),
			Info:      lipgloss.Color("#7dcfff"),

			Surface1:  lipgloss.Color("#1f2335"),
			Selection: lipgloss.Color("#33467c"),
		},
	}
}

// NordTheme - arctic blues
func NordTheme() Theme {
	return Theme{
		ID:   ThemeNord,
		Name: "Nord",
		Colors: ThemeColors{
			Background:    lipgloss.Color("#2e3440"),
			Foreground:    lipgloss.Color("#d8dee9"),
			Muted:         lipgloss.Color("#616e88"),
			Border:        lipgloss.Color("#3b4252"),
			BorderFocused: lipgloss.Color("#88c0d0"),

			Primary:   lipgloss.Color("#88c0d0"),
			Secondary: lipgloss.Color("#b48ead"),
			Success:   lipgloss.Color("#a3be8c"),
			Warning:   lipgloss.Color("#ebcb8b"),
			Error:     lipgloss.Color("#bf616a"),
			Info:      lipgloss.Color("#81a1c1"),

			Surface1:  lipgloss.Color("#3b4252"),
			Selection: lipgloss.Color("#434c5e"),
		},
	}
}

var (
	themeMu      sync.RWMutex
	currentTheme = GruvboxTheme()
)

// SetCurrentTheme switches the palette used by the color accessors.
func SetCurrentTheme(id ThemeID) {
	themeMu.Lock()
	currentTheme = GetTheme(id)
	themeMu.Unlock()
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

func ColorBackground() color.Color    { return CurrentTheme().Colors.Background }
func ColorForeground() color.Color    { return CurrentTheme().Colors.Foreground }
func ColorMuted() color.Color         { return CurrentTheme().Colors.Muted }
func ColorBorder() color.Color        { return CurrentTheme().Colors.Border }
func ColorBorderFocused() color.Color { return CurrentTheme().Colors.BorderFocused }
func ColorPrimary() color.Color       { return CurrentTheme().Colors.Primary }
func ColorSecondary() color.Color     { return CurrentTheme().Colors.Secondary }
func ColorSuccess() color.Color       { return CurrentTheme().Colors.Success }
func ColorWarning() color.Color       { return CurrentTheme().Colors.Warning }
func ColorError() color.Color         { return CurrentTheme().Colors.Error }
func ColorInfo() color.Color          { return CurrentTheme().Colors.Info }
func ColorSurface1() color.Color      { return CurrentTheme().Colors.Surface1 }
func ColorSelection() color.Color     { return CurrentTheme().Colors.Selection }
