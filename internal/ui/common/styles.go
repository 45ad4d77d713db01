// Package common holds the styles and the small shared widgets of the UI:
// confirm dialog, help overlay and toasts.
package common

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tabdeck/tabdeck/internal/ui/list"
)

// Styles contains all the application styles
type Styles struct {
	// Layout
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	PaneTitle   lipgloss.Style

	// Text hierarchy
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Group list
	ListRow      lipgloss.Style
	ListActive   lipgloss.Style
	ListSelected lipgloss.Style
	ListMarker   lipgloss.Style

	// Status line
	StatusBar   lipgloss.Style
	StatusValue lipgloss.Style

	// Help bar
	Help          lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Dialogs
	DialogBox     lipgloss.Style
	DialogTitle   lipgloss.Style
	DialogMessage lipgloss.Style
	DialogOption  lipgloss.Style
	DialogActive  lipgloss.Style

	// Feedback
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Toast notifications
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastWarning lipgloss.Style
}

// DefaultStyles returns the styles for the current theme.
func DefaultStyles() Styles {
	return Styles{
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder()),
		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderFocused()),
		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary()),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary()),
		Body: lipgloss.NewStyle().
			Foreground(ColorForeground()),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted()),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground()),

		ListRow: lipgloss.NewStyle().
			Foreground(ColorForeground()),
		ListActive: lipgloss.NewStyle().
			Foreground(ColorForeground()).
			Background(ColorSelection()),
		ListSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary()),
		ListMarker: lipgloss.NewStyle().
			Foreground(ColorMuted()),

		StatusBar: lipgloss.NewStyle().
			Foreground(ColorMuted()),
		StatusValue: lipgloss.NewStyle().
			Foreground(ColorSecondary()),

		Help: lipgloss.NewStyle().
			Foreground(ColorMuted()),
		HelpKey: lipgloss.NewStyle().
			Foreground(ColorPrimary()).
			Bold(true),
		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorMuted()),
		HelpSeparator: lipgloss.NewStyle().
			Foreground(ColorBorder()),

		DialogBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary()).
			Padding(1, 2),
		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary()),
		DialogMessage: lipgloss.NewStyle().
			Foreground(ColorForeground()),
		DialogOption: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorForeground()).
			Background(ColorSurface1()),
		DialogActive: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(ColorBackground()).
			Background(ColorPrimary()),

		Error: lipgloss.NewStyle().
			Foreground(ColorError()),
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess()),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning()),
		Info: lipgloss.NewStyle().
			Foreground(ColorInfo()),

		ToastSuccess: lipgloss.NewStyle().
			Padding(0, 1).
			Background(ColorSuccess()).
			Foreground(ColorBackground()),
		ToastError: lipgloss.NewStyle().
			Padding(0, 1).
			Background(ColorError()).
			Foreground(ColorBackground()),
		ToastInfo: lipgloss.NewStyle().
			Padding(0, 1).
			Background(ColorInfo()).
			Foreground(ColorBackground()),
		ToastWarning: lipgloss.NewStyle().
			Padding(0, 1).
			Background(ColorWarning()).
			Foreground(ColorBackground()),
	}
}

// ListStyles adapts the styles for a list.Model.
func (s Styles) ListStyles() list.Styles {
	return list.Styles{
		Row:      s.ListRow,
		Active:   s.ListActive,
		Selected: s.ListSelected,
		Marker:   s.ListMarker,
	}
}

// HelpItem is one key hint in the help bar.
type HelpItem struct {
	Key  string
	Desc string
}

// RenderHelpBar renders key hints separated by dots, truncated to width.
func RenderHelpBar(s Styles, items []HelpItem, width int) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, s.HelpKey.Render(item.Key)+" "+s.HelpDesc.Render(item.Desc))
	}
	joined := strings.Join(parts, s.HelpSeparator.Render(" • "))
	return s.Help.MaxWidth(width).Render(joined)
}
