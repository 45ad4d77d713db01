package app

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/internal/keymap"
	"github.com/tabdeck/tabdeck/internal/messages"
	"github.com/tabdeck/tabdeck/internal/perf"
	"github.com/tabdeck/tabdeck/internal/ui/common"
	"github.com/tabdeck/tabdeck/internal/ui/compositor"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// Synchronized Output Mode 2026 sequences
// https://gist.github.com/christianparpart/d8a62cc1ab659194337d73e399004036
const (
	syncBegin = "\x1b[?2026h"
	syncEnd   = "\x1b[?2026l"
)

// View renders the panes and composes the overlay stack on top.
func (a *App) View() tea.View {
	defer perf.Time("view")()

	view := tea.View{
		AltScreen:            true,
		MouseMode:            tea.MouseModeAllMotion,
		BackgroundColor:      common.ColorBackground(),
		ForegroundColor:      common.ColorForeground(),
		WindowTitle:          "tabdeck",
		KeyboardEnhancements: tea.KeyboardEnhancements{ReportEventTypes: true},
	}
	if a.quitting {
		view.SetContent("")
		return a.finalizeView(view)
	}
	if a.width <= 0 || a.height <= 0 {
		view.SetContent("Loading...")
		return a.finalizeView(view)
	}

	canvas := a.canvasFor(a.width, a.height)

	base := a.layout.Render(a.renderGroupsPane(), a.renderPreviewPane(), a.renderStatus())
	base = a.zones.Scan(clampPane(base, a.width, a.height))
	canvas.Compose(a.baseCache.Drawable(base, 0, 0))

	if toast := a.toast.View(); toast != "" {
		w, _ := compositor.ViewDimensions(toast)
		x := max(0, a.width-w-1)
		y := max(0, a.layout.StatusRegion().Top-1)
		canvas.Compose(compositor.NewStringDrawable(toast, x, y))
	}

	a.stack.Sync(a.width, a.height)
	canvas.Compose(a.stack)

	view.SetContent(syncBegin + canvas.Render() + syncEnd)
	return a.finalizeView(view)
}

func (a *App) canvasFor(width, height int) *lipgloss.Canvas {
	if width <= 0 || height <= 0 {
		width = 1
		height = 1
	}
	if a.canvas == nil {
		a.canvas = lipgloss.NewCanvas(width, height)
	} else if a.canvas.Width() != width || a.canvas.Height() != height {
		a.canvas.Resize(width, height)
	}
	a.canvas.Clear()
	return a.canvas
}

func (a *App) finalizeView(view tea.View) tea.View {
	if a.pendingInputLatency {
		perf.Record("input_latency", time.Since(a.lastInputAt))
		a.pendingInputLatency = false
	}
	return view
}

// paneContent is the area inside a pane's border, below its title row.
func paneContent(r layout.Region) layout.Region {
	if r.Empty() {
		return layout.Region{}
	}
	return layout.Rect(r.Left+1, r.Top+2, max(0, r.Width-2), max(0, r.Height-3))
}

func (a *App) renderPane(title, body string, r layout.Region, focused bool) string {
	if r.Empty() {
		return ""
	}
	style := a.styles.Pane
	if focused {
		style = a.styles.FocusedPane
	}
	inner := max(0, r.Width-2)
	title = a.styles.PaneTitle.Render(ansi.Truncate(title, inner, "…"))
	return style.
		Width(r.Width).
		Height(r.Height).
		MaxHeight(r.Height).
		Render(title + "\n" + body)
}

func (a *App) renderGroupsPane() string {
	reg := a.groupList.Registry
	title := fmt.Sprintf("Tab groups %d/%d", len(reg.Selection()), reg.Len())
	var body string
	if reg.Len() == 0 {
		body = a.styles.Muted.Render(a.emptyListText())
	} else {
		body = a.groupList.View()
	}
	return a.renderPane(title, body, a.layout.ListRegion(), a.focusedPane == messages.PaneGroups)
}

func (a *App) emptyListText() string {
	if a.sourceLabel == "" {
		return "Looking for a session..."
	}
	return "No tab groups"
}

func (a *App) renderPreviewPane() string {
	r := a.layout.PreviewRegion()
	if r.Empty() {
		return ""
	}
	title := "Links"
	if a.text.Virtual() {
		title += " (large)"
	}
	var body string
	switch {
	case a.previewErr != nil:
		body = a.styles.Error.Render(ansi.Wordwrap(a.previewErr.Error(), max(1, r.Width-2), ""))
	case a.text.Text() == "":
		body = a.styles.Muted.Render("No links to show")
	default:
		window := a.text.Window(a.preview.Scroller.ScrollY(), a.preview.Region().Height)
		body = a.preview.View(window)
	}
	return a.renderPane(title, body, r, a.focusedPane == messages.PanePreview)
}

func (a *App) renderStatus() string {
	s := a.styles
	width := a.layout.StatusRegion().Width

	label := s.StatusValue.Render(fmt.Sprintf(" %s ▾ ", a.format()))
	if a.pressedZone == formatZone {
		label = s.StatusValue.Reverse(true).Render(fmt.Sprintf(" %s ▾ ", a.format()))
	}
	parts := []string{a.zones.Mark(formatZone, label)}
	if a.sourceLabel != "" {
		parts = append(parts, s.StatusBar.Render(a.sourceLabel))
	}
	line := strings.Join(parts, " ")

	if a.config.UI.ShowKeymapHints {
		km := a.keymap
		hints := []common.HelpItem{
			{Key: keymap.PrimaryKey(km.Format), Desc: "format"},
			{Key: keymap.PrimaryKey(km.Export), Desc: "export"},
			{Key: keymap.PrimaryKey(km.Copy), Desc: "copy"},
			{Key: keymap.PrimaryKey(km.Help), Desc: "help"},
			{Key: keymap.PrimaryKey(km.Quit), Desc: "quit"},
		}
		used := lipgloss.Width(line) + 2
		if rest := width - used; rest > 10 {
			line += "  " + common.RenderHelpBar(s, hints, rest)
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func clampPane(view string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(view)
}
