package app

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/tabdeck/tabdeck/internal/messages"
	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/common"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// handleKey gives an open overlay the key first; the panes only see keys
// when the base UI is on top.
func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if handled, cmd := a.stack.Route(msg); handled {
		return cmd
	}

	km := a.keymap
	switch {
	case key.Matches(msg, km.Quit):
		a.quitDialog.Show(a.width, a.height)
		return nil
	case key.Matches(msg, km.Help):
		a.help.Show(a.width, a.height)
		return nil
	case key.Matches(msg, km.FocusNext), key.Matches(msg, km.FocusPrev):
		a.toggleFocus()
		return nil
	case key.Matches(msg, km.Format):
		return a.openFormatMenu()
	case key.Matches(msg, km.Export):
		return a.startExport()
	case key.Matches(msg, km.Copy):
		return a.copySelection()
	case key.Matches(msg, km.Reload):
		if a.sourceLabel == "" {
			return a.resolveSource()
		}
		return a.loadGroups()
	case key.Matches(msg, km.SelectAll):
		items := a.groupList.Registry.Items()
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		a.groupList.Registry.SetSelection(ids)
		return nil
	case key.Matches(msg, km.Clear):
		a.groupList.Registry.SetSelection(nil)
		return nil
	case key.Matches(msg, km.Theme):
		return a.cycleTheme()
	case key.Matches(msg, km.Top):
		a.jump(false)
		return nil
	case key.Matches(msg, km.Bottom):
		a.jump(true)
		return nil
	}

	if a.focusedPane == messages.PanePreview {
		a.preview.Update(msg)
		return nil
	}
	a.groupList.Update(msg)
	return nil
}

func (a *App) toggleFocus() {
	if a.focusedPane == messages.PaneGroups {
		a.setFocus(messages.PanePreview)
	} else {
		a.setFocus(messages.PaneGroups)
	}
}

func (a *App) jump(bottom bool) {
	if a.focusedPane == messages.PanePreview {
		if bottom {
			a.preview.Scroller.ScrollToBottom()
		} else {
			a.preview.Scroller.SetScroll(0)
		}
		return
	}
	items := a.groupList.Registry.Items()
	if len(items) == 0 {
		return
	}
	target := items[0].ID
	if bottom {
		target = items[len(items)-1].ID
	}
	a.groupList.Registry.SetActive(target)
	a.groupList.EnsureActiveVisible()
}

func (a *App) openFormatMenu() tea.Cmd {
	anchor := a.formatAnchor()
	return a.formatMenu.Open(anchor, a.width, a.height)
}

// formatAnchor is the format label in the status line, falling back to the
// start of the line before the first render.
func (a *App) formatAnchor() layout.Region {
	if r := a.zones.Region(formatZone); r != nil {
		return *r
	}
	s := a.layout.StatusRegion()
	return layout.Rect(s.Left, s.Top, min(s.Width, 24), 1)
}

func (a *App) cycleTheme() tea.Cmd {
	themes := common.AvailableThemes()
	current := common.CurrentTheme().ID
	next := themes[0]
	for i, t := range themes {
		if t.ID == current {
			next = themes[(i+1)%len(themes)]
			break
		}
	}
	common.SetCurrentTheme(next.ID)
	a.applyStyles()
	a.config.UI.Theme = string(next.ID)
	cfg := a.config
	return tea.Batch(a.toast.ShowInfo("Theme: "+next.Name), func() tea.Msg {
		if err := cfg.SaveUISettings(); err != nil {
			return messages.Error{Err: err, Context: "save settings"}
		}
		return nil
	})
}

// copySelection copies the preview text, or the selected group names when
// the list has focus.
func (a *App) copySelection() tea.Cmd {
	if a.focusedPane == messages.PanePreview {
		return a.copyToClipboard("preview", a.text.Text())
	}
	reg := a.groupList.Registry
	var names []string
	for _, id := range reg.Selection() {
		if name, ok := reg.GetName(id); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return a.copyToClipboard("links", a.text.Text())
	}
	return a.copyToClipboard("group names", strings.Join(names, "\n"))
}

// handleMouse routes pointer input: overlays first, then the bus, then the
// pane under the pointer.
func (a *App) handleMouse(msg mouse.Msg) tea.Cmd {
	if handled, cmd := a.stack.Route(msg); handled {
		return cmd
	}
	busCmd := a.bus.Publish(msg.Event)

	pos := msg.Event.Pos()
	x, y := pos.X-1, pos.Y-1
	if c, ok := msg.Event.(mouse.Click); ok && c.State == mouse.StatePressed {
		if _, hit := a.zones.Hit(x, y, formatZone); hit && c.Button == mouse.ButtonLeft {
			return tea.Batch(busCmd, a.openFormatMenu())
		}
		switch {
		case a.layout.ListRegion().Contains(x, y):
			a.setFocus(messages.PaneGroups)
		case a.layout.PreviewRegion().Contains(x, y):
			a.setFocus(messages.PanePreview)
		}
	}

	// A drag that started on a scrollbar belongs to its viewport wherever
	// the pointer goes.
	switch {
	case a.preview.Bar.Dragging():
		a.preview.Update(msg)
	case a.groupList.Viewport.Bar.Dragging():
		a.groupList.Update(msg)
	case a.layout.PreviewRegion().Contains(x, y):
		a.preview.Update(msg)
	default:
		a.groupList.Update(msg)
	}
	a.baseCache.Invalidate()
	return busCmd
}

// onPointer highlights a pressed status label until the bus follows the
// click with a Null event.
func (a *App) onPointer(ev mouse.Event) tea.Cmd {
	switch ev := ev.(type) {
	case mouse.Click:
		if ev.State != mouse.StatePressed {
			return nil
		}
		if id, ok := a.zones.Hit(ev.X-1, ev.Y-1, formatZone); ok {
			a.pressedZone = id
			a.baseCache.Invalidate()
		}
	case mouse.Null:
		if ev.Of == mouse.KindClick && a.pressedZone != "" {
			a.pressedZone = ""
			a.baseCache.Invalidate()
		}
	}
	return nil
}
