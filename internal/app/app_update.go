package app

import (
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tabdeck/tabdeck/internal/keymap"
	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/messages"
	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/session"
	"github.com/tabdeck/tabdeck/internal/ui/common"
	"github.com/tabdeck/tabdeck/internal/ui/list"
	"github.com/tabdeck/tabdeck/internal/ui/textview"
	"github.com/tabdeck/tabdeck/internal/ui/viewport"
	"github.com/tabdeck/tabdeck/internal/validation"
)

// Update handles all messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	cmds = append(cmds, a.update(msg))
	if a.previewDirty {
		a.previewDirty = false
		cmds = append(cmds, a.requestPreview())
	}
	// Overlays opened or closed by this message change the regions that
	// must be blanked; only then is a repaint forced.
	if a.width > 0 && a.height > 0 && a.stack.Sync(a.width, a.height) {
		cmds = append(cmds, forceRedraw)
	}
	return a, tea.Batch(cmds...)
}

func forceRedraw() tea.Msg { return messages.ForceRedraw{} }

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowSize(msg)

	case tea.KeyPressMsg:
		a.markInput()
		return a.handleKey(msg)

	case tea.PasteMsg:
		_, cmd := a.stack.Route(msg)
		return cmd

	case mouse.Msg:
		a.markInput()
		return a.handleMouse(msg)

	case mouse.NullTickMsg:
		return a.bus.HandleNullTick(msg)

	case textview.WrapDoneMsg, textview.TickMsg:
		cmd := a.text.Update(msg)
		return tea.Batch(cmd, a.syncPreview())

	case viewport.RemeasureMsg:
		if cmd := a.preview.Scroller.HandleRemeasure(msg); cmd != nil {
			return cmd
		}
		return a.groupList.Scroller().HandleRemeasure(msg)

	case messages.SourceResolved:
		return a.handleSourceResolved(msg)

	case messages.FormatsLoaded:
		a.formats = msg.Formats
		a.formatMenu.SetOptions(formatItems(msg.Formats))
		if _, ok := session.FindFormat(msg.Formats, a.format()); !ok {
			logging.Warn("format %s not offered by exporter", a.format())
		}
		return nil

	case messages.GroupsLoaded:
		return a.handleGroupsLoaded(msg)

	case messages.PreviewLoaded:
		return a.handlePreviewLoaded(msg)

	case messages.ExportFinished:
		if msg.Err != nil {
			return a.handleError(messages.Error{Err: msg.Err, Context: "export"})
		}
		logging.Info("exported %s", msg.Path)
		return a.toast.ShowSuccess("Exported to " + msg.Path)

	case messages.Copied:
		if msg.Err != nil {
			return a.handleError(messages.Error{Err: msg.Err, Context: "clipboard"})
		}
		return a.toast.ShowSuccess("Copied " + msg.What)

	case messages.ConfigReloaded:
		return a.handleConfigReloaded(msg)

	case messages.Error:
		return a.handleError(msg)

	case messages.ForceRedraw:
		a.baseCache.Invalidate()
		return nil

	case list.ChosenMsg:
		if msg.Source == DropdownFmt {
			logging.Debug("format set to %s", msg.ID)
			a.baseCache.Invalidate()
			return a.toast.ShowInfo("Format: " + msg.Name)
		}
		return nil

	case list.CancelledMsg:
		return nil

	case common.DialogResult:
		return a.handleDialogResult(msg)

	case common.HelpClosed:
		return nil

	case common.ToastDismissed:
		a.toast.Update(msg)
		return nil
	}
	return nil
}

func (a *App) markInput() {
	a.lastInputAt = time.Now()
	a.pendingInputLatency = true
}

func (a *App) handleWindowSize(msg tea.WindowSizeMsg) tea.Cmd {
	a.width, a.height = msg.Width, msg.Height
	a.layout.Resize(msg.Width, msg.Height)
	a.groupList.SetRegion(paneContent(a.layout.ListRegion()))
	a.preview.SetRegion(paneContent(a.layout.PreviewRegion()))
	if a.focusedPane == messages.PanePreview && !a.layout.ShowPreview() {
		a.setFocus(messages.PaneGroups)
	}
	a.groupList.EnsureActiveVisible()
	a.formatMenu.Close()
	if a.quitDialog.Visible() {
		a.quitDialog.SetSize(msg.Width, msg.Height)
	}
	if a.exportDialog.Visible() {
		a.exportDialog.SetSize(msg.Width, msg.Height)
	}
	if a.help.Visible() {
		a.help.Show(msg.Width, msg.Height)
	}
	a.baseCache.Invalidate()
	return a.syncPreview()
}

// syncPreview re-wraps the preview for the current pane width and updates
// the scroll range. The width depends on whether the bar takes a column,
// which depends on the height, so the height is set on both sides.
func (a *App) syncPreview() tea.Cmd {
	a.preview.SetContentHeight(a.text.Height())
	cmd := a.text.SetWidth(a.preview.ContentWidth())
	a.preview.SetContentHeight(a.text.Height())
	a.baseCache.Invalidate()
	return cmd
}

func (a *App) handleSourceResolved(msg messages.SourceResolved) tea.Cmd {
	if msg.Err != nil {
		var amb *session.AmbiguousProfileError
		if errors.As(msg.Err, &amb) {
			logging.Warn("%v", amb)
		}
		return a.handleError(messages.Error{Err: msg.Err, Context: "session"})
	}
	a.source = msg.Source
	a.sourceLabel = msg.SessionFile
	logging.Info("reading session %s", msg.SessionFile)
	return a.loadGroups()
}

func (a *App) handleGroupsLoaded(msg messages.GroupsLoaded) tea.Cmd {
	if msg.Err != nil {
		return a.handleError(messages.Error{Err: msg.Err, Context: "groups"})
	}
	reg := a.groupList.Registry
	prev := reg.Selection()
	active := reg.ActiveID()

	a.groups = msg.Groups
	reg.Clear()
	for _, g := range msg.Groups {
		reg.Register(list.Item{ID: g.ID(), Name: groupLabel(g)})
	}
	reg.SetSelection(prev)
	if active != "" {
		reg.SetActive(active)
	}
	a.groupList.Sync()
	a.groupList.EnsureActiveVisible()
	a.previewDirty = false
	a.baseCache.Invalidate()
	logging.Debug("loaded %d tab groups", len(msg.Groups))
	return a.requestPreview()
}

func groupLabel(g session.Group) string {
	label := fmt.Sprintf("%s (%d)", validation.SanitizeInput(g.Name), g.TabCount)
	if g.IsClosed {
		label += " closed"
	}
	return label
}

func (a *App) handlePreviewLoaded(msg messages.PreviewLoaded) tea.Cmd {
	if msg.Seq != a.previewSeq {
		return nil
	}
	a.previewErr = msg.Err
	if msg.Err != nil {
		return a.handleError(messages.Error{Err: msg.Err, Context: "preview"})
	}
	cmd := a.text.SetText(msg.Text)
	a.preview.Scroller.SetScroll(0)
	return tea.Batch(cmd, a.syncPreview(), a.text.StartRemeasure())
}

func (a *App) handleDialogResult(msg common.DialogResult) tea.Cmd {
	switch msg.ID {
	case DialogQuit:
		if msg.Confirmed {
			return a.quit()
		}
	case DialogExport:
		p := a.pending
		a.pending = nil
		if msg.Confirmed && p != nil {
			return a.runForegroundExport(p)
		}
		logging.Debug("export declined")
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.Shutdown()
	return tea.Quit
}

func (a *App) handleConfigReloaded(msg messages.ConfigReloaded) tea.Cmd {
	if msg.Err != nil {
		logging.Warn("config reload failed: %v", msg.Err)
		return a.toast.ShowWarning("Config not reloaded: " + msg.Err.Error())
	}
	cfg := msg.Config
	cfg.Paths = a.config.Paths
	// Source flags given on the command line win over the file.
	cfg.Profile, cfg.SessionFile = a.config.Profile, a.config.SessionFile
	a.config = cfg

	a.keymap = keymap.New(cfg.KeyMap)
	a.help.SetSections(helpSections(a.keymap))
	if a.ownRunner {
		a.runner = newProcessRunner(cfg.Exporter)
	}
	a.exporter = session.NewExporter(cfg.Exporter.Command, a.runner)

	mode := viewport.ParseMode(cfg.UI.Scrollbar)
	a.preview.Bar = viewport.NewScrollbar(mode)
	a.groupList.Viewport.Bar = viewport.NewScrollbar(mode)
	a.applyWheelStep()
	common.SetCurrentTheme(common.ThemeID(cfg.UI.Theme))
	a.applyStyles()
	a.groupList.Sync()
	logging.Info("config reloaded")
	return tea.Batch(a.text.SetOptions(textOptions(cfg.UI)), a.syncPreview(), a.text.StartRemeasure())
}

func (a *App) handleError(msg messages.Error) tea.Cmd {
	if msg.Err == nil {
		return nil
	}
	logging.Error("Error in %s: %v", msg.Context, msg.Err)
	return a.toast.ShowError(msg.Error())
}
