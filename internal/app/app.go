// Package app is the root bubbletea model: the tab-group list, the links
// preview and the overlays on top of them.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tabdeck/tabdeck/internal/config"
	"github.com/tabdeck/tabdeck/internal/keymap"
	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/messages"
	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/process"
	"github.com/tabdeck/tabdeck/internal/session"
	"github.com/tabdeck/tabdeck/internal/ui/common"
	"github.com/tabdeck/tabdeck/internal/ui/compositor"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
	"github.com/tabdeck/tabdeck/internal/ui/list"
	"github.com/tabdeck/tabdeck/internal/ui/textview"
	"github.com/tabdeck/tabdeck/internal/ui/viewport"
	"github.com/tabdeck/tabdeck/internal/validation"
)

// Overlay ids
const (
	DialogQuit   = "quit"
	DialogExport = "export"
	DropdownFmt  = "format"
)

// zone id of the format label in the status line
const formatZone = "status-format"

// pendingExport is an export waiting for consent.
type pendingExport struct {
	source session.Source
	format string
	groups []int
	path   string
}

// App is the root Bubbletea model
type App struct {
	// Configuration
	config    *config.Config
	keymap    keymap.KeyMap
	runner    session.Runner
	ownRunner bool
	exporter  *session.Exporter
	finder    *session.Finder

	// State
	source      session.Source
	sourceLabel string
	groups      []session.Group
	formats     []session.Format
	focusedPane messages.PaneType
	previewSeq  uint64
	previewErr  error
	pending     *pendingExport
	quitting    bool

	// previewDirty is set by the selection observer and drained at the end
	// of Update, since observers cannot return commands.
	previewDirty bool

	// UI Components
	layout    *layout.Manager
	zones     *layout.ZoneMeasurer
	bus       *mouse.Bus
	stack     *compositor.Stack
	groupList *list.Model
	preview   *viewport.Model
	text      *textview.Renderer

	// Overlays
	formatMenu   *list.Dropdown
	quitDialog   *common.ConfirmDialog
	exportDialog *common.ConfirmDialog
	help         *common.HelpOverlay
	toast        *common.ToastModel

	// pressedZone flashes a clicked status label until the bus clears it.
	pressedZone string

	styles    common.Styles
	canvas    *lipgloss.Canvas
	baseCache compositor.DrawableCache

	width  int
	height int

	lastInputAt         time.Time
	pendingInputLatency bool
}

// New creates the application model. A nil runner runs the exporter
// configured in cfg.
func New(cfg *config.Config, runner session.Runner) *App {
	a := &App{
		config:  cfg,
		keymap:  keymap.New(cfg.KeyMap),
		layout:  layout.NewManager(),
		zones:   layout.NewZoneMeasurer(),
		bus:     mouse.NewBus(0),
		stack:   compositor.NewStack(),
		toast:   common.NewToastModel(),
		runner:  runner,
		formats: session.BuiltinFormats(),
	}
	if a.runner == nil {
		a.runner = newProcessRunner(cfg.Exporter)
		a.ownRunner = true
	}
	a.exporter = session.NewExporter(cfg.Exporter.Command, a.runner)

	common.SetCurrentTheme(common.ThemeID(cfg.UI.Theme))

	mode := viewport.ParseMode(cfg.UI.Scrollbar)
	reg := list.NewRegistry()
	a.groupList = list.NewModel(reg, mode)
	a.groupList.SetZones(a.zones)
	a.groupList.ScrollMargin = 1
	reg.OnChange(func(_ []string, wasDestroyed bool) {
		if !wasDestroyed {
			a.previewDirty = true
		}
	})

	a.preview = viewport.New(mode)
	a.text = textview.New(textOptions(cfg.UI))
	a.text.SetWidthSource(a.preview.ContentWidth)
	a.preview.Scroller.SetMeasure(func() (int, int, bool) {
		h := a.preview.Region().Height
		return a.text.Height(), h, h > 0
	}, 0)
	a.applyWheelStep()

	a.formatMenu = list.NewDropdown(a.stack, DropdownFmt, "Output format", formatItems(a.formats))
	a.formatMenu.SetValue(session.DefaultFormat)
	a.quitDialog = common.NewConfirmDialog(a.stack, DialogQuit, "Quit", "Quit tabdeck?")
	a.exportDialog = common.NewConfirmDialog(a.stack, DialogExport, "Run exporter", "")
	a.help = common.NewHelpOverlay(a.stack, helpSections(a.keymap))

	a.bus.Subscribe(a.onPointer)
	a.stack.OnForceUpdate(a.syncListFocus)
	a.applyStyles()
	a.setFocus(messages.PaneGroups)
	return a
}

func newProcessRunner(cfg config.ExporterConfig) *process.Runner {
	r := process.NewRunner(cfg.Prefix...)
	r.UsePTY = cfg.UsePTY
	if cfg.TimeoutSeconds > 0 {
		r.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return r
}

func textOptions(ui config.UISettings) textview.Options {
	return textview.Options{
		Threshold: ui.VirtualizeThreshold,
		ChunkRows: ui.ChunkRows,
		Margin:    ui.ChunkMargin,
	}
}

func formatItems(formats []session.Format) []list.Item {
	supported := session.SupportedFormats(formats)
	items := make([]list.Item, 0, len(supported))
	for _, f := range supported {
		if err := validation.ValidateFormatName(f.Name); err != nil {
			logging.Warn("skipping format: %v", err)
			continue
		}
		items = append(items, list.Item{ID: f.Name, Name: f.Name})
	}
	return items
}

func helpSections(km keymap.KeyMap) []common.HelpSection {
	groups := keymap.Groups(km)
	sections := make([]common.HelpSection, 0, len(groups)+1)
	for _, g := range groups {
		s := common.HelpSection{Title: g.Title}
		for i, b := range g.Bindings {
			s.Bindings = append(s.Bindings, common.HelpBinding{Key: keymap.BindingHint(b), Desc: g.Descs[i]})
		}
		sections = append(sections, s)
	}
	lk := list.DefaultKeyMap()
	sections = append(sections, common.HelpSection{
		Title: "List",
		Bindings: []common.HelpBinding{
			{Key: lk.Up.Help().Key, Desc: lk.Up.Help().Desc},
			{Key: lk.Down.Help().Key, Desc: lk.Down.Help().Desc},
			{Key: lk.Toggle.Help().Key, Desc: lk.Toggle.Help().Desc},
			{Key: lk.PageUp.Help().Key, Desc: lk.PageUp.Help().Desc},
			{Key: lk.PageDown.Help().Key, Desc: lk.PageDown.Help().Desc},
		},
	})
	return sections
}

func (a *App) applyStyles() {
	a.styles = common.DefaultStyles()
	a.groupList.Styles = a.styles.ListStyles()
	a.formatMenu.List().Styles = a.styles.ListStyles()
	a.formatMenu.SetFrameStyle(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(common.ColorBorderFocused()).
		Padding(0, 1))
	a.quitDialog.SetStyles(a.styles)
	a.exportDialog.SetStyles(a.styles)
	a.help.SetStyles(a.styles)
	a.toast.SetStyles(a.styles)
	a.baseCache.Invalidate()
}

func (a *App) applyWheelStep() {
	step := a.config.UI.WheelStep
	a.preview.WheelStep = step
	a.groupList.Viewport.WheelStep = step
}

// Init starts source discovery and asks the exporter for its formats.
func (a *App) Init() tea.Cmd {
	logging.Info("tabdeck starting")
	return tea.Batch(a.resolveSource(), a.loadFormats(), a.preview.Scroller.StartRemeasure())
}

func (a *App) setFocus(p messages.PaneType) {
	if p == messages.PanePreview && !a.layout.ShowPreview() && a.width > 0 {
		p = messages.PaneGroups
	}
	a.focusedPane = p
	a.syncListFocus()
}

// syncListFocus shows the list as focused only while it has the pane focus
// and no overlay is on top. It runs whenever the overlay stack changes.
func (a *App) syncListFocus() {
	if a.focusedPane == messages.PaneGroups && a.stack.IsTopLayer(nil) {
		a.groupList.Focus()
	} else {
		a.groupList.Blur()
	}
	a.baseCache.Invalidate()
}

// format is the committed output format.
func (a *App) format() string {
	if v := a.formatMenu.Value(); v != "" {
		return v
	}
	return session.DefaultFormat
}

// selectedGroups maps the list selection to exporter group indexes, in list
// order. Nothing selected means every group.
func (a *App) selectedGroups() []int {
	reg := a.groupList.Registry
	var out []int
	for _, g := range a.groups {
		if reg.IsSelected(g.ID()) {
			out = append(out, g.Index)
		}
	}
	return out
}

// Shutdown releases timers and workers. Safe to call more than once.
func (a *App) Shutdown() {
	a.text.Close()
	a.preview.Scroller.Close()
	a.groupList.Scroller().Close()
	a.formatMenu.Destroy()
	a.zones.Close()
}
