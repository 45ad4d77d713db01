package common

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/compositor"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// DialogResult is sent when a dialog is completed
type DialogResult struct {
	ID        string
	Confirmed bool
}

type dialogKeys struct {
	Yes    key.Binding
	No     key.Binding
	Switch key.Binding
	Accept key.Binding
}

func defaultDialogKeys() dialogKeys {
	return dialogKeys{
		Yes:    key.NewBinding(key.WithKeys("y", "Y")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc")),
		Switch: key.NewBinding(key.WithKeys("left", "right", "tab", "shift+tab", "h", "l")),
		Accept: key.NewBinding(key.WithKeys("enter", "space")),
	}
}

type optionHit struct {
	index  int
	region layout.Region
}

// ConfirmDialog is a modal yes/no question shown as an overlay. Clicking
// outside answers no.
type ConfirmDialog struct {
	id      string
	title   string
	message string
	options []string
	cursor  int

	styles  Styles
	keys    dialogKeys
	overlay *compositor.Overlay
	cache   compositor.DrawableCache

	screenW, screenH int
	frame            layout.Region
	hits             []optionHit
}

var (
	_ compositor.Content        = (*ConfirmDialog)(nil)
	_ compositor.InputHandler   = (*ConfirmDialog)(nil)
	_ compositor.OutsideClicker = (*ConfirmDialog)(nil)
)

// NewConfirmDialog creates a hidden confirmation dialog bound to stack.
func NewConfirmDialog(stack *compositor.Stack, id, title, message string) *ConfirmDialog {
	d := &ConfirmDialog{
		id:      id,
		title:   title,
		message: message,
		options: []string{"Yes", "No"},
		cursor:  1, // Default to "No"
		styles:  DefaultStyles(),
		keys:    defaultDialogKeys(),
	}
	d.overlay = compositor.NewOverlay(stack, d)
	return d
}

// SetStyles updates the dialog styles (for theme changes).
func (d *ConfirmDialog) SetStyles(styles Styles) {
	d.styles = styles
	d.cache.Invalidate()
}

// SetMessage replaces the question text.
func (d *ConfirmDialog) SetMessage(message string) {
	d.message = message
	d.relayout()
}

// ID returns the dialog id carried in its result.
func (d *ConfirmDialog) ID() string { return d.id }

// Show opens the dialog centered on a screen of the given size.
func (d *ConfirmDialog) Show(width, height int) {
	d.cursor = 1
	d.screenW, d.screenH = width, height
	d.relayout()
	d.overlay.Open()
}

// SetSize re-centers the dialog after a resize.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.screenW, d.screenH = width, height
	d.relayout()
}

// Hide closes the dialog without a result.
func (d *ConfirmDialog) Hide() {
	d.overlay.Close()
}

// Visible reports whether the dialog is showing.
func (d *ConfirmDialog) Visible() bool {
	return d.overlay.Enabled()
}

func (d *ConfirmDialog) contentWidth() int {
	width := 50
	if d.screenW > 0 {
		width = min(70, max(30, d.screenW-10))
	}
	return width
}

// renderLines builds the dialog body and records the option hit regions in
// content-local coordinates.
func (d *ConfirmDialog) renderLines() []string {
	d.hits = d.hits[:0]
	width := d.contentWidth()
	var lines []string
	lines = append(lines, d.styles.DialogTitle.Render(d.title), "")
	msg := lipgloss.NewStyle().Width(width).Render(d.message)
	lines = append(lines, strings.Split(d.styles.DialogMessage.Render(msg), "\n")...)
	lines = append(lines, "")

	x := 0
	var buttons []string
	for i, opt := range d.options {
		style := d.styles.DialogOption
		if i == d.cursor {
			style = d.styles.DialogActive
		}
		b := style.Render(opt)
		w := lipgloss.Width(b)
		d.hits = append(d.hits, optionHit{index: i, region: layout.Rect(x, len(lines), w, 1)})
		buttons = append(buttons, b)
		x += w + 2
	}
	lines = append(lines, strings.Join(buttons, "  "))
	return lines
}

// View renders the dialog box.
func (d *ConfirmDialog) View() string {
	return d.styles.DialogBox.Render(strings.Join(d.renderLines(), "\n"))
}

func (d *ConfirmDialog) relayout() {
	w, h := compositor.ViewDimensions(d.View())
	x, y := compositor.Centered(w, h, d.screenW, d.screenH)
	d.frame = layout.Rect(x, y, w, h)
	d.cache.Invalidate()
}

// ClearRegions implements compositor.Content.
func (d *ConfirmDialog) ClearRegions() []layout.Region {
	return []layout.Region{d.frame}
}

// Render implements compositor.Content.
func (d *ConfirmDialog) Render() uv.Drawable {
	return d.cache.Drawable(d.View(), d.frame.Left, d.frame.Top)
}

// HandleInput implements compositor.InputHandler.
func (d *ConfirmDialog) HandleInput(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, d.keys.Yes):
			return d.finish(true)
		case key.Matches(msg, d.keys.No):
			return d.finish(false)
		case key.Matches(msg, d.keys.Switch):
			d.cursor = 1 - d.cursor
		case key.Matches(msg, d.keys.Accept):
			return d.finish(d.cursor == 0)
		}
	case mouse.Msg:
		c, ok := msg.Event.(mouse.Click)
		if !ok || c.Button != mouse.ButtonLeft || c.State != mouse.StatePressed {
			return nil
		}
		fx, fy := d.styles.DialogBox.GetFrameSize()
		lx := c.X - 1 - d.frame.Left - fx/2
		ly := c.Y - 1 - d.frame.Top - fy/2
		for _, hit := range d.hits {
			if hit.region.Contains(lx, ly) {
				return d.finish(hit.index == 0)
			}
		}
	}
	return nil
}

// ClickOutside implements compositor.OutsideClicker.
func (d *ConfirmDialog) ClickOutside(mouse.Event) tea.Cmd {
	return d.finish(false)
}

func (d *ConfirmDialog) finish(confirmed bool) tea.Cmd {
	d.overlay.Close()
	id := d.id
	logging.Debug("dialog %s answered confirmed=%v", id, confirmed)
	return func() tea.Msg {
		return DialogResult{ID: id, Confirmed: confirmed}
	}
}
