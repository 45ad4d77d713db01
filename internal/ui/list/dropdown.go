package list

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/sahilm/fuzzy"

	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/compositor"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
	"github.com/tabdeck/tabdeck/internal/ui/viewport"
)

// ChosenMsg reports a committed drop-down choice.
type ChosenMsg struct {
	Source string
	ID     string
	Name   string
}

// CancelledMsg reports that a drop-down closed without changing its value.
type CancelledMsg struct {
	Source string
}

const maxDropdownRows = 10

// Dropdown is a single-select list shown as an overlay. Choosing an item
// commits it and closes; choosing the current value again, Esc, or a click
// outside cancels and keeps the prior value.
type Dropdown struct {
	id      string
	title   string
	options []Item
	value   string

	reg     *Registry
	list    *Model
	filter  textinput.Model
	overlay *compositor.Overlay
	box     lipgloss.Style
	cancel  key.Binding

	anchor layout.Region
	screen layout.Region
	frame  layout.Region
	cache  compositor.DrawableCache
}

var (
	_ compositor.Content        = (*Dropdown)(nil)
	_ compositor.InputHandler   = (*Dropdown)(nil)
	_ compositor.OutsideClicker = (*Dropdown)(nil)
)

// NewDropdown creates a closed drop-down bound to stack.
func NewDropdown(stack *compositor.Stack, id, title string, options []Item) *Dropdown {
	fi := textinput.New()
	fi.Placeholder = "Type to filter..."
	fi.CharLimit = 40
	fi.SetVirtualCursor(true)

	d := &Dropdown{
		id:     id,
		title:  title,
		reg:    NewSingleRegistry(),
		filter: fi,
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
	d.list = NewModel(d.reg, viewport.ModeAuto)
	// Letters go to the filter.
	d.list.KeyMap.Up = key.NewBinding(key.WithKeys("up", "ctrl+p"))
	d.list.KeyMap.Down = key.NewBinding(key.WithKeys("down", "ctrl+n"))
	d.list.KeyMap.Toggle = key.NewBinding(key.WithKeys("enter"))
	d.overlay = compositor.NewOverlay(stack, d)
	d.SetOptions(options)
	return d
}

// SetFrameStyle replaces the box style. It must keep a one-cell border.
func (d *Dropdown) SetFrameStyle(s lipgloss.Style) {
	d.box = s
}

// List is the option list, for styling.
func (d *Dropdown) List() *Model { return d.list }

// SetOptions replaces the choices. A value no longer offered is kept until
// the next commit.
func (d *Dropdown) SetOptions(options []Item) {
	d.options = append([]Item(nil), options...)
	d.applyFilter()
}

// Options returns the offered choices.
func (d *Dropdown) Options() []Item {
	return append([]Item(nil), d.options...)
}

// Value returns the committed id.
func (d *Dropdown) Value() string { return d.value }

// ValueName returns the display name of the committed value.
func (d *Dropdown) ValueName() string {
	for _, o := range d.options {
		if o.ID == d.value {
			return o.Name
		}
	}
	return d.value
}

// SetValue commits id without notifying.
func (d *Dropdown) SetValue(id string) {
	d.value = id
}

// IsOpen reports whether the overlay is showing.
func (d *Dropdown) IsOpen() bool { return d.overlay.Enabled() }

// Registry exposes the option registry for read-only queries.
func (d *Dropdown) Registry() *Registry { return d.reg }

// Open shows the options below anchor on a screen of the given size, with
// the current value pre-selected and active.
func (d *Dropdown) Open(anchor layout.Region, screenWidth, screenHeight int) tea.Cmd {
	d.anchor = anchor
	d.screen = layout.Rect(0, 0, screenWidth, screenHeight)
	d.filter.SetValue("")
	d.applyFilter()
	d.layout()
	d.overlay.Open()
	return d.filter.Focus()
}

// Close hides the overlay. Closing a closed drop-down is a no-op.
func (d *Dropdown) Close() {
	d.filter.Blur()
	d.overlay.Close()
}

// Destroy removes the overlay for good.
func (d *Dropdown) Destroy() {
	d.overlay.Destroy()
}

// Choose applies a choice as if the user picked id.
func (d *Dropdown) Choose(id string) tea.Cmd {
	d.reg.Click(id)
	return d.settle()
}

// settle closes the drop-down and turns the registry's selection into a
// commit or a cancel. An empty selection means the current value was chosen
// again, which cancels.
func (d *Dropdown) settle() tea.Cmd {
	sel := d.reg.Selection()
	d.Close()
	if len(sel) == 0 || sel[0] == d.value {
		return d.cancelled()
	}
	d.value = sel[0]
	id, name := d.value, d.ValueName()
	return func() tea.Msg {
		return ChosenMsg{Source: d.id, ID: id, Name: name}
	}
}

func (d *Dropdown) cancelled() tea.Cmd {
	d.Close()
	source := d.id
	return func() tea.Msg { return CancelledMsg{Source: source} }
}

// applyFilter re-registers the options matching the filter text, best match
// first. The committed value stays selected when it is still listed.
func (d *Dropdown) applyFilter() {
	matches := d.options
	if q := strings.TrimSpace(d.filter.Value()); q != "" {
		names := make([]string, len(d.options))
		for i, o := range d.options {
			names[i] = o.Name
		}
		found := fuzzy.Find(q, names)
		matches = make([]Item, 0, len(found))
		for _, f := range found {
			matches = append(matches, d.options[f.Index])
		}
	}

	d.reg.Clear()
	for _, it := range matches {
		d.reg.Register(it)
	}
	d.reg.SetSelection([]string{d.value})
	if d.reg.Has(d.value) {
		d.reg.SetActive(d.value)
	}
	d.list.Sync()
	d.list.EnsureActiveVisible()
}

// layout positions the box under the anchor, flipping above it when it
// would run off the bottom of the screen.
func (d *Dropdown) layout() {
	rows := max(1, min(maxDropdownRows, len(d.options)))
	inner := 0
	for _, o := range d.options {
		inner = max(inner, lipgloss.Width(o.Name))
	}
	inner = max(inner+2, lipgloss.Width(d.title), 24, d.anchor.Width-4)
	frameW, frameH := d.box.GetFrameSize()
	w := min(inner+frameW, d.screen.Width)
	// title + filter + rows
	h := min(rows+2+frameH, d.screen.Height)

	x := max(0, min(d.anchor.Left, d.screen.Width-w))
	y := d.anchor.Bottom()
	if y+h > d.screen.Height {
		y = max(0, d.anchor.Top-h)
	}
	d.frame = layout.Rect(x, y, w, h)

	left := x + frameW/2
	top := y + frameH/2 + 2
	d.list.SetRegion(layout.Rect(left, top, max(0, w-frameW), max(0, h-frameH-2)))
	d.filter.SetWidth(max(1, w-frameW-2))
	d.cache.Invalidate()
}

// Frame returns the box region on screen.
func (d *Dropdown) Frame() layout.Region { return d.frame }

// ClearRegions implements compositor.Content.
func (d *Dropdown) ClearRegions() []layout.Region {
	return []layout.Region{d.frame}
}

// View renders the box.
func (d *Dropdown) View() string {
	title := lipgloss.NewStyle().Bold(true).Render(d.title)
	body := lipgloss.JoinVertical(lipgloss.Left, title, d.filter.View(), d.list.View())
	return d.box.Width(d.frame.Width).Render(body)
}

// Render implements compositor.Content.
func (d *Dropdown) Render() uv.Drawable {
	return d.cache.Drawable(d.View(), d.frame.Left, d.frame.Top)
}

// HandleInput implements compositor.InputHandler.
func (d *Dropdown) HandleInput(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, d.cancel):
			return d.cancelled()
		case key.Matches(msg, d.list.KeyMap.Toggle):
			if id := d.reg.ActiveID(); id != "" {
				return d.Choose(id)
			}
			return nil
		case d.list.Update(msg):
			return nil
		}
		var cmd tea.Cmd
		before := d.filter.Value()
		d.filter, cmd = d.filter.Update(msg)
		if d.filter.Value() != before {
			d.applyFilter()
		}
		return cmd
	case tea.PasteMsg:
		var cmd tea.Cmd
		d.filter, cmd = d.filter.Update(msg)
		d.applyFilter()
		return cmd
	case mouse.Msg:
		before := d.reg.Selection()
		if !d.list.Update(msg) {
			return nil
		}
		if c, ok := msg.Event.(mouse.Click); ok && c.State == mouse.StatePressed && !sameIDs(before, d.reg.Selection()) {
			return d.settle()
		}
	}
	return nil
}

// ClickOutside implements compositor.OutsideClicker.
func (d *Dropdown) ClickOutside(mouse.Event) tea.Cmd {
	return d.cancelled()
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
