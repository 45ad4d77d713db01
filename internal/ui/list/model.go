package list

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
	"github.com/tabdeck/tabdeck/internal/ui/viewport"
)

// KeyMap holds the list bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the stock list bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter/space", "toggle")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	}
}

// Styles controls row rendering.
type Styles struct {
	Row      lipgloss.Style
	Active   lipgloss.Style
	Selected lipgloss.Style
	Marker   lipgloss.Style
}

// DefaultStyles returns plain styles with a reversed active row.
func DefaultStyles() Styles {
	return Styles{
		Row:      lipgloss.NewStyle(),
		Active:   lipgloss.NewStyle().Reverse(true),
		Selected: lipgloss.NewStyle().Bold(true),
		Marker:   lipgloss.NewStyle(),
	}
}

// Model is a scrollable view over a Registry. Each item is one row; rows
// are laid out as child nodes of a content node so the scroller can bring
// the active row into view.
type Model struct {
	Registry *Registry
	Viewport *viewport.Model
	KeyMap   KeyMap
	Styles   Styles

	// ScrollMargin is the number of rows kept around the active row.
	ScrollMargin int
	// Checkboxes draws a selection marker in front of each row.
	Checkboxes bool

	content *layout.Node
	nodes   map[string]*layout.Node
	zones   *layout.ZoneMeasurer
	focused bool
}

// NewModel returns a list view over reg.
func NewModel(reg *Registry, mode viewport.Mode) *Model {
	m := &Model{
		Registry:   reg,
		Viewport:   viewport.New(mode),
		KeyMap:     DefaultKeyMap(),
		Styles:     DefaultStyles(),
		Checkboxes: !reg.Single(),
		content:    layout.NewNode("list"),
		nodes:      make(map[string]*layout.Node),
		focused:    true,
	}
	m.Viewport.Scroller.SetContainer(m.content, nil)
	return m
}

// SetZones enables zone marks on rendered rows, used for pointer hits once
// the surrounding view has been scanned.
func (m *Model) SetZones(z *layout.ZoneMeasurer) {
	m.zones = z
}

// Focus and Blur gate keyboard handling.
func (m *Model) Focus()        { m.focused = true }
func (m *Model) Blur()         { m.focused = false }
func (m *Model) Focused() bool { return m.focused }

// Scroller is the scroller that owns the list's offset.
func (m *Model) Scroller() *viewport.Scroller {
	return m.Viewport.Scroller
}

// SetRegion places the list on screen.
func (m *Model) SetRegion(r layout.Region) {
	m.Viewport.SetRegion(r)
	m.Sync()
}

// Sync lays out one node per registered item and updates the content
// height. Call it after registering or unregistering items.
func (m *Model) Sync() {
	items := m.Registry.Items()
	width := m.Viewport.Region().Width
	m.content.SetFrame(0, 0, width, len(items))

	seen := make(map[string]bool, len(items))
	for i, it := range items {
		seen[it.ID] = true
		n, ok := m.nodes[it.ID]
		if !ok {
			n = layout.NewNode(it.ID)
			m.nodes[it.ID] = n
		}
		if n.Parent() != m.content {
			m.content.Append(n)
		}
		n.SetFrame(0, i, width, 1)
	}
	for id, n := range m.nodes {
		if !seen[id] {
			n.Detach()
			delete(m.nodes, id)
			if m.zones != nil {
				m.zones.Forget(id)
			}
		}
	}
	m.Viewport.SetContentHeight(len(items))
}

// Node returns the layout node of id, if registered.
func (m *Model) Node(id string) *layout.Node {
	return m.nodes[id]
}

// EnsureActiveVisible scrolls the active row into view.
func (m *Model) EnsureActiveVisible() {
	if n := m.nodes[m.Registry.ActiveID()]; n != nil {
		m.Viewport.Scroller.EnsureElementVisible(n, m.ScrollMargin, nil)
	}
}

// Update handles navigation, toggling, paging and pointer input. handled is
// false when the message was not for the list.
func (m *Model) Update(msg tea.Msg) (handled bool) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !m.focused {
			return false
		}
		return m.handleKey(msg)
	case mouse.Msg:
		if m.Viewport.Update(msg) {
			return true
		}
		return m.handleMouse(msg.Event)
	}
	return false
}

func (m *Model) handleKey(msg tea.KeyPressMsg) bool {
	switch {
	case key.Matches(msg, m.KeyMap.Up):
		if m.Registry.MoveUp() {
			m.EnsureActiveVisible()
		}
	case key.Matches(msg, m.KeyMap.Down):
		if m.Registry.MoveDown() {
			m.EnsureActiveVisible()
		}
	case key.Matches(msg, m.KeyMap.Toggle):
		m.Registry.ToggleActive()
	case key.Matches(msg, m.KeyMap.PageUp):
		m.Viewport.Scroller.ApplyDelta(-m.Viewport.PageDelta())
	case key.Matches(msg, m.KeyMap.PageDown):
		m.Viewport.Scroller.ApplyDelta(m.Viewport.PageDelta())
	default:
		return false
	}
	return true
}

func (m *Model) handleMouse(ev mouse.Event) bool {
	c, ok := ev.(mouse.Click)
	if !ok || c.Button != mouse.ButtonLeft || c.State != mouse.StatePressed {
		return false
	}
	id, ok := m.ItemAt(c.X-1, c.Y-1)
	if !ok {
		return false
	}
	m.Registry.Click(id)
	return true
}

// ItemAt resolves a 0-based screen cell to an item. Zone marks are used
// when available; otherwise the row is derived from the scroll offset.
func (m *Model) ItemAt(x, y int) (string, bool) {
	r := m.Viewport.Region()
	if !r.Contains(x, y) || x >= r.Left+m.Viewport.ContentWidth() {
		return "", false
	}
	items := m.Registry.Items()
	if m.zones != nil {
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		if id, ok := m.zones.Hit(x, y, ids...); ok {
			return id, true
		}
	}
	row := m.Viewport.Scroller.ScrollY() + y - r.Top
	if row < 0 || row >= len(items) {
		return "", false
	}
	return items[row].ID, true
}

// Rows renders the rows visible at the current scroll offset.
func (m *Model) Rows() []string {
	items := m.Registry.Items()
	start := min(len(items), m.Viewport.Scroller.ScrollY())
	end := min(len(items), start+m.Viewport.Region().Height)
	active := m.Registry.ActiveID()

	rows := make([]string, 0, max(0, end-start))
	for _, it := range items[start:max(start, end)] {
		rows = append(rows, m.renderRow(it, it.ID == active))
	}
	return rows
}

func (m *Model) renderRow(it Item, active bool) string {
	selected := m.Registry.IsSelected(it.ID)
	text := it.Name
	if m.Checkboxes {
		marker := "[ ] "
		if selected {
			marker = "[x] "
		}
		text = m.Styles.Marker.Render(marker) + text
	}

	style := m.Styles.Row
	if selected {
		style = m.Styles.Selected
	}
	if active && m.focused {
		style = m.Styles.Active.Bold(selected)
	}
	width := m.Viewport.ContentWidth()
	row := style.Width(width).Render(ansi.Truncate(text, width, "…"))
	if m.zones != nil {
		row = m.zones.Mark(it.ID, row)
	}
	return row
}

// View renders the list with its scrollbar.
func (m *Model) View() string {
	return m.Viewport.View(m.Rows())
}
