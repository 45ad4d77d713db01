package viewport

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// DefaultWheelStep is the number of rows per wheel notch.
const DefaultWheelStep = 3

// KeyMap holds the scrolling bindings.
type KeyMap struct {
	LineUp   key.Binding
	LineDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

// DefaultKeyMap returns the stock scrolling bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LineUp:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "line up")),
		LineDown: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "line down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "bottom")),
	}
}

// Model wires a Scroller and a Scrollbar to input and renders the visible
// window next to the bar.
type Model struct {
	Scroller  *Scroller
	Bar       Scrollbar
	KeyMap    KeyMap
	WheelStep int

	region layout.Region
}

// New returns a viewport model with the given bar mode.
func New(mode Mode) *Model {
	return &Model{
		Scroller:  NewScroller(),
		Bar:       NewScrollbar(mode),
		KeyMap:    DefaultKeyMap(),
		WheelStep: DefaultWheelStep,
	}
}

// SetRegion places the viewport (content plus bar column) on screen.
func (m *Model) SetRegion(r layout.Region) {
	m.region = r
	m.Scroller.SetGeometry(m.Scroller.InnerHeight(), r.Height)
}

// Region returns the screen region.
func (m *Model) Region() layout.Region {
	return m.region
}

// SetContentHeight records the number of content rows.
func (m *Model) SetContentHeight(rows int) {
	m.Scroller.SetGeometry(rows, m.region.Height)
}

// Geometry returns the current thumb layout.
func (m *Model) Geometry() Geometry {
	return ComputeGeometry(m.region.Height, m.Scroller.ScrollY(), m.Scroller.MaxScrollY())
}

// ContentWidth is the width left for content after the bar column.
func (m *Model) ContentWidth() int {
	return max(0, m.region.Width-m.Bar.Width(m.Geometry()))
}

// PageDelta is one page, never less than one row.
func (m *Model) PageDelta() int {
	return max(1, m.Scroller.OuterHeight())
}

// Update applies scrolling input. handled is false for messages the
// viewport does not consume.
func (m *Model) Update(msg tea.Msg) (handled bool) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case mouse.Msg:
		return m.handleMouse(msg.Event)
	}
	return false
}

func (m *Model) handleKey(msg tea.KeyPressMsg) bool {
	switch {
	case key.Matches(msg, m.KeyMap.LineUp):
		m.Scroller.ApplyDelta(-1)
	case key.Matches(msg, m.KeyMap.LineDown):
		m.Scroller.ApplyDelta(1)
	case key.Matches(msg, m.KeyMap.PageUp):
		m.Scroller.ApplyDelta(-m.PageDelta())
	case key.Matches(msg, m.KeyMap.PageDown):
		m.Scroller.ApplyDelta(m.PageDelta())
	case key.Matches(msg, m.KeyMap.Top):
		m.Scroller.SetScroll(0)
	case key.Matches(msg, m.KeyMap.Bottom):
		m.Scroller.ScrollToBottom()
	default:
		return false
	}
	return true
}

func (m *Model) handleMouse(ev mouse.Event) bool {
	// Terminal positions are 1-based; regions are 0-based.
	x, y := ev.Pos().X-1, ev.Pos().Y-1
	g := m.Geometry()
	barX := m.region.Right() - 1
	onBar := m.Bar.Width(g) > 0 && x == barX && y >= m.region.Top && y < m.region.Bottom()

	switch e := ev.(type) {
	case mouse.Scroll:
		if !m.region.Contains(x, y) {
			return false
		}
		step := max(1, m.WheelStep)
		if e.Direction == mouse.DirectionUp {
			step = -step
		}
		m.Scroller.ApplyDelta(step)
		return true
	case mouse.Click:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if e.State == mouse.StateReleased {
			if m.Bar.Dragging() {
				m.Bar.Release()
				return true
			}
			return false
		}
		if !onBar {
			return false
		}
		if v, ok := m.Bar.Press(g, y, m.region.Top, m.Scroller.MaxScrollY()); ok {
			m.Scroller.SetScroll(v)
		}
		return true
	case mouse.Move:
		if !m.Bar.Dragging() {
			return false
		}
		if e.Button == mouse.ButtonNone {
			// Release happened outside the terminal.
			m.Bar.Release()
			return true
		}
		if v, ok := m.Bar.Drag(g, y, m.region.Top, m.Scroller.MaxScrollY()); ok {
			m.Scroller.SetScroll(v)
		}
		return true
	}
	return false
}

// View renders window (the rows starting at ScrollY) padded to the region
// with the scrollbar on the right.
func (m *Model) View(window []string) string {
	width, height := m.ContentWidth(), m.region.Height
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := make([]string, height)
	for i := range lines {
		var line string
		if i < len(window) {
			line = ansi.Truncate(window[i], width, "")
		}
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		lines[i] = line
	}
	content := strings.Join(lines, "\n")
	bar := m.Bar.Render(m.Geometry())
	if bar == "" {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, content, bar)
}
