package layout

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// LayoutMode determines how many panes are visible
type LayoutMode int

const (
	LayoutTwoPane LayoutMode = iota // Groups + Preview
	LayoutOnePane                   // Groups only
)

// Manager splits the screen into the group list and the preview pane,
// leaving a status line at the bottom.
type Manager struct {
	mode LayoutMode

	width  int
	height int

	listWidth    int
	previewWidth int
	gapX         int
	statusHeight int

	minPreviewWidth int
	minListWidth    int
	startListWidth  int
}

// NewManager creates a new layout manager
func NewManager() *Manager {
	return &Manager{
		gapX:            1,
		statusHeight:    1,
		minPreviewWidth: 40,
		minListWidth:    20,
		startListWidth:  34,
	}
}

// Resize recalculates layout based on new dimensions
func (m *Manager) Resize(width, height int) {
	m.width = max(0, width)
	m.height = max(0, height-m.statusHeight)

	if m.width >= m.minListWidth+m.gapX+m.minPreviewWidth {
		m.mode = LayoutTwoPane
		m.listWidth = m.startListWidth
		m.previewWidth = m.width - m.listWidth - m.gapX
		if m.previewWidth < m.minPreviewWidth {
			m.previewWidth = m.minPreviewWidth
			m.listWidth = m.width - m.previewWidth - m.gapX
		}
		return
	}
	m.mode = LayoutOnePane
	m.listWidth = m.width
	m.previewWidth = 0
}

// Mode returns the current layout mode
func (m *Manager) Mode() LayoutMode {
	return m.mode
}

// ShowPreview returns whether the preview pane is visible
func (m *Manager) ShowPreview() bool {
	return m.mode == LayoutTwoPane
}

// ListWidth returns the group list pane width
func (m *Manager) ListWidth() int {
	return m.listWidth
}

// PreviewWidth returns the preview pane width
func (m *Manager) PreviewWidth() int {
	return m.previewWidth
}

// Height returns the pane height (screen minus status line)
func (m *Manager) Height() int {
	return m.height
}

// ListRegion is the screen region of the group list pane.
func (m *Manager) ListRegion() Region {
	return Region{Width: m.listWidth, Height: m.height}
}

// PreviewRegion is the screen region of the preview pane; empty when hidden.
func (m *Manager) PreviewRegion() Region {
	if !m.ShowPreview() {
		return Region{}
	}
	return Region{Left: m.listWidth + m.gapX, Width: m.previewWidth, Height: m.height}
}

// StatusRegion is the bottom status line.
func (m *Manager) StatusRegion() Region {
	return Region{Top: m.height, Width: m.width, Height: m.statusHeight}
}

// Render combines pane views and the status line
func (m *Manager) Render(list, preview, status string) string {
	var body string
	if m.ShowPreview() {
		gap := strings.Repeat(" ", m.gapX)
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, gap, preview)
	} else {
		body = list
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}
