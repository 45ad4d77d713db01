package common

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/compositor"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// HelpBinding is one key and what it does.
type HelpBinding struct {
	Key  string
	Desc string
}

// HelpSection groups related bindings under a title.
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// HelpClosed is sent when the help overlay is dismissed.
type HelpClosed struct{}

// HelpOverlay shows the key reference centered on screen. Any key or click
// closes it.
type HelpOverlay struct {
	sections []HelpSection
	styles   Styles
	overlay  *compositor.Overlay
	cache    compositor.DrawableCache
	frame    layout.Region

	screenW, screenH int
}

var (
	_ compositor.Content        = (*HelpOverlay)(nil)
	_ compositor.InputHandler   = (*HelpOverlay)(nil)
	_ compositor.OutsideClicker = (*HelpOverlay)(nil)
)

// NewHelpOverlay creates a hidden help overlay bound to stack.
func NewHelpOverlay(stack *compositor.Stack, sections []HelpSection) *HelpOverlay {
	h := &HelpOverlay{sections: sections, styles: DefaultStyles()}
	h.overlay = compositor.NewOverlay(stack, h)
	return h
}

func (h *HelpOverlay) SetStyles(styles Styles) {
	h.styles = styles
	h.relayout()
}

// SetSections replaces the listed bindings.
func (h *HelpOverlay) SetSections(sections []HelpSection) {
	h.sections = sections
	h.relayout()
}

// Show opens the overlay on a screen of the given size.
func (h *HelpOverlay) Show(width, height int) {
	h.screenW, h.screenH = width, height
	h.relayout()
	h.overlay.Open()
}

func (h *HelpOverlay) Hide()         { h.overlay.Close() }
func (h *HelpOverlay) Visible() bool { return h.overlay.Enabled() }

// View renders the help box.
func (h *HelpOverlay) View() string {
	keyW := 0
	for _, s := range h.sections {
		for _, b := range s.Bindings {
			keyW = max(keyW, lipgloss.Width(b.Key))
		}
	}

	var lines []string
	lines = append(lines, h.styles.Title.Render("Keys"))
	for _, s := range h.sections {
		lines = append(lines, "", h.styles.PaneTitle.Render(s.Title))
		for _, b := range s.Bindings {
			k := h.styles.HelpKey.Width(keyW + 2).Render(b.Key)
			lines = append(lines, k+h.styles.HelpDesc.Render(b.Desc))
		}
	}
	lines = append(lines, "", h.styles.Muted.Render("press any key to close"))

	body := strings.Join(lines, "\n")
	box := h.styles.DialogBox
	if h.screenH > 0 {
		_, fy := box.GetFrameSize()
		box = box.MaxHeight(h.screenH).Height(min(lipgloss.Height(body)+fy, h.screenH))
	}
	return box.Render(body)
}

func (h *HelpOverlay) relayout() {
	w, ht := compositor.ViewDimensions(h.View())
	x, y := compositor.Centered(w, ht, h.screenW, h.screenH)
	h.frame = layout.Rect(x, y, w, ht)
	h.cache.Invalidate()
}

// ClearRegions implements compositor.Content.
func (h *HelpOverlay) ClearRegions() []layout.Region {
	return []layout.Region{h.frame}
}

// Render implements compositor.Content.
func (h *HelpOverlay) Render() uv.Drawable {
	return h.cache.Drawable(h.View(), h.frame.Left, h.frame.Top)
}

// HandleInput implements compositor.InputHandler.
func (h *HelpOverlay) HandleInput(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return h.close()
	case mouse.Msg:
		if c, ok := msg.Event.(mouse.Click); ok && c.State == mouse.StatePressed {
			return h.close()
		}
	}
	return nil
}

// ClickOutside implements compositor.OutsideClicker.
func (h *HelpOverlay) ClickOutside(mouse.Event) tea.Cmd {
	return h.close()
}

func (h *HelpOverlay) close() tea.Cmd {
	h.overlay.Close()
	return func() tea.Msg { return HelpClosed{} }
}
