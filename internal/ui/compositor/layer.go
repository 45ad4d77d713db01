package compositor

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// Layer is one entry of the overlay stack. A disabled layer contributes no
// regions and receives no input.
type Layer interface {
	Enabled() bool
	// ClearRegions are the screen areas blanked before the layer draws.
	ClearRegions() []layout.Region
	Render() uv.Drawable
}

// InputHandler is implemented by layers that consume input while on top.
type InputHandler interface {
	HandleInput(msg tea.Msg) tea.Cmd
}

// OutsideClicker is implemented by layers that react to presses landing
// outside all of their clear regions (typically by closing).
type OutsideClicker interface {
	ClickOutside(ev mouse.Event) tea.Cmd
}

// Content is what an Overlay shows while it is open.
type Content interface {
	ClearRegions() []layout.Region
	Render() uv.Drawable
}

// Overlay owns a Content and keeps its stack registration in step with its
// enabled flag: opening registers it, closing or destroying unregisters it.
type Overlay struct {
	stack     *Stack
	content   Content
	enabled   bool
	destroyed bool
}

var (
	_ Layer          = (*Overlay)(nil)
	_ InputHandler   = (*Overlay)(nil)
	_ OutsideClicker = (*Overlay)(nil)
)

// NewOverlay creates a closed overlay bound to stack.
func NewOverlay(stack *Stack, content Content) *Overlay {
	return &Overlay{stack: stack, content: content}
}

// Open enables the overlay and pushes it on the stack.
func (o *Overlay) Open() {
	o.SetEnabled(true)
}

// Close disables the overlay. Closing a closed overlay is a no-op.
func (o *Overlay) Close() {
	o.SetEnabled(false)
}

// SetEnabled registers on the false→true transition and unregisters on
// true→false. A destroyed overlay cannot be reopened.
func (o *Overlay) SetEnabled(enabled bool) {
	if o.destroyed || enabled == o.enabled {
		return
	}
	o.enabled = enabled
	if enabled {
		o.stack.Register(o)
	} else {
		o.stack.Unregister(o)
	}
}

// Destroy releases the overlay for good. It is removed from the stack even
// when still enabled.
func (o *Overlay) Destroy() {
	o.enabled = false
	o.destroyed = true
	o.stack.Unregister(o)
}

// Enabled implements Layer.
func (o *Overlay) Enabled() bool {
	return o.enabled
}

// IsTop reports whether this overlay currently receives input.
func (o *Overlay) IsTop() bool {
	return o.enabled && o.stack.IsTopLayer(o)
}

// ClearRegions implements Layer.
func (o *Overlay) ClearRegions() []layout.Region {
	if !o.enabled {
		return nil
	}
	return o.content.ClearRegions()
}

// Render implements Layer.
func (o *Overlay) Render() uv.Drawable {
	if !o.enabled {
		return nil
	}
	return o.content.Render()
}

// HandleInput forwards to the content when it handles input.
func (o *Overlay) HandleInput(msg tea.Msg) tea.Cmd {
	if h, ok := o.content.(InputHandler); ok && o.enabled {
		return h.HandleInput(msg)
	}
	return nil
}

// ClickOutside forwards to the content when it cares about outside clicks.
func (o *Overlay) ClickOutside(ev mouse.Event) tea.Cmd {
	if h, ok := o.content.(OutsideClicker); ok && o.enabled {
		return h.ClickOutside(ev)
	}
	return nil
}
