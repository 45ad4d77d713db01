// Package compositor stacks modal layers over the base UI. The terminal has
// no compositor of its own, so each layer's regions are blanked before the
// layer draws, hiding whatever lower layers put there.
package compositor

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

type observer struct {
	id int
	fn func()
}

// Stack is the LIFO overlay stack; the last layer is topmost. The base UI is
// topmost only while the stack is empty. The stack is owned by the update
// loop and is not safe for concurrent use.
type Stack struct {
	layers []Layer

	observers []observer
	nextID    int

	width, height int
	// regions holds the clipped clear regions from the last Sync, keyed by
	// layer, and keys their serialized form.
	regions map[Layer][]layout.Region
	keys    map[Layer]string
}

var _ uv.Drawable = (*Stack)(nil)

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{
		regions: make(map[Layer][]layout.Region),
		keys:    make(map[Layer]string),
	}
}

// Register pushes l. Registering a layer that is already present does
// nothing.
func (s *Stack) Register(l Layer) {
	if l == nil || s.index(l) >= 0 {
		return
	}
	s.layers = append(s.layers, l)
	logging.Debug("compositor: registered layer (depth=%d)", len(s.layers))
	s.notify()
}

// Unregister splices l out. Removing an absent layer is a no-op.
func (s *Stack) Unregister(l Layer) {
	i := s.index(l)
	if i < 0 {
		return
	}
	s.layers = append(s.layers[:i:i], s.layers[i+1:]...)
	// The key stays until the next Sync so the vanished regions count as
	// a change there.
	delete(s.regions, l)
	logging.Debug("compositor: unregistered layer (depth=%d)", len(s.layers))
	s.notify()
}

func (s *Stack) index(l Layer) int {
	for i, existing := range s.layers {
		if existing == l {
			return i
		}
	}
	return -1
}

// IsTopLayer reports whether l is topmost. A nil l stands for the base UI.
func (s *Stack) IsTopLayer(l Layer) bool {
	if len(s.layers) == 0 {
		return l == nil
	}
	return l != nil && s.layers[len(s.layers)-1] == l
}

// Top returns the topmost layer, or nil when the base UI is on top.
func (s *Stack) Top() Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// Len returns the number of registered layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Layers returns a copy of the stack, bottom first.
func (s *Stack) Layers() []Layer {
	return append([]Layer(nil), s.layers...)
}

// OnForceUpdate registers fn to run synchronously whenever the stack changes
// or a layer's clear regions change. The returned function removes it.
func (s *Stack) OnForceUpdate(fn func()) func() {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Stack) notify() {
	for _, o := range append([]observer(nil), s.observers...) {
		o.fn()
	}
}

// Sync fetches every enabled layer's clear regions, clips them to a screen
// of width x height and compares them with the previous frame. A layer
// removed since then counts as a change. Only a change notifies observers;
// it reports whether one happened.
func (s *Stack) Sync(width, height int) bool {
	changed := width != s.width || height != s.height
	s.width, s.height = width, height
	for _, l := range s.layers {
		var clipped []layout.Region
		if l.Enabled() {
			for _, r := range l.ClearRegions() {
				if c := r.Clip(width, height); !c.Empty() {
					clipped = append(clipped, c)
				}
			}
		}
		key := layout.Key(clipped)
		if prev, ok := s.keys[l]; !ok || prev != key {
			changed = true
		}
		s.keys[l] = key
		s.regions[l] = clipped
	}
	for l := range s.keys {
		if s.index(l) < 0 {
			delete(s.keys, l)
			changed = true
		}
	}
	if changed {
		s.notify()
	}
	return changed
}

// Regions returns the clipped regions recorded for l by the last Sync.
func (s *Stack) Regions(l Layer) []layout.Region {
	return s.regions[l]
}

// Draw paints the layers bottom to top. Each layer gets a full-screen frame
// holding its blanking fill underneath its own content.
func (s *Stack) Draw(scr uv.Screen, area uv.Rectangle) {
	for _, l := range s.layers {
		if !l.Enabled() {
			continue
		}
		Blank(s.regions[l]...).Draw(scr, area)
		if d := l.Render(); d != nil {
			d.Draw(scr, area)
		}
	}
}

// Route delivers input exclusively to the top layer. It reports false when
// the base UI is on top and should handle msg itself. A press outside all of
// the top layer's regions goes to ClickOutside instead.
func (s *Stack) Route(msg tea.Msg) (bool, tea.Cmd) {
	top := s.Top()
	if top == nil {
		return false, nil
	}
	if m, ok := msg.(mouse.Msg); ok {
		if c, ok := m.Event.(mouse.Click); ok && c.State == mouse.StatePressed && !s.hits(top, c.Position) {
			if oc, ok := top.(OutsideClicker); ok {
				return true, oc.ClickOutside(c)
			}
			return true, nil
		}
	}
	if h, ok := top.(InputHandler); ok {
		return true, h.HandleInput(msg)
	}
	return true, nil
}

func (s *Stack) hits(l Layer, p mouse.Position) bool {
	regions, ok := s.regions[l]
	if !ok {
		regions = l.ClearRegions()
	}
	for _, r := range regions {
		if r.Contains(p.X-1, p.Y-1) {
			return true
		}
	}
	return false
}
