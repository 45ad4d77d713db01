// Package viewport implements vertical scrolling: clamped scroll state,
// scroll-into-view, periodic re-measurement and the scrollbar.
package viewport

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// DefaultRemeasureInterval catches resizes that did not trigger a render.
const DefaultRemeasureInterval = 500 * time.Millisecond

// State is a snapshot of a scroller. 0 <= ScrollY <= MaxScrollY.
type State struct {
	ScrollY         int
	MaxScrollY      int
	OuterViewHeight int
}

// MeasureFunc reports the content (inner) and visible (outer) heights. ok is
// false when nothing has been measured yet.
type MeasureFunc func() (inner, outer int, ok bool)

// RemeasureMsg is the periodic re-measure tick of one scroller.
type RemeasureMsg struct {
	owner *Scroller
	gen   uint64
}

type listener struct {
	id int
	fn func(scrollY int)
}

// Scroller owns one scroll offset. All mutation goes through its methods and
// every read re-establishes the clamp invariant.
type Scroller struct {
	scrollY int
	inner   int
	outer   int

	listeners []listener
	nextID    int

	container *layout.Node
	measurer  layout.Measurer

	measure  MeasureFunc
	interval time.Duration
	gen      uint64
	closed   bool
}

// NewScroller returns a scroller with no content.
func NewScroller() *Scroller {
	return &Scroller{interval: DefaultRemeasureInterval, measurer: layout.TreeMeasurer{}}
}

// MaxScrollY is max(0, inner - outer).
func (s *Scroller) MaxScrollY() int {
	return max(0, s.inner-s.outer)
}

// OuterHeight is the number of visible rows.
func (s *Scroller) OuterHeight() int { return s.outer }

// InnerHeight is the number of content rows.
func (s *Scroller) InnerHeight() int { return s.inner }

// ScrollY returns the clamped offset. A stored value that fell out of range
// after a geometry change is corrected here and listeners are told.
func (s *Scroller) ScrollY() int {
	if c := s.clamp(s.scrollY); c != s.scrollY {
		s.scrollY = c
		s.emit()
	}
	return s.scrollY
}

// State returns a consistent snapshot.
func (s *Scroller) State() State {
	return State{ScrollY: s.ScrollY(), MaxScrollY: s.MaxScrollY(), OuterViewHeight: s.outer}
}

// SetScroll moves to v, clamped into [0, MaxScrollY].
func (s *Scroller) SetScroll(v int) {
	v = s.clamp(v)
	if v == s.scrollY {
		return
	}
	s.scrollY = v
	s.emit()
}

// ApplyDelta scrolls by d rows.
func (s *Scroller) ApplyDelta(d int) {
	s.SetScroll(s.ScrollY() + d)
}

// ScrollToBottom moves to MaxScrollY.
func (s *Scroller) ScrollToBottom() {
	s.SetScroll(s.MaxScrollY())
}

// EnsureVisible scrolls the minimum amount that brings row, plus margin rows
// on either side, into view.
func (s *Scroller) EnsureVisible(row, margin int) {
	s.ensureRange(row, row, margin)
}

// ensureRange applies the bring-into-view rule to rows [top, bottom]. When
// both edges cannot fit, the top edge wins.
func (s *Scroller) ensureRange(top, bottom, margin int) {
	margin = max(0, margin)
	y := s.ScrollY()
	switch {
	case top-margin < y:
		s.SetScroll(max(0, top-margin))
	case bottom+margin >= y+s.outer:
		next := bottom + margin - s.outer + 1
		next = min(next, max(0, top-margin))
		s.SetScroll(next)
	}
}

// SetContainer sets the element that scrolls and the measurer used to
// locate descendants inside it.
func (s *Scroller) SetContainer(container *layout.Node, m layout.Measurer) {
	s.container = container
	if m != nil {
		s.measurer = m
	}
}

// EnsureElementVisible brings n into view. Its row range is resolved relative
// to relativeTo, or to the container when relativeTo is nil. An unmeasured
// element is skipped and false is returned.
func (s *Scroller) EnsureElementVisible(n *layout.Node, margin int, relativeTo *layout.Node) bool {
	if relativeTo == nil {
		relativeTo = s.container
	}
	r := s.measurer.Measure(n, relativeTo)
	if r == nil {
		return false
	}
	bottom := r.Top
	if r.Height > 0 {
		bottom = r.Bottom() - 1
	}
	s.ensureRange(r.Top, bottom, margin)
	return true
}

// SetGeometry records new content and viewport heights and re-clamps.
func (s *Scroller) SetGeometry(inner, outer int) {
	s.inner = max(0, inner)
	s.outer = max(0, outer)
	s.ScrollY()
}

// OnScroll registers fn for offset changes and returns a function that
// removes it.
func (s *Scroller) OnScroll(fn func(scrollY int)) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Scroller) emit() {
	y := s.scrollY
	for _, l := range append([]listener(nil), s.listeners...) {
		l.fn(y)
	}
}

func (s *Scroller) clamp(v int) int {
	return max(0, min(v, s.MaxScrollY()))
}

// SetMeasure installs the function the re-measure tick uses. interval <= 0
// keeps the current interval.
func (s *Scroller) SetMeasure(fn MeasureFunc, interval time.Duration) {
	s.measure = fn
	if interval > 0 {
		s.interval = interval
	}
}

// StartRemeasure begins the periodic re-measure loop, superseding any loop
// already running.
func (s *Scroller) StartRemeasure() tea.Cmd {
	if s.closed || s.measure == nil {
		return nil
	}
	s.gen++
	return s.tick()
}

// HandleRemeasure re-measures on a tick belonging to the current loop and
// schedules the next one. Ticks of other scrollers or superseded loops are
// ignored.
func (s *Scroller) HandleRemeasure(msg RemeasureMsg) tea.Cmd {
	if msg.owner != s || msg.gen != s.gen || s.closed || s.measure == nil {
		return nil
	}
	if inner, outer, ok := s.measure(); ok {
		s.SetGeometry(inner, outer)
	}
	return s.tick()
}

// Close ends the re-measure loop for good.
func (s *Scroller) Close() {
	s.closed = true
	s.gen++
}

func (s *Scroller) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return RemeasureMsg{owner: s, gen: gen}
	})
}
