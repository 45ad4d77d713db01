package viewport

import (
	"math/rand"
	"testing"

	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

func TestScrollStaysClampedUnderRandomOps(t *testing.T) {
	s := NewScroller()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			s.ApplyDelta(rng.Intn(200) - 100)
		case 1:
			s.SetScroll(rng.Intn(400) - 100)
		default:
			s.SetGeometry(rng.Intn(300), rng.Intn(60))
		}
		y := s.ScrollY()
		if y < 0 || y > s.MaxScrollY() {
			t.Fatalf("step %d: scrollY %d outside [0,%d]", i, y, s.MaxScrollY())
		}
	}
}

func TestMaxScrollY(t *testing.T) {
	s := NewScroller()
	s.SetGeometry(100, 30)
	if s.MaxScrollY() != 70 {
		t.Fatalf("MaxScrollY = %d, want 70", s.MaxScrollY())
	}
	s.SetGeometry(10, 30)
	if s.MaxScrollY() != 0 {
		t.Fatalf("short content should not scroll, got %d", s.MaxScrollY())
	}
}

func TestShrinkingContentCorrectsAndNotifies(t *testing.T) {
	s := NewScroller()
	s.SetGeometry(100, 10)
	s.SetScroll(80)

	var seen []int
	s.OnScroll(func(y int) { seen = append(seen, y) })

	s.inner = 50 // resize observed without going through SetGeometry
	if got := s.ScrollY(); got != 40 {
		t.Fatalf("ScrollY after shrink = %d, want 40", got)
	}
	if len(seen) != 1 || seen[0] != 40 {
		t.Fatalf("expected one correction notification, got %v", seen)
	}
	s.ScrollY()
	if len(seen) != 1 {
		t.Fatalf("in-range read must not notify, got %v", seen)
	}
}

func TestEnsureVisible(t *testing.T) {
	s := NewScroller()
	s.SetGeometry(100, 10)

	s.EnsureVisible(25, 0)
	if got := s.ScrollY(); got != 16 {
		t.Fatalf("below view: scrollY = %d, want 16", got)
	}
	s.EnsureVisible(5, 0)
	if got := s.ScrollY(); got != 5 {
		t.Fatalf("above view: scrollY = %d, want 5", got)
	}
	s.EnsureVisible(8, 0)
	if got := s.ScrollY(); got != 5 {
		t.Fatalf("visible row must not scroll, got %d", got)
	}
	s.EnsureVisible(99, 2)
	if got := s.ScrollY(); got != 90 {
		t.Fatalf("margin past the end clamps to max, got %d", got)
	}
	s.EnsureVisible(20, 3)
	if got := s.ScrollY(); got != 17 {
		t.Fatalf("margin above: scrollY = %d, want 17", got)
	}
}

func TestEnsureVisibleIsIdempotent(t *testing.T) {
	for _, row := range []int{0, 3, 12, 40, 99} {
		for _, start := range []int{0, 30, 90} {
			s := NewScroller()
			s.SetGeometry(100, 10)
			s.SetScroll(start)
			s.EnsureVisible(row, 0)
			first := s.ScrollY()
			s.EnsureVisible(row, 0)
			if s.ScrollY() != first {
				t.Fatalf("row %d from %d: %d then %d", row, start, first, s.ScrollY())
			}
		}
	}
}

func TestEnsureElementVisible(t *testing.T) {
	container := layout.NewNode("content")
	container.SetFrame(0, 0, 40, 200)
	section := layout.NewNode("section")
	section.SetFrame(0, 50, 40, 40)
	item := layout.NewNode("item")
	item.SetFrame(2, 12, 30, 2)
	container.Append(section)
	section.Append(item)

	s := NewScroller()
	s.SetGeometry(200, 10)
	s.SetContainer(container, nil)

	if !s.EnsureElementVisible(item, 0, nil) {
		t.Fatal("expected measured element")
	}
	// rows 62..63 must be visible: bottom edge at 63 -> scrollY 54
	if got := s.ScrollY(); got != 54 {
		t.Fatalf("scrollY = %d, want 54", got)
	}

	// Relative to the section, the item sits at rows 12..13.
	s.SetScroll(100)
	s.EnsureElementVisible(item, 1, section)
	if got := s.ScrollY(); got != 11 {
		t.Fatalf("relative ensure: scrollY = %d, want 11", got)
	}
}

func TestEnsureElementVisiblePrefersTop(t *testing.T) {
	container := layout.NewNode("content")
	container.SetFrame(0, 0, 40, 200)
	tall := layout.NewNode("tall")
	tall.SetFrame(0, 30, 40, 25)
	container.Append(tall)

	s := NewScroller()
	s.SetGeometry(200, 10)
	s.SetContainer(container, nil)
	s.EnsureElementVisible(tall, 0, nil)
	if got := s.ScrollY(); got != 30 {
		t.Fatalf("tall element should align its top, got %d", got)
	}
}

func TestEnsureElementVisibleSkipsUnmeasured(t *testing.T) {
	s := NewScroller()
	s.SetGeometry(100, 10)
	s.SetScroll(7)
	if s.EnsureElementVisible(layout.NewNode("ghost"), 0, nil) {
		t.Fatal("unmeasured element must be skipped")
	}
	if s.ScrollY() != 7 {
		t.Fatal("skipped update must not scroll")
	}
}

func TestRemeasureLoop(t *testing.T) {
	s := NewScroller()
	inner, outer := 100, 10
	s.SetMeasure(func() (int, int, bool) { return inner, outer, true }, 0)

	if cmd := s.StartRemeasure(); cmd == nil {
		t.Fatal("expected a tick command")
	}
	msg := RemeasureMsg{owner: s, gen: s.gen}
	if cmd := s.HandleRemeasure(msg); cmd == nil {
		t.Fatal("current tick should reschedule")
	}
	if s.MaxScrollY() != 90 {
		t.Fatalf("geometry not applied: max=%d", s.MaxScrollY())
	}

	stale := RemeasureMsg{owner: s, gen: s.gen - 1}
	if s.HandleRemeasure(stale) != nil {
		t.Fatal("stale tick must be dropped")
	}
	if s.HandleRemeasure(RemeasureMsg{owner: NewScroller(), gen: s.gen}) != nil {
		t.Fatal("foreign tick must be dropped")
	}

	s.Close()
	inner = 20
	if s.HandleRemeasure(RemeasureMsg{owner: s, gen: s.gen}) != nil || s.MaxScrollY() != 90 {
		t.Fatal("closed scroller must stop measuring")
	}
	if s.StartRemeasure() != nil {
		t.Fatal("closed scroller must not restart")
	}
}
