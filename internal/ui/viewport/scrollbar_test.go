package viewport

import (
	"strings"
	"testing"
)

func TestComputeGeometry(t *testing.T) {
	tests := []struct {
		name                   string
		track, scrollY, maxY   int
		handle, maxOff, offset int
	}{
		{"heavy overflow small track", 10, 0, 100, 1, 9, 0},
		{"heavy overflow tall track", 20, 0, 100, 3, 17, 0},
		{"mid scroll", 20, 50, 100, 3, 17, 8},
		{"bottom", 20, 100, 100, 3, 17, 17},
		{"slight overflow", 20, 2, 4, 16, 4, 2},
		{"no overflow", 20, 0, 0, 20, 0, 0},
	}
	for _, tt := range tests {
		g := ComputeGeometry(tt.track, tt.scrollY, tt.maxY)
		if g.HandleHeight != tt.handle || g.MaxOffset != tt.maxOff || g.HandleOffset != tt.offset {
			t.Fatalf("%s: got %+v", tt.name, g)
		}
	}
}

func TestDragMapping(t *testing.T) {
	g := ComputeGeometry(20, 0, 100) // handle 3, maxOffset 17
	if got := g.OffsetForRow(5+10, 5); got != 9 {
		t.Fatalf("OffsetForRow = %d, want 9", got)
	}
	if got := g.OffsetForRow(0, 5); got != 0 {
		t.Fatalf("above track clamps to 0, got %d", got)
	}
	if got := g.OffsetForRow(100, 5); got != 17 {
		t.Fatalf("below track clamps to max, got %d", got)
	}
	// ceil(100 * 9 / 17) = ceil(52.94) = 53
	if got := g.ValueForOffset(9, 100); got != 53 {
		t.Fatalf("ValueForOffset = %d, want 53", got)
	}
	if got := g.ValueForOffset(17, 100); got != 100 {
		t.Fatalf("full offset = %d, want 100", got)
	}
	if got := ComputeGeometry(5, 0, 0).ValueForOffset(3, 0); got != 0 {
		t.Fatalf("no range maps to 0, got %d", got)
	}
}

func TestPressAndDrag(t *testing.T) {
	var b Scrollbar
	g := ComputeGeometry(20, 0, 100)

	if _, changed := b.Press(g, 1, 0, 100); changed || !b.Dragging() {
		t.Fatal("press on thumb should start a drag without scrolling")
	}
	v, ok := b.Drag(g, 10, 0, 100)
	if !ok || v != 53 {
		t.Fatalf("drag to row 10 = %d (%v), want 53", v, ok)
	}
	b.Release()
	if _, ok := b.Drag(g, 11, 0, 100); ok {
		t.Fatal("drag after release must be ignored")
	}

	v, changed := b.Press(g, 19, 0, 100)
	if !changed || v != 100 || b.Dragging() {
		t.Fatalf("track click = %d (%v), dragging=%v", v, changed, b.Dragging())
	}
}

func TestModes(t *testing.T) {
	fill := ComputeGeometry(10, 0, 0)
	over := ComputeGeometry(10, 0, 5)

	cases := []struct {
		mode                 Mode
		reserveFill, visFill bool
		reserveOver, visOver bool
	}{
		{ModeAlways, true, true, true, true},
		{ModeAuto, false, false, true, true},
		{ModeAutoInvisible, true, false, true, false},
		{ModeNever, false, false, false, false},
	}
	for _, c := range cases {
		if c.mode.Reserves(fill) != c.reserveFill || c.mode.Visible(fill) != c.visFill ||
			c.mode.Reserves(over) != c.reserveOver || c.mode.Visible(over) != c.visOver {
			t.Fatalf("mode %v has wrong visibility", c.mode)
		}
	}
	if ParseMode("auto-invisible") != ModeAutoInvisible || ParseMode("ALWAYS") != ModeAlways || ParseMode("?") != ModeAuto {
		t.Fatal("ParseMode mismatch")
	}
}

func TestRenderInvisibleReservesBlankColumn(t *testing.T) {
	b := NewScrollbar(ModeAutoInvisible)
	out := b.Render(ComputeGeometry(3, 0, 10))
	if out != " \n \n " {
		t.Fatalf("unexpected invisible render %q", out)
	}
	b.Mode = ModeAlways
	if lines := strings.Split(b.Render(ComputeGeometry(4, 0, 10)), "\n"); len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
}
