package layout

import "testing"

func TestRegionClip(t *testing.T) {
	tests := []struct {
		name string
		in   Region
		want Region
	}{
		{"inside", Rect(2, 2, 4, 4), Rect(2, 2, 4, 4)},
		{"overflow right", Rect(8, 1, 5, 2), Rect(8, 1, 2, 2)},
		{"negative origin", Rect(-3, -1, 5, 3), Rect(0, 0, 2, 2)},
	}
	for _, tt := range tests {
		if got := tt.in.Clip(10, 5); got != tt.want {
			t.Fatalf("%s: Clip = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := Rect(20, 20, 3, 3).Clip(10, 5); !got.Empty() {
		t.Fatalf("off-screen region should clip to empty, got %v", got)
	}
}

func TestRegionContains(t *testing.T) {
	r := Rect(1, 1, 2, 2)
	if !r.Contains(1, 1) || !r.Contains(2, 2) || r.Contains(3, 1) || r.Contains(0, 1) {
		t.Fatalf("Contains boundaries are wrong for %v", r)
	}
}

func TestKeyDistinguishesLists(t *testing.T) {
	a := Key([]Region{Rect(0, 0, 1, 1), Rect(2, 2, 3, 3)})
	b := Key([]Region{Rect(0, 0, 1, 1), Rect(2, 2, 3, 3)})
	c := Key([]Region{Rect(0, 0, 1, 1)})
	if a != b || a == c {
		t.Fatalf("unexpected keys %q %q %q", a, b, c)
	}
	if Key(nil) != "" {
		t.Fatalf("empty list should serialize to empty key")
	}
}
