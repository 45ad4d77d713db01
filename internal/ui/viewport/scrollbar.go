package viewport

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"
)

// Mode controls when the scrollbar is drawn.
type Mode int

const (
	// ModeAuto hides the bar when the thumb would fill the whole track.
	ModeAuto Mode = iota
	// ModeAlways always draws the bar.
	ModeAlways
	// ModeAutoInvisible reserves the column but never draws it.
	ModeAutoInvisible
	// ModeNever neither draws the bar nor reserves space.
	ModeNever
)

// ParseMode maps a config value to a Mode; unknown values are ModeAuto.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ModeAlways
	case "auto-invisible", "auto_invisible", "invisible":
		return ModeAutoInvisible
	case "never", "off":
		return ModeNever
	default:
		return ModeAuto
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeAutoInvisible:
		return "auto-invisible"
	case ModeNever:
		return "never"
	default:
		return "auto"
	}
}

// Geometry is the thumb layout for one track.
type Geometry struct {
	Track        int
	HandleHeight int
	MaxOffset    int
	HandleOffset int
}

// ComputeGeometry lays out the thumb. The thumb shrinks as overflow grows
// but never below 3 rows on tracks taller than 16, or 1 row otherwise.
func ComputeGeometry(track, scrollY, maxScrollY int) Geometry {
	track = max(0, track)
	minHandle := 1
	if track > 16 {
		minHandle = 3
	}
	handle := max(minHandle, track-maxScrollY)
	maxOffset := max(0, track-handle)

	offset := 0
	if denom := max(maxScrollY, scrollY); denom > 0 && scrollY > 0 {
		offset = int(math.Floor(float64(scrollY) / float64(denom) * float64(maxOffset)))
	}
	return Geometry{Track: track, HandleHeight: handle, MaxOffset: maxOffset, HandleOffset: offset}
}

// FillsTrack reports whether nothing is scrollable.
func (g Geometry) FillsTrack() bool {
	return g.HandleHeight >= g.Track
}

// OnThumb reports whether track-relative row lies on the thumb.
func (g Geometry) OnThumb(row int) bool {
	return row >= g.HandleOffset && row < g.HandleOffset+g.HandleHeight
}

// OffsetForRow maps a pointer row to a thumb offset, centering the thumb on
// the pointer.
func (g Geometry) OffsetForRow(row, trackTop int) int {
	return max(0, min(g.MaxOffset, row-trackTop-g.HandleHeight/2))
}

// ValueForOffset maps a thumb offset back to a scroll value, rounding up.
func (g Geometry) ValueForOffset(offset, maxScrollY int) int {
	if g.MaxOffset <= 0 {
		return 0
	}
	v := int(math.Ceil(float64(maxScrollY) * float64(offset) / float64(g.MaxOffset)))
	return max(0, min(maxScrollY, v))
}

// Reserves reports whether the bar takes a column.
func (m Mode) Reserves(g Geometry) bool {
	switch m {
	case ModeAlways, ModeAutoInvisible:
		return true
	case ModeAuto:
		return !g.FillsTrack()
	default:
		return false
	}
}

// Visible reports whether the bar is drawn.
func (m Mode) Visible(g Geometry) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeAuto:
		return !g.FillsTrack()
	default:
		return false
	}
}

// Scrollbar is the interactive bar of one viewport.
type Scrollbar struct {
	Mode Mode

	TrackStyle lipgloss.Style
	ThumbStyle lipgloss.Style
	TrackGlyph string
	ThumbGlyph string

	dragging bool
}

// NewScrollbar returns a bar with default glyphs.
func NewScrollbar(mode Mode) Scrollbar {
	return Scrollbar{
		Mode:       mode,
		TrackStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261")),
		ThumbStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")),
		TrackGlyph: "│",
		ThumbGlyph: "┃",
	}
}

// Width is the number of columns the bar occupies.
func (b *Scrollbar) Width(g Geometry) int {
	if b.Mode.Reserves(g) {
		return 1
	}
	return 0
}

// Dragging reports whether a thumb drag is in progress.
func (b *Scrollbar) Dragging() bool {
	return b.dragging
}

// Press handles a button press on the bar at the screen row. A press on the
// thumb starts a drag; a press elsewhere on the track jumps there. It
// returns the new scroll value and whether it changed anything.
func (b *Scrollbar) Press(g Geometry, row, trackTop, maxScrollY int) (int, bool) {
	rel := row - trackTop
	if rel < 0 || rel >= g.Track || g.FillsTrack() {
		return 0, false
	}
	if g.OnThumb(rel) {
		b.dragging = true
		return 0, false
	}
	return g.ValueForOffset(g.OffsetForRow(row, trackTop), maxScrollY), true
}

// Drag maps pointer motion during a drag to a scroll value.
func (b *Scrollbar) Drag(g Geometry, row, trackTop, maxScrollY int) (int, bool) {
	if !b.dragging {
		return 0, false
	}
	return g.ValueForOffset(g.OffsetForRow(row, trackTop), maxScrollY), true
}

// Release ends a drag.
func (b *Scrollbar) Release() {
	b.dragging = false
}

// Render draws the bar as g.Track lines joined by newlines. Hidden modes
// that reserve space render blanks.
func (b *Scrollbar) Render(g Geometry) string {
	if !b.Mode.Reserves(g) || g.Track == 0 {
		return ""
	}
	lines := make([]string, g.Track)
	visible := b.Mode.Visible(g)
	for i := range lines {
		switch {
		case !visible:
			lines[i] = " "
		case g.OnThumb(i):
			lines[i] = b.ThumbStyle.Render(b.ThumbGlyph)
		default:
			lines[i] = b.TrackStyle.Render(b.TrackGlyph)
		}
	}
	return strings.Join(lines, "\n")
}
