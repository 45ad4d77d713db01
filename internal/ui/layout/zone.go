package layout

import (
	zone "github.com/lrstanley/bubblezone"
)

// ZoneMeasurer measures rendered output. Components wrap their output with
// Mark; the outermost view is passed through Scan once per frame, after
// which Region reports where each marked span landed on screen.
//
// Scan records positions asynchronously, so Region reflects the previous
// frame or two. That is sufficient for pointer hit-testing.
type ZoneMeasurer struct {
	zm     *zone.Manager
	prefix string
}

// NewZoneMeasurer creates a measurer with its own zone manager.
func NewZoneMeasurer() *ZoneMeasurer {
	zm := zone.New()
	return &ZoneMeasurer{zm: zm, prefix: zm.NewPrefix()}
}

// Mark wraps s so its screen position is recorded by the next Scan.
func (z *ZoneMeasurer) Mark(id, s string) string {
	return z.zm.Mark(z.prefix+id, s)
}

// Scan strips zone markers from view and records their positions.
func (z *ZoneMeasurer) Scan(view string) string {
	return z.zm.Scan(view)
}

// Region returns the last recorded screen region for id, or nil.
func (z *ZoneMeasurer) Region(id string) *Region {
	info := z.zm.Get(z.prefix + id)
	if info.IsZero() {
		return nil
	}
	r := Region{
		Left:   info.StartX,
		Top:    info.StartY,
		Width:  info.EndX - info.StartX + 1,
		Height: info.EndY - info.StartY + 1,
	}
	return &r
}

// Hit returns the first id in ids whose region contains the 0-based cell.
func (z *ZoneMeasurer) Hit(x, y int, ids ...string) (string, bool) {
	for _, id := range ids {
		if r := z.Region(id); r != nil && r.Contains(x, y) {
			return id, true
		}
	}
	return "", false
}

// Measure implements Measurer for nodes whose ID was used with Mark. The
// result is relative to relativeTo's recorded region when given.
func (z *ZoneMeasurer) Measure(n *Node, relativeTo *Node) *Region {
	if n == nil {
		return nil
	}
	r := z.Region(n.ID)
	if r == nil || relativeTo == nil {
		return r
	}
	base := z.Region(relativeTo.ID)
	if base == nil {
		return nil
	}
	out := r.Offset(-base.Left, -base.Top)
	return &out
}

// Forget drops the recorded region for id.
func (z *ZoneMeasurer) Forget(id string) {
	z.zm.Clear(z.prefix + id)
}

// Close stops the zone worker.
func (z *ZoneMeasurer) Close() {
	z.zm.Close()
}
