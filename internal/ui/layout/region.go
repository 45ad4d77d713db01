package layout

import (
	"strconv"
	"strings"
)

// Region is an axis-aligned rectangle of terminal cells. Left and Top are
// 0-based screen columns and rows.
type Region struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Rect is a shorthand for constructing a Region.
func Rect(left, top, width, height int) Region {
	return Region{Left: left, Top: top, Width: width, Height: height}
}

// Right is the first column past the region.
func (r Region) Right() int { return r.Left + r.Width }

// Bottom is the first row past the region.
func (r Region) Bottom() int { return r.Top + r.Height }

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the 0-based cell (x, y) lies inside r.
func (r Region) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Offset returns r moved by dx, dy.
func (r Region) Offset(dx, dy int) Region {
	r.Left += dx
	r.Top += dy
	return r
}

// Intersect returns the overlap of r and o. The result is Empty when they do
// not overlap.
func (r Region) Intersect(o Region) Region {
	left := max(r.Left, o.Left)
	top := max(r.Top, o.Top)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Region{Left: left, Top: top}
	}
	return Region{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Clip restricts r to a screen of the given size.
func (r Region) Clip(width, height int) Region {
	return r.Intersect(Region{Width: width, Height: height})
}

// String renders the region as "left,top,width,height".
func (r Region) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.Left))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.Top))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.Width))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.Height))
	return b.String()
}

// Key serializes a region list so two lists can be compared by value.
func Key(regions []Region) string {
	parts := make([]string, len(regions))
	for i, r := range regions {
		parts[i] = r.String()
	}
	return strings.Join(parts, ";")
}
