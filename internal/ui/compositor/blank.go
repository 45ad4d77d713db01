package compositor

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// Blank returns a drawable that overwrites every cell of the given regions
// with an unstyled space. It is how content belonging to lower layers is
// erased before a layer draws on top, since the terminal has no notion of
// stacking on its own.
func Blank(regions ...layout.Region) uv.Drawable {
	return uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
		for _, r := range regions {
			for y := max(r.Top, area.Min.Y); y < min(r.Bottom(), area.Max.Y); y++ {
				for x := max(r.Left, area.Min.X); x < min(r.Right(), area.Max.X); x++ {
					cell := getCell()
					*cell = uv.EmptyCell
					scr.SetCell(x, y, cell)
					putCell(cell)
				}
			}
		}
	})
}
