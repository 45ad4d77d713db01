package compositor

import (
	"image/color"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/internal/ui/layout"
)

// StringDrawable wraps a styled ANSI string to implement uv.Drawable, so
// string views can be composed onto a lipgloss.Canvas at a fixed position.
type StringDrawable struct {
	x, y   int
	width  int
	height int
	lines  []string
}

var _ uv.Drawable = (*StringDrawable)(nil)

// NewStringDrawable creates a drawable from a styled string at the given position.
func NewStringDrawable(content string, x, y int) *StringDrawable {
	if content == "" {
		return &StringDrawable{x: x, y: y}
	}
	lines := strings.Split(content, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, ansi.StringWidth(line))
	}
	return &StringDrawable{x: x, y: y, width: width, height: len(lines), lines: lines}
}

// Bounds is the screen region the string covers.
func (d *StringDrawable) Bounds() layout.Region {
	return layout.Region{Left: d.x, Top: d.y, Width: d.width, Height: d.height}
}

// Draw renders the string onto the screen buffer, clipped to r.
func (d *StringDrawable) Draw(screen uv.Screen, r uv.Rectangle) {
	if len(d.lines) == 0 {
		return
	}
	p := ansi.GetParser()
	defer ansi.PutParser(p)

	// SGR state carries across lines, as it does on a terminal.
	var st sgrState
	for i, line := range d.lines {
		y := d.y + i
		if y < r.Min.Y || y >= r.Max.Y {
			st.skip(line, p)
			continue
		}
		st.draw(screen, r, line, d.x, y, p)
	}
}

type sgrState struct {
	style  uv.Style
	parser byte
}

// draw writes one line's graphemes starting at column x. Cells that do not
// fit entirely inside r are dropped but still advance the column.
func (st *sgrState) draw(screen uv.Screen, r uv.Rectangle, line string, x, y int, p *ansi.Parser) {
	for len(line) > 0 {
		seq, width, n, next := ansi.DecodeSequence(line, st.parser, p)
		if n == 0 {
			return
		}
		line, st.parser = line[n:], next
		if width == 0 {
			st.control(p)
			continue
		}
		if x >= r.Min.X && x+width <= r.Max.X {
			cell := getCell()
			cell.Content, cell.Style, cell.Width = seq, st.style, width
			screen.SetCell(x, y, cell)
			putCell(cell)
		}
		x += width
	}
}

// skip consumes an off-screen line for its style changes only.
func (st *sgrState) skip(line string, p *ansi.Parser) {
	for len(line) > 0 {
		_, width, n, next := ansi.DecodeSequence(line, st.parser, p)
		if n == 0 {
			return
		}
		line, st.parser = line[n:], next
		if width == 0 {
			st.control(p)
		}
	}
}

func (st *sgrState) control(p *ansi.Parser) {
	if ansi.Cmd(p.Command()).Final() == 'm' {
		st.style = applySGR(st.style, p.Params())
	}
}

// attrOn and attrOff map SGR codes to the attribute bits they set or clear.
var (
	attrOn = map[int]uint8{
		1: uv.AttrBold,
		2: uv.AttrFaint,
		3: uv.AttrItalic,
		7: uv.AttrReverse,
		9: uv.AttrStrikethrough,
	}
	attrOff = map[int]uint8{
		22: uv.AttrBold | uv.AttrFaint,
		23: uv.AttrItalic,
		27: uv.AttrReverse,
		29: uv.AttrStrikethrough,
	}
)

// applySGR folds one SGR parameter list into style. Lipgloss only emits the
// codes handled here.
func applySGR(style uv.Style, params ansi.Params) uv.Style {
	if len(params) == 0 {
		return uv.Style{}
	}
	for i := 0; i < len(params); i++ {
		code, _, _ := params.Param(i, 0)
		if bits, ok := attrOn[code]; ok {
			style.Attrs |= bits
			continue
		}
		if bits, ok := attrOff[code]; ok {
			style.Attrs &^= bits
			continue
		}
		switch {
		case code == 0:
			style = uv.Style{}
		case code == 4:
			style.Underline = uv.UnderlineSingle
		case code == 24:
			style.Underline = uv.UnderlineNone
		case code == 39:
			style.Fg = nil
		case code == 49:
			style.Bg = nil
		case code == 38 || code == 48:
			c, used := extendedColor(params, i)
			i += used
			if c == nil {
				break
			}
			if code == 38 {
				style.Fg = c
			} else {
				style.Bg = c
			}
		default:
			if c, fg, ok := basicColor(code); ok {
				if fg {
					style.Fg = c
				} else {
					style.Bg = c
				}
			}
		}
	}
	return style
}

// basicColor decodes the 16-color foreground (30-37, 90-97) and background
// (40-47, 100-107) codes.
func basicColor(code int) (color.Color, bool, bool) {
	switch {
	case code >= 30 && code <= 37:
		return ansi.BasicColor(code - 30), true, true
	case code >= 90 && code <= 97:
		return ansi.BasicColor(code - 90 + 8), true, true
	case code >= 40 && code <= 47:
		return ansi.BasicColor(code - 40), false, true
	case code >= 100 && code <= 107:
		return ansi.BasicColor(code - 100 + 8), false, true
	}
	return nil, false, false
}

// extendedColor decodes the "5;n" and "2;r;g;b" forms following a 38 or 48
// parameter at index i. used is the number of consumed extra parameters.
func extendedColor(params ansi.Params, i int) (color.Color, int) {
	if i+2 >= len(params) {
		return nil, 0
	}
	mode, _, _ := params.Param(i+1, 0)
	switch {
	case mode == 5:
		idx, _, _ := params.Param(i+2, 0)
		return ansi.IndexedColor(uint8(idx)), 2
	case mode == 2 && i+4 < len(params):
		rv, _, _ := params.Param(i+2, 0)
		gv, _, _ := params.Param(i+3, 0)
		bv, _, _ := params.Param(i+4, 0)
		return color.RGBA{R: uint8(rv), G: uint8(gv), B: uint8(bv), A: 0xff}, 4
	}
	return nil, 0
}
