package mouse

import (
	"bytes"
	"strconv"
)

// SGR mouse report: ESC [ < Cb ; Px ; Py (M|m)
var sgrPrefix = []byte("\x1b[<")

const (
	classMask = 0b1100011
	ctrlBit   = 16
	altBit    = 8
)

type class struct {
	kind      Kind
	button    Button
	direction Direction
}

var classes = map[int]class{
	64: {kind: KindScroll, direction: DirectionUp},
	65: {kind: KindScroll, direction: DirectionDown},
	35: {kind: KindMove, button: ButtonNone},
	32: {kind: KindMove, button: ButtonLeft},
	33: {kind: KindMove, button: ButtonMiddle},
	34: {kind: KindMove, button: ButtonRight},
	0:  {kind: KindClick, button: ButtonLeft},
	1:  {kind: KindClick, button: ButtonMiddle},
	2:  {kind: KindClick, button: ButtonRight},
}

// readCode parses the button code after the prefix. ok is false when the
// code is not a decimal number or its class is unknown.
func readCode(chunk []byte) (code int, c class, ok bool) {
	if !bytes.HasPrefix(chunk, sgrPrefix) {
		return 0, class{}, false
	}
	body := chunk[len(sgrPrefix):]
	end := 0
	for end < len(body) && body[end] >= '0' && body[end] <= '9' {
		end++
	}
	if end == 0 || (end < len(body) && body[end] != ';' && body[end] != 'M' && body[end] != 'm') {
		return 0, class{}, false
	}
	code, err := strconv.Atoi(string(body[:end]))
	if err != nil {
		return 0, class{}, false
	}
	c, ok = classes[code&classMask]
	return code, c, ok
}

// IsMouseEvent reports whether chunk looks like an SGR mouse report with a
// known event class. It does not validate the coordinates or terminator.
func IsMouseEvent(chunk []byte) bool {
	_, _, ok := readCode(chunk)
	return ok
}

// Decode turns a single SGR mouse report into an Event. The second result is
// false for anything that is not a mouse event, including the release of a
// wheel notch and button-less motion reported as released.
func Decode(chunk []byte) (Event, bool) {
	code, c, ok := readCode(chunk)
	if !ok || len(chunk) == 0 {
		return nil, false
	}

	term := chunk[len(chunk)-1]
	if term != 'M' && term != 'm' {
		return nil, false
	}
	pressed := term == 'M'

	mods := Modifiers{
		Ctrl: code&ctrlBit != 0,
		Alt:  code&altBit != 0,
	}
	pos := parsePosition(chunk[len(sgrPrefix) : len(chunk)-1])

	switch c.kind {
	case KindScroll:
		if !pressed {
			return nil, false
		}
		return Scroll{Direction: c.direction, Position: pos, Modifiers: mods}, true
	case KindMove:
		state := stateFor(pressed)
		if c.button == ButtonNone && state == StateReleased {
			return nil, false
		}
		return Move{Button: c.button, State: state, Position: pos, Modifiers: mods}, true
	default:
		return Click{Button: c.button, State: stateFor(pressed), Position: pos, Modifiers: mods}, true
	}
}

func stateFor(pressed bool) State {
	if pressed {
		return StatePressed
	}
	return StateReleased
}

// parsePosition reads "Cb;Px;Py". Missing or malformed coordinates are 0.
func parsePosition(body []byte) Position {
	fields := bytes.SplitN(body, []byte{';'}, 3)
	var p Position
	if len(fields) > 1 {
		p.X = atoiOrZero(fields[1])
	}
	if len(fields) > 2 {
		p.Y = atoiOrZero(fields[2])
	}
	return p
}

func atoiOrZero(b []byte) int {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0
	}
	return n
}

// Encode writes ev back into SGR form. Null events encode to nil.
func Encode(ev Event) []byte {
	var code int
	term := byte('M')
	switch e := ev.(type) {
	case Scroll:
		code = 64
		if e.Direction == DirectionDown {
			code = 65
		}
	case Move:
		code = 32 + buttonOffset(e.Button, 3)
		if e.State == StateReleased {
			term = 'm'
		}
	case Click:
		code = buttonOffset(e.Button, 0)
		if e.State == StateReleased {
			term = 'm'
		}
	default:
		return nil
	}
	m := ev.Mods()
	if m.Ctrl {
		code |= ctrlBit
	}
	if m.Alt {
		code |= altBit
	}
	p := ev.Pos()
	out := append([]byte{}, sgrPrefix...)
	out = strconv.AppendInt(out, int64(code), 10)
	out = append(out, ';')
	out = strconv.AppendInt(out, int64(p.X), 10)
	out = append(out, ';')
	out = strconv.AppendInt(out, int64(p.Y), 10)
	return append(out, term)
}

func buttonOffset(b Button, none int) int {
	switch b {
	case ButtonLeft:
		return 0
	case ButtonMiddle:
		return 1
	case ButtonRight:
		return 2
	default:
		return none
	}
}
