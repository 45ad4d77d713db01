// Package mouse decodes SGR extended mouse reports into typed events and
// routes them to interested components.
package mouse

import "fmt"

// Position is a 1-based terminal cell coordinate.
type Position struct {
	X, Y int
}

// Button identifies the pointer button involved in an event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// State is pressed for an `M` terminator and released for `m`.
type State int

const (
	StatePressed State = iota
	StateReleased
)

func (s State) String() string {
	if s == StateReleased {
		return "released"
	}
	return "pressed"
}

// Direction of a wheel event.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionDown {
		return "down"
	}
	return "up"
}

// Modifiers held while the event was reported.
type Modifiers struct {
	Ctrl bool
	Alt  bool
}

// Kind tags the concrete event type.
type Kind int

const (
	KindScroll Kind = iota
	KindMove
	KindClick
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindScroll:
		return "scroll"
	case KindMove:
		return "move"
	case KindClick:
		return "click"
	default:
		return "null"
	}
}

// Event is one of Scroll, Move, Click or Null.
type Event interface {
	Kind() Kind
	Pos() Position
	Mods() Modifiers
}

// Scroll is a wheel notch.
type Scroll struct {
	Direction Direction
	Position
	Modifiers
}

func (Scroll) Kind() Kind        { return KindScroll }
func (e Scroll) Pos() Position   { return e.Position }
func (e Scroll) Mods() Modifiers { return e.Modifiers }
func (e Scroll) String() string  { return fmt.Sprintf("scroll %s at %d,%d", e.Direction, e.X, e.Y) }

// Move is pointer motion, optionally with a button held.
type Move struct {
	Button Button
	State  State
	Position
	Modifiers
}

func (Move) Kind() Kind        { return KindMove }
func (e Move) Pos() Position   { return e.Position }
func (e Move) Mods() Modifiers { return e.Modifiers }
func (e Move) String() string {
	return fmt.Sprintf("move %s %s at %d,%d", e.Button, e.State, e.X, e.Y)
}

// Click is a button press or release.
type Click struct {
	Button Button
	State  State
	Position
	Modifiers
}

func (Click) Kind() Kind        { return KindClick }
func (e Click) Pos() Position   { return e.Position }
func (e Click) Mods() Modifiers { return e.Modifiers }
func (e Click) String() string {
	return fmt.Sprintf("click %s %s at %d,%d", e.Button, e.State, e.X, e.Y)
}

// Null is the synthetic event that follows a real click or scroll once the
// transient highlight window has passed. Of is KindClick or KindScroll.
type Null struct {
	Of Kind
}

func (Null) Kind() Kind      { return KindNull }
func (Null) Pos() Position   { return Position{} }
func (Null) Mods() Modifiers { return Modifiers{} }

// Msg carries a decoded event into the bubbletea update loop.
type Msg struct {
	Event Event
}
