package mouse

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultNullDelay is how long a click or scroll stays "current" before the
// bus follows it with a Null event.
const DefaultNullDelay = 100 * time.Millisecond

// Handler consumes an event and may return a command for the update loop.
type Handler func(Event) tea.Cmd

// NullTickMsg fires after a real click or scroll. Gen ties it to the event
// that scheduled it; older ticks are ignored.
type NullTickMsg struct {
	Of  Kind
	Gen uint64
}

type subscriber struct {
	id int
	fn Handler
}

// Bus fans decoded events out to subscribers in subscription order. It is
// owned by the update loop and is not safe for concurrent use.
type Bus struct {
	delay  time.Duration
	nextID int
	subs   []subscriber

	clickGen   uint64
	scrollGen  uint64
	lastClick  Event
	lastScroll Event
}

// NewBus returns a bus that emits Null events delay after real ones. A
// non-positive delay uses DefaultNullDelay.
func NewBus(delay time.Duration) *Bus {
	if delay <= 0 {
		delay = DefaultNullDelay
	}
	return &Bus{delay: delay}
}

// Subscribe registers fn and returns a function removing it again.
func (b *Bus) Subscribe(fn Handler) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Len reports the number of subscribers.
func (b *Bus) Len() int {
	return len(b.subs)
}

// Publish delivers ev synchronously to every subscriber. Clicks and scrolls
// additionally schedule their Null follow-up.
func (b *Bus) Publish(ev Event) tea.Cmd {
	if ev == nil {
		return nil
	}
	cmds := b.notify(ev)
	switch ev.Kind() {
	case KindClick:
		b.clickGen++
		b.lastClick = ev
		cmds = append(cmds, b.tick(KindClick, b.clickGen))
	case KindScroll:
		b.scrollGen++
		b.lastScroll = ev
		cmds = append(cmds, b.tick(KindScroll, b.scrollGen))
	}
	return tea.Batch(cmds...)
}

// HandleNullTick publishes the Null event for msg if no newer event of the
// same kind has arrived since it was scheduled.
func (b *Bus) HandleNullTick(msg NullTickMsg) tea.Cmd {
	switch msg.Of {
	case KindClick:
		if msg.Gen != b.clickGen || b.lastClick == nil {
			return nil
		}
		b.lastClick = nil
	case KindScroll:
		if msg.Gen != b.scrollGen || b.lastScroll == nil {
			return nil
		}
		b.lastScroll = nil
	default:
		return nil
	}
	return tea.Batch(b.notify(Null{Of: msg.Of})...)
}

// LastClick returns the click still inside its highlight window, or nil.
func (b *Bus) LastClick() Event { return b.lastClick }

// LastScroll returns the scroll still inside its highlight window, or nil.
func (b *Bus) LastScroll() Event { return b.lastScroll }

func (b *Bus) notify(ev Event) []tea.Cmd {
	subs := append([]subscriber(nil), b.subs...)
	cmds := make([]tea.Cmd, 0, len(subs))
	for _, s := range subs {
		if cmd := s.fn(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (b *Bus) tick(kind Kind, gen uint64) tea.Cmd {
	return tea.Tick(b.delay, func(time.Time) tea.Msg {
		return NullTickMsg{Of: kind, Gen: gen}
	})
}
