package mouse

import "testing"

func TestDecodeExamples(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Event
		ok    bool
	}{
		{name: "scroll up", input: "\x1b[<64;10;5M", want: Scroll{Direction: DirectionUp, Position: Position{10, 5}}, ok: true},
		{name: "scroll down", input: "\x1b[<65;3;4M", want: Scroll{Direction: DirectionDown, Position: Position{3, 4}}, ok: true},
		{name: "scroll release is invalid", input: "\x1b[<64;10;5m"},
		{name: "move none released is noise", input: "\x1b[<35;1;1m"},
		{name: "move none pressed", input: "\x1b[<35;7;8M", want: Move{Button: ButtonNone, State: StatePressed, Position: Position{7, 8}}, ok: true},
		{name: "drag left", input: "\x1b[<32;2;3M", want: Move{Button: ButtonLeft, State: StatePressed, Position: Position{2, 3}}, ok: true},
		{name: "move right released", input: "\x1b[<34;2;3m", want: Move{Button: ButtonRight, State: StateReleased, Position: Position{2, 3}}, ok: true},
		{name: "click left pressed", input: "\x1b[<0;1;1M", want: Click{Button: ButtonLeft, State: StatePressed, Position: Position{1, 1}}, ok: true},
		{name: "click left released", input: "\x1b[<0;1;1m", want: Click{Button: ButtonLeft, State: StateReleased, Position: Position{1, 1}}, ok: true},
		{name: "click middle", input: "\x1b[<1;4;4M", want: Click{Button: ButtonMiddle, State: StatePressed, Position: Position{4, 4}}, ok: true},
		{name: "click right", input: "\x1b[<2;4;4M", want: Click{Button: ButtonRight, State: StatePressed, Position: Position{4, 4}}, ok: true},
		{name: "ctrl click", input: "\x1b[<16;5;6M", want: Click{Button: ButtonLeft, State: StatePressed, Position: Position{5, 6}, Modifiers: Modifiers{Ctrl: true}}, ok: true},
		{name: "alt scroll", input: "\x1b[<72;1;2M", want: Scroll{Direction: DirectionUp, Position: Position{1, 2}, Modifiers: Modifiers{Alt: true}}, ok: true},
		{name: "ctrl alt drag", input: "\x1b[<56;9;9M", want: Move{Button: ButtonLeft, State: StatePressed, Position: Position{9, 9}, Modifiers: Modifiers{Ctrl: true, Alt: true}}, ok: true},
		{name: "malformed coordinates", input: "\x1b[<0;x;M", want: Click{Button: ButtonLeft, State: StatePressed}, ok: true},
		{name: "missing coordinates", input: "\x1b[<0M", want: Click{Button: ButtonLeft, State: StatePressed}, ok: true},
		{name: "unknown class", input: "\x1b[<3;1;1M"},
		{name: "wrong prefix", input: "\x1b[M abc"},
		{name: "bad terminator", input: "\x1b[<0;1;1X"},
		{name: "non numeric code", input: "\x1b[<a;1;1M"},
		{name: "empty", input: ""},
		{name: "prefix only", input: "\x1b[<"},
		{name: "plain key", input: "q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode([]byte(tt.input))
			if ok != tt.ok {
				t.Fatalf("Decode(%q) ok = %v, want %v (event %v)", tt.input, ok, tt.ok, got)
			}
			if ok && got != tt.want {
				t.Fatalf("Decode(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeClassTable(t *testing.T) {
	for code, c := range classes {
		for _, mods := range []int{0, ctrlBit, altBit, ctrlBit | altBit} {
			for _, term := range []string{"M", "m"} {
				input := string(sgrPrefix) + itoa(code|mods) + ";4;2" + term
				ev, ok := Decode([]byte(input))
				switch {
				case c.kind == KindScroll && term == "m":
					if ok {
						t.Fatalf("%q: expected scroll release to be rejected", input)
					}
					continue
				case c.kind == KindMove && c.button == ButtonNone && term == "m":
					if ok {
						t.Fatalf("%q: expected released move without button to be rejected", input)
					}
					continue
				}
				if !ok {
					t.Fatalf("%q: expected event", input)
				}
				if ev.Kind() != c.kind {
					t.Fatalf("%q: kind %v, want %v", input, ev.Kind(), c.kind)
				}
				if ev.Mods() != (Modifiers{Ctrl: mods&ctrlBit != 0, Alt: mods&altBit != 0}) {
					t.Fatalf("%q: modifiers %+v", input, ev.Mods())
				}
				if ev.Pos() != (Position{4, 2}) {
					t.Fatalf("%q: position %+v", input, ev.Pos())
				}
				if !IsMouseEvent([]byte(input)) {
					t.Fatalf("%q: IsMouseEvent false", input)
				}
			}
		}
	}
}

func TestDecodeIsPure(t *testing.T) {
	in := []byte("\x1b[<32;11;12M")
	a, okA := Decode(in)
	b, okB := Decode(in)
	if a != b || okA != okB {
		t.Fatalf("Decode is not deterministic: %v vs %v", a, b)
	}
	if string(in) != "\x1b[<32;11;12M" {
		t.Fatalf("Decode mutated its input")
	}
}

func TestIsMouseEvent(t *testing.T) {
	if !IsMouseEvent([]byte("\x1b[<65;1;1M")) {
		t.Fatal("expected scroll report to be recognized")
	}
	if IsMouseEvent([]byte("\x1b[<3;1;1M")) {
		t.Fatal("unknown class must not be recognized")
	}
	if IsMouseEvent([]byte("\x1b[A")) {
		t.Fatal("cursor key must not be recognized")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	events := []Event{
		Scroll{Direction: DirectionDown, Position: Position{3, 9}, Modifiers: Modifiers{Ctrl: true}},
		Move{Button: ButtonMiddle, State: StatePressed, Position: Position{1, 2}},
		Click{Button: ButtonRight, State: StateReleased, Position: Position{80, 24}, Modifiers: Modifiers{Alt: true}},
	}
	for _, ev := range events {
		got, ok := Decode(Encode(ev))
		if !ok || got != ev {
			t.Fatalf("round trip of %v gave %v (%v)", ev, got, ok)
		}
	}
	if Encode(Null{Of: KindClick}) != nil {
		t.Fatal("null events have no wire form")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
