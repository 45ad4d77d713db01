package mouse

import (
	"bytes"
	"testing"
)

func TestScanSplitsMouseAndKeys(t *testing.T) {
	segments, rest := Scan([]byte("ab\x1b[<0;1;2Mc\x1b[<64;3;4M"))
	if rest != nil {
		t.Fatalf("unexpected rest %q", rest)
	}
	want := []Segment{
		{Data: []byte("ab")},
		{Mouse: true, Data: []byte("\x1b[<0;1;2M")},
		{Data: []byte("c")},
		{Mouse: true, Data: []byte("\x1b[<64;3;4M")},
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segments), len(want), segments)
	}
	for i := range want {
		if segments[i].Mouse != want[i].Mouse || !bytes.Equal(segments[i].Data, want[i].Data) {
			t.Fatalf("segment %d = %+v, want %+v", i, segments[i], want[i])
		}
	}
}

func TestScanHoldsBackPartialReport(t *testing.T) {
	segments, rest := Scan([]byte("x\x1b[<35;10"))
	if len(segments) != 1 || string(segments[0].Data) != "x" {
		t.Fatalf("unexpected segments %+v", segments)
	}
	if string(rest) != "\x1b[<35;10" {
		t.Fatalf("rest = %q", rest)
	}
}

func TestScanDoesNotHoldLoneEscape(t *testing.T) {
	for _, in := range []string{"\x1b", "\x1b["} {
		segments, rest := Scan([]byte(in))
		if rest != nil || len(segments) != 1 || string(segments[0].Data) != in {
			t.Fatalf("Scan(%q) = %+v, %q", in, segments, rest)
		}
	}
}

func TestScanPassesThroughInvalidReport(t *testing.T) {
	segments, rest := Scan([]byte("\x1b[<1;2x"))
	if rest != nil || len(segments) != 1 || segments[0].Mouse {
		t.Fatalf("unexpected scan result %+v %q", segments, rest)
	}
}
