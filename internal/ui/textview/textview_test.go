package textview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func numberedText(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %03d", i)
	}
	return strings.Join(lines, "\n")
}

func smallOptions() Options {
	return Options{Threshold: 100, ChunkRows: 10, Margin: 2}
}

func TestShortTextWrapsDirectly(t *testing.T) {
	r := New(DefaultOptions())
	r.SetText("hello world foo")
	if cmd := r.SetWidth(5); cmd != nil {
		t.Fatal("short text must not start a wrap job")
	}
	if r.Virtual() {
		t.Fatal("short text must not be virtualized")
	}
	lines := r.Lines()
	if len(lines) != 3 || lines[0] != "hello" || lines[2] != "foo" {
		t.Fatalf("unexpected wrap %v", lines)
	}
	chunks := r.Chunks(0, 1)
	if len(chunks) != 1 || chunks[0].Placeholder() {
		t.Fatalf("short text renders as one real chunk, got %+v", chunks)
	}
}

func TestLongTextUsesFallbackUntilWrapLands(t *testing.T) {
	r := New(smallOptions())
	r.SetText(numberedText(300))
	if !r.Virtual() {
		t.Fatal("expected virtualization")
	}
	cmd := r.SetWidth(20)
	if cmd == nil {
		t.Fatal("expected wrap command")
	}
	if r.Height() != 300 || !r.Pending() {
		t.Fatalf("fallback height %d pending=%v", r.Height(), r.Pending())
	}

	msg, ok := cmd().(WrapDoneMsg)
	if !ok {
		t.Fatal("expected WrapDoneMsg")
	}
	if msg.Token != r.Token() {
		t.Fatalf("token %d, want %d", msg.Token, r.Token())
	}
	if !r.HandleWrapDone(msg) {
		t.Fatal("current result should be installed")
	}
	if r.Pending() || r.Height() != 300 || r.Lines()[299] != "line 299" {
		t.Fatal("wrapped lines not installed")
	}
}

func TestOnlyNearbyChunksCarryText(t *testing.T) {
	r := New(smallOptions())
	r.SetText(numberedText(300))
	r.HandleWrapDone(r.SetWidth(20)().(WrapDoneMsg))

	for _, outer := range []int{1, 10, 25} {
		for scrollY := 0; scrollY <= 300-outer; scrollY += 7 {
			total := 0
			for _, c := range r.Chunks(scrollY, outer) {
				total += c.Rows
				intersects := c.Start <= scrollY+outer+2 && c.Start+c.Rows-1 >= scrollY-2
				if intersects == c.Placeholder() {
					t.Fatalf("scrollY=%d outer=%d: chunk at %d placeholder=%v", scrollY, outer, c.Start, c.Placeholder())
				}
				if !c.Placeholder() && len(c.Lines) != c.Rows {
					t.Fatalf("chunk at %d has %d lines for %d rows", c.Start, len(c.Lines), c.Rows)
				}
			}
			if total != 300 {
				t.Fatalf("chunks must preserve total height, got %d", total)
			}
		}
	}

	chunks := r.Chunks(50, 10)
	var real []int
	for _, c := range chunks {
		if !c.Placeholder() {
			real = append(real, c.Start)
		}
	}
	if fmt.Sprint(real) != "[40 50 60]" {
		t.Fatalf("real chunks = %v, want [40 50 60]", real)
	}
}

func TestWindowReturnsVisibleRows(t *testing.T) {
	r := New(smallOptions())
	r.SetText(numberedText(300))
	r.HandleWrapDone(r.SetWidth(20)().(WrapDoneMsg))

	w := r.Window(95, 10)
	if len(w) != 10 || w[0] != "line 095" || w[9] != "line 104" {
		t.Fatalf("unexpected window %v", w)
	}
	if got := r.Window(295, 10); len(got) != 5 {
		t.Fatalf("window past the end should be short, got %d rows", len(got))
	}
}

func TestNewerWidthCancelsOlderJob(t *testing.T) {
	r := New(smallOptions())
	r.SetText(numberedText(300))

	started := make(chan struct{})
	r.SetWrapFunc(func(ctx context.Context, raw []string, width int) ([]string, error) {
		if width == 20 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return WrapText(ctx, raw, width)
	})

	first := r.SetWidth(20)
	<-started
	second := r.SetWidth(30)

	if msg := first(); msg != nil {
		t.Fatalf("cancelled job should yield nothing, got %T", msg)
	}
	msg := second().(WrapDoneMsg)
	if !r.HandleWrapDone(msg) {
		t.Fatal("latest result should be installed")
	}
}

func TestStaleResultIsDiscarded(t *testing.T) {
	r := New(smallOptions())
	r.SetText(numberedText(300))
	r.SetWrapFunc(func(ctx context.Context, raw []string, width int) ([]string, error) {
		return []string{fmt.Sprintf("w%d", width)}, nil
	})

	first := r.SetWidth(20)
	msg := first().(WrapDoneMsg)
	r.SetWidth(30)
	if r.HandleWrapDone(msg) {
		t.Fatal("superseded result must be discarded")
	}
	if r.Height() != 300 {
		t.Fatalf("fallback should remain, height %d", r.Height())
	}

	other := New(smallOptions())
	if other.HandleWrapDone(msg) {
		t.Fatal("result for another renderer must be discarded")
	}
}

func TestWrapFailuresAreSwallowed(t *testing.T) {
	r := New(smallOptions())
	r.SetText(numberedText(300))

	r.SetWrapFunc(func(context.Context, []string, int) ([]string, error) {
		return nil, errors.New("boom")
	})
	if msg := r.SetWidth(20)(); msg != nil {
		t.Fatalf("failed wrap should yield nothing, got %T", msg)
	}

	r.SetWrapFunc(func(context.Context, []string, int) ([]string, error) {
		panic("wrap exploded")
	})
	if msg := r.SetWidth(25)(); msg != nil {
		t.Fatalf("panicking wrap should yield nothing, got %T", msg)
	}
	if r.Height() != 300 {
		t.Fatalf("fallback must stay on screen, height %d", r.Height())
	}
}

func TestRemeasureTick(t *testing.T) {
	r := New(smallOptions())
	width := 20
	r.SetWidthSource(func() int { return width })
	r.SetText(numberedText(300))

	gen := r.tickGen
	if gen == 0 {
		t.Fatal("virtualized text should start the re-measure loop")
	}
	if cmd := r.HandleTick(TickMsg{owner: r, gen: gen}); cmd == nil {
		t.Fatal("current tick should reschedule")
	}
	if r.Width() != 20 {
		t.Fatalf("width = %d, want 20", r.Width())
	}
	if r.HandleTick(TickMsg{owner: r, gen: gen - 1}) != nil {
		t.Fatal("stale tick must be ignored")
	}

	r.SetText("short now")
	if r.HandleTick(TickMsg{owner: r, gen: r.tickGen}) != nil {
		t.Fatal("loop must stop once text is no longer virtualized")
	}

	r.Close()
	if r.StartRemeasure() != nil {
		t.Fatal("closed renderer must not tick")
	}
}

func TestNaiveSlice(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"abcdef", 4, []string{"abcd", "ef"}},
		{"", 4, []string{""}},
		{"日本語", 4, []string{"日本", "語"}},
		{"ab", 1, []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := NaiveSlice([]string{tt.in}, tt.width)
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Fatalf("NaiveSlice(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	if NaiveSlice([]string{"x"}, 0) != nil {
		t.Fatal("zero width yields nothing")
	}
}

// textOfLength returns n characters of short lines.
func textOfLength(n int) string {
	line := strings.Repeat("a", 49) + "\n"
	s := strings.Repeat(line, n/len(line)+1)
	return s[:n]
}

func TestDefaultThresholdBoundary(t *testing.T) {
	r := New(DefaultOptions())
	r.SetText(textOfLength(Threshold))
	if r.Virtual() {
		t.Fatalf("%d characters must render directly", Threshold)
	}
	if cmd := r.SetWidth(40); cmd != nil {
		t.Fatal("direct text must not start a wrap job")
	}
	if chunks := r.Chunks(0, 10); len(chunks) != 1 || chunks[0].Placeholder() {
		t.Fatalf("direct text is one real chunk, got %d chunks", len(chunks))
	}

	r = New(DefaultOptions())
	r.SetText(textOfLength(Threshold + 1))
	if !r.Virtual() {
		t.Fatalf("%d characters must be virtualized", Threshold+1)
	}
	if cmd := r.SetWidth(40); cmd == nil {
		t.Fatal("virtualized text should start a wrap job")
	}
	r.Close()
}

func TestDefaultMarginCulling(t *testing.T) {
	r := New(DefaultOptions())
	r.SetText(numberedText(6000))
	if !r.Virtual() {
		t.Fatal("expected virtualization at the default threshold")
	}
	r.HandleWrapDone(r.SetWidth(20)().(WrapDoneMsg))
	defer r.Close()

	for _, outer := range []int{1, 24, 60} {
		for scrollY := 0; scrollY <= 6000-outer; scrollY += 37 {
			lo, hi := scrollY-DefaultMargin, scrollY+outer+DefaultMargin
			total := 0
			for _, c := range r.Chunks(scrollY, outer) {
				total += c.Rows
				if c.Start%ChunkRows != 0 || c.Rows > ChunkRows {
					t.Fatalf("chunk at %d has %d rows", c.Start, c.Rows)
				}
				intersects := c.Start <= hi && c.Start+c.Rows-1 >= lo
				if intersects == c.Placeholder() {
					t.Fatalf("scrollY=%d outer=%d: chunk at %d placeholder=%v", scrollY, outer, c.Start, c.Placeholder())
				}
			}
			if total != 6000 {
				t.Fatalf("chunks must preserve total height, got %d", total)
			}
		}
	}

	tests := []struct {
		scrollY, outer int
		want           string
	}{
		{0, 20, "[0]"},
		{120, 30, "[100]"},
		{296, 20, "[200 300]"},
		{196, 10, "[100 200]"},
	}
	for _, tt := range tests {
		var real []int
		for _, c := range r.Chunks(tt.scrollY, tt.outer) {
			if !c.Placeholder() {
				real = append(real, c.Start)
			}
		}
		if fmt.Sprint(real) != tt.want {
			t.Fatalf("scrollY=%d outer=%d: real chunks = %v, want %s", tt.scrollY, tt.outer, real, tt.want)
		}
	}
}
