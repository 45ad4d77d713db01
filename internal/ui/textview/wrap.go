package textview

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/perf"
	"github.com/tabdeck/tabdeck/internal/safego"
)

// WrapFunc wraps raw lines to width. It should return ctx.Err() promptly
// once ctx is cancelled.
type WrapFunc func(ctx context.Context, raw []string, width int) ([]string, error)

// WrapDoneMsg delivers a finished wrap. It is discarded unless Token is the
// renderer's latest.
type WrapDoneMsg struct {
	Token uint64

	owner *Renderer
	width int
	lines []string
}

type wrapResult struct {
	lines []string
	err   error
}

type wrapJob struct {
	token  uint64
	cancel context.CancelFunc
}

// SetWrapFunc replaces the wrap implementation.
func (r *Renderer) SetWrapFunc(fn WrapFunc) {
	if fn == nil {
		fn = WrapText
	}
	r.wrapper = fn
}

// Token is the token of the latest wrap request.
func (r *Renderer) Token() uint64 { return r.token }

// Pending reports whether a wrap job is in flight.
func (r *Renderer) Pending() bool { return r.job != nil }

func (r *Renderer) cancelJob() {
	if r.job != nil {
		r.job.cancel()
		r.job = nil
	}
}

// startWrap cancels the job in flight and starts a new one for the current
// width. The returned command blocks until the job finishes and yields a
// WrapDoneMsg, or nil if the job failed or was cancelled.
func (r *Renderer) startWrap() tea.Cmd {
	r.cancelJob()
	if r.width <= 0 || r.closed {
		return nil
	}

	r.token++
	token, width, raw, wrap := r.token, r.width, r.raw, r.wrapper
	ctx, cancel := context.WithCancel(context.Background())
	r.job = &wrapJob{token: token, cancel: cancel}

	results := make(chan wrapResult, 1)
	done := safego.GoDone("textview.wrap", func() {
		stop := perf.Time("textview.wrap")
		defer stop()
		lines, err := wrap(ctx, raw, width)
		results <- wrapResult{lines: lines, err: err}
	})

	return func() tea.Msg {
		var res wrapResult
		select {
		case res = <-results:
		case <-done:
			// Panicked; safego already logged it.
			select {
			case res = <-results:
			default:
				return nil
			}
		}
		if res.err != nil {
			if ctx.Err() == nil {
				logging.Debug("textview: wrap at width %d failed: %v", width, res.err)
			}
			return nil
		}
		return WrapDoneMsg{Token: token, owner: r, width: width, lines: res.lines}
	}
}

// HandleWrapDone installs a wrap result if it is the latest one. It reports
// whether the result was used.
func (r *Renderer) HandleWrapDone(msg WrapDoneMsg) bool {
	if msg.owner != r || msg.Token != r.token || msg.width != r.width {
		perf.Count("textview.wrap.stale", 1)
		return false
	}
	if r.job != nil && r.job.token == msg.Token {
		r.job.cancel()
		r.job = nil
	}
	r.wrapped = msg.lines
	r.wrappedWidth = msg.width
	r.fallback = nil
	return true
}

// NaiveSlice cuts each raw line into runs of at most width cells by rune
// width alone. Escape sequences and grapheme clusters are not understood,
// so wide glyphs may be misjudged.
func NaiveSlice(raw []string, width int) []string {
	if width <= 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line == "" {
			out = append(out, "")
			continue
		}
		start, cells := 0, 0
		for i, ch := range line {
			w := runewidth.RuneWidth(ch)
			if cells+w > width && cells > 0 {
				out = append(out, line[start:i])
				start, cells = i, 0
			}
			cells += w
		}
		out = append(out, line[start:])
	}
	return out
}
