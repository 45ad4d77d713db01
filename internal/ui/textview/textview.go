// Package textview renders large scrollable text. Short text is wrapped
// directly; long text is wrapped off the update loop and only the chunks
// near the viewport are formatted.
package textview

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tabdeck/tabdeck/internal/perf"
)

const (
	// Threshold is the character count above which text is virtualized.
	Threshold = 50_000
	// ChunkRows is the number of wrapped rows per chunk.
	ChunkRows = 100
	// DefaultMargin is the number of rows kept formatted beyond each edge of
	// the viewport.
	DefaultMargin = 5
	// DefaultRemeasureInterval is how often the width is re-read while
	// virtualized.
	DefaultRemeasureInterval = time.Second
)

// Options tune virtualization. Zero values use the package defaults.
type Options struct {
	Threshold int
	ChunkRows int
	Margin    int
	Interval  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = Threshold
	}
	if o.ChunkRows <= 0 {
		o.ChunkRows = ChunkRows
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Interval <= 0 {
		o.Interval = DefaultRemeasureInterval
	}
	return o
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// Chunk is a run of wrapped rows. Lines is nil for a placeholder chunk,
// which still accounts for Rows rows of height.
type Chunk struct {
	Start int
	Rows  int
	Lines []string
}

// Placeholder reports whether the chunk carries no text.
func (c Chunk) Placeholder() bool { return c.Lines == nil }

// Renderer holds one text and its wrapped form for the current width.
type Renderer struct {
	opts Options

	text    string
	raw     []string
	width   int
	virtual bool

	// direct is the synchronous wrap used below the threshold.
	direct []string
	// fallback is the naive slicing shown until the async wrap lands.
	fallback []string
	// wrapped is the async result for wrappedWidth.
	wrapped      []string
	wrappedWidth int

	job     *wrapJob
	token   uint64
	wrapper WrapFunc

	widthFn func() int
	tickGen uint64
	closed  bool
}

// New returns an empty renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts.withDefaults(), wrapper: WrapText}
}

// SetOptions replaces the tuning and re-evaluates virtualization for the
// current text.
func (r *Renderer) SetOptions(opts Options) tea.Cmd {
	r.opts = opts.withDefaults()
	return r.reset()
}

// Virtual reports whether the current text is virtualized.
func (r *Renderer) Virtual() bool { return r.virtual }

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// Text returns the raw text.
func (r *Renderer) Text() string { return r.text }

// SetText replaces the text. A wrap job is started when the text is long
// enough to be virtualized and a width is known.
func (r *Renderer) SetText(text string) tea.Cmd {
	if text == r.text && r.raw != nil {
		return nil
	}
	r.text = text
	r.raw = strings.Split(text, "\n")
	return r.reset()
}

func (r *Renderer) reset() tea.Cmd {
	wasVirtual := r.virtual
	r.virtual = utf8.RuneCountInString(r.text) > r.opts.Threshold
	r.cancelJob()
	r.wrapped = nil
	r.wrappedWidth = 0
	r.direct = nil
	r.fallback = nil
	r.rebuild()

	var cmds []tea.Cmd
	if r.virtual {
		cmds = append(cmds, r.startWrap())
		if !wasVirtual {
			cmds = append(cmds, r.StartRemeasure())
		}
	}
	return tea.Batch(cmds...)
}

// SetWidth changes the wrap width. For virtualized text this cancels any
// wrap in flight and starts a new one.
func (r *Renderer) SetWidth(width int) tea.Cmd {
	width = max(0, width)
	if width == r.width {
		return nil
	}
	r.width = width
	r.rebuild()
	if !r.virtual {
		return nil
	}
	return r.startWrap()
}

func (r *Renderer) rebuild() {
	if r.width <= 0 {
		r.direct, r.fallback = nil, nil
		return
	}
	if r.virtual {
		if r.wrappedWidth != r.width {
			done := perf.Time("textview.fallback")
			r.fallback = NaiveSlice(r.raw, r.width)
			done()
		}
		return
	}
	r.direct = wrapLines(r.raw, r.width)
}

// Lines returns the wrapped rows for the current width: the direct wrap,
// the async result once it matches the width, or the naive fallback.
func (r *Renderer) Lines() []string {
	switch {
	case !r.virtual:
		return r.direct
	case r.wrapped != nil && r.wrappedWidth == r.width:
		return r.wrapped
	default:
		return r.fallback
	}
}

// Height is the number of wrapped rows.
func (r *Renderer) Height() int {
	return len(r.Lines())
}

// Chunks partitions the rows into chunks. A chunk carries real text iff it
// intersects [scrollY-margin, scrollY+outer+margin]; every other chunk is a
// placeholder of the same height. Text below the threshold is one chunk.
func (r *Renderer) Chunks(scrollY, outer int) []Chunk {
	lines := r.Lines()
	if !r.virtual {
		if len(lines) == 0 {
			return nil
		}
		return []Chunk{{Start: 0, Rows: len(lines), Lines: r.format(lines)}}
	}

	done := perf.Time("textview.chunks")
	defer done()

	lo := scrollY - r.opts.Margin
	hi := scrollY + outer + r.opts.Margin
	size := r.opts.ChunkRows
	chunks := make([]Chunk, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		c := Chunk{Start: start, Rows: end - start}
		if start <= hi && end-1 >= lo {
			c.Lines = r.format(lines[start:end])
			perf.Count("textview.chunks.real", 1)
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// Window returns outer rows starting at scrollY, assembled from Chunks.
// Rows that fall in a placeholder render empty.
func (r *Renderer) Window(scrollY, outer int) []string {
	if outer <= 0 {
		return nil
	}
	out := make([]string, 0, outer)
	end := scrollY + outer
	for _, c := range r.Chunks(scrollY, outer) {
		if c.Start+c.Rows <= scrollY || c.Start >= end {
			continue
		}
		from := max(scrollY, c.Start)
		to := min(end, c.Start+c.Rows)
		for row := from; row < to; row++ {
			if c.Placeholder() {
				out = append(out, "")
				continue
			}
			out = append(out, c.Lines[row-c.Start])
		}
	}
	return out
}

// format clips each row to the width. Rows are copied so callers never
// alias the wrap cache.
func (r *Renderer) format(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if r.width > 0 && ansi.StringWidth(l) > r.width {
			l = ansi.Truncate(l, r.width, "")
		}
		out[i] = l
	}
	return out
}

// SetWidthSource installs the function polled by the re-measure tick.
func (r *Renderer) SetWidthSource(fn func() int) {
	r.widthFn = fn
}

// TickMsg is the periodic width re-measure of one renderer.
type TickMsg struct {
	owner *Renderer
	gen   uint64
}

// StartRemeasure begins polling the width source while virtualized.
func (r *Renderer) StartRemeasure() tea.Cmd {
	if r.closed || r.widthFn == nil || !r.virtual {
		return nil
	}
	r.tickGen++
	return r.tick()
}

// HandleTick re-reads the width on a current tick and re-wraps when it
// changed. The loop stops once the text is no longer virtualized.
func (r *Renderer) HandleTick(msg TickMsg) tea.Cmd {
	if msg.owner != r || msg.gen != r.tickGen || r.closed || !r.virtual || r.widthFn == nil {
		return nil
	}
	return tea.Batch(r.SetWidth(r.widthFn()), r.tick())
}

func (r *Renderer) tick() tea.Cmd {
	gen := r.tickGen
	return tea.Tick(r.opts.Interval, func(time.Time) tea.Msg {
		return TickMsg{owner: r, gen: gen}
	})
}

// Close cancels any wrap job and stops the re-measure loop.
func (r *Renderer) Close() {
	r.closed = true
	r.tickGen++
	r.cancelJob()
}

// Update routes the renderer's own messages. It returns nil for anything
// else.
func (r *Renderer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case WrapDoneMsg:
		r.HandleWrapDone(msg)
	case TickMsg:
		return r.HandleTick(msg)
	}
	return nil
}

// wrapLines word-wraps each raw line, hard-breaking words longer than width.
func wrapLines(raw []string, width int) []string {
	out, _ := WrapText(context.Background(), raw, width)
	return out
}

// WrapText is the default WrapFunc. It checks ctx between lines.
func WrapText(ctx context.Context, raw []string, width int) ([]string, error) {
	out := make([]string, 0, len(raw))
	for i, line := range raw {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if ansi.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, strings.Split(ansi.Wrap(line, width, ""), "\n")...)
	}
	return out, nil
}
