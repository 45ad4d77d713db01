package mouse

import (
	"io"
	"sync"

	"github.com/tabdeck/tabdeck/internal/logging"
)

// File is the subset of *os.File the program input needs. Keeping the file
// descriptor visible lets the event loop put the terminal in raw mode and
// cancel pending reads itself.
type File interface {
	io.ReadWriteCloser
	Fd() uintptr
	Name() string
}

// Splitter sits between the terminal and the key parser. Complete SGR mouse
// reports are decoded and handed to the sink; all other bytes pass through.
// Every Read performs at most one read of the underlying file so that
// readiness-based cancellation keeps working.
type Splitter struct {
	f File

	mu   sync.Mutex
	sink func(Event)

	pending []byte
	out     []byte
	err     error
	buf     []byte
}

// NewSplitter wraps f. Events decoded before a sink is set are dropped.
func NewSplitter(f File, sink func(Event)) *Splitter {
	return &Splitter{f: f, sink: sink, buf: make([]byte, 4096)}
}

// SetSink replaces the event receiver, typically with the program's Send.
func (s *Splitter) SetSink(sink func(Event)) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

func (s *Splitter) deliver(ev Event) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

// Read returns pass-through bytes. It may return 0, nil when a read
// contained only mouse reports.
func (s *Splitter) Read(p []byte) (int, error) {
	if len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		n, err := s.f.Read(s.buf)
		s.feed(s.buf[:n])
		if err != nil {
			// Nothing more will complete a held-back report.
			s.out = append(s.out, s.pending...)
			s.pending = nil
			s.err = err
			if len(s.out) == 0 {
				return 0, err
			}
		}
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

func (s *Splitter) feed(b []byte) {
	if len(b) == 0 {
		return
	}
	data := b
	if len(s.pending) > 0 {
		data = append(s.pending, b...)
		s.pending = nil
	}
	segments, rest := Scan(data)
	for _, seg := range segments {
		if !seg.Mouse {
			s.out = append(s.out, seg.Data...)
			continue
		}
		if ev, ok := Decode(seg.Data); ok {
			s.deliver(ev)
		} else if !IsMouseEvent(seg.Data) {
			logging.Debug("mouse: dropped unrecognized report %q", seg.Data)
		}
	}
	if len(rest) > 0 {
		s.pending = append([]byte(nil), rest...)
	}
}

func (s *Splitter) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *Splitter) Close() error                { return s.f.Close() }
func (s *Splitter) Fd() uintptr                 { return s.f.Fd() }
func (s *Splitter) Name() string                { return s.f.Name() }
