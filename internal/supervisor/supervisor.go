// Package supervisor keeps background workers alive for the lifetime of
// the program, restarting them with backoff when they fail.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/safego"
)

// Policy controls when a worker is restarted.
type Policy int

const (
	RestartNever Policy = iota
	RestartOnError
	RestartAlways
)

type options struct {
	policy      Policy
	maxRestarts int
	backoff     time.Duration
	maxBackoff  time.Duration
}

// Option configures a single worker.
type Option func(*options)

// WithPolicy sets the restart policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithMaxRestarts limits the number of restarts (0 = unlimited).
func WithMaxRestarts(n int) Option {
	return func(o *options) { o.maxRestarts = n }
}

// WithBackoff sets the first delay between restarts and its cap. The delay
// doubles after each restart.
func WithBackoff(initial, limit time.Duration) Option {
	return func(o *options) {
		o.backoff = initial
		o.maxBackoff = limit
	}
}

// Supervisor owns a set of workers bound to one context.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	onError func(name string, err error)
}

// New creates a supervisor bound to the parent context.
func New(parent context.Context) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the supervisor stops.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// OnError registers a handler for worker failures. Panics arrive as errors.
func (s *Supervisor) OnError(fn func(name string, err error)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// Stop cancels all workers and waits for them to exit.
func (s *Supervisor) Stop() {
	if s == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// Start runs fn under supervision until the supervisor stops or the policy
// says the worker is done.
func (s *Supervisor) Start(name string, fn func(context.Context) error, opts ...Option) {
	if s == nil || fn == nil {
		return
	}
	cfg := options{
		policy:     RestartOnError,
		backoff:    200 * time.Millisecond,
		maxBackoff: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBackoff < cfg.backoff {
		cfg.maxBackoff = cfg.backoff
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(name, fn, cfg)
	}()
}

func (s *Supervisor) loop(name string, fn func(context.Context) error, cfg options) {
	restarts := 0
	delay := cfg.backoff
	for {
		err := s.runOnce(name, fn)
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			s.report(name, err)
		}
		if !shouldRestart(err, cfg.policy) {
			return
		}
		restarts++
		if cfg.maxRestarts > 0 && restarts > cfg.maxRestarts {
			logging.Error("supervisor: %s gave up after %d restarts", name, cfg.maxRestarts)
			return
		}
		logging.Debug("supervisor: restarting %s in %s", name, delay)
		if !s.sleep(delay) {
			return
		}
		delay = min(delay*2, cfg.maxBackoff)
	}
}

// runOnce runs fn with panic recovery; a panic becomes an error.
func (s *Supervisor) runOnce(name string, fn func(context.Context) error) error {
	var err error
	if ok := safego.Run(name, func() { err = fn(s.ctx) }); !ok {
		return fmt.Errorf("panic in %s", name)
	}
	return err
}

func (s *Supervisor) report(name string, err error) {
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()
	if fn != nil {
		fn(name, err)
		return
	}
	logging.Warn("supervisor: %s failed: %v", name, err)
}

// sleep waits d or until the supervisor stops. It reports whether the
// supervisor is still running.
func (s *Supervisor) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func shouldRestart(err error, p Policy) bool {
	switch p {
	case RestartAlways:
		return true
	case RestartOnError:
		return err != nil
	default:
		return false
	}
}
