package supervisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNilSupervisorIsSafe(t *testing.T) {
	var s *Supervisor
	s.Start("noop", func(context.Context) error { return nil })
	s.OnError(func(string, error) {})
	s.Stop()
}

func TestStopCancelsWorker(t *testing.T) {
	s := New(context.Background())
	started := make(chan struct{})
	s.Start("blocker", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started
	s.Stop()
	if s.Context().Err() == nil {
		t.Fatal("context should be cancelled after Stop")
	}
}

func TestRestartOnErrorRetriesUntilSuccess(t *testing.T) {
	s := New(context.Background())
	defer s.Stop()

	var runs atomic.Int32
	s.Start("flaky", func(context.Context) error {
		if runs.Add(1) < 3 {
			return errors.New("not yet")
		}
		return nil
	}, WithBackoff(time.Millisecond, time.Millisecond))

	waitFor(t, func() bool { return runs.Load() == 3 })
	time.Sleep(20 * time.Millisecond)
	if got := runs.Load(); got != 3 {
		t.Fatalf("runs = %d, want 3 (success should end the worker)", got)
	}
}

func TestRestartNeverRunsOnce(t *testing.T) {
	s := New(context.Background())
	var runs atomic.Int32
	s.Start("once", func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}, WithPolicy(RestartNever))
	waitFor(t, func() bool { return runs.Load() == 1 })
	s.Stop()
	if got := runs.Load(); got != 1 {
		t.Fatalf("runs = %d, want 1", got)
	}
}

func TestMaxRestarts(t *testing.T) {
	s := New(context.Background())
	var runs atomic.Int32
	done := make(chan struct{})
	s.Start("limited", func(context.Context) error {
		if runs.Add(1) == 3 {
			close(done)
		}
		return errors.New("fail")
	}, WithMaxRestarts(2), WithBackoff(time.Millisecond, time.Millisecond))
	<-done
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	if got := runs.Load(); got != 3 {
		t.Fatalf("runs = %d, want 3 (first run plus two restarts)", got)
	}
}

func TestPanicIsReportedAsError(t *testing.T) {
	s := New(context.Background())
	defer s.Stop()

	var mu sync.Mutex
	var reported []string
	s.OnError(func(name string, err error) {
		mu.Lock()
		reported = append(reported, name+": "+err.Error())
		mu.Unlock()
	})
	s.Start("panicky", func(context.Context) error {
		panic("kaboom")
	}, WithPolicy(RestartNever))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) == 1
	})
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(reported[0], "panic in panicky") {
		t.Fatalf("reported = %q", reported[0])
	}
}

func TestStopDuringBackoff(t *testing.T) {
	s := New(context.Background())
	var runs atomic.Int32
	s.Start("slow", func(context.Context) error {
		runs.Add(1)
		return errors.New("fail")
	}, WithBackoff(time.Hour, time.Hour))
	waitFor(t, func() bool { return runs.Load() == 1 })

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop should interrupt the backoff")
	}
}
