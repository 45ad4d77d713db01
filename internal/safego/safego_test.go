package safego

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunReportsNormalReturn(t *testing.T) {
	called := false
	if ok := Run("test", func() { called = true }); !ok || !called {
		t.Fatalf("Run() = %v, called = %v", ok, called)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	if ok := Run("test-panic", func() { panic("boom") }); ok {
		t.Fatalf("expected Run to report the panic")
	}
}

func TestRunCallsPanicHandler(t *testing.T) {
	var (
		mu    sync.Mutex
		name  string
		value any
	)
	SetPanicHandler(func(n string, recovered any, stack []byte) {
		mu.Lock()
		name, value = n, recovered
		mu.Unlock()
	})
	defer SetPanicHandler(nil)

	Run("wrap-worker", func() { panic("oops") })

	mu.Lock()
	defer mu.Unlock()
	if name != "wrap-worker" || value != "oops" {
		t.Fatalf("handler got name=%q value=%v", name, value)
	}
}

func TestRunDefaultsName(t *testing.T) {
	var got atomic.Value
	SetPanicHandler(func(n string, recovered any, stack []byte) { got.Store(n) })
	defer SetPanicHandler(nil)

	Run("", func() { panic("x") })
	if got.Load() != "goroutine" {
		t.Fatalf("expected default name, got %v", got.Load())
	}
}

func TestPanickingHandlerIsContained(t *testing.T) {
	SetPanicHandler(func(string, any, []byte) { panic("handler") })
	defer SetPanicHandler(nil)
	Run("test", func() { panic("original") })
}

func TestGoDoneClosesAfterPanic(t *testing.T) {
	done := GoDone("test", func() { panic("late") })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for goroutine")
	}
}

func TestGoRunsFunction(t *testing.T) {
	var called int32
	var wg sync.WaitGroup
	wg.Add(1)
	Go("test", func() {
		atomic.StoreInt32(&called, 1)
		wg.Done()
	})
	wg.Wait()
	if atomic.LoadInt32(&called) != 1 {
		t.Fatal("function was not called")
	}
}
