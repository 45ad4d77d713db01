package safego

import (
	"runtime/debug"
	"sync"

	"github.com/tabdeck/tabdeck/internal/logging"
)

// PanicHandler receives panic details from recovered goroutines.
type PanicHandler func(name string, recovered any, stack []byte)

var (
	handlerMu sync.RWMutex
	handler   PanicHandler
)

// SetPanicHandler registers a global handler for recovered panics.
func SetPanicHandler(h PanicHandler) {
	handlerMu.Lock()
	handler = h
	handlerMu.Unlock()
}

func currentHandler() PanicHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler
}

// Run executes fn and converts panics into logged errors. It reports whether
// fn returned normally. Runtime-fatal errors (concurrent map writes) are not
// recoverable.
func Run(name string, fn func()) (ok bool) {
	if name == "" {
		name = "goroutine"
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ok = false
		stack := debug.Stack()
		logging.Error("panic in %s: %v\n%s", name, r, stack)
		if h := currentHandler(); h != nil {
			func() {
				defer func() { _ = recover() }()
				h(name, r, stack)
			}()
		}
	}()
	fn()
	return true
}

// Go runs fn in a new goroutine with panic recovery.
func Go(name string, fn func()) {
	go Run(name, fn)
}

// GoDone runs fn in a new goroutine and closes the returned channel once it
// has finished, whether or not it panicked.
func GoDone(name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(name, fn)
	}()
	return done
}
