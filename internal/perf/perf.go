// Package perf samples render and wrap timings. Collection is off unless
// TABDECK_PROFILE is set; summaries go to the log file.
package perf

import (
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tabdeck/tabdeck/internal/logging"
)

const (
	sampleWindow      = 256
	defaultIntervalMs = 5000
)

type stat struct {
	count   int64
	total   time.Duration
	min     time.Duration
	max     time.Duration
	samples [sampleWindow]time.Duration
	idx     int
	full    bool
}

type statSnapshot struct {
	name  string
	count int64
	avg   time.Duration
	min   time.Duration
	max   time.Duration
	p95   time.Duration
}

type counterSnapshot struct {
	name  string
	value int64
}

var (
	enabled     atomic.Bool
	logInterval atomic.Int64
	lastLog     atomic.Int64

	mu       sync.Mutex
	stats    = map[string]*stat{}
	counters = map[string]int64{}
)

func init() {
	enabled.Store(envEnabled())
	logInterval.Store(int64(envInterval()))
}

// Enabled reports whether profiling is enabled.
func Enabled() bool {
	return enabled.Load()
}

// Time returns a function that records elapsed time when invoked.
//
//	defer perf.Time("view")()
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() { Record(name, time.Since(start)) }
}

// Record captures a duration sample for the given name.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	s, ok := stats[name]
	if !ok {
		s = &stat{}
		stats[name] = s
	}
	s.count++
	s.total += d
	if s.count == 1 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.samples[s.idx] = d
	s.idx++
	if s.idx == sampleWindow {
		s.idx = 0
		s.full = true
	}
	mu.Unlock()
	maybeLog()
}

// Count increments a named counter by delta.
func Count(name string, delta int64) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	counters[name] += delta
	mu.Unlock()
	maybeLog()
}

func maybeLog() {
	interval := time.Duration(logInterval.Load())
	if interval <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if last != 0 && time.Duration(now-last) < interval {
		return
	}
	if !lastLog.CompareAndSwap(last, now) {
		return
	}
	emit("PERF")
}

// Flush logs a summary of current stats immediately.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	prefix := "PERF SUMMARY"
	if r := strings.TrimSpace(reason); r != "" {
		prefix += " " + r
	}
	emit(prefix)
}

func emit(prefix string) {
	ss, cs := snapshotAndReset()
	for _, s := range ss {
		logging.Info("%s %s count=%d avg=%s p95=%s min=%s max=%s",
			prefix, s.name, s.count, s.avg, s.p95, s.min, s.max)
	}
	for _, c := range cs {
		logging.Info("%s %s count=%d", prefix, c.name, c.value)
	}
}

func snapshotAndReset() ([]statSnapshot, []counterSnapshot) {
	mu.Lock()
	defer mu.Unlock()

	ss := make([]statSnapshot, 0, len(stats))
	for name, s := range stats {
		if s.count == 0 {
			continue
		}
		n := s.idx
		if s.full {
			n = sampleWindow
		}
		ss = append(ss, statSnapshot{
			name:  name,
			count: s.count,
			avg:   time.Duration(int64(s.total) / s.count),
			min:   s.min,
			max:   s.max,
			p95:   computeP95(s.samples[:n]),
		})
	}
	stats = map[string]*stat{}

	cs := make([]counterSnapshot, 0, len(counters))
	for name, v := range counters {
		if v != 0 {
			cs = append(cs, counterSnapshot{name: name, value: v})
		}
	}
	counters = map[string]int64{}

	sort.Slice(ss, func(i, j int) bool { return ss[i].name < ss[j].name })
	sort.Slice(cs, func(i, j int) bool { return cs[i].name < cs[j].name })
	return ss, cs
}

func computeP95(samples []time.Duration) time.Duration {
	n := len(samples)
	if n == 0 {
		return 0
	}
	window := make([]time.Duration, n)
	copy(window, samples)
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	pos := int(math.Ceil(0.95*float64(n))) - 1
	pos = max(0, min(pos, n-1))
	return window[pos]
}

func envEnabled() bool {
	raw := strings.TrimSpace(os.Getenv("TABDECK_PROFILE"))
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func envInterval() time.Duration {
	interval := defaultIntervalMs
	if raw := strings.TrimSpace(os.Getenv("TABDECK_PROFILE_INTERVAL_MS")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			interval = v
		}
	}
	return time.Duration(interval) * time.Millisecond
}
