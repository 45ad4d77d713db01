package perf

import "time"

// StatSnapshot captures perf duration stats for diagnostics/tests.
type StatSnapshot struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// CounterSnapshot captures perf counters for diagnostics/tests.
type CounterSnapshot struct {
	Name  string
	Value int64
}

// EnableForTest forces collection on with periodic logging disabled and
// returns a function restoring the previous settings.
func EnableForTest() func() {
	prevEnabled := enabled.Load()
	prevInterval := logInterval.Load()
	enabled.Store(true)
	logInterval.Store(0)
	lastLog.Store(0)
	return func() {
		enabled.Store(prevEnabled)
		logInterval.Store(prevInterval)
	}
}

// Snapshot returns current stats/counters and resets them.
func Snapshot() ([]StatSnapshot, []CounterSnapshot) {
	ss, cs := snapshotAndReset()
	statsOut := make([]StatSnapshot, 0, len(ss))
	for _, s := range ss {
		statsOut = append(statsOut, StatSnapshot{Name: s.name, Count: s.count, Avg: s.avg, Min: s.min, Max: s.max, P95: s.p95})
	}
	countersOut := make([]CounterSnapshot, 0, len(cs))
	for _, c := range cs {
		countersOut = append(countersOut, CounterSnapshot{Name: c.name, Value: c.value})
	}
	return statsOut, countersOut
}
