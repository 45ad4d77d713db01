package perf

import (
	"testing"
	"time"
)

func TestComputeP95(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5}
	for i := range samples {
		samples[i] *= time.Millisecond
	}
	if got := computeP95(samples); got != 5*time.Millisecond {
		t.Fatalf("expected p95=5ms, got %s", got)
	}
	if got := computeP95(nil); got != 0 {
		t.Fatalf("expected 0 for empty window, got %s", got)
	}
}

func TestSnapshotAndReset(t *testing.T) {
	restore := EnableForTest()
	defer restore()
	Snapshot()

	Record("wrap", 50*time.Millisecond)
	Record("view", 10*time.Millisecond)
	Record("wrap", 150*time.Millisecond)
	Count("chunks.rendered", 2)

	ss, cs := Snapshot()
	if len(ss) != 2 || ss[0].Name != "view" || ss[1].Name != "wrap" {
		t.Fatalf("unexpected stats: %+v", ss)
	}
	if ss[1].Count != 2 || ss[1].Min != 50*time.Millisecond || ss[1].Max != 150*time.Millisecond || ss[1].Avg != 100*time.Millisecond {
		t.Fatalf("unexpected wrap stats: %+v", ss[1])
	}
	if len(cs) != 1 || cs[0].Value != 2 {
		t.Fatalf("unexpected counters: %+v", cs)
	}

	ss, cs = Snapshot()
	if len(ss) != 0 || len(cs) != 0 {
		t.Fatalf("expected reset, got %d stats %d counters", len(ss), len(cs))
	}
}

func TestDisabledIsNoop(t *testing.T) {
	restore := EnableForTest()
	Snapshot()
	restore()
	enabled.Store(false)
	defer enabled.Store(envEnabled())

	Time("view")()
	Count("x", 1)
	ss, cs := snapshotAndReset()
	if len(ss) != 0 || len(cs) != 0 {
		t.Fatalf("expected nothing recorded while disabled")
	}
}

func TestEnvParsing(t *testing.T) {
	cases := map[string]bool{"": false, "0": false, "no": false, "1": true, "yes": true}
	for raw, want := range cases {
		t.Setenv("TABDECK_PROFILE", raw)
		if got := envEnabled(); got != want {
			t.Fatalf("envEnabled(%q)=%v, want %v", raw, got, want)
		}
	}
	t.Setenv("TABDECK_PROFILE_INTERVAL_MS", "250")
	if got := envInterval(); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", got)
	}
	t.Setenv("TABDECK_PROFILE_INTERVAL_MS", "bad")
	if got := envInterval(); got != defaultIntervalMs*time.Millisecond {
		t.Fatalf("expected default interval, got %s", got)
	}
}
