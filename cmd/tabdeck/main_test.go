package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tabdeck/tabdeck/internal/mouse"
)

func resetMouseFilterState() {
	lastMoveEvent = time.Time{}
	lastScrollEvent = time.Time{}
	lastMoveX = 0
	lastMoveY = 0
}

func moveAt(x, y int) mouse.Msg {
	return mouse.Msg{Event: mouse.Move{Button: mouse.ButtonLeft, Position: mouse.Position{X: x, Y: y}}}
}

func wheelAt(x, y int) mouse.Msg {
	return mouse.Msg{Event: mouse.Scroll{Direction: mouse.DirectionDown, Position: mouse.Position{X: x, Y: y}}}
}

func TestWheelNotThrottledByMotion(t *testing.T) {
	resetMouseFilterState()

	if mouseEventFilter(nil, moveAt(10, 10)) == nil {
		t.Fatalf("expected motion event to pass through")
	}
	if mouseEventFilter(nil, wheelAt(10, 10)) == nil {
		t.Fatalf("expected wheel event to pass through after motion")
	}
}

func TestWheelThrottleIndependent(t *testing.T) {
	resetMouseFilterState()

	if mouseEventFilter(nil, wheelAt(10, 10)) == nil {
		t.Fatalf("expected first wheel event to pass through")
	}
	if mouseEventFilter(nil, wheelAt(10, 10)) != nil {
		t.Fatalf("expected second wheel event to be throttled")
	}
}

func TestMotionToNewCellAlwaysPasses(t *testing.T) {
	resetMouseFilterState()

	if mouseEventFilter(nil, moveAt(3, 3)) == nil {
		t.Fatalf("expected first motion to pass")
	}
	if mouseEventFilter(nil, moveAt(3, 3)) != nil {
		t.Fatalf("expected repeat at the same cell to be dropped")
	}
	if mouseEventFilter(nil, moveAt(4, 3)) == nil {
		t.Fatalf("expected motion to a new cell to pass")
	}
}

func TestClicksAreNeverFiltered(t *testing.T) {
	resetMouseFilterState()

	click := mouse.Msg{Event: mouse.Click{Button: mouse.ButtonLeft, Position: mouse.Position{X: 1, Y: 1}}}
	for i := 0; i < 3; i++ {
		if mouseEventFilter(nil, click) == nil {
			t.Fatalf("click %d was dropped", i)
		}
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	session := filepath.Join(dir, "session.jsonlz4")
	if err := os.WriteFile(session, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(options{
		profile:  "default-release",
		session:  session,
		exporter: "fsd",
		logLevel: "debug",
	})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Profile != "default-release" || cfg.SessionFile != session {
		t.Fatalf("source flags not applied: %+v", cfg)
	}
	if cfg.Exporter.Command != "fsd" || cfg.LogLevel != "debug" {
		t.Fatalf("exporter flags not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsMissingSession(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	if _, err := loadConfig(options{session: filepath.Join(dir, "nope.jsonlz4")}); err == nil {
		t.Fatal("a missing session file should be rejected")
	}
}

func TestLoadConfigSessionRelativeToProfile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	rel := filepath.Join("sessionstore-backups", "recovery.jsonlz4")
	cfg, err := loadConfig(options{profile: "default", session: rel})
	if err != nil {
		t.Fatalf("a profile-relative session should be accepted: %v", err)
	}
	if cfg.SessionFile != rel {
		t.Fatalf("SessionFile = %q, want %q", cfg.SessionFile, rel)
	}
}
