package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.MkdirAll(filepath.Join(root, n), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", n, err)
		}
	}
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestProfileRootPerOS(t *testing.T) {
	home := func() (string, error) { return "/home/u", nil }
	env := map[string]string{"APPDATA": `C:\Users\u\AppData\Roaming`}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		goos string
		want string
	}{
		{"linux", filepath.Join("/home/u", ".mozilla", "firefox")},
		{"darwin", filepath.Join("/home/u", "Library", "Application Support", "Firefox", "Profiles")},
		{"windows", filepath.Join(`C:\Users\u\AppData\Roaming`, "Mozilla", "Firefox", "Profiles")},
	}
	for _, tt := range tests {
		got, err := profileRootFor(tt.goos, getenv, home)
		if err != nil {
			t.Fatalf("%s: %v", tt.goos, err)
		}
		if got != tt.want {
			t.Fatalf("%s: root = %q, want %q", tt.goos, got, tt.want)
		}
	}

	if _, err := profileRootFor("windows", func(string) string { return "" }, home); err == nil {
		t.Fatal("windows without APPDATA or USERNAME should fail")
	}
}

func TestFindProfile(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "abc123.default-release", "zzz999.work", "noext")
	f := &Finder{Root: root}

	got, err := f.FindProfile("default-release")
	if err != nil || filepath.Base(got) != "abc123.default-release" {
		t.Fatalf("short name: got %q err %v", got, err)
	}
	got, err = f.FindProfile("zzz999.work")
	if err != nil || filepath.Base(got) != "zzz999.work" {
		t.Fatalf("full name: got %q err %v", got, err)
	}
	if _, err := f.FindProfile("missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
	if _, err := f.FindProfile("nope.missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("missing full name: err = %v", err)
	}
}

func TestFindProfileAmbiguous(t *testing.T) {
	root := t.TempDir()
	var names []string
	for i := 0; i < 7; i++ {
		names = append(names, string(rune('a'+i))+".dev")
	}
	mkdirs(t, root, names...)
	newest := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(root, "c.dev"), newest, newest); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	_, err := (&Finder{Root: root}).FindProfile("dev")
	var amb *AmbiguousProfileError
	if !errors.As(err, &amb) {
		t.Fatalf("err = %v, want AmbiguousProfileError", err)
	}
	if len(amb.Candidates) != 5 || amb.More != 2 {
		t.Fatalf("candidates=%v more=%d", amb.Candidates, amb.More)
	}
	if amb.Latest != "c.dev" {
		t.Fatalf("Latest = %q, want c.dev", amb.Latest)
	}
	if !strings.Contains(err.Error(), "...and 2 more") {
		t.Fatalf("message lacks the overflow count: %s", err)
	}
}

func TestDefaultProfile(t *testing.T) {
	root := t.TempDir()
	if _, err := (&Finder{Root: root}).DefaultProfile(); !errors.Is(err, ErrNoProfiles) {
		t.Fatalf("empty root: err = %v", err)
	}

	mkdirs(t, root, "a.one", "b.two")
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(root, "a.one"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	got, err := (&Finder{Root: root}).DefaultProfile()
	if err != nil || filepath.Base(got) != "b.two" {
		t.Fatalf("got %q err %v, want the newest profile", got, err)
	}
}

func TestSessionFilePreference(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "sessionstore-backups", "recovery.jsonlz4"), now)
	touch(t, filepath.Join(dir, "sessionstore.js"), now)

	got, err := SessionFile(dir)
	if err != nil {
		t.Fatalf("SessionFile: %v", err)
	}
	if filepath.Base(got) != "recovery.jsonlz4" {
		t.Fatalf("got %s; jsonlz4 files should win over js", got)
	}

	touch(t, filepath.Join(dir, "sessionstore.jsonlz4"), now)
	if got, _ := SessionFile(dir); filepath.Base(got) != "sessionstore.jsonlz4" {
		t.Fatalf("got %s; sessionstore should win over recovery", got)
	}
}

func TestSessionFileFallsBackToNewestBackup(t *testing.T) {
	dir := t.TempDir()
	backups := filepath.Join(dir, "sessionstore-backups")
	now := time.Now()
	touch(t, filepath.Join(backups, "previous.jsonlz4"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(backups, "upgrade.jsonlz4-20240101"), now)
	touch(t, filepath.Join(backups, "recovery.baklz4"), now.Add(-time.Hour))
	touch(t, filepath.Join(backups, "older.js"), now.Add(-time.Minute))

	got, err := SessionFile(dir)
	if err != nil {
		t.Fatalf("SessionFile: %v", err)
	}
	if filepath.Base(got) != "older.js" {
		t.Fatalf("got %s, want the newest file with a session extension", got)
	}

	if _, err := SessionFile(t.TempDir()); !errors.Is(err, ErrNoSessionFile) {
		t.Fatalf("empty profile: err = %v", err)
	}
}

func TestLatestFilesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "b"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "a"), now)
	touch(t, filepath.Join(dir, "c"), now.Add(-2*time.Hour))
	mkdirs(t, dir, "sub")

	files, err := LatestFiles(dir)
	if err != nil {
		t.Fatalf("LatestFiles: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if strings.Join(names, ",") != "a,b,c" {
		t.Fatalf("order = %v", names)
	}
}

func TestResolveInput(t *testing.T) {
	profile := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(profile, "sessionstore.jsonlz4"), now)
	touch(t, filepath.Join(profile, "sessionstore-backups", "previous.jsonlz4"), now)
	elsewhere := filepath.Join(t.TempDir(), "saved.jsonlz4")
	touch(t, elsewhere, now)

	tests := []struct {
		name, file, want string
	}{
		{"absolute path is kept", elsewhere, elsewhere},
		{"relative to profile", "sessionstore.jsonlz4", filepath.Join(profile, "sessionstore.jsonlz4")},
		{"nested relative to profile", filepath.Join("sessionstore-backups", "previous.jsonlz4"), filepath.Join(profile, "sessionstore-backups", "previous.jsonlz4")},
		{"found in backups", "previous.jsonlz4", filepath.Join(profile, "sessionstore-backups", "previous.jsonlz4")},
		{"falls back to working directory", "local.jsonlz4", "local.jsonlz4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveInput(profile, tt.file); got != tt.want {
				t.Fatalf("ResolveInput(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}
