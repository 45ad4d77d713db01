// Package session locates Firefox profiles and session files and drives the
// external exporter that turns a session into links.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/logging"
)

var (
	// ErrNoProfiles is returned when the profile root holds no profiles.
	ErrNoProfiles = errors.New("no Firefox profiles found")
	// ErrProfileNotFound is returned when no profile matches a name.
	ErrProfileNotFound = errors.New("Firefox profile not found")
	// ErrNoSessionFile is returned when a profile has no session file.
	ErrNoSessionFile = errors.New("no session file found")
)

const maxListedProfiles = 5

// SessionExtensions are the file extensions accepted as session stores, in
// preference order.
var SessionExtensions = []string{"jsonlz4", "js"}

// ProfileRoot returns the directory holding Firefox profiles on this OS.
func ProfileRoot() (string, error) {
	return profileRootFor(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func profileRootFor(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	if goos == "windows" {
		appData := getenv("APPDATA")
		if appData == "" {
			user := getenv("USERNAME")
			if user == "" {
				return "", errors.New("neither APPDATA nor USERNAME is set")
			}
			appData = filepath.Join(`C:\Users`, user, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Mozilla", "Firefox", "Profiles"), nil
	}
	dir, err := home()
	if err != nil {
		return "", err
	}
	if goos == "darwin" {
		return filepath.Join(dir, "Library", "Application Support", "Firefox", "Profiles"), nil
	}
	return filepath.Join(dir, ".mozilla", "firefox"), nil
}

// Profile is one profile directory.
type Profile struct {
	Path     string
	Modified time.Time
	// HasModTime is false when the modification time could not be read.
	HasModTime bool
}

// Name is the directory name, e.g. "wscs2ifj.default-release".
func (p Profile) Name() string { return filepath.Base(p.Path) }

// ShortName is the part after the first dot, e.g. "default-release".
func (p Profile) ShortName() string {
	_, after, ok := strings.Cut(p.Name(), ".")
	if !ok {
		return ""
	}
	return after
}

// AmbiguousProfileError lists the profiles matching a short name.
type AmbiguousProfileError struct {
	Name       string
	Candidates []string
	More       int
	// Latest is the most recently modified profile overall, if known.
	Latest string
}

func (e *AmbiguousProfileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "more than one Firefox profile is named %q:\n", e.Name)
	b.WriteString(strings.Join(e.Candidates, "\n"))
	if e.More > 0 {
		fmt.Fprintf(&b, "\n...and %d more", e.More)
	}
	if e.Latest != "" {
		fmt.Fprintf(&b, "\nthe %q profile was modified most recently, maybe that is the one you want?", e.Latest)
	}
	return b.String()
}

// Finder discovers profiles under Root. The listing is read once.
type Finder struct {
	Root string

	once     sync.Once
	profiles []Profile
	err      error
}

// NewFinder returns a finder for the OS default profile root.
func NewFinder() (*Finder, error) {
	root, err := ProfileRoot()
	if err != nil {
		return nil, fmt.Errorf("locate Firefox profiles: %w", err)
	}
	return &Finder{Root: root}, nil
}

// Profiles lists the profile directories. Entries that cannot be inspected
// are skipped.
func (f *Finder) Profiles() ([]Profile, error) {
	f.once.Do(func() {
		logging.Debug("finding Firefox profiles at %s", f.Root)
		entries, err := os.ReadDir(f.Root)
		if err != nil {
			f.err = fmt.Errorf("list Firefox profiles at %s: %w", f.Root, err)
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			p := Profile{Path: filepath.Join(f.Root, entry.Name())}
			if info, err := entry.Info(); err == nil {
				p.Modified, p.HasModTime = info.ModTime(), true
			} else {
				logging.Debug("no modification time for %s: %v", p.Path, err)
			}
			f.profiles = append(f.profiles, p)
		}
	})
	return f.profiles, f.err
}

// FindProfile resolves a profile name to its directory. A name containing a
// dot or a path separator is taken as the full directory name. Otherwise it
// is matched against the part of each directory name after the first dot.
func (f *Finder) FindProfile(name string) (string, error) {
	if strings.ContainsAny(name, `./\`) {
		dir := filepath.Join(f.Root, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
		return "", fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	profiles, err := f.Profiles()
	if err != nil {
		return "", err
	}
	var matches []Profile
	for _, p := range profiles {
		if p.ShortName() == name {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		logging.Debug("no profile ends with %q (%d profiles)", name, len(profiles))
		return "", fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	case 1:
		return matches[0].Path, nil
	}

	amb := &AmbiguousProfileError{Name: name}
	for i, p := range matches {
		if i == maxListedProfiles {
			amb.More = len(matches) - maxListedProfiles
			break
		}
		amb.Candidates = append(amb.Candidates, p.Name())
	}
	if latest, ok := latestProfile(profiles); ok {
		amb.Latest = latest.Name()
	}
	return "", amb
}

// DefaultProfile picks the only profile, or the most recently modified one
// when there are several.
func (f *Finder) DefaultProfile() (string, error) {
	profiles, err := f.Profiles()
	if err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		return "", ErrNoProfiles
	}
	if len(profiles) == 1 {
		return profiles[0].Path, nil
	}
	if latest, ok := latestProfile(profiles); ok {
		return latest.Path, nil
	}
	return profiles[0].Path, nil
}

func latestProfile(profiles []Profile) (Profile, bool) {
	var best Profile
	found := false
	for _, p := range profiles {
		if !p.HasModTime {
			continue
		}
		if !found || p.Modified.After(best.Modified) {
			best, found = p, true
		}
	}
	return best, found
}

// SessionFile finds the session store of a profile: sessionstore.<ext> in
// the profile, then sessionstore-backups/recovery.<ext>, per extension in
// SessionExtensions order; failing that, the newest session file in the
// backups folder.
func SessionFile(profileDir string) (string, error) {
	backups := filepath.Join(profileDir, "sessionstore-backups")
	for _, ext := range SessionExtensions {
		for _, p := range []string{
			filepath.Join(profileDir, "sessionstore."+ext),
			filepath.Join(backups, "recovery."+ext),
		} {
			if isFile(p) {
				return p, nil
			}
		}
	}
	files, err := LatestFiles(backups)
	if err == nil {
		for _, p := range files {
			if hasSessionExtension(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoSessionFile, profileDir)
}

// ResolveInput resolves a session file given together with a profile. An
// absolute path is used as is. A relative one is looked up in the profile,
// then in its backups folder, and otherwise taken relative to the working
// directory.
func ResolveInput(profileDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	for _, p := range []string{
		filepath.Join(profileDir, file),
		filepath.Join(profileDir, "sessionstore-backups", file),
	} {
		if isFile(p) {
			return p
		}
	}
	return file
}

// LatestFiles lists the regular files of dir, newest first. Files whose
// modification time cannot be read are skipped.
func LatestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	type timed struct {
		path string
		mod  time.Time
	}
	var files []timed
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, timed{filepath.Join(dir, entry.Name()), info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

func hasSessionExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, allowed := range SessionExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
