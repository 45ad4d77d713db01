package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxUnusedPathAttempts = 10_000

// ResolveUnusedPath turns a requested output path into the file to write.
//
// An empty path becomes defaultName; a path ending in a separator gets
// defaultName appended; a path without an extension gets defaultExt
// (without its dot). Unless overwrite is set, "name (n).ext" is tried for
// n = 1, 2, ... until a path that does not exist is found.
func ResolveUnusedPath(path string, overwrite bool, defaultName, defaultExt string) (string, error) {
	switch {
	case path == "":
		path = defaultName
	case strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`):
		path += defaultName
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	dir := filepath.Dir(path)
	if ext == "" || ext == "." {
		ext = "." + defaultExt
	}
	if stem == "" {
		return "", errors.New("output path has no file name")
	}

	candidate := func(n int) string {
		name := stem + ext
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		return filepath.Join(dir, name)
	}

	if overwrite {
		return candidate(0), nil
	}
	for n := 0; n < maxUnusedPathAttempts; n++ {
		p := candidate(n)
		if _, err := os.Lstat(p); errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
	}
	return "", fmt.Errorf("no unused file name for %s", path)
}
