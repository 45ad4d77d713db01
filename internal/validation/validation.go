// Package validation checks user-supplied values before they reach the
// exporter, and cleans exporter output before it reaches the terminal.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatNameRegex matches exporter format names such as "markdown" or "org-mode".
var formatNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateProfile validates a Firefox profile name or directory.
func ValidateProfile(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "profile", Message: "profile cannot be empty"}
	}
	if len(name) > 255 {
		return &ValidationError{Field: "profile", Message: "profile too long (max 255 characters)"}
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return &ValidationError{Field: "profile", Message: "profile cannot contain control characters"}
	}
	return nil
}

// ValidateSessionPath checks the form of a session path without touching the
// file system, returning it with ~ expanded. Used when the path may be
// relative to a profile directory that is not known yet.
func ValidateSessionPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &ValidationError{Field: "session", Message: "path cannot be empty"}
	}
	if strings.ContainsFunc(path, unicode.IsControl) {
		return "", &ValidationError{Field: "session", Message: "path cannot contain control characters"}
	}
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", &ValidationError{Field: "session", Message: "cannot resolve home directory"}
	}
	return expanded, nil
}

// ValidateSessionFile checks that path names a readable regular file and
// returns it with ~ expanded.
func ValidateSessionFile(path string) (string, error) {
	expanded, err := ValidateSessionPath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &ValidationError{Field: "session", Message: "file does not exist"}
		}
		return "", &ValidationError{Field: "session", Message: fmt.Sprintf("cannot access file: %v", err)}
	}
	if info.IsDir() {
		return "", &ValidationError{Field: "session", Message: "path is a directory"}
	}
	return expanded, nil
}

// ValidateCommand validates the exporter command name or path.
func ValidateCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return &ValidationError{Field: "exporter", Message: "command cannot be empty"}
	}
	if strings.ContainsAny(cmd, "\n\r\x00") {
		return &ValidationError{Field: "exporter", Message: "command cannot contain line breaks"}
	}
	return nil
}

// ValidateFormatName validates an output format name.
func ValidateFormatName(name string) error {
	if !formatNameRegex.MatchString(name) {
		return &ValidationError{Field: "format", Message: fmt.Sprintf("invalid format name '%s'", name)}
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\"):
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// SanitizeInput removes control characters (escape sequences included) so
// text from other programs cannot move the cursor or restyle the screen.
func SanitizeInput(input string) string {
	input = strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(input)
}
