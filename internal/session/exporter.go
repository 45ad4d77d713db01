package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/process"
)

// Runner runs the exporter and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (process.Result, error)
	Command(ctx context.Context, name string, args ...string) (*exec.Cmd, error)
}

// Group is a tab group as reported by the exporter. Index is its position
// in the exporter's listing and identifies it in later commands.
type Group struct {
	Index    int    `json:"-"`
	Name     string `json:"name"`
	TabCount int    `json:"tab_count"`
	IsClosed bool   `json:"is_closed"`
}

// ID is a stable key for the group within one listing.
func (g Group) ID() string { return strconv.Itoa(g.Index) }

// Source selects the session to read: an explicit file, a profile, or both
// (the file is then relative to the profile).
type Source struct {
	Profile string
	Input   string
}

func (s Source) args() []string {
	var args []string
	if s.Profile != "" {
		args = append(args, "--firefox-profile", s.Profile)
	}
	if s.Input != "" {
		args = append(args, "--input", s.Input)
	}
	return args
}

// ExitError reports a non-zero exporter exit.
type ExitError struct {
	Subcommand string
	Code       int
	Stderr     string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Subcommand, e.Code)
	}
	if first, _, ok := strings.Cut(msg, "\n"); ok {
		msg = first
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Subcommand, e.Code, msg)
}

// Exporter drives the external session exporter command.
type Exporter struct {
	Command string
	runner  Runner
}

// NewExporter returns an exporter running command through runner.
func NewExporter(command string, runner Runner) *Exporter {
	return &Exporter{Command: command, runner: runner}
}

func (e *Exporter) run(ctx context.Context, args ...string) ([]byte, error) {
	res, err := e.runner.Run(ctx, e.Command, args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", e.Command, args[0], err)
	}
	if res.ExitCode != 0 {
		return nil, &ExitError{Subcommand: args[0], Code: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return res.Stdout, nil
}

// Formats asks the exporter for its output formats, falling back to the
// built-in list when it cannot answer.
func (e *Exporter) Formats(ctx context.Context) []Format {
	out, err := e.run(ctx, "tabs-to-links-formats", "--json")
	if err == nil {
		var formats []Format
		if err = json.Unmarshal(out, &formats); err == nil && len(formats) > 0 {
			return formats
		}
	}
	logging.Debug("using built-in formats: %v", err)
	return BuiltinFormats()
}

// Groups lists the tab groups of the session.
func (e *Exporter) Groups(ctx context.Context, src Source) ([]Group, error) {
	args := append([]string{"get-groups", "--json", "--stdout"}, src.args()...)
	out, err := e.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	var groups []Group
	if err := json.Unmarshal(bytes.TrimSpace(out), &groups); err != nil {
		return nil, fmt.Errorf("parse groups: %w", err)
	}
	for i := range groups {
		groups[i].Index = i
	}
	return groups, nil
}

// Preview renders the links of the given groups as plain text. No groups
// means all groups.
func (e *Exporter) Preview(ctx context.Context, src Source, groups []int) (string, error) {
	args := append([]string{"tabs-to-links", "--format", DefaultFormat, "--stdout"}, src.args()...)
	args = append(args, groupArgs(groups)...)
	out, err := e.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ExportArgs is the command line writing the given groups in format to
// output.
func (e *Exporter) ExportArgs(src Source, format string, groups []int, output string) []string {
	args := append([]string{"tabs-to-links", "--format", format, "--output", output}, src.args()...)
	return append(args, groupArgs(groups)...)
}

// Export writes the links file and captures the exporter's output.
func (e *Exporter) Export(ctx context.Context, src Source, format string, groups []int, output string) error {
	_, err := e.run(ctx, e.ExportArgs(src, format, groups, output)...)
	return err
}

// ExportCommand builds an export the caller runs in the foreground.
func (e *Exporter) ExportCommand(ctx context.Context, src Source, format string, groups []int, output string) (*exec.Cmd, error) {
	return e.runner.Command(ctx, e.Command, e.ExportArgs(src, format, groups, output)...)
}

func groupArgs(groups []int) []string {
	if len(groups) == 0 {
		return nil
	}
	idx := make([]string, len(groups))
	for i, g := range groups {
		idx[i] = strconv.Itoa(g)
	}
	return []string{"--tab-group-indexes", strings.Join(idx, ",")}
}
