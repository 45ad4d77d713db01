package messages

import (
	"github.com/tabdeck/tabdeck/internal/config"
	"github.com/tabdeck/tabdeck/internal/session"
)

// PaneType identifies the focused pane
type PaneType int

const (
	PaneGroups PaneType = iota
	PanePreview
)

func (p PaneType) String() string {
	switch p {
	case PaneGroups:
		return "groups"
	case PanePreview:
		return "preview"
	}
	return "unknown"
}

// SourceResolved is sent once the profile and session file are known.
type SourceResolved struct {
	Source      session.Source
	ProfileDir  string
	SessionFile string
	Err         error
}

// FormatsLoaded carries the exporter's output formats.
type FormatsLoaded struct {
	Formats []session.Format
}

// GroupsLoaded carries the tab groups of the session.
type GroupsLoaded struct {
	Groups []session.Group
	Err    error
}

// PreviewLoaded carries the links text for the current selection. Seq
// matches the request that produced it.
type PreviewLoaded struct {
	Seq  uint64
	Text string
	Err  error
}

// ExportFinished is sent when an export run returns.
type ExportFinished struct {
	Path string
	Err  error
}

// ConfigReloaded is sent when the config file changed on disk.
type ConfigReloaded struct {
	Config *config.Config
	Err    error
}

// Copied reports a clipboard write.
type Copied struct {
	What string
	Err  error
}

// ForceRedraw asks for a full repaint after the overlay regions changed.
type ForceRedraw struct{}

// Error represents an error message
type Error struct {
	Err     error
	Context string
}

func (e Error) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error { return e.Err }
