package app

import (
	"context"
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/messages"
	"github.com/tabdeck/tabdeck/internal/session"
)

const defaultExportName = "firefox-links"

// resolveSource finds the session file to read: the configured file, or
// the session store of the configured (or most recent) profile.
func (a *App) resolveSource() tea.Cmd {
	profile, file := a.config.Profile, a.config.SessionFile
	finder := a.finder
	return func() tea.Msg {
		if file != "" && profile == "" {
			return messages.SourceResolved{Source: session.Source{Input: file}, SessionFile: file}
		}
		if finder == nil {
			f, err := session.NewFinder()
			if err != nil {
				return messages.SourceResolved{Err: err}
			}
			finder = f
		}
		var dir string
		var err error
		if profile != "" {
			dir, err = finder.FindProfile(profile)
		} else {
			dir, err = finder.DefaultProfile()
		}
		if err != nil {
			return messages.SourceResolved{Err: err}
		}
		path := session.ResolveInput(dir, file)
		if file == "" {
			if path, err = session.SessionFile(dir); err != nil {
				return messages.SourceResolved{ProfileDir: dir, Err: err}
			}
		}
		return messages.SourceResolved{
			Source:      session.Source{Input: path},
			ProfileDir:  dir,
			SessionFile: path,
		}
	}
}

func (a *App) loadFormats() tea.Cmd {
	exporter := a.exporter
	return func() tea.Msg {
		return messages.FormatsLoaded{Formats: exporter.Formats(context.Background())}
	}
}

func (a *App) loadGroups() tea.Cmd {
	exporter, src := a.exporter, a.source
	return func() tea.Msg {
		groups, err := exporter.Groups(context.Background(), src)
		return messages.GroupsLoaded{Groups: groups, Err: err}
	}
}

// requestPreview supersedes any preview in flight.
func (a *App) requestPreview() tea.Cmd {
	a.previewSeq++
	return a.fetchPreview(a.previewSeq, a.selectedGroups())
}

func (a *App) fetchPreview(seq uint64, groups []int) tea.Cmd {
	exporter, src := a.exporter, a.source
	return func() tea.Msg {
		text, err := exporter.Preview(context.Background(), src, groups)
		return messages.PreviewLoaded{Seq: seq, Text: text, Err: err}
	}
}

// startExport resolves the output file and either asks for consent or runs
// the export right away.
func (a *App) startExport() tea.Cmd {
	if len(a.groups) == 0 {
		return a.toast.ShowWarning("No tab groups loaded")
	}
	name := a.format()
	ext := "txt"
	if f, ok := session.FindFormat(a.formats, name); ok && f.Extension != "" {
		ext = f.Extension
	}
	dir := a.config.Paths.ExportRoot
	if dir != "" {
		dir += string(filepath.Separator)
	}
	path, err := session.ResolveUnusedPath(dir, false, defaultExportName, ext)
	if err != nil {
		return a.handleError(messages.Error{Err: err, Context: "export"})
	}
	p := &pendingExport{source: a.source, format: name, groups: a.selectedGroups(), path: path}

	if !a.config.Exporter.ConfirmExec {
		return a.runCapturedExport(p)
	}
	a.pending = p
	a.exportDialog.SetMessage(fmt.Sprintf("Run %s to write %s links to\n%s?", a.exporter.Command, name, path))
	a.exportDialog.Show(a.width, a.height)
	return nil
}

func (a *App) runCapturedExport(p *pendingExport) tea.Cmd {
	exporter := a.exporter
	return func() tea.Msg {
		err := exporter.Export(context.Background(), p.source, p.format, p.groups, p.path)
		return messages.ExportFinished{Path: p.path, Err: err}
	}
}

// runForegroundExport hands the terminal to the exporter and resumes when
// it exits.
func (a *App) runForegroundExport(p *pendingExport) tea.Cmd {
	cmd, err := a.exporter.ExportCommand(context.Background(), p.source, p.format, p.groups, p.path)
	if err != nil {
		return a.handleError(messages.Error{Err: err, Context: "export"})
	}
	logging.Info("exporting %s to %s", p.format, p.path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return messages.ExportFinished{Path: p.path, Err: err}
	})
}
