package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/tabdeck/tabdeck/internal/app"
	"github.com/tabdeck/tabdeck/internal/config"
	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/messages"
	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/supervisor"
	"github.com/tabdeck/tabdeck/internal/validation"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errNoTerminal = errors.New("tabdeck needs an interactive terminal")

type options struct {
	profile    string
	session    string
	exporter   string
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "tabdeck",
		Short:         "Browse the tab groups of a Firefox session and export them as links",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
				return errNoTerminal
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.profile, "profile", "p", "", "Firefox profile name or directory")
	f.StringVarP(&opts.session, "session", "s", "", "session file to read instead of the profile's")
	f.StringVar(&opts.exporter, "exporter", "", "exporter command (default firefox-session-data)")
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.tabdeck/config.json)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.profile != "" {
		if err := validation.ValidateProfile(opts.profile); err != nil {
			return nil, err
		}
		cfg.Profile = opts.profile
	}
	if opts.session != "" {
		// With a profile the path may be relative to the profile directory,
		// which is only found later.
		check := validation.ValidateSessionFile
		if cfg.Profile != "" {
			check = validation.ValidateSessionPath
		}
		path, err := check(opts.session)
		if err != nil {
			return nil, err
		}
		cfg.SessionFile = path
	}
	if opts.exporter != "" {
		if err := validation.ValidateCommand(opts.exporter); err != nil {
			return nil, err
		}
		cfg.Exporter.Command = opts.exporter
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func runTUI(cfg *config.Config) error {
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create %s: %v\n", cfg.Paths.Home, err)
	}
	if err := logging.Initialize(cfg.Paths.LogsRoot, logging.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()

	logging.Info("Starting tabdeck %s", version)
	startSignalDebug()

	a := app.New(cfg, nil)
	defer a.Shutdown()

	// Mouse reports are decoded before the key parser sees them.
	splitter := mouse.NewSplitter(os.Stdin, nil)
	p := tea.NewProgram(
		a,
		tea.WithInput(splitter),
		tea.WithFilter(mouseEventFilter),
	)
	splitter.SetSink(func(ev mouse.Event) {
		p.Send(mouse.Msg{Event: ev})
	})

	sup := supervisor.New(context.Background())
	defer sup.Stop()
	watchConfig(sup, cfg.Paths, p.Send)

	if _, err := p.Run(); err != nil {
		logging.Error("App exited with error: %v", err)
		return fmt.Errorf("run: %w", err)
	}
	logging.Info("tabdeck shutdown complete")
	return nil
}

// watchConfig forwards config file changes to the program. The watcher is
// recreated with backoff if it cannot be set up, e.g. while the config
// directory is being replaced.
func watchConfig(sup *supervisor.Supervisor, paths *config.Paths, send func(tea.Msg)) {
	sup.Start("config-watcher", func(ctx context.Context) error {
		w, err := config.NewWatcher(paths, func(cfg *config.Config, err error) {
			send(messages.ConfigReloaded{Config: cfg, Err: err})
		})
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer w.Close()
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}, supervisor.WithMaxRestarts(5), supervisor.WithBackoff(time.Second, 30*time.Second))
}

var (
	lastMoveEvent   time.Time
	lastScrollEvent time.Time
	lastMoveX       int
	lastMoveY       int
)

// mouseEventFilter drops repeated motion reports at the same cell and
// wheel bursts faster than the UI can redraw.
func mouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	m, ok := msg.(mouse.Msg)
	if !ok {
		return msg
	}
	switch ev := m.Event.(type) {
	case mouse.Move:
		if ev.X != lastMoveX || ev.Y != lastMoveY {
			lastMoveX, lastMoveY = ev.X, ev.Y
			lastMoveEvent = time.Now()
			return msg
		}
		now := time.Now()
		if now.Sub(lastMoveEvent) < 15*time.Millisecond {
			return nil
		}
		lastMoveEvent = now
	case mouse.Scroll:
		now := time.Now()
		if now.Sub(lastScrollEvent) < 15*time.Millisecond {
			return nil
		}
		lastScrollEvent = now
	}
	return msg
}
