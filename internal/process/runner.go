// Package process runs external commands: captured runs over pipes or a
// pseudo terminal, and interactive commands handed the terminal. Every child
// gets its own process group so cancellation takes its whole tree down.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"

	"github.com/tabdeck/tabdeck/internal/logging"
	"github.com/tabdeck/tabdeck/internal/perf"
)

// ErrNotFound is returned when the command (or its prefix) is not on PATH.
var ErrNotFound = errors.New("command not found")

// Result is the outcome of a captured run. A non-zero exit code is not an
// error; callers decide what it means.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner builds and runs commands.
type Runner struct {
	// Prefix is prepended to every command line, e.g. a sandbox runtime.
	Prefix []string
	// UsePTY runs captured commands on a pseudo terminal. Stdout and
	// stderr are merged into Stdout.
	UsePTY bool
	// Timeout bounds captured runs. Zero means no limit.
	Timeout time.Duration
	Dir     string
	Env     []string

	lookPath func(string) (string, error)
	grace    time.Duration
}

// NewRunner returns a runner with the given prefix.
func NewRunner(prefix ...string) *Runner {
	return &Runner{Prefix: prefix, lookPath: exec.LookPath}
}

// Command builds the command line prefix + name + args without starting
// it. The first word must resolve on PATH.
func (r *Runner) Command(ctx context.Context, name string, args ...string) (*exec.Cmd, error) {
	argv := append(append(append([]string(nil), r.Prefix...), name), args...)
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, argv[0])
	}

	cmd := exec.CommandContext(ctx, path, argv[1:]...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	grace := r.grace
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return KillProcessGroup(cmd.Process.Pid, KillOptions{GracePeriod: grace})
	}
	cmd.WaitDelay = time.Second
	return cmd, nil
}

// Run executes the command and captures its output.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	defer perf.Time("process.run")()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd, err := r.Command(ctx, name, args...)
	if err != nil {
		return Result{ExitCode: -1}, err
	}
	logging.Debug("run %s %v (pty=%v)", cmd.Path, cmd.Args[1:], r.UsePTY)

	var res Result
	if r.UsePTY {
		res, err = runPTY(cmd)
	} else {
		res, err = runPipes(cmd)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", name, ctxErr)
	}
	return res, err
}

func runPipes(cmd *exec.Cmd) (Result, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{ExitCode: -1}, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{ExitCode: -1}, err
	}
	SetProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	res := Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}
	return exitResult(cmd, res, waitErr, drainErr)
}

// runPTY starts cmd as a session leader on a new pty, which also makes it
// the leader of its own process group.
func runPTY(cmd *exec.Cmd) (Result, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("start %s on pty: %w", cmd.Path, err)
	}
	defer func() { _ = ptmx.Close() }()

	var out bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&out, ptmx)
		// Reading the master fails with EIO once the child side closes.
		if isPTYClosed(err) {
			return nil
		}
		return err
	})
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	return exitResult(cmd, Result{Stdout: out.Bytes()}, waitErr, drainErr)
}

func exitResult(cmd *exec.Cmd, res Result, waitErr, drainErr error) (Result, error) {
	res.ExitCode = cmd.ProcessState.ExitCode()
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return res, fmt.Errorf("wait %s: %w", cmd.Path, waitErr)
	}
	if drainErr != nil {
		logging.Debug("reading output of %s: %v", cmd.Path, drainErr)
	}
	return res, nil
}
