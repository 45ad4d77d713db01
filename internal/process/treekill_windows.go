//go:build windows

package process

import (
	"os"
	"os/exec"
	"time"

	"github.com/tabdeck/tabdeck/internal/logging"
)

const defaultGracePeriod = 200 * time.Millisecond

// KillOptions configures process termination.
type KillOptions struct {
	GracePeriod time.Duration
}

// KillProcessGroup interrupts and then kills the leader only. Windows has no
// process groups in the Unix sense, so children may survive.
func KillProcessGroup(leaderPID int, opts KillOptions) error {
	if leaderPID <= 0 {
		return nil
	}
	if opts.GracePeriod == 0 {
		opts.GracePeriod = defaultGracePeriod
	}

	proc, err := os.FindProcess(leaderPID)
	if err != nil {
		return err
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		logging.Debug("interrupt pid %d: %v", leaderPID, err)
	}
	time.Sleep(opts.GracePeriod)
	return proc.Kill()
}

// SetProcessGroup is a no-op on Windows.
func SetProcessGroup(cmd *exec.Cmd) {
	_ = cmd
}
