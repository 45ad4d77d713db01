//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"syscall"
	"time"
)

const defaultGracePeriod = 200 * time.Millisecond

// KillOptions configures process group termination.
type KillOptions struct {
	// GracePeriod is how long the group gets after SIGTERM before SIGKILL.
	GracePeriod time.Duration
}

// KillProcessGroup terminates the process group led by leaderPID: SIGTERM,
// then SIGKILL once the grace period has passed. A group that is already
// gone is not an error.
func KillProcessGroup(leaderPID int, opts KillOptions) error {
	if leaderPID <= 0 {
		return nil
	}
	if opts.GracePeriod == 0 {
		opts.GracePeriod = defaultGracePeriod
	}

	pgid, err := syscall.Getpgid(leaderPID)
	if err != nil {
		return ignoreGone(err)
	}
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		return ignoreGone(err)
	}

	deadline := time.Now().Add(opts.GracePeriod)
	for time.Now().Before(deadline) {
		if errors.Is(syscall.Kill(-pgid, 0), syscall.ESRCH) {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	// EPERM shows up when the group emptied between the check and the kill.
	err = syscall.Kill(-pgid, syscall.SIGKILL)
	if err != nil && !errors.Is(err, syscall.EPERM) {
		return ignoreGone(err)
	}
	return nil
}

func ignoreGone(err error) error {
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// SetProcessGroup configures a command to run in its own process group.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
