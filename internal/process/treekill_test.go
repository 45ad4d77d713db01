//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func startGroup(t *testing.T, script string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command("sh", "-c", script)
	SetProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	return cmd
}

func waitGroupGone(t *testing.T, pgid int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !errors.Is(syscall.Kill(-pgid, 0), syscall.ESRCH) {
		if time.Now().After(deadline) {
			t.Fatal("process group still running")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestKillProcessGroupTerminatesChildren(t *testing.T) {
	cmd := startGroup(t, "sleep 60 & sleep 60 & wait")
	pid := cmd.Process.Pid
	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		t.Fatalf("getpgid: %v", err)
	}

	if err := KillProcessGroup(pid, KillOptions{GracePeriod: 100 * time.Millisecond}); err != nil {
		if errors.Is(err, syscall.EPERM) {
			t.Skip("signals restricted in this environment")
		}
		t.Fatalf("KillProcessGroup: %v", err)
	}
	_ = cmd.Wait()
	waitGroupGone(t, pgid)
}

func TestKillProcessGroupEscalates(t *testing.T) {
	cmd := startGroup(t, "trap '' TERM; sleep 60")
	pid := cmd.Process.Pid

	start := time.Now()
	if err := KillProcessGroup(pid, KillOptions{GracePeriod: 50 * time.Millisecond}); err != nil {
		if errors.Is(err, syscall.EPERM) {
			t.Skip("signals restricted in this environment")
		}
		t.Fatalf("KillProcessGroup: %v", err)
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Fatal("SIGKILL sent before the grace period ended")
	}
	_ = cmd.Wait()
	if !errors.Is(syscall.Kill(pid, 0), syscall.ESRCH) {
		t.Fatal("process survived SIGKILL")
	}
}

func TestKillProcessGroupAlreadyExited(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 0")
	SetProcessGroup(cmd)
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := KillProcessGroup(cmd.Process.Pid, KillOptions{}); err != nil {
		t.Fatalf("exited group should not error: %v", err)
	}
	if err := KillProcessGroup(0, KillOptions{}); err != nil {
		t.Fatalf("zero pid should not error: %v", err)
	}
}
