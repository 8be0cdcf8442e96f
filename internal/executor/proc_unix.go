//go:build !windows

package executor

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so a
// timeout kill reaches its descendants too.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		return
	}
	_ = cmd.Process.Kill()
}

// exitStatus normalizes OS termination into one integer: the exit code
// for a normal exit, 128+N for a process killed or stopped by signal N,
// and 1 for anything else.
func exitStatus(ps *os.ProcessState) int {
	if ps == nil {
		return 1
	}
	ws, ok := ps.Sys().(syscall.WaitStatus)
	if !ok {
		if ps.Exited() {
			return ps.ExitCode()
		}
		return 1
	}
	switch {
	case ws.Exited():
		return ws.ExitStatus()
	case ws.Signaled():
		return 128 + int(ws.Signal())
	case ws.Stopped():
		return 128 + int(ws.StopSignal())
	default:
		return 1
	}
}
