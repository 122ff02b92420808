//go:build !windows

package mediakit

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so
// process.KillProcessGroup can reap the whole tree on cancellation.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
