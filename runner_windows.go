//go:build windows

package mediakit

import "os/exec"

// setProcessGroup is a no-op on Windows; process.KillProcessGroup uses a
// taskkill tree kill instead.
func setProcessGroup(_ *exec.Cmd) {}
