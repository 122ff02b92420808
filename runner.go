package mediakit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/alnah/go-mediakit/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// waitDelay bounds how long Run waits for output pipes after a kill.
const waitDelay = 5 * time.Second

// ExecRunner implements CommandRunner using os/exec. The command runs in
// its own process group so that cancellation kills stray children too
// (ffmpeg forks helpers on some builds).
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Cancel = func() error {
		if cmd.Process != nil {
			process.KillProcessGroup(cmd.Process.Pid)
		}
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		// Prefer the context error: a deadline kill surfaces as "signal: killed"
		// from Wait, which hides the real cause.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), stderr.String(), ctxErr
		}
		return stdout.String(), stderr.String(), fmt.Errorf("running %s: %w", name, err)
	}

	return stdout.String(), stderr.String(), nil
}
