package mediakit

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mediakit/internal/process"
)

// OverlayCapturer abstracts the caption capture to enable testing without
// a browser.
type OverlayCapturer interface {
	Capture(ctx context.Context, text string) ([]byte, error)
}

// rodCapture implements OverlayCapturer using go-rod. Every capture runs
// in its own isolated browser process which is torn down before returning,
// on success and on every failure path.
type rodCapture struct {
	target CaptureTarget
}

func newRodCapture(target CaptureTarget) *rodCapture {
	return &rodCapture{target: target}
}

// Capture loads the generator page, clicks the toggle, fills the text
// input, and screenshots the overlay element as PNG.
func (c *rodCapture) Capture(ctx context.Context, text string) ([]byte, error) {
	browser, cleanup, err := launchBrowser(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: c.target.PageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if c.target.Toggle != "" {
		toggle, err := page.Element(c.target.Toggle)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrElementNotFound, c.target.Toggle, err)
		}
		if err := toggle.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return nil, fmt.Errorf("%w: clicking %s: %v", ErrElementNotFound, c.target.Toggle, err)
		}
	}

	input, err := page.Element(c.target.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrElementNotFound, c.target.Input, err)
	}
	if err := input.Input(text); err != nil {
		return nil, fmt.Errorf("%w: filling %s: %v", ErrElementNotFound, c.target.Input, err)
	}

	overlay, err := page.Element(c.target.Overlay)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrElementNotFound, c.target.Overlay, err)
	}

	bin, err := overlay.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	return bin, nil
}

// launchBrowser starts an isolated headless Chrome: incognito, no
// persistent profile, no cache shared with other sessions. Launch and
// connect both honor ctx, so a wedged browser start fails with the
// caller's deadline instead of stalling the session slot. The returned
// cleanup closes the browser and, as a fallback, kills the launcher's
// process group so no Chrome child outlives the capture.
func launchBrowser(ctx context.Context) (*rod.Browser, func(), error) {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set(flags.Flag("incognito")).
		Set(flags.Flag("no-zygote")).
		Set(flags.Flag("disable-gpu"))

	// Use a pre-installed browser if specified (Docker/containerized environments)
	if bin := browserBin(); bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		if pid := l.PID(); pid != 0 {
			process.KillProcessGroup(pid)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		if pid := l.PID(); pid != 0 {
			process.KillProcessGroup(pid)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	cleanup := func() {
		_ = browser.Close()
		if pid := l.PID(); pid != 0 {
			process.KillProcessGroup(pid)
		}
	}
	return browser, cleanup, nil
}

// browserBin resolves the browser binary from the environment.
// CHROME_BIN is the deployment convention, ROD_BROWSER_BIN the rod one.
func browserBin() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	return os.Getenv("ROD_BROWSER_BIN")
}
