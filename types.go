package mediakit

import (
	"net/http"
	"time"
)

// CaptureTarget describes the page driven by the caption capture pipeline:
// where to navigate, which toggle to click, which input to fill, and which
// overlay element to screenshot.
type CaptureTarget struct {
	PageURL string
	Toggle  string // clicked once before filling the input; empty = skip
	Input   string
	Overlay string
}

// DefaultCaptureTarget returns the caption generator page the service
// drives out of the box.
func DefaultCaptureTarget() CaptureTarget {
	return CaptureTarget{
		PageURL: "https://www.bratgenerator.com/",
		Toggle:  "#toggleButtonWhite",
		Input:   "#textInput",
		Overlay: "#textOverlay",
	}
}

// Code is a snippet submitted for rendering.
type Code struct {
	Code     string
	Language string // chroma lexer name; empty = plain text
}

// Tools names the external conversion binaries.
type Tools struct {
	Convert string // raster converter (ImageMagick)
	FFmpeg  string // video encoder
}

// DefaultTools returns the conventional binary names, resolved via PATH.
func DefaultTools() Tools {
	return Tools{Convert: "convert", FFmpeg: "ffmpeg"}
}

// Allocator hands out fresh artifact paths. Implemented by the artifact
// store; conversion chains allocate one output path per step through it.
type Allocator interface {
	Allocate(ext string) (name string, path string, err error)
}

// Default timeouts for external work.
const (
	defaultCaptureTimeout = 30 * time.Second
	defaultToolTimeout    = 60 * time.Second
	defaultFetchTimeout   = 20 * time.Second
)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	captureTimeout time.Duration
	toolTimeout    time.Duration
	fetchTimeout   time.Duration
	target         CaptureTarget
	tools          Tools
	codeStyle      string
	sessionLimit   int
}

// Option configures a Service.
type Option func(*Service)

// WithCaptureTimeout bounds every browser session.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithCaptureTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mediakit: WithCaptureTimeout duration must be positive")
	}
	return func(s *Service) { s.cfg.captureTimeout = d }
}

// WithToolTimeout bounds each external tool invocation.
func WithToolTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mediakit: WithToolTimeout duration must be positive")
	}
	return func(s *Service) { s.cfg.toolTimeout = d }
}

// WithFetchTimeout bounds each remote image fetch.
func WithFetchTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mediakit: WithFetchTimeout duration must be positive")
	}
	return func(s *Service) { s.cfg.fetchTimeout = d }
}

// WithCaptureTarget points the capture pipeline at a different page.
func WithCaptureTarget(t CaptureTarget) Option {
	return func(s *Service) { s.cfg.target = t }
}

// WithTools overrides the external tool binaries.
func WithTools(t Tools) Option {
	return func(s *Service) { s.cfg.tools = t }
}

// WithCodeStyle selects the chroma style used by the snippet renderer.
func WithCodeStyle(name string) Option {
	return func(s *Service) { s.cfg.codeStyle = name }
}

// WithSessionLimit caps concurrent browser sessions. Zero means
// ResolvePoolSize picks a limit from GOMAXPROCS.
func WithSessionLimit(n int) Option {
	return func(s *Service) { s.cfg.sessionLimit = n }
}

// WithHTTPClient injects the client used for remote image fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

// WithRunner injects a command runner (used by tests).
func WithRunner(r CommandRunner) Option {
	return func(s *Service) { s.runner = r }
}

// WithCapturer injects a capture backend (used by tests).
func WithCapturer(c OverlayCapturer) Option {
	return func(s *Service) { s.capture = c }
}

// WithSnapshotter injects a snippet snapshot backend (used by tests).
func WithSnapshotter(c SnippetSnapshotter) Option {
	return func(s *Service) { s.snapshot = c }
}
