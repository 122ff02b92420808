package mediakit

import (
	"context"
	"net/http"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ OverlayCapturer    = (*rodCapture)(nil)
	_ SnippetSnapshotter = (*rodSnapshot)(nil)
	_ CommandRunner      = (*ExecRunner)(nil)
)

// Service orchestrates the artifact pipelines: caption capture, snippet
// rendering, external tool conversion chains, and PDF composition.
// Create with New, use the pipeline methods, no Close is required: every
// browser session is launched and torn down per capture.
type Service struct {
	cfg      serviceConfig
	capture  OverlayCapturer
	snapshot SnippetSnapshotter
	runner   CommandRunner
	client   *http.Client
	sessions *SessionPool
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithCaptureTimeout, WithTools).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			captureTimeout: defaultCaptureTimeout,
			toolTimeout:    defaultToolTimeout,
			fetchTimeout:   defaultFetchTimeout,
			target:         DefaultCaptureTarget(),
			tools:          DefaultTools(),
			codeStyle:      defaultCodeStyle,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.runner == nil {
		s.runner = &ExecRunner{}
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.cfg.fetchTimeout}
	}
	if s.capture == nil {
		s.capture = newRodCapture(s.cfg.target)
	}
	if s.snapshot == nil {
		s.snapshot = &rodSnapshot{}
	}
	s.sessions = NewSessionPool(ResolvePoolSize(s.cfg.sessionLimit))

	return s
}

// Sessions exposes the browser session pool, mainly for introspection.
func (s *Service) Sessions() *SessionPool {
	return s.sessions
}

// CaptureCaption drives a fresh browser session against the caption
// generator page and returns the overlay screenshot as PNG bytes.
// Admission to the session pool applies backpressure under load.
func (s *Service) CaptureCaption(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	if err := s.sessions.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.sessions.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.captureTimeout)
	defer cancel()

	return s.capture.Capture(ctx, text)
}

// SnippetImage renders code to a syntax-highlighted PNG using the local
// renderer: highlighted HTML first, then an element screenshot of the
// code block in a fresh browser session.
func (s *Service) SnippetImage(ctx context.Context, code Code) ([]byte, error) {
	if code.Code == "" {
		return nil, ErrEmptyCode
	}

	htmlContent, err := renderSnippetHTML(ctx, code, s.cfg.codeStyle)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.sessions.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.captureTimeout)
	defer cancel()

	return s.snapshot.Snapshot(ctx, htmlContent, snippetSelector)
}
