package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestSaveTube points a client at a plain-http test server.
func newTestSaveTube(t *testing.T, handler http.Handler) *SaveTube {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSaveTube(strings.TrimPrefix(srv.URL, "http://"), srv.Client())
	s.Scheme = "http"
	return s
}

// ---------------------------------------------------------------------------
// TestResolve
// ---------------------------------------------------------------------------

func TestResolve_TwoStepExchange(t *testing.T) {
	t.Parallel()

	var infoReq, dlReq ResolveRequest
	s := newTestSaveTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/info":
			_ = json.NewDecoder(r.Body).Decode(&infoReq)
			_, _ = w.Write([]byte(`{"data":{"key":"exchange-key"}}`))
		case "/download":
			_ = json.NewDecoder(r.Body).Decode(&dlReq)
			_, _ = w.Write([]byte(`{"data":{"downloadUrl":"https://dl.example.com/video.mp4"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	got, err := s.Resolve(context.Background(), ResolveRequest{
		URL:          "https://youtu.be/dQw4w9WgXcQ",
		DownloadType: "video",
		Quality:      "720",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "https://dl.example.com/video.mp4" {
		t.Errorf("Resolve() = %q, want the download url", got)
	}

	if infoReq.Key != "" {
		t.Errorf("/info request carried key %q, want none", infoReq.Key)
	}
	if dlReq.Key != "exchange-key" {
		t.Errorf("/download request key = %q, want the /info key", dlReq.Key)
	}
	if dlReq.DownloadType != "video" || dlReq.Quality != "720" {
		t.Errorf("/download request = %+v, lost the original fields", dlReq)
	}
}

func TestResolve_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "info returns no key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"data":{}}`))
			},
			wantErr: ErrUpstreamShape,
		},
		{
			name: "download returns no url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/info" {
					_, _ = w.Write([]byte(`{"data":{"key":"k"}}`))
					return
				}
				_, _ = w.Write([]byte(`{"data":{}}`))
			},
			wantErr: ErrUpstreamShape,
		},
		{
			name: "service error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", http.StatusServiceUnavailable)
			},
			wantErr: ErrUpstreamStatus,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSaveTube(t, tt.handler)
			_, err := s.Resolve(context.Background(), ResolveRequest{URL: "https://youtu.be/x"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSaveTube_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSaveTube("", nil)
	if s.Host != DefaultSaveTubeHost {
		t.Errorf("Host = %q, want %q", s.Host, DefaultSaveTubeHost)
	}
	if s.Scheme != "https" {
		t.Errorf("Scheme = %q, want https", s.Scheme)
	}
}
