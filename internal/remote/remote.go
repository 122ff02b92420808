// Package remote holds thin clients for the third-party services the
// pipelines delegate to: code rendering, file-locker metadata, video
// resolution, and video search. Each client takes an injected *http.Client
// so callers control timeouts and tests substitute httptest servers.
package remote

import (
	"errors"
	"net/http"
	"time"
)

// Sentinel errors shared by the clients.
var (
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	ErrUpstreamShape  = errors.New("upstream response has unexpected shape")
)

// defaultClient bounds collaborator calls when the caller passes nil.
func defaultClient() *http.Client {
	return &http.Client{Timeout: 20 * time.Second}
}
