package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultCarbonaraEndpoint is the public carbonara rendering service.
const DefaultCarbonaraEndpoint = "https://carbonara.solopov.dev/api/cook"

// Carbonara renders code to an image via a carbonara-compatible service:
// POST JSON {code, ...options} -> PNG bytes, or a JSON error body.
type Carbonara struct {
	Endpoint string
	Client   *http.Client
}

// NewCarbonara creates a client for the given endpoint (empty = default).
func NewCarbonara(endpoint string, client *http.Client) *Carbonara {
	if endpoint == "" {
		endpoint = DefaultCarbonaraEndpoint
	}
	if client == nil {
		client = defaultClient()
	}
	return &Carbonara{Endpoint: endpoint, Client: client}
}

// Render submits code plus passthrough options and returns image bytes.
// Unknown options are forwarded untouched; the service ignores what it
// doesn't understand.
func (c *Carbonara) Render(ctx context.Context, code string, opts map[string]any) ([]byte, error) {
	payload := map[string]any{"code": code}
	for k, v := range opts {
		if k == "code" {
			continue
		}
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies are JSON with an "error" field when the service can
		// explain itself; fall back to the status line otherwise.
		if strings.Contains(resp.Header.Get("Content-Type"), "json") {
			var errBody struct {
				Error string `json:"error"`
			}
			if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
				return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, errBody.Error)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading rendered image: %w", err)
	}
	return img, nil
}
