package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultSaveTubeHost is the public video-resolution service.
const DefaultSaveTubeHost = "cdn59.savetube.su"

// SaveTube resolves a platform video URL to a direct download URL through
// the service's two-step exchange: POST /info yields a key, POST /download
// with that key yields the link.
type SaveTube struct {
	Host   string
	Scheme string // overridable for tests; defaults to https
	Client *http.Client
}

// NewSaveTube creates a client (empty host = public service).
func NewSaveTube(host string, client *http.Client) *SaveTube {
	if host == "" {
		host = DefaultSaveTubeHost
	}
	if client == nil {
		client = defaultClient()
	}
	return &SaveTube{Host: host, Scheme: "https", Client: client}
}

// ResolveRequest describes what to resolve.
type ResolveRequest struct {
	URL          string `json:"url"`
	DownloadType string `json:"downloadType"` // "audio" or "video"
	Quality      string `json:"quality"`
	Key          string `json:"key,omitempty"` // filled between the two steps
}

// Resolve runs the /info -> /download exchange and returns the direct URL.
func (s *SaveTube) Resolve(ctx context.Context, reqBody ResolveRequest) (string, error) {
	info, err := s.post(ctx, "/info", reqBody)
	if err != nil {
		return "", err
	}
	if info.Data.Key == "" {
		return "", fmt.Errorf("%w: /info returned no key", ErrUpstreamShape)
	}

	reqBody.Key = info.Data.Key
	dl, err := s.post(ctx, "/download", reqBody)
	if err != nil {
		return "", err
	}
	if dl.Data.DownloadURL == "" {
		return "", fmt.Errorf("%w: /download returned no url", ErrUpstreamShape)
	}
	return dl.Data.DownloadURL, nil
}

type saveTubeResponse struct {
	Data struct {
		Key         string `json:"key"`
		DownloadURL string `json:"downloadUrl"`
	} `json:"data"`
}

func (s *SaveTube) post(ctx context.Context, endpoint string, reqBody ResolveRequest) (*saveTubeResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	u := s.Scheme + "://" + s.Host + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authority", s.Host)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s", ErrUpstreamStatus, endpoint, resp.Status)
	}

	var decoded saveTubeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamShape, err)
	}
	return &decoded, nil
}
