package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// MediafireAPIBase is the file-locker metadata API root.
const MediafireAPIBase = "https://mediafire.com/api/1.5"

// ShareURLPattern matches mediafire share links and captures the resource
// kind (file or folder) and the quick key.
var ShareURLPattern = regexp.MustCompile(`https?://(?:www\.)?mediafire\.com/(file|folder)/(\w+)`)

// downloadAnchor extracts the direct link from the share page markup.
var downloadAnchor = regexp.MustCompile(`href="(.*?)"[^>]*id="downloadButton"`)

// Mediafire resolves file-locker metadata and direct download links.
type Mediafire struct {
	APIBase string
	Client  *http.Client
}

// NewMediafire creates a client (empty base = public API).
func NewMediafire(apiBase string, client *http.Client) *Mediafire {
	if apiBase == "" {
		apiBase = MediafireAPIBase
	}
	if client == nil {
		client = defaultClient()
	}
	return &Mediafire{APIBase: apiBase, Client: client}
}

// FileInfo returns the raw metadata map for a quick key. The map mirrors
// the API's file_info object; callers pick the fields they surface.
func (m *Mediafire) FileInfo(ctx context.Context, quickKey string) (map[string]any, error) {
	u := fmt.Sprintf("%s/file/get_info.php?response_format=json&quick_key=%s", m.APIBase, quickKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Response struct {
			FileInfo map[string]any `json:"file_info"`
			Result   string         `json:"result"`
			Message  string         `json:"message"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamShape, err)
	}
	if body.Response.FileInfo == nil {
		if body.Response.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, body.Response.Message)
		}
		return nil, fmt.Errorf("%w: missing file_info", ErrUpstreamShape)
	}
	return body.Response.FileInfo, nil
}

// DownloadLink holds the scraped direct link plus the session cookie some
// mirrors require to honor it.
type DownloadLink struct {
	Download string `json:"download"`
	Cookie   string `json:"cookie,omitempty"`
}

// ScrapeDownload fetches the share page and extracts the download button's
// target. Returns ErrUpstreamShape when the page carries no button
// (removed files render a notice instead).
func (m *Mediafire) ScrapeDownload(ctx context.Context, shareURL string) (*DownloadLink, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shareURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	match := downloadAnchor.FindSubmatch(html)
	if match == nil {
		return nil, fmt.Errorf("%w: no download link on share page", ErrUpstreamShape)
	}
	return &DownloadLink{
		Download: string(match[1]),
		Cookie:   resp.Header.Get("Set-Cookie"),
	}, nil
}
