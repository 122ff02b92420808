package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

// DefaultSearchInstance is the Invidious-compatible API instance queried
// for video search and single-video lookup.
const DefaultSearchInstance = "https://yewtu.be"

// VideoIDPattern extracts the 11-character video identifier from the URL
// shapes YouTube hands out (watch, shorts, embed, live, youtu.be).
var VideoIDPattern = regexp.MustCompile(
	`(?:https?://)?(?:(?:www\.)?youtube(?:-nocookie)?\.com/(?:shorts/)?(?:watch\?.*v=|embed/|live/|v/)?|youtu\.be/)([-_0-9A-Za-z]{11})`)

// ExtractVideoID returns the video id embedded in s, or "" when s carries
// none.
func ExtractVideoID(s string) string {
	m := VideoIDPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// Video is the subset of search metadata the service surfaces.
type Video struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Seconds   int64  `json:"lengthSeconds"`
	Views     int64  `json:"viewCount"`
	Published int64  `json:"published"`
	URL       string `json:"url"`
}

// VideoSearch queries an Invidious-compatible API.
type VideoSearch struct {
	Instance string
	Client   *http.Client
}

// NewVideoSearch creates a client (empty instance = default).
func NewVideoSearch(instance string, client *http.Client) *VideoSearch {
	if instance == "" {
		instance = DefaultSearchInstance
	}
	if client == nil {
		client = defaultClient()
	}
	return &VideoSearch{Instance: instance, Client: client}
}

// Search returns videos matching the free-text query, in API order.
func (v *VideoSearch) Search(ctx context.Context, query string) ([]Video, error) {
	u := fmt.Sprintf("%s/api/v1/search?type=video&q=%s", v.Instance, url.QueryEscape(query))

	var videos []Video
	if err := v.getJSON(ctx, u, &videos); err != nil {
		return nil, err
	}
	for i := range videos {
		videos[i].URL = watchURL(videos[i].VideoID)
	}
	return videos, nil
}

// Video looks up one video by its identifier.
func (v *VideoSearch) Video(ctx context.Context, id string) (*Video, error) {
	u := fmt.Sprintf("%s/api/v1/videos/%s", v.Instance, url.PathEscape(id))

	var video Video
	if err := v.getJSON(ctx, u, &video); err != nil {
		return nil, err
	}
	if video.VideoID == "" {
		return nil, fmt.Errorf("%w: lookup returned no video", ErrUpstreamShape)
	}
	video.URL = watchURL(video.VideoID)
	return &video, nil
}

func (v *VideoSearch) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamShape, err)
	}
	return nil
}

func watchURL(id string) string {
	return "https://youtu.be/" + id
}
