package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mediakit/internal/remote"
	"github.com/alnah/go-mediakit/internal/sizefmt"
)

// Mediafire handles /mediafire: metadata plus a scraped direct link for a
// file share URL. The two upstream lookups run in parallel.
func (a *App) Mediafire(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	shareURL := p.String("url")
	if shareURL == "" {
		a.fail(w, http.StatusBadRequest, "Required parameter 'url'")
		return
	}
	match := remote.ShareURLPattern.FindStringSubmatch(shareURL)
	if match == nil {
		a.fail(w, http.StatusBadRequest, "Invalid url")
		return
	}
	kind, quickKey := match[1], match[2]
	if kind == "folder" {
		a.fail(w, http.StatusBadRequest, "Folder download not supported yet")
		return
	}

	var (
		info map[string]any
		link *remote.DownloadLink
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		info, err = a.Locker.FileInfo(ctx, quickKey)
		return err
	})
	g.Go(func() error {
		var err error
		link, err = a.Locker.ScrapeDownload(ctx, shareURL)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, remote.ErrUpstreamStatus) {
			a.fail(w, http.StatusBadRequest, upstreamMessage(err))
			return
		}
		a.failInternal(w, r, err)
		return
	}

	result := map[string]any{"download": link.Download}
	if link.Cookie != "" {
		result["cookie"] = link.Cookie
	}
	for key, val := range info {
		if key == "links" {
			continue
		}
		if key == "size" {
			if s, ok := val.(string); ok {
				val = sizefmt.FormatString(s)
			}
		}
		// filename -> filename, created_utc -> created: keep the first
		// underscore-delimited word, matching the public field names.
		key = strings.SplitN(key, "_", 2)[0]
		result[key] = val
	}

	a.ok(w, result)
}

// VideoSearch handles /yt/search: free-text video search.
func (a *App) VideoSearch(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	query := p.String("query")
	if query == "" {
		a.fail(w, http.StatusBadRequest, "Required parameter 'query'")
		return
	}

	videos, err := a.Search.Search(r.Context(), query)
	if err != nil {
		a.failInternal(w, r, err)
		return
	}
	if len(videos) == 0 {
		a.fail(w, http.StatusBadRequest, "Video unavailable")
		return
	}

	a.ok(w, videos)
}

// VideoDownload handles /yt/dl: resolve a video URL to a direct download
// URL and redirect to it.
func (a *App) VideoDownload(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	videoURL := p.String("url")
	if videoURL == "" {
		a.fail(w, http.StatusBadRequest, "Required parameter 'url'")
		return
	}
	if remote.ExtractVideoID(videoURL) == "" {
		a.fail(w, http.StatusBadRequest, "Invalid url")
		return
	}

	isAudio := p.String("type") != "video"
	downloadType := "video"
	if isAudio {
		downloadType = "audio"
	}
	quality := p.String("quality")
	if quality == "" {
		if isAudio {
			quality = "128"
		} else {
			quality = "720"
		}
	}

	downloadURL, err := a.Resolve.Resolve(r.Context(), remote.ResolveRequest{
		URL:          videoURL,
		DownloadType: downloadType,
		Quality:      quality,
	})
	if err != nil {
		a.Log.Warn().Err(err).Str("url", videoURL).Msg("video resolution failed")
		a.fail(w, http.StatusBadRequest, "An error occurred")
		return
	}

	http.Redirect(w, r, downloadURL, http.StatusFound)
}

// VideoLookup handles /yt: single-video metadata by free text or embedded
// video id, with composed download links.
func (a *App) VideoLookup(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	query := p.String("query")
	if query == "" {
		a.fail(w, http.StatusBadRequest, "Required parameter 'query'")
		return
	}

	var (
		video *remote.Video
		err   error
	)
	if id := remote.ExtractVideoID(query); id != "" {
		video, err = a.Search.Video(r.Context(), id)
	} else {
		var videos []remote.Video
		videos, err = a.Search.Search(r.Context(), query)
		if len(videos) > 0 {
			video = &videos[0]
		}
	}
	if err != nil {
		a.failInternal(w, r, err)
		return
	}
	if video == nil || video.URL == "" {
		a.fail(w, http.StatusBadRequest, "Video unavailable")
		return
	}

	dlURL := a.baseURL(r) + "/yt/dl?url=" + url.QueryEscape(video.URL)
	a.ok(w, map[string]any{
		"video": video,
		"download": map[string]string{
			"audio": dlURL + "&type=audio",
			"video": dlURL + "&type=video",
		},
	})
}

// upstreamMessage strips the sentinel prefix so the client sees only the
// upstream's own text.
func upstreamMessage(err error) string {
	return strings.TrimPrefix(err.Error(), remote.ErrUpstreamStatus.Error()+": ")
}
