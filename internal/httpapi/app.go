// Package httpapi exposes the artifact pipelines over HTTP: request
// normalization, the three-way delivery contract (JSON envelope, raw
// bytes, redirect), and the uniform error envelope.
package httpapi

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	mediakit "github.com/alnah/go-mediakit"
	"github.com/alnah/go-mediakit/internal/config"
	"github.com/alnah/go-mediakit/internal/remote"
	"github.com/alnah/go-mediakit/internal/store"
)

// MediaPipeline is the slice of the mediakit service the handlers drive.
// Narrowed to an interface so handler tests run against fakes.
type MediaPipeline interface {
	CaptureCaption(ctx context.Context, text string) ([]byte, error)
	SnippetImage(ctx context.Context, code mediakit.Code) ([]byte, error)
	ComposePDF(ctx context.Context, urls []string) ([]byte, error)
	ReformatPNG(ctx context.Context, data []byte) ([]byte, error)
	ConvertAnimated(ctx context.Context, srcPath, target string, alloc mediakit.Allocator) (name, path string, err error)
}

// CodeRenderer renders code to an image via a remote service.
type CodeRenderer interface {
	Render(ctx context.Context, code string, opts map[string]any) ([]byte, error)
}

// FileLocker resolves file-locker metadata and direct links.
type FileLocker interface {
	FileInfo(ctx context.Context, quickKey string) (map[string]any, error)
	ScrapeDownload(ctx context.Context, shareURL string) (*remote.DownloadLink, error)
}

// VideoResolver turns a platform video URL into a direct download URL.
type VideoResolver interface {
	Resolve(ctx context.Context, req remote.ResolveRequest) (string, error)
}

// VideoSearcher queries the video search service.
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]remote.Video, error)
	Video(ctx context.Context, id string) (*remote.Video, error)
}

// App carries the handlers' dependencies.
type App struct {
	Log     zerolog.Logger
	Cfg     *config.Config
	Store   *store.Store
	Media   MediaPipeline
	Carbon  CodeRenderer // nil = render snippets locally via Media
	Locker  FileLocker
	Resolve VideoResolver
	Search  VideoSearcher
	Started time.Time
}

// NewApp wires an App from concrete dependencies.
func NewApp(log zerolog.Logger, cfg *config.Config, st *store.Store, media MediaPipeline) *App {
	a := &App{
		Log:     log,
		Cfg:     cfg,
		Store:   st,
		Media:   media,
		Locker:  remote.NewMediafire("", nil),
		Resolve: remote.NewSaveTube(cfg.SaveTube.Host, nil),
		Search:  remote.NewVideoSearch(cfg.Search.Instance, nil),
		Started: time.Now(),
	}
	if cfg.Carbon.Endpoint != "" {
		a.Carbon = remote.NewCarbonara(cfg.Carbon.Endpoint, nil)
	}
	return a
}
