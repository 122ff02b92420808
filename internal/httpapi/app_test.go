package httpapi

// Shared handler-test plumbing: an App wired with fakes and a scratch
// store rooted in the test's temp dir.

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	mediakit "github.com/alnah/go-mediakit"
	"github.com/alnah/go-mediakit/internal/config"
	"github.com/alnah/go-mediakit/internal/remote"
	"github.com/alnah/go-mediakit/internal/store"
)

// fakeMedia implements MediaPipeline with canned outputs.
type fakeMedia struct {
	captionOut []byte
	captionErr error
	gotCaption string

	snippetOut []byte
	snippetErr error
	gotCode    mediakit.Code

	pdfOut  []byte
	pdfErr  error
	gotURLs []string

	pngOut []byte
	pngErr error

	convertName string
	convertErr  error
	gotSrcPath  string
	gotTarget   string
}

func (f *fakeMedia) CaptureCaption(_ context.Context, text string) ([]byte, error) {
	f.gotCaption = text
	return f.captionOut, f.captionErr
}

func (f *fakeMedia) SnippetImage(_ context.Context, code mediakit.Code) ([]byte, error) {
	f.gotCode = code
	return f.snippetOut, f.snippetErr
}

func (f *fakeMedia) ComposePDF(_ context.Context, urls []string) ([]byte, error) {
	f.gotURLs = urls
	return f.pdfOut, f.pdfErr
}

func (f *fakeMedia) ReformatPNG(_ context.Context, _ []byte) ([]byte, error) {
	return f.pngOut, f.pngErr
}

func (f *fakeMedia) ConvertAnimated(_ context.Context, srcPath, target string, alloc mediakit.Allocator) (string, string, error) {
	f.gotSrcPath = srcPath
	f.gotTarget = target
	if f.convertErr != nil {
		return "", "", f.convertErr
	}
	name := f.convertName
	if name == "" {
		name = "converted." + target
	}
	if alloc != nil {
		if st, ok := alloc.(*store.Store); ok {
			_ = st.Write(name, []byte(target+"-bytes"))
			return name, filepath.Join(st.Dir(), name), nil
		}
	}
	return name, name, nil
}

// fakeRenderer implements CodeRenderer.
type fakeRenderer struct {
	out     []byte
	err     error
	gotCode string
	gotOpts map[string]any
}

func (f *fakeRenderer) Render(_ context.Context, code string, opts map[string]any) ([]byte, error) {
	f.gotCode = code
	f.gotOpts = opts
	return f.out, f.err
}

// fakeLocker implements FileLocker.
type fakeLocker struct {
	info    map[string]any
	infoErr error
	link    *remote.DownloadLink
	linkErr error
	gotKey  string
	gotURL  string
}

func (f *fakeLocker) FileInfo(_ context.Context, quickKey string) (map[string]any, error) {
	f.gotKey = quickKey
	return f.info, f.infoErr
}

func (f *fakeLocker) ScrapeDownload(_ context.Context, shareURL string) (*remote.DownloadLink, error) {
	f.gotURL = shareURL
	return f.link, f.linkErr
}

// fakeResolver implements VideoResolver.
type fakeResolver struct {
	url    string
	err    error
	gotReq remote.ResolveRequest
}

func (f *fakeResolver) Resolve(_ context.Context, req remote.ResolveRequest) (string, error) {
	f.gotReq = req
	return f.url, f.err
}

// fakeSearcher implements VideoSearcher.
type fakeSearcher struct {
	videos    []remote.Video
	searchErr error
	video     *remote.Video
	videoErr  error
	gotQuery  string
	gotID     string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]remote.Video, error) {
	f.gotQuery = query
	return f.videos, f.searchErr
}

func (f *fakeSearcher) Video(_ context.Context, id string) (*remote.Video, error) {
	f.gotID = id
	return f.video, f.videoErr
}

// newTestApp builds an App on a temp scratch dir with all fakes wired.
func newTestApp(t *testing.T, media *fakeMedia) *App {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	cfg := config.Default()
	cfg.BaseURL = "https://media.test"

	return &App{
		Log:     zerolog.Nop(),
		Cfg:     cfg,
		Store:   st,
		Media:   media,
		Locker:  &fakeLocker{},
		Resolve: &fakeResolver{},
		Search:  &fakeSearcher{},
		Started: time.Now(),
	}
}

// readArtifact fetches a stored artifact's bytes by public name.
func readArtifact(t *testing.T, a *App, name string) []byte {
	t.Helper()
	path, err := a.Store.Path(name)
	if err != nil {
		t.Fatalf("Path(%q) error = %v", name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact %q: %v", name, err)
	}
	return data
}

// readArtifactPath reads artifact bytes at a known path.
func readArtifactPath(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %q: %v", path, err)
	}
	return data
}

func TestNewApp_WiresRemoteDefaults(t *testing.T) {
	t.Parallel()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	cfg := config.Default()
	a := NewApp(zerolog.Nop(), cfg, st, &fakeMedia{})

	if a.Locker == nil || a.Resolve == nil || a.Search == nil {
		t.Error("NewApp() left a remote client nil")
	}
	if a.Carbon != nil {
		t.Error("Carbon set without an endpoint, want local rendering")
	}

	cfg.Carbon.Endpoint = "https://carbonara.example.com/api/cook"
	a = NewApp(zerolog.Nop(), cfg, st, &fakeMedia{})
	if a.Carbon == nil {
		t.Error("Carbon nil with an endpoint configured")
	}
}
