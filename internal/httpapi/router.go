package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the service's route tree.
func NewRouter(a *App) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(a.Log),
		limitBody,
	)

	// Unsupported methods on pipeline routes get the envelope, not chi's
	// bare 405.
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		a.fail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.HandleFunc("/", a.Status)

	r.Get("/brat", a.Caption)
	r.Post("/brat", a.Caption)
	r.Get("/carbon", a.CodeImage)
	r.Post("/carbon", a.CodeImage)

	r.Post("/topdf", a.ToPDF)

	r.Post("/webp2png", a.convertHandler("png"))
	r.Post("/webp2gif", a.convertHandler("gif"))
	r.Post("/webp2mp4", a.convertHandler("mp4"))

	r.Get("/mediafire", a.Mediafire)
	r.Post("/mediafire", a.Mediafire)

	for _, prefix := range []string{"/yt", "/youtube"} {
		r.Get(prefix, a.VideoLookup)
		r.Post(prefix, a.VideoLookup)
		r.Get(prefix+"/search", a.VideoSearch)
		r.Post(prefix+"/search", a.VideoSearch)
		r.Get(prefix+"/dl", a.VideoDownload)
		r.Post(prefix+"/dl", a.VideoDownload)
		r.Get(prefix+"/download", a.VideoDownload)
		r.Post(prefix+"/download", a.VideoDownload)
	}

	r.Handle("/file/*", http.StripPrefix("/file/", a.Store.FileServer()))

	return r
}
