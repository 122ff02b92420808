package httpapi

import (
	"errors"
	"net/http"

	mediakit "github.com/alnah/go-mediakit"
)

// Caption handles /brat: capture the generator page's overlay for the
// given text.
func (a *App) Caption(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	text := p.String("text")
	if text == "" {
		a.fail(w, http.StatusBadRequest, "Required parameter 'text'")
		return
	}

	img, err := a.Media.CaptureCaption(r.Context(), text)
	if err != nil {
		a.failInternal(w, r, err)
		return
	}

	name, _, err := a.Store.Allocate("png")
	if err != nil {
		a.failInternal(w, r, err)
		return
	}
	if err := a.Store.Write(name, img); err != nil {
		a.failInternal(w, r, err)
		return
	}

	a.deliver(w, r, p, name)
}

// CodeImage handles /carbon: render code to a highlighted image, remotely
// when a carbonara endpoint is configured, locally otherwise.
func (a *App) CodeImage(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	code := p.String("code")
	if code == "" {
		code = p.String("text")
	}
	if code == "" {
		a.fail(w, http.StatusBadRequest, "Required parameter 'code'")
		return
	}

	var img []byte
	var err error
	if a.Carbon != nil {
		img, err = a.Carbon.Render(r.Context(), code, p.Map())
	} else {
		img, err = a.Media.SnippetImage(r.Context(), mediakit.Code{
			Code:     code,
			Language: p.String("language"),
		})
	}
	if err != nil {
		a.failInternal(w, r, err)
		return
	}

	name, _, err := a.Store.Allocate("png")
	if err != nil {
		a.failInternal(w, r, err)
		return
	}
	if err := a.Store.Write(name, img); err != nil {
		a.failInternal(w, r, err)
		return
	}

	a.deliver(w, r, p, name)
}

// ToPDF handles /topdf: composite the given image URLs into one PDF.
func (a *App) ToPDF(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	urls := p.List("images")
	if urls == nil {
		a.fail(w, http.StatusBadRequest, "Payload 'images' requires an array of urls")
		return
	}

	pdf, err := a.Media.ComposePDF(r.Context(), urls)
	if err != nil {
		if errors.Is(err, mediakit.ErrNoPages) {
			a.fail(w, http.StatusBadRequest, "Can't convert to pdf")
			return
		}
		a.failInternal(w, r, err)
		return
	}

	name, _, err := a.Store.Allocate("pdf")
	if err != nil {
		a.failInternal(w, r, err)
		return
	}
	if err := a.Store.Write(name, pdf); err != nil {
		a.failInternal(w, r, err)
		return
	}

	a.deliver(w, r, p, name)
}

// convertHandler builds the /webp2{png,gif,mp4} handler for one target.
func (a *App) convertHandler(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseParams(r)

		payload := p.String("file")
		if payload == "" {
			a.fail(w, http.StatusBadRequest, "Payload 'file' requires base64 string")
			return
		}
		data, ok := decodeBase64(payload)
		if !ok {
			a.fail(w, http.StatusBadRequest, "Invalid base64 format")
			return
		}

		if target == "png" {
			img, err := a.Media.ReformatPNG(r.Context(), data)
			if err != nil {
				a.failInternal(w, r, err)
				return
			}
			name, _, err := a.Store.Allocate("png")
			if err != nil {
				a.failInternal(w, r, err)
				return
			}
			if err := a.Store.Write(name, img); err != nil {
				a.failInternal(w, r, err)
				return
			}
			a.deliver(w, r, p, name)
			return
		}

		srcName, srcPath, err := a.Store.Allocate("webp")
		if err != nil {
			a.failInternal(w, r, err)
			return
		}
		if err := a.Store.Write(srcName, data); err != nil {
			a.failInternal(w, r, err)
			return
		}

		name, _, err := a.Media.ConvertAnimated(r.Context(), srcPath, target, a.Store)
		if err != nil {
			a.failInternal(w, r, err)
			return
		}

		a.deliver(w, r, p, name)
	}
}
