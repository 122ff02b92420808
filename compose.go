package mediakit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/alnah/go-mediakit/internal/fileutil"
)

// maxImageBytes caps a single fetched image (guards against hostile hosts
// streaming unbounded bodies).
const maxImageBytes = 64 << 20

// importSpec places each image on one A4 portrait page, centered, scaled
// to fit the page while preserving aspect ratio, zero margin.
const importSpec = "formsize:A4, position:c, scalefactor:1.0 rel"

// ComposePDF fetches the given URLs in order and composites each image
// onto one page of a single PDF, returned as an in-memory buffer.
//
// Filtering is silent: entries that are not http(s) URLs, fail to fetch,
// answer non-2xx, or carry a non-image content type contribute no page.
// Page order is input order among survivors. If nothing survives the
// result is ErrNoPages: an empty document is never a success.
func (s *Service) ComposePDF(ctx context.Context, urls []string) ([]byte, error) {
	var pages []io.Reader

	for _, raw := range urls {
		img, ok, err := s.fetchPageImage(ctx, raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		pages = append(pages, bytes.NewReader(img))
	}

	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	imp, err := api.Import(importSpec, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposePDF, err)
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, pages, imp, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposePDF, err)
	}

	return buf.Bytes(), nil
}

// fetchPageImage retrieves one candidate image. ok=false means the entry
// is skipped; a non-nil error aborts the whole composition (transcoding
// failures and a dead parent context do, the filtering discipline
// swallows the rest).
func (s *Service) fetchPageImage(ctx context.Context, raw string) (img []byte, ok bool, err error) {
	if !fileutil.IsURL(raw) {
		return nil, false, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, nil
	}
	// Some hosts reject hotlinking unless the referer matches their origin.
	req.Header.Set("Referer", u.Scheme+"://"+u.Host)

	resp, err := s.client.Do(req)
	if err != nil {
		// A slow host times out its own fetch and is skipped. A dead
		// parent context means the request itself is gone, so the whole
		// composition stops instead of degrading into a partial document.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, nil
	}

	ctype := resp.Header.Get("Content-Type")
	if !strings.Contains(ctype, "image") {
		return nil, false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, false, nil
	}

	// The compositor embeds PNG/JPEG/TIFF directly; gif and webp are
	// re-encoded first.
	if strings.HasSuffix(ctype, "gif") || strings.HasSuffix(ctype, "webp") {
		body, err = transcodePNG(body)
		if err != nil {
			return nil, false, err
		}
	}

	return body, true, nil
}
