package mediakit

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/go-rod/rod/lib/proto"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/alnah/go-mediakit/internal/fileutil"
)

// defaultCodeStyle is the chroma style applied to rendered snippets.
const defaultCodeStyle = "dracula"

// snippetSelector is the element screenshotted from the rendered page.
const snippetSelector = "pre"

// snippetTemplate wraps the highlighted fragment in a standalone page.
// The dark padded body keeps the screenshot background uniform; inline-block
// makes the <pre> bounding box hug the code instead of spanning the window.
const snippetTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background: #151718; margin: 0; padding: 24px; display: inline-block; }
pre { margin: 0; padding: 24px; border-radius: 8px; font: 14px/1.5 "DejaVu Sans Mono", monospace; }
</style>
</head>
<body>
%s
</body>
</html>`

// SnippetSnapshotter abstracts the browser screenshot of rendered snippet
// HTML to enable testing without a browser.
type SnippetSnapshotter interface {
	Snapshot(ctx context.Context, htmlContent, selector string) ([]byte, error)
}

// renderSnippetHTML converts code into a standalone highlighted HTML page.
// The snippet is fenced into a markdown code block so goldmark's
// highlighting extension drives chroma with inline styles.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func renderSnippetHTML(ctx context.Context, code Code, style string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if style == "" {
		style = defaultCodeStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles: the page ships no stylesheet
				),
			),
		),
	)

	fenced := fence(code)

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := md.Convert([]byte(fenced), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLRender, err)}
			return
		}
		done <- result{html: fmt.Sprintf(snippetTemplate, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// fence wraps the snippet in a fenced code block. A fence longer than any
// backtick run inside the code keeps the block intact.
func fence(code Code) string {
	marker := "```"
	for strings.Contains(code.Code, marker) {
		marker += "`"
	}
	return marker + code.Language + "\n" + code.Code + "\n" + marker + "\n"
}

// rodSnapshot implements SnippetSnapshotter using go-rod, one isolated
// browser per snapshot, torn down on every exit path.
type rodSnapshot struct{}

// Snapshot writes the HTML to a temp file, loads it via file://, and
// screenshots the selected element as PNG.
func (r *rodSnapshot) Snapshot(ctx context.Context, htmlContent, selector string) ([]byte, error) {
	tmpPath, tmpCleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer tmpCleanup()

	browser, cleanup, err := launchBrowser(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	el, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrElementNotFound, selector, err)
	}

	bin, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	return bin, nil
}
