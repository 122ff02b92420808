// Package mediakit turns text, base64 payloads, and remote URLs into
// derived media artifacts: caption images captured from a generator page
// in headless Chrome, syntax-highlighted code snippet images, raster and
// video conversions through external tools, and multi-image PDFs.
//
// # Quick Start
//
// Create a service and run a pipeline:
//
//	svc := mediakit.New()
//	pdf, err := svc.ComposePDF(ctx, []string{"https://example.com/a.png"})
//
// Every pipeline takes a context and honors its deadline. Browser-backed
// pipelines launch one isolated Chrome per call, torn down on every exit
// path, with a SessionPool bounding how many run concurrently.
//
// Pipelines that produce files (ConvertAnimated) write through an
// Allocator so artifact naming and placement stay the caller's concern;
// the others return bytes and never touch disk.
//
// The HTTP server built on this package lives in cmd/mediakitd; the
// request surface is internal/httpapi.
package mediakit
