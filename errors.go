package mediakit

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrEmptyText = errors.New("caption text cannot be empty")
	ErrEmptyCode = errors.New("snippet code cannot be empty")

	// Browser capture errors.
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrElementNotFound = errors.New("page element not found")
	ErrScreenshot      = errors.New("element screenshot failed")

	// Snippet rendering errors.
	ErrHTMLRender = errors.New("snippet HTML rendering failed")

	// External tool errors.
	ErrToolRun          = errors.New("external tool failed")
	ErrUnknownTarget    = errors.New("unknown conversion target")
	ErrMissingAllocator = errors.New("conversion requires an allocator")

	// Image reformat errors.
	ErrDecodeImage = errors.New("image decode failed")
	ErrEncodeImage = errors.New("image encode failed")

	// PDF composition errors.
	ErrComposePDF = errors.New("PDF composition failed")
	ErrNoPages    = errors.New("no images survived filtering")
)
