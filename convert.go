package mediakit

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	// Register decoders for the raster formats the pipelines accept.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"github.com/alnah/go-mediakit/internal/fileutil"
)

// Conversion targets for animated sources.
const (
	TargetGIF = "gif"
	TargetMP4 = "mp4"
)

// toolStep is one link of a conversion chain: a tool invocation producing
// a file with the given extension. The output of each step becomes the
// input of the next.
type toolStep struct {
	tool string
	ext  string
	args func(src, dst string) []string
}

// ReformatPNG re-encodes raster bytes (webp, gif, jpeg, png) as PNG.
// Decoding happens in-process; sources the pure-Go decoders reject
// (animated webp, mainly) fall back to one ImageMagick invocation.
func (s *Service) ReformatPNG(ctx context.Context, data []byte) ([]byte, error) {
	if out, err := transcodePNG(data); err == nil {
		return out, nil
	}
	return s.reformatPNGTool(ctx, data)
}

// reformatPNGTool shells out to the raster converter for sources the
// in-process decoders cannot handle.
func (s *Service) reformatPNGTool(ctx context.Context, data []byte) ([]byte, error) {
	src, cleanupSrc, err := fileutil.WriteTempBytes(data, "webp")
	if err != nil {
		return nil, err
	}
	defer cleanupSrc()

	dst := strings.TrimSuffix(src, ".webp") + ".png"
	defer func() { _ = os.Remove(dst) }()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.toolTimeout)
	defer cancel()

	// ImageMagick writes out-000.png, out-001.png... for multi-frame input;
	// [0] pins the first frame.
	if _, stderr, err := s.runner.Run(ctx, s.cfg.tools.Convert, src+"[0]", dst); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolRun, strings.TrimSpace(stderr), err)
	}

	out, err := os.ReadFile(dst)
	if err != nil {
		return nil, fmt.Errorf("reading converted image: %w", err)
	}
	return out, nil
}

// ConvertAnimated runs the tool chain for an animated source already on
// disk: webp -> gif, and for TargetMP4 a second hop gif -> mp4. Each step
// allocates its output through alloc; the chain aborts on the first
// failing step, leaving intermediates for the janitor.
//
// The two-hop route exists because the video encoder refuses animated
// webp input on common builds; do not collapse it into one invocation.
func (s *Service) ConvertAnimated(ctx context.Context, srcPath, target string, alloc Allocator) (string, string, error) {
	if alloc == nil {
		return "", "", ErrMissingAllocator
	}

	var steps []toolStep
	switch target {
	case TargetGIF:
		steps = []toolStep{s.gifStep()}
	case TargetMP4:
		steps = []toolStep{s.gifStep(), s.mp4Step()}
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	var name, out string
	in := srcPath
	for _, step := range steps {
		var err error
		name, out, err = alloc.Allocate(step.ext)
		if err != nil {
			return "", "", err
		}
		if err := s.runStep(ctx, step, in, out); err != nil {
			return "", "", err
		}
		in = out
	}
	return name, out, nil
}

func (s *Service) runStep(ctx context.Context, step toolStep, src, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.toolTimeout)
	defer cancel()

	if _, stderr, err := s.runner.Run(ctx, step.tool, step.args(src, dst)...); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolRun, strings.TrimSpace(stderr), err)
	}
	return nil
}

func (s *Service) gifStep() toolStep {
	return toolStep{
		tool: s.cfg.tools.Convert,
		ext:  "gif",
		args: func(src, dst string) []string { return []string{src, dst} },
	}
}

func (s *Service) mp4Step() toolStep {
	return toolStep{
		tool: s.cfg.tools.FFmpeg,
		ext:  "mp4",
		args: func(src, dst string) []string {
			return []string{
				"-i", src,
				"-movflags", "faststart",
				"-pix_fmt", "yuv420p",
				// H.264 needs even dimensions; round each down.
				"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
				dst,
			}
		},
	}
}

// transcodePNG decodes raster bytes in-process and re-encodes them as PNG.
func transcodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeImage, err)
	}
	return buf.Bytes(), nil
}
