package mediakit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
)

// recordedCall is one invocation observed by fakeRunner.
type recordedCall struct {
	name string
	args []string
}

// fakeRunner records every invocation and optionally fails the nth one.
type fakeRunner struct {
	calls   []recordedCall
	failAt  int // 1-based; 0 means never fail
	failErr error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return "", "tool exploded", f.failErr
	}
	return "", "", nil
}

// tempAllocator hands out sequential files under a test temp dir.
type tempAllocator struct {
	dir string
	n   int
}

func (a *tempAllocator) Allocate(ext string) (string, string, error) {
	a.n++
	name := fmt.Sprintf("out%d.%s", a.n, ext)
	return name, filepath.Join(a.dir, name), nil
}

// ---------------------------------------------------------------------------
// TestConvertAnimated
// ---------------------------------------------------------------------------

func TestConvertAnimated_GIFRunsSingleStep(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := New(WithRunner(runner))
	alloc := &tempAllocator{dir: t.TempDir()}

	name, out, err := svc.ConvertAnimated(context.Background(), "/tmp/in.webp", TargetGIF, alloc)
	if err != nil {
		t.Fatalf("ConvertAnimated() error = %v", err)
	}
	if name != "out1.gif" {
		t.Errorf("name = %q, want out1.gif", name)
	}
	if !strings.HasSuffix(out, "out1.gif") {
		t.Errorf("out = %q, want path ending in out1.gif", out)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("tool invocations = %d, want 1", len(runner.calls))
	}
	call := runner.calls[0]
	if call.name != DefaultTools().Convert {
		t.Errorf("tool = %q, want %q", call.name, DefaultTools().Convert)
	}
	if len(call.args) != 2 || call.args[0] != "/tmp/in.webp" || call.args[1] != out {
		t.Errorf("args = %v, want [/tmp/in.webp %s]", call.args, out)
	}
}

func TestConvertAnimated_MP4ChainsThroughGIF(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := New(WithRunner(runner))
	alloc := &tempAllocator{dir: t.TempDir()}

	name, out, err := svc.ConvertAnimated(context.Background(), "/tmp/in.webp", TargetMP4, alloc)
	if err != nil {
		t.Fatalf("ConvertAnimated() error = %v", err)
	}
	if name != "out2.mp4" {
		t.Errorf("name = %q, want out2.mp4 (the final step's artifact)", name)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("tool invocations = %d, want 2", len(runner.calls))
	}

	first, second := runner.calls[0], runner.calls[1]
	if first.name != DefaultTools().Convert {
		t.Errorf("first tool = %q, want %q", first.name, DefaultTools().Convert)
	}
	if second.name != DefaultTools().FFmpeg {
		t.Errorf("second tool = %q, want %q", second.name, DefaultTools().FFmpeg)
	}
	// The video step must consume the first step's output.
	if second.args[1] != first.args[1] {
		t.Errorf("mp4 input = %q, want gif output %q", second.args[1], first.args[1])
	}
	if second.args[len(second.args)-1] != out {
		t.Errorf("mp4 output = %q, want %q", second.args[len(second.args)-1], out)
	}

	joined := strings.Join(second.args, " ")
	for _, want := range []string{"faststart", "yuv420p", "scale=trunc(iw/2)*2:trunc(ih/2)*2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("ffmpeg args %q missing %q", joined, want)
		}
	}
}

func TestConvertAnimated_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{failAt: 1, failErr: errors.New("exit status 1")}
	svc := New(WithRunner(runner))
	alloc := &tempAllocator{dir: t.TempDir()}

	_, _, err := svc.ConvertAnimated(context.Background(), "/tmp/in.webp", TargetMP4, alloc)
	if !errors.Is(err, ErrToolRun) {
		t.Fatalf("ConvertAnimated() error = %v, want ErrToolRun", err)
	}
	if !strings.Contains(err.Error(), "tool exploded") {
		t.Errorf("error %q does not surface the tool's stderr", err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("tool invocations after failure = %d, want 1 (no second step)", len(runner.calls))
	}
}

func TestConvertAnimated_RejectsBadInputs(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := New(WithRunner(runner))

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.ConvertAnimated(context.Background(), "/tmp/in.webp", "avi", &tempAllocator{dir: t.TempDir()})
		if !errors.Is(err, ErrUnknownTarget) {
			t.Errorf("error = %v, want ErrUnknownTarget", err)
		}
	})

	t.Run("nil allocator", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.ConvertAnimated(context.Background(), "/tmp/in.webp", TargetGIF, nil)
		if !errors.Is(err, ErrMissingAllocator) {
			t.Errorf("error = %v, want ErrMissingAllocator", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestReformatPNG
// ---------------------------------------------------------------------------

func TestReformatPNG_InProcess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{name: "png passthrough", data: func(t *testing.T) []byte { return testPNG(t, 12, 8) }},
		{name: "gif source", data: func(t *testing.T) []byte { return testGIF(t, 12, 8) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// The fallback tool path must never run for decodable sources.
			runner := &fakeRunner{failErr: errors.New("should not be called"), failAt: 1}
			svc := New(WithRunner(runner))

			out, err := svc.ReformatPNG(context.Background(), tt.data(t))
			if err != nil {
				t.Fatalf("ReformatPNG() error = %v", err)
			}

			img, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
				t.Errorf("dimensions = %dx%d, want 12x8", b.Dx(), b.Dy())
			}
			if len(runner.calls) != 0 {
				t.Errorf("fallback tool ran %d times, want 0", len(runner.calls))
			}
		})
	}
}

func TestReformatPNG_UndecodableFallsBackToTool(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{failAt: 1, failErr: errors.New("exit status 1")}
	svc := New(WithRunner(runner))

	_, err := svc.ReformatPNG(context.Background(), []byte("not an image"))
	if !errors.Is(err, ErrToolRun) {
		t.Fatalf("ReformatPNG() error = %v, want ErrToolRun from the fallback", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("fallback invocations = %d, want 1", len(runner.calls))
	}

	call := runner.calls[0]
	if call.name != DefaultTools().Convert {
		t.Errorf("fallback tool = %q, want %q", call.name, DefaultTools().Convert)
	}
	if !strings.HasSuffix(call.args[0], "[0]") {
		t.Errorf("source arg %q missing the first-frame selector", call.args[0])
	}
	if !strings.HasSuffix(call.args[1], ".png") {
		t.Errorf("destination arg %q is not a png path", call.args[1])
	}
}

// ---------------------------------------------------------------------------
// TestTranscodePNG
// ---------------------------------------------------------------------------

func TestTranscodePNG_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := transcodePNG([]byte{0xde, 0xad, 0xbe, 0xef})
	if !errors.Is(err, ErrDecodeImage) {
		t.Errorf("transcodePNG() error = %v, want ErrDecodeImage", err)
	}
}
