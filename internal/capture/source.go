// Package capture provides frame sources for the render loop.
//
// A Source fills the caller's SecureBuffer with one BGRA8 frame per call and
// returns a Frame view into it. Sources never keep references into that
// buffer, and any resource they hold (an X connection, a decoded image) is
// acquired when the source is opened and released by Close.
package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/asciiscreen"
)

// ErrCaptureFailed is wrapped by every CaptureError.
var ErrCaptureFailed = errors.New("capture: failed")

// ErrUnknownSource is returned by Open for an unrecognized source kind.
var ErrUnknownSource = errors.New("capture: unknown source")

// CaptureError reports a failed capture attempt. The render loop treats it
// as transient: the frame is skipped and the capture retried.
type CaptureError struct {
	Source string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture: %s: %v", e.Source, e.Err)
}

func (e *CaptureError) Unwrap() []error {
	return []error{ErrCaptureFailed, e.Err}
}

func failed(source string, err error) error {
	return &CaptureError{Source: source, Err: err}
}

// Source produces frames.
type Source interface {
	// Name identifies the source in logs and the status line.
	Name() string

	// Capture writes the next frame into buf, resizing it as needed, and
	// returns a view of it. The view is valid until the next Capture.
	// Errors that are not *CaptureError (such as asciiscreen.ErrOutOfMemory
	// from buf.Resize) are returned unwrapped.
	Capture(buf *asciiscreen.SecureBuffer) (asciiscreen.Frame, error)

	// Close releases the source's resources.
	Close() error
}

// Targeter is implemented by sources that can pre-scale to the grid size,
// like a stretch blit done by the capture device. The loop calls SetTarget
// whenever the grid dimensions change.
type Targeter interface {
	SetTarget(width, height int)
}

// Kind names a source implementation.
type Kind string

// Source kinds.
const (
	KindPattern Kind = "pattern"
	KindImage   Kind = "image"
	KindX11     Kind = "x11"
)

// Kinds lists the supported source kinds.
func Kinds() []Kind {
	return []Kind{KindPattern, KindImage, KindX11}
}

// ParseKind converts a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Options selects and configures a source.
type Options struct {
	Kind Kind

	// Width and Height are the target grid size, used by sources that
	// pre-scale.
	Width  int
	Height int

	// ImagePath is the file shown by the image source.
	ImagePath string

	// Scaler picks the pre-scaling filter. ScalerNone keeps native
	// resolution and leaves downsampling to the renderer.
	Scaler Scaler

	// Display is the X display for the x11 source ("" uses $DISPLAY).
	Display string
}

// Open acquires the source described by opts. The caller must Close it.
func Open(opts Options) (Source, error) {
	var (
		src Source
		err error
	)
	switch opts.Kind {
	case KindPattern:
		src, err = NewPatternSource(opts.Width, opts.Height, opts.Scaler)
	case KindImage:
		src, err = NewImageSource(opts.ImagePath, opts.Width, opts.Height, opts.Scaler)
	case KindX11:
		src, err = NewX11Source(opts.Display)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, opts.Kind)
	}
	if err != nil {
		return nil, err
	}
	asciiscreen.Logger().Info("capture source opened", "source", src.Name())
	return src, nil
}
