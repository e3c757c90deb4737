package capture

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/cache"

	// Extra decoders for image.Decode, on top of the PNG/JPEG/GIF/BMP/TIFF
	// support imaging registers.
	_ "golang.org/x/image/webp"
)

// ErrNoImagePath is returned when the image source has no file to show.
var ErrNoImagePath = errors.New("capture: image source needs a path")

// ImageSource shows a still image file as if it were the screen.
//
// The file is decoded once (EXIF orientation applied), converted to NRGBA
// and pre-scaled to the grid with the configured Scaler; every Capture
// copies the prepared pixels into the caller's buffer. Recent scalings are kept so a terminal
// resized back and forth does not rescale each time.
type ImageSource struct {
	path    string
	scaler  Scaler
	orig    image.Image
	current image.Image
	scaled  *cache.LRU[image.Point, image.Image]
}

// scaledCacheSize bounds the number of pre-scaled copies kept.
const scaledCacheSize = 4

// NewImageSource decodes path and prepares it for a width x height grid.
func NewImageSource(path string, width, height int, scaler Scaler) (*ImageSource, error) {
	if path == "" {
		return nil, ErrNoImagePath
	}
	img, err := imaging.Open(filepath.Clean(path), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("capture: open image: %w", err)
	}
	return newImageSource(path, img, width, height, scaler), nil
}

func newImageSource(path string, img image.Image, width, height int, scaler Scaler) *ImageSource {
	s := &ImageSource{
		path:   path,
		scaler: scaler,
		orig:   directPixels(img),
		scaled: cache.NewLRU(scaledCacheSize, func(size image.Point, _ image.Image) {
			asciiscreen.Logger().Debug("image: scaled copy evicted", "width", size.X, "height", size.Y)
		}),
	}
	s.SetTarget(width, height)
	return s
}

// directPixels returns img if ToBGRA can copy it row by row, and an NRGBA
// copy otherwise. Decoded JPEGs are YCbCr, which would go through At for
// every pixel of every frame.
func directPixels(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return img
	}
	return imaging.Clone(img)
}

// Name implements Source.
func (s *ImageSource) Name() string {
	return "image:" + filepath.Base(s.path)
}

// SetTarget re-scales the image for a new grid size.
func (s *ImageSource) SetTarget(width, height int) {
	if s.orig == nil {
		return
	}
	key := image.Pt(width, height)
	if img, ok := s.scaled.Get(key); ok {
		s.current = img
		return
	}
	s.current = Scale(s.orig, width, height, s.scaler)
	s.scaled.Put(key, s.current)
}

// Capture implements Source.
func (s *ImageSource) Capture(buf *asciiscreen.SecureBuffer) (asciiscreen.Frame, error) {
	if s.current == nil {
		return asciiscreen.Frame{}, failed(s.Name(), errors.New("source closed"))
	}
	frame, err := ToBGRA(s.current, buf)
	if errors.Is(err, asciiscreen.ErrInvalidDimensions) {
		return asciiscreen.Frame{}, failed(s.Name(), err)
	}
	return frame, err
}

// Close drops the decoded image.
func (s *ImageSource) Close() error {
	s.orig, s.current = nil, nil
	s.scaled.Clear()
	return nil
}
