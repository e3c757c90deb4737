package asciiscreen

// BytesPerPixel is the size of one BGRA8 pixel.
const BytesPerPixel = 4

// Frame is a read-only view of one captured image: BGRA8, row-major,
// top row first, 4 bytes per pixel with no row padding.
//
// A Frame does not own Pix. Capture sources typically point it into a
// SecureBuffer that they overwrite on the next capture, so a Frame is only
// valid until then.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// NewFrame wraps pix as a width x height frame after validating its length.
func NewFrame(pix []byte, width, height int) (Frame, error) {
	f := Frame{Pix: pix, Width: width, Height: height}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Validate reports whether the dimensions are positive and Pix holds exactly
// Width*Height pixels.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return ErrInvalidDimensions
	}
	if len(f.Pix) != FrameSize(f.Width, f.Height) {
		return ErrFrameSize
	}
	return nil
}

// FrameSize returns the number of bytes a width x height BGRA frame needs.
func FrameSize(width, height int) int {
	return width * height * BytesPerPixel
}

// PixelOffset returns the byte offset of pixel (x, y).
func (f Frame) PixelOffset(x, y int) int {
	return (y*f.Width + x) * BytesPerPixel
}

// Gray returns the luminance of pixel (x, y).
func (f Frame) Gray(x, y int) uint8 {
	return LuminanceBGRA(f.Pix[f.PixelOffset(x, y):])
}
