package capture

import (
	"image"

	"github.com/gogpu/asciiscreen"
)

// ToBGRA writes img into buf as a BGRA8 frame and returns a view of it.
// Alpha is copied as the unused fourth byte; colors are taken as stored
// (premultiplied for *image.RGBA, which is what a screen grab looks like).
func ToBGRA(img image.Image, buf *asciiscreen.SecureBuffer) (asciiscreen.Frame, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return asciiscreen.Frame{}, asciiscreen.ErrInvalidDimensions
	}
	if err := buf.Resize(asciiscreen.FrameSize(width, height)); err != nil {
		return asciiscreen.Frame{}, err
	}
	dst := buf.Data()
	rowBytes := width * asciiscreen.BytesPerPixel

	switch src := img.(type) {
	case *image.RGBA:
		swapRows(dst, src.Pix, src.Stride, rowBytes, height)
	case *image.NRGBA:
		swapRows(dst, src.Pix, src.Stride, rowBytes, height)
	default:
		// Generic slow path for any image type.
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, a := img.At(x, y).RGBA()
				dst[i+0] = uint8(b >> 8)
				dst[i+1] = uint8(g >> 8)
				dst[i+2] = uint8(r >> 8)
				dst[i+3] = uint8(a >> 8)
				i += asciiscreen.BytesPerPixel
			}
		}
	}
	return asciiscreen.NewFrame(dst, width, height)
}

// swapRows copies RGBA rows into BGRA order, honoring the source stride.
func swapRows(dst, src []byte, stride, rowBytes, height int) {
	for y := 0; y < height; y++ {
		s := src[y*stride : y*stride+rowBytes]
		d := dst[y*rowBytes : (y+1)*rowBytes]
		for i := 0; i < rowBytes; i += asciiscreen.BytesPerPixel {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}
