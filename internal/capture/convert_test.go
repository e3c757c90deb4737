package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/asciiscreen"
)

func TestToBGRA_RGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	frame, err := ToBGRA(img, buf)
	if err != nil {
		t.Fatalf("ToBGRA() = %v", err)
	}
	if frame.Width != 2 || frame.Height != 1 {
		t.Fatalf("frame = %dx%d, want 2x1", frame.Width, frame.Height)
	}
	want := []byte{30, 20, 10, 255, 50, 100, 200, 255}
	if !bytes.Equal(frame.Pix, want) {
		t.Errorf("Pix = %v, want %v", frame.Pix, want)
	}
}

func TestToBGRA_SubImageStride(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x*10 + y), A: 255})
		}
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3))

	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	frame, err := ToBGRA(sub, buf)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Width != 2 || frame.Height != 2 {
		t.Fatalf("frame = %dx%d, want 2x2", frame.Width, frame.Height)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			got := frame.Pix[frame.PixelOffset(x, y)+2]
			want := uint8((x+1)*10 + (y + 1))
			if got != want {
				t.Errorf("red at (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestToBGRA_GenericPath(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 128})
	img.SetGray(2, 0, color.Gray{Y: 255})

	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	frame, err := ToBGRA(img, buf)
	if err != nil {
		t.Fatal(err)
	}
	for x, want := range []uint8{0, 128, 255} {
		if got := frame.Gray(x, 0); got != want {
			t.Errorf("Gray(%d, 0) = %d, want %d", x, got, want)
		}
	}
}

func TestToBGRA_Empty(t *testing.T) {
	buf := asciiscreen.NewSecureBuffer()
	_, err := ToBGRA(image.NewRGBA(image.Rect(0, 0, 0, 5)), buf)
	if !errors.Is(err, asciiscreen.ErrInvalidDimensions) {
		t.Errorf("ToBGRA(empty) = %v, want ErrInvalidDimensions", err)
	}
}

func TestToBGRA_ReusesBuffer(t *testing.T) {
	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	if _, err := ToBGRA(image.NewRGBA(image.Rect(0, 0, 8, 8)), buf); err != nil {
		t.Fatal(err)
	}
	capBefore := buf.Cap()
	frame, err := ToBGRA(image.NewRGBA(image.Rect(0, 0, 4, 4)), buf)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Cap() != capBefore {
		t.Errorf("Cap() = %d after shrink, want %d", buf.Cap(), capBefore)
	}
	if len(frame.Pix) != asciiscreen.FrameSize(4, 4) {
		t.Errorf("len(Pix) = %d, want %d", len(frame.Pix), asciiscreen.FrameSize(4, 4))
	}
}
