package capture

import (
	"bytes"
	"testing"
	"time"

	"github.com/gogpu/asciiscreen"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPatternSource_GridSize(t *testing.T) {
	src, err := NewPatternSource(40, 12, ScalerBilinear)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = src.Close() })

	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	frame, err := src.Capture(buf)
	if err != nil {
		t.Fatalf("Capture() = %v", err)
	}
	if frame.Width != 40 || frame.Height != 12 {
		t.Errorf("frame = %dx%d, want 40x12", frame.Width, frame.Height)
	}
}

func TestPatternSource_NativeSize(t *testing.T) {
	src, err := NewPatternSource(40, 12, ScalerNone)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = src.Close() })

	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	frame, err := src.Capture(buf)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Width != patternNativeWidth || frame.Height != patternNativeHeight {
		t.Errorf("frame = %dx%d, want native %dx%d",
			frame.Width, frame.Height, patternNativeWidth, patternNativeHeight)
	}

	src.SetTarget(10, 10)
	frame, err = src.Capture(buf)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Width != patternNativeWidth {
		t.Errorf("SetTarget changed native pattern width to %d", frame.Width)
	}
}

func TestPatternSource_SetTarget(t *testing.T) {
	src, err := NewPatternSource(20, 5, ScalerNearest)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = src.Close() })

	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	src.SetTarget(30, 9)
	frame, err := src.Capture(buf)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Width != 30 || frame.Height != 9 {
		t.Errorf("frame = %dx%d, want 30x9", frame.Width, frame.Height)
	}
}

func TestPatternSource_Animates(t *testing.T) {
	src, err := NewPatternSource(32, 8, ScalerBilinear)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = src.Close() })

	start := src.start
	buf := asciiscreen.NewSecureBuffer()
	t.Cleanup(buf.Release)

	grab := func(at time.Time) []byte {
		src.now = fixedClock(at)
		frame, err := src.Capture(buf)
		if err != nil {
			t.Fatal(err)
		}
		return bytes.Clone(frame.Pix)
	}

	a := grab(start.Add(time.Second))
	b := grab(start.Add(time.Second))
	c := grab(start.Add(1500 * time.Millisecond))

	if !bytes.Equal(a, b) {
		t.Error("pattern is not deterministic for a fixed clock")
	}
	if bytes.Equal(a, c) {
		t.Error("pattern did not change over time")
	}
}

func TestPatternSource_InvalidSize(t *testing.T) {
	if _, err := NewPatternSource(0, 0, ScalerBilinear); err == nil {
		t.Error("NewPatternSource(0, 0) should fail")
	}
}
