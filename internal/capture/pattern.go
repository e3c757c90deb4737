package capture

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/asciiscreen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Native size of the pattern when no pre-scaling is requested.
const (
	patternNativeWidth  = 640
	patternNativeHeight = 360
)

// PatternSource renders an animated test card: a drifting gradient with a
// clock banner scrolling across it. It needs no display, which makes it the
// default source and the one used for demos and tests.
type PatternSource struct {
	width  int
	height int
	scaler Scaler

	canvas *image.RGBA
	font   *opentype.Font
	face   font.Face

	now   func() time.Time
	start time.Time

	label   string
	labelAt int64
}

// NewPatternSource returns a pattern drawn at the grid size, or at a fixed
// native size when scaler is ScalerNone.
func NewPatternSource(width, height int, scaler Scaler) (*PatternSource, error) {
	f, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("capture: parse font: %w", err)
	}
	s := &PatternSource{
		scaler:  scaler,
		font:    f,
		now:     time.Now,
		labelAt: -1,
	}
	s.start = s.now()
	s.SetTarget(width, height)
	if s.canvas == nil {
		return nil, asciiscreen.ErrInvalidDimensions
	}
	return s, nil
}

// Name implements Source.
func (s *PatternSource) Name() string { return "pattern" }

// SetTarget resizes the canvas for a new grid size. It is a no-op when the
// pattern runs at native size.
func (s *PatternSource) SetTarget(width, height int) {
	if s.scaler == ScalerNone || s.scaler == "" {
		width, height = patternNativeWidth, patternNativeHeight
	}
	if width <= 0 || height <= 0 {
		return
	}
	if s.canvas != nil && s.width == width && s.height == height {
		return
	}
	s.width, s.height = width, height
	s.canvas = image.NewRGBA(image.Rect(0, 0, width, height))

	size := float64(height) / 4
	if size < 6 {
		size = 6
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		asciiscreen.Logger().Warn("pattern: font face unavailable", "err", err)
		face = nil
	}
	if s.face != nil {
		_ = s.face.Close()
	}
	s.face = face
}

// Capture implements Source.
func (s *PatternSource) Capture(buf *asciiscreen.SecureBuffer) (asciiscreen.Frame, error) {
	if s.canvas == nil {
		return asciiscreen.Frame{}, failed(s.Name(), asciiscreen.ErrInvalidDimensions)
	}
	elapsed := s.now().Sub(s.start)
	s.drawGradient(elapsed)
	s.drawBanner(elapsed)
	return ToBGRA(s.canvas, buf)
}

func (s *PatternSource) drawGradient(elapsed time.Duration) {
	phase := int(elapsed.Milliseconds() / 8)
	w, h := s.width, s.height
	pix := s.canvas.Pix
	for y := 0; y < h; y++ {
		row := pix[y*s.canvas.Stride:]
		for x := 0; x < w; x++ {
			v := uint8((x*255/w + y*255/h + phase) / 2)
			i := x * 4
			row[i+0] = v
			row[i+1] = v
			row[i+2] = uint8(x * 255 / w)
			row[i+3] = 0xff
		}
	}
}

func (s *PatternSource) drawBanner(elapsed time.Duration) {
	if s.face == nil {
		return
	}
	if sec := int64(elapsed / time.Second); sec != s.labelAt {
		s.labelAt = sec
		s.label = s.start.Add(elapsed).Format("asciiscreen 15:04:05")
	}
	d := font.Drawer{
		Dst:  s.canvas,
		Src:  image.Black,
		Face: s.face,
	}
	textWidth := d.MeasureString(s.label).Ceil()
	span := s.width + textWidth
	x := s.width - int(elapsed.Milliseconds()/10)%span
	y := (s.height + s.face.Metrics().Ascent.Ceil()) / 2
	d.Dot = fixed.P(x, y)
	d.DrawString(s.label)
}

// Close releases the font face.
func (s *PatternSource) Close() error {
	if s.face != nil {
		err := s.face.Close()
		s.face = nil
		return err
	}
	return nil
}
