package asciiscreen

// SampleMode describes how source pixels were mapped onto grid cells.
type SampleMode uint8

const (
	// ModeDirect reads exactly one source pixel per cell. It is used when
	// the capture is already grid-sized.
	ModeDirect SampleMode = iota

	// ModeBlockAverage averages the luminance of every source pixel whose
	// position falls into the cell's block.
	ModeBlockAverage
)

// String returns a short name for the mode.
func (m SampleMode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeBlockAverage:
		return "block"
	default:
		return "unknown"
	}
}

// SelectMode picks the sampling mode for a srcW x srcH capture rendered into
// gridW columns and rows rendered rows. A source that is exactly grid-sized,
// or grid-sized including the status row, is read 1:1; in the latter case
// its last row is ignored.
func SelectMode(srcW, srcH, gridW, rows int) SampleMode {
	if srcW == gridW && (srcH == rows || srcH == rows+1) {
		return ModeDirect
	}
	return ModeBlockAverage
}

// Renderer converts captured frames into glyph grids.
//
// The sampling mode is derived from the frame and grid dimensions on every
// call, so captures may change size between frames. Render writes straight
// into the OutputBuffer and never allocates.
type Renderer struct {
	lut *GrayLookupTable
}

// NewRenderer returns a renderer quantizing through lut.
func NewRenderer(lut *GrayLookupTable) *Renderer {
	return &Renderer{lut: lut}
}

// SetTable swaps the lookup table, typically after a ramp change.
func (r *Renderer) SetTable(lut *GrayLookupTable) {
	r.lut = lut
}

// Table returns the lookup table in use.
func (r *Renderer) Table() *GrayLookupTable {
	return r.lut
}

// Render fills rows 0..Height-2 of out from src. The status row is left
// untouched.
//
// Cells whose block covers no source pixels (a source narrower or shorter
// than the grid) get the ramp's last glyph.
func (r *Renderer) Render(src Frame, out *OutputBuffer) (SampleMode, error) {
	if r.lut == nil || r.lut.ramp.Len() == 0 {
		return ModeDirect, NewConfigurationError("ramp", "", ErrEmptyRamp)
	}
	if out == nil || out.cells == nil {
		return ModeDirect, ErrInvalidGrid
	}
	if err := src.Validate(); err != nil {
		return ModeDirect, err
	}

	mode := SelectMode(src.Width, src.Height, out.width, out.height-1)
	if mode == ModeDirect {
		r.renderDirect(src, out)
	} else {
		r.renderBlocks(src, out)
	}
	return mode, nil
}

func (r *Renderer) renderDirect(src Frame, out *OutputBuffer) {
	glyphs := &r.lut.glyphs
	w := out.width
	rows := out.height - 1
	stride := src.Width * BytesPerPixel

	for y := 0; y < rows; y++ {
		off := out.RowOffset(y)
		dst := out.cells[off : off+w+1]
		p := y * stride
		for x := 0; x < w; x++ {
			dst[x] = glyphs[luminanceAt(src.Pix, p)]
			p += BytesPerPixel
		}
		dst[w] = RowTerminator
	}
}

func (r *Renderer) renderBlocks(src Frame, out *OutputBuffer) {
	glyphs := &r.lut.glyphs
	blank := r.lut.ramp.Last()
	w := out.width
	rows := out.height - 1
	sw, sh := src.Width, src.Height

	for y := 0; y < rows; y++ {
		y0 := y * sh / rows
		y1 := (y + 1) * sh / rows
		off := out.RowOffset(y)
		dst := out.cells[off : off+w+1]

		for x := 0; x < w; x++ {
			x0 := x * sw / w
			x1 := (x + 1) * sw / w
			count := (x1 - x0) * (y1 - y0)
			if count == 0 {
				dst[x] = blank
				continue
			}

			var sum uint64
			for sy := y0; sy < y1; sy++ {
				p := (sy*sw + x0) * BytesPerPixel
				for sx := x0; sx < x1; sx++ {
					sum += uint64(luminanceAt(src.Pix, p))
					p += BytesPerPixel
				}
			}
			dst[x] = glyphs[sum/uint64(count)]
		}
		dst[w] = RowTerminator
	}
}
