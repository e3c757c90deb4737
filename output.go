package asciiscreen

import (
	"unicode"
	"unicode/utf8"
)

// RowTerminator ends every row of an OutputBuffer.
const RowTerminator = '\n'

// OutputBuffer holds one complete text frame: Height rows of Width glyphs,
// each followed by RowTerminator, for exactly (Width+1)*Height cells.
//
// Rows 0..Height-2 belong to the Renderer; the last row is the status line
// and is only written through StatusRow or SetStatus. The buffer is
// allocated once and rewritten in place every frame; only Resize with new
// dimensions reallocates it.
type OutputBuffer struct {
	width  int
	height int
	cells  []rune
}

// NewOutputBuffer allocates a width x height grid. Height includes the
// status row, so it must be at least 2.
func NewOutputBuffer(width, height int) (*OutputBuffer, error) {
	o := &OutputBuffer{}
	if _, err := o.Resize(width, height); err != nil {
		return nil, err
	}
	return o, nil
}

// Resize changes the grid dimensions. It reports whether the buffer was
// reallocated; resizing to the current dimensions leaves the contents alone.
// New buffers start as blank rows.
func (o *OutputBuffer) Resize(width, height int) (bool, error) {
	if width < 1 || height < 2 {
		return false, ErrInvalidGrid
	}
	if width == o.width && height == o.height && o.cells != nil {
		return false, nil
	}
	cells := make([]rune, (width+1)*height)
	for y := 0; y < height; y++ {
		row := cells[y*(width+1) : (y+1)*(width+1)]
		for x := 0; x < width; x++ {
			row[x] = ' '
		}
		row[width] = RowTerminator
	}
	o.width, o.height, o.cells = width, height, cells
	Logger().Debug("output buffer allocated", "width", width, "height", height)
	return true, nil
}

// Width returns the number of glyphs per row.
func (o *OutputBuffer) Width() int { return o.width }

// Height returns the number of rows, including the status row.
func (o *OutputBuffer) Height() int { return o.height }

// RenderRows returns the number of rows the renderer fills.
func (o *OutputBuffer) RenderRows() int { return o.height - 1 }

// Len returns the total number of cells, (Width+1)*Height.
func (o *OutputBuffer) Len() int { return len(o.cells) }

// Cells returns the whole grid including row terminators.
func (o *OutputBuffer) Cells() []rune { return o.cells }

// RowOffset returns the index of the first cell of row y.
func (o *OutputBuffer) RowOffset(y int) int { return y * (o.width + 1) }

// Row returns the Width glyph cells of row y, without the terminator.
func (o *OutputBuffer) Row(y int) []rune {
	off := o.RowOffset(y)
	return o.cells[off : off+o.width : off+o.width]
}

// StatusRow returns the cells of the reserved last row.
func (o *OutputBuffer) StatusRow() []rune {
	return o.Row(o.height - 1)
}

// SetStatus writes text into the status row, truncated or space-padded to
// Width cells. Control characters and glyphs wider or narrower than one
// cell are replaced with '?' so the grid stays aligned.
func (o *OutputBuffer) SetStatus(text string) {
	row := o.StatusRow()
	x := 0
	for _, r := range text {
		if x == len(row) {
			break
		}
		if r == utf8.RuneError || unicode.IsControl(r) || cellWidth.RuneWidth(r) != 1 {
			r = '?'
		}
		row[x] = r
		x++
	}
	for ; x < len(row); x++ {
		row[x] = ' '
	}
}

// AppendUTF8 appends the UTF-8 encoding of the grid to dst. When dst has
// enough capacity nothing is allocated; for ASCII ramps the appended length
// is exactly Len().
func (o *OutputBuffer) AppendUTF8(dst []byte) []byte {
	for _, r := range o.cells {
		if r < utf8.RuneSelf {
			dst = append(dst, byte(r))
			continue
		}
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

// ByteEncoder maps a glyph to a single byte of a legacy code page.
// *charmap.Charmap from golang.org/x/text satisfies it.
type ByteEncoder interface {
	EncodeRune(r rune) (b byte, ok bool)
}

// AppendEncoded appends the grid encoded one byte per cell, so exactly
// Len() bytes. Glyphs the code page cannot represent become '?'.
func (o *OutputBuffer) AppendEncoded(dst []byte, enc ByteEncoder) []byte {
	for _, r := range o.cells {
		b, ok := enc.EncodeRune(r)
		if !ok {
			b = '?'
		}
		dst = append(dst, b)
	}
	return dst
}

// MaxEncodedLen returns the largest number of bytes AppendUTF8 can produce
// for this grid.
func (o *OutputBuffer) MaxEncodedLen() int {
	return len(o.cells) * utf8.UTFMax
}

// String returns the grid as UTF-8 text. It allocates and is meant for
// tests and one-off dumps, not the frame loop.
func (o *OutputBuffer) String() string {
	return string(o.AppendUTF8(make([]byte, 0, len(o.cells))))
}
