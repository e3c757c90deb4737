package asciiscreen

// 16.16 fixed-point weights for 0.2126 R + 0.7152 G + 0.0722 B.
// The constants and the final shift are part of the output contract:
// changing them changes which glyph every pixel maps to.
const (
	lumaR     = 13933
	lumaG     = 46871
	lumaB     = 4732
	lumaShift = 16
)

// Luminance converts an RGB triplet to an 8-bit gray value.
// The result is truncated, not rounded.
func Luminance(r, g, b uint8) uint8 {
	//nolint:gosec // G115: weights sum to 65536, so the shifted value is <= 255
	return uint8((uint32(r)*lumaR + uint32(g)*lumaG + uint32(b)*lumaB) >> lumaShift)
}

// LuminanceBGRA computes the gray value of a pixel stored in native capture
// order (blue, green, red, unused). px must hold at least three bytes.
func LuminanceBGRA(px []byte) uint8 {
	_ = px[2]
	return Luminance(px[2], px[1], px[0])
}

// luminanceAt is the hot-path form used by the renderer: no slicing, the
// caller guarantees off+2 is in range.
func luminanceAt(pix []byte, off int) uint32 {
	return (uint32(pix[off+2])*lumaR + uint32(pix[off+1])*lumaG + uint32(pix[off])*lumaB) >> lumaShift
}
