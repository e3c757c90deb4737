package asciiscreen

// GrayLookupTable maps an 8-bit luminance value to a ramp glyph.
//
// Entry v holds ramp[(v*(L-1))/255], so the table is non-decreasing in v and
// Lookup is a single array index. The table is built once per ramp and
// owned by whoever renders with it; there is no package-level instance.
type GrayLookupTable struct {
	ramp   Ramp
	glyphs [256]rune
}

// NewGrayLookupTable builds the lookup table for ramp.
func NewGrayLookupTable(ramp Ramp) (*GrayLookupTable, error) {
	t := &GrayLookupTable{}
	if err := t.Rebuild(ramp); err != nil {
		return nil, err
	}
	return t, nil
}

// Rebuild recomputes the table for a new ramp. On error the table keeps
// its previous contents.
func (t *GrayLookupTable) Rebuild(ramp Ramp) error {
	l := ramp.Len()
	if l == 0 {
		return NewConfigurationError("ramp", "", ErrEmptyRamp)
	}
	for v := 0; v < 256; v++ {
		t.glyphs[v] = ramp.glyphs[(v*(l-1))/255]
	}
	t.ramp = ramp
	Logger().Debug("gray lookup table built", "mode", ramp.Name(), "glyphs", l)
	return nil
}

// Lookup returns the glyph for gray value v.
func (t *GrayLookupTable) Lookup(v uint8) rune {
	return t.glyphs[v]
}

// Ramp returns the ramp the table was built from.
func (t *GrayLookupTable) Ramp() Ramp {
	return t.ramp
}
