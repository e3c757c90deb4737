// Package asciiscreen renders live raster frames as grids of text glyphs.
//
// # Overview
//
// Each captured frame (BGRA8 pixels) is reduced to an 8-bit luminance per
// grid cell and quantized onto a ramp of glyphs ordered from darkest to
// brightest. The conversion runs once per frame, so the pipeline is built to
// allocate nothing after setup and to produce bit-identical output on every
// platform.
//
// # Quick Start
//
//	ramp, err := asciiscreen.RampForMode("normal")
//	if err != nil {
//	    return err // *ConfigurationError
//	}
//	lut, _ := asciiscreen.NewGrayLookupTable(ramp)
//	r := asciiscreen.NewRenderer(lut)
//	out, _ := asciiscreen.NewOutputBuffer(240, 80)
//
//	buf := asciiscreen.NewSecureBuffer()
//	defer buf.Release()
//
//	// per frame: fill buf, wrap it, render
//	frame, _ := asciiscreen.NewFrame(buf.Data(), w, h)
//	_, _ = r.Render(frame, out)
//	out.SetStatus("60 fps")
//	os.Stdout.Write(out.AppendUTF8(scratch[:0]))
//
// # Pipeline
//
//   - [Luminance]: (R*13933 + G*46871 + B*4732) >> 16, truncated.
//   - [GrayLookupTable]: 256 precomputed glyphs, ramp[(v*(L-1))/255].
//   - [Renderer]: 1:1 sampling for grid-sized captures, integer block
//     averaging otherwise; empty blocks get the ramp's last glyph.
//   - [OutputBuffer]: (W+1)*H cells; the last row is the status line and
//     is never written by the renderer.
//
// # Memory hygiene
//
// Captures may contain anything visible on screen. [SecureBuffer] zero-fills
// every byte range it stops using: the tail on shrink, the old storage when
// growing reallocates, and everything on Release.
//
// # Concurrency
//
// None of the types are safe for concurrent use. The intended model is a
// single goroutine running capture, render and present in sequence.
package asciiscreen
