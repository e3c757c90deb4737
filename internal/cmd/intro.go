package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/config"
	"github.com/gogpu/asciiscreen/internal/present"
)

// printIntro describes what is about to be rendered.
func printIntro(w io.Writer, cfg *config.Config, ramp asciiscreen.Ramp, enc present.Encoding, width, height int) {
	fmt.Fprintln(w, titleStyle.Render("asciiscreen"))
	fmt.Fprintf(w, "Mode %q, %d glyphs: %s\n", ramp.Name(), ramp.Len(), ramp.String())
	fmt.Fprintf(w, "Grid %dx%d (%d rows + status), source %s, %d fps, %s output\n",
		width, height, height-1, cfg.Capture.Source, cfg.Render.FPS, enc)
	if !ramp.IsASCII() {
		if enc == present.EncodingCP437 {
			fmt.Fprintln(w, tipStyle.Render("Tip: code page 437 output; switch the terminal to CP437 (chcp 437 on Windows)."))
		} else {
			fmt.Fprintln(w, tipStyle.Render("Tip: this ramp needs a UTF-8 terminal with a font that has these glyphs."))
		}
	}
	if !cfg.Grid.Fit {
		fmt.Fprintln(w, tipStyle.Render("Tip: shrink the terminal font until the grid fits, or use --fit."))
	}
	fmt.Fprintln(w, tipStyle.Render("Keys: q quit, p pause."))
}

// countdown prints a per-second countdown. It returns early with the
// context's error when ctx is canceled.
func countdown(ctx context.Context, w io.Writer, seconds int, tick <-chan time.Time) error {
	for i := seconds; i > 0; i-- {
		fmt.Fprintf(w, "\rStarting in %d... ", i)
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return ctx.Err()
		case <-tick:
		}
	}
	if seconds > 0 {
		fmt.Fprintln(w)
	}
	return nil
}
