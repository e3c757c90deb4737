// Package present writes rendered frames to a terminal.
//
// A frame goes out as a single write: the cursor-home sequence followed by
// the encoded grid, so the terminal repaints in place without scrolling or
// tearing between rows.
package present

import (
	"io"
	"os"

	"github.com/gogpu/asciiscreen"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/encoding/charmap"
)

// ANSI control sequences.
const (
	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// Presenter writes OutputBuffers to a writer. It is not safe for
// concurrent use; the render loop owns it.
type Presenter struct {
	w        io.Writer
	terminal bool
	crlf     bool
	enc      Encoding
	scratch  []byte
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithEncoding sets the output encoding. EncodingAuto is treated as UTF-8;
// resolve it with ChooseEncoding first.
func WithEncoding(e Encoding) Option {
	return func(p *Presenter) {
		p.enc = e
	}
}

// WithTerminal overrides terminal detection. Control sequences are only
// written to terminals.
func WithTerminal(terminal bool) Option {
	return func(p *Presenter) {
		p.terminal = terminal
	}
}

// WithCRLF ends rows with CR LF. A terminal in raw mode no longer turns
// LF into CR LF itself.
func WithCRLF(crlf bool) Option {
	return func(p *Presenter) {
		p.crlf = crlf
	}
}

// New returns a Presenter for w. When w is an *os.File attached to a
// terminal it is wrapped so ANSI sequences also work on legacy Windows
// consoles.
func New(w io.Writer, opts ...Option) *Presenter {
	p := &Presenter{w: w, enc: EncodingUTF8}
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		p.terminal = true
		p.w = colorable.NewColorable(f)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsTerminal reports whether f is a terminal, including Cygwin/MSYS ptys.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Terminal reports whether control sequences are being written.
func (p *Presenter) Terminal() bool { return p.terminal }

// Encoding returns the active encoding.
func (p *Presenter) Encoding() Encoding { return p.enc }

// SetCRLF switches row endings for subsequent frames.
func (p *Presenter) SetCRLF(crlf bool) { p.crlf = crlf }

// SetEncoding switches the encoding for subsequent frames.
func (p *Presenter) SetEncoding(e Encoding) { p.enc = e }

// Present writes out in one call. The scratch slice grows to the largest
// frame seen and is reused, so steady-state presenting does not allocate.
func (p *Presenter) Present(out *asciiscreen.OutputBuffer) error {
	need := out.MaxEncodedLen() + len(cursorHome) + out.Height()
	if cap(p.scratch) < need {
		p.scratch = make([]byte, 0, need)
	}
	buf := p.scratch[:0]
	if p.terminal {
		buf = append(buf, cursorHome...)
	}
	start := len(buf)
	if p.enc == EncodingCP437 {
		buf = out.AppendEncoded(buf, charmap.CodePage437)
	} else {
		buf = out.AppendUTF8(buf)
	}
	if p.crlf {
		buf = expandNewlines(buf, start, out.Height())
	}
	p.scratch = buf
	_, err := p.w.Write(buf)
	return err
}

// expandNewlines rewrites each LF in buf[from:] as CR LF, in place. n is
// the number of LFs present; buf must have room for n more bytes.
func expandNewlines(buf []byte, from, n int) []byte {
	src := len(buf) - 1
	buf = buf[:len(buf)+n]
	dst := len(buf) - 1
	for src >= from && dst > src {
		buf[dst] = buf[src]
		dst--
		if buf[src] == asciiscreen.RowTerminator {
			buf[dst] = '\r'
			dst--
		}
		src--
	}
	return buf
}

// HideCursor hides the terminal cursor.
func (p *Presenter) HideCursor() error { return p.control(hideCursor) }

// ShowCursor makes the terminal cursor visible again.
func (p *Presenter) ShowCursor() error { return p.control(showCursor) }

// Clear blanks the screen and homes the cursor.
func (p *Presenter) Clear() error { return p.control(clearAll + cursorHome) }

func (p *Presenter) control(seq string) error {
	if !p.terminal {
		return nil
	}
	_, err := io.WriteString(p.w, seq)
	return err
}
