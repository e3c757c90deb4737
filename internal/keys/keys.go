// Package keys turns raw terminal input into render-loop events.
package keys

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/gogpu/asciiscreen"
	"github.com/muesli/cancelreader"
)

// Event is a user action read from the keyboard.
type Event int

// Events.
const (
	Quit Event = iota + 1
	TogglePause
)

func (e Event) String() string {
	switch e {
	case Quit:
		return "quit"
	case TogglePause:
		return "pause"
	default:
		return "unknown"
	}
}

const esc = 0x1b

// Decode maps one input byte to an event. Ctrl+C arrives as 0x03 because
// the terminal is in raw mode and does not raise SIGINT. Esc is handled by
// DecodeInput, since alone it cannot be told apart from the start of a key
// sequence.
func Decode(b byte) (Event, bool) {
	switch b {
	case 'q', 'Q', 0x03:
		return Quit, true
	case 'p', 'P', ' ':
		return TogglePause, true
	}
	return 0, false
}

// DecodeInput calls emit for every event in p, one read from the terminal.
//
// A lone Esc (the last byte of the read) quits. Esc followed by more bytes
// starts a sequence sent by arrow, function and Alt-modified keys, which is
// skipped: CSI (Esc [ ... final byte in 0x40-0x7e), SS3 (Esc O x) or
// Esc plus one key.
func DecodeInput(p []byte, emit func(Event)) {
	for i := 0; i < len(p); i++ {
		b := p[i]
		if b != esc {
			if ev, ok := Decode(b); ok {
				emit(ev)
			}
			continue
		}
		if i == len(p)-1 {
			emit(Quit)
			return
		}
		i++
		switch p[i] {
		case '[':
			for i+1 < len(p) {
				i++
				if p[i] >= 0x40 && p[i] <= 0x7e {
					break
				}
			}
		case 'O':
			if i+1 < len(p) {
				i++
			}
		}
	}
}

// Reader reads key presses on its own goroutine and posts events on a
// buffered channel. Events are dropped when the channel is full; the loop
// drains it once per frame.
type Reader struct {
	events chan Event
	done   chan struct{}
	cr     cancelreader.CancelReader
	fd     uintptr
	state  *term.State
}

// Open puts f into raw mode (when it is a terminal) and starts reading.
// Close must be called to restore the terminal.
func Open(f *os.File) (*Reader, error) {
	r := &Reader{fd: f.Fd()}
	if term.IsTerminal(r.fd) {
		state, err := term.MakeRaw(r.fd)
		if err != nil {
			return nil, err
		}
		r.state = state
	}
	cr, err := cancelreader.NewReader(f)
	if err != nil {
		r.restore()
		return nil, err
	}
	r.start(cr)
	return r, nil
}

// NewReader reads events from an arbitrary cancelable reader. It does not
// touch terminal modes.
func NewReader(cr cancelreader.CancelReader) *Reader {
	r := &Reader{}
	r.start(cr)
	return r
}

func (r *Reader) start(cr cancelreader.CancelReader) {
	r.cr = cr
	r.events = make(chan Event, 8)
	r.done = make(chan struct{})
	go r.run()
}

func (r *Reader) run() {
	defer close(r.done)
	defer close(r.events)

	var buf [64]byte
	for {
		n, err := r.cr.Read(buf[:])
		DecodeInput(buf[:n], r.post)
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) && !errors.Is(err, io.EOF) {
				asciiscreen.Logger().Warn("keys: read failed", "err", err)
			}
			return
		}
	}
}

func (r *Reader) post(ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}

// Raw reports whether the terminal was switched to raw mode, in which case
// output must end lines with CR LF.
func (r *Reader) Raw() bool { return r.state != nil }

// Events returns the event channel. It is closed when reading stops.
func (r *Reader) Events() <-chan Event { return r.events }

// Close stops the reader and restores the terminal mode.
func (r *Reader) Close() error {
	r.cr.Cancel()
	<-r.done
	err := r.cr.Close()
	if rerr := r.restore(); err == nil {
		err = rerr
	}
	return err
}

func (r *Reader) restore() error {
	if r.state == nil {
		return nil
	}
	err := term.Restore(r.fd, r.state)
	r.state = nil
	return err
}
