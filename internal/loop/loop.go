// Package loop drives the capture, render and present cycle.
//
// Everything a frame touches (the secure capture buffer, the lookup table
// and the output grid) is owned by the goroutine calling Run. Other
// goroutines talk to the loop only through channels: key events, mode
// changes and grid resizes are queued and applied at the next frame
// boundary, never while a frame is in flight.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/capture"
	"github.com/gogpu/asciiscreen/internal/keys"
	"github.com/gogpu/asciiscreen/internal/present"
)

// Default timing.
const (
	DefaultFPS        = 60
	DefaultRetryDelay = time.Second
)

// Presenter writes a finished frame.
type Presenter interface {
	Present(out *asciiscreen.OutputBuffer) error
}

// encodingSetter is implemented by presenters whose encoding follows the
// active ramp.
type encodingSetter interface {
	SetEncoding(present.Encoding)
}

// Stats counts what the loop has done so far.
type Stats struct {
	Frames          uint64
	Skipped         uint64
	CaptureFailures uint64
}

type gridSize struct {
	width, height int
}

// Loop renders a capture source to a presenter at a fixed frame rate.
type Loop struct {
	src      capture.Source
	renderer *asciiscreen.Renderer
	lut      *asciiscreen.GrayLookupTable
	out      *asciiscreen.OutputBuffer
	pres     Presenter
	buf      *asciiscreen.SecureBuffer

	interval   time.Duration
	retryDelay time.Duration
	encoding   present.Encoding
	keys       <-chan keys.Event
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)

	modes   chan string
	resizes chan gridSize

	paused  bool
	srcName string
	status  statusLine
	meter   fpsMeter

	frames          atomic.Uint64
	skipped         atomic.Uint64
	captureFailures atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithFPS sets the target frame rate. Non-positive values keep the default.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithRetryDelay sets how long to wait after a failed capture.
func WithRetryDelay(d time.Duration) Option {
	return func(l *Loop) {
		if d >= 0 {
			l.retryDelay = d
		}
	}
}

// WithBuffer sets the secure buffer frames are captured into. The loop
// releases it in Close.
func WithBuffer(buf *asciiscreen.SecureBuffer) Option {
	return func(l *Loop) {
		if buf != nil {
			l.buf = buf
		}
	}
}

// WithKeys connects a key event channel.
func WithKeys(events <-chan keys.Event) Option {
	return func(l *Loop) {
		l.keys = events
	}
}

// WithEncoding records the configured output encoding so that EncodingAuto
// can be re-resolved when the mode changes.
func WithEncoding(e present.Encoding) Option {
	return func(l *Loop) {
		l.encoding = e
	}
}

// WithClock replaces time.Now and the pacing sleep.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// New assembles a loop. The lookup table is shared with the renderer, so a
// mode change rebuilds it in place.
func New(src capture.Source, lut *asciiscreen.GrayLookupTable, out *asciiscreen.OutputBuffer, pres Presenter, opts ...Option) *Loop {
	l := &Loop{
		src:        src,
		srcName:    src.Name(),
		renderer:   asciiscreen.NewRenderer(lut),
		lut:        lut,
		out:        out,
		pres:       pres,
		interval:   time.Second / DefaultFPS,
		retryDelay: DefaultRetryDelay,
		encoding:   present.EncodingAuto,
		now:        time.Now,
		sleep:      sleepContext,
		modes:      make(chan string, 1),
		resizes:    make(chan gridSize, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.buf == nil {
		l.buf = asciiscreen.NewSecureBuffer()
	}
	if t, ok := src.(capture.Targeter); ok {
		t.SetTarget(out.Width(), out.RenderRows())
	}
	return l
}

// SetMode queues a switch to a named ramp. Only the latest request is kept.
// It is safe to call from any goroutine.
func (l *Loop) SetMode(mode string) {
	replaceLatest(l.modes, mode)
}

// Resize queues a new grid size. It is safe to call from any goroutine.
func (l *Loop) Resize(width, height int) {
	replaceLatest(l.resizes, gridSize{width, height})
}

func replaceLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Stats returns a snapshot of the frame counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Frames:          l.frames.Load(),
		Skipped:         l.skipped.Load(),
		CaptureFailures: l.captureFailures.Load(),
	}
}

// Paused reports whether rendering is paused.
func (l *Loop) Paused() bool { return l.paused }

// Run renders frames until ctx is done or a quit key arrives. Both are a
// normal exit and return nil. Errors are returned only for conditions the
// loop cannot recover from: an invalid table, an invalid grid, or a
// presenter write failure.
func (l *Loop) Run(ctx context.Context) error {
	log := asciiscreen.Logger()
	log.Info("render loop started",
		"source", l.srcName, "mode", l.lut.Ramp().Name(), "interval", l.interval)
	defer func() {
		s := l.Stats()
		log.Info("render loop stopped",
			"frames", s.Frames, "skipped", s.Skipped, "capture_failures", s.CaptureFailures)
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		quit, err := l.boundary()
		if err != nil || quit {
			return err
		}

		start := l.now()
		if !l.paused {
			wait, err := l.frame()
			if err != nil {
				return err
			}
			if wait > 0 {
				l.sleep(ctx, wait)
				continue
			}
		}
		l.sleep(ctx, max(0, l.interval-l.now().Sub(start)))
	}
}

// boundary applies everything queued since the previous frame.
func (l *Loop) boundary() (quit bool, err error) {
	for {
		select {
		case ev, ok := <-l.keys:
			if !ok {
				l.keys = nil
				continue
			}
			switch ev {
			case keys.Quit:
				return true, nil
			case keys.TogglePause:
				if err := l.togglePause(); err != nil {
					return false, err
				}
			}
			continue
		case mode := <-l.modes:
			l.applyMode(mode)
			continue
		case size := <-l.resizes:
			if err := l.applyResize(size); err != nil {
				return false, err
			}
			continue
		default:
		}
		return false, nil
	}
}

func (l *Loop) togglePause() error {
	l.paused = !l.paused
	asciiscreen.Logger().Debug("pause toggled", "paused", l.paused)
	if !l.paused {
		l.meter.reset()
		return nil
	}
	// Repaint the frozen frame once so the status row shows the pause.
	l.setStatus(l.meter.fps, 0, 0, asciiscreen.ModeDirect)
	return l.pres.Present(l.out)
}

func (l *Loop) applyMode(mode string) {
	log := asciiscreen.Logger()
	ramp, err := asciiscreen.RampForMode(mode)
	if err == nil {
		err = l.lut.Rebuild(ramp)
	}
	if err != nil {
		log.Warn("mode change rejected", "mode", mode, "err", err)
		return
	}
	if p, ok := l.pres.(encodingSetter); ok {
		p.SetEncoding(present.ChooseEncoding(l.encoding, ramp))
	}
	log.Info("mode changed", "mode", ramp.Name(), "glyphs", ramp.Len())
}

func (l *Loop) applyResize(size gridSize) error {
	changed, err := l.out.Resize(size.width, size.height)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	l.status = statusLine{}
	if t, ok := l.src.(capture.Targeter); ok {
		t.SetTarget(l.out.Width(), l.out.RenderRows())
	}
	asciiscreen.Logger().Info("grid resized", "width", size.width, "height", size.height)
	return nil
}

// frame runs one capture, render and present. A positive wait asks the
// caller to back off instead of pacing normally.
func (l *Loop) frame() (wait time.Duration, err error) {
	log := asciiscreen.Logger()

	src, err := l.src.Capture(l.buf)
	switch {
	case errors.Is(err, asciiscreen.ErrOutOfMemory):
		l.skipped.Add(1)
		log.Error("frame skipped: capture buffer", "err", err)
		return 0, nil
	case err != nil:
		l.skipped.Add(1)
		l.captureFailures.Add(1)
		log.Warn("capture failed, retrying", "err", err, "retry_in", l.retryDelay)
		return l.retryDelay, nil
	}

	mode, err := l.renderer.Render(src, l.out)
	if err != nil {
		return 0, fmt.Errorf("loop: render: %w", err)
	}
	l.meter.tick(l.now())
	l.setStatus(l.meter.fps, src.Width, src.Height, mode)

	if err := l.pres.Present(l.out); err != nil {
		return 0, fmt.Errorf("loop: present: %w", err)
	}
	l.frames.Add(1)
	return 0, nil
}

// statusLine holds everything the status row shows. The zero value never
// matches a real line, so resetting it forces a repaint.
type statusLine struct {
	mode       string
	fps        int
	srcW, srcH int
	sampling   asciiscreen.SampleMode
	paused     bool
}

// setStatus rewrites the status row only when one of its inputs changes,
// which is about once a second while the frame rate settles.
func (l *Loop) setStatus(fps, srcW, srcH int, mode asciiscreen.SampleMode) {
	line := statusLine{
		mode:     l.lut.Ramp().Name(),
		fps:      fps,
		srcW:     srcW,
		srcH:     srcH,
		sampling: mode,
		paused:   l.paused,
	}
	if line == l.status {
		return
	}
	l.status = line

	text := fmt.Sprintf(" %s | %d fps | %s", line.mode, fps, l.srcName)
	if srcW > 0 {
		text += fmt.Sprintf(" %dx%d %s", srcW, srcH, mode)
	}
	if l.paused {
		text += " | PAUSED"
	}
	l.out.SetStatus(text + " | q quit, p pause")
}

// fpsMeter measures the delivered frame rate over one-second windows.
type fpsMeter struct {
	windowStart time.Time
	count       int
	fps         int
}

func (m *fpsMeter) tick(now time.Time) {
	if m.windowStart.IsZero() {
		m.windowStart = now
		return
	}
	m.count++
	if elapsed := now.Sub(m.windowStart); elapsed >= time.Second {
		m.fps = int(int64(m.count) * int64(time.Second) / int64(elapsed))
		m.count = 0
		m.windowStart = now
	}
}

func (m *fpsMeter) reset() {
	m.windowStart = time.Time{}
	m.count = 0
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Close releases the capture buffer, wiping any frame still in it.
func (l *Loop) Close() {
	l.buf.Release()
}
