package asciiscreen

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false for all levels, so
// call sites in the render loop never build their attributes.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

// active is shared by the root package and internal/{capture,keys,loop,cmd}.
// The key reader and the config watcher log from their own goroutines.
var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(slog.New(discard{}))
}

// SetLogger routes asciiscreen's diagnostics to l. Nothing is logged
// until it is called; nil goes back to discarding.
//
// What gets logged, by level:
//
//   - Debug: SecureBuffer reallocation, gray lookup table rebuilds,
//     OutputBuffer allocation, pause toggles, evicted scaled images.
//   - Info: render loop start and stop with frame counts, mode and grid
//     changes, the capture source that was opened, config file reloads.
//   - Warn: failed captures (the loop retries), mlock refusal, rejected
//     mode names, an unreadable keyboard or terminal size, a missing
//     pattern font.
//   - Error: a frame skipped because the capture buffer could not grow.
//
// The CLI installs a text handler at the configured log.level, writing to
// log.file when set and stderr otherwise, so logs stay off the rendered
// screen:
//
//	asciiscreen --log-level debug 2>render.log
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	active.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return active.Load()
}
