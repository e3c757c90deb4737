package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/capture"
	"github.com/gogpu/asciiscreen/internal/present"
)

// Limits for numeric settings.
const (
	MaxFPS       = 240
	MaxGridSide  = 2000
	MaxCountdown = 60
)

// ValidLogLevels returns the accepted log.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks every setting and returns all problems joined. Each one
// is an *asciiscreen.ConfigurationError.
func (c *Config) Validate() error {
	var errs []error
	bad := func(field string, value any, format string, args ...any) {
		errs = append(errs, asciiscreen.NewConfigurationError(
			field, fmt.Sprint(value), fmt.Errorf(format, args...)))
	}

	if c.Grid.Width < 1 || c.Grid.Width > MaxGridSide {
		bad("grid.width", c.Grid.Width, "must be between 1 and %d", MaxGridSide)
	}
	if c.Grid.Height < 2 || c.Grid.Height > MaxGridSide {
		bad("grid.height", c.Grid.Height, "must be between 2 and %d (one row is the status line)", MaxGridSide)
	}

	if _, err := asciiscreen.RampForMode(c.Render.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Render.FPS < 1 || c.Render.FPS > MaxFPS {
		bad("render.fps", c.Render.FPS, "must be between 1 and %d", MaxFPS)
	}

	kind, err := capture.ParseKind(c.Capture.Source)
	if err != nil {
		bad("capture.source", c.Capture.Source, "%w", err)
	}
	if kind == capture.KindImage && c.Capture.Image == "" {
		bad("capture.image", "", "%w", capture.ErrNoImagePath)
	}
	if _, err := capture.ParseScaler(c.Capture.Scaler); err != nil {
		bad("capture.scaler", c.Capture.Scaler, "%w", err)
	}
	if c.Capture.RetryDelay < 0 {
		bad("capture.retry_delay", c.Capture.RetryDelay, "must not be negative")
	}

	if c.Buffer.MaxSize < 1 {
		bad("buffer.max_size", c.Buffer.MaxSize, "must be positive")
	}

	if _, err := present.ParseEncoding(c.Output.Encoding); err != nil {
		bad("output.encoding", c.Output.Encoding, "%w", err)
	}

	if c.Start.Countdown < 0 || c.Start.Countdown > MaxCountdown {
		bad("start.countdown", c.Start.Countdown, "must be between 0 and %d", MaxCountdown)
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		bad("log.level", c.Log.Level, "must be one of: %s", strings.Join(ValidLogLevels(), ", "))
	}

	return errors.Join(errs...)
}

// Ramp resolves render.mode.
func (c *Config) Ramp() (asciiscreen.Ramp, error) {
	return asciiscreen.RampForMode(c.Render.Mode)
}

// SourceOptions converts the capture section for capture.Open. The grid
// height passed on excludes the status row.
func (c *Config) SourceOptions() capture.Options {
	kind, _ := capture.ParseKind(c.Capture.Source)
	scaler, _ := capture.ParseScaler(c.Capture.Scaler)
	return capture.Options{
		Kind:      kind,
		Width:     c.Grid.Width,
		Height:    c.Grid.Height - 1,
		ImagePath: c.Capture.Image,
		Scaler:    scaler,
		Display:   c.Capture.Display,
	}
}

// SecureOptions converts the buffer section for asciiscreen.NewSecureBuffer.
func (c *Config) SecureOptions() []asciiscreen.SecureOption {
	return []asciiscreen.SecureOption{
		asciiscreen.WithMaxSize(c.Buffer.MaxSize),
		asciiscreen.WithMemoryLock(c.Buffer.Lock),
	}
}

// Encoding returns the parsed output.encoding setting.
func (c *Config) Encoding() present.Encoding {
	e, err := present.ParseEncoding(c.Output.Encoding)
	if err != nil {
		return present.EncodingAuto
	}
	return e
}

// LogLevel returns the slog level for log.level.
func (c *Config) LogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return l
}
