package asciiscreen

import (
	"errors"
	"fmt"
)

// Sentinel errors for the rendering core.
var (
	// ErrEmptyRamp is returned when a ramp has no glyphs.
	ErrEmptyRamp = errors.New("asciiscreen: empty ramp")

	// ErrInvalidGlyph is returned when a ramp contains a glyph that does not
	// occupy exactly one terminal cell, or is not valid UTF-8.
	ErrInvalidGlyph = errors.New("asciiscreen: invalid ramp glyph")

	// ErrUnknownMode is returned when a mode name has no built-in ramp.
	ErrUnknownMode = errors.New("asciiscreen: unknown mode")

	// ErrOutOfMemory is returned when a SecureBuffer cannot allocate storage.
	ErrOutOfMemory = errors.New("asciiscreen: out of memory")

	// ErrInvalidDimensions is returned when a frame width or height is non-positive.
	ErrInvalidDimensions = errors.New("asciiscreen: invalid dimensions")

	// ErrFrameSize is returned when a pixel buffer length does not match
	// width*height*4.
	ErrFrameSize = errors.New("asciiscreen: pixel buffer size mismatch")

	// ErrInvalidGrid is returned when an output grid is missing or too small
	// to hold at least one rendered row plus the status row.
	ErrInvalidGrid = errors.New("asciiscreen: invalid grid")
)

// ConfigurationError reports a setting rejected before the render loop starts.
// It is always fatal: callers are expected to abort instead of retrying.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

// NewConfigurationError returns a ConfigurationError for field.
func NewConfigurationError(field, value string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("asciiscreen: configuration %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("asciiscreen: configuration %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
