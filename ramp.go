package asciiscreen

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultMode is the ramp used when no mode is configured.
const DefaultMode = "normal"

// builtinRamps maps mode names to glyph sequences ordered darkest to brightest.
var builtinRamps = map[string]string{
	"minimalist":   "#+-.",
	"normal":       "@%#*+=-:.",
	"normal2":      "&$Xx+;:.",
	"alphabetic":   "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"alphanumeric": "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890abcdefghijklmnopqrstuvwxyz",
	"numerical":    "0896452317",
	"extended":     "@%#{}[]()<>^*+=~-:.",
	"math":         "+-×÷=≠≈∞√π",
	"arrow":        "↑↗→↘↓↙←↖",
	"grayscale":    "@$BWM#*oahkbdpwmZO0QCJYXzcvnxrjft/|()1{}[]-_+~<>i!lI;:,\"^`'.",
	"codepage437":  "█▓▒░",
	"blockelement": "█",
}

// cellWidth measures glyphs independently of the user's locale so that
// East Asian ambiguous characters (arrows, block elements) count as one cell.
var cellWidth = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Ramp is an immutable sequence of glyphs ordered from darkest to brightest.
// Every glyph occupies exactly one terminal cell.
type Ramp struct {
	name   string
	glyphs []rune
}

// NewRamp builds a ramp from a UTF-8 string.
func NewRamp(s string) (Ramp, error) {
	return newNamedRamp("", s)
}

func newNamedRamp(name, s string) (Ramp, error) {
	field := "ramp"
	if name != "" {
		field = "ramp." + name
	}
	if s == "" {
		return Ramp{}, NewConfigurationError(field, "", ErrEmptyRamp)
	}
	if !utf8.ValidString(s) {
		return Ramp{}, NewConfigurationError(field, s, ErrInvalidGlyph)
	}
	glyphs := []rune(s)
	for _, g := range glyphs {
		if unicode.IsControl(g) || cellWidth.RuneWidth(g) != 1 {
			return Ramp{}, NewConfigurationError(field, s, ErrInvalidGlyph)
		}
	}
	return Ramp{name: name, glyphs: glyphs}, nil
}

// RampForMode resolves a built-in mode name to its ramp.
func RampForMode(mode string) (Ramp, error) {
	s, ok := builtinRamps[mode]
	if !ok {
		return Ramp{}, NewConfigurationError("mode", mode, ErrUnknownMode)
	}
	return newNamedRamp(mode, s)
}

// Modes returns the built-in mode names in sorted order.
func Modes() []string {
	names := make([]string, 0, len(builtinRamps))
	for name := range builtinRamps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the mode name for built-in ramps, or "" for custom ones.
func (r Ramp) Name() string { return r.name }

// Len returns the number of glyphs.
func (r Ramp) Len() int { return len(r.glyphs) }

// Glyph returns the i-th glyph.
func (r Ramp) Glyph(i int) rune { return r.glyphs[i] }

// Last returns the brightest glyph. The renderer also uses it for cells that
// map to no source pixels.
func (r Ramp) Last() rune { return r.glyphs[len(r.glyphs)-1] }

// IsASCII reports whether every glyph is a 7-bit character.
func (r Ramp) IsASCII() bool {
	for _, g := range r.glyphs {
		if g > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func (r Ramp) String() string { return string(r.glyphs) }
