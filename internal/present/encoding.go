package present

import (
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/asciiscreen"
	"golang.org/x/text/encoding/charmap"
)

// Encoding selects how glyphs are turned into bytes on the terminal.
type Encoding string

// Supported encodings.
const (
	EncodingAuto  Encoding = "auto"
	EncodingUTF8  Encoding = "utf8"
	EncodingCP437 Encoding = "cp437"
)

// Encodings lists the accepted settings.
func Encodings() []Encoding {
	return []Encoding{EncodingAuto, EncodingUTF8, EncodingCP437}
}

// ParseEncoding converts a configuration string to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(s))); e {
	case EncodingAuto, EncodingUTF8, EncodingCP437:
		return e, nil
	case "utf-8":
		return EncodingUTF8, nil
	case "ibm437", "437":
		return EncodingCP437, nil
	}
	return "", fmt.Errorf("present: unknown encoding %q", s)
}

var getenv = os.Getenv

// ChooseEncoding resolves EncodingAuto for ramp. UTF-8 is the default; a
// non-ASCII ramp on a terminal whose locale is set but not UTF-8 falls back
// to code page 437 when every glyph of the ramp exists there.
func ChooseEncoding(setting Encoding, ramp asciiscreen.Ramp) Encoding {
	if setting != EncodingAuto && setting != "" {
		return setting
	}
	if ramp.IsASCII() || localeIsUTF8() {
		return EncodingUTF8
	}
	for i := 0; i < ramp.Len(); i++ {
		if _, ok := charmap.CodePage437.EncodeRune(ramp.Glyph(i)); !ok {
			return EncodingUTF8
		}
	}
	return EncodingCP437
}

// localeIsUTF8 reports whether the POSIX locale asks for UTF-8. An unset
// locale counts as UTF-8, which is what every modern terminal speaks.
func localeIsUTF8() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
	}
	return true
}
