package capture

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Scaler selects how a source pre-scales frames to the grid size.
type Scaler string

// Supported scalers.
const (
	// ScalerNone keeps native resolution; the renderer block-averages.
	ScalerNone       Scaler = "none"
	ScalerNearest    Scaler = "nearest"
	ScalerBilinear   Scaler = "bilinear"
	ScalerCatmullRom Scaler = "catmullrom"
	ScalerLanczos    Scaler = "lanczos"
)

// Scalers lists the supported scalers.
func Scalers() []Scaler {
	return []Scaler{ScalerNone, ScalerNearest, ScalerBilinear, ScalerCatmullRom, ScalerLanczos}
}

// ParseScaler converts a configuration string to a Scaler.
func ParseScaler(s string) (Scaler, error) {
	sc := Scaler(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Scalers() {
		if sc == known {
			return sc, nil
		}
	}
	return "", fmt.Errorf("capture: unknown scaler %q", s)
}

// Scale resizes img to width x height. ScalerNone, or a non-positive
// target, returns img unchanged.
func Scale(img image.Image, width, height int, s Scaler) image.Image {
	if s == ScalerNone || s == "" || width <= 0 || height <= 0 {
		return img
	}
	if s == ScalerLanczos {
		return imaging.Resize(img, width, height, imaging.Lanczos)
	}

	var interp draw.Interpolator
	switch s {
	case ScalerNearest:
		interp = draw.NearestNeighbor
	case ScalerCatmullRom:
		interp = draw.CatmullRom
	default:
		interp = draw.ApproxBiLinear
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
