package capture

import (
	"image"
	"testing"
)

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))

	for _, s := range Scalers() {
		t.Run(string(s), func(t *testing.T) {
			got := Scale(src, 16, 12, s)
			want := image.Pt(16, 12)
			if s == ScalerNone {
				want = image.Pt(64, 48)
			}
			if got.Bounds().Size() != want {
				t.Errorf("size = %v, want %v", got.Bounds().Size(), want)
			}
		})
	}
}

func TestScale_NonPositiveTarget(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if got := Scale(src, 0, 10, ScalerBilinear); got != image.Image(src) {
		t.Error("Scale with zero width should return the input")
	}
}

func TestParseScaler(t *testing.T) {
	tests := []struct {
		in      string
		want    Scaler
		wantErr bool
	}{
		{"bilinear", ScalerBilinear, false},
		{" Lanczos ", ScalerLanczos, false},
		{"NONE", ScalerNone, false},
		{"cubic", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScaler(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScaler(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScaler(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
