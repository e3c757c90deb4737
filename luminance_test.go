package asciiscreen

import "testing"

func TestLuminance_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"red", 255, 0, 0, 54},    // 255*13933>>16
		{"green", 0, 255, 0, 182}, // 255*46871>>16
		{"blue", 0, 0, 255, 18},   // 255*4732>>16
		{"mid gray", 128, 128, 128, 128},
		{"truncates", 1, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luminance(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Luminance(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestLuminance_MatchesFormula(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 3 {
			for b := 0; b < 256; b += 7 {
				want := uint8((uint32(r)*13933 + uint32(g)*46871 + uint32(b)*4732) >> 16)
				if got := Luminance(uint8(r), uint8(g), uint8(b)); got != want {
					t.Fatalf("Luminance(%d,%d,%d) = %d, want %d", r, g, b, got, want)
				}
			}
		}
	}
}

func TestLuminance_MonotonicPerChannel(t *testing.T) {
	for fixed := 0; fixed < 256; fixed += 15 {
		f := uint8(fixed)
		for v := 1; v < 256; v++ {
			prev, cur := uint8(v-1), uint8(v)
			if Luminance(cur, f, f) < Luminance(prev, f, f) {
				t.Fatalf("not monotonic in R at r=%d g=b=%d", v, fixed)
			}
			if Luminance(f, cur, f) < Luminance(f, prev, f) {
				t.Fatalf("not monotonic in G at g=%d r=b=%d", v, fixed)
			}
			if Luminance(f, f, cur) < Luminance(f, f, prev) {
				t.Fatalf("not monotonic in B at b=%d r=g=%d", v, fixed)
			}
		}
	}
}

func TestLuminanceBGRA_ByteOrder(t *testing.T) {
	px := []byte{10, 20, 30, 0} // B, G, R, unused
	if got, want := LuminanceBGRA(px), Luminance(30, 20, 10); got != want {
		t.Errorf("LuminanceBGRA = %d, want %d", got, want)
	}
	if got := uint8(luminanceAt(px, 0)); got != LuminanceBGRA(px) {
		t.Errorf("luminanceAt = %d, want %d", got, LuminanceBGRA(px))
	}
}
