package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/capture"
	"github.com/gogpu/asciiscreen/internal/present"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Width != 240 || cfg.Grid.Height != 80 {
		t.Errorf("Grid = %dx%d, want 240x80", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Render.Mode != "normal" {
		t.Errorf("Render.Mode = %q, want normal", cfg.Render.Mode)
	}
	if cfg.Render.FPS != 60 {
		t.Errorf("Render.FPS = %d, want 60", cfg.Render.FPS)
	}
	if cfg.Capture.RetryDelay != time.Second {
		t.Errorf("Capture.RetryDelay = %v, want 1s", cfg.Capture.RetryDelay)
	}
	if cfg.Buffer.MaxSize != 256<<20 {
		t.Errorf("Buffer.MaxSize = %d, want 256MiB", cfg.Buffer.MaxSize)
	}
	if cfg.Start.Countdown != 3 {
		t.Errorf("Start.Countdown = %d, want 3", cfg.Start.Countdown)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ASCIISCREEN_RENDER_MODE", "extended")
	t.Setenv("ASCIISCREEN_GRID_WIDTH", "100")
	t.Setenv("ASCIISCREEN_CAPTURE_RETRY_DELAY", "250ms")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Render.Mode != "extended" {
		t.Errorf("Render.Mode = %q, want extended", cfg.Render.Mode)
	}
	if cfg.Grid.Width != 100 {
		t.Errorf("Grid.Width = %d, want 100", cfg.Grid.Width)
	}
	if cfg.Capture.RetryDelay != 250*time.Millisecond {
		t.Errorf("Capture.RetryDelay = %v, want 250ms", cfg.Capture.RetryDelay)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asciiscreen.yaml")
	data := []byte("render:\n  mode: arrow\n  fps: 30\ngrid:\n  fit: true\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	SetDefaults(v)
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Mode != "arrow" || cfg.Render.FPS != 30 || !cfg.Grid.Fit {
		t.Errorf("cfg = %+v", cfg.Render)
	}
	if cfg.Grid.Width != 240 {
		t.Errorf("unset key lost its default: Grid.Width = %d", cfg.Grid.Width)
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	v := viper.New()
	if err := ReadFile(v, ""); err != nil {
		t.Errorf("ReadFile with no default file = %v, want nil", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	err := ReadFile(v, missing)
	if !asciiscreen.IsConfigurationError(err) {
		t.Errorf("ReadFile(%q) = %v, want ConfigurationError", missing, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		is     error
	}{
		{"unknown mode", func(c *Config) { c.Render.Mode = "hires" }, "mode", asciiscreen.ErrUnknownMode},
		{"zero width", func(c *Config) { c.Grid.Width = 0 }, "grid.width", nil},
		{"no render row", func(c *Config) { c.Grid.Height = 1 }, "grid.height", nil},
		{"fps too high", func(c *Config) { c.Render.FPS = 1000 }, "render.fps", nil},
		{"unknown source", func(c *Config) { c.Capture.Source = "gdi" }, "capture.source", capture.ErrUnknownSource},
		{"image without path", func(c *Config) { c.Capture.Source = "image" }, "capture.image", capture.ErrNoImagePath},
		{"unknown scaler", func(c *Config) { c.Capture.Scaler = "cubic" }, "capture.scaler", nil},
		{"negative retry", func(c *Config) { c.Capture.RetryDelay = -time.Second }, "capture.retry_delay", nil},
		{"zero buffer", func(c *Config) { c.Buffer.MaxSize = 0 }, "buffer.max_size", nil},
		{"bad encoding", func(c *Config) { c.Output.Encoding = "latin1" }, "output.encoding", nil},
		{"long countdown", func(c *Config) { c.Start.Countdown = 120 }, "start.countdown", nil},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ce *asciiscreen.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want ConfigurationError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Validate() = %v, want errors.Is %v", err, tt.is)
			}
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Grid.Width = 0
	cfg.Render.FPS = 0

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() = %T, want joined errors", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("got %d errors, want 2: %v", n, err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Capture.Source = "image"
	cfg.Capture.Image = "/tmp/screen.png"
	cfg.Capture.Scaler = "lanczos"
	cfg.Output.Encoding = "cp437"
	cfg.Log.Level = "debug"

	opts := cfg.SourceOptions()
	if opts.Kind != capture.KindImage || opts.Scaler != capture.ScalerLanczos {
		t.Errorf("SourceOptions = %+v", opts)
	}
	if opts.Width != 240 || opts.Height != 79 {
		t.Errorf("source target = %dx%d, want 240x79", opts.Width, opts.Height)
	}
	if cfg.Encoding() != present.EncodingCP437 {
		t.Errorf("Encoding() = %q", cfg.Encoding())
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if len(cfg.SecureOptions()) != 2 {
		t.Error("SecureOptions should carry max size and lock")
	}
	ramp, err := cfg.Ramp()
	if err != nil || ramp.Name() != "normal" {
		t.Errorf("Ramp() = %v, %v", ramp.Name(), err)
	}
}
