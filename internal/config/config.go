// Package config loads asciiscreen settings from flags, environment and an
// optional YAML file through viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/asciiscreen"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g.
// ASCIISCREEN_RENDER_MODE=extended.
const EnvPrefix = "ASCIISCREEN"

// Config is the complete asciiscreen configuration.
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Render  RenderConfig  `mapstructure:"render"`
	Capture CaptureConfig `mapstructure:"capture"`
	Buffer  BufferConfig  `mapstructure:"buffer"`
	Output  OutputConfig  `mapstructure:"output"`
	Start   StartConfig   `mapstructure:"start"`
	Log     LogConfig     `mapstructure:"log"`
	// Watch reloads render.mode when the config file changes.
	Watch bool `mapstructure:"watch"`
}

// GridConfig sizes the character grid. Height counts the status row.
type GridConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// Fit sizes the grid to the terminal and follows its resizes.
	Fit bool `mapstructure:"fit"`
}

// RenderConfig picks the ramp and frame rate.
type RenderConfig struct {
	Mode string `mapstructure:"mode"`
	FPS  int    `mapstructure:"fps"`
}

// CaptureConfig selects the frame source.
type CaptureConfig struct {
	// Source is one of "pattern", "image", "x11".
	Source string `mapstructure:"source"`
	// Image is the file shown by the image source.
	Image string `mapstructure:"image"`
	// Scaler is the pre-scaling filter: "bilinear", "nearest",
	// "catmullrom", "lanczos" or "none".
	Scaler string `mapstructure:"scaler"`
	// Display is the X display for the x11 source.
	Display    string        `mapstructure:"display"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// BufferConfig bounds the secure capture buffer.
type BufferConfig struct {
	MaxSize int  `mapstructure:"max_size"`
	Lock    bool `mapstructure:"lock"`
}

// OutputConfig controls terminal encoding.
type OutputConfig struct {
	// Encoding is "auto", "utf8" or "cp437".
	Encoding string `mapstructure:"encoding"`
}

// StartConfig controls the start-up sequence.
type StartConfig struct {
	// Countdown is the number of seconds to wait before the first frame.
	Countdown int `mapstructure:"countdown"`
}

// LogConfig controls diagnostics. Logs go to stderr unless File is set.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  240,
			Height: 80,
		},
		Render: RenderConfig{
			Mode: asciiscreen.DefaultMode,
			FPS:  60,
		},
		Capture: CaptureConfig{
			Source:     "pattern",
			Scaler:     "bilinear",
			RetryDelay: time.Second,
		},
		Buffer: BufferConfig{
			MaxSize: asciiscreen.DefaultMaxSecureSize,
		},
		Output: OutputConfig{
			Encoding: "auto",
		},
		Start: StartConfig{
			Countdown: 3,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers default values and environment lookup with v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("grid.width", d.Grid.Width)
	v.SetDefault("grid.height", d.Grid.Height)
	v.SetDefault("grid.fit", d.Grid.Fit)

	v.SetDefault("render.mode", d.Render.Mode)
	v.SetDefault("render.fps", d.Render.FPS)

	v.SetDefault("capture.source", d.Capture.Source)
	v.SetDefault("capture.image", d.Capture.Image)
	v.SetDefault("capture.scaler", d.Capture.Scaler)
	v.SetDefault("capture.display", d.Capture.Display)
	v.SetDefault("capture.retry_delay", d.Capture.RetryDelay)

	v.SetDefault("buffer.max_size", d.Buffer.MaxSize)
	v.SetDefault("buffer.lock", d.Buffer.Lock)

	v.SetDefault("output.encoding", d.Output.Encoding)
	v.SetDefault("start.countdown", d.Start.Countdown)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("watch", d.Watch)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, asciiscreen.NewConfigurationError("config", "", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadFile points v at path, or at asciiscreen.yaml in ConfigDir() and the
// working directory when path is empty, and reads it. A missing default
// file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("asciiscreen")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) && path == "" {
		return nil
	}
	if err != nil {
		return asciiscreen.NewConfigurationError("config", path, err)
	}
	return nil
}

// ConfigDir returns the directory searched for asciiscreen.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "asciiscreen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".asciiscreen"
	}
	return filepath.Join(home, ".config", "asciiscreen")
}
