// Package cmd implements the asciiscreen command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"mode":        "render.mode",
	"fps":         "render.fps",
	"width":       "grid.width",
	"height":      "grid.height",
	"fit":         "grid.fit",
	"source":      "capture.source",
	"image":       "capture.image",
	"scaler":      "capture.scaler",
	"display":     "capture.display",
	"retry-delay": "capture.retry_delay",
	"max-buffer":  "buffer.max_size",
	"lock":        "buffer.lock",
	"encoding":    "output.encoding",
	"countdown":   "start.countdown",
	"log-level":   "log.level",
	"log-file":    "log.file",
	"watch":       "watch",
}

// NewRootCmd builds the command tree around its own viper instance.
func NewRootCmd() *cobra.Command {
	return newRootCmd(viper.New())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	config.SetDefaults(v)
	d := config.Default()

	var cfgFile string
	root := &cobra.Command{
		Use:   "asciiscreen",
		Short: "Render the screen as live ASCII art",
		Long: `asciiscreen captures a frame source (an X11 display, an image file or a
built-in test pattern), converts every frame to luminance and maps it onto
a character ramp, redrawing the terminal in place at a fixed frame rate.

Press q (or Esc, Ctrl+C) to quit and p (or space) to pause.`,
		Example: `  asciiscreen --mode extended
  asciiscreen -m=codepage437 --encoding cp437
  asciiscreen --source image --image photo.jpg --fit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				if errors.Is(err, asciiscreen.ErrUnknownMode) {
					printModeHint(cmd.ErrOrStderr())
				}
				return err
			}
			return runRender(cmd.Context(), cmd, v, cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/asciiscreen/asciiscreen.yaml)")

	f := root.Flags()
	f.StringP("mode", "m", d.Render.Mode, "glyph ramp (see 'asciiscreen modes')")
	f.Int("fps", d.Render.FPS, "target frames per second")
	f.Int("width", d.Grid.Width, "grid width in characters")
	f.Int("height", d.Grid.Height, "grid height in rows, including the status row")
	f.Bool("fit", d.Grid.Fit, "size the grid to the terminal and follow resizes")
	f.String("source", d.Capture.Source, "frame source: pattern, image or x11")
	f.String("image", d.Capture.Image, "image file for --source image")
	f.String("scaler", d.Capture.Scaler, "pre-scaling filter: bilinear, nearest, catmullrom, lanczos or none")
	f.String("display", d.Capture.Display, "X display for --source x11 (default $DISPLAY)")
	f.Duration("retry-delay", d.Capture.RetryDelay, "wait after a failed capture")
	f.Int("max-buffer", d.Buffer.MaxSize, "capture buffer limit in bytes")
	f.Bool("lock", d.Buffer.Lock, "lock the capture buffer in RAM (mlock)")
	f.String("encoding", d.Output.Encoding, "terminal encoding: auto, utf8 or cp437")
	f.Int("countdown", d.Start.Countdown, "seconds to wait before the first frame")
	f.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	f.String("log-file", d.Log.File, "write logs to a file instead of stderr")
	f.Bool("watch", d.Watch, "reload render.mode when the config file changes")

	if err := bindFlags(v, f); err != nil {
		panic(err)
	}

	root.AddCommand(newModesCmd())
	return root
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			return fmt.Errorf("cmd: flag --%s not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// printModeHint lists the valid modes after an unknown-mode error.
func printModeHint(w io.Writer) {
	fmt.Fprintf(w, "Available modes: %s\n", strings.Join(asciiscreen.Modes(), ", "))
}

// Execute runs the command line and reports errors on stderr. It returns
// the error so main can set the exit status.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
