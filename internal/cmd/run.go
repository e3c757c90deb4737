package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/capture"
	"github.com/gogpu/asciiscreen/internal/config"
	"github.com/gogpu/asciiscreen/internal/keys"
	"github.com/gogpu/asciiscreen/internal/loop"
	"github.com/gogpu/asciiscreen/internal/present"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sizePollInterval is how often --fit checks the terminal size.
const sizePollInterval = 250 * time.Millisecond

// fitGrid converts a terminal size to grid dimensions. One row is kept
// free so the trailing newline of the status row does not scroll.
func fitGrid(cols, rows int) (width, height int) {
	return max(cols, 1), max(rows-1, 2)
}

func runRender(ctx context.Context, cmd *cobra.Command, v *viper.Viper, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	closeLog, err := setupLogging(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	log := asciiscreen.Logger()

	ramp, err := cfg.Ramp()
	if err != nil {
		return err
	}
	lut, err := asciiscreen.NewGrayLookupTable(ramp)
	if err != nil {
		return err
	}

	width, height := cfg.Grid.Width, cfg.Grid.Height
	if cfg.Grid.Fit {
		if cols, rows, err := term.GetSize(os.Stdout.Fd()); err == nil {
			width, height = fitGrid(cols, rows)
		} else {
			log.Warn("terminal size unavailable, using configured grid", "err", err)
		}
	}
	out, err := asciiscreen.NewOutputBuffer(width, height)
	if err != nil {
		return asciiscreen.NewConfigurationError("grid", fmt.Sprintf("%dx%d", width, height), err)
	}

	srcOpts := cfg.SourceOptions()
	srcOpts.Width, srcOpts.Height = width, height-1
	src, err := capture.Open(srcOpts)
	if err != nil {
		return err
	}
	defer src.Close()

	enc := present.ChooseEncoding(cfg.Encoding(), ramp)
	pres := present.New(stdout, present.WithEncoding(enc))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printIntro(stdout, cfg, ramp, enc, width, height)
	ticker := time.NewTicker(time.Second)
	err = countdown(ctx, stdout, cfg.Start.Countdown, ticker.C)
	ticker.Stop()
	if err != nil {
		return nil
	}

	opts := []loop.Option{
		loop.WithFPS(cfg.Render.FPS),
		loop.WithRetryDelay(cfg.Capture.RetryDelay),
		loop.WithBuffer(asciiscreen.NewSecureBuffer(cfg.SecureOptions()...)),
		loop.WithEncoding(cfg.Encoding()),
	}
	if term.IsTerminal(os.Stdin.Fd()) {
		kr, err := keys.Open(os.Stdin)
		if err != nil {
			log.Warn("keyboard input unavailable", "err", err)
		} else {
			defer kr.Close()
			pres.SetCRLF(kr.Raw())
			opts = append(opts, loop.WithKeys(kr.Events()))
		}
	}

	l := loop.New(src, lut, out, pres, opts...)
	defer l.Close()

	if cfg.Watch {
		watchMode(v, l)
	}
	if cfg.Grid.Fit {
		go followTerminal(ctx, l, width, height)
	}

	_ = pres.Clear()
	_ = pres.HideCursor()
	defer func() {
		_ = pres.ShowCursor()
	}()

	err = l.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchMode reloads render.mode whenever the config file changes.
func watchMode(v *viper.Viper, l *loop.Loop) {
	if v.ConfigFileUsed() == "" {
		asciiscreen.Logger().Warn("watch requested but no config file is in use")
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		mode := v.GetString("render.mode")
		asciiscreen.Logger().Info("config changed", "file", e.Name, "mode", mode)
		l.SetMode(mode)
	})
	v.WatchConfig()
}

// followTerminal polls the terminal size and queues grid resizes.
func followTerminal(ctx context.Context, l *loop.Loop, width, height int) {
	t := time.NewTicker(sizePollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		cols, rows, err := term.GetSize(os.Stdout.Fd())
		if err != nil {
			continue
		}
		w, h := fitGrid(cols, rows)
		if w != width || h != height {
			width, height = w, h
			l.Resize(w, h)
		}
	}
}
