package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/config"
)

// setupLogging installs the process logger. Logs go to cfg.Log.File when
// set, otherwise to stderr. The returned function restores the silent
// default and closes the file.
func setupLogging(cfg *config.Config, stderr io.Writer) (func(), error) {
	w := stderr
	var f *os.File
	if cfg.Log.File != "" {
		var err error
		f, err = os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, asciiscreen.NewConfigurationError("log.file", cfg.Log.File, err)
		}
		w = f
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()})
	asciiscreen.SetLogger(slog.New(h))

	return func() {
		asciiscreen.SetLogger(nil)
		if f != nil {
			_ = f.Close()
		}
	}, nil
}
