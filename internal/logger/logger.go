// Package logger builds the process slog.Logger from LogConfig.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glizzus/c2rec/internal/config"
)

// ParseLevel maps debug/info/warn/error to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to every configured output. Outputs are
// "stdout", "stderr", or a file path opened for append. The returned close
// function releases opened files.
func New(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	var (
		writers []io.Writer
		files   []*os.File
	)
	closeFiles := func() error {
		var err error
		for _, f := range files {
			err = errors.Join(err, f.Close())
		}
		return err
	}

	for _, output := range cfg.Outputs {
		switch output {
		case "", "stderr":
			writers = append(writers, os.Stderr)
		case "stdout":
			writers = append(writers, os.Stdout)
		default:
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return nil, nil, errors.Join(fmt.Errorf("create log directory: %w", err), closeFiles())
			}
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, errors.Join(fmt.Errorf("open log file: %w", err), closeFiles())
			}
			files = append(files, f)
			writers = append(writers, f)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	w := io.MultiWriter(writers...)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closeFiles, nil
}
