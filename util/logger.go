// Package util provides low-level helpers shared by all other packages.
package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// LogOptions configures NewLogger.
type LogOptions struct {
	Debug bool
	// Format is "console", "json" or "auto" (console on a terminal).
	Format string
	// File, when set, receives a JSON copy of every entry.  Its
	// directory is created.
	File string
	// Output receives the console copy of every entry.  It defaults to
	// os.Stderr; stdout is left to command output.
	Output io.Writer
}

// NewLogger returns a logger writing to Output and, optionally, a file.
// The returned close func flushes the logger and closes the file.
func NewLogger(opts LogOptions) (*zap.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var outEnc zapcore.Encoder
	switch format := resolveFormat(opts.Format, out); format {
	case "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		outEnc = zapcore.NewConsoleEncoder(cfg)
	case "json":
		outEnc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, nil, fmt.Errorf("invalid log format %q: must be \"auto\", \"json\" or \"console\"", format)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(outEnc, zapcore.Lock(zapcore.AddSync(out)), level),
	}

	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		file = f
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.Lock(f), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	closeFn := func() error {
		_ = logger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func resolveFormat(format string, out io.Writer) string {
	if format == "" || format == "auto" {
		if IsTerminal(out) {
			return "console"
		}
		return "json"
	}
	return format
}
