// Package logging builds the process logger and reads back the JSON log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level      string
	File       string // optional; rotated JSON lines
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to out, plus a closer for the log file.
// Terminals get text output; everything else gets JSON. When a file is
// configured it always receives JSON.
func New(opts Options, out io.Writer) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)
	terminal := isTerminal(out)

	if opts.File == "" {
		return slog.New(newHandler(level, out, terminal, nil)), nopCloser{}, nil
	}

	if opts.MaxBackups < 0 {
		opts.MaxBackups = 0
	}
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	return slog.New(newHandler(level, out, terminal, rotator)), rotator, nil
}

// newHandler writes text to a terminal out and JSON otherwise. A non-nil
// file always receives JSON.
func newHandler(level slog.Level, out io.Writer, terminal bool, file io.Writer) slog.Handler {
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch {
	case file == nil && terminal:
		return slog.NewTextHandler(out, handlerOpts)
	case file == nil:
		return slog.NewJSONHandler(out, handlerOpts)
	case !terminal:
		return slog.NewJSONHandler(io.MultiWriter(out, file), handlerOpts)
	default:
		return slogmulti.Fanout(
			slog.NewTextHandler(out, handlerOpts),
			slog.NewJSONHandler(file, handlerOpts),
		)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
