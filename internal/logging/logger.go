package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// LogDir, when set, receives a hondana.log file alongside stderr output.
	LogDir string
}

// New constructs a slog logger from the provided options. Format "console"
// writes human-oriented text (colorless when stderr is not a TTY); "json"
// writes one JSON object per record. An empty format means console.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)

	var writer io.Writer = os.Stderr
	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(filepath.Join(opts.LogDir, "hondana.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writer = io.MultiWriter(os.Stderr, file)
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(writer, handlerOpts)), nil
	case "console":
		return slog.New(newConsoleHandler(writer, handlerOpts, stderrIsTTY())), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

func stderrIsTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}
