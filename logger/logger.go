// Package logger wraps log/slog with level/format selection and rotating file output.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, format and destination of log output.
type Config struct {
	// debug, info, warn or error
	Level string `yaml:"level" toml:"level"`
	// json or text
	Format string `yaml:"format" toml:"format"`
	// stdout, stderr, file or both (stderr and file)
	Output string `yaml:"output" toml:"output"`
	// FilePath is used when Output is file or both.
	FilePath string `yaml:"file_path" toml:"file_path"`
	// MaxSize is the rotation threshold in megabytes.
	MaxSize    int  `yaml:"max_size" toml:"max_size"`
	MaxBackups int  `yaml:"max_backups" toml:"max_backups"`
	MaxAge     int  `yaml:"max_age" toml:"max_age"`
	Compress   bool `yaml:"compress" toml:"compress"`
	WithCaller bool `yaml:"with_caller" toml:"with_caller"`
}

// DefaultConfig logs text at info level to stderr, keeping stdout free for command output.
var DefaultConfig = Config{
	Level:      "info",
	Format:     "text",
	Output:     "stderr",
	FilePath:   "logs/ratekit.log",
	MaxSize:    100,
	MaxBackups: 10,
	MaxAge:     30,
	Compress:   true,
}

var global atomic.Pointer[slog.Logger]

// ParseLevel maps a level name to a slog.Level; unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a logger for cfg. Console output goes to console; file output rotates
// through lumberjack.
func New(cfg Config, console io.Writer) (*slog.Logger, error) {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logger: output %q needs a file path", cfg.Output)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		out = file
		if strings.EqualFold(cfg.Output, "both") {
			out = io.MultiWriter(console, file)
		}
	case "stdout":
		out = os.Stdout
	default:
		out = console
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.WithCaller,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), nil
}

// Init installs the process wide logger built from cfg, with stderr as the console.
func Init(cfg Config) error {
	l, err := New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the process wide logger.
func Set(l *slog.Logger) {
	global.Store(l)
	slog.SetDefault(l)
}

// L returns the process wide logger, falling back to slog.Default before Init.
func L() *slog.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// With returns a child of L carrying args.
func With(args ...any) *slog.Logger { return L().With(args...) }

// Discard returns a logger that drops every record.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
