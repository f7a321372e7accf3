package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvDebug forces debug logging regardless of configuration
const EnvDebug = "PIPELINE_APP_DEBUG"

var defaultLogger *slog.Logger

func init() {
	format := "text"
	if strings.EqualFold(os.Getenv("PIPELINE_APP_LOG_FORMAT"), "json") {
		format = "json"
	}
	defaultLogger = New(os.Stderr, "info", format)
	slog.SetDefault(defaultLogger)
}

// Get returns the default logger
func Get() *slog.Logger {
	return defaultLogger
}

// Setup replaces the default logger with one built from level and format
func Setup(level, format string) *slog.Logger {
	defaultLogger = New(os.Stderr, level, format)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

// New builds a logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	if os.Getenv(EnvDebug) != "" {
		opts.Level = slog.LevelDebug
	}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	opts.ReplaceAttr = shortLevels
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func shortLevels(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch level {
	case slog.LevelDebug:
		a.Value = slog.StringValue("DBG")
	case slog.LevelInfo:
		a.Value = slog.StringValue("INF")
	case slog.LevelWarn:
		a.Value = slog.StringValue("WRN")
	case slog.LevelError:
		a.Value = slog.StringValue("ERR")
	}
	return a
}
