package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

func SetupLogger(level string) *slog.Logger {
	return SetupLoggerWithOutput(level, "json", "")
}

// SetupLoggerWithOutput builds the application logger. A non-empty file writes to both stdout
// and a rotated log file.
func SetupLoggerWithOutput(level, format, file string) *slog.Logger {
	var output io.Writer = os.Stdout
	if file != "" {
		output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			LocalTime:  true,
			Compress:   true,
		})
	}

	logger := slog.New(newHandler(output, level, format))
	slog.SetDefault(logger)
	return logger
}

func newHandler(output io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(output, opts)
	}
	return slog.NewJSONHandler(output, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
