package logger

import (
	"log/slog"
	"os"
)

// Logger wraps slog with a JSON handler tagged with the service name.
type Logger struct {
	*slog.Logger
}

func New(serviceName string) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{Logger: slog.New(handler).With("service", serviceName)}
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
