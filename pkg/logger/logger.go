package logger

import (
	"log/slog"
	"os"
)

// Log defaults to slog's default logger until Init is called, so packages
// can log from tests without bootstrapping.
var Log = slog.Default()

func Init() {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
