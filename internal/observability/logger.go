package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	switch strings.ToLower(env) {
	case "prod", "production":
		return slog.New(slog.NewJSONHandler(w, nil))
	case "dev", "development", "local":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
