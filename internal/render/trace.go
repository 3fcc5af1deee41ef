package render

import (
	"context"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RouteTraceLog sends raylib's own log lines to logger.
func RouteTraceLog(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		rl.SetTraceLogLevel(rl.LogDebug)
	} else {
		rl.SetTraceLogLevel(rl.LogInfo)
	}
	rl.SetTraceLogCallback(func(level int, msg string) {
		logger.Log(context.Background(), traceLevel(rl.TraceLogLevel(level)), strings.TrimSpace(msg), slog.String("source", "raylib"))
	})
}

func traceLevel(level rl.TraceLogLevel) slog.Level {
	switch {
	case level >= rl.LogError:
		return slog.LevelError
	case level == rl.LogWarning:
		return slog.LevelWarn
	case level == rl.LogInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
