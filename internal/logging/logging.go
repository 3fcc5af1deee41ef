// Package logging configures slog for the configurator and provides the
// diagnostics sink for non-fatal load and texture failures.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// ParseLevel maps a flag value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// Setup installs a text handler writing to w as the default logger and
// returns it. Level names are colored when w is a color terminal.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	out := termenv.NewOutput(w)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(colorLevel(out, lvl))
				}
			}
			return a
		},
	}
	logger := slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(logger)
	return logger
}

func colorLevel(out *termenv.Output, lvl slog.Level) string {
	s := out.String(lvl.String())
	switch {
	case lvl >= slog.LevelError:
		s = s.Foreground(out.Color("1")).Bold()
	case lvl >= slog.LevelWarn:
		s = s.Foreground(out.Color("3"))
	case lvl >= slog.LevelInfo:
		s = s.Foreground(out.Color("4"))
	default:
		s = s.Faint()
	}
	return s.String()
}

// Report sends a non-fatal error to the diagnostics sink. It never panics
// and never returns the error to the caller's loop.
func Report(logger *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	attrs = append(attrs, slog.Any("err", err))
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Log takes the given error and logs it if it is non-nil.
//
//	logging.Log(f.Close())
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error())
	}
	return err
}
