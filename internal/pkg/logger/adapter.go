package logger

import (
	"log/slog"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"

	"inft_dashboard/internal/app/port"
)

// slogAdapter implements port.Logger on top of slog. A nil logger routes to
// the package-level functions, so it follows whatever Init installed.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a port.Logger backed by the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// NewSlogAdapterFor returns a port.Logger backed by l, with fixed attributes.
func NewSlogAdapterFor(l *slog.Logger, args ...any) port.Logger {
	if len(args) > 0 {
		l = l.With(args...)
	}
	return &slogAdapter{l: l}
}

// NewNop returns a port.Logger that discards everything. Used in tests.
func NewNop() port.Logger {
	return &slogAdapter{l: slog.New(slogzap.Option{Logger: zap.NewNop()}.NewZapHandler())}
}

func (a *slogAdapter) Info(msg string, args ...any) {
	if a.l == nil {
		Info(msg, args...)
		return
	}
	a.l.Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	if a.l == nil {
		Debug(msg, args...)
		return
	}
	a.l.Debug(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	if a.l == nil {
		Warn(msg, args...)
		return
	}
	a.l.Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	if a.l == nil {
		Error(msg, args...)
		return
	}
	a.l.Error(msg, args...)
}
