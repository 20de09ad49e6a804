package logging

import "log/slog"

// Logger is the level-based interface taken by components that should not
// depend on slog directly, such as the focus timer. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

// Default returns the current default slog logger as a Logger.
func Default() Logger {
	return slog.Default()
}

// Component returns logger tagged with a component name. A nil logger means
// slog.Default().
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String(KeyComponent, name))
}
