package observability

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const (
	ctxKeySessionID ctxKey = "session_id"
)

// basic global logger, JSON to stderr.
var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithSessionID stores the active session id in the context so log
// lines can be correlated with the remote calls they belong to.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, sessionID)
}

// LoggerFromContext adds session_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	sessionID, _ := ctx.Value(ctxKeySessionID).(string)
	if sessionID == "" {
		return logger
	}
	return logger.With("session_id", sessionID)
}
