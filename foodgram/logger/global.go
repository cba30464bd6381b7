package logger

import (
	"log/slog"
	"strings"
	"time"
)

// SlowQuery is the duration past which a successful raw statement is logged
// at warn level.
const SlowQuery = 500 * time.Millisecond

// LogQuery logs a raw statement run on the pool outside bun, such as schema
// DDL or the reset truncate. op names the step, e.g. "index" or "reset".
func LogQuery(op, query string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("op", op),
		slog.Duration("took", duration),
		slog.String("query", compactSQL(query)),
	}

	switch {
	case err != nil:
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
	case duration > SlowQuery:
		slog.Warn("Slow query", attrs...)
	default:
		slog.Debug("Query executed", attrs...)
	}
}

// compactSQL folds multi-line DDL onto one line.
func compactSQL(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// LogSystem logs lifecycle events of the serve and migrate commands.
func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

func LogError(msg string, err error, attrs ...any) {
	base := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(base, attrs...)...)
}
