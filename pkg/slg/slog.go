package slg

import (
	"context"

	"log/slog"
)

type slogStruct struct {
	Name string
}

var slogKey = &slogStruct{Name: "slog"}

// GetSlog returns the request-scoped logger, falling back to the process
// default when the context carries none.
func GetSlog(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(slogKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}

func WithSlog(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, slogKey, log)
}
