package testutil

import (
	"io"
	"log/slog"
)

// DiscardLogger returns a logger that drops all output. Tests only.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
