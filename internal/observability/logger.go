package observability

import (
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the run logger. format is "json" or "text"; level is one
// of debug, info, warn, error.
func NewLogger(level, format string) *slog.Logger {
	return sharedobs.NewLogger(level, format)
}
