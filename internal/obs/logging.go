// Package obs contains observability utilities such as logging.
package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger is the global structured logger used by the tool.
//
// It starts as a JSON logger on stderr at info level so packages can log
// before InitLogger runs (tests included).
var Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// RunID identifies one invocation across all of its log records.
var RunID string

// InitLogger replaces Logger with a JSON handler writing to w at the given
// level. Every record carries the run_id of this invocation. stdout is never
// used because filter mode prints gtins there.
func InitLogger(w io.Writer, level string) {
	if w == nil {
		w = os.Stderr
	}
	RunID = uuid.NewString()
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	Logger = slog.New(h).With("run_id", RunID)
}

// ParseLevel maps debug|info|warn|error to a slog level; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
