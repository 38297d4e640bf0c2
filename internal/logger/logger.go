package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// New creates a console logger on stderr at the given level ("debug",
// "info", ...). An unknown level falls back to info.
func New(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return NewWithWriter(output).Level(parseLevel(level))
}

// NewWithWriter creates a new structured logger with a custom writer
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a default logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New("info")
}

// ParseStats logs what the parser made of a document: one info line with
// the block counts, and a debug line per dropped block.
func ParseStats(log zerolog.Logger, stmt *models.Statement) {
	if stmt == nil {
		return
	}
	log.Info().
		Int("blocks", stmt.Stats.Blocks).
		Int("parsed", stmt.Stats.Parsed).
		Int("dropped", stmt.Stats.Dropped).
		Interface("by_layout", stmt.Stats.ByLayout).
		Msg("Parsed statement text")

	for _, b := range stmt.Trace {
		if b.Result != models.BlockDropped {
			continue
		}
		log.Debug().
			Int("block", b.Index).
			Str("header", b.Header).
			Int("lines", b.Lines).
			Msg("Dropped block matching no layout")
	}
}
