package logutil

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	key byte
)

var (
	loggerKey = key(1)

	// DefaultPIIFields are masked by New when no list is given
	DefaultPIIFields = []string{"name", "email", "phone", "ssn", "password"}
)

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetOrDefault(ctx context.Context) zerolog.Logger {
	v := ctx.Value(loggerKey)
	if v == nil {
		return log.Logger
	}
	return v.(zerolog.Logger)
}

// New builds the process logger writing to out. Values of fields are
// redacted before they reach out. format is either json or console.
func New(out io.Writer, level, format string, fields []string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("unable to parse log level %q, cause %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if len(fields) == 0 {
		fields = DefaultPIIFields
	}
	switch format {
	case "", "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log format %q", format)
	}
	// events are redacted while still encoded as json
	return zerolog.New(NewRedactor(out, fields)).Level(lvl).With().Timestamp().Logger(), nil
}
