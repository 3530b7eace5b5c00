package internal

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. Production gets plain JSON
// lines; everything else gets the human-readable console writer.
func NewLogger(w io.Writer, env, level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}

	if env != "prod" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(w).Level(l).With().Timestamp().Logger()
}
