package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger. Logs go to w (stderr) so stdout only
// carries the summary line. Without an explicit level, dev logs at debug and
// everything else at info.
func newLogger(level, appEnv string, w io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if appEnv == "dev" {
		lvl = zerolog.DebugLevel
	}
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
		}
		lvl = parsed
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if appEnv == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl), nil
}
