// Package obslog centralizes logger construction so every component logs in
// the same structured format.
package obslog

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger from LOG_LEVEL/LOG_PRETTY-style inputs. It is
// a constructor rather than a package-level global so each Analyzer can be
// given its own logger (e.g. per audit run) without racing on shared
// mutable state.
func New(level string, pretty bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if v := strings.TrimSpace(level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			lvl = parsed
		}
	}

	var output io.Writer = os.Stdout
	if pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, useful as a safe default
// for components constructed without an explicit logger (tests, library
// callers that don't care about audit logs).
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
