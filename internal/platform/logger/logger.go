// Package logger builds the zerolog root logger shared by the service and
// the CLI.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON lines to stdout, tagged with the
// component name. The level defaults to info; CONTENTOPS_LOG_LEVEL
// overrides it.
func New(component string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("CONTENTOPS_LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()
}
