package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// logger is the process-wide logger, reconfigured once by setupLogging.
var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// setupLogging configures the global logger. Console output goes to stderr,
// with colors only when stderr is a terminal. -debug selects debug level,
// -silent disables console logging entirely.
func setupLogging(debug, silent bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
	if silent {
		out = io.Discard
	}

	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}
