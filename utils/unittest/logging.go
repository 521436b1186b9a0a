package unittest

import (
	"flag"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var verbose = flag.Bool("vv", false, "print debugging logs")

// LogVerbose turns on debug output for all loggers created afterwards.
func LogVerbose() {
	*verbose = true
}

// Logger returns a logger that discards everything unless the -vv flag is set.
func Logger() zerolog.Logger {
	var writer io.Writer = io.Discard
	if *verbose {
		writer = os.Stderr
	}
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	return zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// TestLogger writes through t.Log, so output only shows for failing tests
// or with -v.
func TestLogger(t testing.TB) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// LoggerWithWriter returns a debug logger that writes JSON lines to w, for
// tests that inspect log output.
func LoggerWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel)
}
