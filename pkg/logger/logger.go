// Package logger configures the process-wide zerolog logger.
//
// Init is called once from main; the resulting logger is passed down
// explicitly, so most packages never import this one.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level to emit: trace, debug, info, warn or
	// error. Anything else falls back to info.
	Level string
	// Pretty switches from JSON to colourised console output. Keep it
	// off outside local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	once     sync.Once
	instance zerolog.Logger
)

// Init builds the shared logger. The first call wins; later calls return
// the logger built by the first.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := level(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Str("service", "inventory-api").
			Logger()
	})
	return instance
}

func level(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
