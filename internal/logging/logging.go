// Package logging builds the zerolog loggers used by the simulator and its
// front ends.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Setup.
type Options struct {
	Level   string    // DEBUG, INFO, WARN, ERROR or TRACE; anything else is INFO
	Console io.Writer // colour console output; nil means stderr
	File    io.Writer // optional plain-text copy
	NoColor bool      // disable colour on the console writer too
	// Frame, if set, stamps every event with the simulation frame.
	Frame func() uint64
}

// ParseLevel maps a level name to a zerolog level, defaulting to INFO.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup sets the global level and returns a logger writing to the console
// and, when given, a file.
func Setup(o Options) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(o.Level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	console := o.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
			NoColor:    o.NoColor,
		},
	}
	if o.File != nil {
		// console format without colours to file
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        o.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	if o.Frame != nil {
		l = l.Hook(FrameHook(o.Frame))
	}
	return l
}

// FrameHook stamps events with the value of frame under the "frame" key.
func FrameHook(frame func() uint64) zerolog.Hook {
	return zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		e.Uint64("frame", frame())
	})
}

// OpenFile opens (creating or appending) a log file.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
