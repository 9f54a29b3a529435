package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLevel parses a configured level name.
func ZerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
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

// NewZerolog builds a console-format logger writing to every w, with UTC
// RFC3339 timestamps and a component field.
func NewZerolog(level, component string, w ...io.Writer) zerolog.Logger {
	writers := make([]io.Writer, 0, len(w))
	for _, out := range w {
		if out == nil {
			continue
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
			FormatTimestamp: func(i any) string {
				if s, ok := i.(string); ok {
					if t, err := time.Parse(time.RFC3339, s); err == nil {
						return t.UTC().Format(time.RFC3339)
					}
					return s
				}
				return ""
			},
		})
	}
	if len(writers) == 0 {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ZerologLevel(level)).
		With().Timestamp().Str("component", component).Logger()
}
