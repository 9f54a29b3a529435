package logging

import (
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// CommandLogger writes the dispatcher's command records to zerolog. Each
// record carries the session attributes current when the command ran, so a
// /maploc or /mapfilter line can be traced back to its zone and frame.
type CommandLogger struct {
	logger  zerolog.Logger
	session ContextProvider
}

// NewCommandLogger wraps logger. session may be nil.
func NewCommandLogger(logger zerolog.Logger, session ContextProvider) *CommandLogger {
	return &CommandLogger{logger: logger, session: session}
}

func (l *CommandLogger) Debug(msg string, keysAndValues ...any) {
	l.write(l.logger.Debug(), msg, keysAndValues)
}

func (l *CommandLogger) Info(msg string, keysAndValues ...any) {
	l.write(l.logger.Info(), msg, keysAndValues)
}

func (l *CommandLogger) Error(msg string, keysAndValues ...any) {
	l.write(l.logger.Error(), msg, keysAndValues)
}

func (l *CommandLogger) write(ev *zerolog.Event, msg string, keysAndValues []any) {
	if ev == nil {
		return
	}
	if l.session != nil {
		for _, a := range l.session() {
			ev = ev.Interface(a.Key, attrValue(a.Value))
		}
	}
	ev.Fields(toFields(keysAndValues)).Msg(msg)
}

// attrValue unwraps a slog value for zerolog.
func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindBool:
		return v.Bool()
	default:
		return v.Any()
	}
}

// toFields converts key-value pairs for zerolog. Errors become their
// message, durations become milliseconds and a dangling key is dropped.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			fields[key] = v.Error()
		case time.Duration:
			fields[key+"Ms"] = float64(v.Microseconds()) / 1000
		default:
			fields[key] = v
		}
	}
	return fields
}
