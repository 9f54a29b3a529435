package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func sessionAttrs(frame *uint64) ContextProvider {
	return func() []slog.Attr {
		*frame++
		return []slog.Attr{
			slog.String("zone", "gfaydark"),
			slog.String("character", "Blackburrow"),
			slog.Uint64("frame", *frame),
		}
	}
}

func TestSetup_FileOnly_NoStdout(t *testing.T) {
	restore := captureStdout(t)

	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", nil)
	m.Logger().Info("Map generated", "objects", 12)

	assert.Contains(t, file.String(), `msg="Map generated" objects=12`)
	assert.Empty(t, restore(), "the log file replaces stdout")
}

func TestSetup_NoFile_WritesToStdout(t *testing.T) {
	restore := captureStdout(t)

	m := NewSlogManager()
	m.Setup(nil, "info", nil)
	m.Logger().Info("Map overlay started")

	assert.Contains(t, restore(), "Map overlay started")
}

func TestSetup_LevelAndReplace(t *testing.T) {
	var first, second bytes.Buffer
	m := NewSlogManager()

	m.Setup(&first, "info", nil)
	m.Logger().Debug("Spawn skipped by filter")
	m.Logger().Info("Regenerating map")
	assert.NotContains(t, first.String(), "Spawn skipped by filter")
	assert.Contains(t, first.String(), "Regenerating map")

	m.Setup(&second, "debug", nil)
	m.Logger().Debug("Spawn skipped by filter")
	assert.NotContains(t, first.String(), "Spawn skipped by filter", "old file is detached")
	assert.Contains(t, second.String(), "Spawn skipped by filter")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
	assert.NoError(t, m.Flush(context.Background()))
}

func TestSetup_SessionAttributes(t *testing.T) {
	var file bytes.Buffer
	var frame uint64 = 41
	m := NewSlogManager().WithContext(sessionAttrs(&frame))
	m.Setup(&file, "info", nil)

	engine := m.Logger().With("component", "engine")
	engine.Error("Frame fault", "phase", "update", "error", errors.New("stale spawn handle"))

	out := file.String()
	assert.Contains(t, out, `msg="Frame fault" component=engine`)
	assert.Contains(t, out, "phase=update")
	assert.Contains(t, out, `error="stale spawn handle"`)
	assert.Contains(t, out, "zone=gfaydark character=Blackburrow frame=43", "provider runs per record")
}

func TestSetup_ExtraHandlers(t *testing.T) {
	var file, extra bytes.Buffer
	m := NewSlogManager().WithHandlers(slog.NewJSONHandler(&extra, &slog.HandlerOptions{Level: slog.LevelWarn}))
	m.Setup(&file, "info", nil)

	m.Logger().Info("Regenerating map", "zone", "gfaydark")
	m.Logger().Error("Frame fault", "phase", "attach")

	assert.Contains(t, file.String(), "Regenerating map")
	assert.Contains(t, file.String(), "Frame fault")
	assert.NotContains(t, extra.String(), "Regenerating map")
	assert.Contains(t, extra.String(), `"phase":"attach"`)
}

func TestSetup_ComponentLevels(t *testing.T) {
	var file bytes.Buffer
	m := NewSlogManager().WithComponentLevels(map[string]string{
		"engine": "debug",
		"stream": "error",
	})
	m.Setup(&file, "info", nil)

	log := m.Logger()
	log.With("component", "engine").Debug("Melee circle updated", "radius", 14.0)
	log.With("component", "stream").Warn("Overlay stream lost")
	log.With("component", "stream").Error("Overlay stream write failed")
	log.Debug("Untagged debug")
	log.With("component", "dispatcher").Info("Command dispatched", "command", "mapfilter")

	out := file.String()
	assert.Contains(t, out, "Melee circle updated", "engine is lowered to debug")
	assert.NotContains(t, out, "Overlay stream lost", "stream is raised to error")
	assert.Contains(t, out, "Overlay stream write failed")
	assert.NotContains(t, out, "Untagged debug", "base level still applies")
	assert.Contains(t, out, "Command dispatched")
}

func TestComponentHandler_GroupKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	h := NewComponentHandler(inner, slog.LevelInfo, map[string]slog.Level{"engine": slog.LevelDebug})

	log := slog.New(h).With("component", "engine").WithGroup("circle")
	log.Debug("Radius circle redrawn", "radius", 30)
	assert.Contains(t, buf.String(), "circle.radius=30")

	assert.Same(t, h, h.WithGroup(""))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	info := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debug := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
	assert.False(t, NewMultiHandler(nil, info).Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, NewMultiHandler(info, debug).Enabled(context.Background(), slog.LevelDebug))
}

// failingSink stands in for a GELF sink whose server went away.
type failingSink struct {
	slog.Handler
}

func (failingSink) Handle(context.Context, slog.Record) error {
	return errors.New("graylog unreachable")
}

func (failingSink) Enabled(context.Context, slog.Level) bool {
	return true
}

func TestMultiHandler_FailingSinkDoesNotBlockFile(t *testing.T) {
	var file bytes.Buffer
	text := slog.NewTextHandler(&file, &slog.HandlerOptions{Level: slog.LevelInfo})

	multi := NewMultiHandler(failingSink{}, text)
	rec := slog.NewRecord(time.Now(), slog.LevelError, "Frame fault", 0)
	rec.AddAttrs(slog.String("phase", "detach"))

	err := multi.Handle(context.Background(), rec)
	assert.EqualError(t, err, "graylog unreachable")
	assert.Contains(t, file.String(), "phase=detach")
}

func TestSetup_WithOTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()

	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", provider)
	m.Logger().Info("Map generated")

	assert.Contains(t, file.String(), "Map generated")
	assert.NoError(t, m.Flush(context.Background()))
}

// captureStdout redirects stdout to a pipe and returns a function that
// restores it and returns what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := osPipe()
	require.NoError(t, err)

	orig := osStdout
	osStdout = w

	return func() string {
		w.Close()
		osStdout = orig
		var buf bytes.Buffer
		buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}
