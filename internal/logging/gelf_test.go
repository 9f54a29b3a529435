package logging

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	messages []*gelf.Message
}

func (c *captureWriter) WriteMessage(m *gelf.Message) error {
	c.messages = append(c.messages, m)
	return nil
}

func TestGELFHandler(t *testing.T) {
	w := &captureWriter{}
	log := slog.New(NewGELFHandler(w, "info")).With("zone", "gfaydark")

	log.Debug("dropped")
	log.WithGroup("engine").Error("frame fault\nstack", "phase", "update", "error", errors.New("stale handle"))

	require.Len(t, w.messages, 1)
	m := w.messages[0]
	assert.Equal(t, "frame fault", m.Short)
	assert.Equal(t, "frame fault\nstack", m.Full)
	assert.Equal(t, int32(3), m.Level)
	assert.Equal(t, ServiceName, m.Facility)
	assert.Equal(t, "gfaydark", m.Extra["_zone"])
	assert.Equal(t, "update", m.Extra["_engine.phase"])
	assert.Equal(t, "stale handle", m.Extra["_engine.error"])
	assert.NotZero(t, m.TimeUnix)
}

func TestGELFLevels(t *testing.T) {
	assert.Equal(t, int32(7), gelfLevel(slog.LevelDebug))
	assert.Equal(t, int32(6), gelfLevel(slog.LevelInfo))
	assert.Equal(t, int32(4), gelfLevel(slog.LevelWarn))
	assert.Equal(t, int32(3), gelfLevel(slog.LevelError))
}
