// Package stream publishes overlay frames and statistics to a remote viewer
// over a WebSocket.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mqmap/overlay/internal/engine"
)

// Config holds WebSocket stream configuration.
type Config struct {
	URL    string
	Secret string
}

// Streamer sends engine views and stats. Frames and stats are
// fire-and-forget; hello and bye wait for the server's ack.
type Streamer struct {
	conn *connection
	cfg  Config
}

// New creates a streamer. Nothing is dialed until Connect.
func New(cfg Config, logger *slog.Logger) *Streamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Streamer{
		conn: newConnection(logger.With("component", "stream")),
		cfg:  cfg,
	}
}

// Connect dials the server.
func (s *Streamer) Connect() error {
	return s.conn.dial(s.cfg.URL, s.cfg.Secret)
}

// Close disconnects from the server.
func (s *Streamer) Close() error {
	return s.conn.close()
}

// Connected reports whether a socket is currently open.
func (s *Streamer) Connected() bool {
	return s.conn.connected()
}

// Dropped returns the number of messages discarded on a full send buffer.
func (s *Streamer) Dropped() uint64 {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	return s.conn.dropped
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

func (s *Streamer) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	s.conn.send(data)
	return nil
}

// Hello announces the zone and character and waits for the ack. The
// message is cached and replayed after reconnects.
func (s *Streamer) Hello(zone, character string) error {
	data, err := marshalEnvelope(TypeHello, HelloPayload{Zone: zone, Character: character})
	if err != nil {
		return err
	}
	s.conn.mu.Lock()
	s.conn.hello = data
	s.conn.mu.Unlock()
	return s.conn.sendAndWait(data, TypeHello, ackTimeout)
}

// Bye tells the server the client left the game.
func (s *Streamer) Bye() error {
	data, err := marshalEnvelope(TypeBye, nil)
	if err != nil {
		return err
	}
	s.conn.mu.Lock()
	s.conn.hello = nil
	s.conn.mu.Unlock()
	return s.conn.sendAndWait(data, TypeBye, ackTimeout)
}

// SendFrame publishes a view.
func (s *Streamer) SendFrame(v engine.View) error {
	return s.sendEnvelope(TypeFrame, v)
}

// RecordStats publishes a monitor sample. It makes the streamer a
// monitor sink.
func (s *Streamer) RecordStats(_ context.Context, at time.Time, st engine.Stats) error {
	return s.sendEnvelope(TypeStats, struct {
		Time  time.Time    `json:"time"`
		Stats engine.Stats `json:"stats"`
	}{at, st})
}
