package stream

import "encoding/json"

// Message types of the overlay stream protocol.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
	TypeStats = "stats"
	TypeBye   = "bye"
	TypeAck   = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// HelloPayload identifies the client. It is replayed after a reconnect.
type HelloPayload struct {
	Zone      string `json:"zone"`
	Character string `json:"character"`
}
