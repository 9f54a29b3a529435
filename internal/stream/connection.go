package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	sendChSize   = 256
	ackChSize    = 16
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
	ackTimeout   = 10 * time.Second
)

// connection owns one overlay stream socket. Every frame written to the
// socket goes through writeFrame, which holds writeMu.
type connection struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *ws.Conn
	sendCh  chan []byte
	ackCh   chan AckMessage
	done    chan struct{} // closed on shutdown
	closed  bool

	wsURL  string
	secret string

	// hello is replayed first after every reconnect.
	hello []byte

	dropped   uint64
	baseDelay time.Duration
	logger    *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		sendCh:    make(chan []byte, sendChSize),
		ackCh:     make(chan AckMessage, ackChSize),
		done:      make(chan struct{}),
		baseDelay: time.Second,
		logger:    logger,
	}
}

// dial opens the overlay stream and starts its read and write loops.
func (c *connection) dial(rawURL, secret string) error {
	c.wsURL = rawURL
	c.secret = secret

	conn, err := c.dialOnce()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.writeLoop(conn)
	go c.readLoop(conn)
	return nil
}

// dialOnce dials once, passing the stream secret as a query parameter.
func (c *connection) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", c.secret)
	u.RawQuery = q.Encode()

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// writeFrame writes one message to conn under the write lock.
func (c *connection) writeFrame(conn *ws.Conn, messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(messageType, data)
}

func (c *connection) shuttingDown() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// writeLoop drains sendCh into conn. It returns on error or shutdown.
func (c *connection) writeLoop(conn *ws.Conn) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.writeFrame(conn, ws.TextMessage, data); err != nil {
				if c.shuttingDown() {
					return
				}
				c.logger.Warn("Overlay stream write failed", "error", err, "bytes", len(data))
				go c.reconnect(conn)
				return
			}
		}
	}
}

// readLoop routes acks to ackCh until conn fails.
func (c *connection) readLoop(conn *ws.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.shuttingDown() {
				return
			}
			c.logger.Warn("Overlay stream read failed", "error", err)
			go c.reconnect(conn)
			return
		}

		var ack AckMessage
		if err := json.Unmarshal(message, &ack); err != nil {
			c.logger.Debug("Non-ack message received", "raw", string(message))
			continue
		}
		if ack.Type == TypeAck {
			select {
			case c.ackCh <- ack:
			default:
				c.logger.Debug("Ack channel full, dropping", "for", ack.For)
			}
		}
	}
}

// reconnect replaces failed with a new connection, retrying with
// exponential backoff. Only the first caller for a given connection
// reconnects.
func (c *connection) reconnect(failed *ws.Conn) {
	c.mu.Lock()
	if c.closed || c.conn != failed {
		c.mu.Unlock()
		return
	}
	_ = failed.Close()
	c.conn = nil
	c.mu.Unlock()

	backoff := c.baseDelay
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		c.logger.Info("Reopening overlay stream", "attempt", attempt, "backoff", backoff)
		conn, err := c.dialOnce()
		if err != nil {
			c.logger.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.conn = conn
		hello := c.hello
		c.mu.Unlock()

		if hello != nil {
			if err := c.writeFrame(conn, ws.TextMessage, hello); err != nil {
				c.logger.Warn("Failed to replay hello after reconnect", "error", err)
				c.mu.Lock()
				c.conn = nil
				c.mu.Unlock()
				_ = conn.Close()
				continue
			}
		}

		c.logger.Info("Overlay stream reopened", "attempt", attempt, "helloReplayed", hello != nil)
		go c.writeLoop(conn)
		go c.readLoop(conn)
		return
	}

	c.logger.Error("Overlay stream lost", "attempts", maxReconnect)
}

// send pushes data to the write loop. Non-blocking; drops if channel full.
func (c *connection) send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
		c.logger.Warn("Overlay stream backlog full, dropping message", "backlog", sendChSize)
		return false
	}
}

// sendAndWait sends data and blocks until the server acknowledges with a
// matching ack message or the timeout expires.
func (c *connection) sendAndWait(data []byte, ackFor string, timeout time.Duration) error {
	c.send(data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ack := <-c.ackCh:
			if ack.For == ackFor {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

func (c *connection) connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// close sends a close frame through the write lock and shuts down all
// goroutines.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = c.writeFrame(conn, ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
		return conn.Close()
	}
	return nil
}
