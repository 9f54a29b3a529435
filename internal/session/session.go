// Package session tracks who is playing where, for log context.
package session

import (
	"log/slog"
	"sync"
)

const (
	noZone      = "No zone loaded"
	noCharacter = "Not in game"
)

// Context holds the current zone, character and frame number.
type Context struct {
	mu        sync.RWMutex
	zone      string
	character string
	frame     uint64
}

// New returns a Context for a client that is not yet in game.
func New() *Context {
	return &Context{zone: noZone, character: noCharacter}
}

// Zone returns the current zone name.
func (c *Context) Zone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.zone
}

// Character returns the local player's name.
func (c *Context) Character() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.character
}

// Enter records a zone change. Empty values reset to the placeholders.
func (c *Context) Enter(zone, character string) (changed bool) {
	if zone == "" {
		zone = noZone
	}
	if character == "" {
		character = noCharacter
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	changed = zone != c.zone || character != c.character
	c.zone, c.character = zone, character
	return changed
}

// Leave resets the context after the client leaves the game.
func (c *Context) Leave() {
	c.Enter("", "")
}

// SetFrame records the last completed frame.
func (c *Context) SetFrame(n uint64) {
	c.mu.Lock()
	c.frame = n
	c.mu.Unlock()
}

// Attrs returns the log attributes for the current session. It satisfies
// logging.ContextProvider.
func (c *Context) Attrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return []slog.Attr{
		slog.String("zone", c.zone),
		slog.String("character", c.character),
		slog.Uint64("frame", c.frame),
	}
}
