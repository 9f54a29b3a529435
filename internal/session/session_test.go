package session

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, "No zone loaded", c.Zone())
	assert.Equal(t, "Not in game", c.Character())
}

func TestContext_EnterLeave(t *testing.T) {
	c := New()

	assert.True(t, c.Enter("Qeynos Hills", "Me"))
	assert.False(t, c.Enter("Qeynos Hills", "Me"))
	assert.Equal(t, "Qeynos Hills", c.Zone())
	assert.Equal(t, "Me", c.Character())

	c.Leave()
	assert.Equal(t, "No zone loaded", c.Zone())
	assert.Equal(t, "Not in game", c.Character())
}

func TestContext_Attrs(t *testing.T) {
	c := New()
	c.Enter("Blackburrow", "Me")
	c.SetFrame(43)

	want := []slog.Attr{
		slog.String("zone", "Blackburrow"),
		slog.String("character", "Me"),
		slog.Uint64("frame", 43),
	}
	got := c.Attrs()
	if assert.Len(t, got, len(want)) {
		for i := range want {
			assert.True(t, want[i].Equal(got[i]), "attr %d: got %v", i, got[i])
		}
	}
}

func TestContext_ThreadSafe(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Enter("Zone", "Me")
			c.SetFrame(uint64(n))
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Attrs()
		}()
	}
	wg.Wait()
	assert.Equal(t, "Zone", c.Zone())
}
