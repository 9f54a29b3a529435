// Package scene stores overlay primitives in generation-checked pools and
// threads them into null-terminated chains by handle.
package scene

import "errors"

// ErrStaleHandle is returned when a handle refers to a freed or reused slot.
var ErrStaleHandle = errors.New("stale scene handle")

// Handle addresses a pool slot. The zero Handle is Nil.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil terminates every chain.
var Nil Handle

// IsNil reports whether h is the Nil handle.
func (h Handle) IsNil() bool { return h.gen == 0 }

type slot[T any] struct {
	gen        uint32
	used       bool
	prev, next Handle
	val        T
}

// Pool is a slab of T with stable handles and intrusive prev/next links.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Alloc stores v in a free slot. The returned handle is unlinked.
func (p *Pool[T]) Alloc(v T) Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, slot[T]{})
		idx = uint32(len(p.slots) - 1)
	}
	s := &p.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.used = true
	s.prev, s.next = Nil, Nil
	s.val = v
	p.live++
	return Handle{index: idx, gen: s.gen}
}

func (p *Pool[T]) slot(h Handle) *slot[T] {
	if h.IsNil() || int(h.index) >= len(p.slots) {
		return nil
	}
	s := &p.slots[h.index]
	if !s.used || s.gen != h.gen {
		return nil
	}
	return s
}

// Valid reports whether h refers to a live slot.
func (p *Pool[T]) Valid(h Handle) bool {
	return p.slot(h) != nil
}

// Get returns the value behind h, or nil when h is stale.
func (p *Pool[T]) Get(h Handle) *T {
	if s := p.slot(h); s != nil {
		return &s.val
	}
	return nil
}

// Free releases h. The slot must already be unlinked from any chain.
func (p *Pool[T]) Free(h Handle) error {
	s := p.slot(h)
	if s == nil {
		return ErrStaleHandle
	}
	var zero T
	s.used = false
	s.val = zero
	s.prev, s.next = Nil, Nil
	p.free = append(p.free, h.index)
	p.live--
	return nil
}

// Len is the number of live slots.
func (p *Pool[T]) Len() int { return p.live }

// Next returns the handle linked after h.
func (p *Pool[T]) Next(h Handle) Handle {
	if s := p.slot(h); s != nil {
		return s.next
	}
	return Nil
}

// Prev returns the handle linked before h.
func (p *Pool[T]) Prev(h Handle) Handle {
	if s := p.slot(h); s != nil {
		return s.prev
	}
	return Nil
}

// SetNext overwrites the forward link of h. Used to splice one chain onto
// another.
func (p *Pool[T]) SetNext(h, next Handle) error {
	s := p.slot(h)
	if s == nil {
		return ErrStaleHandle
	}
	s.next = next
	return nil
}

// Chain is a doubly linked list threaded through a pool.
type Chain struct {
	Head Handle
	Tail Handle
	n    int
}

// Len is the number of members.
func (c *Chain) Len() int { return c.n }

// Empty reports whether the chain has no members.
func (c *Chain) Empty() bool { return c.Head.IsNil() }

// PushFront links h at the head of c.
func (p *Pool[T]) PushFront(c *Chain, h Handle) error {
	s := p.slot(h)
	if s == nil {
		return ErrStaleHandle
	}
	s.prev = Nil
	s.next = c.Head
	if head := p.slot(c.Head); head != nil {
		head.prev = h
	} else {
		c.Tail = h
	}
	c.Head = h
	c.n++
	return nil
}

// Unlink removes h from c, patching both neighbours. Unlinking a handle
// that is not a member of c is a no-op.
func (p *Pool[T]) Unlink(c *Chain, h Handle) error {
	s := p.slot(h)
	if s == nil {
		return ErrStaleHandle
	}
	if s.prev.IsNil() && s.next.IsNil() && c.Head != h {
		return nil
	}
	if prev := p.slot(s.prev); prev != nil {
		prev.next = s.next
	} else if c.Head == h {
		c.Head = s.next
	}
	if next := p.slot(s.next); next != nil && c.Tail != h {
		next.prev = s.prev
	}
	if c.Tail == h {
		c.Tail = s.prev
		if t := p.slot(c.Tail); t != nil {
			t.next = Nil
		}
	}
	s.prev, s.next = Nil, Nil
	c.n--
	return nil
}

// Walk visits every handle reachable from head. It stops when fn returns
// false, at Nil, or after visiting every live slot once.
func (p *Pool[T]) Walk(head Handle, fn func(Handle, *T) bool) {
	limit := p.live
	for h, steps := head, 0; !h.IsNil() && steps <= limit; steps++ {
		s := p.slot(h)
		if s == nil {
			return
		}
		next := s.next
		if !fn(h, &s.val) {
			return
		}
		h = next
	}
}
