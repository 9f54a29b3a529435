package queue

import (
	"sync"
	"testing"
)

type note struct {
	ID   int
	Name string
}

func TestQueue_PushDrain(t *testing.T) {
	q := New[note]()
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", q.Len())
	}

	q.Push(note{ID: 1, Name: "a_rat"})
	q.Push(note{ID: 2}, note{ID: 3})
	if q.Len() != 3 {
		t.Errorf("expected length 3, got %d", q.Len())
	}

	got := q.Drain()
	if len(got) != 3 || got[0].ID != 1 || got[2].ID != 3 {
		t.Errorf("unexpected drain order: %+v", got)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.Len())
	}
	if more := q.Drain(); len(more) != 0 {
		t.Errorf("expected nothing left, got %+v", more)
	}
}

func TestQueue_DrainIsolated(t *testing.T) {
	q := New[note]()
	q.Push(note{ID: 1})
	got := q.Drain()
	q.Push(note{ID: 2})

	if got[0].ID != 1 {
		t.Errorf("drained slice was overwritten: %+v", got)
	}
}

func TestQueue_Clear(t *testing.T) {
	q := New[note]()
	q.Push(note{ID: 1}, note{ID: 2})
	q.Clear()
	if q.Len() != 0 {
		t.Errorf("expected empty queue after clear, got %d", q.Len())
	}
}

func TestQueue_Bounded(t *testing.T) {
	q := NewBounded[note](2)
	q.Push(note{ID: 1}, note{ID: 2}, note{ID: 3})
	q.Push(note{ID: 4})

	got := q.Drain()
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 4 {
		t.Errorf("expected the two newest items, got %+v", got)
	}
	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", q.Dropped())
	}
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[note]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(note{ID: id*100 + j})
			}
		}(i)
	}
	wg.Wait()

	if q.Len() != 1000 {
		t.Errorf("expected 1000 items, got %d", q.Len())
	}
}
