package catalog

import (
	"sync"

	"github.com/google/uuid"
)

// Observable is the read-only side of a State.
type Observable[T any] interface {
	Value() T
	Subscribe() (<-chan T, func())
}

// State holds a single value and pushes every replacement to subscribers.
// A subscriber that falls behind only sees the latest value.
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[uuid.UUID]chan T
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[uuid.UUID]chan T),
	}
}

func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe returns a channel that first yields the current value. The
// returned func unsubscribes and closes the channel; it is safe to call twice.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	id := uuid.New()
	ch := make(chan T, 1)

	s.mu.Lock()
	ch <- s.value
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, ch := range s.subs {
		// conflate: drop whatever the subscriber has not read yet
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

func (s *State[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
