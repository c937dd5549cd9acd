// Package eventbus provides a small in-process publish/subscribe bus
// used to surface planning strategy decisions to observers.
package eventbus

import "sync"

// Bus fans events of type T out to subscribers. Delivery is
// non-blocking: a subscriber that does not drain its channel loses
// events rather than stalling the publisher.
type Bus[T any] struct {
	mu     sync.RWMutex
	next   int
	subs   map[int]chan T
	closed bool
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]chan T)}
}

// Publish sends the event to all current subscribers.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber with the given channel buffer and
// returns its channel together with a cancel function. Cancel is
// idempotent and closes the channel.
func (b *Bus[T]) Subscribe(buf int) (<-chan T, func()) {
	if buf <= 0 {
		buf = 8
	}
	ch := make(chan T, buf)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Close closes all subscriber channels and rejects further publishes.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
