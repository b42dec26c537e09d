package events

import "sync"

// Bus is an in-process observer hub for change notifications. Publish
// never blocks: if a subscriber's buffer is full the signal is dropped,
// which is safe because an undelivered signal is always followed by the
// one already sitting in the buffer triggering the same refetch.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Family
	next int
}

type Subscription struct {
	C      <-chan Family
	cancel func()
}

func (s *Subscription) Close() {
	s.cancel()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Family)}
}

func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.next
	b.next++
	ch := make(chan Family, buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	return &Subscription{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
			b.mu.Unlock()
		},
	}
}

func (b *Bus) Publish(f Family) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- f:
		default:
		}
	}
}
