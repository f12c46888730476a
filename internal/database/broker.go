package database

import "sync"

// A Broker fans item change notifications out to live queries.
// Notifications are per scope (the owning user id) and carry no payload:
// a woken subscriber re-reads the full result set, matching the
// snapshot-not-delta contract of the stream endpoint.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewBroker returns a new Broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe registers a subscriber on the given scope.
// The returned channel coalesces bursts: a notification arriving while a
// previous one is still pending is dropped, the subscriber will re-read
// anyway. The cancel function is idempotent.
func (b *Broker) Subscribe(scope string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[scope] == nil {
		b.subs[scope] = make(map[chan struct{}]struct{})
	}
	b.subs[scope][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[scope], ch)
			if len(b.subs[scope]) == 0 {
				delete(b.subs, scope)
			}
			b.mu.Unlock()
		})
	}

	return ch, cancel
}

// Notify wakes all the subscribers of the given scope.
func (b *Broker) Notify(scope string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[scope] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
