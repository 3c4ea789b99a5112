// Package bus implements the change notification bus owned by a component
// tree root. Listeners are registered by name and called synchronously in
// subscription order. The bus also keeps the modification counters used to
// detect stale traversals and stale cached results.
package bus

import (
	"sync"
	"sync/atomic"
)

type listenerHolder struct {
	id       string
	listener Listener
	stats    *ListenerStats
}

// Bus dispatches change events. It is safe for concurrent use, although a
// component tree is itself single writer.
type Bus struct {
	mu        sync.RWMutex
	listeners []*listenerHolder
	closed    bool

	counter atomic.Uint64
	ids     ModIDs

	frozen  int
	pending *Event
	fired   atomic.Uint64
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers l under id.
func (b *Bus) Subscribe(id string, l Listener) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	if l == nil {
		return ErrNilListener
	}
	for _, h := range b.listeners {
		if h.id == id {
			return ErrListenerExists
		}
	}
	b.listeners = append(b.listeners, &listenerHolder{id: id, listener: l, stats: &ListenerStats{}})
	return nil
}

func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, h := range b.listeners {
		if h.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return nil
		}
	}
	return ErrListenerMissing
}

// Listeners returns the registered ids in delivery order.
func (b *Bus) Listeners() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, len(b.listeners))
	for i, h := range b.listeners {
		ids[i] = h.id
	}
	return ids
}

// Fire bumps the modification counters for e.Type and delivers e, or merges
// it into the pending batch while the bus is frozen.
func (b *Bus) Fire(e Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	e.ModID = b.bump(e.Type)
	if e.Batched == 0 {
		e.Batched = 1
	}
	if b.frozen > 0 {
		if b.pending == nil {
			p := e
			b.pending = &p
		} else {
			b.pending.Type |= e.Type
			b.pending.ModID = e.ModID
			b.pending.Batched += e.Batched
		}
		b.mu.Unlock()
		return
	}
	targets := append([]*listenerHolder(nil), b.listeners...)
	b.mu.Unlock()

	b.deliver(targets, e)
}

func (b *Bus) bump(t ChangeType) uint64 {
	id := b.counter.Add(1)
	b.ids.Mod = id
	if t.Any(Tree | TreeChildren) {
		b.ids.Tree = id
	}
	if t.Any(Mass) {
		b.ids.Mass = id
	}
	if t.Any(Aerodynamic) {
		b.ids.Aero = id
	}
	if t.Functional() {
		b.ids.Functional = id
	}
	return id
}

func (b *Bus) deliver(targets []*listenerHolder, e Event) {
	b.fired.Add(1)
	for _, h := range targets {
		h.listener.ComponentChanged(e)
		atomic.AddUint64(&h.stats.Delivered, 1)
		atomic.StoreUint64(&h.stats.LastModID, e.ModID)
	}
}

// Freeze starts a batch. Freezes nest; events are held until the outermost
// Thaw.
func (b *Bus) Freeze() {
	b.mu.Lock()
	b.frozen++
	b.mu.Unlock()
}

// Thaw ends a batch. At the outermost level the union of all held events is
// delivered as one event.
func (b *Bus) Thaw() error {
	b.mu.Lock()
	if b.frozen == 0 {
		b.mu.Unlock()
		return ErrNotFrozen
	}
	b.frozen--
	if b.frozen > 0 || b.pending == nil || b.closed {
		if b.frozen == 0 {
			b.pending = nil
		}
		b.mu.Unlock()
		return nil
	}
	e := *b.pending
	b.pending = nil
	targets := append([]*listenerHolder(nil), b.listeners...)
	b.mu.Unlock()

	b.deliver(targets, e)
	return nil
}

func (b *Bus) Frozen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frozen > 0
}

// ModIDs returns a copy of the current modification counters.
func (b *Bus) ModIDs() ModIDs {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ids
}

// TreeModID is the counter of the last structural change.
func (b *Bus) TreeModID() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ids.Tree
}

// Delivered is the number of events dispatched to listeners so far.
func (b *Bus) Delivered() uint64 {
	return b.fired.Load()
}

func (b *Bus) Stats(id string) (*ListenerStats, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, h := range b.listeners {
		if h.id == id {
			return &ListenerStats{
				Delivered: atomic.LoadUint64(&h.stats.Delivered),
				LastModID: atomic.LoadUint64(&h.stats.LastModID),
			}, nil
		}
	}
	return nil, ErrListenerMissing
}

// Close drops all listeners. Later events are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	b.listeners = nil
	b.pending = nil
}
