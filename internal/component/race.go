package component

import (
	"sync"
	"sync/atomic"
)

// raceLock is a detector, not a mutex. Read operations that walk several
// components take it for their duration; mutators verify that nobody holds
// it. A tree has a single writer, so an overlap means another goroutine is
// touching the component.
type raceLock struct {
	enabled bool
	readers atomic.Int32

	mu     sync.Mutex
	labels []string
}

func (l *raceLock) lock(c *Component, label string) func() {
	if !l.enabled {
		return func() {}
	}
	l.readers.Add(1)
	l.mu.Lock()
	l.labels = append(l.labels, label)
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		if n := len(l.labels); n > 0 {
			l.labels = l.labels[:n-1]
		}
		l.mu.Unlock()
		if l.readers.Add(-1) < 0 {
			invariant("unbalanced unlock of %s by %s", c.name0(), label)
		}
	}
}

// verify panics with a RaceError when a read lock is held.
func (l *raceLock) verify(c *Component) {
	if !l.enabled || l.readers.Load() == 0 {
		return
	}
	l.mu.Lock()
	holder := "unknown"
	if n := len(l.labels); n > 0 {
		holder = l.labels[n-1]
	}
	l.mu.Unlock()
	panic(&RaceError{Component: c.name0(), Holder: holder})
}
