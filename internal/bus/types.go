package bus

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBusClosed       = errors.New("bus: closed")
	ErrListenerExists  = errors.New("bus: listener already registered")
	ErrListenerMissing = errors.New("bus: listener not found")
	ErrNilListener     = errors.New("bus: nil listener")
	ErrNotFrozen       = errors.New("bus: thaw without matching freeze")
)

// ChangeType is a bitmask of change categories.
type ChangeType uint32

const (
	NonFunctional ChangeType = 1 << iota
	Mass
	Aerodynamic
	Tree
	TreeChildren
	Graphic
	Motor

	Both = Mass | Aerodynamic
)

var changeNames = []struct {
	t    ChangeType
	name string
}{
	{NonFunctional, "nonfunctional"},
	{Mass, "mass"},
	{Aerodynamic, "aerodynamic"},
	{Tree, "tree"},
	{TreeChildren, "tree-children"},
	{Graphic, "graphic"},
	{Motor, "motor"},
}

// Has reports whether every bit of o is set in t.
func (t ChangeType) Has(o ChangeType) bool { return t&o == o && o != 0 }

// Any reports whether t and o share a bit.
func (t ChangeType) Any(o ChangeType) bool { return t&o != 0 }

// Functional reports whether the change affects simulation results.
func (t ChangeType) Functional() bool { return t&^(NonFunctional|Graphic) != 0 }

func (t ChangeType) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	for _, n := range changeNames {
		if t&n.t != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Event describes one change, or the union of a frozen batch of changes.
type Event struct {
	Source     uuid.UUID
	SourceName string
	Type       ChangeType
	ModID      uint64
	// Batched counts the events merged into this one.
	Batched int
}

// Listener receives change events in subscription order.
type Listener interface {
	ComponentChanged(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) ComponentChanged(e Event) { f(e) }

// ListenerStats counts deliveries to a listener.
type ListenerStats struct {
	Delivered uint64
	LastModID uint64
}

// ModIDs are the modification counters kept per change category.
type ModIDs struct {
	Mod        uint64
	Tree       uint64
	Mass       uint64
	Aero       uint64
	Functional uint64
}
