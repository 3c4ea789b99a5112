package component

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/san-kum/airframe/internal/aero"
	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/flight"
)

// DefaultMach is the Mach number used for native drag coefficients unless
// the tree is configured otherwise.
const DefaultMach = 0.3

// Handle addresses a component slot in a tree's arena. A handle goes stale
// when the slot is released; the generation check detects reuse.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d#%d)", h.index, h.gen)
}

type slot struct {
	gen uint32
	c   *Component
}

// Tree is an arena of components rooted at a rocket. It owns the change bus,
// the selected flight configuration and the aerodynamic solver used for
// native drag values. A tree is single writer.
type Tree struct {
	slots []slot
	free  []uint32
	root  Handle

	bus    *bus.Bus
	log    *slog.Logger
	solver aero.Solver
	config *flight.Configuration

	defaultMach   float64
	raceDetection bool
}

// Option configures a Tree.
type Option func(*Tree)

func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) { t.log = l }
}

// WithSolver sets the solver for native drag coefficients.
func WithSolver(s aero.Solver) Option {
	return func(t *Tree) { t.solver = s }
}

func WithConfiguration(c *flight.Configuration) Option {
	return func(t *Tree) { t.config = c }
}

func WithDefaultMach(m float64) Option {
	return func(t *Tree) { t.defaultMach = m }
}

// WithRaceDetection enables the per component lock tokens that panic on
// overlapping read and write access.
func WithRaceDetection(on bool) Option {
	return func(t *Tree) { t.raceDetection = on }
}

// New creates a tree with a fresh rocket root. A nil bus gets a private one.
func New(b *bus.Bus, opts ...Option) *Tree {
	if b == nil {
		b = bus.New()
	}
	t := &Tree{
		bus:           b,
		log:           slog.Default(),
		solver:        aero.NewFrictionSolver(aero.StandardAtmosphere),
		config:        flight.NewConfiguration("default"),
		defaultMach:   DefaultMach,
		raceDetection: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.Create(KindRocket).self
	return t
}

// Root returns the rocket at the top of the tree.
func (t *Tree) Root() *Component {
	return t.slots[t.root.index].c
}

func (t *Tree) Bus() *bus.Bus { return t.bus }

func (t *Tree) Configuration() *flight.Configuration { return t.config }

// SetConfiguration selects the flight configuration and recomputes positions
// since "after" placement skips inactive stages.
func (t *Tree) SetConfiguration(c *flight.Configuration) {
	t.config = c
	t.Root().fire(bus.Both | bus.Tree)
}

func (t *Tree) DefaultMach() float64 { return t.defaultMach }

// Len is the number of live components, attached or not.
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}

// Create allocates a detached component of the given kind with default
// geometry and a fresh identity.
func (t *Tree) Create(kind Kind) *Component {
	if !kind.valid() {
		invariant("create with invalid kind %d", int(kind))
	}
	c := newComponent(t, kind)
	c.self = t.alloc(c)
	return c
}

func (t *Tree) alloc(c *Component) Handle {
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		s := &t.slots[idx]
		s.c = c
		return Handle{index: idx, gen: s.gen}
	}
	t.slots = append(t.slots, slot{gen: 1, c: c})
	return Handle{index: uint32(len(t.slots) - 1), gen: 1}
}

// release frees the slot of c and marks c invalid.
func (t *Tree) release(c *Component) {
	h := c.self
	s := &t.slots[h.index]
	if s.gen != h.gen {
		return
	}
	s.gen++
	s.c = nil
	t.free = append(t.free, h.index)
	c.invalid = true
}

// Get resolves a handle.
func (t *Tree) Get(h Handle) (*Component, error) {
	if h.IsZero() || int(h.index) >= len(t.slots) {
		return nil, ErrStaleHandle
	}
	s := t.slots[h.index]
	if s.gen != h.gen || s.c == nil {
		return nil, ErrStaleHandle
	}
	return s.c, nil
}

// at resolves a handle the tree itself stored; a stale one is corruption.
func (t *Tree) at(h Handle) *Component {
	c, err := t.Get(h)
	if err != nil {
		invariant("dangling link %v", h)
	}
	return c
}

// Delete releases a parentless component and its whole subtree. Every
// handle and pointer to them becomes stale.
func (t *Tree) Delete(c *Component) error {
	if err := c.checkState(); err != nil {
		return err
	}
	if c.tree != t {
		return ErrForeignTree
	}
	if !c.parent.IsZero() || c.self == t.root {
		return ErrNotRoot
	}
	for _, d := range c.subtree() {
		t.release(d)
	}
	return nil
}

// FindByID searches the whole tree, detached components included.
func (t *Tree) FindByID(id uuid.UUID) (*Component, bool) {
	for _, s := range t.slots {
		if s.c != nil && s.c.id == id {
			return s.c, true
		}
	}
	return nil, false
}

// Subscribe registers a change listener on the tree's bus.
func (t *Tree) Subscribe(id string, l bus.Listener) error {
	return t.bus.Subscribe(id, l)
}

func (t *Tree) Unsubscribe(id string) error {
	return t.bus.Unsubscribe(id)
}

// Freeze holds change events until the matching Thaw.
func (t *Tree) Freeze() { t.bus.Freeze() }

// Thaw releases held events as one combined event.
func (t *Tree) Thaw() error { return t.bus.Thaw() }

// Batch runs fn with events frozen. The combined event is delivered when fn
// returns, also when it fails or panics.
func (t *Tree) Batch(fn func() error) error {
	t.bus.Freeze()
	defer func() { _ = t.bus.Thaw() }()
	return fn()
}

// TreeModID is the modification counter of the last structural change.
func (t *Tree) TreeModID() uint64 { return t.bus.TreeModID() }

// ModID is the counter of the last event fired on the tree. Traversals
// fail once it moves.
func (t *Tree) ModID() uint64 { return t.bus.ModIDs().Mod }
