package component

import (
	"github.com/google/uuid"

	"github.com/san-kum/airframe/internal/bus"
)

// CopyWithOriginalID makes a detached deep copy of c's subtree in the same
// tree. Identities are kept, which makes the copy suitable for undo
// snapshots only. No events are fired.
func (c *Component) CopyWithOriginalID() *Component {
	defer c.mutex.lock(c, "CopyWithOriginalID")()
	cp := c.clone()
	for _, q := range quantities {
		cp.refreshOwners(q, true)
	}
	return cp
}

// Copy makes a detached deep copy of c's subtree with fresh identities.
func (c *Component) Copy() *Component {
	cp := c.CopyWithOriginalID()
	for _, d := range cp.subtree() {
		d.id = uuid.New()
	}
	return cp
}

// clone duplicates c and its descendants into new slots.
func (c *Component) clone() *Component {
	cp := c.duplicate()
	cp.self = c.tree.alloc(cp)
	for _, ch := range c.Children() {
		chCopy := ch.clone()
		chCopy.parent = cp.self
		cp.children = append(cp.children, chCopy.self)
	}
	c.checkStructure()
	cp.checkStructure()
	return cp
}

// duplicate copies the fields of c without any links.
func (c *Component) duplicate() *Component {
	cp := new(Component)
	*cp = *c
	cp.self = Handle{}
	cp.parent = Handle{}
	cp.children = nil
	cp.replicas = nil
	cp.bypass = false
	cp.invalid = false
	cp.props = nil
	cp.mutex = &raceLock{enabled: c.tree.raceDetection}
	cp.profile.Invalidate()
	return cp
}

// ReplaceFrom turns the parentless component c into src: c takes src's
// fields and identity and a copy of src's children. The previous
// descendants of c and the whole src subtree are invalidated.
func (c *Component) ReplaceFrom(src *Component) error {
	if err := c.checkState(); err != nil {
		return err
	}
	if err := src.checkState(); err != nil {
		return err
	}
	fail := func(err error) error {
		return &StructureError{Op: "replace", Parent: c.DebugName(), Child: src.DebugName(), Err: err}
	}
	switch {
	case src.tree != c.tree:
		return fail(ErrForeignTree)
	case !c.parent.IsZero():
		return fail(ErrNotRoot)
	case !src.parent.IsZero():
		return fail(ErrHasParent)
	case src == c || c.IsAncestorOf(src):
		return fail(ErrCycle)
	case src.kind != c.kind:
		return fail(ErrIncompatible)
	}

	stale := c.subtree()[1:]
	copies := make([]*Component, 0, len(src.children))
	for _, ch := range src.Children() {
		copies = append(copies, ch.clone())
	}
	for _, d := range stale {
		c.tree.release(d)
	}

	self, mutex := c.self, c.mutex
	*c = *src
	c.self = self
	c.mutex = mutex
	c.parent = Handle{}
	c.children = nil
	c.replicas = nil
	c.bypass = false
	c.invalid = false
	c.props = nil
	c.profile.Invalidate()
	for _, cp := range copies {
		cp.parent = c.self
		c.children = append(c.children, cp.self)
	}
	for _, d := range src.subtree() {
		c.tree.release(d)
	}
	for _, q := range quantities {
		c.refreshOwners(q, true)
	}
	c.checkStructure()

	c.tree.log.Debug("replace", "component", c.DebugName(), "children", len(copies))
	c.fire(bus.Both | bus.Tree)
	return nil
}
