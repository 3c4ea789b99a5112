package component

import (
	"errors"

	"github.com/san-kum/airframe/internal/bus"
)

// fire drops c's cached values and publishes a change of type t. Changes
// of bypassed components and of components outside the rocket's tree are
// not published.
func (c *Component) fire(t bus.ChangeType) {
	c.changed()
	if c.bypass || c.invalid {
		return
	}
	if !c.InTree() {
		return
	}
	if t.Functional() || t.Any(bus.Tree|bus.TreeChildren) {
		c.tree.update()
	}
	c.tree.bus.Fire(bus.Event{Source: c.id, SourceName: c.name0(), Type: t})
}

// changed drops values derived from c's own fields. Fins depend on the
// radius of their body.
func (c *Component) changed() {
	c.props = nil
	c.profile.Invalidate()
	for _, h := range c.children {
		if ch, err := c.tree.Get(h); err == nil && ch.kind == KindFinSet {
			ch.props = nil
		}
	}
}

// Fire publishes a change of c, for callers that edit state the tree does
// not see.
func (c *Component) Fire(t bus.ChangeType) error {
	if err := c.checkState(); err != nil {
		return err
	}
	c.fire(t)
	return nil
}

// Bypass reports whether c's changes are kept off the bus.
func (c *Component) Bypass() bool { return c.bypass }

func (c *Component) SetBypass(on bool) { c.bypass = on }

// AddReplica makes r follow every setter called on c. The replica's own
// events are bypassed while it follows. It reports false for nil, c itself
// or an existing replica.
func (c *Component) AddReplica(r *Component) (bool, error) {
	if c.bypass {
		return false, ErrBypassActive
	}
	if r == nil || r == c {
		return false, nil
	}
	if r.tree != c.tree {
		return false, ErrForeignTree
	}
	if len(r.replicas) > 0 {
		return false, ErrReplicaChain
	}
	for _, h := range c.replicas {
		if h == r.self {
			return false, nil
		}
	}
	c.replicas = append(c.replicas, r.self)
	r.bypass = true
	return true, nil
}

// RemoveReplica stops r from following c.
func (c *Component) RemoveReplica(r *Component) {
	for i, h := range c.replicas {
		if h == r.self {
			c.replicas = append(c.replicas[:i], c.replicas[i+1:]...)
			break
		}
	}
	r.bypass = false
}

// ClearReplicas releases every replica.
func (c *Component) ClearReplicas() {
	for _, r := range c.replicaComponents() {
		r.bypass = false
	}
	c.replicas = nil
}

// Replicas lists the live replicas of c.
func (c *Component) Replicas() []*Component {
	return c.replicaComponents()
}

func (c *Component) replicaComponents() []*Component {
	out := make([]*Component, 0, len(c.replicas))
	for _, h := range c.replicas {
		if r, err := c.tree.Get(h); err == nil {
			out = append(out, r)
		}
	}
	return out
}

// eachReplica applies fn to every replica and joins the errors.
func (c *Component) eachReplica(fn func(*Component) error) error {
	if len(c.replicas) == 0 {
		return nil
	}
	var errs []error
	for _, r := range c.replicaComponents() {
		if err := fn(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
