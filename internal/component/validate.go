package component

import (
	"fmt"
	"math"
)

// ValidationError describes one broken invariant found by Validate.
type ValidationError struct {
	Component string
	Message   string
}

func (e ValidationError) Error() string {
	if e.Component == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}

// Validate scans every live component of t: links must resolve and agree
// in both directions, the child graph must be acyclic, children must be
// compatible, override owners must match their resolution and positions
// must be numbers. An empty result means the tree is consistent. Validate
// never mutates the tree.
func (t *Tree) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, t.validateAcyclic()...)
	errs = append(errs, t.validateLinks()...)
	if len(errs) > 0 {
		// Owner resolution walks parent links.
		return errs
	}
	return t.validateOwners()
}

// validateAcyclic runs a DFS with 3-color marking from every live slot.
// Meeting a gray slot means the children links form a cycle.
func (t *Tree) validateAcyclic() []ValidationError {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(t.slots))
	var errs []ValidationError

	var visit func(h Handle) bool
	visit = func(h Handle) bool {
		switch color[h.index] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{Message: fmt.Sprintf("cycle through %v", h)})
			return true
		}
		color[h.index] = gray
		c, err := t.Get(h)
		if err != nil {
			color[h.index] = black
			return false
		}
		for _, ch := range c.children {
			if int(ch.index) < len(t.slots) && visit(ch) {
				return true
			}
		}
		color[h.index] = black
		return false
	}

	for i, s := range t.slots {
		if s.c != nil && color[i] == white {
			if visit(s.c.self) {
				break
			}
		}
	}
	return errs
}

func (t *Tree) validateLinks() []ValidationError {
	var errs []ValidationError
	for _, s := range t.slots {
		c := s.c
		if c == nil {
			continue
		}
		add := func(format string, args ...any) {
			errs = append(errs, ValidationError{Component: c.DebugName(), Message: fmt.Sprintf(format, args...)})
		}
		if c.invalid {
			add("invalidated component still holds a slot")
		}
		if !c.parent.IsZero() {
			p, err := t.Get(c.parent)
			switch {
			case err != nil:
				add("parent %v is stale", c.parent)
			case p.ChildIndex(c) < 0:
				add("parent %s does not list it", p.DebugName())
			case !p.kind.Accepts(c.kind):
				add("%s does not accept %s", p.kind, c.kind)
			}
		}
		for _, h := range c.children {
			ch, err := t.Get(h)
			if err != nil {
				add("child %v is stale", h)
				continue
			}
			if ch.parent != c.self {
				add("child %s points at another parent", ch.DebugName())
			}
		}
		if math.IsNaN(c.position.X) || math.IsNaN(c.length) {
			add("position or length is NaN")
		}
	}
	return errs
}

func (t *Tree) validateOwners() []ValidationError {
	var errs []ValidationError
	for _, s := range t.slots {
		c := s.c
		if c == nil {
			continue
		}
		for _, q := range quantities {
			if got, want := c.ov(q).owner, c.resolveOwner(q); got != want {
				errs = append(errs, ValidationError{
					Component: c.DebugName(),
					Message:   fmt.Sprintf("%s owner is %v, resolves to %v", q, got, want),
				})
			}
		}
	}
	return errs
}
