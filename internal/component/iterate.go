package component

import "github.com/google/uuid"

// Iterator walks a subtree in pre-order. It fails with ErrTreeModified
// once any change is fired on the tree under it, structural or not.
type Iterator struct {
	tree  *Tree
	modID uint64
	stack []Handle
	cur   *Component
	err   error
}

// Iterator starts a pre-order walk below c, including c when includeSelf
// is set.
func (c *Component) Iterator(includeSelf bool) *Iterator {
	it := &Iterator{tree: c.tree, modID: c.tree.ModID()}
	if includeSelf {
		it.stack = []Handle{c.self}
	} else {
		it.pushChildren(c)
	}
	return it
}

func (it *Iterator) pushChildren(c *Component) {
	for i := len(c.children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, c.children[i])
	}
}

// Next advances to the next component and reports whether there is one.
func (it *Iterator) Next() bool {
	it.cur = nil
	if it.err != nil {
		return false
	}
	if it.tree.ModID() != it.modID {
		it.err = ErrTreeModified
		return false
	}
	n := len(it.stack)
	if n == 0 {
		return false
	}
	h := it.stack[n-1]
	it.stack = it.stack[:n-1]
	c, err := it.tree.Get(h)
	if err != nil {
		it.err = ErrTreeModified
		return false
	}
	it.pushChildren(c)
	it.cur = c
	return true
}

// Component is the current component.
func (it *Iterator) Component() *Component { return it.cur }

func (it *Iterator) Err() error { return it.err }

// Walk calls fn for c's descendants in pre-order, and for c first when
// includeSelf is set. It stops at the first error from fn, or with
// ErrTreeModified when fn changes the tree.
func (c *Component) Walk(includeSelf bool, fn func(*Component) error) error {
	it := c.Iterator(includeSelf)
	for it.Next() {
		if err := fn(it.Component()); err != nil {
			return err
		}
	}
	return it.Err()
}

// FindComponent searches c's subtree, c included, for id.
func (c *Component) FindComponent(id uuid.UUID) (*Component, bool) {
	defer c.mutex.lock(c, "FindComponent")()
	for _, d := range c.subtree() {
		if d.id == id {
			return d, true
		}
	}
	return nil, false
}
