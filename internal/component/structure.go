package component

import (
	"github.com/san-kum/airframe/internal/bus"
)

// Parent returns the parent component, or nil for a root or detached component.
func (c *Component) Parent() *Component {
	if c.parent.IsZero() {
		return nil
	}
	return c.tree.at(c.parent)
}

func (c *Component) ChildCount() int {
	return len(c.children)
}

// Child returns the child at index n.
func (c *Component) Child(n int) (*Component, error) {
	if n < 0 || n >= len(c.children) {
		return nil, ErrIndexRange
	}
	return c.tree.at(c.children[n]), nil
}

// Children returns the direct children in order.
func (c *Component) Children() []*Component {
	out := make([]*Component, len(c.children))
	for i, h := range c.children {
		out[i] = c.tree.at(h)
	}
	return out
}

// ChildIndex returns the position of child among c's children, or -1.
func (c *Component) ChildIndex(child *Component) int {
	for i, h := range c.children {
		if h == child.self {
			return i
		}
	}
	return -1
}

// Root walks the parent chain to the top.
func (c *Component) Root() *Component {
	r := c
	for !r.parent.IsZero() {
		r = r.tree.at(r.parent)
	}
	return r
}

// InTree reports whether c hangs below the tree's rocket.
func (c *Component) InTree() bool {
	return c.Root().self == c.tree.root
}

// Parents lists the ancestors from the parent up to the root.
func (c *Component) Parents() []*Component {
	var out []*Component
	for p := c.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// IsAncestorOf reports whether c lies on other's parent chain.
func (c *Component) IsAncestorOf(other *Component) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == c {
			return true
		}
	}
	return false
}

// Stage returns the stage c belongs to, c itself for a stage, or nil.
func (c *Component) Stage() *Component {
	for p := c; p != nil; p = p.Parent() {
		if p.kind == KindStage {
			return p
		}
	}
	return nil
}

// StageNumber is the pre-order position of c's stage among the stages of
// the tree, or -1 when c is not inside a stage.
func (c *Component) StageNumber() int {
	st := c.Stage()
	if st == nil || !st.InTree() {
		return -1
	}
	n := 0
	for _, d := range c.tree.Root().subtree() {
		if d == st {
			return n
		}
		if d.kind == KindStage {
			n++
		}
	}
	return -1
}

// Stages lists the stages of the tree in pre-order.
func (t *Tree) Stages() []*Component {
	var out []*Component
	for _, d := range t.Root().subtree() {
		if d.kind == KindStage {
			out = append(out, d)
		}
	}
	return out
}

// AddChild attaches child at the end of c's children.
func (c *Component) AddChild(child *Component) error {
	return c.Attach(child, len(c.children))
}

// Attach inserts child at index. The child must be parentless, must not be
// an ancestor of c and must be of a kind c accepts.
func (c *Component) Attach(child *Component, index int) error {
	if err := c.checkState(); err != nil {
		return err
	}
	if err := child.checkState(); err != nil {
		return err
	}
	fail := func(err error) error {
		return &StructureError{Op: "attach", Parent: c.DebugName(), Child: child.DebugName(), Err: err}
	}
	switch {
	case child.tree != c.tree:
		return fail(ErrForeignTree)
	case !child.parent.IsZero():
		return fail(ErrHasParent)
	case child == c || child.IsAncestorOf(c) || child.self == c.tree.root:
		return fail(ErrCycle)
	case !c.kind.Accepts(child.kind):
		return fail(ErrIncompatible)
	case index < 0 || index > len(c.children):
		return fail(ErrIndexRange)
	}

	c.children = append(c.children, Handle{})
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child.self
	child.parent = c.self

	c.checkStructure()
	child.checkStructure()

	for _, q := range quantities {
		child.refreshOwners(q, true)
	}

	c.tree.log.Debug("attach", "parent", c.DebugName(), "child", child.DebugName(), "index", index)
	c.fire(addRemoveMask(child))
	return nil
}

// RemoveChild detaches child from c. It reports false without error when
// child is not one of c's children.
func (c *Component) RemoveChild(child *Component) (bool, error) {
	if err := c.checkState(); err != nil {
		return false, err
	}
	idx := c.ChildIndex(child)
	if idx < 0 {
		return false, nil
	}
	return true, c.removeAt(idx)
}

// RemoveChildAt detaches the child at index.
func (c *Component) RemoveChildAt(index int) (*Component, error) {
	if err := c.checkState(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.children) {
		return nil, ErrIndexRange
	}
	child := c.tree.at(c.children[index])
	return child, c.removeAt(index)
}

// Detach removes c from its parent. It reports false when c has no parent.
func (c *Component) Detach() (bool, error) {
	p := c.Parent()
	if p == nil {
		return false, nil
	}
	return p.RemoveChild(c)
}

func (c *Component) removeAt(idx int) error {
	child := c.tree.at(c.children[idx])
	c.children = append(c.children[:idx], c.children[idx+1:]...)
	child.parent = Handle{}

	// Owners inside the detached subtree now resolve within it only, which
	// clears every pointer to c or to c's own owner.
	for _, q := range quantities {
		child.refreshOwners(q, true)
	}

	c.checkStructure()
	child.checkStructure()

	c.tree.log.Debug("detach", "parent", c.DebugName(), "child", child.DebugName(), "index", idx)
	c.fire(addRemoveMask(child))
	return nil
}

// Move reorders child within c's children. Ownership is left untouched.
func (c *Component) Move(child *Component, index int) error {
	if err := c.checkState(); err != nil {
		return err
	}
	from := c.ChildIndex(child)
	if from < 0 {
		return &StructureError{Op: "move", Parent: c.DebugName(), Child: child.DebugName(), Err: ErrNotChild}
	}
	if index < 0 || index >= len(c.children) {
		return &StructureError{Op: "move", Parent: c.DebugName(), Child: child.DebugName(), Err: ErrIndexRange}
	}
	if from == index {
		return nil
	}
	h := c.children[from]
	c.children = append(c.children[:from], c.children[from+1:]...)
	c.children = append(c.children, Handle{})
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = h

	c.checkStructure()
	c.tree.log.Debug("move", "parent", c.DebugName(), "child", child.DebugName(), "from", from, "to", index)
	c.fire(addRemoveMask(child))
	return nil
}

// addRemoveMask is the event mask of adding or removing the subtree at c.
func addRemoveMask(c *Component) bus.ChangeType {
	t := bus.Tree
	for _, d := range c.subtree() {
		if d.kind.Aerodynamic() {
			t |= bus.Aerodynamic
		}
		if d.kind.Massive() {
			t |= bus.Mass
		}
	}
	return t
}

// checkStructure asserts that c is among its parent's children and that
// every child points back at c.
func (c *Component) checkStructure() {
	if !c.parent.IsZero() {
		p := c.tree.at(c.parent)
		if p.ChildIndex(c) < 0 {
			invariant("parent %s does not list child %s", p.DebugName(), c.DebugName())
		}
	}
	for _, h := range c.children {
		ch := c.tree.at(h)
		if ch.parent != c.self {
			invariant("child %s does not point back at %s", ch.DebugName(), c.DebugName())
		}
	}
}

// Next returns the component after c in pre-order, or nil.
func (c *Component) Next() *Component {
	if len(c.children) > 0 {
		return c.tree.at(c.children[0])
	}
	cur := c
	for p := c.Parent(); p != nil; p = p.Parent() {
		pos := p.ChildIndex(cur)
		if pos < len(p.children)-1 {
			return p.tree.at(p.children[pos+1])
		}
		cur = p
	}
	return nil
}

// Previous returns the component before c in pre-order, or nil.
func (c *Component) Previous() *Component {
	p := c.Parent()
	if p == nil {
		return nil
	}
	pos := p.ChildIndex(c)
	if pos < 0 {
		invariant("parent %s does not list child %s", p.DebugName(), c.DebugName())
	}
	if pos == 0 {
		return p
	}
	prev := p.tree.at(p.children[pos-1])
	for len(prev.children) > 0 {
		prev = prev.tree.at(prev.children[len(prev.children)-1])
	}
	return prev
}

// Descendants returns every component below c in pre-order.
func (c *Component) Descendants() []*Component { return c.subtree()[1:] }

// subtree returns c and its descendants in pre-order.
func (c *Component) subtree() []*Component {
	var out []*Component
	var walk func(n *Component)
	walk = func(n *Component) {
		out = append(out, n)
		for _, h := range n.children {
			walk(n.tree.at(h))
		}
	}
	walk(c)
	return out
}
