package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/geom"
)

// AxialMethod is the reference an axial offset is measured from.
type AxialMethod int

const (
	// AxialAbsolute measures from the tip of the vehicle.
	AxialAbsolute AxialMethod = iota
	// AxialAfter places the component right behind the previous active sibling.
	AxialAfter
	// AxialTop aligns the fore ends of component and parent.
	AxialTop
	// AxialMiddle aligns the centers.
	AxialMiddle
	// AxialBottom aligns the aft ends.
	AxialBottom
)

var axialNames = [...]string{"absolute", "after", "top", "middle", "bottom"}

func (m AxialMethod) String() string {
	if m < AxialAbsolute || m > AxialBottom {
		return fmt.Sprintf("AxialMethod(%d)", int(m))
	}
	return axialNames[m]
}

func ParseAxialMethod(s string) (AxialMethod, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range axialNames {
		if n == key {
			return AxialMethod(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown axial method %q", s)
}

// AsPosition converts an offset to the fore end position relative to the
// parent's fore end. For AxialAfter the reference is passed as parentLength.
func (m AxialMethod) AsPosition(offset, length, parentLength float64) float64 {
	switch m {
	case AxialAfter:
		return parentLength + offset
	case AxialMiddle:
		return offset + (parentLength-length)/2
	case AxialBottom:
		return offset + (parentLength - length)
	default:
		return offset
	}
}

// AsOffset is the inverse of AsPosition.
func (m AxialMethod) AsOffset(position, length, parentLength float64) float64 {
	switch m {
	case AxialAfter:
		return position - parentLength
	case AxialMiddle:
		return position + (length-parentLength)/2
	case AxialBottom:
		return position + (length - parentLength)
	default:
		return position
	}
}

func (c *Component) AxialMethod() AxialMethod { return c.axialMethod }

// AxialOffset returns the stored offset in the current method.
func (c *Component) AxialOffset() float64 { return c.axialOffset }

// AxialOffsetAs expresses the current position in another method without
// changing anything.
func (c *Component) AxialOffsetAs(m AxialMethod) float64 {
	switch m {
	case AxialAbsolute:
		return c.Locations()[0].X
	case AxialAfter:
		return c.position.X - c.afterReference()
	}
	return m.AsOffset(c.position.X, c.length, c.parentLength())
}

// Position is the fore end of c relative to its parent's fore end.
func (c *Component) Position() geom.Coordinate {
	return geom.Coordinate{Vec: c.position}
}

// AxialFront is the axial component of Position.
func (c *Component) AxialFront() float64 { return c.position.X }

// parentLength is the length placement is relative to. Children of the
// rocket are placed as if it had no length.
func (c *Component) parentLength() float64 {
	p := c.Parent()
	if p == nil || p.kind == KindRocket {
		return 0
	}
	return p.length
}

// SetAxialMethod changes how the offset is expressed. The physical position
// is kept; only the stored offset is rebased.
func (c *Component) SetAxialMethod(m AxialMethod) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetAxialMethod(m) })
	if m == c.axialMethod {
		return errs
	}
	if err := c.checkState(); err != nil {
		return err
	}
	if c.self == c.tree.root {
		return ErrUnsupported
	}
	c.axialOffset = c.AxialOffsetAs(m)
	c.axialMethod = m
	c.fire(bus.NonFunctional)
	return errs
}

// SetAxialOffset moves c to offset measured in its current method.
func (c *Component) SetAxialOffset(offset float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetAxialOffset(offset) })
	if err := c.checkState(); err != nil {
		return err
	}
	c.place(c.axialMethod, offset)
	c.fire(bus.Both)
	return errs
}

// SetAxial sets method and offset together.
func (c *Component) SetAxial(m AxialMethod, offset float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetAxial(m, offset) })
	if err := c.checkState(); err != nil {
		return err
	}
	c.place(m, offset)
	c.fire(bus.Both)
	return errs
}

// place resolves method and offset into the cached position.
func (c *Component) place(m AxialMethod, offset float64) {
	p := c.Parent()
	var x float64
	switch {
	case p == nil:
		x = offset
	case m == AxialAbsolute:
		x = offset - p.Locations()[0].X
	case m == AxialAfter:
		x = c.afterReference() + offset
	default:
		x = m.AsPosition(offset, c.length, c.parentLength())
	}

	if math.IsNaN(x) {
		invariant("axial position of %s resolved to NaN (method %s, offset %v)", c.DebugName(), m, offset)
	}
	c.axialMethod = m
	c.axialOffset = offset
	c.position.X = geom.Snap(x)
}

// afterReference is the aft end of the closest preceding active sibling,
// or the parent's fore end when there is none.
func (c *Component) afterReference() float64 {
	p := c.Parent()
	if p == nil {
		return 0
	}
	for i := p.ChildIndex(c) - 1; i >= 0; i-- {
		ref := c.tree.at(p.children[i])
		if !ref.Active() {
			continue
		}
		return ref.position.X + ref.length
	}
	return 0
}

// Active reports whether c flies in the selected flight configuration.
func (c *Component) Active() bool {
	st := c.Stage()
	if st == nil {
		return true
	}
	n := st.StageNumber()
	if n < 0 {
		return true
	}
	return c.tree.config.IsStageActive(n)
}

// Update re-resolves c's position from its method and offset.
func (c *Component) Update() {
	c.place(c.axialMethod, c.axialOffset)
}

// update re-resolves every position of the tree, derives assembly lengths
// from their contents and resolves again so that placements measured from
// an assembly's aft end see the new length.
func (t *Tree) update() {
	root := t.Root()
	root.updateChildren()
	root.updateAssemblyLengths()
	root.updateChildren()
}

// Update recomputes all cached positions.
func (t *Tree) Update() { t.update() }

func (c *Component) updateChildren() {
	if !c.parent.IsZero() {
		c.Update()
	}
	for _, h := range c.children {
		c.tree.at(h).updateChildren()
	}
}

func (c *Component) updateAssemblyLengths() {
	for _, h := range c.children {
		c.tree.at(h).updateAssemblyLengths()
	}
	if !c.kind.Assembly() {
		return
	}
	var end float64
	for _, h := range c.children {
		ch := c.tree.at(h)
		end = math.Max(end, ch.position.X+ch.length)
	}
	c.length = end
}
