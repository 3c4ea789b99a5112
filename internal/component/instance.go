package component

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/geom"
)

// ErrNoDestination indicates a relative conversion without a target.
var ErrNoDestination = errors.New("component: no destination component")

// InstanceCount is the number of physical copies c stands for.
func (c *Component) InstanceCount() int { return c.instanceCount }

// SetInstanceCount changes the number of copies of an instanced kind.
// Other kinds keep a single instance.
func (c *Component) SetInstanceCount(n int) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetInstanceCount(n) })
	if err := c.checkState(); err != nil {
		return err
	}
	if !c.kind.Instanced() {
		c.tree.log.Warn("instance count not supported", "component", c.DebugName(), "count", n)
		return ErrUnsupported
	}
	if n < 1 {
		n = 1
	}
	if n == c.instanceCount {
		return errs
	}
	c.instanceCount = n
	c.fire(bus.Both)
	return errs
}

func (c *Component) RadialOffset() float64 { return c.radialOffset }

// SetRadialOffset sets the distance of the instances from the axis.
func (c *Component) SetRadialOffset(r float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetRadialOffset(r) })
	if err := c.checkState(); err != nil {
		return err
	}
	if !c.kind.Instanced() || c.kind == KindFinSet {
		return ErrUnsupported
	}
	r = math.Max(r, 0)
	if geom.Equals(r, c.radialOffset) {
		return errs
	}
	c.radialOffset = r
	c.fire(bus.Both)
	return errs
}

func (c *Component) AngleOffset() float64 { return c.angleOffset }

// SetAngleOffset rotates the instance pattern about the axis.
func (c *Component) SetAngleOffset(a float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetAngleOffset(a) })
	if err := c.checkState(); err != nil {
		return err
	}
	if !c.kind.Instanced() {
		return ErrUnsupported
	}
	if geom.Equals(a, c.angleOffset) {
		return errs
	}
	c.angleOffset = a
	c.fire(bus.Both)
	return errs
}

// instanceAngle is the roll angle of instance i of an evenly spread pattern.
func (c *Component) instanceAngle(i int) float64 {
	return c.angleOffset + 2*math.Pi*float64(i)/float64(c.instanceCount)
}

// InstanceOffsets are the instance positions relative to c's position.
func (c *Component) InstanceOffsets() []r3.Vec {
	out := make([]r3.Vec, c.instanceCount)
	switch c.kind {
	case KindInnerTube, KindPodSet:
		for i := range out {
			a := c.instanceAngle(i)
			out[i] = r3.Vec{Y: c.radialOffset * math.Cos(a), Z: c.radialOffset * math.Sin(a)}
		}
	}
	return out
}

// InstanceAngles are the per instance rotations; X is the roll about the
// vehicle axis.
func (c *Component) InstanceAngles() []r3.Vec {
	out := make([]r3.Vec, c.instanceCount)
	switch c.kind {
	case KindFinSet, KindPodSet:
		for i := range out {
			out[i] = r3.Vec{X: c.instanceAngle(i)}
		}
	}
	return out
}

// InstanceLocations are the instance positions in the parent's frame.
func (c *Component) InstanceLocations() []r3.Vec {
	offs := c.InstanceOffsets()
	for i := range offs {
		offs[i] = r3.Add(offs[i], c.position)
	}
	return offs
}

// Locations are the absolute positions of every instance of c, one per
// combination of parent instance and own instance. The entry for parent
// instance p and own instance i sits at p + P*i.
func (c *Component) Locations() []r3.Vec {
	p := c.Parent()
	if p == nil {
		return c.InstanceOffsets()
	}
	parentLocs := p.Locations()
	parentAngles := p.Angles()
	inst := c.InstanceLocations()

	if len(parentLocs) == 1 && len(inst) == 1 {
		return []r3.Vec{r3.Add(parentLocs[0], geom.RotateX(parentAngles[0].X, inst[0]))}
	}

	n := len(parentLocs)
	out := make([]r3.Vec, n*len(inst))
	for pi := range parentLocs {
		for ii := range inst {
			out[pi+n*ii] = r3.Add(parentLocs[pi], geom.RotateX(parentAngles[pi].X, inst[ii]))
		}
	}
	return out
}

// Angles are the absolute rotations of every instance, ordered like
// Locations.
func (c *Component) Angles() []r3.Vec {
	p := c.Parent()
	own := c.InstanceAngles()
	if p == nil {
		return own
	}
	parentAngles := p.Angles()
	n := len(parentAngles)
	out := make([]r3.Vec, n*len(own))
	for pi := range parentAngles {
		for ii := range own {
			out[pi+n*ii] = geom.AddAngles(parentAngles[pi], own[ii])
		}
	}
	return out
}

// ToAbsolute maps a point given in c's frame to the absolute frame, once
// per instance.
func (c *Component) ToAbsolute(v r3.Vec) []r3.Vec {
	defer c.mutex.lock(c, "ToAbsolute")()
	locs := c.Locations()
	for i := range locs {
		locs[i] = r3.Add(locs[i], v)
	}
	return locs
}

// ToRelative maps a point in c's frame into dest's frame. The result has
// one entry per pair of own and destination instances; the pair (i, j)
// sits at i*len(dest)+j.
func (c *Component) ToRelative(v r3.Vec, dest *Component) ([]r3.Vec, error) {
	if dest == nil {
		return nil, ErrNoDestination
	}
	if dest.tree != c.tree {
		return nil, ErrForeignTree
	}
	defer c.mutex.lock(c, "ToRelative")()
	own := c.Locations()
	other := dest.Locations()
	out := make([]r3.Vec, 0, len(own)*len(other))
	for _, o := range own {
		base := r3.Add(o, v)
		for _, d := range other {
			out = append(out, r3.Sub(base, d))
		}
	}
	return out, nil
}

// SplitInstances replaces a multi-instance component with single-instance
// copies at the same place in the tree. Each copy gets its share of the
// override mass and its own angle. Replicas of the same kind are split too.
func (c *Component) SplitInstances() ([]*Component, error) {
	if err := c.checkState(); err != nil {
		return nil, err
	}
	p := c.Parent()
	if p == nil {
		return nil, ErrUnsupported
	}
	n := c.instanceCount
	if n <= 1 {
		return []*Component{c}, nil
	}

	var parts []*Component
	err := c.tree.Batch(func() error {
		idx := p.ChildIndex(c)
		if err := p.removeAt(idx); err != nil {
			return err
		}
		share := c.OverrideMass() / float64(n)
		for i := 0; i < n; i++ {
			cp := c.Copy()
			cp.instanceCount = 1
			cp.angleOffset = c.angleOffset + 2*math.Pi*float64(i)/float64(n)
			cp.name = fmt.Sprintf("%s #%d", c.Name(), i+1)
			cp.mass.value = share
			if err := p.Attach(cp, idx+i); err != nil {
				return err
			}
			parts = append(parts, cp)
		}
		for _, r := range c.replicaComponents() {
			if r.kind != c.kind {
				continue
			}
			if _, err := r.SplitInstances(); err != nil {
				return err
			}
			c.RemoveReplica(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.fire(bus.Tree)
	return parts, nil
}
