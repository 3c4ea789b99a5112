package component

import (
	"fmt"
	"math"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/geom"
)

// Quantity selects one of the overridable physical quantities.
type Quantity int

const (
	Mass Quantity = iota
	CG
	CD
)

var quantities = [...]Quantity{Mass, CG, CD}

func (q Quantity) String() string {
	switch q {
	case Mass:
		return "mass"
	case CG:
		return "cg"
	case CD:
		return "cd"
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// event is the change category of a quantity.
func (q Quantity) event() bus.ChangeType {
	if q == CD {
		return bus.Aerodynamic
	}
	return bus.Mass
}

// override is the user supplied replacement of one quantity. owner caches
// the nearest ancestor whose subtree override covers this component; it is
// only ever written by refreshOwners.
type override struct {
	value   float64
	enabled bool
	subtree bool
	owner   Handle
}

func (o *override) authoritative() bool { return o.enabled && o.subtree }

func (c *Component) ov(q Quantity) *override {
	switch q {
	case Mass:
		return &c.mass
	case CG:
		return &c.cg
	case CD:
		return &c.cd
	}
	panic(fmt.Sprintf("component: invalid quantity %d", int(q)))
}

// resolveOwner returns the nearest ancestor of c with an enabled subtree
// override of q.
func (c *Component) resolveOwner(q Quantity) Handle {
	for p := c.Parent(); p != nil; p = p.Parent() {
		if p.ov(q).authoritative() {
			return p.self
		}
	}
	return Handle{}
}

// refreshOwners recomputes the owner of q for every descendant of c, and
// for c itself when self is set. A descendant holding its own subtree
// override keeps covering its children when c withdraws.
func (c *Component) refreshOwners(q Quantity, self bool) {
	for _, d := range c.subtree() {
		if d == c && !self {
			continue
		}
		d.ov(q).owner = d.resolveOwner(q)
	}
}

// Overridden reports whether q is overridden on c itself.
func (c *Component) Overridden(q Quantity) bool {
	return c.ov(q).enabled
}

// SubtreeOverridden reports whether c's override of q also covers its
// descendants.
func (c *Component) SubtreeOverridden(q Quantity) bool {
	return c.ov(q).subtree
}

// OverriddenBy returns the component whose subtree override of q covers c,
// or nil.
func (c *Component) OverriddenBy(q Quantity) *Component {
	h := c.ov(q).owner
	if h.IsZero() {
		return nil
	}
	return c.tree.at(h)
}

// OverriddenByAncestor reports whether any ancestor overrides q for its
// whole subtree.
func (c *Component) OverriddenByAncestor(q Quantity) bool {
	p := c.Parent()
	if p == nil {
		return false
	}
	return p.OverriddenByAncestor(q) || p.ov(q).authoritative()
}

// OverrideEnabled reports whether any quantity is overridden on c.
func (c *Component) OverrideEnabled() bool {
	return c.mass.enabled || c.cg.enabled || c.cd.enabled
}

// SetOverridden turns the override of q on or off. Turning it off resets
// the stored value to the native one.
func (c *Component) SetOverridden(q Quantity, on bool) error {
	errs := c.eachReplica(func(r *Component) error {
		r.bypass = false
		defer func() { r.bypass = true }()
		return r.SetOverridden(q, on)
	})
	o := c.ov(q)
	if o.enabled == on {
		return errs
	}
	if err := c.checkState(); err != nil {
		return err
	}
	o.enabled = on
	if !on {
		o.value = c.nativeValue(q)
	}
	c.refreshOwners(q, false)
	c.fire(q.event())
	return errs
}

// SetSubtreeOverridden decides whether c's override of q also replaces the
// values of its descendants.
func (c *Component) SetSubtreeOverridden(q Quantity, on bool) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetSubtreeOverridden(q, on) })
	o := c.ov(q)
	if o.subtree == on {
		return errs
	}
	if err := c.checkState(); err != nil {
		return err
	}
	o.subtree = on
	c.refreshOwners(q, false)
	c.fire(q.event() | bus.TreeChildren)
	return errs
}

// SetAllSubtreeOverridden sets the subtree flag of every quantity.
func (c *Component) SetAllSubtreeOverridden(on bool) error {
	var first error
	for _, q := range quantities {
		if err := c.SetSubtreeOverridden(q, on); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *Component) nativeValue(q Quantity) float64 {
	switch q {
	case Mass:
		return c.ComponentMass()
	case CG:
		return c.ComponentCG().X
	default:
		return c.ComponentCD(0, 0, c.tree.defaultMach, 0)
	}
}

// OverrideMass returns the override mass. While the override is off it
// tracks the native mass.
func (c *Component) OverrideMass() float64 {
	if !c.mass.enabled {
		c.mass.value = c.ComponentMass()
	}
	return c.mass.value
}

// SetOverrideMass stores an override mass, clamped to be non-negative.
func (c *Component) SetOverrideMass(m float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetOverrideMass(m) })
	if geom.Equals(m, c.mass.value) {
		return errs
	}
	if err := c.checkState(); err != nil {
		return err
	}
	c.mass.value = math.Max(m, 0)
	if c.mass.enabled {
		c.fire(bus.Mass)
	}
	return errs
}

// OverrideCGX returns the override CG position along the axis.
func (c *Component) OverrideCGX() float64 {
	if !c.cg.enabled {
		c.cg.value = c.ComponentCG().X
	}
	return c.cg.value
}

// OverrideCG is the native CG with its axial position replaced.
func (c *Component) OverrideCG() geom.Coordinate {
	x := c.OverrideCGX()
	return c.ComponentCG().SetX(x)
}

func (c *Component) SetOverrideCGX(x float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetOverrideCGX(x) })
	if geom.Equals(x, c.cg.value) {
		return errs
	}
	if err := c.checkState(); err != nil {
		return err
	}
	c.cg.value = x
	if c.cg.enabled {
		c.fire(bus.Mass)
	} else {
		c.fire(bus.NonFunctional)
	}
	return errs
}

// OverrideCD returns the override drag coefficient, tracking the native
// value at default conditions while the override is off.
func (c *Component) OverrideCD() float64 {
	if !c.cd.enabled {
		c.cd.value = c.ComponentCD(0, 0, c.tree.defaultMach, 0)
	}
	return c.cd.value
}

func (c *Component) SetOverrideCD(cd float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetOverrideCD(cd) })
	if geom.Equals(cd, c.cd.value) {
		return errs
	}
	if err := c.checkState(); err != nil {
		return err
	}
	c.cd.value = cd
	if c.cd.enabled {
		c.fire(bus.Aerodynamic)
	} else {
		c.fire(bus.NonFunctional)
	}
	return errs
}

// Mass is the effective mass of c alone.
func (c *Component) Mass() float64 {
	if c.mass.enabled {
		return c.mass.value
	}
	return c.ComponentMass()
}

// SectionMass is the effective mass of c and its descendants. A subtree
// mass override stands for the whole section.
func (c *Component) SectionMass() float64 {
	total := c.Mass()
	if c.mass.authoritative() {
		return total
	}
	for _, ch := range c.Children() {
		total += ch.SectionMass()
	}
	return total
}

// CG is the effective CG of c in its own frame, weighted by the effective
// mass.
func (c *Component) CG() geom.Coordinate {
	if c.cg.enabled {
		return c.OverrideCG().WithWeight(c.Mass())
	}
	if c.mass.enabled {
		return c.ComponentCG().WithWeight(c.Mass())
	}
	return c.ComponentCG()
}

// CD is the effective drag coefficient at default conditions.
func (c *Component) CD() float64 {
	if c.cd.enabled {
		return c.cd.value
	}
	return c.ComponentCD(0, 0, c.tree.defaultMach, 0)
}

// LongitudinalInertia scales the native unit inertia by the effective mass.
func (c *Component) LongitudinalInertia() float64 {
	return c.LongitudinalUnitInertia() * c.Mass()
}

// RotationalInertia scales the native unit inertia by the effective mass.
func (c *Component) RotationalInertia() float64 {
	return c.RotationalUnitInertia() * c.Mass()
}
