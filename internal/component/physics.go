package component

import (
	"errors"
	"math"

	"github.com/san-kum/airframe/internal/aero"
	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/geom"
	"github.com/san-kum/airframe/internal/shape"
)

// setGeometry runs fn when the kind supports the property, then clears the
// preset and publishes t if fn changed anything.
func (c *Component) setGeometry(supported bool, t bus.ChangeType, fn func() bool) error {
	if err := c.checkState(); err != nil {
		return err
	}
	if !supported {
		return ErrUnsupported
	}
	if !fn() {
		return nil
	}
	c.clearPreset()
	c.fire(t)
	return nil
}

func setF(dst *float64, v float64) bool {
	if geom.Equals(*dst, v) {
		return false
	}
	*dst = v
	return true
}

func (c *Component) tubular() bool {
	return c.kind == KindBodyTube || c.kind == KindInnerTube || c.kind == KindMassComponent
}

// OuterRadius is the tube radius, or the aft radius of a profiled body.
func (c *Component) OuterRadius() float64 {
	if c.kind.Profiled() {
		return math.Max(c.profile.ForeRadius, c.profile.AftRadius)
	}
	return c.outerRadius
}

func (c *Component) SetOuterRadius(r float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetOuterRadius(r) })
	r = math.Max(r, 0)
	if c.kind == KindNoseCone {
		return errors.Join(errs, c.SetAftRadius(r))
	}
	return errors.Join(errs, c.setGeometry(c.tubular(), bus.Both, func() bool {
		return setF(&c.outerRadius, r)
	}))
}

func (c *Component) ForeRadius() float64 { return c.profile.ForeRadius }

func (c *Component) AftRadius() float64 { return c.profile.AftRadius }

// SetForeRadius sets the fore radius of a transition. A nose cone always
// starts at a point.
func (c *Component) SetForeRadius(r float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetForeRadius(r) })
	return errors.Join(errs, c.setGeometry(c.kind == KindTransition, bus.Both, func() bool {
		return setF(&c.profile.ForeRadius, math.Max(r, 0))
	}))
}

func (c *Component) SetAftRadius(r float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetAftRadius(r) })
	return errors.Join(errs, c.setGeometry(c.kind.Profiled(), bus.Both, func() bool {
		return setF(&c.profile.AftRadius, math.Max(r, 0))
	}))
}

func (c *Component) Thickness() float64 { return c.thickness }

// SetThickness sets the wall thickness of a shell.
func (c *Component) SetThickness(t float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetThickness(t) })
	ok := c.kind.Profiled() || c.kind == KindBodyTube || c.kind == KindInnerTube
	return errors.Join(errs, c.setGeometry(ok, bus.Mass, func() bool {
		return setF(&c.thickness, math.Max(t, 0))
	}))
}

func (c *Component) Filled() bool { return c.filled }

func (c *Component) SetFilled(on bool) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetFilled(on) })
	ok := c.kind.Profiled() || c.kind == KindBodyTube
	return errors.Join(errs, c.setGeometry(ok, bus.Mass, func() bool {
		if c.filled == on {
			return false
		}
		c.filled = on
		return true
	}))
}

// Density is the material density in kg/m³.
func (c *Component) Density() float64 { return c.density }

func (c *Component) SetDensity(d float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetDensity(d) })
	ok := c.kind.Massive() && c.kind != KindMassComponent
	return errors.Join(errs, c.setGeometry(ok, bus.Mass, func() bool {
		return setF(&c.density, math.Max(d, 0))
	}))
}

func (c *Component) Shape() shape.Shape { return c.profile.Shape }

func (c *Component) ShapeParameter() float64 { return c.profile.Param }

func (c *Component) Clipped() bool { return c.profile.Clipped && c.profile.Shape.Clippable() }

// SetShape changes the profile family. The parameter is clamped into the
// new family's range and clipping follows the family's default.
func (c *Component) SetShape(s shape.Shape) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetShape(s) })
	return errors.Join(errs, c.setGeometry(c.kind.Profiled(), bus.Both, func() bool {
		if c.profile.Shape == s {
			return false
		}
		c.profile.Shape = s
		c.profile.Param = s.ClampParameter(c.profile.Param)
		c.profile.Clipped = s.Clippable()
		return true
	}))
}

func (c *Component) SetShapeParameter(p float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetShapeParameter(p) })
	return errors.Join(errs, c.setGeometry(c.kind.Profiled(), bus.Both, func() bool {
		return setF(&c.profile.Param, c.profile.Shape.ClampParameter(p))
	}))
}

func (c *Component) SetClipped(on bool) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetClipped(on) })
	return errors.Join(errs, c.setGeometry(c.kind == KindTransition, bus.Both, func() bool {
		if c.profile.Clipped == on {
			return false
		}
		c.profile.Clipped = on
		return true
	}))
}

// Profile returns a copy of the outer profile.
func (c *Component) Profile() shape.Profile {
	p := c.profile
	p.Length = c.length
	p.Invalidate()
	return p
}

// ClipLength is the solved clip length of a clipped transition.
func (c *Component) ClipLength() float64 {
	if !c.Clipped() {
		return 0
	}
	c.profile.Length = c.length
	return c.profile.ClipLength()
}

// Radius is the outer radius at x from c's fore end.
func (c *Component) Radius(x float64) float64 {
	if c.kind.Profiled() {
		c.profile.Length = c.length
		return c.profile.Radius(x)
	}
	return c.outerRadius
}

func (c *Component) ForeShoulder() Shoulder { return c.foreSh }

func (c *Component) AftShoulder() Shoulder { return c.aftSh }

func (c *Component) SetForeShoulder(s Shoulder) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetForeShoulder(s) })
	return errors.Join(errs, c.setGeometry(c.kind == KindTransition, bus.Mass, func() bool {
		s = clampShoulder(s)
		if s == c.foreSh {
			return false
		}
		c.foreSh = s
		return true
	}))
}

func (c *Component) SetAftShoulder(s Shoulder) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetAftShoulder(s) })
	return errors.Join(errs, c.setGeometry(c.kind.Profiled(), bus.Mass, func() bool {
		s = clampShoulder(s)
		if s == c.aftSh {
			return false
		}
		c.aftSh = s
		return true
	}))
}

func clampShoulder(s Shoulder) Shoulder {
	s.Radius = math.Max(s.Radius, 0)
	s.Length = math.Max(s.Length, 0)
	s.Thickness = geom.Clamp(s.Thickness, 0, s.Radius)
	return s
}

func (c *Component) TipChord() float64 { return c.tipChord }

func (c *Component) FinHeight() float64 { return c.finHeight }

func (c *Component) FinThickness() float64 { return c.finThickness }

// SetFinShape sets the planform of a fin set. The root chord is the length.
func (c *Component) SetFinShape(tipChord, height, thickness float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetFinShape(tipChord, height, thickness) })
	return errors.Join(errs, c.setGeometry(c.kind == KindFinSet, bus.Both, func() bool {
		a := setF(&c.tipChord, math.Max(tipChord, 0))
		b := setF(&c.finHeight, math.Max(height, 0))
		d := setF(&c.finThickness, math.Max(thickness, 0))
		return a || b || d
	}))
}

// ItemMass is the user given mass of a mass component.
func (c *Component) ItemMass() float64 { return c.itemMass }

func (c *Component) SetItemMass(m float64) error {
	errs := c.eachReplica(func(rep *Component) error { return rep.SetItemMass(m) })
	return errors.Join(errs, c.setGeometry(c.kind == KindMassComponent, bus.Mass, func() bool {
		return setF(&c.itemMass, math.Max(m, 0))
	}))
}

// massProperties computes the native mass properties of c alone, cached
// until c changes.
func (c *Component) massProperties() geom.MassProperties {
	if c.props != nil {
		return *c.props
	}
	p := c.computeMassProperties()
	c.props = &p
	return p
}

func (c *Component) computeMassProperties() geom.MassProperties {
	switch c.kind {
	case KindBodyTube, KindInnerTube:
		inner := math.Max(c.outerRadius-c.thickness, 0)
		if c.filled {
			inner = 0
		}
		props := geom.Combine(c.density, geom.Ring(0, c.outerRadius, inner, c.length))
		if n := float64(c.instanceCount); n > 1 {
			props.Volume *= n
			props.Mass *= n
			props.CG.Weight = props.Mass
			props.RotationalUnitInertia += geom.Pow2(c.radialOffset)
			props.LongitudinalUnitInertia += geom.Pow2(c.radialOffset) / 2
		}
		return props

	case KindNoseCone, KindTransition:
		return c.compositeMassProperties()

	case KindFinSet:
		area := (c.length + c.tipChord) / 2 * c.finHeight
		if area <= 0 {
			return geom.MassProperties{}
		}
		var cg float64
		if sum := c.length + c.tipChord; sum > 0 {
			cg = (geom.Pow2(c.length) + c.length*c.tipChord + geom.Pow2(c.tipChord)) / (3 * sum)
		}
		span := c.bodyRadius() + c.finHeight/2
		rot := geom.Pow2(span) + geom.Pow2(c.finHeight)/12
		return geom.Combine(c.density, geom.Solid{
			Volume:                  area * c.finThickness * float64(c.instanceCount),
			CG:                      cg,
			LongitudinalUnitInertia: geom.Pow2(c.length)/12 + rot/2,
			RotationalUnitInertia:   rot,
		})

	case KindMassComponent:
		if c.itemMass < geom.Epsilon {
			return geom.MassProperties{}
		}
		return geom.MassProperties{
			Mass:                    c.itemMass,
			CG:                      geom.NewCoordinate(c.length/2, 0, 0, c.itemMass),
			LongitudinalUnitInertia: (3*geom.Pow2(c.outerRadius) + geom.Pow2(c.length)) / 12,
			RotationalUnitInertia:   geom.Pow2(c.outerRadius) / 2,
		}
	}
	return geom.MassProperties{}
}

// compositeMassProperties combines the profiled core with shoulders and
// their caps when at least one shoulder is long enough to matter.
func (c *Component) compositeMassProperties() geom.MassProperties {
	c.profile.Length = c.length
	core := c.profile.Integrate(c.thickness, c.filled, shape.DefaultDivisions)
	fore, aft := c.foreSh, c.aftSh
	if c.kind == KindNoseCone {
		fore = Shoulder{}
	}
	if fore.Length <= geom.MinFeature && aft.Length <= geom.MinFeature {
		return geom.Combine(c.density, core)
	}

	parts := []geom.Solid{core}
	if fore.Capped {
		ir := math.Max(fore.Radius-fore.Thickness, 0)
		parts = append(parts, geom.Ring(-fore.Length, ir, 0, fore.Thickness))
	}
	if fore.Length > geom.MinFeature {
		ir := math.Max(fore.Radius-fore.Thickness, 0)
		parts = append(parts, geom.Ring(-fore.Length, fore.Radius, ir, fore.Length))
	}
	if aft.Length > geom.MinFeature {
		ir := math.Max(aft.Radius-aft.Thickness, 0)
		parts = append(parts, geom.Ring(c.length, aft.Radius, ir, aft.Length))
	}
	if aft.Capped {
		ir := math.Max(aft.Radius-aft.Thickness, 0)
		parts = append(parts, geom.Ring(c.length+aft.Length-aft.Thickness, ir, 0, aft.Thickness))
	}
	return geom.Combine(c.density, parts...)
}

// bodyRadius is the radius of the body a fin set is mounted on.
func (c *Component) bodyRadius() float64 {
	p := c.Parent()
	if p == nil {
		return 0
	}
	return p.Radius(c.position.X)
}

// ComponentMass is the native mass of c alone.
func (c *Component) ComponentMass() float64 {
	return c.massProperties().Mass
}

// ComponentCG is the native CG of c alone in its own frame, weighted by the
// native mass.
func (c *Component) ComponentCG() geom.Coordinate {
	return c.massProperties().CG
}

func (c *Component) LongitudinalUnitInertia() float64 {
	return c.massProperties().LongitudinalUnitInertia
}

func (c *Component) RotationalUnitInertia() float64 {
	return c.massProperties().RotationalUnitInertia
}

// ComponentCD is the native drag coefficient of c from the tree's solver
// over the active components of the selected configuration. Components
// outside the rocket's tree report zero.
func (c *Component) ComponentCD(aoa, theta, mach, rollRate float64) float64 {
	if c.tree.solver == nil || !c.InTree() || !c.kind.Aerodynamic() {
		return 0
	}
	var parts []aero.Part
	for _, d := range c.tree.Root().subtree() {
		if d.kind.Aerodynamic() && d.Active() {
			parts = append(parts, d)
		}
	}
	forces, err := c.tree.solver.Analyze(parts, aero.Conditions{AOA: aoa, Theta: theta, Mach: mach, RollRate: rollRate})
	if err != nil {
		c.tree.log.Debug("drag analysis failed", "component", c.DebugName(), "err", err)
		return 0
	}
	return forces[c.id].CD
}

// PartLength is the flow length of c.
func (c *Component) PartLength() float64 { return c.length }

// WettedArea is the surface exposed to the flow.
func (c *Component) WettedArea() float64 {
	switch c.kind {
	case KindBodyTube:
		return 2 * math.Pi * c.outerRadius * c.length
	case KindNoseCone, KindTransition:
		p := c.Profile()
		return p.WettedArea(shape.DefaultDivisions)
	case KindFinSet:
		return 2 * (c.length + c.tipChord) / 2 * c.finHeight * float64(c.instanceCount)
	}
	return 0
}

// FrontalArea is the largest cross section.
func (c *Component) FrontalArea() float64 {
	switch c.kind {
	case KindBodyTube:
		return math.Pi * geom.Pow2(c.outerRadius)
	case KindNoseCone, KindTransition:
		return math.Pi * geom.Pow2(c.OuterRadius())
	case KindFinSet:
		return c.finThickness * c.finHeight * float64(c.instanceCount)
	}
	return 0
}

// FormFactor corrects flat plate friction for the thickness of the part.
func (c *Component) FormFactor() float64 {
	switch c.kind {
	case KindFinSet:
		if c.length <= 0 {
			return 1
		}
		return 1 + 2*c.finThickness/c.length
	default:
		d := 2 * c.OuterRadius()
		if d <= 0 || c.length <= 0 {
			return 1
		}
		f := c.length / d
		return 1 + 60/geom.Pow3(math.Max(f, 1)) + 0.0025*f
	}
}
