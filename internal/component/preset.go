package component

import (
	"errors"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/shape"
)

// PresetKey names one value a preset can supply.
type PresetKey string

const (
	PresetLength         PresetKey = "length"
	PresetOuterRadius    PresetKey = "outer_radius"
	PresetForeRadius     PresetKey = "fore_radius"
	PresetAftRadius      PresetKey = "aft_radius"
	PresetThickness      PresetKey = "thickness"
	PresetDensity        PresetKey = "density"
	PresetMass           PresetKey = "mass"
	PresetShapeParameter PresetKey = "shape_parameter"
	PresetShoulderLength PresetKey = "shoulder_length"
	PresetShoulderRadius PresetKey = "shoulder_radius"
)

// Preset is a manufacturer part that fills in a component's geometry.
type Preset interface {
	Name() string
	Kind() Kind
	Value(key PresetKey) (float64, bool)
	Shape() (shape.Shape, bool)
	Filled() bool
}

// LoadPreset applies every value of p to c as one change. A preset mass
// turns on the mass override, except on a mass component where it is the
// item mass. A nil preset clears the current one.
func (c *Component) LoadPreset(p Preset) error {
	if err := c.checkState(); err != nil {
		return err
	}
	if p == nil {
		return c.ClearPreset()
	}
	if p.Kind() != c.kind {
		return ErrPresetKind
	}

	return c.tree.Batch(func() error {
		var errs []error
		set := func(k PresetKey, fn func(float64) error) {
			if v, ok := p.Value(k); ok {
				errs = append(errs, fn(v))
			}
		}
		if s, ok := p.Shape(); ok {
			errs = append(errs, c.SetShape(s))
		}
		set(PresetShapeParameter, c.SetShapeParameter)
		set(PresetLength, c.SetLength)
		set(PresetOuterRadius, c.SetOuterRadius)
		set(PresetForeRadius, c.SetForeRadius)
		set(PresetAftRadius, c.SetAftRadius)
		set(PresetThickness, c.SetThickness)
		set(PresetDensity, c.SetDensity)
		if c.kind.Profiled() || c.kind == KindBodyTube {
			errs = append(errs, c.SetFilled(p.Filled()))
		}
		if l, ok := p.Value(PresetShoulderLength); ok {
			sh := c.aftSh
			sh.Length = l
			if r, ok := p.Value(PresetShoulderRadius); ok {
				sh.Radius = r
			}
			errs = append(errs, c.SetAftShoulder(sh))
		}
		if m, ok := p.Value(PresetMass); ok {
			if c.kind == KindMassComponent {
				errs = append(errs, c.SetItemMass(m))
			} else {
				errs = append(errs, c.SetOverridden(Mass, true), c.SetOverrideMass(m))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		c.preset = p
		c.fire(bus.NonFunctional)
		return nil
	})
}

// ClearPreset detaches c from its preset and keeps the current values.
func (c *Component) ClearPreset() error {
	if err := c.checkState(); err != nil {
		return err
	}
	if c.preset == nil {
		return nil
	}
	c.preset = nil
	c.fire(bus.NonFunctional)
	return nil
}

func (c *Component) clearPreset() { c.preset = nil }

// Preset returns the loaded preset or nil.
func (c *Component) Preset() Preset { return c.preset }

// PresetName is the name of the loaded preset, or "".
func (c *Component) PresetName() string {
	if c.preset == nil {
		return ""
	}
	return c.preset.Name()
}
