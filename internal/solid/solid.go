// Package solid turns the bodies of revolution of a component tree into sdfx
// signed distance solids and tessellates them for inspection.
//
// The rocket axis is +X. Profiles are drawn in the (radius, axial) plane,
// revolved about the sdfx Y axis and then rotated onto X.
package solid

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/san-kum/airframe/internal/component"
	"github.com/san-kum/airframe/internal/shape"
)

var (
	ErrNoBody     = errors.New("solid: component has no body of revolution")
	ErrDegenerate = errors.New("solid: degenerate profile")
)

const (
	DefaultSamples = 64
	DefaultCells   = 120
)

// Solid is a revolved body positioned in rocket coordinates.
type Solid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis aligned bounds.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Contains reports whether the point lies inside the solid.
func (s *Solid) Contains(x, y, z float64) bool {
	return s.s.Evaluate(v3.Vec{X: x, Y: y, Z: z}) <= 0
}

// outline returns the closed (radius, axial) outline of a profile. A hollow
// body gets an inner wall thickness deep; a filled one closes on the axis.
func outline(p shape.Profile, thickness float64, filled bool, samples int) []v2.Vec {
	xs, rs := p.Sample(samples)
	pts := make([]v2.Vec, 0, 2*len(xs)+2)
	add := func(r, x float64) {
		v := v2.Vec{X: r, Y: x}
		if n := len(pts); n > 0 && pts[n-1] == v {
			return
		}
		pts = append(pts, v)
	}

	for i := range xs {
		add(rs[i], xs[i])
	}
	if filled || thickness <= 0 {
		add(0, p.Length)
		add(0, 0)
	} else {
		for i := len(xs) - 1; i >= 0; i-- {
			add(math.Max(rs[i]-thickness, 0), xs[i])
		}
	}
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

// Revolve builds the solid of p with its fore end at axial position x0.
func Revolve(p shape.Profile, thickness float64, filled bool, samples int, x0 float64) (*Solid, error) {
	if p.Length <= 0 || math.Max(p.ForeRadius, p.AftRadius) <= 0 {
		return nil, ErrDegenerate
	}
	if samples < 2 {
		samples = DefaultSamples
	}
	pts := outline(p, thickness, filled, samples)
	if len(pts) < 3 {
		return nil, ErrDegenerate
	}
	s2, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("solid: outline: %w", err)
	}
	s3, err := sdf.Revolve3D(s2)
	if err != nil {
		return nil, fmt.Errorf("solid: revolve: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x0}).Mul(sdf.RotateZ(-math.Pi / 2))
	return &Solid{s: sdf.Transform3D(s3, m)}, nil
}

// profileOf returns the outer profile of a body component.
func profileOf(c *component.Component) (shape.Profile, bool) {
	switch c.Kind() {
	case component.KindNoseCone, component.KindTransition:
		return c.Profile(), true
	case component.KindBodyTube, component.KindInnerTube:
		r := c.OuterRadius()
		return shape.Profile{Shape: shape.Conical, ForeRadius: r, AftRadius: r, Length: c.Length()}, true
	}
	return shape.Profile{}, false
}

// FromComponent revolves the body of c at the first instance location.
func FromComponent(c *component.Component, samples int) (*Solid, error) {
	p, ok := profileOf(c)
	if !ok {
		return nil, ErrNoBody
	}
	filled := c.Filled()
	return Revolve(p, c.Thickness(), filled, samples, c.Locations()[0].X)
}

// Airframe unions the external bodies below root: nose cones, body tubes
// and transitions of active stages.
func Airframe(root *component.Component, samples int) (*Solid, error) {
	var parts []sdf.SDF3
	err := root.Walk(true, func(c *component.Component) error {
		if !c.Aerodynamic() || !c.Active() {
			return nil
		}
		s, err := FromComponent(c, samples)
		if errors.Is(err, ErrNoBody) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
		parts = append(parts, s.s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrNoBody
	}
	return &Solid{s: sdf.Union3D(parts...)}, nil
}

// Mesh summarizes a tessellated solid.
type Mesh struct {
	Triangles int
	Area      float64
	Volume    float64
	Min, Max  [3]float64
}

// Tessellate renders s with marching cubes over cells cells along the
// longest side of its bounding box.
func Tessellate(s *Solid, cells int) Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s.s, render.NewMarchingCubesUniform(cells))

	m := Mesh{Triangles: len(tris)}
	m.Min, m.Max = s.BoundingBox()
	var vol float64
	for _, tri := range tris {
		a, b, c := tri[0], tri[1], tri[2]
		m.Area += b.Sub(a).Cross(c.Sub(a)).Length() / 2
		vol += a.Dot(b.Cross(c)) / 6
	}
	m.Volume = math.Abs(vol)
	return m
}
