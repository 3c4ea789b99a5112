package shape

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/airframe/internal/geom"
)

// Profile is the outer surface of a transition: a shape stretched between a
// fore and an aft radius over a length.
type Profile struct {
	Shape      Shape
	Param      float64
	ForeRadius float64
	AftRadius  float64
	Length     float64
	Clipped    bool

	clip float64
	hasC bool
}

// Invalidate drops the cached clip length.
func (p *Profile) Invalidate() {
	p.hasC = false
}

// ClipLength returns the clip length of a clipped profile, computing it once.
func (p *Profile) ClipLength() float64 {
	if !p.hasC {
		p.clip = ClipLength(p.Shape, p.ForeRadius, p.AftRadius, p.Length, p.Param)
		p.hasC = true
	}
	return p.clip
}

// Radius evaluates the outer radius at x measured from the fore end.
func (p *Profile) Radius(x float64) float64 {
	if x < 0 {
		return p.ForeRadius
	}
	if x >= p.Length {
		return p.AftRadius
	}

	r1, r2 := p.ForeRadius, p.AftRadius
	if r1 == r2 {
		return r1
	}
	if r1 > r2 {
		x = p.Length - x
		r1, r2 = r2, r1
	}

	if p.Clipped && p.Shape.Clippable() {
		c := p.ClipLength()
		return p.Shape.Radius(c+x, r2, c+p.Length, p.Param)
	}
	return r1 + p.Shape.Radius(x, r2-r1, p.Length, p.Param)
}

// InnerRadius is the radius of the inside of a shell of the given thickness.
func (p *Profile) InnerRadius(x, thickness float64) float64 {
	return math.Max(p.Radius(x)-thickness, 0)
}

// Sample returns n+1 evenly spaced (x, r) pairs over the profile.
func (p *Profile) Sample(n int) (xs, rs []float64) {
	if n < 1 {
		n = 1
	}
	xs = make([]float64, n+1)
	rs = make([]float64, n+1)
	for i := 0; i <= n; i++ {
		x := p.Length * float64(i) / float64(n)
		xs[i] = x
		rs[i] = p.Radius(x)
	}
	return xs, rs
}

// DefaultDivisions is the number of integration intervals used for profiles.
const DefaultDivisions = 128

// Integrate computes the volume, CG and unit inertias of the profile body. A
// filled body ignores thickness; otherwise the shell is thickness deep
// measured radially.
func (p *Profile) Integrate(thickness float64, filled bool, divisions int) geom.Solid {
	if p.Length <= 0 {
		return geom.Solid{}
	}
	if divisions < 2 {
		divisions = DefaultDivisions
	}
	if divisions%2 != 0 {
		divisions++
	}

	xs, ro := p.Sample(divisions)
	area := make([]float64, len(xs))
	moment := make([]float64, len(xs))
	rot := make([]float64, len(xs))
	for i, x := range xs {
		ri := 0.0
		if !filled {
			ri = math.Max(ro[i]-thickness, 0)
		}
		a := math.Pi * math.Max(geom.Pow2(ro[i])-geom.Pow2(ri), 0)
		area[i] = a
		moment[i] = a * x
		rot[i] = a * geom.RingRotationalUnitInertia(ro[i], ri)
	}

	volume := integrate.Simpsons(xs, area)
	if volume < geom.Epsilon*geom.Epsilon {
		return geom.Solid{}
	}
	cg := integrate.Simpsons(xs, moment) / volume

	long := make([]float64, len(xs))
	for i, x := range xs {
		// Thin disc transverse inertia r²/4 per unit mass, plus the offset from the CG.
		ri := 0.0
		if !filled {
			ri = math.Max(ro[i]-thickness, 0)
		}
		long[i] = area[i] * ((geom.Pow2(ro[i])+geom.Pow2(ri))/4 + geom.Pow2(x-cg))
	}

	return geom.Solid{
		Volume:                  volume,
		CG:                      cg,
		LongitudinalUnitInertia: integrate.Simpsons(xs, long) / volume,
		RotationalUnitInertia:   integrate.Simpsons(xs, rot) / volume,
	}
}

// WettedArea is the lateral surface area of the profile.
func (p *Profile) WettedArea(divisions int) float64 {
	if p.Length <= 0 {
		return 0
	}
	if divisions < 2 {
		divisions = DefaultDivisions
	}
	xs, rs := p.Sample(divisions)
	var area float64
	for i := 1; i < len(xs); i++ {
		dx := xs[i] - xs[i-1]
		dr := rs[i] - rs[i-1]
		area += math.Pi * (rs[i] + rs[i-1]) * math.Hypot(dx, dr)
	}
	return area
}
