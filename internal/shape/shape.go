// Package shape implements the family of body-of-revolution profiles used by
// nose cones and transitions, the solver for clipped profiles and numeric
// integration of profile mass properties.
package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/airframe/internal/geom"
)

// Shape is a closed enumeration of profile families.
type Shape int

const (
	Conical Shape = iota
	Ogive
	Ellipsoid
	Power
	Parabolic
	Haack
)

var names = [...]string{
	Conical:   "conical",
	Ogive:     "ogive",
	Ellipsoid: "ellipsoid",
	Power:     "power",
	Parabolic: "parabolic",
	Haack:     "haack",
}

var displayNames = [...]string{
	Conical:   "Conical",
	Ogive:     "Ogive",
	Ellipsoid: "Ellipsoid",
	Power:     "Power series",
	Parabolic: "Parabolic series",
	Haack:     "Haack series",
}

// All lists every shape in declaration order.
func All() []Shape {
	return []Shape{Conical, Ogive, Ellipsoid, Power, Parabolic, Haack}
}

// Parse accepts the lower case key or the display name.
func Parse(s string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if key == n || key == strings.ToLower(displayNames[i]) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("shape: unknown shape %q", s)
}

func (s Shape) valid() bool { return s >= Conical && s <= Haack }

func (s Shape) String() string {
	if !s.valid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return names[s]
}

// Name is the human readable family name.
func (s Shape) Name() string {
	if !s.valid() {
		return s.String()
	}
	return displayNames[s]
}

func (s Shape) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("shape: invalid shape %d", int(s))
	}
	return []byte(names[s]), nil
}

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Clippable reports whether the shape changes when a transition is clipped
// out of a longer nose-cone-like profile.
func (s Shape) Clippable() bool {
	switch s {
	case Ellipsoid, Power, Haack:
		return true
	default:
		return false
	}
}

func (s Shape) UsesParameter() bool {
	switch s {
	case Ogive, Power, Parabolic, Haack:
		return true
	default:
		return false
	}
}

func (s Shape) MinParameter() float64 { return 0 }

func (s Shape) MaxParameter() float64 {
	if s == Haack {
		return 1.0 / 3.0
	}
	return 1
}

func (s Shape) DefaultParameter() float64 {
	switch s {
	case Ogive, Parabolic:
		return 1
	case Power:
		return 0.5
	default:
		return 0
	}
}

// ClampParameter limits p to the shape's declared range.
func (s Shape) ClampParameter(p float64) float64 {
	return geom.Clamp(p, s.MinParameter(), s.MaxParameter())
}

// Radius returns the profile radius at x of a body with zero fore radius,
// aft radius radius and the given length. x must lie in [0, length].
func (s Shape) Radius(x, radius, length, param float64) float64 {
	switch s {
	case Conical:
		return radius * x / length

	case Ogive:
		if length < radius {
			x = x * radius / length
			length = radius
		}
		if param < geom.MinFeature {
			return Conical.Radius(x, radius, length, param)
		}
		r := geom.SafeSqrt((geom.Pow2(length) + geom.Pow2(radius)) *
			(geom.Pow2((2-param)*length) + geom.Pow2(param*radius)) / (4 * geom.Pow2(param*radius)))
		l := length / param
		y0 := geom.SafeSqrt(r*r - l*l)
		return geom.SafeSqrt(r*r-(l-x)*(l-x)) - y0

	case Ellipsoid:
		x = x * radius / length
		return geom.SafeSqrt(2*radius*x - x*x)

	case Power:
		if param <= 1e-5 {
			if x <= 1e-5 {
				return 0
			}
			return radius
		}
		return radius * math.Pow(x/length, param)

	case Parabolic:
		return radius * ((2*x/length - param*geom.Pow2(x/length)) / (2 - param))

	case Haack:
		theta := math.Acos(1 - 2*x/length)
		if geom.Equals(param, 0) {
			return radius * geom.SafeSqrt((theta-math.Sin(2*theta)/2)/math.Pi)
		}
		return radius * geom.SafeSqrt((theta-math.Sin(2*theta)/2+param*geom.Pow3(math.Sin(theta)))/math.Pi)
	}
	panic(fmt.Sprintf("shape: radius of invalid shape %d", int(s)))
}
