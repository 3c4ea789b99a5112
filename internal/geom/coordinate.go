package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Coordinate is a point in the vehicle frame carrying a weight, typically a mass.
type Coordinate struct {
	r3.Vec
	Weight float64
}

var (
	Zero = Coordinate{}
	NUL  = Coordinate{Vec: r3.Vec{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}}
)

func NewCoordinate(x, y, z, weight float64) Coordinate {
	return Coordinate{Vec: r3.Vec{X: x, Y: y, Z: z}, Weight: weight}
}

// At builds an unweighted coordinate.
func At(x, y, z float64) Coordinate {
	return NewCoordinate(x, y, z, 0)
}

// Add sums positions and weights.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{Vec: r3.Add(c.Vec, o.Vec), Weight: c.Weight + o.Weight}
}

// Sub subtracts positions and keeps the receiver's weight.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{Vec: r3.Sub(c.Vec, o.Vec), Weight: c.Weight}
}

func (c Coordinate) SetX(x float64) Coordinate {
	c.X = x
	return c
}

func (c Coordinate) WithWeight(w float64) Coordinate {
	c.Weight = w
	return c
}

// Average combines two weighted points into their weighted centroid. If the
// total weight is zero the unweighted midpoint is returned.
func (c Coordinate) Average(o Coordinate) Coordinate {
	w := c.Weight + o.Weight
	if math.Abs(w) < Epsilon {
		mid := r3.Scale(0.5, r3.Add(c.Vec, o.Vec))
		return Coordinate{Vec: mid}
	}
	v := r3.Scale(1/w, r3.Add(r3.Scale(c.Weight, c.Vec), r3.Scale(o.Weight, o.Vec)))
	return Coordinate{Vec: v, Weight: w}
}

// IsNaN reports whether any component is NaN.
func (c Coordinate) IsNaN() bool {
	return math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z) || math.IsNaN(c.Weight)
}

func (c Coordinate) String() string {
	if c.Weight != 0 {
		return fmt.Sprintf("(%.5f,%.5f,%.5f,w=%.5f)", c.X, c.Y, c.Z, c.Weight)
	}
	return fmt.Sprintf("(%.5f,%.5f,%.5f)", c.X, c.Y, c.Z)
}

// RotateX rotates v by angle radians about the vehicle axis.
func RotateX(angle float64, v r3.Vec) r3.Vec {
	if angle == 0 {
		return v
	}
	return r3.NewRotation(angle, r3.Vec{X: 1}).Rotate(v)
}

// AddAngles sums rotation triples component-wise.
func AddAngles(a, b r3.Vec) r3.Vec {
	return r3.Add(a, b)
}
