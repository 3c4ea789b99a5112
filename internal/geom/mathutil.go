package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// Epsilon is the smallest magnitude treated as non-zero in mass and length computations.
	Epsilon = 1e-8

	// SnapTolerance collapses axial positions this close to zero onto zero.
	SnapTolerance = 1e-6

	// MinFeature is the smallest geometric feature (for example a shoulder) that is modelled.
	MinFeature = 0.001
)

func Pow2(x float64) float64 { return x * x }

func Pow3(x float64) float64 { return x * x * x }

// SafeSqrt returns zero for negative arguments instead of NaN.
func SafeSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Equals reports whether a and b agree within Epsilon, absolutely or relatively.
func Equals(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, Epsilon, Epsilon)
}

// EqualsTol is Equals with a caller supplied tolerance.
func EqualsTol(a, b, tol float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, tol, tol)
}

// Snap returns zero when |x| is below SnapTolerance.
func Snap(x float64) float64 {
	if math.Abs(x) < SnapTolerance {
		return 0
	}
	return x
}
