package geom

import "math"

// RingVolume is the volume of a hollow cylinder. Inverted radii contribute nothing.
func RingVolume(outerRadius, innerRadius, length float64) float64 {
	return math.Pi * math.Max(Pow2(outerRadius)-Pow2(innerRadius), 0) * length
}

func RingMass(outerRadius, innerRadius, length, density float64) float64 {
	return RingVolume(outerRadius, innerRadius, length) * density
}

// RingCG is the center of a ring whose fore face sits at x.
func RingCG(x, length float64) float64 {
	return x + length/2
}

// RingLongitudinalUnitInertia is the transverse moment of inertia per unit mass
// of a hollow cylinder about its own center.
func RingLongitudinalUnitInertia(outerRadius, innerRadius, length float64) float64 {
	return (3*(Pow2(innerRadius)+Pow2(outerRadius)) + Pow2(length)) / 12
}

// RingRotationalUnitInertia is the axial moment of inertia per unit mass.
func RingRotationalUnitInertia(outerRadius, innerRadius float64) float64 {
	return (Pow2(innerRadius) + Pow2(outerRadius)) / 2
}
