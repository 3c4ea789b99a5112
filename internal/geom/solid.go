package geom

import "math"

// Solid is one homogeneous part of a composite body.
type Solid struct {
	Volume float64
	CG     float64
	// Unit inertias about the part's own CG.
	LongitudinalUnitInertia float64
	RotationalUnitInertia   float64
}

// Ring describes a hollow cylindrical part starting at x.
func Ring(x, outerRadius, innerRadius, length float64) Solid {
	return Solid{
		Volume:                  RingVolume(outerRadius, innerRadius, length),
		CG:                      RingCG(x, length),
		LongitudinalUnitInertia: RingLongitudinalUnitInertia(outerRadius, innerRadius, length),
		RotationalUnitInertia:   RingRotationalUnitInertia(outerRadius, innerRadius),
	}
}

// MassProperties are the combined mass properties of a body.
type MassProperties struct {
	Volume                  float64
	Mass                    float64
	CG                      Coordinate
	LongitudinalUnitInertia float64
	RotationalUnitInertia   float64
}

// Combine merges parts of equal density. The CG is the volume weighted mean,
// the transverse inertia is moved to the combined CG with the parallel axis
// theorem. A body lighter than Epsilon reports zero CG and zero inertia.
func Combine(density float64, parts ...Solid) MassProperties {
	var volume, moment float64
	for _, p := range parts {
		volume += p.Volume
		moment += p.Volume * p.CG
	}
	mass := volume * density
	if mass < Epsilon {
		return MassProperties{Volume: volume, CG: Zero}
	}
	cg := moment / volume

	var longMOI, rotMOI float64
	for _, p := range parts {
		longMOI += p.Volume * (p.LongitudinalUnitInertia + Pow2(p.CG-cg))
		rotMOI += p.Volume * p.RotationalUnitInertia
	}
	return MassProperties{
		Volume:                  volume,
		Mass:                    mass,
		CG:                      NewCoordinate(cg, 0, 0, mass),
		LongitudinalUnitInertia: longMOI / volume,
		RotationalUnitInertia:   rotMOI / volume,
	}
}

// Valid reports whether all values are finite.
func (m MassProperties) Valid() bool {
	for _, v := range []float64{m.Mass, m.CG.X, m.LongitudinalUnitInertia, m.RotationalUnitInertia} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
