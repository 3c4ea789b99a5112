// Package aero holds the aerodynamic solver contract used for native drag
// coefficients and a skin friction estimate implementing it.
package aero

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

var ErrNoReference = errors.New("aero: no reference area")

// Conditions are the flight conditions of an analysis.
type Conditions struct {
	AOA      float64
	Theta    float64
	Mach     float64
	RollRate float64
}

// DefaultConditions are zero angle of attack and roll at the given Mach.
func DefaultConditions(mach float64) Conditions {
	return Conditions{Mach: mach}
}

// Forces are the drag contributions of one part, normalized by the vehicle
// reference area.
type Forces struct {
	CD         float64
	FrictionCD float64
	PressureCD float64
}

// Part is the aerodynamic view of a component.
type Part interface {
	ID() uuid.UUID
	Aerodynamic() bool
	// PartLength is the flow length used for the Reynolds number.
	PartLength() float64
	WettedArea() float64
	FrontalArea() float64
	// FormFactor scales flat plate friction for thickness effects.
	FormFactor() float64
}

// Solver computes per part forces for the given parts.
type Solver interface {
	Analyze(parts []Part, cond Conditions) (map[uuid.UUID]Forces, error)
}

// Atmosphere holds the properties the friction estimate needs.
type Atmosphere struct {
	SpeedOfSound       float64
	KinematicViscosity float64
}

// StandardAtmosphere is sea level ISA.
var StandardAtmosphere = Atmosphere{SpeedOfSound: 340.29, KinematicViscosity: 1.46e-5}

// FrictionSolver estimates drag from turbulent flat plate skin friction with
// a compressibility correction and per part form factors.
type FrictionSolver struct {
	Atmosphere Atmosphere
	// MinCf is a roughness limited floor on the friction coefficient. Zero disables it.
	MinCf float64
}

func NewFrictionSolver(atm Atmosphere) *FrictionSolver {
	return &FrictionSolver{Atmosphere: atm}
}

const minReynolds = 1e4

func (s *FrictionSolver) Analyze(parts []Part, cond Conditions) (map[uuid.UUID]Forces, error) {
	var ref float64
	for _, p := range parts {
		if p.Aerodynamic() {
			ref = math.Max(ref, p.FrontalArea())
		}
	}
	out := make(map[uuid.UUID]Forces, len(parts))
	if ref <= 0 {
		for _, p := range parts {
			out[p.ID()] = Forces{}
		}
		if len(parts) == 0 {
			return out, nil
		}
		return out, ErrNoReference
	}

	v := cond.Mach * s.Atmosphere.SpeedOfSound
	aoaFactor := 1 + 0.5*math.Pow(math.Sin(cond.AOA), 2)
	for _, p := range parts {
		if !p.Aerodynamic() {
			out[p.ID()] = Forces{}
			continue
		}
		cf := s.skinFriction(v*p.PartLength()/s.Atmosphere.KinematicViscosity, cond.Mach)
		fric := cf * p.FormFactor() * p.WettedArea() / ref * aoaFactor
		out[p.ID()] = Forces{CD: fric, FrictionCD: fric}
	}
	return out, nil
}

func (s *FrictionSolver) skinFriction(re, mach float64) float64 {
	if re < minReynolds {
		re = minReynolds
	}
	cf := 1.0 / math.Pow(1.50*math.Log(re)-5.6, 2)
	if mach < 1 {
		cf *= 1 - 0.1*mach*mach
	} else {
		cf /= math.Pow(1+0.15*mach*mach, 0.58)
	}
	return math.Max(cf, s.MinCf)
}
