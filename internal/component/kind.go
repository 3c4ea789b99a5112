package component

import (
	"fmt"
	"strings"
)

// Kind is the category of a component. It decides which children a
// component accepts and which physical model computes its native values.
type Kind int

const (
	KindRocket Kind = iota
	KindStage
	KindPodSet
	KindNoseCone
	KindBodyTube
	KindTransition
	KindInnerTube
	KindFinSet
	KindMassComponent
)

type kindTraits struct {
	key         string
	display     string
	accepts     []Kind
	aerodynamic bool
	massive     bool
	instanced   bool
	profiled    bool
	mountable   bool
	assembly    bool
	method      AxialMethod
}

var traits = [...]kindTraits{
	KindRocket: {
		key: "rocket", display: "Rocket", assembly: true,
		accepts: []Kind{KindStage, KindNoseCone, KindBodyTube, KindTransition},
		method:  AxialAbsolute,
	},
	KindStage: {
		key: "stage", display: "Stage", assembly: true,
		accepts: []Kind{KindNoseCone, KindBodyTube, KindTransition},
		method:  AxialAfter,
	},
	KindPodSet: {
		key: "podset", display: "Pods", assembly: true, instanced: true,
		accepts: []Kind{KindNoseCone, KindBodyTube, KindTransition},
		method:  AxialBottom,
	},
	KindNoseCone: {
		key: "nosecone", display: "Nose cone", aerodynamic: true, massive: true, profiled: true,
		accepts: []Kind{KindInnerTube, KindMassComponent},
		method:  AxialAfter,
	},
	KindBodyTube: {
		key: "bodytube", display: "Body tube", aerodynamic: true, massive: true, mountable: true,
		accepts: []Kind{KindInnerTube, KindMassComponent, KindFinSet, KindPodSet},
		method:  AxialAfter,
	},
	KindTransition: {
		key: "transition", display: "Transition", aerodynamic: true, massive: true, profiled: true,
		accepts: []Kind{KindInnerTube, KindMassComponent, KindFinSet},
		method:  AxialAfter,
	},
	KindInnerTube: {
		key: "innertube", display: "Inner tube", massive: true, instanced: true, mountable: true,
		accepts: []Kind{KindInnerTube, KindMassComponent},
		method:  AxialBottom,
	},
	KindFinSet: {
		key: "finset", display: "Fin set", aerodynamic: true, massive: true, instanced: true,
		method: AxialBottom,
	},
	KindMassComponent: {
		key: "mass", display: "Mass component", massive: true,
		method: AxialTop,
	},
}

func (k Kind) valid() bool { return k >= KindRocket && k <= KindMassComponent }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return traits[k].key
}

// DisplayName is the default name given to new components of this kind.
func (k Kind) DisplayName() string {
	if !k.valid() {
		return k.String()
	}
	return traits[k].display
}

// ParseKind accepts the lower case key of a kind.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, t := range traits {
		if t.key == key {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown kind %q", s)
}

// Kinds lists every kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(traits))
	for i := range traits {
		out = append(out, Kind(i))
	}
	return out
}

func (k Kind) AllowsChildren() bool { return len(traits[k].accepts) > 0 }

// Accepts reports whether a component of kind k takes children of kind child.
func (k Kind) Accepts(child Kind) bool {
	for _, a := range traits[k].accepts {
		if a == child {
			return true
		}
	}
	return false
}

func (k Kind) Aerodynamic() bool { return traits[k].aerodynamic }

func (k Kind) Massive() bool { return traits[k].massive }

// Instanced reports whether the kind may stand for several physical copies.
func (k Kind) Instanced() bool { return traits[k].instanced }

// Profiled reports whether the outer surface follows a shape profile.
func (k Kind) Profiled() bool { return traits[k].profiled }

// MotorMountable reports whether the kind can carry a motor.
func (k Kind) MotorMountable() bool { return traits[k].mountable }

// Assembly reports whether the kind's length is derived from its children.
func (k Kind) Assembly() bool { return traits[k].assembly }

// DefaultAxialMethod is the placement used by new components of this kind.
func (k Kind) DefaultAxialMethod() AxialMethod { return traits[k].method }
