// Package vehicle assembles the two stage sample rocket used by the CLI and
// by tests that need a realistic tree.
package vehicle

import (
	"errors"
	"fmt"

	"github.com/san-kum/airframe/internal/component"
	"github.com/san-kum/airframe/internal/config"
	"github.com/san-kum/airframe/internal/flight"
)

// Sample points at the interesting parts of the sample rocket.
type Sample struct {
	Sustainer    *component.Component
	Booster      *component.Component
	Nose         *component.Component
	Payload      *component.Component
	Altimeter    *component.Component
	Body         *component.Component
	Fins         *component.Component
	Cluster      *component.Component
	Interstage   *component.Component
	BoosterBody  *component.Component
	BoosterFins  *component.Component
	BoosterMount *component.Component
}

var (
	SustainerMotor = flight.Motor{Designation: "C6-5", Length: 0.07, Diameter: 0.018, MaxThrust: 14.1}
	BoosterMotor   = flight.Motor{Designation: "D12-0", Length: 0.07, Diameter: 0.024, MaxThrust: 29.7}
)

type builder struct {
	tree *component.Tree
	cat  *config.Catalog
	errs []error
}

func (b *builder) check(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// part creates a named child of parent. A positive length is set before the
// preset loads so the preset stays attached.
func (b *builder) part(parent *component.Component, kind component.Kind, name, preset string, length float64) *component.Component {
	c := b.tree.Create(kind)
	b.check(c.SetName(name))
	if length > 0 {
		b.check(c.SetLength(length))
	}
	if preset != "" && b.cat != nil {
		if p := b.cat.Get(kind, preset); p != nil {
			b.check(c.LoadPreset(p))
		} else {
			b.check(fmt.Errorf("vehicle: no %s preset %q", kind, preset))
		}
	}
	b.check(parent.AddChild(c))
	return c
}

// BuildSample adds the sample rocket under the root of tree as one batch and
// loads its motors into the tree's configuration. A nil catalog skips the
// presets and leaves default geometry.
func BuildSample(tree *component.Tree, cat *config.Catalog) (*Sample, error) {
	b := &builder{tree: tree, cat: cat}
	s := &Sample{}
	err := tree.Batch(func() error {
		root := tree.Root()
		b.check(root.SetName("Sample"))

		s.Sustainer = b.part(root, component.KindStage, "Sustainer", "", 0)
		s.Nose = b.part(s.Sustainer, component.KindNoseCone, "Nose cone", "PNC-60AH", 0)
		s.Payload = b.part(s.Sustainer, component.KindBodyTube, "Payload bay", "BT-60", 0.15)
		s.Altimeter = b.part(s.Payload, component.KindMassComponent, "Altimeter", "altimeter", 0)
		b.check(s.Altimeter.SetAxial(component.AxialTop, 0.02))

		s.Body = b.part(s.Sustainer, component.KindBodyTube, "Sustainer body", "BT-60", 0.35)
		s.Fins = b.part(s.Body, component.KindFinSet, "Sustainer fins", "", 0.06)
		b.check(s.Fins.SetFinShape(0.03, 0.045, 0.0024))
		s.Cluster = b.part(s.Body, component.KindInnerTube, "Motor cluster", "BT-20", 0)
		b.check(s.Cluster.SetInstanceCount(3))
		b.check(s.Cluster.SetRadialOffset(0.0105))
		b.check(s.Cluster.SetMotorMount(true))

		s.Booster = b.part(root, component.KindStage, "Booster", "", 0)
		s.Interstage = b.part(s.Booster, component.KindTransition, "Interstage", "", 0.04)
		b.check(s.Interstage.SetForeRadius(0.0205))
		b.check(s.Interstage.SetAftRadius(0.033))
		s.BoosterBody = b.part(s.Booster, component.KindBodyTube, "Booster body", "BT-80", 0.25)
		s.BoosterFins = b.part(s.BoosterBody, component.KindFinSet, "Booster fins", "", 0.08)
		b.check(s.BoosterFins.SetInstanceCount(4))
		b.check(s.BoosterFins.SetFinShape(0.04, 0.06, 0.003))
		s.BoosterMount = b.part(s.BoosterBody, component.KindInnerTube, "Booster mount", "", 0.075)
		b.check(s.BoosterMount.SetOuterRadius(0.0125))
		b.check(s.BoosterMount.SetMotorMount(true))
		return errors.Join(b.errs...)
	})
	if err != nil {
		return nil, err
	}

	cfg := tree.Configuration()
	cfg.MountMotor(s.Cluster.ID(), SustainerMotor)
	cfg.MountMotor(s.BoosterMount.ID(), BoosterMotor)
	return s, nil
}
