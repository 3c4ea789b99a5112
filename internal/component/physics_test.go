package component_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/airframe/internal/component"
	"github.com/san-kum/airframe/internal/geom"
	"github.com/san-kum/airframe/internal/shape"
)

var _ = Describe("Native mass properties", func() {
	var (
		t    *component.Tree
		root *component.Component
	)

	BeforeEach(func() {
		t = newTree()
		root = t.Root()
	})

	It("computes a tube as a ring", func() {
		body := attach(t, root, component.KindBodyTube)
		want := math.Pi * (geom.Pow2(0.025) - geom.Pow2(0.0245)) * 0.3 * 680
		Expect(body.ComponentMass()).To(BeNumerically("~", want, 1e-12))
		cg := body.ComponentCG()
		Expect(cg.X).To(BeNumerically("~", 0.15, 1e-12))
		Expect(cg.Weight).To(BeNumerically("~", want, 1e-12))

		Expect(body.SetFilled(true)).To(Succeed())
		Expect(body.ComponentMass()).To(BeNumerically(">", want))
	})

	It("multiplies clustered tubes", func() {
		body := attach(t, root, component.KindBodyTube)
		inner := attach(t, body, component.KindInnerTube)
		single := inner.ComponentMass()
		Expect(inner.SetInstanceCount(4)).To(Succeed())
		Expect(inner.ComponentMass()).To(BeNumerically("~", 4*single, 1e-12))
	})

	It("computes trapezoidal fins", func() {
		body := attach(t, root, component.KindBodyTube)
		fins := attach(t, body, component.KindFinSet)
		Expect(fins.ComponentMass()).To(BeNumerically("~", 0.002*0.003*3*170, 1e-12))
		Expect(fins.ComponentCG().X).To(BeNumerically("~", 0.0049/0.24, 1e-12))
		Expect(fins.SetFinShape(0.05, 0.05, 0.003)).To(Succeed())
		Expect(fins.ComponentCG().X).To(BeNumerically("~", 0.025, 1e-12))
	})

	It("uses the item mass of a mass component", func() {
		body := attach(t, root, component.KindBodyTube)
		payload := attach(t, body, component.KindMassComponent)
		Expect(payload.SetItemMass(0.2)).To(Succeed())
		Expect(payload.ComponentMass()).To(Equal(0.2))
		Expect(payload.ComponentCG().X).To(BeNumerically("~", payload.Length()/2, 1e-12))
		Expect(payload.SetDensity(10)).To(MatchError(component.ErrUnsupported))
	})

	It("gives assemblies no mass of their own", func() {
		stage := attach(t, root, component.KindStage)
		attach(t, stage, component.KindBodyTube)
		Expect(stage.ComponentMass()).To(BeZero())
		Expect(stage.SectionMass()).To(BeNumerically(">", 0))
	})

	Describe("profiled bodies", func() {
		var tr *component.Component

		BeforeEach(func() {
			tr = attach(t, root, component.KindTransition)
		})

		It("adds shoulders behind the body", func() {
			m0 := tr.ComponentMass()
			cg0 := tr.ComponentCG().X
			Expect(m0).To(BeNumerically(">", 0))

			sh := component.Shoulder{Radius: 0.019, Length: 0.03, Thickness: 0.001, Capped: true}
			Expect(tr.SetAftShoulder(sh)).To(Succeed())
			Expect(tr.AftShoulder()).To(Equal(sh))
			Expect(tr.ComponentMass()).To(BeNumerically(">", m0))
			Expect(tr.ComponentCG().X).To(BeNumerically(">", cg0))
			Expect(tr.LongitudinalUnitInertia()).To(BeNumerically(">", 0))
		})

		It("ignores shoulders shorter than a feature", func() {
			m0 := tr.ComponentMass()
			Expect(tr.SetForeShoulder(component.Shoulder{Radius: 0.024, Length: geom.MinFeature / 2, Thickness: 0.001, Capped: true})).To(Succeed())
			Expect(tr.ComponentMass()).To(BeNumerically("~", m0, 1e-15))
		})

		It("resolves a massless body to a zero state", func() {
			Expect(tr.SetAftShoulder(component.Shoulder{Radius: 0.019, Length: 0.03, Thickness: 0.001, Capped: true})).To(Succeed())
			Expect(tr.SetDensity(0)).To(Succeed())
			Expect(tr.ComponentMass()).To(BeZero())
			cg := tr.ComponentCG()
			Expect(cg.IsNaN()).To(BeFalse())
			Expect(cg).To(Equal(geom.Zero))
			Expect(tr.LongitudinalUnitInertia()).To(BeZero())
			Expect(tr.RotationalUnitInertia()).To(BeZero())
		})

		It("clips the profile so the small end keeps its radius", func() {
			Expect(tr.SetForeRadius(0.01)).To(Succeed())
			Expect(tr.SetAftRadius(0.03)).To(Succeed())
			Expect(tr.SetShape(shape.Ellipsoid)).To(Succeed())
			Expect(tr.Clipped()).To(BeTrue())
			Expect(tr.ClipLength()).To(BeNumerically(">", 0))
			Expect(tr.Radius(0)).To(BeNumerically("~", 0.01, 1e-3))
			Expect(tr.Radius(tr.Length())).To(Equal(0.03))

			Expect(tr.SetClipped(false)).To(Succeed())
			Expect(tr.ClipLength()).To(BeZero())
		})

		It("clamps the shape parameter into the family's range", func() {
			nose := t.Create(component.KindNoseCone)
			Expect(nose.ShapeParameter()).To(Equal(1.0))
			Expect(nose.SetShape(shape.Haack)).To(Succeed())
			Expect(nose.ShapeParameter()).To(BeNumerically("~", 1.0/3, 1e-12))
			Expect(nose.SetShapeParameter(5)).To(Succeed())
			Expect(nose.ShapeParameter()).To(BeNumerically("~", 1.0/3, 1e-12))
			Expect(nose.SetForeRadius(0.01)).To(MatchError(component.ErrUnsupported))
		})
	})

	It("rejects geometry a kind does not have", func() {
		body := attach(t, root, component.KindBodyTube)
		fins := attach(t, body, component.KindFinSet)
		Expect(body.SetShape(shape.Ogive)).To(MatchError(component.ErrUnsupported))
		Expect(fins.SetThickness(0.01)).To(MatchError(component.ErrUnsupported))
		Expect(body.SetFinShape(0.1, 0.1, 0.1)).To(MatchError(component.ErrUnsupported))
	})
})
