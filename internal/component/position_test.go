package component_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/airframe/internal/component"
)

var _ = Describe("Axial positioning", func() {
	var (
		t     *component.Tree
		root  *component.Component
		nose  *component.Component
		body  *component.Component
		inner *component.Component
	)

	BeforeEach(func() {
		t = newTree()
		root = t.Root()
		nose = attach(t, root, component.KindNoseCone)
		body = attach(t, root, component.KindBodyTube)
		inner = attach(t, body, component.KindInnerTube)
	})

	It("places components after their predecessor", func() {
		Expect(nose.Position().X).To(BeZero())
		Expect(body.Position().X).To(BeNumerically("~", nose.Length(), 1e-12))
		Expect(body.Locations()[0].X).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("aligns inner components to the parent's aft end by default", func() {
		Expect(inner.AxialMethod()).To(Equal(component.AxialBottom))
		Expect(inner.Position().X).To(BeNumerically("~", body.Length()-inner.Length(), 1e-12))
	})

	DescribeTable("reads back the offset it was given",
		func(m component.AxialMethod) {
			Expect(inner.SetAxial(m, 0.02)).To(Succeed())
			Expect(inner.AxialMethod()).To(Equal(m))
			Expect(inner.AxialOffset()).To(BeNumerically("~", 0.02, 1e-9))
			Expect(inner.AxialOffsetAs(m)).To(BeNumerically("~", 0.02, 1e-9))
		},
		Entry("absolute", component.AxialAbsolute),
		Entry("after", component.AxialAfter),
		Entry("top", component.AxialTop),
		Entry("middle", component.AxialMiddle),
		Entry("bottom", component.AxialBottom),
	)

	It("keeps the component in place when the method changes", func() {
		Expect(inner.SetAxial(component.AxialTop, 0.04)).To(Succeed())
		methods := []component.AxialMethod{
			component.AxialMiddle, component.AxialBottom, component.AxialAfter,
			component.AxialAbsolute, component.AxialTop,
		}
		for _, m := range methods {
			before := inner.Locations()[0].X
			Expect(inner.SetAxialMethod(m)).To(Succeed())
			Expect(inner.Locations()[0].X).To(BeNumerically("~", before, 1e-9), m.String())
			t.Update()
			Expect(inner.Locations()[0].X).To(BeNumerically("~", before, 1e-9), m.String())
		}
		Expect(inner.AxialOffset()).To(BeNumerically("~", 0.04, 1e-9))
	})

	It("converts between methods with the documented formulas", func() {
		const pos, l, p = 0.1, 0.07, 0.3
		Expect(component.AxialMiddle.AsOffset(pos, l, p)).To(BeNumerically("~", pos+(l-p)/2, 1e-12))
		Expect(component.AxialBottom.AsOffset(pos, l, p)).To(BeNumerically("~", pos+(l-p), 1e-12))
		for _, m := range []component.AxialMethod{component.AxialTop, component.AxialMiddle, component.AxialBottom} {
			Expect(m.AsPosition(m.AsOffset(pos, l, p), l, p)).To(BeNumerically("~", pos, 1e-12))
		}
	})

	It("refuses to move the root", func() {
		Expect(root.SetAxialMethod(component.AxialTop)).To(MatchError(component.ErrUnsupported))
	})

	It("treats a NaN position as a broken invariant", func() {
		Expect(func() { _ = inner.SetAxialOffset(math.NaN()) }).
			To(PanicWith(BeAssignableToTypeOf(&component.InvariantError{})))
	})

	It("derives assembly lengths from their contents", func() {
		Expect(root.Length()).To(BeNumerically("~", nose.Length()+body.Length(), 1e-12))
		Expect(body.SetLength(0.5)).To(Succeed())
		Expect(root.Length()).To(BeNumerically("~", nose.Length()+0.5, 1e-12))
		Expect(root.SetLength(2)).To(MatchError(component.ErrUnsupported))
	})

	It("skips inactive stages when placing after a sibling", func() {
		tr := newTree()
		s0 := attach(tr, tr.Root(), component.KindStage)
		s1 := attach(tr, tr.Root(), component.KindStage)
		b0 := attach(tr, s0, component.KindBodyTube)
		attach(tr, s1, component.KindBodyTube)
		Expect(s0.Length()).To(BeNumerically("~", b0.Length(), 1e-12))
		Expect(s1.Position().X).To(BeNumerically("~", b0.Length(), 1e-12))

		cfg := tr.Configuration()
		cfg.SetStageActive(0, false)
		tr.SetConfiguration(cfg)
		Expect(s1.Position().X).To(BeZero())
		Expect(b0.Active()).To(BeFalse())

		cfg.SetAllStages()
		tr.SetConfiguration(cfg)
		Expect(s1.Position().X).To(BeNumerically("~", b0.Length(), 1e-12))
	})
})

var _ = Describe("Instances", func() {
	var (
		t      *component.Tree
		body   *component.Component
		pods   *component.Component
		pod    *component.Component
		engine *component.Component
	)

	BeforeEach(func() {
		t = newTree()
		body = attach(t, t.Root(), component.KindBodyTube)
		pods = attach(t, body, component.KindPodSet)
		pod = attach(t, pods, component.KindBodyTube)
		engine = attach(t, pod, component.KindInnerTube)
		Expect(engine.SetInstanceCount(3)).To(Succeed())
		Expect(engine.SetRadialOffset(0.01)).To(Succeed())
	})

	It("has one location per parent and own instance", func() {
		var check func(c *component.Component)
		check = func(c *component.Component) {
			want := c.InstanceCount()
			if p := c.Parent(); p != nil {
				want *= len(p.Locations())
			}
			Expect(c.Locations()).To(HaveLen(want), c.DebugName())
			Expect(c.Angles()).To(HaveLen(want), c.DebugName())
			for _, ch := range c.Children() {
				check(ch)
			}
		}
		check(t.Root())
		Expect(body.Locations()).To(HaveLen(1))
		Expect(engine.Locations()).To(HaveLen(6))
	})

	It("rotates own instances by the parent instance's roll", func() {
		locs := pod.Locations()
		Expect(locs[0].Y).To(BeNumerically("~", 0.05, 1e-12))
		Expect(locs[1].Y).To(BeNumerically("~", -0.05, 1e-12))

		eng := engine.Locations()
		// Parent instance p and own instance i sit at p + 2*i.
		Expect(eng[0].Y).To(BeNumerically("~", 0.06, 1e-12))
		Expect(eng[1].Y).To(BeNumerically("~", -0.06, 1e-12))
		Expect(eng[2].Y).To(BeNumerically("~", 0.05+0.01*math.Cos(2*math.Pi/3), 1e-12))
	})

	It("converts points for every instance", func() {
		abs := engine.ToAbsolute(r3.Vec{X: 0.01})
		Expect(abs).To(HaveLen(6))
		for i, loc := range engine.Locations() {
			Expect(abs[i].X).To(BeNumerically("~", loc.X+0.01, 1e-12))
		}

		rel, err := engine.ToRelative(r3.Vec{}, pod)
		Expect(err).NotTo(HaveOccurred())
		Expect(rel).To(HaveLen(12))
		rel, err = engine.ToRelative(r3.Vec{}, body)
		Expect(err).NotTo(HaveOccurred())
		Expect(rel).To(HaveLen(6))
		Expect(rel[0].Y).To(BeNumerically("~", 0.06, 1e-12))

		_, err = engine.ToRelative(r3.Vec{}, nil)
		Expect(err).To(MatchError(component.ErrNoDestination))
	})

	It("spreads fins evenly in roll", func() {
		fins := attach(t, body, component.KindFinSet)
		Expect(fins.SetInstanceCount(4)).To(Succeed())
		angles := fins.Angles()
		Expect(angles).To(HaveLen(4))
		for i, a := range angles {
			Expect(a.X).To(BeNumerically("~", float64(i)*math.Pi/2, 1e-12))
		}
	})

	It("rejects instance counts on single kinds", func() {
		Expect(body.SetInstanceCount(2)).To(MatchError(component.ErrUnsupported))
		Expect(body.InstanceCount()).To(Equal(1))
	})

	It("splits a multi-instance component into single copies", func() {
		fins := attach(t, body, component.KindFinSet)
		Expect(fins.SetOverridden(component.Mass, true)).To(Succeed())
		Expect(fins.SetOverrideMass(0.3)).To(Succeed())

		parts, err := fins.SplitInstances()
		Expect(err).NotTo(HaveOccurred())
		Expect(parts).To(HaveLen(3))
		Expect(fins.Parent()).To(BeNil())
		for i, p := range parts {
			Expect(p.Parent()).To(BeIdenticalTo(body))
			Expect(p.InstanceCount()).To(Equal(1))
			Expect(p.Mass()).To(BeNumerically("~", 0.1, 1e-12))
			Expect(p.AngleOffset()).To(BeNumerically("~", 2*math.Pi*float64(i)/3, 1e-12))
			Expect(p.ID()).NotTo(Equal(fins.ID()))
		}
		Expect(t.Validate()).To(BeEmpty())
	})
})
