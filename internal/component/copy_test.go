package component_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/component"
)

// outline is the comparable shape of a subtree.
type outline struct {
	Name     string
	Kind     string
	Length   float64
	Mass     float64
	Subtree  bool
	Children []outline
}

func outlineOf(c *component.Component) outline {
	o := outline{
		Name:    c.Name(),
		Kind:    c.Kind().String(),
		Length:  c.Length(),
		Mass:    c.Mass(),
		Subtree: c.SubtreeOverridden(component.Mass),
	}
	for _, ch := range c.Children() {
		o.Children = append(o.Children, outlineOf(ch))
	}
	return o
}

var _ = Describe("Copies", func() {
	var (
		t    *component.Tree
		root *component.Component
		body *component.Component
	)

	BeforeEach(func() {
		t = newTree()
		root = t.Root()
		body = attach(t, root, component.KindBodyTube)
		Expect(body.SetName("Sustainer")).To(Succeed())
		Expect(body.SetOverridden(component.Mass, true)).To(Succeed())
		Expect(body.SetOverrideMass(1.25)).To(Succeed())
		Expect(body.SetSubtreeOverridden(component.Mass, true)).To(Succeed())
		inner := attach(t, body, component.KindInnerTube)
		attach(t, inner, component.KindMassComponent)
		attach(t, body, component.KindFinSet)
	})

	It("keeps identities in an identity copy", func() {
		cp := body.CopyWithOriginalID()
		Expect(cp).NotTo(BeIdenticalTo(body))
		Expect(cp.Parent()).To(BeNil())
		Expect(cmp.Diff(outlineOf(body), outlineOf(cp))).To(BeEmpty())

		orig, copied := []*component.Component{}, []*component.Component{}
		Expect(body.Walk(true, func(c *component.Component) error { orig = append(orig, c); return nil })).To(Succeed())
		Expect(cp.Walk(true, func(c *component.Component) error { copied = append(copied, c); return nil })).To(Succeed())
		Expect(copied).To(HaveLen(len(orig)))
		for i := range orig {
			Expect(copied[i].ID()).To(Equal(orig[i].ID()))
			Expect(copied[i]).NotTo(BeIdenticalTo(orig[i]))
		}
	})

	It("regenerates identities in a deep copy", func() {
		cp := body.Copy()
		Expect(cmp.Diff(outlineOf(body), outlineOf(cp))).To(BeEmpty())
		Expect(cp.Walk(true, func(c *component.Component) error {
			_, found := root.FindComponent(c.ID())
			Expect(found).To(BeFalse())
			return nil
		})).To(Succeed())
	})

	It("points owners of the copy at the copy", func() {
		cp := body.Copy()
		for _, ch := range cp.Children() {
			Expect(ch.OverriddenBy(component.Mass)).To(BeIdenticalTo(cp))
		}
		Expect(t.Validate()).To(BeEmpty())
	})

	It("does not publish anything", func() {
		rec := &recorder{}
		Expect(t.Subscribe("rec", rec)).To(Succeed())
		body.Copy()
		Expect(rec.events).To(BeEmpty())
	})

	Describe("ReplaceFrom", func() {
		It("turns the root into the source and invalidates both old trees", func() {
			src := root.Copy()
			srcID := src.ID()
			Expect(src.Attach(t.Create(component.KindNoseCone), 0)).To(Succeed())
			want := outlineOf(src)
			old := root.Children()
			rec := &recorder{}
			Expect(t.Subscribe("rec", rec)).To(Succeed())

			Expect(root.ReplaceFrom(src)).To(Succeed())
			Expect(cmp.Diff(want, outlineOf(root))).To(BeEmpty())
			Expect(root.ID()).To(Equal(srcID))
			Expect(src.Invalidated()).To(BeTrue())
			for _, c := range old {
				Expect(c.Invalidated()).To(BeTrue())
			}
			Expect(rec.last().Type.Has(bus.Tree)).To(BeTrue())
			Expect(t.Validate()).To(BeEmpty())
		})

		It("rejects attached targets and other kinds", func() {
			Expect(body.ReplaceFrom(body.Copy())).To(MatchError(component.ErrNotRoot))
			Expect(root.ReplaceFrom(body.Copy())).To(MatchError(component.ErrIncompatible))
		})
	})
})
