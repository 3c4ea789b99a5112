package component_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/component"
)

var _ = Describe("Change notification", func() {
	var (
		t    *component.Tree
		root *component.Component
		body *component.Component
		rec  *recorder
	)

	BeforeEach(func() {
		t = newTree()
		root = t.Root()
		body = attach(t, root, component.KindBodyTube)
		rec = &recorder{}
		Expect(t.Subscribe("rec", rec)).To(Succeed())
	})

	It("publishes categories per setter", func() {
		Expect(body.SetName("Main tube")).To(Succeed())
		Expect(rec.last().Type).To(Equal(bus.NonFunctional))
		Expect(rec.last().Source).To(Equal(body.ID()))
		Expect(rec.last().SourceName).To(Equal("Main tube"))

		Expect(body.SetVisible(false)).To(Succeed())
		Expect(rec.last().Type).To(Equal(bus.Graphic))

		Expect(body.SetLength(0.4)).To(Succeed())
		Expect(rec.last().Type).To(Equal(bus.Both))

		Expect(body.SetMotorMount(true)).To(Succeed())
		Expect(rec.last().Type.Has(bus.Motor)).To(BeTrue())

		n := len(rec.events)
		Expect(body.SetLength(0.4)).To(Succeed())
		Expect(rec.events).To(HaveLen(n), "unchanged values publish nothing")
	})

	It("restores the default name for a blank one", func() {
		Expect(body.SetName("x")).To(Succeed())
		Expect(body.SetName("  ")).To(Succeed())
		Expect(body.Name()).To(Equal(component.KindBodyTube.DisplayName()))
	})

	Describe("batches", func() {
		It("delivers one combined event", func() {
			err := t.Batch(func() error {
				if err := body.SetName("Main"); err != nil {
					return err
				}
				return body.SetLength(0.5)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.events).To(HaveLen(1))
			Expect(rec.last().Type).To(Equal(bus.NonFunctional | bus.Both))
			Expect(rec.last().Batched).To(Equal(2))
		})

		It("releases the freeze when the batch fails", func() {
			boom := errors.New("boom")
			err := t.Batch(func() error {
				_ = body.SetName("Main")
				return boom
			})
			Expect(err).To(MatchError(boom))
			Expect(t.Bus().Frozen()).To(BeFalse())
			Expect(rec.events).To(HaveLen(1))
		})

		It("releases the freeze when the batch panics", func() {
			Expect(func() {
				_ = t.Batch(func() error {
					_ = body.SetName("Main")
					panic("boom")
				})
			}).To(PanicWith("boom"))
			Expect(t.Bus().Frozen()).To(BeFalse())
			Expect(rec.events).To(HaveLen(1))
		})

		It("nests freezes", func() {
			t.Freeze()
			t.Freeze()
			Expect(body.SetName("a")).To(Succeed())
			Expect(t.Thaw()).To(Succeed())
			Expect(rec.events).To(BeEmpty())
			Expect(t.Thaw()).To(Succeed())
			Expect(rec.events).To(HaveLen(1))
			Expect(t.Thaw()).To(MatchError(bus.ErrNotFrozen))
		})

		It("keeps counting modifications while frozen", func() {
			before := t.Bus().ModIDs().Mod
			t.Freeze()
			Expect(body.SetName("a")).To(Succeed())
			Expect(t.Bus().ModIDs().Mod).To(BeNumerically(">", before))
			Expect(t.Thaw()).To(Succeed())
		})
	})

	It("keeps bypassed components off the bus", func() {
		body.SetBypass(true)
		Expect(body.SetName("quiet")).To(Succeed())
		Expect(body.Name()).To(Equal("quiet"))
		Expect(rec.events).To(BeEmpty())
	})

	Describe("replicas", func() {
		var twin *component.Component

		BeforeEach(func() {
			twin = attach(t, root, component.KindBodyTube)
			ok, err := body.AddReplica(twin)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			rec.reset()
		})

		It("mirrors setters without double events", func() {
			Expect(body.SetLength(0.6)).To(Succeed())
			Expect(twin.Length()).To(Equal(0.6))
			Expect(twin.Bypass()).To(BeTrue())
			for _, e := range rec.events {
				Expect(e.Source).NotTo(Equal(twin.ID()))
			}
			Expect(body.Replicas()).To(Equal([]*component.Component{twin}))
		})

		It("refuses duplicates and chains", func() {
			ok, err := body.AddReplica(twin)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			third := attach(t, root, component.KindBodyTube)
			_, err = twin.AddReplica(third)
			Expect(err).To(MatchError(component.ErrBypassActive))
			_, err = third.AddReplica(body)
			Expect(err).To(MatchError(component.ErrReplicaChain))
		})

		It("releases replicas", func() {
			body.RemoveReplica(twin)
			Expect(twin.Bypass()).To(BeFalse())
			Expect(body.SetLength(0.7)).To(Succeed())
			Expect(twin.Length()).NotTo(Equal(0.7))
		})
	})

	Describe("traversal", func() {
		BeforeEach(func() {
			attach(t, body, component.KindInnerTube)
			attach(t, body, component.KindFinSet)
		})

		It("visits the subtree in pre-order", func() {
			var kinds []component.Kind
			Expect(root.Walk(true, func(c *component.Component) error {
				kinds = append(kinds, c.Kind())
				return nil
			})).To(Succeed())
			Expect(kinds).To(Equal([]component.Kind{
				component.KindRocket, component.KindBodyTube, component.KindInnerTube, component.KindFinSet,
			}))

			n := 0
			it := body.Iterator(false)
			for it.Next() {
				n++
			}
			Expect(it.Err()).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
		})

		It("fails fast on structural changes", func() {
			err := root.Walk(true, func(c *component.Component) error {
				if c == body {
					return body.AddChild(t.Create(component.KindMassComponent))
				}
				return nil
			})
			Expect(err).To(MatchError(component.ErrTreeModified))

			it := root.Iterator(true)
			Expect(it.Next()).To(BeTrue())
			_, err = body.RemoveChildAt(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(it.Next()).To(BeFalse())
			Expect(it.Err()).To(MatchError(component.ErrTreeModified))
		})

		It("fails fast on property changes", func() {
			visited := 0
			err := root.Walk(true, func(c *component.Component) error {
				visited++
				if c == body {
					if err := c.SetLength(0.5); err != nil {
						return err
					}
					return c.SetName("changed")
				}
				return nil
			})
			Expect(err).To(MatchError(component.ErrTreeModified))
			Expect(visited).To(Equal(2))

			it := root.Iterator(true)
			Expect(it.Next()).To(BeTrue())
			Expect(body.SetComment("seen")).To(Succeed())
			Expect(it.Next()).To(BeFalse())
			Expect(it.Err()).To(MatchError(component.ErrTreeModified))
		})
	})
})
