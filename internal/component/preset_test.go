package component_test

import (
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/airframe/internal/component"
	"github.com/san-kum/airframe/internal/flight"
	"github.com/san-kum/airframe/internal/shape"
)

type fakePreset struct {
	name   string
	kind   component.Kind
	values map[component.PresetKey]float64
	shape  shape.Shape
	shaped bool
}

func (p fakePreset) Name() string { return p.name }

func (p fakePreset) Kind() component.Kind { return p.kind }

func (p fakePreset) Filled() bool { return false }

func (p fakePreset) Shape() (shape.Shape, bool) { return p.shape, p.shaped }

func (p fakePreset) Value(k component.PresetKey) (float64, bool) {
	v, ok := p.values[k]
	return v, ok
}

var _ = Describe("Presets", func() {
	var (
		t    *component.Tree
		body *component.Component
		rec  *recorder
	)

	BeforeEach(func() {
		t = newTree()
		body = attach(t, t.Root(), component.KindBodyTube)
		rec = &recorder{}
		Expect(t.Subscribe("rec", rec)).To(Succeed())
	})

	It("applies every value as one change", func() {
		p := fakePreset{name: "BT-60", kind: component.KindBodyTube, values: map[component.PresetKey]float64{
			component.PresetLength:      0.5,
			component.PresetOuterRadius: 0.0415,
			component.PresetMass:        0.2,
		}}
		Expect(body.LoadPreset(p)).To(Succeed())
		Expect(body.Length()).To(Equal(0.5))
		Expect(body.OuterRadius()).To(Equal(0.0415))
		Expect(body.Mass()).To(Equal(0.2))
		Expect(body.PresetName()).To(Equal("BT-60"))
		Expect(rec.events).To(HaveLen(1))

		Expect(body.SetLength(0.6)).To(Succeed())
		Expect(body.PresetName()).To(BeEmpty())
	})

	It("sets the item mass of a mass component", func() {
		m := attach(t, body, component.KindMassComponent)
		p := fakePreset{name: "altimeter", kind: component.KindMassComponent, values: map[component.PresetKey]float64{
			component.PresetMass: 0.012,
		}}
		Expect(m.LoadPreset(p)).To(Succeed())
		Expect(m.ItemMass()).To(Equal(0.012))
		Expect(m.Overridden(component.Mass)).To(BeFalse())
	})

	It("shapes profiled bodies", func() {
		nose := attach(t, t.Root(), component.KindNoseCone)
		p := fakePreset{name: "PNC-60", kind: component.KindNoseCone, shape: shape.Haack, shaped: true,
			values: map[component.PresetKey]float64{
				component.PresetAftRadius:      0.0415,
				component.PresetShoulderLength: 0.04,
				component.PresetShoulderRadius: 0.04,
			}}
		Expect(nose.LoadPreset(p)).To(Succeed())
		Expect(nose.Shape()).To(Equal(shape.Haack))
		Expect(nose.AftShoulder().Length).To(Equal(0.04))
		Expect(nose.Preset()).To(Equal(p))
		Expect(nose.ClearPreset()).To(Succeed())
		Expect(nose.Preset()).To(BeNil())
	})

	It("refuses presets of another kind", func() {
		p := fakePreset{name: "x", kind: component.KindNoseCone}
		Expect(body.LoadPreset(p)).To(MatchError(component.ErrPresetKind))
	})
})

var _ = Describe("Diagnostics", func() {
	var (
		t     *component.Tree
		body  *component.Component
		inner *component.Component
	)

	BeforeEach(func() {
		t = newTree()
		body = attach(t, t.Root(), component.KindBodyTube)
		inner = attach(t, body, component.KindInnerTube)
	})

	It("names components for logs", func() {
		Expect(body.DebugName()).To(MatchRegexp(`^Body tube<bodytube>\([0-9a-f]{8}\)$`))
		Expect(t.Root().DebugString()).To(HavePrefix(`rocket@`))
		Expect(t.Root().DebugString()).To(ContainSubstring(`"Inner tube"`))
	})

	It("dumps the tree with mounted motors", func() {
		Expect(inner.SetMotorMount(true)).To(Succeed())
		dump := t.Root().DebugTree()
		Expect(dump).To(ContainSubstring("doesn't have any motors"))

		t.Configuration().MountMotor(inner.ID(), flight.Motor{Designation: "D12-5", Length: 0.07, Diameter: 0.024, MaxThrust: 29.7})
		dump = t.Root().DebugTree()
		Expect(dump).To(ContainSubstring("....Inner tube (x1)"))
		Expect(dump).To(ContainSubstring("D12-5"))
		Expect(dump).To(ContainSubstring("Thrust: 29.7"))
		Expect(regexp.MustCompile(`(?m)^\.{8}Inner tube`).MatchString(dump)).To(BeTrue())
		Expect(strings.Count(dump, "\n")).To(BeNumerically(">=", 6))
	})

	It("snapshots derived values", func() {
		Expect(body.SetOverridden(component.Mass, true)).To(Succeed())
		Expect(body.SetSubtreeOverridden(component.Mass, true)).To(Succeed())
		snap, err := t.Snapshot()
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Rows).To(HaveLen(3))
		Expect(snap.Rows[0].Kind).To(Equal("rocket"))
		Expect(snap.Rows[2].Depth).To(Equal(2))
		Expect(snap.Rows[2].MassOwner).To(Equal("Body tube"))
		Expect(snap.Rows[2].Parent).To(Equal(body.ID()))
	})
})
