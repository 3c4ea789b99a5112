package component

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/geom"
	"github.com/san-kum/airframe/internal/shape"
)

// Shoulder is a cylindrical extension at one end of a profiled body.
type Shoulder struct {
	Radius    float64 `json:"radius" yaml:"radius"`
	Length    float64 `json:"length" yaml:"length"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
	Capped    bool    `json:"capped" yaml:"capped"`
}

// Component is one node of the tree. Structural links are handles into the
// owning tree's arena.
type Component struct {
	tree *Tree
	self Handle
	kind Kind
	id   uuid.UUID

	parent   Handle
	children []Handle

	name    string
	comment string
	visible bool

	length      float64
	axialMethod AxialMethod
	axialOffset float64
	position    r3.Vec

	mass override
	cg   override
	cd   override

	bypass   bool
	replicas []Handle
	preset   Preset
	invalid  bool
	mutex    *raceLock

	// Body geometry. Profiled kinds keep their radii in profile.
	outerRadius float64
	thickness   float64
	filled      bool
	density     float64
	profile     shape.Profile
	foreSh      Shoulder
	aftSh       Shoulder

	instanceCount int
	radialOffset  float64
	angleOffset   float64

	tipChord     float64
	finHeight    float64
	finThickness float64

	itemMass   float64
	motorMount bool

	props *geom.MassProperties
}

func newComponent(t *Tree, kind Kind) *Component {
	c := &Component{
		tree:          t,
		kind:          kind,
		id:            uuid.New(),
		visible:       true,
		axialMethod:   kind.DefaultAxialMethod(),
		instanceCount: 1,
	}
	c.mutex = &raceLock{enabled: t.raceDetection}
	c.applyDefaults()
	return c
}

func (c *Component) applyDefaults() {
	switch c.kind {
	case KindNoseCone:
		c.length = 0.1
		c.profile = shape.Profile{Shape: shape.Ogive, Param: shape.Ogive.DefaultParameter(), AftRadius: 0.025}
		c.thickness = 0.002
		c.density = 1050
	case KindTransition:
		c.length = 0.1
		c.profile = shape.Profile{Shape: shape.Conical, ForeRadius: 0.025, AftRadius: 0.02}
		c.thickness = 0.002
		c.density = 1050
	case KindBodyTube:
		c.length = 0.3
		c.outerRadius = 0.025
		c.thickness = 0.0005
		c.density = 680
	case KindInnerTube:
		c.length = 0.07
		c.outerRadius = 0.0095
		c.thickness = 0.0005
		c.density = 680
	case KindFinSet:
		c.instanceCount = 3
		c.length = 0.05
		c.tipChord = 0.03
		c.finHeight = 0.05
		c.finThickness = 0.003
		c.density = 170
	case KindMassComponent:
		c.length = 0.025
		c.outerRadius = 0.0125
		c.itemMass = 0.01
	case KindPodSet:
		c.instanceCount = 2
		c.radialOffset = 0.05
	}
	c.profile.Length = c.length
}

// Handle returns the arena handle of c.
func (c *Component) Handle() Handle { return c.self }

func (c *Component) Tree() *Tree { return c.tree }

func (c *Component) Kind() Kind { return c.kind }

func (c *Component) ID() uuid.UUID { return c.id }

// Invalidated reports whether c was released or replaced.
func (c *Component) Invalidated() bool { return c.invalid }

// checkState rejects use of an invalidated component and detects access
// racing a locked read.
func (c *Component) checkState() error {
	if c.invalid {
		return ErrInvalidated
	}
	c.mutex.verify(c)
	return nil
}

// Name returns the display name.
func (c *Component) Name() string { return c.name0() }

func (c *Component) name0() string {
	if c.name == "" {
		return c.kind.DisplayName()
	}
	return c.name
}

// SetName sets the display name. A blank name restores the kind's default.
func (c *Component) SetName(name string) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetName(name) })
	if err := c.checkState(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == c.kind.DisplayName() {
		name = ""
	}
	if name == c.name {
		return errs
	}
	c.name = name
	c.fire(bus.NonFunctional)
	return errs
}

func (c *Component) Comment() string { return c.comment }

func (c *Component) SetComment(s string) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetComment(s) })
	if err := c.checkState(); err != nil {
		return err
	}
	if s == c.comment {
		return errs
	}
	c.comment = s
	c.fire(bus.NonFunctional)
	return errs
}

func (c *Component) Visible() bool { return c.visible }

func (c *Component) SetVisible(v bool) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetVisible(v) })
	if err := c.checkState(); err != nil {
		return err
	}
	if v == c.visible {
		return errs
	}
	c.visible = v
	c.fire(bus.Graphic)
	return errs
}

// Length is the characteristic length used for placement, for example the
// length of a tube or the root chord of a fin. Assemblies derive it from
// their children.
func (c *Component) Length() float64 {
	return c.length
}

// SetLength changes the characteristic length of a non-assembly component.
func (c *Component) SetLength(l float64) error {
	errs := c.eachReplica(func(r *Component) error { return r.SetLength(l) })
	if err := c.checkState(); err != nil {
		return err
	}
	if c.kind.Assembly() {
		return ErrUnsupported
	}
	l = math.Max(l, 0)
	if geom.Equals(l, c.length) {
		return errs
	}
	c.length = l
	c.profile.Length = l
	c.clearPreset()
	c.fire(bus.Both)
	return errs
}

func (c *Component) MotorMount() bool { return c.motorMount }

// SetMotorMount marks c as a mount that carries a motor in flight
// configurations.
func (c *Component) SetMotorMount(on bool) error {
	if err := c.checkState(); err != nil {
		return err
	}
	if !c.kind.MotorMountable() {
		return ErrUnsupported
	}
	if on == c.motorMount {
		return nil
	}
	c.motorMount = on
	c.fire(bus.Motor | bus.Both)
	return nil
}

func (c *Component) Aerodynamic() bool { return c.kind.Aerodynamic() }

func (c *Component) Massive() bool { return c.kind.Massive() }

func (c *Component) String() string { return c.name0() }
