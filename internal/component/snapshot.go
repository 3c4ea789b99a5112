package component

import "github.com/google/uuid"

// Row is the read-only state of one component at the time of a snapshot.
type Row struct {
	ID          uuid.UUID `json:"id"`
	Parent      uuid.UUID `json:"parent"`
	Depth       int       `json:"depth"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Instances   int       `json:"instances"`
	Length      float64   `json:"length"`
	Method      string    `json:"axial_method"`
	Offset      float64   `json:"axial_offset"`
	X           float64   `json:"x"`
	AbsoluteX   float64   `json:"absolute_x"`
	Mass        float64   `json:"mass"`
	SectionMass float64   `json:"section_mass"`
	CGX         float64   `json:"cg_x"`
	CD          float64   `json:"cd"`
	MassOwner   string    `json:"mass_owner,omitempty"`
	CGOwner     string    `json:"cg_owner,omitempty"`
	CDOwner     string    `json:"cd_owner,omitempty"`
	Preset      string    `json:"preset,omitempty"`
}

// Snapshot is a copy of the tree's derived values that stays valid while
// the tree keeps changing.
type Snapshot struct {
	ModID uint64 `json:"mod_id"`
	Rows  []Row  `json:"rows"`
}

// Snapshot captures every component of the rocket's tree in pre-order.
func (t *Tree) Snapshot() (Snapshot, error) {
	root := t.Root()
	defer root.mutex.lock(root, "Snapshot")()
	start := t.ModID()
	snap := Snapshot{ModID: start}
	var visit func(c *Component, depth int)
	visit = func(c *Component, depth int) {
		snap.Rows = append(snap.Rows, c.row(depth))
		for _, ch := range c.Children() {
			visit(ch, depth+1)
		}
	}
	visit(root, 0)
	if t.ModID() != start {
		return Snapshot{}, ErrTreeModified
	}
	return snap, nil
}

func (c *Component) row(depth int) Row {
	r := Row{
		ID:          c.id,
		Depth:       depth,
		Name:        c.name0(),
		Kind:        c.kind.String(),
		Instances:   c.instanceCount,
		Length:      c.length,
		Method:      c.axialMethod.String(),
		Offset:      c.axialOffset,
		X:           c.position.X,
		AbsoluteX:   c.Locations()[0].X,
		Mass:        c.Mass(),
		SectionMass: c.SectionMass(),
		CGX:         c.CG().X,
		CD:          c.CD(),
		Preset:      c.PresetName(),
	}
	if p := c.Parent(); p != nil {
		r.Parent = p.id
	}
	if o := c.OverriddenBy(Mass); o != nil {
		r.MassOwner = o.name0()
	}
	if o := c.OverriddenBy(CG); o != nil {
		r.CGOwner = o.name0()
	}
	if o := c.OverriddenBy(CD); o != nil {
		r.CDOwner = o.name0()
	}
	return r
}
