// Package flight models a flight configuration: which stages fly and which
// motors sit in which mounts.
package flight

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
)

// Motor is the motor loaded into a mount for one configuration.
type Motor struct {
	Designation string  `json:"designation" yaml:"designation"`
	Length      float64 `json:"length" yaml:"length"`
	Diameter    float64 `json:"diameter" yaml:"diameter"`
	MaxThrust   float64 `json:"max_thrust" yaml:"max_thrust"`
}

func (m Motor) String() string {
	return fmt.Sprintf("%s (%.3fm x %.3fm)", m.Designation, m.Length, m.Diameter)
}

// Configuration selects the active stages and motor occupancy. Every stage is
// active unless it was switched off.
type Configuration struct {
	id       uuid.UUID
	name     string
	inactive *roaring.Bitmap
	motors   map[uuid.UUID]Motor
}

func NewConfiguration(name string) *Configuration {
	return &Configuration{
		id:       uuid.New(),
		name:     name,
		inactive: roaring.New(),
		motors:   make(map[uuid.UUID]Motor),
	}
}

func (c *Configuration) ID() uuid.UUID { return c.id }

func (c *Configuration) Name() string { return c.name }

func (c *Configuration) IsStageActive(stage int) bool {
	if stage < 0 {
		return false
	}
	return !c.inactive.Contains(uint32(stage))
}

func (c *Configuration) SetStageActive(stage int, active bool) {
	if stage < 0 {
		return
	}
	if active {
		c.inactive.Remove(uint32(stage))
	} else {
		c.inactive.Add(uint32(stage))
	}
}

// SetOnlyStage activates stage and deactivates every other of count stages.
func (c *Configuration) SetOnlyStage(stage, count int) {
	c.inactive.Clear()
	for i := 0; i < count; i++ {
		if i != stage {
			c.inactive.Add(uint32(i))
		}
	}
}

// SetAllStages activates every stage.
func (c *Configuration) SetAllStages() {
	c.inactive.Clear()
}

// ActiveStages lists the active stage numbers below count.
func (c *Configuration) ActiveStages(count int) []int {
	all := roaring.New()
	all.AddRange(0, uint64(count))
	all.AndNot(c.inactive)
	out := make([]int, 0, all.GetCardinality())
	it := all.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// MountMotor loads m into the mount with the given component id.
func (c *Configuration) MountMotor(mount uuid.UUID, m Motor) {
	c.motors[mount] = m
}

func (c *Configuration) UnmountMotor(mount uuid.UUID) {
	delete(c.motors, mount)
}

func (c *Configuration) Motor(mount uuid.UUID) (Motor, bool) {
	m, ok := c.motors[mount]
	return m, ok
}

// Mounts returns the ids of occupied mounts in a stable order.
func (c *Configuration) Mounts() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.motors))
	for id := range c.motors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Clone returns an independent copy with a new id.
func (c *Configuration) Clone() *Configuration {
	cp := &Configuration{
		id:       uuid.New(),
		name:     c.name,
		inactive: c.inactive.Clone(),
		motors:   make(map[uuid.UUID]Motor, len(c.motors)),
	}
	for k, v := range c.motors {
		cp.motors[k] = v
	}
	return cp
}
