package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/airframe/internal/component"
	"github.com/san-kum/airframe/internal/shape"
)

// PresetConfig is the file form of a preset.
type PresetConfig struct {
	Kind   string             `yaml:"kind"`
	Name   string             `yaml:"name"`
	Shape  string             `yaml:"shape,omitempty"`
	Filled bool               `yaml:"filled,omitempty"`
	Values map[string]float64 `yaml:"values"`
}

func (pc PresetConfig) resolve() (*Preset, error) {
	kind, err := component.ParseKind(pc.Kind)
	if err != nil {
		return nil, fmt.Errorf("config: preset %q: %w", pc.Name, err)
	}
	if pc.Name == "" {
		return nil, fmt.Errorf("config: %s preset without a name", kind)
	}
	p := &Preset{name: pc.Name, kind: kind, filled: pc.Filled, values: make(map[component.PresetKey]float64, len(pc.Values))}
	if pc.Shape != "" {
		s, err := shape.Parse(pc.Shape)
		if err != nil {
			return nil, fmt.Errorf("config: preset %q: %w", pc.Name, err)
		}
		p.shape, p.hasShape = s, true
	}
	for k, v := range pc.Values {
		p.values[component.PresetKey(k)] = v
	}
	return p, nil
}

// Preset is a catalog part. It satisfies component.Preset.
type Preset struct {
	name     string
	kind     component.Kind
	shape    shape.Shape
	hasShape bool
	filled   bool
	values   map[component.PresetKey]float64
}

func (p *Preset) Name() string { return p.name }

func (p *Preset) Kind() component.Kind { return p.kind }

func (p *Preset) Value(k component.PresetKey) (float64, bool) {
	v, ok := p.values[k]
	return v, ok
}

func (p *Preset) Shape() (shape.Shape, bool) { return p.shape, p.hasShape }

func (p *Preset) Filled() bool { return p.filled }

// Catalog indexes presets by kind and name.
type Catalog struct {
	byKind map[component.Kind]map[string]*Preset
}

func NewCatalog() *Catalog {
	return &Catalog{byKind: make(map[component.Kind]map[string]*Preset)}
}

func (c *Catalog) Add(p *Preset) {
	m, ok := c.byKind[p.kind]
	if !ok {
		m = make(map[string]*Preset)
		c.byKind[p.kind] = m
	}
	m[p.name] = p
}

func (c *Catalog) Get(kind component.Kind, name string) *Preset {
	m, ok := c.byKind[kind]
	if !ok {
		return nil
	}
	return m[name]
}

// List returns the preset names for kind in sorted order.
func (c *Catalog) List(kind component.Kind) []string {
	m, ok := c.byKind[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var Presets = []PresetConfig{
	{Kind: "nosecone", Name: "PNC-50", Shape: "ogive", Values: map[string]float64{
		"length": 0.127, "aft_radius": 0.0124, "thickness": 0.0016, "density": 1050,
		"shape_parameter": 1, "shoulder_length": 0.038, "shoulder_radius": 0.0115,
	}},
	{Kind: "nosecone", Name: "PNC-60AH", Shape: "haack", Values: map[string]float64{
		"length": 0.152, "aft_radius": 0.0205, "thickness": 0.0016, "density": 1050,
		"shoulder_length": 0.045, "shoulder_radius": 0.0196,
	}},
	{Kind: "nosecone", Name: "balsa-elliptical", Shape: "ellipsoid", Filled: true, Values: map[string]float64{
		"length": 0.05, "aft_radius": 0.0124, "density": 170,
	}},
	{Kind: "bodytube", Name: "BT-50", Values: map[string]float64{
		"outer_radius": 0.0124, "thickness": 0.0003, "density": 680,
	}},
	{Kind: "bodytube", Name: "BT-60", Values: map[string]float64{
		"outer_radius": 0.0205, "thickness": 0.0003, "density": 680,
	}},
	{Kind: "bodytube", Name: "BT-80", Values: map[string]float64{
		"outer_radius": 0.0330, "thickness": 0.0004, "density": 680,
	}},
	{Kind: "innertube", Name: "BT-20", Values: map[string]float64{
		"outer_radius": 0.0092, "thickness": 0.0003, "density": 680, "length": 0.07,
	}},
	{Kind: "transition", Name: "TA-5060", Shape: "conical", Values: map[string]float64{
		"length": 0.05, "fore_radius": 0.0124, "aft_radius": 0.0205, "thickness": 0.0016, "density": 1050,
		"shoulder_length": 0.02, "shoulder_radius": 0.0196,
	}},
	{Kind: "mass", Name: "altimeter", Values: map[string]float64{
		"length": 0.04, "outer_radius": 0.01, "mass": 0.012,
	}},
}

// BuiltinCatalog returns a fresh catalog holding Presets.
func BuiltinCatalog() *Catalog {
	cat := NewCatalog()
	for _, pc := range Presets {
		p, err := pc.resolve()
		if err != nil {
			panic(err)
		}
		cat.Add(p)
	}
	return cat
}

func GetPreset(kind component.Kind, name string) *Preset {
	return BuiltinCatalog().Get(kind, name)
}

func ListPresets(kind component.Kind) []string {
	return BuiltinCatalog().List(kind)
}
