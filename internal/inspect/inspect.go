// Package inspect is an interactive terminal inspector for a component tree.
// It lists the tree with effective values and override owners, toggles
// overrides from the keyboard and shows the change events they cause.
package inspect

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/airframe/internal/bus"
	"github.com/san-kum/airframe/internal/component"
)

const (
	listenerID = "inspect"
	maxEvents  = 8
)

// eventLog is shared between model copies and receives bus events.
type eventLog struct {
	events []bus.Event
}

func (l *eventLog) ComponentChanged(e bus.Event) {
	l.events = append(l.events, e)
	if len(l.events) > maxEvents {
		l.events = l.events[len(l.events)-maxEvents:]
	}
}

type row struct {
	c     *component.Component
	depth int
}

type Model struct {
	tree    *component.Tree
	log     *eventLog
	rows    []row
	cursor  int
	editing bool
	editQ   component.Quantity
	editBuf string
	status  string
	width   int
}

// New subscribes the inspector to the tree's bus. Call Close when done.
func New(tree *component.Tree) (Model, error) {
	m := Model{tree: tree, log: &eventLog{}, width: 80}
	if err := tree.Subscribe(listenerID, m.log); err != nil {
		return Model{}, err
	}
	m.refresh()
	return m, nil
}

func (m Model) Close() error { return m.tree.Unsubscribe(listenerID) }

// Run starts the full screen program and blocks until the user quits.
func Run(tree *component.Tree) error {
	m, err := New(tree)
	if err != nil {
		return err
	}
	defer m.Close()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) refresh() {
	m.rows = m.rows[:0]
	var visit func(c *component.Component, depth int)
	visit = func(c *component.Component, depth int) {
		m.rows = append(m.rows, row{c: c, depth: depth})
		for _, ch := range c.Children() {
			visit(ch, depth+1)
		}
	}
	visit(m.tree.Root(), 0)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

// Selected returns the component under the cursor.
func (m Model) Selected() *component.Component { return m.rows[m.cursor].c }

func (m Model) Cursor() int { return m.cursor }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg), nil
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

var quantityKeys = map[string]component.Quantity{
	"m": component.Mass, "g": component.CG, "d": component.CD,
	"M": component.Mass, "G": component.CG, "D": component.CD,
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "m", "g", "d":
		q := quantityKeys[key]
		c := m.Selected()
		m.report(c.SetOverridden(q, !c.Overridden(q)))
	case "M", "G", "D":
		q := quantityKeys[key]
		c := m.Selected()
		m.report(c.SetSubtreeOverridden(q, !c.SubtreeOverridden(q)))
	case "a":
		c := m.Selected()
		m.report(c.SetAllSubtreeOverridden(!c.SubtreeOverridden(component.Mass)))
	case "1", "2", "3":
		m.editQ = component.Quantity(key[0] - '1')
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.overrideValue(m.editQ), 'g', 6, 64)
	}
	m.refresh()
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		v, err := strconv.ParseFloat(m.editBuf, 64)
		if err != nil {
			m.status = "not a number: " + m.editBuf
		} else {
			m.report(m.setOverrideValue(m.editQ, v))
		}
		m.editing, m.editBuf = false, ""
	case "esc":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += s
			}
		}
	}
	return m
}

func (m Model) overrideValue(q component.Quantity) float64 {
	c := m.Selected()
	switch q {
	case component.Mass:
		return c.OverrideMass()
	case component.CG:
		return c.OverrideCGX()
	}
	return c.OverrideCD()
}

func (m Model) setOverrideValue(q component.Quantity, v float64) error {
	c := m.Selected()
	switch q {
	case component.Mass:
		return c.SetOverrideMass(v)
	case component.CG:
		return c.SetOverrideCGX(v)
	}
	return c.SetOverrideCD(v)
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m Model) View() string {
	var sb strings.Builder
	ids := m.tree.Bus().ModIDs()
	sb.WriteString(title.Render("airframe inspector"))
	sb.WriteString(dim.Render(fmt.Sprintf("  mod %d  tree %d  mass %d  aero %d", ids.Mod, ids.Tree, ids.Mass, ids.Aero)))
	sb.WriteString("\n\n")

	for i, r := range m.rows {
		sb.WriteString(m.renderRow(r, i == m.cursor))
		sb.WriteByte('\n')
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderDetail())
	sb.WriteString("\n")
	sb.WriteString(separator(m.width - 4))
	sb.WriteString("\n")
	sb.WriteString(m.renderEvents())

	if m.editing {
		sb.WriteString("\n" + yellow.Render(fmt.Sprintf("%s override: %s_", m.editQ, m.editBuf)))
	}
	if m.status != "" {
		sb.WriteString("\n" + red.Render(m.status))
	}
	sb.WriteString("\n" + keyHint.Render("j/k move  m/g/d override  M/G/D subtree  a all  1/2/3 edit value  q quit"))
	return sb.String()
}

func (m Model) renderRow(r row, cur bool) string {
	c := r.c
	flags := flag("m", c.Overridden(component.Mass), c.SubtreeOverridden(component.Mass)) +
		flag("g", c.Overridden(component.CG), c.SubtreeOverridden(component.CG)) +
		flag("d", c.Overridden(component.CD), c.SubtreeOverridden(component.CD))
	name := strings.Repeat("  ", r.depth) + c.Name()
	if n := c.InstanceCount(); n > 1 {
		name += fmt.Sprintf(" ×%d", n)
	}
	line := fmt.Sprintf("%-32s %9.4f kg  cg %7.4f", name, c.SectionMass(), c.CG().X)
	if cur {
		return flags + " " + selected.Render(line)
	}
	if !c.Active() {
		return flags + " " + dim.Render(line)
	}
	return flags + " " + white.Render(line)
}

func (m Model) renderDetail() string {
	c := m.Selected()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", cyan.Render(c.Kind().DisplayName()), c.DebugName())
	fmt.Fprintf(&sb, "axial %s %+.4f  x %.4f  length %.4f\n", c.AxialMethod(), c.AxialOffset(), c.Locations()[0].X, c.Length())
	fmt.Fprintf(&sb, "mass %.4f  cg %.4f  cd %.4f", c.Mass(), c.CG().X, c.CD())
	for _, q := range []component.Quantity{component.Mass, component.CG, component.CD} {
		if o := c.OverriddenBy(q); o != nil {
			fmt.Fprintf(&sb, "\n%s owned by %s", q, magenta.Render(o.Name()))
		}
	}
	if p := c.PresetName(); p != "" {
		fmt.Fprintf(&sb, "\npreset %s", p)
	}
	return panel.Render(sb.String())
}

func (m Model) renderEvents() string {
	if len(m.log.events) == 0 {
		return dim.Render("no events")
	}
	lines := make([]string, 0, len(m.log.events))
	for _, e := range m.log.events {
		lines = append(lines, fmt.Sprintf("#%d %-20s %s", e.ModID, e.SourceName, e.Type))
	}
	return strings.Join(lines, "\n")
}
