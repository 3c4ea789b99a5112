package component

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// DebugName identifies c in logs and error messages.
func (c *Component) DebugName() string {
	return fmt.Sprintf("%s<%s>(%s)", c.name0(), c.kind, c.id.String()[:8])
}

// DebugString renders c's subtree on a single line.
func (c *Component) DebugString() string {
	defer c.mutex.lock(c, "DebugString")()
	var sb strings.Builder
	c.debugString(&sb)
	return sb.String()
}

func (c *Component) debugString(sb *strings.Builder) {
	fmt.Fprintf(sb, "%s@%v[%q", c.kind, c.self, c.name0())
	for _, ch := range c.Children() {
		sb.WriteString("; ")
		ch.debugString(sb)
	}
	sb.WriteByte(']')
}

const debugRule = "   ====== ====== ====== ====== ====== ====== ====== ====== ====== ======\n"

// DebugTree renders c's subtree one component per line with length,
// relative and absolute positions, and the motors of active mounts in the
// selected flight configuration.
func (c *Component) DebugTree() string {
	defer c.mutex.lock(c, "DebugTree")()
	var sb strings.Builder
	sb.WriteString("\n" + debugRule)
	sb.WriteString("     [Name]                               [Length]          [Rel Pos]                [Abs Pos]\n")
	c.debugTree(&sb, "")
	sb.WriteString(debugRule)
	return sb.String()
}

func (c *Component) debugTree(sb *strings.Builder, indent string) {
	c.debugNode(sb, indent)
	for _, ch := range c.Children() {
		ch.debugTree(sb, indent+"....")
	}
}

func (c *Component) debugNode(sb *strings.Builder, indent string) {
	prefix := fmt.Sprintf("%s%s (x%d)", indent, c.name0(), c.instanceCount)
	locs := c.Locations()
	rel := c.Position()
	if c.instanceCount == 1 {
		fmt.Fprintf(sb, "%-40s|  %5.3f; %24s; %24s; ", prefix, c.length, rel, fmtVec(locs[0]))
		fmt.Fprintf(sb, "(offset: %4.1f  via: %s )\n", c.axialOffset, c.axialMethod)
	} else {
		fmt.Fprintf(sb, "%-40s (cluster: %d )", prefix, c.instanceCount)
		fmt.Fprintf(sb, "(offset: %4.1f  via: %s )\n", c.axialOffset, c.axialMethod)
		for i, loc := range locs {
			ip := fmt.Sprintf("%s    [%2d/%2d]", indent, i+1, len(locs))
			fmt.Fprintf(sb, "%-40s|  %5.3f; %24s; %24s;\n", ip, c.length, rel, fmtVec(loc))
		}
	}
	if c.motorMount {
		c.debugMount(sb, indent)
	}
}

func (c *Component) debugMount(sb *strings.Builder, indent string) {
	m, ok := c.tree.config.Motor(c.id)
	if !ok {
		sb.WriteString(indent + "    [X] This instance doesn't have any motors for the active configuration.\n")
		return
	}
	offset := c.length - m.Length
	fmt.Fprintf(sb, "%-40sThrust: %f N;\n", fmt.Sprintf("%s    [ */%2d]", indent, c.instanceCount), m.MaxThrust)
	for i, loc := range c.Locations() {
		ip := fmt.Sprintf("%s    [%2d/%2d]", indent, i+1, c.instanceCount)
		fmt.Fprintf(sb, "%-40s|  %-10s %5.3f; %24s;\n", ip, m.Designation, m.Length, fmtVec(r3.Add(loc, r3.Vec{X: offset})))
	}
}

func fmtVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
