// Package visualize renders hsmx machines for humans: Graphviz DOT source and a
// terminal tree with the active path highlighted.
package visualize

import (
	"bytes"
	"fmt"

	"github.com/comalice/hsmx"
)

// DOT generates Graphviz DOT source for the machine's state tree. Composite states
// become clusters, states on the active path are filled, and transitions declared
// through hsmx.Builder become edges.
func DOT(m *hsmx.Machine) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Statechart {
  rankdir=LR;
  compound=true;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	renderState(&buf, m, m.Root(), "  ")

	for _, edge := range m.Edges() {
		label := string(edge.Event)
		if edge.Guarded {
			label += " [guard]"
		}
		switch edge.Mode {
		case hsmx.HistoryShallow:
			label += " [H]"
		case hsmx.HistoryDeep:
			label += " [H*]"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(edge.From), nodeID(edge.To), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderState recursively renders states and subgraphs.
func renderState(buf *bytes.Buffer, m *hsmx.Machine, s *hsmx.State, indent string) {
	style := ""
	if m.IsActive(s) {
		style = " style=\"rounded,filled\" fillcolor=lightgreen"
	}

	if s.IsLeaf() {
		fmt.Fprintf(buf, "%s%q [label=%q%s];\n", indent, nodeID(s), s.Name(), style)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+nodeID(s))
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, s.Name())
	if m.IsActive(s) {
		fmt.Fprintf(buf, "%s  style=filled; fillcolor=honeydew;\n", indent)
	}
	// Composite states keep a node of their own so edges can target them.
	shape := "ellipse"
	if s.Initial() != nil {
		shape = "doublecircle"
	}
	fmt.Fprintf(buf, "%s  %q [label=%q shape=%s%s];\n", indent, nodeID(s), s.Name(), shape, style)
	for _, child := range s.Children() {
		renderState(buf, m, child, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func nodeID(s *hsmx.State) string {
	if s.Parent() == nil {
		return s.Name()
	}
	return s.Root().Name() + "." + s.Path()
}
