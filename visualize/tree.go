package visualize

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/comalice/hsmx"
)

// ActiveMarker prefixes states on the active path in Tree output.
const ActiveMarker = "●"

var (
	colorGreen    = lipgloss.Color("82")
	colorGray     = lipgloss.Color("250")
	colorDarkGray = lipgloss.Color("240")

	activeStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	inactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	kindStyle     = lipgloss.NewStyle().Foreground(colorDarkGray).Italic(true)
	branchStyle   = lipgloss.NewStyle().Foreground(colorDarkGray)
)

// Tree renders the machine's state tree for a terminal, marking the active path.
func Tree(m *hsmx.Machine) string {
	return build(m, m.Root()).String()
}

func build(m *hsmx.Machine, s *hsmx.State) *tree.Tree {
	t := tree.New().Root(label(m, s))
	t.EnumeratorStyle(branchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	for _, child := range s.Children() {
		if child.IsLeaf() {
			t.Child(label(m, child))
			continue
		}
		t.Child(build(m, child))
	}
	return t
}

func label(m *hsmx.Machine, s *hsmx.State) string {
	text := s.Name()
	style := inactiveStyle
	if m.IsActive(s) {
		text = ActiveMarker + " " + text
		style = activeStyle
	}
	out := style.Render(text)
	if string(s.Kind()) != s.Path() && s.Parent() != nil {
		out += " " + kindStyle.Render("("+string(s.Kind())+")")
	}
	return out
}
