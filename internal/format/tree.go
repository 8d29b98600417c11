package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"content-cli/internal/model"
)

var (
	rootStyle       = lipgloss.NewStyle().Bold(true)
	folderStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#8AB4F8"})
	workflowStyle   = lipgloss.NewStyle()
	simulationStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B2FA3", Dark: "#C792EA"})
	badgeStyle      = lipgloss.NewStyle().Faint(true)
	enumStyle       = lipgloss.NewStyle().Faint(true).MarginRight(1)
)

// Tree renders nested items under the root breadcrumb name.
type Tree []model.TreeNode

func (t Tree) Text() string {
	root := tree.Root(rootStyle.Render(model.RootCrumbName)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	for _, n := range t {
		root.Child(treeChild(n))
	}
	return root.String()
}

func treeChild(n model.TreeNode) any {
	label := nodeLabel(n)
	if len(n.Children) == 0 {
		return label
	}
	sub := tree.Root(label).Enumerator(tree.RoundedEnumerator).EnumeratorStyle(enumStyle)
	for _, ch := range n.Children {
		sub.Child(treeChild(ch))
	}
	return sub
}

func nodeLabel(n model.TreeNode) string {
	var name string
	switch n.Type {
	case model.ItemTypeFolder:
		name = folderStyle.Render(n.Name + "/")
	case model.ItemTypeSimulation:
		name = simulationStyle.Render(n.Name)
	default:
		name = workflowStyle.Render(n.Name)
	}
	return name + " " + badgeStyle.Render(strings.Join(badges(n), " "))
}

func badges(n model.TreeNode) []string {
	out := []string{"[" + string(n.Type)}
	if n.Type != model.ItemTypeFolder {
		out[0] += " " + string(n.Stage)
	}
	out[0] += "]"
	if n.PlaygroundMode {
		out = append(out, "playground")
	}
	if n.HasAssessment {
		out = append(out, "assessment")
	}
	return out
}
