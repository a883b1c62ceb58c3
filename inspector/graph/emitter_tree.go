package graph

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// TreeEmitter emits a box-drawn tree for terminals
type TreeEmitter struct {
	enumeratorStyle  lipgloss.Style
	procedureStyle   lipgloss.Style
	functionStyle    lipgloss.Style
	placeholderStyle lipgloss.Style
}

// NewTreeEmitter creates a tree emitter with default styles
func NewTreeEmitter() *TreeEmitter {
	return &TreeEmitter{
		enumeratorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1),
		procedureStyle:   lipgloss.NewStyle().Bold(true),
		functionStyle:    lipgloss.NewStyle(),
		placeholderStyle: lipgloss.NewStyle().Faint(true),
	}
}

// Emit renders the node with lipgloss tree
func (e *TreeEmitter) Emit(node *Node) ([]byte, error) {
	return []byte(e.build(node).String() + "\n"), nil
}

func (e *TreeEmitter) build(node *Node) *tree.Tree {
	result := tree.Root(e.label(node)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(e.enumeratorStyle)
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			result.Child(e.label(child))
			continue
		}
		result.Child(e.build(child))
	}
	return result
}

func (e *TreeEmitter) label(node *Node) string {
	switch {
	case node.Placeholder:
		return e.placeholderStyle.Render(node.Name + " (missing)")
	case node.Kind == KindFunction && node.Index != nil:
		return e.functionStyle.Render(fmt.Sprintf("%s:%d", node.Name, *node.Index))
	case node.Kind == KindProcedure:
		return e.procedureStyle.Render(node.Name)
	}
	return node.Name
}
