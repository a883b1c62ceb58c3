package graph

import (
	"fmt"
	"strings"
)

// RootName is the name of the synthetic node every build hangs off
const RootName = "root"

// Node represents a procedure file, a function or a variable in the procedure tree
type Node struct {
	Name        string
	Kind        Kind
	Index       *int      // Line where the node was discovered, nil for synthesized nodes
	Path        string    // Source file for procedure nodes
	Hash        uint64    // Content hash for procedure nodes backed by a file
	Placeholder bool      // Procedure substituted for an include that could not be located
	Function    *Function // Set for KindFunction only
	Children    []*Node

	childIndex map[*Node]int // Insertion position by identity
}

// Function holds function-only collections, reserved for body analysis
type Function struct {
	Variables []*Node
	Returns   []*Node
	Calls     []*Node
}

// NewNode creates a node with an empty child set
func NewNode(name string, kind Kind, index *int) *Node {
	node := &Node{
		Name:  name,
		Kind:  kind,
		Index: index,
	}
	if kind == KindFunction {
		node.Function = &Function{}
	}
	return node
}

// NewProcedure creates a procedure node without index
func NewProcedure(name string) *Node {
	return NewNode(name, KindProcedure, nil)
}

// NewFunction creates a function node discovered at the given line
func NewFunction(name string, line int) *Node {
	return NewNode(name, KindFunction, Line(line))
}

// Line returns an index pointer
func Line(i int) *int {
	return &i
}

// AddChild adds a child node, adding the same node twice is a no-op
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child of %v %q", ErrInvalidEdgeKind, n.Kind, n.Name)
	}
	if !n.Kind.CanContain(child.Kind) {
		return fmt.Errorf("%w: %v %q cannot contain %v %q", ErrInvalidEdgeKind, n.Kind, n.Name, child.Kind, child.Name)
	}
	if n.childIndex == nil {
		n.childIndex = make(map[*Node]int)
	}
	if _, ok := n.childIndex[child]; ok {
		return nil
	}
	n.Children = append(n.Children, child)
	n.childIndex[child] = len(n.Children) - 1
	return nil
}

// HasChild checks if the exact node is a child
func (n *Node) HasChild(child *Node) bool {
	_, ok := n.childIndex[child]
	return ok
}

// Child returns the first direct child with the given name
func (n *Node) Child(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// ChildrenOf returns direct children of the given kind
func (n *Node) ChildrenOf(kind Kind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Walk visits distinct nodes in pre-order, a shared subtree is visited once.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	seen := map[*Node]bool{}
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		if seen[node] {
			return
		}
		seen[node] = true
		if !fn(node, depth) {
			return
		}
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(n, 0)
}

// String returns the rendered tree below the node
func (n *Node) String() string {
	return n.Render(0)
}

// Render returns an indented depth-first listing of the node and its descendants
func (n *Node) Render(depth int) string {
	builder := &strings.Builder{}
	n.render(builder, depth)
	return builder.String()
}

func (n *Node) render(builder *strings.Builder, depth int) {
	if depth == 0 {
		builder.WriteString(n.Name)
	} else {
		builder.WriteString(strings.Repeat("   ", depth-1))
		builder.WriteString("┗━▶")
		builder.WriteString(n.Name)
		builder.WriteString(fmt.Sprintf(" (%d)", depth))
	}
	builder.WriteString("\n")
	for _, child := range n.Children {
		child.render(builder, depth+1)
	}
}
