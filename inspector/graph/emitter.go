package graph

import "fmt"

// Emitter represents a tree renderer
type Emitter interface {
	Emit(node *Node) ([]byte, error)
}

// TextEmitter emits Render output
type TextEmitter struct{}

// Emit renders the node as indented text
func (e *TextEmitter) Emit(node *Node) ([]byte, error) {
	return []byte(node.Render(0)), nil
}

// NewEmitter returns an emitter for the given format name
func NewEmitter(format string) (Emitter, error) {
	switch format {
	case "", "text":
		return &TextEmitter{}, nil
	case "yaml":
		return &YAMLEmitter{}, nil
	case "tree":
		return NewTreeEmitter(), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
