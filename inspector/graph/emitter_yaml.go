package graph

import (
	"gopkg.in/yaml.v3"
)

// YAMLEmitter emits the tree as nested yaml documents.
// A shared procedure is emitted in full once, later occurrences carry ref: true.
type YAMLEmitter struct{}

type yamlNode struct {
	Name        string      `yaml:"name"`
	Kind        string      `yaml:"kind"`
	Line        *int        `yaml:"line,omitempty"`
	Path        string      `yaml:"path,omitempty"`
	Hash        string      `yaml:"hash,omitempty"`
	Placeholder bool        `yaml:"placeholder,omitempty"`
	Ref         bool        `yaml:"ref,omitempty"`
	Children    []*yamlNode `yaml:"children,omitempty"`
}

// Emit marshals the node and its descendants
func (e *YAMLEmitter) Emit(node *Node) ([]byte, error) {
	emitted := map[*Node]bool{}
	return yaml.Marshal(e.convert(node, emitted))
}

func (e *YAMLEmitter) convert(node *Node, emitted map[*Node]bool) *yamlNode {
	result := &yamlNode{
		Name:        node.Name,
		Kind:        node.Kind.String(),
		Line:        node.Index,
		Path:        node.Path,
		Hash:        HashString(node.Hash),
		Placeholder: node.Placeholder,
	}
	if emitted[node] && len(node.Children) > 0 {
		result.Ref = true
		return result
	}
	emitted[node] = true
	for _, child := range node.Children {
		result.Children = append(result.Children, e.convert(child, emitted))
	}
	return result
}
