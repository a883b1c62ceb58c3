package graph

import "fmt"

// Kind identifies the variant of a tree node
type Kind int

const (
	KindProcedure Kind = iota + 1 // one source file
	KindFunction                  // one subroutine definition
	KindVariable
	KindOperation // tagged like a variable, never produced by the scanner
)

var kindNames = map[Kind]string{
	KindProcedure: "Procedure",
	KindFunction:  "Function",
	KindVariable:  "Variable",
	KindOperation: "Operation",
}

// String returns kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns a kind for its name
func ParseKind(name string) (Kind, error) {
	for kind, candidate := range kindNames {
		if candidate == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind: %q", name)
}

// allowedChildren lists legal child kinds per parent kind
var allowedChildren = map[Kind][]Kind{
	KindProcedure: {KindFunction, KindProcedure},
	KindFunction:  {KindFunction, KindVariable},
	KindVariable:  {KindOperation, KindFunction},
	KindOperation: {KindOperation, KindFunction},
}

// CanContain reports whether a node of kind k may hold a child of the given kind
func (k Kind) CanContain(child Kind) bool {
	for _, candidate := range allowedChildren[k] {
		if candidate == child {
			return true
		}
	}
	return false
}
