package graph

import "errors"

// ErrInvalidEdgeKind is returned when a child kind is not allowed under its parent kind
var ErrInvalidEdgeKind = errors.New("invalid child kind for this node")
