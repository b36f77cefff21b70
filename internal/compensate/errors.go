package compensate

import (
	"errors"
	"fmt"
)

// DispatchError reports a node type the compensator has no rule for.
//
// The node catalogues are closed, so this is a programming error in
// whatever built the tree. Compensate panics with a *DispatchError rather
// than returning it; callers that need to survive a bad tree can recover
// and test with AsDispatchError.
type DispatchError struct {
	Dialect string // "relational" or "document"
	Node    string // Go type of the offending node
	Kind    string // Kind() of the node, if it reported one
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("compensate: %s dialect has no rule for %s (kind %s)", e.Dialect, e.Node, e.Kind)
}

// AsDispatchError extracts a *DispatchError from a recovered panic value or error.
func AsDispatchError(v any) (*DispatchError, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var de *DispatchError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func dispatchMiss(dialect string, node any, kind fmt.Stringer) *DispatchError {
	k := "unknown"
	if kind != nil {
		k = kind.String()
	}
	return &DispatchError{Dialect: dialect, Node: fmt.Sprintf("%T", node), Kind: k}
}
