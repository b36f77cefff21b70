package docexpr

import "github.com/roach88/vcomp/internal/ir"

// Expression is any node of the document tree.
type Expression interface {
	Kind() Kind
	expressionNode() // Marker method - seals interface to this package
}

// SQLExpression is a scalar node with a type descriptor.
type SQLExpression interface {
	Expression
	TypeMapping() *ir.TypeMapping
	sqlNode()
}

func sameSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
