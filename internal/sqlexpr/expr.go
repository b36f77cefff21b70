package sqlexpr

import "github.com/roach88/vcomp/internal/ir"

// Expression is any node of the relational tree.
type Expression interface {
	Kind() Kind
	expressionNode() // Marker method - seals interface to this package
}

// SQLExpression is a scalar node. Its TypeMapping is the type descriptor
// the compensator inspects; it may be nil only for raw fragments.
type SQLExpression interface {
	Expression
	TypeMapping() *ir.TypeMapping
	sqlNode()
}

// Source is a FROM-clause item.
type Source interface {
	Expression
	TableAlias() string
	sourceNode()
}

// sameSlice reports whether two slices hold reference-identical elements.
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
