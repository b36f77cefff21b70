// Package sqlexpr defines the relational dialect's expression tree.
//
// Nodes are immutable and persistent. A rewrite never mutates a node; it
// calls the node's Update method, which returns the receiver itself when
// every argument is reference-identical to the current child and a fresh
// node otherwise. Rewriters rely on that identity to detect "no change"
// without deep comparison.
//
// SEALED INTERFACES:
//
// Expression, SQLExpression and Source are sealed with unexported marker
// methods. Only types in this package implement them, so a type switch over
// the kinds returned by Kinds() is exhaustive:
//
//	switch e := expr.(type) {
//	case *ColumnExpression:
//	    // leaf
//	case *SelectExpression:
//	    // query block
//	...
//	default:
//	    // impossible unless a kind was added without a case
//	}
//
// NODE FAMILIES:
//
//	SQLExpression  scalar value with a TypeMapping (columns, constants, operators, ...)
//	Source         FROM-clause item (tables, joins, set operations, nested selects)
//	other          ProjectionExpression, OrderingExpression
//
// A SelectExpression is both a Source (derived table) and the root of a query.
package sqlexpr
