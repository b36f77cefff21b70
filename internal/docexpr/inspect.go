package docexpr

import "fmt"

// Children returns the direct children of e in traversal order.
func Children(e Expression) []Expression {
	var out []Expression
	add := func(children ...Expression) {
		for _, c := range children {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := e.(type) {
	case *RootReferenceExpression, *SQLConstantExpression, *SQLParameterExpression:
	case *KeyAccessExpression:
		add(n.Access)
	case *ObjectAccessExpression:
		add(n.Access)
	case *EntityProjectionExpression:
		add(n.Access)
	case *ObjectArrayProjectionExpression:
		add(n.Access)
		if n.InnerProjection != nil {
			add(n.InnerProjection)
		}
	case *SQLBinaryExpression:
		add(n.Left, n.Right)
	case *SQLUnaryExpression:
		add(n.Operand)
	case *SQLConditionalExpression:
		add(n.Test, n.IfTrue, n.IfFalse)
	case *SQLFunctionExpression:
		for _, a := range n.Arguments {
			add(a)
		}
	case *InExpression:
		add(n.Item, n.Values)
	case *ProjectionExpression:
		add(n.Expression)
	case *OrderingExpression:
		add(n.Expression)
	case *SelectExpression:
		for _, p := range n.Projection {
			add(p)
		}
		if n.From != nil {
			add(n.From)
		}
		add(n.Predicate)
		for _, o := range n.Orderings {
			add(o)
		}
		add(n.Limit, n.Offset)
	default:
		panic(fmt.Sprintf("docexpr: Children: unhandled node %T", e))
	}
	return out
}

// Inspect walks the tree rooted at e in pre-order. If fn returns false the
// node's children are skipped.
func Inspect(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, fn)
	}
}

// CountKinds returns how many nodes of each kind the tree holds.
func CountKinds(e Expression) map[Kind]int {
	counts := make(map[Kind]int)
	Inspect(e, func(n Expression) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}
