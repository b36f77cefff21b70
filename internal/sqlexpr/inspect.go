package sqlexpr

import "fmt"

// Children returns the direct children of e in traversal order.
// Absent optional children are omitted. Table-valued function arguments
// are included: they are part of the tree even though the compensator
// does not rewrite them.
func Children(e Expression) []Expression {
	var out []Expression
	add := func(children ...Expression) {
		for _, c := range children {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	addSelect := func(s *SelectExpression) {
		if s != nil {
			out = append(out, s)
		}
	}

	switch n := e.(type) {
	case *ColumnExpression, *SQLConstantExpression, *SQLParameterExpression,
		*SQLFragmentExpression, *TableExpression, *FromSQLExpression:
		// leaves
	case *TableValuedFunctionExpression:
		for _, a := range n.Arguments {
			add(a)
		}
	case *SQLBinaryExpression:
		add(n.Left, n.Right)
	case *SQLUnaryExpression:
		add(n.Operand)
	case *SQLConditionalExpression:
		add(n.Test, n.IfTrue, n.IfFalse)
	case *CaseExpression:
		if n.Operand != nil {
			add(n.Operand)
		}
		for _, w := range n.WhenClauses {
			add(w.Test, w.Result)
		}
		if n.ElseResult != nil {
			add(n.ElseResult)
		}
	case *CollateExpression:
		add(n.Operand)
	case *LikeExpression:
		add(n.Match, n.Pattern)
		if n.EscapeChar != nil {
			add(n.EscapeChar)
		}
	case *InExpression:
		add(n.Item)
		if n.Values != nil {
			add(n.Values)
		}
		addSelect(n.Subquery)
	case *ExistsExpression:
		addSelect(n.Subquery)
	case *ScalarSubqueryExpression:
		addSelect(n.Subquery)
	case *SQLFunctionExpression:
		if n.Instance != nil {
			add(n.Instance)
		}
		for _, a := range n.Arguments {
			add(a)
		}
	case *RowNumberExpression:
		for _, p := range n.Partitions {
			add(p)
		}
		for _, o := range n.Orderings {
			add(o)
		}
	case *ProjectionExpression:
		add(n.Expression)
	case *OrderingExpression:
		add(n.Expression)
	case *CrossJoinExpression:
		add(n.Table)
	case *CrossApplyExpression:
		add(n.Table)
	case *OuterApplyExpression:
		add(n.Table)
	case *InnerJoinExpression:
		add(n.Table, n.JoinPredicate)
	case *LeftJoinExpression:
		add(n.Table, n.JoinPredicate)
	case *ExceptExpression:
		addSelect(n.Source1)
		addSelect(n.Source2)
	case *IntersectExpression:
		addSelect(n.Source1)
		addSelect(n.Source2)
	case *UnionExpression:
		addSelect(n.Source1)
		addSelect(n.Source2)
	case *SelectExpression:
		for _, p := range n.Projection {
			add(p)
		}
		for _, t := range n.Tables {
			add(t)
		}
		if n.Predicate != nil {
			add(n.Predicate)
		}
		for _, g := range n.GroupBy {
			add(g)
		}
		if n.Having != nil {
			add(n.Having)
		}
		for _, o := range n.Orderings {
			add(o)
		}
		if n.Limit != nil {
			add(n.Limit)
		}
		if n.Offset != nil {
			add(n.Offset)
		}
	default:
		panic(fmt.Sprintf("sqlexpr: Children: unhandled node %T", e))
	}
	return out
}

// Inspect walks the tree rooted at e in pre-order, calling fn for each
// node. If fn returns false the node's children are skipped.
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
