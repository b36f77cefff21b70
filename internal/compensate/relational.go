package compensate

import (
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/sqlexpr"
)

// RelationalFactory builds the replacement nodes for relational trees.
// sqlexpr.Factory satisfies it.
type RelationalFactory interface {
	// Equal returns a boolean-typed left = right.
	Equal(left, right sqlexpr.SQLExpression) sqlexpr.SQLExpression
	// Constant returns a literal encoded through mapping m.
	Constant(v ir.IRValue, m *ir.TypeMapping) sqlexpr.SQLExpression
}

// Relational compensates sqlexpr trees.
type Relational struct {
	factory RelationalFactory
}

// NewRelational returns a compensator using factory for replacement nodes.
func NewRelational(factory RelationalFactory) *Relational {
	return &Relational{factory: factory}
}

// Compensate returns e with every converted boolean leaf in a predicate
// position replaced by leaf = true. If nothing changes, e itself is
// returned. It panics with *DispatchError on a node type outside the
// sqlexpr catalogue.
func (c *Relational) Compensate(e sqlexpr.Expression, opts ...Option) sqlexpr.Expression {
	w := &relationalWalk{factory: c.factory, cfg: newWalkConfig(opts)}
	return w.expression(e, cleared)
}

// CompensateSelect is Compensate for a query block.
func (c *Relational) CompensateSelect(sel *sqlexpr.SelectExpression, opts ...Option) *sqlexpr.SelectExpression {
	w := &relationalWalk{factory: c.factory, cfg: newWalkConfig(opts)}
	return w.selectExpr(sel)
}

type relationalWalk struct {
	factory RelationalFactory
	cfg     walkConfig
}

func (w *relationalWalk) expression(e sqlexpr.Expression, s scope) sqlexpr.Expression {
	switch n := e.(type) {
	case nil:
		return nil
	case *sqlexpr.ProjectionExpression:
		return w.projection(n)
	case *sqlexpr.OrderingExpression:
		return w.ordering(n)
	case sqlexpr.Source:
		return w.source(n)
	case sqlexpr.SQLExpression:
		return w.sql(n, s)
	default:
		panic(dispatchMiss("relational", e, e.Kind()))
	}
}

func (w *relationalWalk) sql(e sqlexpr.SQLExpression, s scope) sqlexpr.SQLExpression {
	if e == nil {
		return nil
	}
	w.cfg.visited()

	switch n := e.(type) {
	case *sqlexpr.ColumnExpression:
		if !s.compensates(n.Mapping) {
			return n
		}
		w.cfg.rewrote()
		return w.factory.Equal(n, w.factory.Constant(ir.IRBool(true), n.Mapping))

	case *sqlexpr.SQLConstantExpression, *sqlexpr.SQLParameterExpression, *sqlexpr.SQLFragmentExpression:
		return n

	case *sqlexpr.SQLBinaryExpression:
		child := s.binary(n.Operator)
		return n.Update(w.sql(n.Left, child), w.sql(n.Right, child))

	case *sqlexpr.SQLUnaryExpression:
		return n.Update(w.sql(n.Operand, s.unary(n.Operator)))

	case *sqlexpr.SQLConditionalExpression:
		return n.Update(w.sql(n.Test, predicate), w.sql(n.IfTrue, cleared), w.sql(n.IfFalse, cleared))

	case *sqlexpr.CaseExpression:
		test := cleared
		if n.Operand == nil {
			test = predicate
		}
		operand := w.sql(n.Operand, cleared)
		whens := mapSlice(n.WhenClauses, func(wc sqlexpr.CaseWhenClause) sqlexpr.CaseWhenClause {
			return sqlexpr.CaseWhenClause{Test: w.sql(wc.Test, test), Result: w.sql(wc.Result, cleared)}
		})
		return n.Update(operand, whens, w.sql(n.ElseResult, cleared))

	case *sqlexpr.CollateExpression:
		return n.Update(w.sql(n.Operand, cleared))

	case *sqlexpr.LikeExpression:
		return n.Update(w.sql(n.Match, cleared), w.sql(n.Pattern, cleared), w.sql(n.EscapeChar, cleared))

	case *sqlexpr.InExpression:
		item := w.sql(n.Item, cleared)
		subquery := w.selectExpr(n.Subquery)
		return n.Update(item, w.sql(n.Values, cleared), subquery)

	case *sqlexpr.ExistsExpression:
		return n.Update(w.selectExpr(n.Subquery))

	case *sqlexpr.ScalarSubqueryExpression:
		return n.Update(w.selectExpr(n.Subquery))

	case *sqlexpr.SQLFunctionExpression:
		instance := w.sql(n.Instance, cleared)
		args := n.Arguments
		if !n.IsNiladic {
			args = w.sqlList(n.Arguments)
		}
		return n.Update(instance, args)

	case *sqlexpr.RowNumberExpression:
		return n.Update(w.sqlList(n.Partitions), mapSlice(n.Orderings, w.ordering))

	default:
		panic(dispatchMiss("relational", e, e.Kind()))
	}
}

func (w *relationalWalk) sqlList(in []sqlexpr.SQLExpression) []sqlexpr.SQLExpression {
	return mapSlice(in, func(e sqlexpr.SQLExpression) sqlexpr.SQLExpression {
		return w.sql(e, cleared)
	})
}

// source visits a FROM-clause item. Sources are never predicate positions
// themselves; only join conditions are.
func (w *relationalWalk) source(src sqlexpr.Source) sqlexpr.Source {
	switch n := src.(type) {
	case *sqlexpr.SelectExpression:
		return w.selectExpr(n)

	case *sqlexpr.TableExpression, *sqlexpr.FromSQLExpression:
		w.cfg.visited()
		return n

	case *sqlexpr.TableValuedFunctionExpression:
		// Arguments are deliberately left alone; a converted boolean passed
		// to a table-valued function is not compensated.
		w.cfg.visited()
		return n

	case *sqlexpr.CrossJoinExpression:
		w.cfg.visited()
		return n.Update(w.source(n.Table))

	case *sqlexpr.CrossApplyExpression:
		w.cfg.visited()
		return n.Update(w.source(n.Table))

	case *sqlexpr.OuterApplyExpression:
		w.cfg.visited()
		return n.Update(w.source(n.Table))

	case *sqlexpr.InnerJoinExpression:
		w.cfg.visited()
		table := w.source(n.Table)
		return n.Update(table, w.sql(n.JoinPredicate, predicate))

	case *sqlexpr.LeftJoinExpression:
		w.cfg.visited()
		table := w.source(n.Table)
		return n.Update(table, w.sql(n.JoinPredicate, predicate))

	case *sqlexpr.ExceptExpression:
		w.cfg.visited()
		return n.Update(w.selectExpr(n.Source1), w.selectExpr(n.Source2))

	case *sqlexpr.IntersectExpression:
		w.cfg.visited()
		return n.Update(w.selectExpr(n.Source1), w.selectExpr(n.Source2))

	case *sqlexpr.UnionExpression:
		w.cfg.visited()
		return n.Update(w.selectExpr(n.Source1), w.selectExpr(n.Source2))

	default:
		panic(dispatchMiss("relational", src, src.Kind()))
	}
}

// selectExpr visits a query block. The enclosing scope never leaks in: a
// block re-derives every clause's position from scratch.
//
// Order: projection, tables, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT, OFFSET.
func (w *relationalWalk) selectExpr(sel *sqlexpr.SelectExpression) *sqlexpr.SelectExpression {
	if sel == nil {
		return nil
	}
	w.cfg.visited()

	var p sqlexpr.SelectParts
	p.Projection = mapSlice(sel.Projection, w.projection)
	p.Tables = mapSlice(sel.Tables, w.source)
	p.Predicate = w.sql(sel.Predicate, predicate)
	p.GroupBy = w.sqlList(sel.GroupBy)
	p.Having = w.sql(sel.Having, predicate)
	p.Orderings = mapSlice(sel.Orderings, w.ordering)
	p.Limit = w.sql(sel.Limit, cleared)
	p.Offset = w.sql(sel.Offset, cleared)
	return sel.Update(p)
}

func (w *relationalWalk) projection(p *sqlexpr.ProjectionExpression) *sqlexpr.ProjectionExpression {
	w.cfg.visited()
	return p.Update(w.sql(p.Expression, cleared))
}

func (w *relationalWalk) ordering(o *sqlexpr.OrderingExpression) *sqlexpr.OrderingExpression {
	w.cfg.visited()
	return o.Update(w.sql(o.Expression, cleared))
}
