package compensate

import (
	"github.com/roach88/vcomp/internal/docexpr"
	"github.com/roach88/vcomp/internal/ir"
)

// DocumentFactory builds the replacement nodes for document trees.
// docexpr.Factory satisfies it.
type DocumentFactory interface {
	Equal(left, right docexpr.SQLExpression) docexpr.SQLExpression
	Constant(v ir.IRValue, m *ir.TypeMapping) docexpr.SQLExpression
}

// Document compensates docexpr trees. The leaf is a key access,
// c["active"], rather than a column.
type Document struct {
	factory DocumentFactory
}

// NewDocument returns a compensator using factory for replacement nodes.
func NewDocument(factory DocumentFactory) *Document {
	return &Document{factory: factory}
}

// Compensate is the document-dialect counterpart of Relational.Compensate.
func (c *Document) Compensate(e docexpr.Expression, opts ...Option) docexpr.Expression {
	w := &documentWalk{factory: c.factory, cfg: newWalkConfig(opts)}
	return w.expression(e, cleared)
}

// CompensateSelect is Compensate for a query.
func (c *Document) CompensateSelect(sel *docexpr.SelectExpression, opts ...Option) *docexpr.SelectExpression {
	w := &documentWalk{factory: c.factory, cfg: newWalkConfig(opts)}
	return w.selectExpr(sel)
}

type documentWalk struct {
	factory DocumentFactory
	cfg     walkConfig
}

// expression visits any node, scalar or not.
func (w *documentWalk) expression(e docexpr.Expression, s scope) docexpr.Expression {
	switch n := e.(type) {
	case nil:
		return nil
	case docexpr.SQLExpression:
		return w.sql(n, s)
	case *docexpr.SelectExpression:
		return w.selectExpr(n)
	case *docexpr.ProjectionExpression:
		return w.projection(n)
	case *docexpr.OrderingExpression:
		return w.ordering(n)
	case *docexpr.RootReferenceExpression:
		w.cfg.visited()
		return n
	case *docexpr.EntityProjectionExpression:
		return w.entityProjection(n)
	case *docexpr.ObjectAccessExpression:
		w.cfg.visited()
		return n.Update(w.expression(n.Access, cleared))
	case *docexpr.ObjectArrayProjectionExpression:
		w.cfg.visited()
		access := w.expression(n.Access, cleared)
		var inner *docexpr.EntityProjectionExpression
		if n.InnerProjection != nil {
			inner = w.entityProjection(n.InnerProjection)
		}
		return n.Update(access, inner)
	default:
		panic(dispatchMiss("document", e, e.Kind()))
	}
}

func (w *documentWalk) sql(e docexpr.SQLExpression, s scope) docexpr.SQLExpression {
	if e == nil {
		return nil
	}
	w.cfg.visited()

	switch n := e.(type) {
	case *docexpr.KeyAccessExpression:
		// The access path is walked first; it never holds a boolean leaf
		// but is rebuilt if something under it changed.
		result := n.Update(w.expression(n.Access, cleared))
		if !s.compensates(n.Mapping) {
			return result
		}
		w.cfg.rewrote()
		return w.factory.Equal(result, w.factory.Constant(ir.IRBool(true), result.Mapping))

	case *docexpr.SQLConstantExpression, *docexpr.SQLParameterExpression:
		return n

	case *docexpr.SQLBinaryExpression:
		child := s.binary(n.Operator)
		return n.Update(w.sql(n.Left, child), w.sql(n.Right, child))

	case *docexpr.SQLUnaryExpression:
		return n.Update(w.sql(n.Operand, s.unary(n.Operator)))

	case *docexpr.SQLConditionalExpression:
		return n.Update(w.sql(n.Test, predicate), w.sql(n.IfTrue, cleared), w.sql(n.IfFalse, cleared))

	case *docexpr.SQLFunctionExpression:
		return n.Update(mapSlice(n.Arguments, func(a docexpr.SQLExpression) docexpr.SQLExpression {
			return w.sql(a, cleared)
		}))

	case *docexpr.InExpression:
		return n.Update(w.sql(n.Item, cleared), w.sql(n.Values, cleared))

	default:
		panic(dispatchMiss("document", e, e.Kind()))
	}
}

// selectExpr visits a query: projection, FROM, WHERE, ORDER BY, LIMIT, OFFSET.
func (w *documentWalk) selectExpr(sel *docexpr.SelectExpression) *docexpr.SelectExpression {
	if sel == nil {
		return nil
	}
	w.cfg.visited()

	var p docexpr.SelectParts
	p.Projection = mapSlice(sel.Projection, w.projection)
	p.From = sel.From
	if sel.From != nil {
		w.cfg.visited()
	}
	p.Predicate = w.sql(sel.Predicate, predicate)
	p.Orderings = mapSlice(sel.Orderings, w.ordering)
	p.Limit = w.sql(sel.Limit, cleared)
	p.Offset = w.sql(sel.Offset, cleared)
	return sel.Update(p)
}

func (w *documentWalk) projection(p *docexpr.ProjectionExpression) *docexpr.ProjectionExpression {
	w.cfg.visited()
	return p.Update(w.expression(p.Expression, cleared))
}

func (w *documentWalk) ordering(o *docexpr.OrderingExpression) *docexpr.OrderingExpression {
	w.cfg.visited()
	return o.Update(w.sql(o.Expression, cleared))
}

func (w *documentWalk) entityProjection(e *docexpr.EntityProjectionExpression) *docexpr.EntityProjectionExpression {
	w.cfg.visited()
	return e.Update(w.expression(e.Access, cleared))
}
