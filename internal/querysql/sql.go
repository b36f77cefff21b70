package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/sqlexpr"
)

// SQLCompiler renders relational trees to SQLite SQL.
//
// All values are parameterized, never interpolated.
type SQLCompiler struct {
	// BoundValues holds the values for named parameters in the tree.
	// Must be set before compiling a tree that has any.
	BoundValues map[string]ir.IRValue
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{
		BoundValues: make(map[string]ir.IRValue),
	}
}

// Compile renders sel. Returns (sql, params, error).
func (c *SQLCompiler) Compile(sel *sqlexpr.SelectExpression) (string, []any, error) {
	if sel == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	w := &sqlWriter{bound: c.BoundValues}
	w.selectExpr(sel)
	if w.err != nil {
		return "", nil, w.err
	}
	return w.b.String(), w.params, nil
}

// sqlWriter accumulates SQL text and parameters. The first error sticks;
// later writes are no-ops.
type sqlWriter struct {
	b      strings.Builder
	params []any
	bound  map[string]ir.IRValue
	err    error
}

func (w *sqlWriter) fail(format string, args ...any) {
	if w.err == nil {
		w.err = fmt.Errorf(format, args...)
	}
}

func (w *sqlWriter) write(s ...string) {
	if w.err != nil {
		return
	}
	for _, p := range s {
		w.b.WriteString(p)
	}
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (w *sqlWriter) bind(v ir.IRValue, m *ir.TypeMapping) {
	if w.err != nil {
		return
	}
	if isNull(v) {
		w.write("NULL")
		return
	}
	if _, ok := v.(ir.IRArray); ok {
		w.fail("array value outside an IN list")
		return
	}
	p, err := providerParam(v, m)
	if err != nil {
		w.err = err
		return
	}
	w.params = append(w.params, p)
	w.write("?")
}

func (w *sqlWriter) lookup(name string) (ir.IRValue, bool) {
	v, ok := w.bound[name]
	if !ok {
		w.fail("no value bound for parameter %q", name)
	}
	return v, ok
}

func (w *sqlWriter) selectExpr(sel *sqlexpr.SelectExpression) {
	w.write("SELECT ")
	if sel.IsDistinct {
		w.write("DISTINCT ")
	}
	if len(sel.Projection) == 0 {
		w.write("*")
	}
	for i, p := range sel.Projection {
		if i > 0 {
			w.write(", ")
		}
		w.projection(p)
	}

	for i, t := range sel.Tables {
		switch {
		case i == 0:
			w.write(" FROM ")
		case isJoin(t):
			w.write(" ")
		default:
			w.write(", ")
		}
		w.source(t)
	}

	if sel.Predicate != nil {
		w.write(" WHERE ")
		w.sql(sel.Predicate)
	}
	if len(sel.GroupBy) > 0 {
		w.write(" GROUP BY ")
		w.list(sel.GroupBy)
	}
	if sel.Having != nil {
		w.write(" HAVING ")
		w.sql(sel.Having)
	}
	if len(sel.Orderings) > 0 {
		w.write(" ORDER BY ")
		w.orderings(sel.Orderings)
	}

	// SQLite has no OFFSET without LIMIT; -1 means no limit.
	switch {
	case sel.Limit != nil:
		w.write(" LIMIT ")
		w.sql(sel.Limit)
	case sel.Offset != nil:
		w.write(" LIMIT -1")
	}
	if sel.Offset != nil {
		w.write(" OFFSET ")
		w.sql(sel.Offset)
	}
}

func (w *sqlWriter) projection(p *sqlexpr.ProjectionExpression) {
	w.sql(p.Expression)
	if p.Alias == "" {
		return
	}
	if col, ok := p.Expression.(*sqlexpr.ColumnExpression); ok && col.Name == p.Alias {
		return
	}
	w.write(" AS ", quote(p.Alias))
}

func (w *sqlWriter) orderings(os []*sqlexpr.OrderingExpression) {
	for i, o := range os {
		if i > 0 {
			w.write(", ")
		}
		w.sql(o.Expression)
		// Text keys compare bytewise so ordering does not depend on the
		// connection's default collation.
		if _, collated := o.Expression.(*sqlexpr.CollateExpression); !collated {
			if m := o.Expression.TypeMapping(); m != nil && m.StoreType == "TEXT" {
				w.write(" COLLATE BINARY")
			}
		}
		if o.Ascending {
			w.write(" ASC")
		} else {
			w.write(" DESC")
		}
	}
}

func (w *sqlWriter) list(es []sqlexpr.SQLExpression) {
	for i, e := range es {
		if i > 0 {
			w.write(", ")
		}
		w.sql(e)
	}
}

func isJoin(s sqlexpr.Source) bool {
	switch s.(type) {
	case *sqlexpr.InnerJoinExpression, *sqlexpr.LeftJoinExpression, *sqlexpr.CrossJoinExpression,
		*sqlexpr.CrossApplyExpression, *sqlexpr.OuterApplyExpression:
		return true
	}
	return false
}

func (w *sqlWriter) alias(a string) {
	if a != "" {
		w.write(" AS ", quote(a))
	}
}

func (w *sqlWriter) qualified(schema, name string) {
	if schema != "" {
		w.write(quote(schema), ".")
	}
	w.write(quote(name))
}

// function writes a function name. Names are emitted bare so built-ins
// such as CURRENT_TIMESTAMP keep their meaning.
func (w *sqlWriter) function(schema, name string) {
	if schema != "" {
		w.write(quote(schema), ".")
	}
	w.write(name)
}

func (w *sqlWriter) source(s sqlexpr.Source) {
	switch n := s.(type) {
	case *sqlexpr.TableExpression:
		w.qualified(n.Schema, n.Name)
		w.alias(n.Alias)

	case *sqlexpr.FromSQLExpression:
		w.write("(", n.SQL, ")")
		w.alias(n.Alias)

	case *sqlexpr.TableValuedFunctionExpression:
		w.function(n.Schema, n.Name)
		w.write("(")
		w.list(n.Arguments)
		w.write(")")
		w.alias(n.Alias)

	case *sqlexpr.SelectExpression:
		w.write("(")
		w.selectExpr(n)
		w.write(")")
		w.alias(n.Alias)

	case *sqlexpr.CrossJoinExpression:
		w.write("CROSS JOIN ")
		w.source(n.Table)

	case *sqlexpr.InnerJoinExpression:
		w.write("INNER JOIN ")
		w.source(n.Table)
		w.write(" ON ")
		w.sql(n.JoinPredicate)

	case *sqlexpr.LeftJoinExpression:
		w.write("LEFT JOIN ")
		w.source(n.Table)
		w.write(" ON ")
		w.sql(n.JoinPredicate)

	case *sqlexpr.CrossApplyExpression, *sqlexpr.OuterApplyExpression:
		w.fail("%s is not supported by SQLite", s.Kind())

	case *sqlexpr.UnionExpression:
		op := "UNION"
		if !n.IsDistinct {
			op = "UNION ALL"
		}
		w.setOperation(op, n.SetOperation)

	case *sqlexpr.ExceptExpression:
		w.setOperation("EXCEPT", n.SetOperation)

	case *sqlexpr.IntersectExpression:
		w.setOperation("INTERSECT", n.SetOperation)

	default:
		w.fail("unsupported source: %T", s)
	}
}

func (w *sqlWriter) setOperation(op string, s sqlexpr.SetOperation) {
	w.write("(")
	w.selectExpr(s.Source1)
	w.write(" ", op, " ")
	w.selectExpr(s.Source2)
	w.write(")")
	w.alias(s.Alias)
}

// operand renders e, parenthesized when it is itself a binary expression.
func (w *sqlWriter) operand(e sqlexpr.SQLExpression) {
	if _, ok := e.(*sqlexpr.SQLBinaryExpression); ok {
		w.write("(")
		w.sql(e)
		w.write(")")
		return
	}
	w.sql(e)
}

func (w *sqlWriter) subquery(sel *sqlexpr.SelectExpression) {
	if sel == nil {
		w.fail("missing subquery")
		return
	}
	w.write("(")
	w.selectExpr(sel)
	w.write(")")
}

func (w *sqlWriter) sql(e sqlexpr.SQLExpression) {
	if w.err != nil {
		return
	}
	switch n := e.(type) {
	case nil:
		w.fail("missing expression")

	case *sqlexpr.ColumnExpression:
		if n.Table != "" {
			w.write(quote(n.Table), ".")
		}
		w.write(quote(n.Name))

	case *sqlexpr.SQLConstantExpression:
		w.bind(n.Value, n.Mapping)

	case *sqlexpr.SQLParameterExpression:
		if v, ok := w.lookup(n.Name); ok {
			w.bind(v, n.Mapping)
		}

	case *sqlexpr.SQLFragmentExpression:
		w.write(n.SQL)

	case *sqlexpr.SQLBinaryExpression:
		if n.Operator == ir.OpCoalesce {
			w.write("COALESCE(")
			w.sql(n.Left)
			w.write(", ")
			w.sql(n.Right)
			w.write(")")
			return
		}
		w.operand(n.Left)
		w.write(" ", n.Operator.SQL(), " ")
		w.operand(n.Right)

	case *sqlexpr.SQLUnaryExpression:
		switch n.Operator {
		case ir.OpNot:
			w.write("NOT ")
			w.operand(n.Operand)
		case ir.OpNegate:
			w.write("-")
			w.operand(n.Operand)
		case ir.OpIsNull, ir.OpIsNotNull:
			w.operand(n.Operand)
			w.write(" ", n.Operator.SQL())
		default:
			w.fail("unsupported unary operator %s", n.Operator)
		}

	case *sqlexpr.SQLConditionalExpression:
		w.write("CASE WHEN ")
		w.sql(n.Test)
		w.write(" THEN ")
		w.sql(n.IfTrue)
		w.write(" ELSE ")
		w.sql(n.IfFalse)
		w.write(" END")

	case *sqlexpr.CaseExpression:
		w.write("CASE")
		if n.Operand != nil {
			w.write(" ")
			w.sql(n.Operand)
		}
		for _, wc := range n.WhenClauses {
			w.write(" WHEN ")
			w.sql(wc.Test)
			w.write(" THEN ")
			w.sql(wc.Result)
		}
		if n.ElseResult != nil {
			w.write(" ELSE ")
			w.sql(n.ElseResult)
		}
		w.write(" END")

	case *sqlexpr.CollateExpression:
		w.operand(n.Operand)
		w.write(" COLLATE ", n.Collation)

	case *sqlexpr.LikeExpression:
		w.operand(n.Match)
		w.write(" LIKE ")
		w.operand(n.Pattern)
		if n.EscapeChar != nil {
			w.write(" ESCAPE ")
			w.sql(n.EscapeChar)
		}

	case *sqlexpr.InExpression:
		w.operand(n.Item)
		if n.IsNegated {
			w.write(" NOT")
		}
		w.write(" IN ")
		if n.Subquery != nil {
			w.subquery(n.Subquery)
			return
		}
		w.write("(")
		w.inValues(n.Values)
		w.write(")")

	case *sqlexpr.ExistsExpression:
		if n.IsNegated {
			w.write("NOT ")
		}
		w.write("EXISTS ")
		w.subquery(n.Subquery)

	case *sqlexpr.ScalarSubqueryExpression:
		w.subquery(n.Subquery)

	case *sqlexpr.SQLFunctionExpression:
		w.function(n.Schema, n.Name)
		if n.IsNiladic {
			return
		}
		w.write("(")
		args := n.Arguments
		if n.Instance != nil {
			args = append([]sqlexpr.SQLExpression{n.Instance}, args...)
		}
		w.list(args)
		w.write(")")

	case *sqlexpr.RowNumberExpression:
		w.write("ROW_NUMBER() OVER (")
		if len(n.Partitions) > 0 {
			w.write("PARTITION BY ")
			w.list(n.Partitions)
			if len(n.Orderings) > 0 {
				w.write(" ")
			}
		}
		if len(n.Orderings) > 0 {
			w.write("ORDER BY ")
			w.orderings(n.Orderings)
		}
		w.write(")")

	default:
		w.fail("unsupported expression: %T", e)
	}
}

// inValues expands a constant or parameter array into one placeholder
// per element.
func (w *sqlWriter) inValues(e sqlexpr.SQLExpression) {
	var v ir.IRValue
	var m *ir.TypeMapping
	switch n := e.(type) {
	case *sqlexpr.SQLConstantExpression:
		v, m = n.Value, n.Mapping
	case *sqlexpr.SQLParameterExpression:
		bound, ok := w.lookup(n.Name)
		if !ok {
			return
		}
		v, m = bound, n.Mapping
	default:
		w.sql(e)
		return
	}

	arr, ok := v.(ir.IRArray)
	if !ok {
		w.bind(v, m)
		return
	}
	if len(arr) == 0 {
		w.fail("empty IN list")
		return
	}
	for i, elem := range arr {
		if i > 0 {
			w.write(", ")
		}
		w.bind(elem, m)
	}
}
