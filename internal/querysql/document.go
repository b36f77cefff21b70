package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/vcomp/internal/docexpr"
	"github.com/roach88/vcomp/internal/ir"
)

// DocumentCompiler renders document trees to document SQL:
//
//	SELECT VALUE c FROM root c WHERE c["is_active"] = @p0 ORDER BY c["id"] ASC
//
// Constants become @p0, @p1, ... in the order they are reached. Named
// parameters keep their name; their value is read from BoundValues
// without the leading @.
type DocumentCompiler struct {
	BoundValues map[string]ir.IRValue
}

// NewDocumentCompiler creates a new DocumentCompiler.
func NewDocumentCompiler() *DocumentCompiler {
	return &DocumentCompiler{BoundValues: make(map[string]ir.IRValue)}
}

// Compile renders sel. Returns (sql, params, error).
func (c *DocumentCompiler) Compile(sel *docexpr.SelectExpression) (string, map[string]any, error) {
	if sel == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	w := &docWriter{bound: c.BoundValues, params: make(map[string]any)}
	w.selectExpr(sel)
	if w.err != nil {
		return "", nil, w.err
	}
	return w.b.String(), w.params, nil
}

type docWriter struct {
	b      strings.Builder
	params map[string]any
	next   int
	bound  map[string]ir.IRValue
	err    error
}

func (w *docWriter) fail(format string, args ...any) {
	if w.err == nil {
		w.err = fmt.Errorf(format, args...)
	}
}

func (w *docWriter) write(s ...string) {
	if w.err != nil {
		return
	}
	for _, p := range s {
		w.b.WriteString(p)
	}
}

// bind adds v under name, or under the next @pN when name is empty.
func (w *docWriter) bind(name string, v ir.IRValue, m *ir.TypeMapping) {
	if w.err != nil {
		return
	}
	if isNull(v) {
		w.write("null")
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
	if name == "" {
		name = "@p" + strconv.Itoa(w.next)
		w.next++
	}
	w.params[name] = p
	w.write(name)
}

func (w *docWriter) lookup(name string) (ir.IRValue, bool) {
	v, ok := w.bound[strings.TrimPrefix(name, "@")]
	if !ok {
		w.fail("no value bound for parameter %q", name)
	}
	return v, ok
}

func (w *docWriter) selectExpr(sel *docexpr.SelectExpression) {
	if sel.From == nil {
		w.fail("document query has no root")
		return
	}
	w.write("SELECT ")
	if sel.IsDistinct {
		w.write("DISTINCT ")
	}
	if len(sel.Projection) == 1 && sel.Projection[0].Alias == "" {
		if _, ok := sel.Projection[0].Expression.(*docexpr.EntityProjectionExpression); ok {
			w.write("VALUE ")
		}
	}
	if len(sel.Projection) == 0 {
		w.write(sel.From.Alias)
	}
	for i, p := range sel.Projection {
		if i > 0 {
			w.write(", ")
		}
		w.expression(p.Expression)
		if p.Alias != "" {
			w.write(" AS ", p.Alias)
		}
	}

	w.write(" FROM root ", sel.From.Alias)

	if sel.Predicate != nil {
		w.write(" WHERE ")
		w.sql(sel.Predicate)
	}
	if len(sel.Orderings) > 0 {
		w.write(" ORDER BY ")
		for i, o := range sel.Orderings {
			if i > 0 {
				w.write(", ")
			}
			w.sql(o.Expression)
			if o.Ascending {
				w.write(" ASC")
			} else {
				w.write(" DESC")
			}
		}
	}

	// Paging is OFFSET n LIMIT m; both are required.
	switch {
	case sel.Limit != nil:
		w.write(" OFFSET ")
		if sel.Offset != nil {
			w.sql(sel.Offset)
		} else {
			w.write("0")
		}
		w.write(" LIMIT ")
		w.sql(sel.Limit)
	case sel.Offset != nil:
		w.fail("OFFSET requires LIMIT in document queries")
	}
}

// expression renders projection items and access paths.
func (w *docWriter) expression(e docexpr.Expression) {
	switch n := e.(type) {
	case docexpr.SQLExpression:
		w.sql(n)
	case *docexpr.RootReferenceExpression:
		w.write(n.Alias)
	case *docexpr.ObjectAccessExpression:
		w.expression(n.Access)
		w.write(`["`, n.Name, `"]`)
	case *docexpr.EntityProjectionExpression:
		w.expression(n.Access)
	case *docexpr.ObjectArrayProjectionExpression:
		w.expression(n.Access)
	default:
		w.fail("unsupported document expression: %T", e)
	}
}

func (w *docWriter) operand(e docexpr.SQLExpression) {
	if _, ok := e.(*docexpr.SQLBinaryExpression); ok {
		w.write("(")
		w.sql(e)
		w.write(")")
		return
	}
	w.sql(e)
}

func (w *docWriter) sql(e docexpr.SQLExpression) {
	if w.err != nil {
		return
	}
	switch n := e.(type) {
	case nil:
		w.fail("missing expression")

	case *docexpr.KeyAccessExpression:
		w.expression(n.Access)
		w.write(`["`, n.Name, `"]`)

	case *docexpr.SQLConstantExpression:
		w.bind("", n.Value, n.Mapping)

	case *docexpr.SQLParameterExpression:
		if v, ok := w.lookup(n.Name); ok {
			w.bind(n.Name, v, n.Mapping)
		}

	case *docexpr.SQLBinaryExpression:
		w.operand(n.Left)
		w.write(" ", n.Operator.SQL(), " ")
		w.operand(n.Right)

	case *docexpr.SQLUnaryExpression:
		switch n.Operator {
		case ir.OpNot:
			w.write("NOT ")
			w.operand(n.Operand)
		case ir.OpNegate:
			w.write("-")
			w.operand(n.Operand)
		case ir.OpIsNull:
			w.write("IS_NULL(")
			w.sql(n.Operand)
			w.write(")")
		case ir.OpIsNotNull:
			w.write("NOT IS_NULL(")
			w.sql(n.Operand)
			w.write(")")
		default:
			w.fail("unsupported unary operator %s", n.Operator)
		}

	case *docexpr.SQLConditionalExpression:
		w.write("(")
		w.operand(n.Test)
		w.write(" ? ")
		w.operand(n.IfTrue)
		w.write(" : ")
		w.operand(n.IfFalse)
		w.write(")")

	case *docexpr.SQLFunctionExpression:
		w.write(n.Name, "(")
		for i, a := range n.Arguments {
			if i > 0 {
				w.write(", ")
			}
			w.sql(a)
		}
		w.write(")")

	case *docexpr.InExpression:
		w.operand(n.Item)
		if n.IsNegated {
			w.write(" NOT")
		}
		w.write(" IN (")
		w.inValues(n.Values)
		w.write(")")

	default:
		w.fail("unsupported document expression: %T", e)
	}
}

func (w *docWriter) inValues(e docexpr.SQLExpression) {
	var v ir.IRValue
	var m *ir.TypeMapping
	switch n := e.(type) {
	case *docexpr.SQLConstantExpression:
		v, m = n.Value, n.Mapping
	case *docexpr.SQLParameterExpression:
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
		w.bind("", v, m)
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
		w.bind("", elem, m)
	}
}
