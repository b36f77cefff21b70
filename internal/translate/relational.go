package translate

import (
	"fmt"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/sqlexpr"
)

var sf sqlexpr.Factory

// Relational translates q into a SELECT over the model's tables.
func (t *Translator) Relational(q queryir.Query) (*sqlexpr.SelectExpression, error) {
	r := &relational{t: t}
	sel, _, err := r.query(q, nil)
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// frame binds an entity occurrence to its table alias.
type frame struct {
	entity *ir.EntitySpec
	alias  string
}

// frames is innermost first, like queryir.Scope.
type frames []frame

func (fs frames) push(f frame) frames {
	out := make(frames, 0, len(fs)+1)
	out = append(out, f)
	return append(out, fs...)
}

func (fs frames) scope() queryir.Scope {
	s := make(queryir.Scope, len(fs))
	for i, f := range fs {
		s[i] = f.entity.Name
	}
	return s
}

func (fs frames) alias(entity string) string {
	for _, f := range fs {
		if f.entity.Name == entity {
			return f.alias
		}
	}
	return ""
}

type relational struct {
	t    *Translator
	next int
}

func (r *relational) alias() string {
	a := fmt.Sprintf("t%d", r.next)
	r.next++
	return a
}

// query returns the block for q and the entities visible inside it.
func (r *relational) query(q queryir.Query, outer frames) (*sqlexpr.SelectExpression, frames, error) {
	switch q := queryir.Deref(q).(type) {
	case nil:
		return nil, nil, errorf(ErrCodeUnsupported, "", "nil query")
	case queryir.Select:
		return r.selectQuery(q, outer)
	case queryir.Join:
		return r.join(q, outer)
	default:
		return nil, nil, errorf(ErrCodeUnsupported, "", "unsupported query type %T", q)
	}
}

func (r *relational) selectQuery(q queryir.Select, outer frames) (*sqlexpr.SelectExpression, frames, error) {
	entity, err := r.t.entity(q.From)
	if err != nil {
		return nil, nil, err
	}
	if err := checkPage(q.Limit, q.Offset); err != nil {
		return nil, nil, err
	}
	alias := r.alias()
	fs := outer.push(frame{entity: entity, alias: alias})

	projection, err := r.projection(entity, alias, q.Bindings, true)
	if err != nil {
		return nil, nil, err
	}
	sel := sf.Select(projection, sf.Table(entity.Table, alias))

	if q.Filter != nil {
		if sel.Predicate, err = r.predicate(q.Filter, fs); err != nil {
			return nil, nil, err
		}
	}
	if sel.Orderings, err = r.orderings(entity, alias, q.OrderBy, fs); err != nil {
		return nil, nil, err
	}
	if q.Limit > 0 {
		sel.Limit = sf.Constant(ir.IRInt(q.Limit), intMapping)
	}
	if q.Offset > 0 {
		sel.Offset = sf.Constant(ir.IRInt(q.Offset), intMapping)
	}
	return sel, fs, nil
}

// join extends the left block with the right entity. The right side must
// be a single select; its filter joins the ON condition.
func (r *relational) join(j queryir.Join, outer frames) (*sqlexpr.SelectExpression, frames, error) {
	left, fs, err := r.query(j.Left, outer)
	if err != nil {
		return nil, nil, err
	}
	right, ok := queryir.Deref(j.Right).(queryir.Select)
	if !ok {
		return nil, nil, errorf(ErrCodeUnsupported, "", "right side of a join must be a select, got %T", j.Right)
	}
	if j.On == nil {
		return nil, nil, errorf(ErrCodeUnsupported, "", "join without a condition")
	}
	entity, err := r.t.entity(right.From)
	if err != nil {
		return nil, nil, err
	}
	alias := r.alias()
	fs = fs.push(frame{entity: entity, alias: alias})

	cols, err := r.projection(entity, alias, right.Bindings, false)
	if err != nil {
		return nil, nil, err
	}
	on, err := r.predicate(j.On, fs)
	if err != nil {
		return nil, nil, err
	}
	if right.Filter != nil {
		filter, err := r.predicate(right.Filter, fs)
		if err != nil {
			return nil, nil, err
		}
		on = sf.AndAlso(on, filter)
	}

	table := sf.Table(entity.Table, alias)
	var src sqlexpr.Source
	switch j.Kind {
	case "", queryir.JoinInner:
		src = &sqlexpr.InnerJoinExpression{Table: table, JoinPredicate: on}
	case queryir.JoinLeft:
		src = &sqlexpr.LeftJoinExpression{Table: table, JoinPredicate: on}
	default:
		return nil, nil, errorf(ErrCodeUnsupported, "", "unknown join kind %q", j.Kind)
	}

	left.Projection = append(left.Projection, cols...)
	left.Tables = append(left.Tables, src)
	return left, fs, nil
}

func (r *relational) projection(e *ir.EntitySpec, alias string, bindings map[string]string, all bool) ([]*sqlexpr.ProjectionExpression, error) {
	props, names, err := projected(e, bindings, all)
	if err != nil {
		return nil, err
	}
	out := make([]*sqlexpr.ProjectionExpression, len(props))
	for i, p := range props {
		col, err := r.column(p, alias, p.Name)
		if err != nil {
			return nil, err
		}
		out[i] = sf.Project(col, names[i])
	}
	return out, nil
}

func (r *relational) orderings(e *ir.EntitySpec, alias string, order []queryir.Order, fs frames) ([]*sqlexpr.OrderingExpression, error) {
	if len(order) == 0 {
		key, err := keyProperty(e)
		if err != nil {
			return nil, err
		}
		col, err := r.column(key, alias, key.Name)
		if err != nil {
			return nil, err
		}
		return []*sqlexpr.OrderingExpression{sf.Order(col, true)}, nil
	}

	out := make([]*sqlexpr.OrderingExpression, len(order))
	for i, o := range order {
		col, _, err := r.field(o.Field, fs)
		if err != nil {
			return nil, err
		}
		out[i] = sf.Order(col, !o.Descending)
	}
	return out, nil
}

func (r *relational) column(p *ir.PropertySpec, alias, field string) (*sqlexpr.ColumnExpression, error) {
	m, err := r.t.mapping(p, field)
	if err != nil {
		return nil, err
	}
	return sf.Column(p.Column, alias, m), nil
}

// field resolves a possibly qualified field name to a column.
func (r *relational) field(name string, fs frames) (*sqlexpr.ColumnExpression, *ir.PropertySpec, error) {
	e, p, err := r.t.resolve(fs.scope(), name)
	if err != nil {
		return nil, nil, err
	}
	col, err := r.column(p, fs.alias(e.Name), name)
	if err != nil {
		return nil, nil, err
	}
	return col, p, nil
}

func (r *relational) predicate(p queryir.Predicate, fs frames) (sqlexpr.SQLExpression, error) {
	switch p := queryir.DerefPredicate(p).(type) {
	case nil:
		return nil, errorf(ErrCodeUnsupported, "", "nil predicate")

	case queryir.Equals:
		col, prop, err := r.field(p.Field, fs)
		if err != nil {
			return nil, err
		}
		if isNull(p.Value) {
			return sf.IsNull(col), nil
		}
		if err := checkLiteral(prop, p.Field, p.Value); err != nil {
			return nil, err
		}
		return sf.Equal(col, sf.Constant(p.Value, col.Mapping)), nil

	case queryir.BoundEquals:
		col, _, err := r.field(p.Field, fs)
		if err != nil {
			return nil, err
		}
		return sf.Equal(col, sf.Parameter(p.BoundVar, col.Mapping)), nil

	case queryir.FieldEquals:
		left, _, err := r.field(p.Field, fs)
		if err != nil {
			return nil, err
		}
		right, _, err := r.field(p.Other, fs)
		if err != nil {
			return nil, err
		}
		return sf.Equal(left, right), nil

	case queryir.Truth:
		col, prop, err := r.field(p.Field, fs)
		if err != nil {
			return nil, err
		}
		if err := checkTruth(prop, p.Field); err != nil {
			return nil, err
		}
		return col, nil

	case queryir.In:
		col, prop, err := r.field(p.Field, fs)
		if err != nil {
			return nil, err
		}
		if len(p.Values) == 0 {
			return sf.Constant(ir.IRBool(false), sqlexpr.BoolMapping()), nil
		}
		for _, v := range p.Values {
			if err := checkLiteral(prop, p.Field, v); err != nil {
				return nil, err
			}
		}
		return sf.InValues(col, sf.Constant(ir.IRArray(p.Values), col.Mapping), false), nil

	case queryir.And:
		return r.fold(p.Predicates, fs, true, sf.AndAlso)

	case queryir.Or:
		return r.fold(p.Predicates, fs, false, sf.OrElse)

	case queryir.Not:
		if p.Predicate == nil {
			return nil, errorf(ErrCodeUnsupported, "", "NOT without a predicate")
		}
		inner, err := r.predicate(p.Predicate, fs)
		if err != nil {
			return nil, err
		}
		return sf.Not(inner), nil

	case queryir.Exists:
		sub, _, err := r.query(p.Query, fs)
		if err != nil {
			return nil, err
		}
		sub.Projection = []*sqlexpr.ProjectionExpression{sf.Project(&sqlexpr.SQLFragmentExpression{SQL: "1"}, "")}
		sub.Orderings = nil
		return sf.Exists(sub, p.Negated), nil

	default:
		return nil, errorf(ErrCodeUnsupported, "", "unsupported predicate type %T", p)
	}
}

// fold joins predicates with op. An empty list is the constant empty.
func (r *relational) fold(preds []queryir.Predicate, fs frames, empty bool, op func(l, r sqlexpr.SQLExpression) sqlexpr.SQLExpression) (sqlexpr.SQLExpression, error) {
	if len(preds) == 0 {
		return sf.Constant(ir.IRBool(empty), sqlexpr.BoolMapping()), nil
	}
	var out sqlexpr.SQLExpression
	for _, p := range preds {
		e, err := r.predicate(p, fs)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = e
			continue
		}
		out = op(out, e)
	}
	return out, nil
}
