package translate

import (
	"strings"

	"github.com/roach88/vcomp/internal/docexpr"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
)

var df docexpr.Factory

// RootAlias is the alias every document query reads its container under.
const RootAlias = "c"

// Document translates q into a query over one document container.
// Joins and EXISTS subqueries have no document form and are rejected
// with ErrCodeUnsupported.
//
// A property column containing dots is a path into embedded objects:
// "profile.vip" reads c["profile"]["vip"].
func (t *Translator) Document(q queryir.Query) (*docexpr.SelectExpression, error) {
	var s queryir.Select
	switch q := queryir.Deref(q).(type) {
	case nil:
		return nil, errorf(ErrCodeUnsupported, "", "nil query")
	case queryir.Select:
		s = q
	case queryir.Join:
		return nil, errorf(ErrCodeUnsupported, "", "document queries cannot join")
	default:
		return nil, errorf(ErrCodeUnsupported, "", "unsupported query type %T", q)
	}

	entity, err := t.entity(s.From)
	if err != nil {
		return nil, err
	}
	if err := checkPage(s.Limit, s.Offset); err != nil {
		return nil, err
	}
	d := &document{t: t, entity: entity, root: df.Root(entity.Name, RootAlias)}

	sel := df.Select(d.root)
	if len(s.Bindings) == 0 {
		sel.Projection = []*docexpr.ProjectionExpression{
			df.Project(&docexpr.EntityProjectionExpression{Access: d.root, Entity: entity.Name}, ""),
		}
	} else {
		props, names, err := projected(entity, s.Bindings, false)
		if err != nil {
			return nil, err
		}
		for i, p := range props {
			key, err := d.key(p, p.Name)
			if err != nil {
				return nil, err
			}
			sel.Projection = append(sel.Projection, df.Project(key, names[i]))
		}
	}

	if s.Filter != nil {
		if sel.Predicate, err = d.predicate(s.Filter); err != nil {
			return nil, err
		}
	}
	if sel.Orderings, err = d.orderings(s.OrderBy); err != nil {
		return nil, err
	}
	if s.Limit > 0 {
		sel.Limit = df.Constant(ir.IRInt(s.Limit), intMapping)
	}
	if s.Offset > 0 {
		sel.Offset = df.Constant(ir.IRInt(s.Offset), intMapping)
	}
	return sel, nil
}

type document struct {
	t      *Translator
	entity *ir.EntitySpec
	root   *docexpr.RootReferenceExpression
}

// key builds the access path for p.
func (d *document) key(p *ir.PropertySpec, field string) (*docexpr.KeyAccessExpression, error) {
	m, err := d.t.mapping(p, field)
	if err != nil {
		return nil, err
	}
	path := strings.Split(p.Column, ".")
	var access docexpr.Expression = d.root
	for _, name := range path[:len(path)-1] {
		access = df.Object(access, name)
	}
	return df.Key(access, path[len(path)-1], m), nil
}

func (d *document) field(name string) (*docexpr.KeyAccessExpression, *ir.PropertySpec, error) {
	_, p, err := d.t.resolve(queryir.Scope{d.entity.Name}, name)
	if err != nil {
		return nil, nil, err
	}
	key, err := d.key(p, name)
	if err != nil {
		return nil, nil, err
	}
	return key, p, nil
}

func (d *document) orderings(order []queryir.Order) ([]*docexpr.OrderingExpression, error) {
	if len(order) == 0 {
		p, err := keyProperty(d.entity)
		if err != nil {
			return nil, err
		}
		key, err := d.key(p, p.Name)
		if err != nil {
			return nil, err
		}
		return []*docexpr.OrderingExpression{df.Order(key, true)}, nil
	}

	out := make([]*docexpr.OrderingExpression, len(order))
	for i, o := range order {
		key, _, err := d.field(o.Field)
		if err != nil {
			return nil, err
		}
		out[i] = df.Order(key, !o.Descending)
	}
	return out, nil
}

func (d *document) predicate(p queryir.Predicate) (docexpr.SQLExpression, error) {
	switch p := queryir.DerefPredicate(p).(type) {
	case nil:
		return nil, errorf(ErrCodeUnsupported, "", "nil predicate")

	case queryir.Equals:
		key, prop, err := d.field(p.Field)
		if err != nil {
			return nil, err
		}
		if isNull(p.Value) {
			return df.Equal(key, df.Constant(ir.IRNull{}, key.Mapping)), nil
		}
		if err := checkLiteral(prop, p.Field, p.Value); err != nil {
			return nil, err
		}
		return df.Equal(key, df.Constant(p.Value, key.Mapping)), nil

	case queryir.BoundEquals:
		key, _, err := d.field(p.Field)
		if err != nil {
			return nil, err
		}
		return df.Equal(key, df.Parameter("@"+p.BoundVar, key.Mapping)), nil

	case queryir.FieldEquals:
		left, _, err := d.field(p.Field)
		if err != nil {
			return nil, err
		}
		right, _, err := d.field(p.Other)
		if err != nil {
			return nil, err
		}
		return df.Equal(left, right), nil

	case queryir.Truth:
		key, prop, err := d.field(p.Field)
		if err != nil {
			return nil, err
		}
		if err := checkTruth(prop, p.Field); err != nil {
			return nil, err
		}
		return key, nil

	case queryir.In:
		key, prop, err := d.field(p.Field)
		if err != nil {
			return nil, err
		}
		if len(p.Values) == 0 {
			return df.Constant(ir.IRBool(false), docexpr.BoolMapping()), nil
		}
		for _, v := range p.Values {
			if err := checkLiteral(prop, p.Field, v); err != nil {
				return nil, err
			}
		}
		return df.In(key, df.Constant(ir.IRArray(p.Values), key.Mapping), false), nil

	case queryir.And:
		return d.fold(p.Predicates, true, df.AndAlso)

	case queryir.Or:
		return d.fold(p.Predicates, false, df.OrElse)

	case queryir.Not:
		if p.Predicate == nil {
			return nil, errorf(ErrCodeUnsupported, "", "NOT without a predicate")
		}
		inner, err := d.predicate(p.Predicate)
		if err != nil {
			return nil, err
		}
		return df.Not(inner), nil

	case queryir.Exists:
		return nil, errorf(ErrCodeUnsupported, "", "document queries cannot use EXISTS")

	default:
		return nil, errorf(ErrCodeUnsupported, "", "unsupported predicate type %T", p)
	}
}

func (d *document) fold(preds []queryir.Predicate, empty bool, op func(l, r docexpr.SQLExpression) docexpr.SQLExpression) (docexpr.SQLExpression, error) {
	if len(preds) == 0 {
		return df.Constant(ir.IRBool(empty), docexpr.BoolMapping()), nil
	}
	var out docexpr.SQLExpression
	for _, p := range preds {
		e, err := d.predicate(p)
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
