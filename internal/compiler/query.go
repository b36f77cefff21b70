package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/vcomp/internal/queryir"
)

// CompileQuery parses a CUE value into a Query.
//
// A select:
//
//	from:     "Customer"
//	select:   {id: "id", name: "customer_name"} // property: output name
//	where:    {truth: "active"}
//	order_by: [{field: "name", desc: true}]
//	limit:    10
//	offset:   20
//
// A join:
//
//	join: {left: {...}, right: {...}, on: {...}, kind: "left"}
//
// Predicates are single-key structs:
//
//	{truth: "active"}
//	{equals: {field: "name", value: "ann"}}
//	{bound: {field: "active", var: "flag"}}
//	{field_equals: {field: "customer_id", other: "Customer.id"}}
//	{one_of: {field: "id", values: [1, 2]}}
//	{and: [...]}  {or: [...]}  {not: {...}}
//	{exists: {query: {...}, negated: true}}
func CompileQuery(v cue.Value) (queryir.Query, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileQuery(v, "query")
}

func compileQuery(v cue.Value, field string) (queryir.Query, error) {
	if j := v.LookupPath(cue.ParsePath("join")); j.Exists() {
		return compileJoin(j, field+".join")
	}
	return compileSelect(v, field)
}

func compileSelect(v cue.Value, field string) (queryir.Query, error) {
	var s queryir.Select
	var err error

	if s.From, err = requiredString(v, "from", field+".from"); err != nil {
		return nil, err
	}

	if b := v.LookupPath(cue.ParsePath("select")); b.Exists() {
		iter, err := b.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s.Bindings = make(map[string]string)
		for iter.Next() {
			out, err := iter.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   fmt.Sprintf("%s.select.%s", field, iter.Label()),
					Message: "output name must be a string",
					Pos:     iter.Value().Pos(),
				}
			}
			s.Bindings[iter.Label()] = out
		}
	}

	if w := v.LookupPath(cue.ParsePath("where")); w.Exists() {
		if s.Filter, err = compilePredicate(w, field+".where"); err != nil {
			return nil, err
		}
	}

	if o := v.LookupPath(cue.ParsePath("order_by")); o.Exists() {
		iter, err := o.List()
		if err != nil {
			return nil, &CompileError{Field: field + ".order_by", Message: "must be a list", Pos: o.Pos()}
		}
		for i := 0; iter.Next(); i++ {
			item := iter.Value()
			itemField := fmt.Sprintf("%s.order_by[%d]", field, i)

			// A bare string orders ascending.
			if name, err := item.String(); err == nil {
				s.OrderBy = append(s.OrderBy, queryir.Order{Field: name})
				continue
			}
			name, err := requiredString(item, "field", itemField+".field")
			if err != nil {
				return nil, err
			}
			desc, err := optionalBool(item, "desc", itemField+".desc")
			if err != nil {
				return nil, err
			}
			s.OrderBy = append(s.OrderBy, queryir.Order{Field: name, Descending: desc})
		}
	}

	if s.Limit, err = optionalInt(v, "limit", field+".limit"); err != nil {
		return nil, err
	}
	if s.Offset, err = optionalInt(v, "offset", field+".offset"); err != nil {
		return nil, err
	}
	return s, nil
}

func compileJoin(v cue.Value, field string) (queryir.Query, error) {
	var j queryir.Join

	left := v.LookupPath(cue.ParsePath("left"))
	right := v.LookupPath(cue.ParsePath("right"))
	if !left.Exists() || !right.Exists() {
		return nil, &CompileError{Field: field, Message: "join requires left and right", Pos: v.Pos()}
	}

	var err error
	if j.Left, err = compileQuery(left, field+".left"); err != nil {
		return nil, err
	}
	if j.Right, err = compileQuery(right, field+".right"); err != nil {
		return nil, err
	}

	on := v.LookupPath(cue.ParsePath("on"))
	if !on.Exists() {
		return nil, &CompileError{Field: field + ".on", Message: "join condition is required", Pos: v.Pos()}
	}
	if j.On, err = compilePredicate(on, field+".on"); err != nil {
		return nil, err
	}

	kind, err := optionalString(v, "kind", field+".kind")
	if err != nil {
		return nil, err
	}
	switch queryir.JoinKind(kind) {
	case "", queryir.JoinInner, queryir.JoinLeft:
		j.Kind = queryir.JoinKind(kind)
	default:
		return nil, &CompileError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("invalid join kind %q, must be \"inner\" or \"left\"", kind),
			Pos:     v.LookupPath(cue.ParsePath("kind")).Pos(),
		}
	}
	return j, nil
}

func compilePredicate(v cue.Value, field string) (queryir.Predicate, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "predicate must be a struct", Pos: v.Pos()}
	}
	if !iter.Next() {
		return nil, &CompileError{Field: field, Message: "empty predicate", Pos: v.Pos()}
	}
	op, arg := iter.Label(), iter.Value()
	if iter.Next() {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("predicate must have exactly one key, got %q and %q", op, iter.Label()),
			Pos:     v.Pos(),
		}
	}
	field = field + "." + op

	switch op {
	case "truth":
		name, err := arg.String()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "must be a field name", Pos: arg.Pos()}
		}
		return queryir.Truth{Field: name}, nil

	case "equals":
		name, err := requiredString(arg, "field", field+".field")
		if err != nil {
			return nil, err
		}
		val := arg.LookupPath(cue.ParsePath("value"))
		if !val.Exists() {
			return nil, &CompileError{Field: field + ".value", Message: "value is required", Pos: arg.Pos()}
		}
		lit, err := literal(val, field+".value")
		if err != nil {
			return nil, err
		}
		return queryir.Equals{Field: name, Value: lit}, nil

	case "bound":
		name, err := requiredString(arg, "field", field+".field")
		if err != nil {
			return nil, err
		}
		bv, err := requiredString(arg, "var", field+".var")
		if err != nil {
			return nil, err
		}
		return queryir.BoundEquals{Field: name, BoundVar: bv}, nil

	case "field_equals":
		name, err := requiredString(arg, "field", field+".field")
		if err != nil {
			return nil, err
		}
		other, err := requiredString(arg, "other", field+".other")
		if err != nil {
			return nil, err
		}
		return queryir.FieldEquals{Field: name, Other: other}, nil

	case "one_of":
		name, err := requiredString(arg, "field", field+".field")
		if err != nil {
			return nil, err
		}
		in := queryir.In{Field: name}
		vals := arg.LookupPath(cue.ParsePath("values"))
		list, err := vals.List()
		if err != nil {
			return nil, &CompileError{Field: field + ".values", Message: "values must be a list", Pos: arg.Pos()}
		}
		for i := 0; list.Next(); i++ {
			lit, err := literal(list.Value(), fmt.Sprintf("%s.values[%d]", field, i))
			if err != nil {
				return nil, err
			}
			in.Values = append(in.Values, lit)
		}
		return in, nil

	case "and", "or":
		list, err := arg.List()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "must be a list of predicates", Pos: arg.Pos()}
		}
		var preds []queryir.Predicate
		for i := 0; list.Next(); i++ {
			p, err := compilePredicate(list.Value(), fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			preds = append(preds, p)
		}
		if op == "and" {
			return queryir.And{Predicates: preds}, nil
		}
		return queryir.Or{Predicates: preds}, nil

	case "not":
		p, err := compilePredicate(arg, field)
		if err != nil {
			return nil, err
		}
		return queryir.Not{Predicate: p}, nil

	case "exists":
		q := arg.LookupPath(cue.ParsePath("query"))
		if !q.Exists() {
			return nil, &CompileError{Field: field + ".query", Message: "query is required", Pos: arg.Pos()}
		}
		sub, err := compileQuery(q, field+".query")
		if err != nil {
			return nil, err
		}
		negated, err := optionalBool(arg, "negated", field+".negated")
		if err != nil {
			return nil, err
		}
		return queryir.Exists{Query: sub, Negated: negated}, nil

	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown predicate %q", op),
			Pos:     v.Pos(),
		}
	}
}

