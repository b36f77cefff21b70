package queryir

import (
	"fmt"

	"github.com/roach88/vcomp/internal/ir"
)

// ValidationResult lists the problems found in a query.
type ValidationResult struct {
	// OK is true when there are no warnings.
	OK bool

	// Warnings describe each problem in traversal order.
	Warnings []string
}

// Validate checks a query against a model.
//
// It reports:
//   - unknown entities and properties, and qualified names not in scope
//   - Truth on a property that is not boolean
//   - literals whose type disagrees with the property (NULL is allowed on
//     nullable properties only)
//   - empty In lists and negative limits or offsets
//   - joins without a condition
//
// The translator rejects the same queries with an error; Validate finds
// every problem instead of stopping at the first.
//
// Validate is a pure function with no side effects.
func Validate(query Query, model *ir.Model) ValidationResult {
	v := &validator{
		model:    model,
		warnings: []string{},
	}
	v.validateQuery(query, nil)

	return ValidationResult{
		OK:       len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	model    *ir.Model
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validateQuery validates q and returns the scope it introduces.
func (v *validator) validateQuery(q Query, outer Scope) Scope {
	switch query := Deref(q).(type) {
	case nil:
		v.addWarning("nil query")
		return outer
	case Select:
		return v.validateSelect(query, outer)
	case Join:
		return v.validateJoin(query, outer)
	default:
		v.addWarning("unknown query type: %T", q)
		return outer
	}
}

func (v *validator) validateSelect(sel Select, outer Scope) Scope {
	entity, ok := v.model.Entity(sel.From)
	if !ok {
		v.addWarning("unknown entity %q", sel.From)
		return outer
	}
	scope := outer.Push(entity.Name)

	for prop := range sel.Bindings {
		if _, ok := entity.Property(prop); !ok {
			v.addWarning("binding: entity %s has no property %q", entity.Name, prop)
		}
	}
	for _, o := range sel.OrderBy {
		v.field(scope, o.Field, "order by")
	}
	if sel.Limit < 0 {
		v.addWarning("negative limit %d", sel.Limit)
	}
	if sel.Offset < 0 {
		v.addWarning("negative offset %d", sel.Offset)
	}
	v.validatePredicate(sel.Filter, scope)
	return scope
}

func (v *validator) validateJoin(join Join, outer Scope) Scope {
	left := v.validateQuery(join.Left, outer)
	right := v.validateQuery(join.Right, outer)

	// Both sides are visible in the condition; the right side is innermost.
	scope := left
	for i := len(right) - len(outer) - 1; i >= 0; i-- {
		scope = scope.Push(right[i])
	}

	switch join.Kind {
	case "", JoinInner, JoinLeft:
	default:
		v.addWarning("unknown join kind %q", join.Kind)
	}
	if join.On == nil {
		v.addWarning("join without a condition")
	}
	v.validatePredicate(join.On, scope)
	return scope
}

func (v *validator) validatePredicate(p Predicate, scope Scope) {
	switch pred := DerefPredicate(p).(type) {
	case nil:
		// no filter
	case Equals:
		if prop := v.field(scope, pred.Field, "equals"); prop != nil {
			v.literal(prop, pred.Field, pred.Value)
		}
	case BoundEquals:
		v.field(scope, pred.Field, "bound equals")
		if pred.BoundVar == "" {
			v.addWarning("field %q compared to an unnamed bound variable", pred.Field)
		}
	case FieldEquals:
		a := v.field(scope, pred.Field, "field equals")
		b := v.field(scope, pred.Other, "field equals")
		if a != nil && b != nil && a.Type != b.Type {
			v.addWarning("field %q (%s) compared to %q (%s)", pred.Field, a.Type, pred.Other, b.Type)
		}
	case Truth:
		if prop := v.field(scope, pred.Field, "truth"); prop != nil && prop.Type != ir.TypeBool {
			v.addWarning("field %q is %s, not bool, and cannot be used as a condition", pred.Field, prop.Type)
		}
	case In:
		prop := v.field(scope, pred.Field, "in")
		if len(pred.Values) == 0 {
			v.addWarning("field %q: empty IN list", pred.Field)
		}
		if prop != nil {
			for _, val := range pred.Values {
				v.literal(prop, pred.Field, val)
			}
		}
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, scope)
		}
	case Or:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, scope)
		}
	case Not:
		if pred.Predicate == nil {
			v.addWarning("NOT without a predicate")
		}
		v.validatePredicate(pred.Predicate, scope)
	case Exists:
		v.validateQuery(pred.Query, scope)
	default:
		v.addWarning("unknown predicate type: %T", p)
	}
}

// field resolves a field name, warning and returning nil if it cannot.
func (v *validator) field(scope Scope, field, context string) *ir.PropertySpec {
	_, prop, err := Resolve(v.model, scope, field)
	if err != nil {
		v.addWarning("%s: %v", context, err)
		return nil
	}
	return prop
}

func (v *validator) literal(prop *ir.PropertySpec, field string, val ir.IRValue) {
	if _, isNull := val.(ir.IRNull); isNull || val == nil {
		if !prop.Nullable {
			v.addWarning("field %q compared to NULL but is not nullable", field)
		}
		return
	}
	got, ok := ir.TypeOf(val)
	if !ok {
		v.addWarning("field %q compared to a non-scalar %T", field, val)
		return
	}
	if got != prop.Type {
		v.addWarning("field %q is %s but compared to a %s literal", field, prop.Type, got)
	}
}
