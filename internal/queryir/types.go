package queryir

import "github.com/roach88/vcomp/internal/ir"

// Query is an abstract query: Select or Join.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate is a filter condition.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select reads one entity.
//
//	SELECT <bindings> FROM <from> WHERE <filter> ORDER BY <order> LIMIT/OFFSET
//
// Bindings maps property name to output name. Empty bindings select every
// property under its own name. Without OrderBy the translator orders by
// the entity key so results are deterministic.
type Select struct {
	From     string
	Filter   Predicate
	Bindings map[string]string
	OrderBy  []Order
	Limit    int // 0 = no limit
	Offset   int // 0 = no offset
}

func (Select) queryNode() {}

// Order is one ORDER BY key.
type Order struct {
	Field      string
	Descending bool
}

// JoinKind selects inner or left join semantics.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
)

// Join combines two queries. The left side's ordering, limit and offset
// apply to the result; the right side's filter becomes part of the join
// condition and its bindings are added to the projection.
type Join struct {
	Left  Query
	Right Query
	On    Predicate // required
	Kind  JoinKind  // empty = inner
}

func (Join) queryNode() {}

// Equals is field = literal.
type Equals struct {
	Field string
	Value ir.IRValue
}

func (Equals) predicateNode() {}

// BoundEquals is field = a runtime parameter, named "bound.<var>".
type BoundEquals struct {
	Field    string
	BoundVar string
}

func (BoundEquals) predicateNode() {}

// FieldEquals is field = other, where both name properties. Join
// conditions and correlated subqueries use it.
type FieldEquals struct {
	Field string
	Other string
}

func (FieldEquals) predicateNode() {}

// Truth is a boolean property used as a condition on its own.
type Truth struct {
	Field string
}

func (Truth) predicateNode() {}

// In is field IN (values...).
type In struct {
	Field  string
	Values []ir.IRValue
}

func (In) predicateNode() {}

// And is a conjunction. Empty means always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. Empty means always false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates its predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// Exists is [NOT] EXISTS (query). The subquery may refer to the outer
// entity with qualified field names.
type Exists struct {
	Query   Query
	Negated bool
}

func (Exists) predicateNode() {}

// Deref returns q with a pointer form replaced by its value.
// A nil pointer becomes nil.
func Deref(q Query) Query {
	switch v := q.(type) {
	case *Select:
		if v == nil {
			return nil
		}
		return *v
	case *Join:
		if v == nil {
			return nil
		}
		return *v
	default:
		return q
	}
}

// DerefPredicate is Deref for predicates.
func DerefPredicate(p Predicate) Predicate {
	switch v := p.(type) {
	case *Equals:
		return derefOrNil(v)
	case *BoundEquals:
		return derefOrNil(v)
	case *FieldEquals:
		return derefOrNil(v)
	case *Truth:
		return derefOrNil(v)
	case *In:
		return derefOrNil(v)
	case *And:
		return derefOrNil(v)
	case *Or:
		return derefOrNil(v)
	case *Not:
		return derefOrNil(v)
	case *Exists:
		return derefOrNil(v)
	default:
		return p
	}
}

func derefOrNil[T Predicate](p *T) Predicate {
	if p == nil {
		return nil
	}
	return *p
}

// SplitField splits "Entity.prop" into its parts. An unqualified name
// returns an empty entity.
func SplitField(field string) (entity, prop string) {
	for i := 0; i < len(field); i++ {
		if field[i] == '.' {
			return field[:i], field[i+1:]
		}
	}
	return "", field
}
