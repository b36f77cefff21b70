package sqlexpr

import "github.com/roach88/vcomp/internal/ir"

// ProjectionExpression is one item of a SELECT list.
type ProjectionExpression struct {
	Expression SQLExpression
	Alias      string
}

func (*ProjectionExpression) Kind() Kind      { return KindProjection }
func (*ProjectionExpression) expressionNode() {}

// Update returns p if expression is unchanged.
func (p *ProjectionExpression) Update(expression SQLExpression) *ProjectionExpression {
	if expression == p.Expression {
		return p
	}
	return &ProjectionExpression{Expression: expression, Alias: p.Alias}
}

// OrderingExpression is one ORDER BY key.
type OrderingExpression struct {
	Expression SQLExpression
	Ascending  bool
}

func (*OrderingExpression) Kind() Kind      { return KindOrdering }
func (*OrderingExpression) expressionNode() {}

// Update returns o if expression is unchanged.
func (o *OrderingExpression) Update(expression SQLExpression) *OrderingExpression {
	if expression == o.Expression {
		return o
	}
	return &OrderingExpression{Expression: expression, Ascending: o.Ascending}
}

// SelectExpression is a full query block. It doubles as a source when
// nested in another block's FROM clause and as a scalar when wrapped by
// Exists, In or ScalarSubquery.
type SelectExpression struct {
	Alias      string
	Projection []*ProjectionExpression
	Tables     []Source
	Predicate  SQLExpression // WHERE, may be nil
	GroupBy    []SQLExpression
	Having     SQLExpression // may be nil
	Orderings  []*OrderingExpression
	Limit      SQLExpression // may be nil
	Offset     SQLExpression // may be nil
	IsDistinct bool
}

func (*SelectExpression) Kind() Kind           { return KindSelect }
func (*SelectExpression) expressionNode()      {}
func (*SelectExpression) sourceNode()          {}
func (s *SelectExpression) TableAlias() string { return s.Alias }

// SelectParts carries the rewritable clauses of a SelectExpression.
type SelectParts struct {
	Projection []*ProjectionExpression
	Tables     []Source
	Predicate  SQLExpression
	GroupBy    []SQLExpression
	Having     SQLExpression
	Orderings  []*OrderingExpression
	Limit      SQLExpression
	Offset     SQLExpression
}

// Parts returns the current clauses of s.
func (s *SelectExpression) Parts() SelectParts {
	return SelectParts{
		Projection: s.Projection,
		Tables:     s.Tables,
		Predicate:  s.Predicate,
		GroupBy:    s.GroupBy,
		Having:     s.Having,
		Orderings:  s.Orderings,
		Limit:      s.Limit,
		Offset:     s.Offset,
	}
}

// Update returns s if every clause in p is reference-identical to the
// current one, and a new block with the same alias and distinctness
// otherwise.
func (s *SelectExpression) Update(p SelectParts) *SelectExpression {
	if sameSlice(p.Projection, s.Projection) &&
		sameSlice(p.Tables, s.Tables) &&
		p.Predicate == s.Predicate &&
		sameSlice(p.GroupBy, s.GroupBy) &&
		p.Having == s.Having &&
		sameSlice(p.Orderings, s.Orderings) &&
		p.Limit == s.Limit &&
		p.Offset == s.Offset {
		return s
	}
	return &SelectExpression{
		Alias:      s.Alias,
		Projection: p.Projection,
		Tables:     p.Tables,
		Predicate:  p.Predicate,
		GroupBy:    p.GroupBy,
		Having:     p.Having,
		Orderings:  p.Orderings,
		Limit:      p.Limit,
		Offset:     p.Offset,
		IsDistinct: s.IsDistinct,
	}
}

// ProjectionMappings returns the type mapping of each projected column.
func (s *SelectExpression) ProjectionMappings() []*ir.TypeMapping {
	out := make([]*ir.TypeMapping, len(s.Projection))
	for i, p := range s.Projection {
		out[i] = p.Expression.TypeMapping()
	}
	return out
}
