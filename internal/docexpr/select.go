package docexpr

// ProjectionExpression is one item of a SELECT list. Expression is either
// a scalar or an entity/array projection.
type ProjectionExpression struct {
	Expression Expression
	Alias      string
}

func (*ProjectionExpression) Kind() Kind      { return KindProjection }
func (*ProjectionExpression) expressionNode() {}

// Update returns p if expression is unchanged.
func (p *ProjectionExpression) Update(expression Expression) *ProjectionExpression {
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

// SelectExpression is a query over one container.
type SelectExpression struct {
	Projection []*ProjectionExpression
	From       *RootReferenceExpression
	Predicate  SQLExpression // may be nil
	Orderings  []*OrderingExpression
	Limit      SQLExpression // may be nil
	Offset     SQLExpression // may be nil
	IsDistinct bool
}

func (*SelectExpression) Kind() Kind      { return KindSelect }
func (*SelectExpression) expressionNode() {}

// SelectParts carries the rewritable clauses of a SelectExpression.
type SelectParts struct {
	Projection []*ProjectionExpression
	From       *RootReferenceExpression
	Predicate  SQLExpression
	Orderings  []*OrderingExpression
	Limit      SQLExpression
	Offset     SQLExpression
}

// Parts returns the current clauses of s.
func (s *SelectExpression) Parts() SelectParts {
	return SelectParts{
		Projection: s.Projection,
		From:       s.From,
		Predicate:  s.Predicate,
		Orderings:  s.Orderings,
		Limit:      s.Limit,
		Offset:     s.Offset,
	}
}

// Update returns s if every clause in p is unchanged.
func (s *SelectExpression) Update(p SelectParts) *SelectExpression {
	if sameSlice(p.Projection, s.Projection) &&
		p.From == s.From &&
		p.Predicate == s.Predicate &&
		sameSlice(p.Orderings, s.Orderings) &&
		p.Limit == s.Limit &&
		p.Offset == s.Offset {
		return s
	}
	return &SelectExpression{
		Projection: p.Projection,
		From:       p.From,
		Predicate:  p.Predicate,
		Orderings:  p.Orderings,
		Limit:      p.Limit,
		Offset:     p.Offset,
		IsDistinct: s.IsDistinct,
	}
}
