package sqlexpr

// TableExpression is a plain table reference.
type TableExpression struct {
	Name   string
	Schema string
	Alias  string
}

func (*TableExpression) Kind() Kind           { return KindTable }
func (*TableExpression) expressionNode()      {}
func (*TableExpression) sourceNode()          {}
func (t *TableExpression) TableAlias() string { return t.Alias }

// FromSQLExpression is a raw SQL source: FROM (sql) AS alias.
type FromSQLExpression struct {
	SQL   string
	Alias string
}

func (*FromSQLExpression) Kind() Kind           { return KindFromSQL }
func (*FromSQLExpression) expressionNode()      {}
func (*FromSQLExpression) sourceNode()          {}
func (f *FromSQLExpression) TableAlias() string { return f.Alias }

// TableValuedFunctionExpression is a function used as a source.
// Its arguments are not rewritten by the compensator.
type TableValuedFunctionExpression struct {
	Name      string
	Schema    string
	Arguments []SQLExpression
	Alias     string
}

func (*TableValuedFunctionExpression) Kind() Kind           { return KindTableValuedFunction }
func (*TableValuedFunctionExpression) expressionNode()      {}
func (*TableValuedFunctionExpression) sourceNode()          {}
func (t *TableValuedFunctionExpression) TableAlias() string { return t.Alias }

// CrossJoinExpression is CROSS JOIN table.
type CrossJoinExpression struct {
	Table Source
}

func (*CrossJoinExpression) Kind() Kind           { return KindCrossJoin }
func (*CrossJoinExpression) expressionNode()      {}
func (*CrossJoinExpression) sourceNode()          {}
func (j *CrossJoinExpression) TableAlias() string { return j.Table.TableAlias() }

// Update returns j if table is unchanged.
func (j *CrossJoinExpression) Update(table Source) *CrossJoinExpression {
	if table == j.Table {
		return j
	}
	return &CrossJoinExpression{Table: table}
}

// CrossApplyExpression is CROSS APPLY table (a lateral inner join).
type CrossApplyExpression struct {
	Table Source
}

func (*CrossApplyExpression) Kind() Kind           { return KindCrossApply }
func (*CrossApplyExpression) expressionNode()      {}
func (*CrossApplyExpression) sourceNode()          {}
func (a *CrossApplyExpression) TableAlias() string { return a.Table.TableAlias() }

// Update returns a if table is unchanged.
func (a *CrossApplyExpression) Update(table Source) *CrossApplyExpression {
	if table == a.Table {
		return a
	}
	return &CrossApplyExpression{Table: table}
}

// OuterApplyExpression is OUTER APPLY table (a lateral left join).
type OuterApplyExpression struct {
	Table Source
}

func (*OuterApplyExpression) Kind() Kind           { return KindOuterApply }
func (*OuterApplyExpression) expressionNode()      {}
func (*OuterApplyExpression) sourceNode()          {}
func (a *OuterApplyExpression) TableAlias() string { return a.Table.TableAlias() }

// Update returns a if table is unchanged.
func (a *OuterApplyExpression) Update(table Source) *OuterApplyExpression {
	if table == a.Table {
		return a
	}
	return &OuterApplyExpression{Table: table}
}

// InnerJoinExpression is INNER JOIN table ON predicate.
type InnerJoinExpression struct {
	Table         Source
	JoinPredicate SQLExpression
}

func (*InnerJoinExpression) Kind() Kind           { return KindInnerJoin }
func (*InnerJoinExpression) expressionNode()      {}
func (*InnerJoinExpression) sourceNode()          {}
func (j *InnerJoinExpression) TableAlias() string { return j.Table.TableAlias() }

// Update returns j if table and predicate are unchanged.
func (j *InnerJoinExpression) Update(table Source, joinPredicate SQLExpression) *InnerJoinExpression {
	if table == j.Table && joinPredicate == j.JoinPredicate {
		return j
	}
	return &InnerJoinExpression{Table: table, JoinPredicate: joinPredicate}
}

// LeftJoinExpression is LEFT JOIN table ON predicate.
type LeftJoinExpression struct {
	Table         Source
	JoinPredicate SQLExpression
}

func (*LeftJoinExpression) Kind() Kind           { return KindLeftJoin }
func (*LeftJoinExpression) expressionNode()      {}
func (*LeftJoinExpression) sourceNode()          {}
func (j *LeftJoinExpression) TableAlias() string { return j.Table.TableAlias() }

// Update returns j if table and predicate are unchanged.
func (j *LeftJoinExpression) Update(table Source, joinPredicate SQLExpression) *LeftJoinExpression {
	if table == j.Table && joinPredicate == j.JoinPredicate {
		return j
	}
	return &LeftJoinExpression{Table: table, JoinPredicate: joinPredicate}
}

// SetOperation is the shared shape of EXCEPT, INTERSECT and UNION.
type SetOperation struct {
	Source1    *SelectExpression
	Source2    *SelectExpression
	IsDistinct bool
	Alias      string
}

// ExceptExpression is source1 EXCEPT source2.
type ExceptExpression struct{ SetOperation }

func (*ExceptExpression) Kind() Kind           { return KindExcept }
func (*ExceptExpression) expressionNode()      {}
func (*ExceptExpression) sourceNode()          {}
func (e *ExceptExpression) TableAlias() string { return e.Alias }

// Update returns e if both operands are unchanged.
func (e *ExceptExpression) Update(source1, source2 *SelectExpression) *ExceptExpression {
	if source1 == e.Source1 && source2 == e.Source2 {
		return e
	}
	return &ExceptExpression{e.with(source1, source2)}
}

// IntersectExpression is source1 INTERSECT source2.
type IntersectExpression struct{ SetOperation }

func (*IntersectExpression) Kind() Kind           { return KindIntersect }
func (*IntersectExpression) expressionNode()      {}
func (*IntersectExpression) sourceNode()          {}
func (i *IntersectExpression) TableAlias() string { return i.Alias }

// Update returns i if both operands are unchanged.
func (i *IntersectExpression) Update(source1, source2 *SelectExpression) *IntersectExpression {
	if source1 == i.Source1 && source2 == i.Source2 {
		return i
	}
	return &IntersectExpression{i.with(source1, source2)}
}

// UnionExpression is source1 UNION [ALL] source2.
type UnionExpression struct{ SetOperation }

func (*UnionExpression) Kind() Kind           { return KindUnion }
func (*UnionExpression) expressionNode()      {}
func (*UnionExpression) sourceNode()          {}
func (u *UnionExpression) TableAlias() string { return u.Alias }

// Update returns u if both operands are unchanged.
func (u *UnionExpression) Update(source1, source2 *SelectExpression) *UnionExpression {
	if source1 == u.Source1 && source2 == u.Source2 {
		return u
	}
	return &UnionExpression{u.with(source1, source2)}
}

func (s SetOperation) with(source1, source2 *SelectExpression) SetOperation {
	s.Source1 = source1
	s.Source2 = source2
	return s
}
