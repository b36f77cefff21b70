package sqlexpr

import "github.com/roach88/vcomp/internal/ir"

// ColumnExpression references a column of a FROM-clause source.
type ColumnExpression struct {
	Name     string // physical column name
	Table    string // alias of the owning source
	Nullable bool
	Mapping  *ir.TypeMapping
}

func (*ColumnExpression) Kind() Kind                     { return KindColumn }
func (*ColumnExpression) expressionNode()                {}
func (*ColumnExpression) sqlNode()                       {}
func (c *ColumnExpression) TypeMapping() *ir.TypeMapping { return c.Mapping }

// SQLConstantExpression is a literal. The mapping decides how the value is
// encoded on the wire: a true constant mapped with bool_to_yn is sent as "Y".
type SQLConstantExpression struct {
	Value   ir.IRValue
	Mapping *ir.TypeMapping
}

func (*SQLConstantExpression) Kind() Kind                     { return KindConstant }
func (*SQLConstantExpression) expressionNode()                {}
func (*SQLConstantExpression) sqlNode()                       {}
func (c *SQLConstantExpression) TypeMapping() *ir.TypeMapping { return c.Mapping }

// SQLParameterExpression is a named runtime parameter.
type SQLParameterExpression struct {
	Name    string
	Mapping *ir.TypeMapping
}

func (*SQLParameterExpression) Kind() Kind                     { return KindParameter }
func (*SQLParameterExpression) expressionNode()                {}
func (*SQLParameterExpression) sqlNode()                       {}
func (p *SQLParameterExpression) TypeMapping() *ir.TypeMapping { return p.Mapping }

// SQLFragmentExpression is raw SQL text emitted verbatim ("*", "DEFAULT").
type SQLFragmentExpression struct {
	SQL string
}

func (*SQLFragmentExpression) Kind() Kind                   { return KindFragment }
func (*SQLFragmentExpression) expressionNode()              {}
func (*SQLFragmentExpression) sqlNode()                     {}
func (*SQLFragmentExpression) TypeMapping() *ir.TypeMapping { return nil }

// SQLBinaryExpression applies a binary operator.
type SQLBinaryExpression struct {
	Operator ir.Operator
	Left     SQLExpression
	Right    SQLExpression
	Mapping  *ir.TypeMapping
}

func (*SQLBinaryExpression) Kind() Kind                     { return KindBinary }
func (*SQLBinaryExpression) expressionNode()                {}
func (*SQLBinaryExpression) sqlNode()                       {}
func (b *SQLBinaryExpression) TypeMapping() *ir.TypeMapping { return b.Mapping }

// Update returns b if left and right are unchanged.
func (b *SQLBinaryExpression) Update(left, right SQLExpression) *SQLBinaryExpression {
	if left == b.Left && right == b.Right {
		return b
	}
	return &SQLBinaryExpression{Operator: b.Operator, Left: left, Right: right, Mapping: b.Mapping}
}

// SQLUnaryExpression applies a unary operator (NOT, negation, IS [NOT] NULL).
type SQLUnaryExpression struct {
	Operator ir.Operator
	Operand  SQLExpression
	Mapping  *ir.TypeMapping
}

func (*SQLUnaryExpression) Kind() Kind                     { return KindUnary }
func (*SQLUnaryExpression) expressionNode()                {}
func (*SQLUnaryExpression) sqlNode()                       {}
func (u *SQLUnaryExpression) TypeMapping() *ir.TypeMapping { return u.Mapping }

// Update returns u if operand is unchanged.
func (u *SQLUnaryExpression) Update(operand SQLExpression) *SQLUnaryExpression {
	if operand == u.Operand {
		return u
	}
	return &SQLUnaryExpression{Operator: u.Operator, Operand: operand, Mapping: u.Mapping}
}

// SQLConditionalExpression is a two-branch conditional (IIF(test, a, b)).
type SQLConditionalExpression struct {
	Test    SQLExpression
	IfTrue  SQLExpression
	IfFalse SQLExpression
	Mapping *ir.TypeMapping
}

func (*SQLConditionalExpression) Kind() Kind                     { return KindConditional }
func (*SQLConditionalExpression) expressionNode()                {}
func (*SQLConditionalExpression) sqlNode()                       {}
func (c *SQLConditionalExpression) TypeMapping() *ir.TypeMapping { return c.Mapping }

// Update returns c if every branch is unchanged.
func (c *SQLConditionalExpression) Update(test, ifTrue, ifFalse SQLExpression) *SQLConditionalExpression {
	if test == c.Test && ifTrue == c.IfTrue && ifFalse == c.IfFalse {
		return c
	}
	return &SQLConditionalExpression{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, Mapping: c.Mapping}
}

// CaseWhenClause is one WHEN ... THEN ... arm of a CaseExpression.
type CaseWhenClause struct {
	Test   SQLExpression
	Result SQLExpression
}

// CaseExpression is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
// With a nil Operand each Test is a condition; otherwise each Test is
// compared against the operand.
type CaseExpression struct {
	Operand     SQLExpression
	WhenClauses []CaseWhenClause
	ElseResult  SQLExpression
	Mapping     *ir.TypeMapping
}

func (*CaseExpression) Kind() Kind                     { return KindCase }
func (*CaseExpression) expressionNode()                {}
func (*CaseExpression) sqlNode()                       {}
func (c *CaseExpression) TypeMapping() *ir.TypeMapping { return c.Mapping }

// Update returns c if operand, every clause and the else result are unchanged.
func (c *CaseExpression) Update(operand SQLExpression, whenClauses []CaseWhenClause, elseResult SQLExpression) *CaseExpression {
	if operand == c.Operand && elseResult == c.ElseResult && sameSlice(whenClauses, c.WhenClauses) {
		return c
	}
	return &CaseExpression{Operand: operand, WhenClauses: whenClauses, ElseResult: elseResult, Mapping: c.Mapping}
}

// CollateExpression is operand COLLATE collation.
type CollateExpression struct {
	Operand   SQLExpression
	Collation string
}

func (*CollateExpression) Kind() Kind                     { return KindCollate }
func (*CollateExpression) expressionNode()                {}
func (*CollateExpression) sqlNode()                       {}
func (c *CollateExpression) TypeMapping() *ir.TypeMapping { return c.Operand.TypeMapping() }

// Update returns c if operand is unchanged.
func (c *CollateExpression) Update(operand SQLExpression) *CollateExpression {
	if operand == c.Operand {
		return c
	}
	return &CollateExpression{Operand: operand, Collation: c.Collation}
}

// LikeExpression is match LIKE pattern [ESCAPE escapeChar].
type LikeExpression struct {
	Match      SQLExpression
	Pattern    SQLExpression
	EscapeChar SQLExpression // may be nil
	Mapping    *ir.TypeMapping
}

func (*LikeExpression) Kind() Kind                     { return KindLike }
func (*LikeExpression) expressionNode()                {}
func (*LikeExpression) sqlNode()                       {}
func (l *LikeExpression) TypeMapping() *ir.TypeMapping { return l.Mapping }

// Update returns l if every operand is unchanged.
func (l *LikeExpression) Update(match, pattern, escapeChar SQLExpression) *LikeExpression {
	if match == l.Match && pattern == l.Pattern && escapeChar == l.EscapeChar {
		return l
	}
	return &LikeExpression{Match: match, Pattern: pattern, EscapeChar: escapeChar, Mapping: l.Mapping}
}

// InExpression is item [NOT] IN (values) or item [NOT] IN (subquery).
// Exactly one of Values and Subquery is set.
type InExpression struct {
	Item      SQLExpression
	Subquery  *SelectExpression
	Values    SQLExpression // constant list or parameter
	IsNegated bool
	Mapping   *ir.TypeMapping
}

func (*InExpression) Kind() Kind                     { return KindIn }
func (*InExpression) expressionNode()                {}
func (*InExpression) sqlNode()                       {}
func (i *InExpression) TypeMapping() *ir.TypeMapping { return i.Mapping }

// Update returns i if item, values and subquery are unchanged.
func (i *InExpression) Update(item, values SQLExpression, subquery *SelectExpression) *InExpression {
	if item == i.Item && values == i.Values && subquery == i.Subquery {
		return i
	}
	return &InExpression{Item: item, Subquery: subquery, Values: values, IsNegated: i.IsNegated, Mapping: i.Mapping}
}

// ExistsExpression is [NOT] EXISTS (subquery).
type ExistsExpression struct {
	Subquery  *SelectExpression
	IsNegated bool
	Mapping   *ir.TypeMapping
}

func (*ExistsExpression) Kind() Kind                     { return KindExists }
func (*ExistsExpression) expressionNode()                {}
func (*ExistsExpression) sqlNode()                       {}
func (e *ExistsExpression) TypeMapping() *ir.TypeMapping { return e.Mapping }

// Update returns e if subquery is unchanged.
func (e *ExistsExpression) Update(subquery *SelectExpression) *ExistsExpression {
	if subquery == e.Subquery {
		return e
	}
	return &ExistsExpression{Subquery: subquery, IsNegated: e.IsNegated, Mapping: e.Mapping}
}

// ScalarSubqueryExpression is a subquery returning a single value.
type ScalarSubqueryExpression struct {
	Subquery *SelectExpression
	Mapping  *ir.TypeMapping
}

func (*ScalarSubqueryExpression) Kind() Kind                     { return KindScalarSubquery }
func (*ScalarSubqueryExpression) expressionNode()                {}
func (*ScalarSubqueryExpression) sqlNode()                       {}
func (s *ScalarSubqueryExpression) TypeMapping() *ir.TypeMapping { return s.Mapping }

// Update returns s if subquery is unchanged.
func (s *ScalarSubqueryExpression) Update(subquery *SelectExpression) *ScalarSubqueryExpression {
	if subquery == s.Subquery {
		return s
	}
	return &ScalarSubqueryExpression{Subquery: subquery, Mapping: s.Mapping}
}

// SQLFunctionExpression is a scalar function call, optionally on an instance.
type SQLFunctionExpression struct {
	Name      string
	Schema    string
	Instance  SQLExpression // may be nil
	Arguments []SQLExpression
	IsNiladic bool // called without parentheses (CURRENT_TIMESTAMP)
	Mapping   *ir.TypeMapping
}

func (*SQLFunctionExpression) Kind() Kind                     { return KindFunction }
func (*SQLFunctionExpression) expressionNode()                {}
func (*SQLFunctionExpression) sqlNode()                       {}
func (f *SQLFunctionExpression) TypeMapping() *ir.TypeMapping { return f.Mapping }

// Update returns f if instance and arguments are unchanged.
func (f *SQLFunctionExpression) Update(instance SQLExpression, arguments []SQLExpression) *SQLFunctionExpression {
	if instance == f.Instance && sameSlice(arguments, f.Arguments) {
		return f
	}
	return &SQLFunctionExpression{
		Name:      f.Name,
		Schema:    f.Schema,
		Instance:  instance,
		Arguments: arguments,
		IsNiladic: f.IsNiladic,
		Mapping:   f.Mapping,
	}
}

// RowNumberExpression is ROW_NUMBER() OVER (PARTITION BY ... ORDER BY ...).
type RowNumberExpression struct {
	Partitions []SQLExpression
	Orderings  []*OrderingExpression
	Mapping    *ir.TypeMapping
}

func (*RowNumberExpression) Kind() Kind                     { return KindRowNumber }
func (*RowNumberExpression) expressionNode()                {}
func (*RowNumberExpression) sqlNode()                       {}
func (r *RowNumberExpression) TypeMapping() *ir.TypeMapping { return r.Mapping }

// Update returns r if partitions and orderings are unchanged.
func (r *RowNumberExpression) Update(partitions []SQLExpression, orderings []*OrderingExpression) *RowNumberExpression {
	if sameSlice(partitions, r.Partitions) && sameSlice(orderings, r.Orderings) {
		return r
	}
	return &RowNumberExpression{Partitions: partitions, Orderings: orderings, Mapping: r.Mapping}
}
