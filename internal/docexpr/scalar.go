package docexpr

import "github.com/roach88/vcomp/internal/ir"

// SQLConstantExpression is a literal carrying the mapping of the value it
// is compared with.
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

// SQLUnaryExpression applies a unary operator.
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

// SQLConditionalExpression is test ? ifTrue : ifFalse.
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

// SQLFunctionExpression is a built-in function call (ARRAY_CONTAINS, IS_DEFINED).
type SQLFunctionExpression struct {
	Name      string
	Arguments []SQLExpression
	Mapping   *ir.TypeMapping
}

func (*SQLFunctionExpression) Kind() Kind                     { return KindFunction }
func (*SQLFunctionExpression) expressionNode()                {}
func (*SQLFunctionExpression) sqlNode()                       {}
func (f *SQLFunctionExpression) TypeMapping() *ir.TypeMapping { return f.Mapping }

// Update returns f if arguments are unchanged.
func (f *SQLFunctionExpression) Update(arguments []SQLExpression) *SQLFunctionExpression {
	if sameSlice(arguments, f.Arguments) {
		return f
	}
	return &SQLFunctionExpression{Name: f.Name, Arguments: arguments, Mapping: f.Mapping}
}

// InExpression is item [NOT] IN (values). Values is a constant array or a
// parameter.
type InExpression struct {
	Item      SQLExpression
	Values    SQLExpression
	IsNegated bool
	Mapping   *ir.TypeMapping
}

func (*InExpression) Kind() Kind                     { return KindIn }
func (*InExpression) expressionNode()                {}
func (*InExpression) sqlNode()                       {}
func (i *InExpression) TypeMapping() *ir.TypeMapping { return i.Mapping }

// Update returns i if item and values are unchanged.
func (i *InExpression) Update(item, values SQLExpression) *InExpression {
	if item == i.Item && values == i.Values {
		return i
	}
	return &InExpression{Item: item, Values: values, IsNegated: i.IsNegated, Mapping: i.Mapping}
}
