package sqlexpr

import "github.com/roach88/vcomp/internal/ir"

// Factory builds relational nodes. Comparison and logical nodes get a
// native boolean result mapping; constants take whatever mapping the
// caller supplies so a converted column's constant is encoded identically.
//
// The zero value is ready to use.
type Factory struct{}

var boolMapping = ir.NewTypeMapping(ir.TypeBool)

// BoolMapping is the unconverted boolean mapping used for predicate results.
func BoolMapping() *ir.TypeMapping { return boolMapping }

// Binary returns left op right. Comparison and logical operators get a
// boolean mapping; arithmetic inherits the left operand's mapping.
func (Factory) Binary(op ir.Operator, left, right SQLExpression) *SQLBinaryExpression {
	m := boolMapping
	if !op.IsComparison() && !op.IsLogical() {
		m = left.TypeMapping()
	}
	return &SQLBinaryExpression{Operator: op, Left: left, Right: right, Mapping: m}
}

// Equal returns left = right.
func (f Factory) Equal(left, right SQLExpression) SQLExpression {
	return f.Binary(ir.OpEqual, left, right)
}

// NotEqual returns left <> right.
func (f Factory) NotEqual(left, right SQLExpression) SQLExpression {
	return f.Binary(ir.OpNotEqual, left, right)
}

// AndAlso returns left AND right.
func (f Factory) AndAlso(left, right SQLExpression) SQLExpression {
	return f.Binary(ir.OpAndAlso, left, right)
}

// OrElse returns left OR right.
func (f Factory) OrElse(left, right SQLExpression) SQLExpression {
	return f.Binary(ir.OpOrElse, left, right)
}

// Not returns NOT operand.
func (Factory) Not(operand SQLExpression) SQLExpression {
	return &SQLUnaryExpression{Operator: ir.OpNot, Operand: operand, Mapping: boolMapping}
}

// IsNull returns operand IS NULL.
func (Factory) IsNull(operand SQLExpression) SQLExpression {
	return &SQLUnaryExpression{Operator: ir.OpIsNull, Operand: operand, Mapping: boolMapping}
}

// Constant returns a literal carrying mapping m.
func (Factory) Constant(v ir.IRValue, m *ir.TypeMapping) SQLExpression {
	return &SQLConstantExpression{Value: v, Mapping: m}
}

// Column returns a reference to table.name.
func (Factory) Column(name, table string, m *ir.TypeMapping) *ColumnExpression {
	return &ColumnExpression{Name: name, Table: table, Mapping: m}
}

// Parameter returns a named parameter carrying mapping m.
func (Factory) Parameter(name string, m *ir.TypeMapping) *SQLParameterExpression {
	return &SQLParameterExpression{Name: name, Mapping: m}
}

// Exists returns [NOT] EXISTS (subquery).
func (Factory) Exists(subquery *SelectExpression, negated bool) *ExistsExpression {
	return &ExistsExpression{Subquery: subquery, IsNegated: negated, Mapping: boolMapping}
}

// InValues returns item IN (values).
func (Factory) InValues(item, values SQLExpression, negated bool) *InExpression {
	return &InExpression{Item: item, Values: values, IsNegated: negated, Mapping: boolMapping}
}

// InSubquery returns item IN (subquery).
func (Factory) InSubquery(item SQLExpression, subquery *SelectExpression, negated bool) *InExpression {
	return &InExpression{Item: item, Subquery: subquery, IsNegated: negated, Mapping: boolMapping}
}

// Like returns match LIKE pattern.
func (Factory) Like(match, pattern SQLExpression) *LikeExpression {
	return &LikeExpression{Match: match, Pattern: pattern, Mapping: boolMapping}
}

// Case returns a CASE expression mapped like its first result.
func (Factory) Case(operand SQLExpression, whens []CaseWhenClause, elseResult SQLExpression) *CaseExpression {
	var m *ir.TypeMapping
	if len(whens) > 0 {
		m = whens[0].Result.TypeMapping()
	}
	return &CaseExpression{Operand: operand, WhenClauses: whens, ElseResult: elseResult, Mapping: m}
}

// Conditional returns a two-branch conditional mapped like ifTrue.
func (Factory) Conditional(test, ifTrue, ifFalse SQLExpression) *SQLConditionalExpression {
	return &SQLConditionalExpression{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, Mapping: ifTrue.TypeMapping()}
}

// Function returns name(args...) with result mapping m.
func (Factory) Function(name string, m *ir.TypeMapping, args ...SQLExpression) *SQLFunctionExpression {
	return &SQLFunctionExpression{Name: name, Arguments: args, Mapping: m}
}

// Table returns a table reference.
func (Factory) Table(name, alias string) *TableExpression {
	return &TableExpression{Name: name, Alias: alias}
}

// Project wraps e as a SELECT-list item.
func (Factory) Project(e SQLExpression, alias string) *ProjectionExpression {
	return &ProjectionExpression{Expression: e, Alias: alias}
}

// Order wraps e as an ORDER BY key.
func (Factory) Order(e SQLExpression, ascending bool) *OrderingExpression {
	return &OrderingExpression{Expression: e, Ascending: ascending}
}

// Select returns a query block over tables with the given projection.
func (Factory) Select(projection []*ProjectionExpression, tables ...Source) *SelectExpression {
	return &SelectExpression{Projection: projection, Tables: tables}
}
