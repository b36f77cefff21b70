package docexpr

import "github.com/roach88/vcomp/internal/ir"

// Factory builds document nodes. The zero value is ready to use.
type Factory struct{}

var boolMapping = ir.NewTypeMapping(ir.TypeBool)

// BoolMapping is the unconverted boolean mapping used for predicate results.
func BoolMapping() *ir.TypeMapping { return boolMapping }

// Binary returns left op right.
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

// Constant returns a literal carrying mapping m.
func (Factory) Constant(v ir.IRValue, m *ir.TypeMapping) SQLExpression {
	return &SQLConstantExpression{Value: v, Mapping: m}
}

// Parameter returns a named parameter carrying mapping m.
func (Factory) Parameter(name string, m *ir.TypeMapping) *SQLParameterExpression {
	return &SQLParameterExpression{Name: name, Mapping: m}
}

// Root returns the container alias.
func (Factory) Root(entity, alias string) *RootReferenceExpression {
	return &RootReferenceExpression{Entity: entity, Alias: alias}
}

// Key returns access["name"].
func (Factory) Key(access Expression, name string, m *ir.TypeMapping) *KeyAccessExpression {
	return &KeyAccessExpression{Access: access, Name: name, Mapping: m}
}

// Object returns the embedded object access["name"].
func (Factory) Object(access Expression, name string) *ObjectAccessExpression {
	return &ObjectAccessExpression{Access: access, Name: name}
}

// In returns item IN (values).
func (Factory) In(item, values SQLExpression, negated bool) *InExpression {
	return &InExpression{Item: item, Values: values, IsNegated: negated, Mapping: boolMapping}
}

// Conditional returns test ? ifTrue : ifFalse mapped like ifTrue.
func (Factory) Conditional(test, ifTrue, ifFalse SQLExpression) *SQLConditionalExpression {
	return &SQLConditionalExpression{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, Mapping: ifTrue.TypeMapping()}
}

// Function returns name(args...) with result mapping m.
func (Factory) Function(name string, m *ir.TypeMapping, args ...SQLExpression) *SQLFunctionExpression {
	return &SQLFunctionExpression{Name: name, Arguments: args, Mapping: m}
}

// Project wraps e as a SELECT-list item.
func (Factory) Project(e Expression, alias string) *ProjectionExpression {
	return &ProjectionExpression{Expression: e, Alias: alias}
}

// Order wraps e as an ORDER BY key.
func (Factory) Order(e SQLExpression, ascending bool) *OrderingExpression {
	return &OrderingExpression{Expression: e, Ascending: ascending}
}

// Select returns a query over the container from.
func (Factory) Select(from *RootReferenceExpression, projection ...*ProjectionExpression) *SelectExpression {
	return &SelectExpression{Projection: projection, From: from}
}
