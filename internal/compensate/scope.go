package compensate

import "github.com/roach88/vcomp/internal/ir"

// scope is the traversal context of one child position.
type scope struct {
	// insidePredicate is set where the engine interprets the value as a
	// truth value: WHERE, HAVING, JOIN ... ON, conditional tests.
	insidePredicate bool

	// insideBoolComparison is set on the operands of = and <>, which
	// already compare the leaf against something.
	insideBoolComparison bool
}

var (
	cleared   = scope{}
	predicate = scope{insidePredicate: true}
)

// binary returns the scope for the operands of op.
//
// = and <> keep the predicate flag and mark their operands as compared.
// AND and OR keep the predicate flag: each side is itself a condition.
// Every other operator yields a value, not a truth value.
func (s scope) binary(op ir.Operator) scope {
	switch {
	case op.IsEquality():
		return scope{insidePredicate: s.insidePredicate, insideBoolComparison: true}
	case op.IsLogical():
		return scope{insidePredicate: s.insidePredicate}
	default:
		return cleared
	}
}

// unary returns the scope for the operand of op. NOT behaves like AND.
func (s scope) unary(op ir.Operator) scope {
	if op == ir.OpNot {
		return scope{insidePredicate: s.insidePredicate}
	}
	return cleared
}

// compensates reports whether a leaf with mapping m must be rewritten here.
func (s scope) compensates(m *ir.TypeMapping) bool {
	return s.insidePredicate && !s.insideBoolComparison && m.IsConvertedBool()
}
