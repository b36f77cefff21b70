package ir

import "fmt"

// Operator identifies a binary or unary operator. Both node catalogues share
// this enum so the compensator can classify operators once.
type Operator int

const (
	OpInvalid Operator = iota

	// Binary comparison
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual

	// Binary logical
	OpAndAlso
	OpOrElse

	// Binary arithmetic / string
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpConcat
	OpCoalesce

	// Unary
	OpNot
	OpNegate
	OpIsNull
	OpIsNotNull
)

var operatorSQL = map[Operator]string{
	OpEqual:              "=",
	OpNotEqual:           "<>",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpAndAlso:            "AND",
	OpOrElse:             "OR",
	OpAdd:                "+",
	OpSubtract:           "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "%",
	OpConcat:             "||",
	OpCoalesce:           "??",
	OpNot:                "NOT",
	OpNegate:             "-",
	OpIsNull:             "IS NULL",
	OpIsNotNull:          "IS NOT NULL",
}

// SQL returns the operator token used by the serializers.
func (op Operator) SQL() string {
	if s, ok := operatorSQL[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

func (op Operator) String() string { return op.SQL() }

// IsEquality reports whether op is = or <>. Such operators normalise their
// operands through comparison semantics.
func (op Operator) IsEquality() bool {
	return op == OpEqual || op == OpNotEqual
}

// IsLogical reports whether op combines truth values (AND, OR).
func (op Operator) IsLogical() bool {
	return op == OpAndAlso || op == OpOrElse
}

// IsComparison reports whether op yields a boolean from two operands.
func (op Operator) IsComparison() bool {
	return op >= OpEqual && op <= OpGreaterThanOrEqual
}

// IsUnary reports whether op takes a single operand.
func (op Operator) IsUnary() bool {
	return op >= OpNot && op <= OpIsNotNull
}
