package sqlexpr

import "fmt"

// Kind tags each node type of the relational catalogue.
type Kind int

const (
	KindInvalid Kind = iota
	KindCase
	KindCollate
	KindColumn
	KindExists
	KindFromSQL
	KindIn
	KindLike
	KindSelect
	KindBinary
	KindUnary
	KindConditional
	KindConstant
	KindFragment
	KindFunction
	KindTableValuedFunction
	KindParameter
	KindTable
	KindProjection
	KindOrdering
	KindCrossJoin
	KindCrossApply
	KindOuterApply
	KindInnerJoin
	KindLeftJoin
	KindScalarSubquery
	KindRowNumber
	KindExcept
	KindIntersect
	KindUnion

	kindCount
)

var kindNames = [...]string{
	KindInvalid:             "invalid",
	KindCase:                "case",
	KindCollate:             "collate",
	KindColumn:              "column",
	KindExists:              "exists",
	KindFromSQL:             "from-sql",
	KindIn:                  "in",
	KindLike:                "like",
	KindSelect:              "select",
	KindBinary:              "binary",
	KindUnary:               "unary",
	KindConditional:         "conditional",
	KindConstant:            "constant",
	KindFragment:            "fragment",
	KindFunction:            "function",
	KindTableValuedFunction: "table-valued-function",
	KindParameter:           "parameter",
	KindTable:               "table",
	KindProjection:          "projection",
	KindOrdering:            "ordering",
	KindCrossJoin:           "cross-join",
	KindCrossApply:          "cross-apply",
	KindOuterApply:          "outer-apply",
	KindInnerJoin:           "inner-join",
	KindLeftJoin:            "left-join",
	KindScalarSubquery:      "scalar-subquery",
	KindRowNumber:           "row-number",
	KindExcept:              "except",
	KindIntersect:           "intersect",
	KindUnion:               "union",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every valid node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
