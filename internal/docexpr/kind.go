package docexpr

import "fmt"

// Kind tags each node type of the document catalogue.
type Kind int

const (
	KindInvalid Kind = iota
	KindEntityProjection
	KindIn
	KindKeyAccess
	KindObjectAccess
	KindObjectArrayProjection
	KindOrdering
	KindProjection
	KindRootReference
	KindSelect
	KindBinary
	KindConditional
	KindConstant
	KindFunction
	KindParameter
	KindUnary

	kindCount
)

var kindNames = [...]string{
	KindInvalid:               "invalid",
	KindEntityProjection:      "entity-projection",
	KindIn:                    "in",
	KindKeyAccess:             "key-access",
	KindObjectAccess:          "object-access",
	KindObjectArrayProjection: "object-array-projection",
	KindOrdering:              "ordering",
	KindProjection:            "projection",
	KindRootReference:         "root-reference",
	KindSelect:                "select",
	KindBinary:                "binary",
	KindConditional:           "conditional",
	KindConstant:              "constant",
	KindFunction:              "function",
	KindParameter:             "parameter",
	KindUnary:                 "unary",
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
