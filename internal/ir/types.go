package ir

import "fmt"

// LogicalType is the application-level type of a property or expression.
type LogicalType int

const (
	TypeUnknown LogicalType = iota
	TypeBool
	TypeString
	TypeInt
)

var logicalTypeNames = map[LogicalType]string{
	TypeUnknown: "unknown",
	TypeBool:    "bool",
	TypeString:  "string",
	TypeInt:     "int",
}

func (t LogicalType) String() string {
	if name, ok := logicalTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LogicalType(%d)", int(t))
}

// ParseLogicalType maps a model type name ("bool", "string", "int") to a LogicalType.
func ParseLogicalType(name string) (LogicalType, error) {
	for t, n := range logicalTypeNames {
		if n == name && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown type %q: must be bool, string or int", name)
}

// DefaultStoreType returns the SQLite column type used for a logical type
// when no converter changes the physical representation.
func DefaultStoreType(t LogicalType) string {
	switch t {
	case TypeBool, TypeInt:
		return "INTEGER"
	case TypeString:
		return "TEXT"
	default:
		return ""
	}
}

// MarshalText encodes the type by name so models round-trip through JSON.
func (t LogicalType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name.
func (t *LogicalType) UnmarshalText(text []byte) error {
	parsed, err := ParseLogicalType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
