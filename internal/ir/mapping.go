package ir

// ValueConverter maps values between a logical type and the physical
// representation a store actually holds.
//
// Implementations must be stateless; the same converter instance is shared
// by every TypeMapping that references it.
type ValueConverter interface {
	// Name identifies the converter in the model ("bool_to_yn").
	Name() string

	// ModelType is the logical type the converter accepts.
	ModelType() LogicalType

	// ProviderType is the physical type the converter produces.
	ProviderType() LogicalType

	// ToProvider converts a logical value to its stored form.
	ToProvider(v IRValue) (IRValue, error)

	// FromProvider converts a stored value back to its logical form.
	FromProvider(v IRValue) (IRValue, error)
}

// TypeMapping is the type descriptor carried by every scalar node.
//
// ClrType is the logical type seen by the query. Converter is non-nil iff
// the physical storage differs from the logical type; a boolean mapping
// with a converter is exactly what compensation looks for.
type TypeMapping struct {
	ClrType   LogicalType
	StoreType string
	Converter ValueConverter
}

// NewTypeMapping returns a mapping for t with the default store type.
func NewTypeMapping(t LogicalType) *TypeMapping {
	return &TypeMapping{ClrType: t, StoreType: DefaultStoreType(t)}
}

// NewConvertedMapping returns a mapping for t whose values are stored via c.
func NewConvertedMapping(t LogicalType, c ValueConverter) *TypeMapping {
	return &TypeMapping{
		ClrType:   t,
		StoreType: DefaultStoreType(c.ProviderType()),
		Converter: c,
	}
}

// HasConverter reports whether values of this mapping are converted on the way to storage.
func (m *TypeMapping) HasConverter() bool {
	return m != nil && m.Converter != nil
}

// IsConvertedBool reports whether the mapping is a logical bool stored as something else.
func (m *TypeMapping) IsConvertedBool() bool {
	return m != nil && m.ClrType == TypeBool && m.Converter != nil
}

// ProviderValue converts v to its stored form. Values of unconverted
// mappings, and nulls, are returned as-is.
func (m *TypeMapping) ProviderValue(v IRValue) (IRValue, error) {
	if !m.HasConverter() {
		return v, nil
	}
	if _, isNull := v.(IRNull); isNull || v == nil {
		return v, nil
	}
	return m.Converter.ToProvider(v)
}

// ModelValue converts a stored value back to its logical form.
func (m *TypeMapping) ModelValue(v IRValue) (IRValue, error) {
	if !m.HasConverter() {
		return v, nil
	}
	if _, isNull := v.(IRNull); isNull || v == nil {
		return v, nil
	}
	return m.Converter.FromProvider(v)
}

func (m *TypeMapping) String() string {
	if m == nil {
		return "<nil>"
	}
	if m.Converter != nil {
		return m.ClrType.String() + "(" + m.Converter.Name() + ")"
	}
	return m.ClrType.String()
}
