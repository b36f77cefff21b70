package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ynConverter stores bools as "Y"/"N".
type ynConverter struct{}

func (ynConverter) Name() string              { return "yn" }
func (ynConverter) ModelType() LogicalType    { return TypeBool }
func (ynConverter) ProviderType() LogicalType { return TypeString }

func (ynConverter) ToProvider(v IRValue) (IRValue, error) {
	if v.(IRBool) {
		return IRString("Y"), nil
	}
	return IRString("N"), nil
}

func (ynConverter) FromProvider(v IRValue) (IRValue, error) {
	return IRBool(v.(IRString) == "Y"), nil
}

type resolverMap map[string]ValueConverter

func (r resolverMap) Lookup(name string) (ValueConverter, bool) {
	c, ok := r[name]
	return c, ok
}

func testModel() *Model {
	return &Model{
		Name: "shop",
		Entities: []EntitySpec{{
			Name:  "Customer",
			Table: "customers",
			Key:   "id",
			Properties: []PropertySpec{
				{Name: "id", Column: "id", Type: TypeInt},
				{Name: "active", Column: "is_active", Type: TypeBool, Converter: "yn"},
				{Name: "vip", Column: "vip", Type: TypeBool},
				{Name: "name", Column: "name", Type: TypeString, Converter: "yn"},
			},
		}},
	}
}

func TestModelLookup(t *testing.T) {
	m := testModel()

	e, ok := m.Entity("Customer")
	require.True(t, ok)
	assert.Equal(t, "customers", e.Table)
	assert.Equal(t, "Customer", e.ContainerName(), "container defaults to entity name")

	_, ok = m.Entity("Order")
	assert.False(t, ok)

	p, ok := e.Property("active")
	require.True(t, ok)
	assert.Equal(t, "is_active", p.Column)

	_, ok = e.Property("missing")
	assert.False(t, ok)
}

func TestPropertyMapping(t *testing.T) {
	e, _ := testModel().Entity("Customer")
	r := resolverMap{"yn": ynConverter{}}

	t.Run("plain bool", func(t *testing.T) {
		p, _ := e.Property("vip")
		m, err := p.Mapping(r)
		require.NoError(t, err)
		assert.Equal(t, TypeBool, m.ClrType)
		assert.False(t, m.HasConverter())
		assert.False(t, m.IsConvertedBool())
		assert.Equal(t, "INTEGER", m.StoreType)
	})

	t.Run("converted bool", func(t *testing.T) {
		p, _ := e.Property("active")
		m, err := p.Mapping(r)
		require.NoError(t, err)
		assert.True(t, m.IsConvertedBool())
		assert.Equal(t, "TEXT", m.StoreType, "store type follows the provider type")
		assert.Equal(t, "bool(yn)", m.String())
	})

	t.Run("unknown converter", func(t *testing.T) {
		p, _ := e.Property("active")
		_, err := p.Mapping(resolverMap{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown converter")
	})

	t.Run("converter type mismatch", func(t *testing.T) {
		p, _ := e.Property("name")
		_, err := p.Mapping(r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expects bool")
	})
}

func TestTypeMappingValues(t *testing.T) {
	m := NewConvertedMapping(TypeBool, ynConverter{})

	v, err := m.ProviderValue(IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, IRString("Y"), v)

	v, err = m.ModelValue(IRString("N"))
	require.NoError(t, err)
	assert.Equal(t, IRBool(false), v)

	v, err = m.ProviderValue(IRNull{})
	require.NoError(t, err)
	assert.Equal(t, IRNull{}, v, "nulls bypass the converter")

	plain := NewTypeMapping(TypeBool)
	v, err = plain.ProviderValue(IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, IRBool(true), v)
}

func TestLogicalTypeText(t *testing.T) {
	data, err := json.Marshal(PropertySpec{Name: "a", Column: "a", Type: TypeBool})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"bool"`)

	var p PropertySpec
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, TypeBool, p.Type)

	_, err = ParseLogicalType("float")
	assert.Error(t, err)
}

func TestOperatorClassification(t *testing.T) {
	assert.True(t, OpEqual.IsEquality())
	assert.True(t, OpNotEqual.IsEquality())
	assert.False(t, OpLessThan.IsEquality())
	assert.True(t, OpLessThan.IsComparison())
	assert.True(t, OpAndAlso.IsLogical())
	assert.False(t, OpAdd.IsLogical())
	assert.True(t, OpIsNull.IsUnary())
	assert.False(t, OpOrElse.IsUnary())
	assert.Equal(t, "<>", OpNotEqual.SQL())
}
