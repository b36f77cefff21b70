package valueconv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"bool_to_int",
		"bool_to_inverted_int",
		"bool_to_string",
		"bool_to_yn",
		"string_to_upper",
	}, r.Names())
}

func TestBoolConverters(t *testing.T) {
	tests := []struct {
		name      string
		whenTrue  ir.IRValue
		whenFalse ir.IRValue
		provider  ir.LogicalType
	}{
		{"bool_to_yn", ir.IRString("Y"), ir.IRString("N"), ir.TypeString},
		{"bool_to_string", ir.IRString("true"), ir.IRString("false"), ir.TypeString},
		{"bool_to_int", ir.IRInt(1), ir.IRInt(0), ir.TypeInt},
		{"bool_to_inverted_int", ir.IRInt(0), ir.IRInt(1), ir.TypeInt},
	}

	r := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, ir.TypeBool, c.ModelType())
			assert.Equal(t, tt.provider, c.ProviderType())

			v, err := c.ToProvider(ir.IRBool(true))
			require.NoError(t, err)
			assert.Equal(t, tt.whenTrue, v)

			v, err = c.ToProvider(ir.IRBool(false))
			require.NoError(t, err)
			assert.Equal(t, tt.whenFalse, v)

			back, err := c.FromProvider(tt.whenTrue)
			require.NoError(t, err)
			assert.Equal(t, ir.IRBool(true), back)

			back, err = c.FromProvider(tt.whenFalse)
			require.NoError(t, err)
			assert.Equal(t, ir.IRBool(false), back)
		})
	}
}

func TestConverterRejectsWrongTypes(t *testing.T) {
	c := BoolToStrings("yn", "Y", "N")

	_, err := c.ToProvider(ir.IRString("Y"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected bool")

	_, err = c.FromProvider(ir.IRInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected stored string")

	_, err = c.FromProvider(ir.IRString("maybe"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither")

	_, err = BoolToInts("int", 1, 0).FromProvider(ir.IRInt(7))
	require.Error(t, err)
}

func TestStringToUpper(t *testing.T) {
	c := StringToUpper()
	assert.Equal(t, ir.TypeString, c.ModelType())

	v, err := c.ToProvider(ir.IRString("abc"))
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("ABC"), v)
}

func TestRegistryResolve(t *testing.T) {
	r := Default()

	c, err := r.Resolve("bool_to_yn")
	require.NoError(t, err)
	assert.Equal(t, "bool_to_yn", c.Name())

	_, err = r.Resolve("bool_to_emoji")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConverter))
	assert.Contains(t, err.Error(), "bool_to_yn", "error lists known converters")
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(BoolToStrings("flag", "Y", "N"))
	r.Register(BoolToStrings("flag", "T", "F"))

	c, ok := r.Lookup("flag")
	require.True(t, ok)
	v, err := c.ToProvider(ir.IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("T"), v)
}
