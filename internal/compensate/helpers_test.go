package compensate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/valueconv"
)

var registry = valueconv.Default()

func converted(t *testing.T, lt ir.LogicalType, name string) *ir.TypeMapping {
	t.Helper()
	conv, err := registry.Resolve(name)
	require.NoError(t, err)
	return ir.NewConvertedMapping(lt, conv)
}

func yn(t *testing.T) *ir.TypeMapping { return converted(t, ir.TypeBool, "bool_to_yn") }

var (
	intMapping    = ir.NewTypeMapping(ir.TypeInt)
	stringMapping = ir.NewTypeMapping(ir.TypeString)
	nativeBool    = ir.NewTypeMapping(ir.TypeBool)
)

// catchDispatch runs fn and returns the *DispatchError it panicked with.
func catchDispatch(t *testing.T, fn func()) (de *DispatchError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		var ok bool
		de, ok = AsDispatchError(r)
		require.True(t, ok, "panic value %v is not a *DispatchError", r)
	}()
	fn()
	return nil
}
