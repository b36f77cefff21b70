package querysql

import (
	"fmt"

	"github.com/roach88/vcomp/internal/ir"
)

// providerParam converts a logical value to the driver value stored for m.
func providerParam(v ir.IRValue, m *ir.TypeMapping) (any, error) {
	pv, err := m.ProviderValue(v)
	if err != nil {
		return nil, fmt.Errorf("convert %v via %s: %w", v, m, err)
	}
	native, err := ir.ToNative(pv)
	if err != nil {
		return nil, fmt.Errorf("bind %v: %w", pv, err)
	}
	return native, nil
}

func isNull(v ir.IRValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(ir.IRNull)
	return ok
}
