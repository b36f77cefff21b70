package store

import (
	"context"
	"fmt"

	"github.com/roach88/vcomp/internal/ir"
)

// Query runs a compiled query and returns its rows keyed by result column.
//
// Values come back physical. A column listed in mappings is converted to
// its logical form with the mapping's converter; an unconverted bool
// column, which SQLite stores as 0/1, becomes a bool. Other columns are
// returned as stored.
func (s *Store) Query(ctx context.Context, query string, params []any, mappings map[string]*ir.TypeMapping) ([]ir.IRObject, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: columns: %w", err)
	}

	out := []ir.IRObject{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query: scan: %w", err)
		}

		row := make(ir.IRObject, len(cols))
		for i, col := range cols {
			v, err := decode(raw[i], mappings[col])
			if err != nil {
				return nil, fmt.Errorf("query: column %q: %w", col, err)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: iterate: %w", err)
	}
	return out, nil
}

// decode converts a value scanned from SQLite to its logical form under m.
func decode(raw any, m *ir.TypeMapping) (ir.IRValue, error) {
	var v ir.IRValue
	switch val := raw.(type) {
	case nil:
		return ir.IRNull{}, nil
	case int64:
		v = ir.IRInt(val)
	case string:
		v = ir.IRString(val)
	case []byte:
		v = ir.IRString(val)
	case bool:
		v = ir.IRBool(val)
	default:
		return nil, fmt.Errorf("unsupported column value %T", raw)
	}

	if m == nil {
		return v, nil
	}
	if m.HasConverter() {
		return m.ModelValue(v)
	}
	if n, ok := v.(ir.IRInt); ok && m.ClrType == ir.TypeBool {
		return ir.IRBool(n != 0), nil
	}
	return v, nil
}
