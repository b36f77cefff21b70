package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/pipeline"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/valueconv"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := createTestStore(t)
	m := shopModel()
	r := valueconv.Default()
	require.NoError(t, s.CreateEntityTables(ctx, m, r))
	require.NoError(t, s.InsertRows(ctx, m, r, "Customer", customers()))
	require.NoError(t, s.InsertRows(ctx, m, r, "Order", []ir.IRObject{
		{"id": ir.IRInt(10), "customer_id": ir.IRInt(1), "open": ir.IRBool(true)},
		{"id": ir.IRInt(11), "customer_id": ir.IRInt(2), "open": ir.IRBool(false)},
	}))
	return s
}

func TestCreateTableSQL(t *testing.T) {
	m := shopModel()
	ddl, err := createTableSQL(&m.Entities[0], valueconv.Default())
	require.NoError(t, err)
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "customers" ("id" INTEGER PRIMARY KEY, "name" TEXT NOT NULL, "is_active" TEXT NOT NULL, "email" TEXT, "flag" INTEGER NOT NULL)`,
		ddl)

	_, err = createTableSQL(&m.Entities[0], valueconv.NewRegistry())
	assert.Error(t, err, "bool_to_yn is not registered")
}

func TestInsertRows_StoresPhysicalValues(t *testing.T) {
	s := seededStore(t)

	var active string
	var flag int64
	require.NoError(t, s.DB().QueryRow(`SELECT is_active, flag FROM customers WHERE id = 2`).Scan(&active, &flag))
	assert.Equal(t, "N", active)
	assert.Equal(t, int64(0), flag)

	var open int64
	require.NoError(t, s.DB().QueryRow(`SELECT open FROM orders WHERE id = 10`).Scan(&open))
	assert.Equal(t, int64(1), open)
}

func TestInsertRows_Errors(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	m := shopModel()
	r := valueconv.Default()
	require.NoError(t, s.CreateEntityTables(ctx, m, r))

	tests := []struct {
		name   string
		entity string
		row    ir.IRObject
		want   string
	}{
		{"unknown entity", "Nope", ir.IRObject{"id": ir.IRInt(1)}, "unknown entity"},
		{"unknown property", "Order", ir.IRObject{"id": ir.IRInt(1), "x": ir.IRInt(1)}, "unknown property"},
		{"type mismatch", "Order", ir.IRObject{"id": ir.IRInt(1), "open": ir.IRString("yes")}, "is bool"},
		{"empty row", "Order", ir.IRObject{}, "no values"},
		{"not null", "Order", ir.IRObject{"id": ir.IRInt(1)}, "NOT NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InsertRows(ctx, m, r, tt.entity, []ir.IRObject{tt.row})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	// A failing row rolls back the whole batch.
	err := s.InsertRows(ctx, m, r, "Order", []ir.IRObject{
		{"id": ir.IRInt(1), "customer_id": ir.IRInt(1), "open": ir.IRBool(true)},
		{"id": ir.IRInt(1), "customer_id": ir.IRInt(1), "open": ir.IRBool(true)},
	})
	require.Error(t, err)
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n))
	assert.Zero(t, n)
}

func TestQuery_DecodesByColumn(t *testing.T) {
	s := seededStore(t)
	yn, _ := valueconv.Default().Lookup("bool_to_yn")

	rows, err := s.Query(context.Background(),
		`SELECT "id", "is_active", "email", "flag" FROM "customers" ORDER BY "id"`, nil,
		map[string]*ir.TypeMapping{
			"is_active": ir.NewConvertedMapping(ir.TypeBool, yn),
			"flag":      ir.NewTypeMapping(ir.TypeBool),
		})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ir.IRObject{
		"id":        ir.IRInt(2),
		"is_active": ir.IRBool(false),
		"email":     ir.IRString("bob@example.com"),
		"flag":      ir.IRBool(false),
	}, rows[1])
	assert.Equal(t, ir.IRNull{}, rows[2]["email"])
}

func TestQuery_RawWithoutMappings(t *testing.T) {
	s := seededStore(t)
	rows, err := s.Query(context.Background(), `SELECT "is_active" FROM "customers" WHERE "id" = ?`, []any{int64(1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.IRObject{{"is_active": ir.IRString("Y")}}, rows)
}

func TestQuery_Errors(t *testing.T) {
	s := seededStore(t)
	_, err := s.Query(context.Background(), `SELECT * FROM nope`, nil, nil)
	assert.ErrorContains(t, err, "query")

	_, err = s.Query(context.Background(), `SELECT 1.5 AS x`, nil, nil)
	assert.ErrorContains(t, err, "unsupported column value")

	none, err := s.Query(context.Background(), `SELECT "id" FROM "customers" WHERE 0`, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// A Y/N column in a bare WHERE is coerced to 0 by SQLite, so the
// uncompensated query matches nothing.
func TestQuery_CompensationFixesResults(t *testing.T) {
	s := seededStore(t)
	c := pipeline.New(shopModel(), valueconv.Default(), nil)
	q := queryir.Select{
		From:     "Customer",
		Bindings: map[string]string{"id": "id", "active": "active"},
		Filter:   queryir.Truth{Field: "active"},
	}

	res, err := c.Compile(q, pipeline.Relational, nil)
	require.NoError(t, err)

	before, err := s.Query(context.Background(), res.OriginalSQL, res.OriginalParams, res.Columns)
	require.NoError(t, err)
	assert.Empty(t, before)

	after, err := s.Query(context.Background(), res.CompensatedSQL, res.Params, res.Columns)
	require.NoError(t, err)
	assert.Equal(t, []ir.IRObject{
		{"id": ir.IRInt(1), "active": ir.IRBool(true)},
		{"id": ir.IRInt(3), "active": ir.IRBool(true)},
	}, after)
}

func TestQuery_IntConverterNeedsNoCompensation(t *testing.T) {
	s := seededStore(t)
	c := pipeline.New(shopModel(), valueconv.Default(), nil)
	q := queryir.Select{From: "Order", Bindings: map[string]string{"id": "id"}, Filter: queryir.Truth{Field: "open"}}

	res, err := c.Compile(q, pipeline.Relational, nil)
	require.NoError(t, err)

	before, err := s.Query(context.Background(), res.OriginalSQL, res.OriginalParams, res.Columns)
	require.NoError(t, err)
	after, err := s.Query(context.Background(), res.CompensatedSQL, res.Params, res.Columns)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []ir.IRObject{{"id": ir.IRInt(10)}}, after)
}
