package pipeline

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/translate"
	"github.com/roach88/vcomp/internal/valueconv"
)

func model() *ir.Model {
	return &ir.Model{
		Name: "shop",
		Entities: []ir.EntitySpec{{
			Name:  "Customer",
			Table: "customers",
			Key:   "id",
			Properties: []ir.PropertySpec{
				{Name: "id", Column: "id", Type: ir.TypeInt},
				{Name: "active", Column: "is_active", Type: ir.TypeBool, Converter: "bool_to_yn"},
				{Name: "flag", Column: "flag", Type: ir.TypeBool},
			},
		}},
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": Relational, "relational": Relational, "document": Document} {
		d, err := ParseDialect(in)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}
	_, err := ParseDialect("graph")
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestCompile_Relational(t *testing.T) {
	c := New(model(), valueconv.Default(), quiet())
	q := queryir.Select{From: "Customer", Bindings: map[string]string{"id": "id"}, Filter: queryir.Truth{Field: "active"}}

	res, err := c.Compile(q, Relational, nil)
	require.NoError(t, err)

	assert.Equal(t, `SELECT "t0"."id" FROM "customers" AS "t0" WHERE "t0"."is_active" ORDER BY "t0"."id" ASC`, res.OriginalSQL)
	assert.Equal(t, `SELECT "t0"."id" FROM "customers" AS "t0" WHERE "t0"."is_active" = ? ORDER BY "t0"."id" ASC`, res.CompensatedSQL)
	assert.Empty(t, res.OriginalParams)
	assert.Equal(t, []any{"Y"}, res.Params)
	assert.True(t, res.Changed())
	assert.Equal(t, 1, res.Stats.Rewritten)
	assert.Equal(t, ir.MustQueryFingerprint(res.CompensatedSQL, res.Params), res.Fingerprint)
}

func TestCompile_NothingToCompensate(t *testing.T) {
	c := New(model(), valueconv.Default(), quiet())
	q := queryir.Select{From: "Customer", Bindings: map[string]string{"id": "id"}, Filter: queryir.Truth{Field: "flag"}}

	res, err := c.Compile(q, Relational, nil)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, res.OriginalSQL, res.CompensatedSQL)
	assert.Positive(t, res.Stats.Visited)
}

func TestCompile_Document(t *testing.T) {
	c := New(model(), valueconv.Default(), quiet())
	q := queryir.Select{
		From: "Customer",
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Truth{Field: "active"},
			queryir.BoundEquals{Field: "id", BoundVar: "id"},
		}},
	}

	res, err := c.Compile(q, Document, map[string]ir.IRValue{"id": ir.IRInt(3)})
	require.NoError(t, err)

	assert.Equal(t, Document, res.Dialect)
	assert.Equal(t, `SELECT VALUE c FROM root c WHERE (c["is_active"] = @p0) AND (c["id"] = @id) ORDER BY c["id"] ASC`, res.CompensatedSQL)
	assert.Equal(t, map[string]any{"@p0": "Y", "@id": int64(3)}, res.NamedParams)
	assert.Nil(t, res.Params)
	assert.Equal(t, ir.MustQueryFingerprint(res.CompensatedSQL, []any{"@id", int64(3), "@p0", "Y"}), res.Fingerprint)
}

func TestCompile_Errors(t *testing.T) {
	c := New(model(), valueconv.Default(), quiet())

	_, err := c.Compile(queryir.Select{From: "Nope"}, Relational, nil)
	assert.True(t, translate.IsTranslateError(err, translate.ErrCodeUnknownEntity))

	_, err = c.Compile(queryir.Select{From: "Customer"}, Dialect("graph"), nil)
	assert.ErrorContains(t, err, "unknown dialect")

	bound := queryir.Select{From: "Customer", Filter: queryir.BoundEquals{Field: "id", BoundVar: "id"}}
	_, err = c.Compile(bound, Relational, nil)
	assert.ErrorContains(t, err, "render original")
}

func TestCompile_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := New(model(), valueconv.Default(), logger)

	_, err := c.Compile(queryir.Select{From: "Customer", Filter: queryir.Truth{Field: "active"}}, Relational, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "query compensated")
	assert.Contains(t, buf.String(), "rewritten=1")
}

func TestCompile_Columns(t *testing.T) {
	c := New(model(), valueconv.Default(), quiet())
	q := queryir.Select{From: "Customer", Bindings: map[string]string{"id": "id", "active": "is_active"}}

	res, err := c.Compile(q, Relational, nil)
	require.NoError(t, err)
	require.Len(t, res.Columns, 2)
	assert.Equal(t, ir.TypeInt, res.Columns["id"].ClrType)
	assert.True(t, res.Columns["is_active"].IsConvertedBool())
}
