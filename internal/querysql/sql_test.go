package querysql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/sqlexpr"
	"github.com/roach88/vcomp/internal/valueconv"
)

var f sqlexpr.Factory

var (
	boolM = sqlexpr.BoolMapping()
	intM  = ir.NewTypeMapping(ir.TypeInt)
	strM  = ir.NewTypeMapping(ir.TypeString)
)

func TestCompile_TruthBeforeAndAfterCompensation(t *testing.T) {
	q := queryir.Select{
		From:     "Customer",
		Bindings: map[string]string{"id": "id", "name": "name"},
		Filter:   queryir.Truth{Field: "active"},
	}

	sql, params, err := NewSQLCompiler().Compile(relationalTree(t, q, false))
	require.NoError(t, err)
	assert.Equal(t, `SELECT "t0"."id", "t0"."name" FROM "customers" AS "t0" WHERE "t0"."is_active" ORDER BY "t0"."id" ASC`, sql)
	assert.Empty(t, params)

	sql, params, err = NewSQLCompiler().Compile(relationalTree(t, q, true))
	require.NoError(t, err)
	assert.Equal(t, `SELECT "t0"."id", "t0"."name" FROM "customers" AS "t0" WHERE "t0"."is_active" = ? ORDER BY "t0"."id" ASC`, sql)
	assert.Equal(t, []any{"Y"}, params)
}

func TestCompile_ConvertedValues(t *testing.T) {
	tests := []struct {
		name   string
		query  queryir.Query
		where  string
		params []any
	}{
		{
			name:   "negated truth",
			query:  queryir.Select{From: "Customer", Filter: queryir.Not{Predicate: queryir.Truth{Field: "active"}}},
			where:  `NOT ("t0"."is_active" = ?)`,
			params: []any{"Y"},
		},
		{
			name:   "literal is converted",
			query:  queryir.Select{From: "Customer", Filter: queryir.Equals{Field: "active", Value: ir.IRBool(false)}},
			where:  `"t0"."is_active" = ?`,
			params: []any{"N"},
		},
		{
			name:   "int converter",
			query:  queryir.Select{From: "Order", Filter: queryir.Truth{Field: "open"}},
			where:  `"t0"."open" = ?`,
			params: []any{int64(1)},
		},
		{
			name:   "is null",
			query:  queryir.Select{From: "Customer", Filter: queryir.Equals{Field: "email", Value: ir.IRNull{}}},
			where:  `"t0"."email" IS NULL`,
			params: nil,
		},
		{
			name:   "in list",
			query:  queryir.Select{From: "Customer", Filter: queryir.In{Field: "id", Values: []ir.IRValue{ir.IRInt(1), ir.IRInt(2)}}},
			where:  `"t0"."id" IN (?, ?)`,
			params: []any{int64(1), int64(2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := relationalTree(t, tt.query, true)
			sel.Projection = nil
			sel.Orderings = nil

			sql, params, err := NewSQLCompiler().Compile(sel)
			require.NoError(t, err)
			assert.Equal(t, `SELECT * FROM "`+sel.Tables[0].(*sqlexpr.TableExpression).Name+`" AS "t0" WHERE `+tt.where, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompile_BoundValues(t *testing.T) {
	sel := relationalTree(t, queryir.Select{
		From:     "Customer",
		Bindings: map[string]string{"id": "id"},
		Filter:   queryir.BoundEquals{Field: "active", BoundVar: "flag"},
	}, true)

	c := NewSQLCompiler()
	_, _, err := c.Compile(sel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"flag"`)

	c.BoundValues["flag"] = ir.IRBool(true)
	sql, params, err := c.Compile(sel)
	require.NoError(t, err)
	assert.Contains(t, sql, `WHERE "t0"."is_active" = ?`)
	assert.Equal(t, []any{"Y"}, params)
}

func TestCompile_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name   string
		query  queryir.Query
		params []any
	}{
		{
			name: "sql_correlated_exists",
			query: queryir.Select{
				From:     "Customer",
				Bindings: map[string]string{"id": "id", "name": "customer_name"},
				Filter: queryir.And{Predicates: []queryir.Predicate{
					queryir.Truth{Field: "active"},
					queryir.Exists{Query: queryir.Select{
						From: "Order",
						Filter: queryir.And{Predicates: []queryir.Predicate{
							queryir.FieldEquals{Field: "customer_id", Other: "Customer.id"},
							queryir.Truth{Field: "open"},
						}},
					}},
				}},
				OrderBy: []queryir.Order{{Field: "name", Descending: true}},
				Limit:   10,
				Offset:  5,
			},
			params: []any{"Y", int64(1), int64(10), int64(5)},
		},
		{
			name: "sql_left_join",
			query: queryir.Join{
				Left: queryir.Select{From: "Customer", Bindings: map[string]string{"id": "customer"}},
				Right: queryir.Select{
					From:     "Order",
					Bindings: map[string]string{"id": "order"},
					Filter:   queryir.Truth{Field: "open"},
				},
				On:   queryir.FieldEquals{Field: "Order.customer_id", Other: "Customer.id"},
				Kind: queryir.JoinLeft,
			},
			params: []any{int64(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler().Compile(relationalTree(t, tt.query, true))
			require.NoError(t, err)
			assert.Equal(t, tt.params, params)
			g.Assert(t, tt.name, []byte(sql+"\n"))
		})
	}
}

// project renders e alone: SELECT <e>.
func project(t *testing.T, e sqlexpr.SQLExpression) (string, []any) {
	t.Helper()
	sql, params, err := NewSQLCompiler().Compile(f.Select([]*sqlexpr.ProjectionExpression{f.Project(e, "")}))
	require.NoError(t, err)
	return sql, params
}

func TestCompile_Expressions(t *testing.T) {
	a := f.Column("a", "t0", boolM)
	id := f.Column("id", "t0", intM)
	name := f.Column("name", "t0", strM)
	email := f.Column("email", "t0", strM)
	one := f.Constant(ir.IRInt(1), intM)
	zero := f.Constant(ir.IRInt(0), intM)

	tests := []struct {
		name   string
		expr   sqlexpr.SQLExpression
		sql    string
		params []any
	}{
		{"case", f.Case(nil, []sqlexpr.CaseWhenClause{{Test: a, Result: one}}, zero),
			`CASE WHEN "t0"."a" THEN ? ELSE ? END`, []any{int64(1), int64(0)}},
		{"case with operand", f.Case(id, []sqlexpr.CaseWhenClause{{Test: one, Result: name}}, nil),
			`CASE "t0"."id" WHEN ? THEN "t0"."name" END`, []any{int64(1)}},
		{"conditional", f.Conditional(a, one, zero),
			`CASE WHEN "t0"."a" THEN ? ELSE ? END`, []any{int64(1), int64(0)}},
		{"like escape", &sqlexpr.LikeExpression{Match: name, Pattern: f.Constant(ir.IRString("a%"), strM), EscapeChar: f.Constant(ir.IRString(`\`), strM), Mapping: boolM},
			`"t0"."name" LIKE ? ESCAPE ?`, []any{"a%", `\`}},
		{"coalesce", f.Binary(ir.OpCoalesce, email, f.Constant(ir.IRString("none"), strM)),
			`COALESCE("t0"."email", ?)`, []any{"none"}},
		{"concat", f.Binary(ir.OpConcat, name, f.Constant(ir.IRString("!"), strM)),
			`"t0"."name" || ?`, []any{"!"}},
		{"nested arithmetic", f.Binary(ir.OpMultiply, f.Binary(ir.OpAdd, id, one), id),
			`("t0"."id" + ?) * "t0"."id"`, []any{int64(1)}},
		{"negate", &sqlexpr.SQLUnaryExpression{Operator: ir.OpNegate, Operand: id, Mapping: intM},
			`-"t0"."id"`, nil},
		{"is not null", &sqlexpr.SQLUnaryExpression{Operator: ir.OpIsNotNull, Operand: email, Mapping: boolM},
			`"t0"."email" IS NOT NULL`, nil},
		{"collate", &sqlexpr.CollateExpression{Operand: name, Collation: "NOCASE"},
			`"t0"."name" COLLATE NOCASE`, nil},
		{"not in", f.InValues(id, f.Constant(ir.IRArray{ir.IRInt(3), ir.IRInt(4)}, intM), true),
			`"t0"."id" NOT IN (?, ?)`, []any{int64(3), int64(4)}},
		{"null constant", f.Constant(ir.IRNull{}, strM), `NULL`, nil},
		{"niladic", &sqlexpr.SQLFunctionExpression{Name: "CURRENT_TIMESTAMP", IsNiladic: true, Mapping: strM},
			`CURRENT_TIMESTAMP`, nil},
		{"function with instance", &sqlexpr.SQLFunctionExpression{Name: "substr", Instance: name, Arguments: []sqlexpr.SQLExpression{one}, Mapping: strM},
			`substr("t0"."name", ?)`, []any{int64(1)}},
		{"row number", &sqlexpr.RowNumberExpression{Partitions: []sqlexpr.SQLExpression{a}, Orderings: []*sqlexpr.OrderingExpression{f.Order(id, true)}, Mapping: intM},
			`ROW_NUMBER() OVER (PARTITION BY "t0"."a" ORDER BY "t0"."id" ASC)`, nil},
		{"scalar subquery", &sqlexpr.ScalarSubqueryExpression{
			Subquery: f.Select([]*sqlexpr.ProjectionExpression{f.Project(f.Function("COUNT", intM, &sqlexpr.SQLFragmentExpression{SQL: "*"}), "")}, f.Table("orders", "t1")),
			Mapping:  intM,
		}, `(SELECT COUNT(*) FROM "orders" AS "t1")`, nil},
		{"in subquery", f.InSubquery(id, f.Select([]*sqlexpr.ProjectionExpression{f.Project(f.Column("customer_id", "t1", intM), "")}, f.Table("orders", "t1")), false),
			`"t0"."id" IN (SELECT "t1"."customer_id" FROM "orders" AS "t1")`, nil},
		{"not exists", f.Exists(f.Select(nil, f.Table("orders", "t1")), true),
			`NOT EXISTS (SELECT * FROM "orders" AS "t1")`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := project(t, tt.expr)
			assert.Equal(t, "SELECT "+tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompile_Sources(t *testing.T) {
	tests := []struct {
		name string
		sel  *sqlexpr.SelectExpression
		sql  string
	}{
		{
			"cross join and raw sql",
			f.Select(nil,
				f.Table("customers", "t0"),
				&sqlexpr.CrossJoinExpression{Table: f.Table("orders", "t1")},
				&sqlexpr.FromSQLExpression{SQL: "SELECT 1 AS x", Alias: "f"},
			),
			`SELECT * FROM "customers" AS "t0" CROSS JOIN "orders" AS "t1", (SELECT 1 AS x) AS "f"`,
		},
		{
			"union all",
			f.Select(nil, &sqlexpr.UnionExpression{SetOperation: sqlexpr.SetOperation{
				Source1: f.Select(nil, f.Table("a", "")),
				Source2: f.Select(nil, f.Table("b", "")),
				Alias:   "u",
			}}),
			`SELECT * FROM (SELECT * FROM "a" UNION ALL SELECT * FROM "b") AS "u"`,
		},
		{
			"intersect",
			f.Select(nil, &sqlexpr.IntersectExpression{SetOperation: sqlexpr.SetOperation{
				Source1: f.Select(nil, f.Table("a", "")),
				Source2: f.Select(nil, f.Table("b", "")),
				Alias:   "i",
			}}),
			`SELECT * FROM (SELECT * FROM "a" INTERSECT SELECT * FROM "b") AS "i"`,
		},
		{
			"derived table with schema",
			f.Select(nil, &sqlexpr.SelectExpression{Alias: "d", Tables: []sqlexpr.Source{&sqlexpr.TableExpression{Schema: "main", Name: "customers", Alias: "t0"}}}),
			`SELECT * FROM (SELECT * FROM "main"."customers" AS "t0") AS "d"`,
		},
		{
			"quoted identifiers",
			f.Select([]*sqlexpr.ProjectionExpression{f.Project(f.Column(`we"ird`, "t0", strM), "order")}, f.Table("customers", "t0")),
			`SELECT "t0"."we""ird" AS "order" FROM "customers" AS "t0"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := NewSQLCompiler().Compile(tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
		})
	}
}

func TestCompile_Clauses(t *testing.T) {
	name := f.Column("name", "t0", strM)

	sel := f.Select([]*sqlexpr.ProjectionExpression{f.Project(name, "name")}, f.Table("customers", "t0"))
	sel.IsDistinct = true
	sel.GroupBy = []sqlexpr.SQLExpression{name}
	sel.Having = f.Binary(ir.OpGreaterThan, f.Function("COUNT", intM, &sqlexpr.SQLFragmentExpression{SQL: "*"}), f.Constant(ir.IRInt(1), intM))
	sel.Orderings = []*sqlexpr.OrderingExpression{f.Order(name, true)}
	sel.Offset = f.Constant(ir.IRInt(5), intM)

	sql, params, err := NewSQLCompiler().Compile(sel)
	require.NoError(t, err)
	assert.Equal(t, `SELECT DISTINCT "t0"."name" FROM "customers" AS "t0" GROUP BY "t0"."name" HAVING COUNT(*) > ? ORDER BY "t0"."name" COLLATE BINARY ASC LIMIT -1 OFFSET ?`, sql)
	assert.Equal(t, []any{int64(1), int64(5)}, params)
}

func TestCompile_Errors(t *testing.T) {
	table := f.Table("customers", "t0")
	id := f.Column("id", "t0", intM)

	tests := []struct {
		name string
		sel  *sqlexpr.SelectExpression
		want string
	}{
		{"nil", nil, "nil query"},
		{"cross apply", f.Select(nil, table, &sqlexpr.CrossApplyExpression{Table: f.Table("orders", "t1")}), "not supported by SQLite"},
		{"empty in", func() *sqlexpr.SelectExpression {
			s := f.Select(nil, table)
			s.Predicate = f.InValues(id, f.Constant(ir.IRArray{}, intM), false)
			return s
		}(), "empty IN list"},
		{"array outside in", func() *sqlexpr.SelectExpression {
			s := f.Select(nil, table)
			s.Predicate = f.Equal(id, f.Constant(ir.IRArray{ir.IRInt(1)}, intM))
			return s
		}(), "outside an IN list"},
		{"bad converter input", func() *sqlexpr.SelectExpression {
			conv, _ := valueconv.Default().Lookup("bool_to_yn")
			m := ir.NewConvertedMapping(ir.TypeBool, conv)
			s := f.Select(nil, table)
			s.Predicate = f.Equal(f.Column("is_active", "t0", m), f.Constant(ir.IRString("maybe"), m))
			return s
		}(), "convert"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewSQLCompiler().Compile(tt.sel)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
