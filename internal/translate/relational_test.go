package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/compensate"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/sqlexpr"
)

func translateRelational(t *testing.T, q queryir.Query) *sqlexpr.SelectExpression {
	t.Helper()
	sel, err := newTranslator().Relational(q)
	require.NoError(t, err)
	return sel
}

func requireColumn(t *testing.T, e sqlexpr.Expression, table, name string) *sqlexpr.ColumnExpression {
	t.Helper()
	col, ok := e.(*sqlexpr.ColumnExpression)
	require.True(t, ok, "expected column, got %T", e)
	assert.Equal(t, table, col.Table)
	assert.Equal(t, name, col.Name)
	return col
}

func TestRelational_SelectEveryProperty(t *testing.T) {
	sel := translateRelational(t, queryir.Select{From: "Customer"})

	require.Len(t, sel.Tables, 1)
	table := sel.Tables[0].(*sqlexpr.TableExpression)
	assert.Equal(t, "customers", table.Name)
	assert.Equal(t, "t0", table.Alias)

	var aliases []string
	for _, p := range sel.Projection {
		aliases = append(aliases, p.Alias)
	}
	assert.Equal(t, []string{"id", "name", "active", "email", "vip"}, aliases)
	active := requireColumn(t, sel.Projection[2].Expression, "t0", "is_active")
	assert.True(t, active.Mapping.IsConvertedBool())

	assert.Nil(t, sel.Predicate)
	require.Len(t, sel.Orderings, 1)
	requireColumn(t, sel.Orderings[0].Expression, "t0", "id")
	assert.True(t, sel.Orderings[0].Ascending)
	assert.Nil(t, sel.Limit)
	assert.Nil(t, sel.Offset)
}

func TestRelational_BindingsFollowDeclarationOrder(t *testing.T) {
	sel := translateRelational(t, queryir.Select{
		From:     "Customer",
		Bindings: map[string]string{"name": "customer_name", "id": "id"},
	})
	require.Len(t, sel.Projection, 2)
	requireColumn(t, sel.Projection[0].Expression, "t0", "id")
	requireColumn(t, sel.Projection[1].Expression, "t0", "name")
	assert.Equal(t, "customer_name", sel.Projection[1].Alias)
}

func TestRelational_TruthIsBareColumn(t *testing.T) {
	sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.Truth{Field: "active"}})

	col := requireColumn(t, sel.Predicate, "t0", "is_active")
	assert.True(t, col.Mapping.IsConvertedBool())
	assert.Equal(t, "bool_to_yn", col.Mapping.Converter.Name())
}

func TestRelational_Predicates(t *testing.T) {
	t.Run("equals", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.Equals{Field: "active", Value: ir.IRBool(true)}})
		bin := sel.Predicate.(*sqlexpr.SQLBinaryExpression)
		assert.Equal(t, ir.OpEqual, bin.Operator)
		col := requireColumn(t, bin.Left, "t0", "is_active")
		c := bin.Right.(*sqlexpr.SQLConstantExpression)
		assert.Equal(t, ir.IRBool(true), c.Value)
		assert.Same(t, col.Mapping, c.Mapping)
	})

	t.Run("equals null", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.Equals{Field: "email", Value: ir.IRNull{}}})
		u := sel.Predicate.(*sqlexpr.SQLUnaryExpression)
		assert.Equal(t, ir.OpIsNull, u.Operator)
		requireColumn(t, u.Operand, "t0", "email")
	})

	t.Run("bound equals", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.BoundEquals{Field: "active", BoundVar: "flag"}})
		bin := sel.Predicate.(*sqlexpr.SQLBinaryExpression)
		col := requireColumn(t, bin.Left, "t0", "is_active")
		p := bin.Right.(*sqlexpr.SQLParameterExpression)
		assert.Equal(t, "flag", p.Name)
		assert.Same(t, col.Mapping, p.Mapping)
	})

	t.Run("in", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.In{Field: "id", Values: []ir.IRValue{ir.IRInt(1), ir.IRInt(2)}}})
		in := sel.Predicate.(*sqlexpr.InExpression)
		requireColumn(t, in.Item, "t0", "id")
		assert.Equal(t, ir.IRArray{ir.IRInt(1), ir.IRInt(2)}, in.Values.(*sqlexpr.SQLConstantExpression).Value)
		assert.Nil(t, in.Subquery)
	})

	t.Run("empty in is false", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.In{Field: "id"}})
		assert.Equal(t, ir.IRBool(false), sel.Predicate.(*sqlexpr.SQLConstantExpression).Value)
	})

	t.Run("empty and is true", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.And{}})
		assert.Equal(t, ir.IRBool(true), sel.Predicate.(*sqlexpr.SQLConstantExpression).Value)
	})

	t.Run("and or not", func(t *testing.T) {
		sel := translateRelational(t, queryir.Select{From: "Customer", Filter: queryir.Or{Predicates: []queryir.Predicate{
			queryir.Truth{Field: "active"},
			queryir.Not{Predicate: &queryir.Truth{Field: "vip"}},
			queryir.Equals{Field: "name", Value: ir.IRString("ann")},
		}}})
		// Folded left: (active OR NOT vip) OR name = 'ann'
		outer := sel.Predicate.(*sqlexpr.SQLBinaryExpression)
		assert.Equal(t, ir.OpOrElse, outer.Operator)
		inner := outer.Left.(*sqlexpr.SQLBinaryExpression)
		assert.Equal(t, ir.OpOrElse, inner.Operator)
		requireColumn(t, inner.Left, "t0", "is_active")
		not := inner.Right.(*sqlexpr.SQLUnaryExpression)
		assert.Equal(t, ir.OpNot, not.Operator)
		requireColumn(t, not.Operand, "t0", "profile.vip")
	})
}

func TestRelational_OrderingAndPaging(t *testing.T) {
	sel := translateRelational(t, queryir.Select{
		From:    "Customer",
		OrderBy: []queryir.Order{{Field: "name", Descending: true}, {Field: "Customer.id"}},
		Limit:   10,
		Offset:  20,
	})
	require.Len(t, sel.Orderings, 2)
	requireColumn(t, sel.Orderings[0].Expression, "t0", "name")
	assert.False(t, sel.Orderings[0].Ascending)
	requireColumn(t, sel.Orderings[1].Expression, "t0", "id")
	assert.True(t, sel.Orderings[1].Ascending)

	assert.Equal(t, ir.IRInt(10), sel.Limit.(*sqlexpr.SQLConstantExpression).Value)
	assert.Equal(t, ir.IRInt(20), sel.Offset.(*sqlexpr.SQLConstantExpression).Value)
}

func TestRelational_CorrelatedExists(t *testing.T) {
	sel := translateRelational(t, queryir.Select{
		From: "Customer",
		Filter: queryir.Exists{Query: queryir.Select{
			From: "Order",
			Filter: queryir.And{Predicates: []queryir.Predicate{
				queryir.FieldEquals{Field: "customer_id", Other: "Customer.id"},
				queryir.Truth{Field: "open"},
			}},
		}},
	})

	exists := sel.Predicate.(*sqlexpr.ExistsExpression)
	assert.False(t, exists.IsNegated)
	sub := exists.Subquery
	require.Len(t, sub.Projection, 1)
	assert.Equal(t, "1", sub.Projection[0].Expression.(*sqlexpr.SQLFragmentExpression).SQL)
	assert.Nil(t, sub.Orderings)
	assert.Equal(t, "t1", sub.Tables[0].TableAlias())

	and := sub.Predicate.(*sqlexpr.SQLBinaryExpression)
	eq := and.Left.(*sqlexpr.SQLBinaryExpression)
	requireColumn(t, eq.Left, "t1", "customer_id")
	requireColumn(t, eq.Right, "t0", "id")
	requireColumn(t, and.Right, "t1", "open")
}

func TestRelational_Join(t *testing.T) {
	sel := translateRelational(t, queryir.Join{
		Left: queryir.Select{From: "Customer", Bindings: map[string]string{"id": "customer"}},
		Right: &queryir.Select{
			From:     "Order",
			Bindings: map[string]string{"id": "order"},
			Filter:   queryir.Truth{Field: "open"},
		},
		On:   queryir.FieldEquals{Field: "Order.customer_id", Other: "Customer.id"},
		Kind: queryir.JoinLeft,
	})

	require.Len(t, sel.Projection, 2)
	requireColumn(t, sel.Projection[0].Expression, "t0", "id")
	requireColumn(t, sel.Projection[1].Expression, "t1", "id")
	assert.Equal(t, "order", sel.Projection[1].Alias)

	require.Len(t, sel.Tables, 2)
	join, ok := sel.Tables[1].(*sqlexpr.LeftJoinExpression)
	require.True(t, ok, "got %T", sel.Tables[1])
	assert.Equal(t, "orders", join.Table.(*sqlexpr.TableExpression).Name)

	on := join.JoinPredicate.(*sqlexpr.SQLBinaryExpression)
	assert.Equal(t, ir.OpAndAlso, on.Operator)
	requireColumn(t, on.Right, "t1", "open")

	// Ordered by the left entity's key.
	requireColumn(t, sel.Orderings[0].Expression, "t0", "id")
}

func TestRelational_InnerJoinIsDefault(t *testing.T) {
	sel := translateRelational(t, queryir.Join{
		Left:  queryir.Select{From: "Customer"},
		Right: queryir.Select{From: "Order"},
		On:    queryir.FieldEquals{Field: "customer_id", Other: "Customer.id"},
	})
	_, ok := sel.Tables[1].(*sqlexpr.InnerJoinExpression)
	assert.True(t, ok, "got %T", sel.Tables[1])
	// Empty right bindings add no columns.
	assert.Len(t, sel.Projection, 5)
}

func TestRelational_CompensationTargets(t *testing.T) {
	comp := compensate.NewRelational(sqlexpr.Factory{})

	tests := []struct {
		name   string
		filter queryir.Predicate
		want   int
	}{
		{"truth", queryir.Truth{Field: "active"}, 1},
		{"not truth", queryir.Not{Predicate: queryir.Truth{Field: "active"}}, 1},
		{"equals literal", queryir.Equals{Field: "active", Value: ir.IRBool(true)}, 0},
		{"bound equals", queryir.BoundEquals{Field: "active", BoundVar: "flag"}, 0},
		{"and of truths", queryir.And{Predicates: []queryir.Predicate{
			queryir.Truth{Field: "active"},
			queryir.Truth{Field: "vip"},
		}}, 2},
		{"exists", queryir.Exists{Query: queryir.Select{From: "Order", Filter: queryir.Truth{Field: "open"}}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := translateRelational(t, queryir.Select{From: "Customer", Filter: tt.filter})
			var stats compensate.Stats
			comp.CompensateSelect(sel, compensate.WithStats(&stats))
			assert.Equal(t, tt.want, stats.Rewritten)
		})
	}
}
