package querysql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/compensate"
	"github.com/roach88/vcomp/internal/docexpr"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/sqlexpr"
	"github.com/roach88/vcomp/internal/translate"
	"github.com/roach88/vcomp/internal/valueconv"
)

func shopModel() *ir.Model {
	return &ir.Model{
		Name: "shop",
		Entities: []ir.EntitySpec{
			{
				Name:  "Customer",
				Table: "customers",
				Key:   "id",
				Properties: []ir.PropertySpec{
					{Name: "id", Column: "id", Type: ir.TypeInt},
					{Name: "name", Column: "name", Type: ir.TypeString},
					{Name: "active", Column: "is_active", Type: ir.TypeBool, Converter: "bool_to_yn"},
					{Name: "email", Column: "email", Type: ir.TypeString, Nullable: true},
					{Name: "vip", Column: "profile.vip", Type: ir.TypeBool, Converter: "bool_to_yn"},
				},
			},
			{
				Name:  "Order",
				Table: "orders",
				Key:   "id",
				Properties: []ir.PropertySpec{
					{Name: "id", Column: "id", Type: ir.TypeInt},
					{Name: "customer_id", Column: "customer_id", Type: ir.TypeInt},
					{Name: "open", Column: "open", Type: ir.TypeBool, Converter: "bool_to_int"},
				},
			},
		},
	}
}

func translator() *translate.Translator {
	return translate.New(shopModel(), valueconv.Default())
}

// relationalTree translates q and, when comp is set, compensates it.
func relationalTree(t *testing.T, q queryir.Query, comp bool) *sqlexpr.SelectExpression {
	t.Helper()
	sel, err := translator().Relational(q)
	require.NoError(t, err)
	if comp {
		sel = compensate.NewRelational(sqlexpr.Factory{}).CompensateSelect(sel)
	}
	return sel
}

func documentTree(t *testing.T, q queryir.Query, comp bool) *docexpr.SelectExpression {
	t.Helper()
	sel, err := translator().Document(q)
	require.NoError(t, err)
	if comp {
		sel = compensate.NewDocument(docexpr.Factory{}).CompensateSelect(sel)
	}
	return sel
}
