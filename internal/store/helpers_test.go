package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/vcomp/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

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
					{Name: "flag", Column: "flag", Type: ir.TypeBool},
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

func customers() []ir.IRObject {
	return []ir.IRObject{
		{"id": ir.IRInt(1), "name": ir.IRString("ann"), "active": ir.IRBool(true), "flag": ir.IRBool(true)},
		{"id": ir.IRInt(2), "name": ir.IRString("bob"), "active": ir.IRBool(false), "flag": ir.IRBool(false), "email": ir.IRString("bob@example.com")},
		{"id": ir.IRInt(3), "name": ir.IRString("cy"), "active": ir.IRBool(true), "flag": ir.IRBool(false), "email": ir.IRNull{}},
	}
}
