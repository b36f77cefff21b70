package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/vcomp/internal/ir"
)

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateEntityTables creates one table per entity of m. Column types come
// from each property's mapping, so a bool stored through bool_to_yn is a
// TEXT column. The key property is the primary key.
func (s *Store) CreateEntityTables(ctx context.Context, m *ir.Model, r ir.ConverterResolver) error {
	for i := range m.Entities {
		e := &m.Entities[i]
		ddl, err := createTableSQL(e, r)
		if err != nil {
			return fmt.Errorf("create table %s: %w", e.Table, err)
		}
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", e.Table, err)
		}
	}
	return nil
}

func createTableSQL(e *ir.EntitySpec, r ir.ConverterResolver) (string, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quote(e.Table))
	b.WriteString(" (")
	for i := range e.Properties {
		p := &e.Properties[i]
		m, err := p.Mapping(r)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(p.Column))
		b.WriteString(" ")
		b.WriteString(m.StoreType)
		switch {
		case p.Name == e.Key:
			b.WriteString(" PRIMARY KEY")
		case !p.Nullable:
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString(")")
	return b.String(), nil
}

// InsertRows inserts logical rows, keyed by property name, into the table
// of the named entity. Every value passes through its property's converter
// before it is bound. Rows are inserted in one transaction.
func (s *Store) InsertRows(ctx context.Context, m *ir.Model, r ir.ConverterResolver, entity string, rows []ir.IRObject) error {
	e, ok := m.Entity(entity)
	if !ok {
		return fmt.Errorf("insert rows: unknown entity %q", entity)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert rows: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for i, row := range rows {
		stmt, args, err := insertSQL(e, r, row)
		if err != nil {
			return fmt.Errorf("insert rows: %s[%d]: %w", entity, i, err)
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert rows: %s[%d]: %w", entity, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert rows: commit: %w", err)
	}
	return nil
}

// insertSQL builds an INSERT for the properties present in row, in
// declaration order.
func insertSQL(e *ir.EntitySpec, r ir.ConverterResolver, row ir.IRObject) (string, []any, error) {
	for name := range row {
		if _, ok := e.Property(name); !ok {
			return "", nil, fmt.Errorf("unknown property %q", name)
		}
	}

	var cols, marks []string
	var args []any
	for i := range e.Properties {
		p := &e.Properties[i]
		v, ok := row[p.Name]
		if !ok {
			continue
		}
		m, err := p.Mapping(r)
		if err != nil {
			return "", nil, err
		}
		if t, scalar := ir.TypeOf(v); scalar && t != p.Type {
			return "", nil, fmt.Errorf("property %q is %s, got %s", p.Name, p.Type, t)
		}
		phys, err := m.ProviderValue(v)
		if err != nil {
			return "", nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		native, err := ir.ToNative(phys)
		if err != nil {
			return "", nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		cols = append(cols, quote(p.Column))
		marks = append(marks, "?")
		args = append(args, native)
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("row has no values")
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(e.Table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return stmt, args, nil
}
