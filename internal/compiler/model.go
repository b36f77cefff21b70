package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/vcomp/internal/ir"
)

// CompileModel parses a CUE value into a Model. The model name is the
// struct label:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: shop: { entity: ... }`)
//	m, err := CompileModel(v.LookupPath(cue.ParsePath("model.shop")))
//
// Properties keep their CUE declaration order. Omitted fields default:
// table and container to the entity name, key to "id", column to the
// property name.
func CompileModel(v cue.Value) (*ir.Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &ir.Model{Name: label(v)}

	entitiesVal := v.LookupPath(cue.ParsePath("entity"))
	if !entitiesVal.Exists() {
		return nil, &CompileError{
			Field:   "entity",
			Message: "at least one entity is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := entitiesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		entity, err := compileEntity(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, *entity)
	}

	if len(m.Entities) == 0 {
		return nil, &CompileError{
			Field:   "entity",
			Message: "at least one entity is required",
			Pos:     v.Pos(),
		}
	}
	return m, nil
}

func compileEntity(name string, v cue.Value) (*ir.EntitySpec, error) {
	prefix := "entity." + name
	e := &ir.EntitySpec{Name: name}

	var err error
	if e.Table, err = optionalString(v, "table", prefix+".table"); err != nil {
		return nil, err
	}
	if e.Table == "" {
		e.Table = name
	}
	if e.Container, err = optionalString(v, "container", prefix+".container"); err != nil {
		return nil, err
	}
	if e.Key, err = optionalString(v, "key", prefix+".key"); err != nil {
		return nil, err
	}
	if e.Key == "" {
		e.Key = "id"
	}

	propsVal := v.LookupPath(cue.ParsePath("property"))
	if !propsVal.Exists() {
		return nil, &CompileError{
			Field:   prefix + ".property",
			Message: "at least one property is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := propsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		p, err := compileProperty(prefix, iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		e.Properties = append(e.Properties, *p)
	}
	return e, nil
}

func compileProperty(prefix, name string, v cue.Value) (*ir.PropertySpec, error) {
	field := fmt.Sprintf("%s.property.%s", prefix, name)
	p := &ir.PropertySpec{Name: name}

	typeName, err := requiredString(v, "type", field+".type")
	if err != nil {
		return nil, err
	}
	if p.Type, err = ir.ParseLogicalType(typeName); err != nil {
		return nil, &CompileError{
			Field:   field + ".type",
			Message: err.Error(),
			Pos:     v.LookupPath(cue.ParsePath("type")).Pos(),
		}
	}
	if p.Column, err = optionalString(v, "column", field+".column"); err != nil {
		return nil, err
	}
	if p.Column == "" {
		p.Column = name
	}
	if p.Converter, err = optionalString(v, "converter", field+".converter"); err != nil {
		return nil, err
	}
	if p.Nullable, err = optionalBool(v, "nullable", field+".nullable"); err != nil {
		return nil, err
	}
	return p, nil
}
