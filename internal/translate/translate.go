package translate

import (
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
)

// Translator maps queries over one model to expression trees.
// It holds no per-query state and is safe for concurrent use.
type Translator struct {
	model    *ir.Model
	resolver ir.ConverterResolver
}

// New returns a translator for model. Converter names on properties are
// looked up in resolver.
func New(model *ir.Model, resolver ir.ConverterResolver) *Translator {
	return &Translator{model: model, resolver: resolver}
}

var intMapping = ir.NewTypeMapping(ir.TypeInt)

func (t *Translator) entity(name string) (*ir.EntitySpec, error) {
	e, ok := t.model.Entity(name)
	if !ok {
		return nil, errorf(ErrCodeUnknownEntity, "", "unknown entity %q", name)
	}
	return e, nil
}

func (t *Translator) mapping(p *ir.PropertySpec, field string) (*ir.TypeMapping, error) {
	m, err := p.Mapping(t.resolver)
	if err != nil {
		return nil, errorf(ErrCodeMapping, field, "%v", err)
	}
	return m, nil
}

func (t *Translator) resolve(s queryir.Scope, field string) (*ir.EntitySpec, *ir.PropertySpec, error) {
	e, p, err := queryir.Resolve(t.model, s, field)
	if err != nil {
		return nil, nil, errorf(ErrCodeUnknownField, field, "%v", err)
	}
	return e, p, nil
}

// keyProperty returns the property queries are ordered by when they name
// no ordering of their own.
func keyProperty(e *ir.EntitySpec) (*ir.PropertySpec, error) {
	p, ok := e.Property(e.Key)
	if !ok {
		return nil, errorf(ErrCodeUnknownField, e.Key, "entity %s has no key property", e.Name)
	}
	return p, nil
}

// projected returns the properties a select reads, in declaration order,
// with their output names. Empty bindings read every property when all
// is set and nothing otherwise.
func projected(e *ir.EntitySpec, bindings map[string]string, all bool) ([]*ir.PropertySpec, []string, error) {
	for name := range bindings {
		if _, ok := e.Property(name); !ok {
			return nil, nil, errorf(ErrCodeUnknownField, name, "entity %s has no property %q", e.Name, name)
		}
	}

	var props []*ir.PropertySpec
	var names []string
	for i := range e.Properties {
		p := &e.Properties[i]
		if len(bindings) == 0 {
			if all {
				props = append(props, p)
				names = append(names, p.Name)
			}
			continue
		}
		if out, ok := bindings[p.Name]; ok {
			props = append(props, p)
			names = append(names, out)
		}
	}
	return props, names, nil
}

// checkLiteral rejects a literal whose type disagrees with the property.
// Nulls pass.
func checkLiteral(p *ir.PropertySpec, field string, v ir.IRValue) error {
	if isNull(v) {
		return nil
	}
	lt, ok := ir.TypeOf(v)
	if !ok {
		return errorf(ErrCodeTypeMismatch, field, "literal %T is not a scalar", v)
	}
	if lt != p.Type {
		return errorf(ErrCodeTypeMismatch, field, "property is %s, literal is %s", p.Type, lt)
	}
	return nil
}

func checkTruth(p *ir.PropertySpec, field string) error {
	if p.Type != ir.TypeBool {
		return errorf(ErrCodeTypeMismatch, field, "property is %s, not bool", p.Type)
	}
	return nil
}

func checkPage(limit, offset int) error {
	if limit < 0 || offset < 0 {
		return errorf(ErrCodeUnsupported, "", "negative limit or offset")
	}
	return nil
}

func isNull(v ir.IRValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(ir.IRNull)
	return ok
}
