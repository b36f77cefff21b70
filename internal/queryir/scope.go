package queryir

import (
	"fmt"

	"github.com/roach88/vcomp/internal/ir"
)

// Scope is the ordered list of entities a field name can refer to,
// innermost first. Unqualified names resolve against the innermost entity.
type Scope []string

// Push returns a new scope with entity innermost.
func (s Scope) Push(entity string) Scope {
	out := make(Scope, 0, len(s)+1)
	out = append(out, entity)
	return append(out, s...)
}

// Contains reports whether entity is in scope.
func (s Scope) Contains(entity string) bool {
	for _, e := range s {
		if e == entity {
			return true
		}
	}
	return false
}

// Resolve finds the entity and property a field name refers to.
func Resolve(m *ir.Model, s Scope, field string) (*ir.EntitySpec, *ir.PropertySpec, error) {
	entityName, prop := SplitField(field)
	if entityName == "" {
		if len(s) == 0 {
			return nil, nil, fmt.Errorf("field %q: no entity in scope", field)
		}
		entityName = s[0]
	} else if !s.Contains(entityName) {
		return nil, nil, fmt.Errorf("field %q: entity %q is not in scope", field, entityName)
	}

	entity, ok := m.Entity(entityName)
	if !ok {
		return nil, nil, fmt.Errorf("field %q: unknown entity %q", field, entityName)
	}
	p, ok := entity.Property(prop)
	if !ok {
		return nil, nil, fmt.Errorf("field %q: entity %s has no property %q", field, entity.Name, prop)
	}
	return entity, p, nil
}
