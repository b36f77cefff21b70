package ir

import "fmt"

// Model is a compiled entity model: the metadata that decides which
// properties carry a value converter.
type Model struct {
	Name     string       `json:"name"`
	Entities []EntitySpec `json:"entities"`
}

// EntitySpec describes one entity and where it is stored.
type EntitySpec struct {
	Name       string         `json:"name"`                // "Customer"
	Table      string         `json:"table"`               // relational table name
	Container  string         `json:"container,omitempty"` // document container name
	Key        string         `json:"key"`                 // key property, used for deterministic ordering
	Properties []PropertySpec `json:"properties"`          // declaration order
}

// PropertySpec describes one property of an entity.
type PropertySpec struct {
	Name      string      `json:"name"`
	Column    string      `json:"column"`              // relational column / document key
	Type      LogicalType `json:"type"`                // logical type
	Converter string      `json:"converter,omitempty"` // converter name, empty = none
	Nullable  bool        `json:"nullable,omitempty"`
}

// ConverterResolver looks up converters by name.
type ConverterResolver interface {
	Lookup(name string) (ValueConverter, bool)
}

// Entity returns the entity with the given name.
func (m *Model) Entity(name string) (*EntitySpec, bool) {
	for i := range m.Entities {
		if m.Entities[i].Name == name {
			return &m.Entities[i], true
		}
	}
	return nil, false
}

// Property returns the property with the given name.
func (e *EntitySpec) Property(name string) (*PropertySpec, bool) {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i], true
		}
	}
	return nil, false
}

// ContainerName returns the document container, defaulting to the entity name.
func (e *EntitySpec) ContainerName() string {
	if e.Container != "" {
		return e.Container
	}
	return e.Name
}

// Mapping resolves the TypeMapping of a property.
// Returns an error if the property names a converter the resolver does not
// know, or one whose model type disagrees with the property type.
func (p *PropertySpec) Mapping(r ConverterResolver) (*TypeMapping, error) {
	if p.Converter == "" {
		return NewTypeMapping(p.Type), nil
	}
	if r == nil {
		return nil, fmt.Errorf("property %q: converter %q but no resolver", p.Name, p.Converter)
	}
	conv, ok := r.Lookup(p.Converter)
	if !ok {
		return nil, fmt.Errorf("property %q: unknown converter %q", p.Name, p.Converter)
	}
	if conv.ModelType() != p.Type {
		return nil, fmt.Errorf("property %q: converter %q expects %s, property is %s",
			p.Name, p.Converter, conv.ModelType(), p.Type)
	}
	return NewConvertedMapping(p.Type, conv), nil
}
