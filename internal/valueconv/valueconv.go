// Package valueconv provides the built-in value converters a model may
// name on a property.
//
// A converter changes only how a value is stored. The boolean converters
// here are the reason compensation exists: once `active` is stored as
// 'Y'/'N', `WHERE active` no longer means what the query says.
package valueconv

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/vcomp/internal/ir"
)

// ErrUnknownConverter is returned when a model names a converter that is not registered.
var ErrUnknownConverter = errors.New("unknown converter")

// Converter is a table-driven ir.ValueConverter.
type Converter struct {
	name         string
	modelType    ir.LogicalType
	providerType ir.LogicalType
	to           func(ir.IRValue) (ir.IRValue, error)
	from         func(ir.IRValue) (ir.IRValue, error)
}

var _ ir.ValueConverter = (*Converter)(nil)

func (c *Converter) Name() string                 { return c.name }
func (c *Converter) ModelType() ir.LogicalType    { return c.modelType }
func (c *Converter) ProviderType() ir.LogicalType { return c.providerType }

// ToProvider converts a logical value to its stored form.
func (c *Converter) ToProvider(v ir.IRValue) (ir.IRValue, error) {
	if got, _ := ir.TypeOf(v); got != c.modelType {
		return nil, fmt.Errorf("converter %s: expected %s value, got %T", c.name, c.modelType, v)
	}
	return c.to(v)
}

// FromProvider converts a stored value back to its logical form.
func (c *Converter) FromProvider(v ir.IRValue) (ir.IRValue, error) {
	if got, _ := ir.TypeOf(v); got != c.providerType {
		return nil, fmt.Errorf("converter %s: expected stored %s value, got %T", c.name, c.providerType, v)
	}
	return c.from(v)
}

// BoolToStrings returns a converter storing true/false as the given strings.
func BoolToStrings(name, whenTrue, whenFalse string) *Converter {
	return &Converter{
		name:         name,
		modelType:    ir.TypeBool,
		providerType: ir.TypeString,
		to: func(v ir.IRValue) (ir.IRValue, error) {
			if v.(ir.IRBool) {
				return ir.IRString(whenTrue), nil
			}
			return ir.IRString(whenFalse), nil
		},
		from: func(v ir.IRValue) (ir.IRValue, error) {
			switch string(v.(ir.IRString)) {
			case whenTrue:
				return ir.IRBool(true), nil
			case whenFalse:
				return ir.IRBool(false), nil
			default:
				return nil, fmt.Errorf("converter %s: stored value %q is neither %q nor %q", name, v, whenTrue, whenFalse)
			}
		},
	}
}

// BoolToInts returns a converter storing true/false as the given integers.
func BoolToInts(name string, whenTrue, whenFalse int64) *Converter {
	return &Converter{
		name:         name,
		modelType:    ir.TypeBool,
		providerType: ir.TypeInt,
		to: func(v ir.IRValue) (ir.IRValue, error) {
			if v.(ir.IRBool) {
				return ir.IRInt(whenTrue), nil
			}
			return ir.IRInt(whenFalse), nil
		},
		from: func(v ir.IRValue) (ir.IRValue, error) {
			switch int64(v.(ir.IRInt)) {
			case whenTrue:
				return ir.IRBool(true), nil
			case whenFalse:
				return ir.IRBool(false), nil
			default:
				return nil, fmt.Errorf("converter %s: stored value %d is neither %d nor %d", name, v, whenTrue, whenFalse)
			}
		},
	}
}

// StringToUpper stores strings upper-cased. It is lossy and exists to model
// a converter on a non-boolean property.
func StringToUpper() *Converter {
	identity := func(v ir.IRValue) (ir.IRValue, error) { return v, nil }
	return &Converter{
		name:         "string_to_upper",
		modelType:    ir.TypeString,
		providerType: ir.TypeString,
		to: func(v ir.IRValue) (ir.IRValue, error) {
			return ir.IRString(strings.ToUpper(string(v.(ir.IRString)))), nil
		},
		from: identity,
	}
}

// Registry holds converters by name.
type Registry struct {
	converters map[string]ir.ValueConverter
}

var _ ir.ConverterResolver = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]ir.ValueConverter)}
}

// Default returns a registry holding the built-in converters:
//
//	bool_to_yn            true -> "Y", false -> "N"
//	bool_to_string        true -> "true", false -> "false"
//	bool_to_int           true -> 1, false -> 0
//	bool_to_inverted_int  true -> 0, false -> 1
//	string_to_upper       "abc" -> "ABC"
func Default() *Registry {
	r := NewRegistry()
	r.Register(BoolToStrings("bool_to_yn", "Y", "N"))
	r.Register(BoolToStrings("bool_to_string", "true", "false"))
	r.Register(BoolToInts("bool_to_int", 1, 0))
	r.Register(BoolToInts("bool_to_inverted_int", 0, 1))
	r.Register(StringToUpper())
	return r
}

// Register adds or replaces a converter.
func (r *Registry) Register(c ir.ValueConverter) {
	r.converters[c.Name()] = c
}

// Lookup returns the converter with the given name.
func (r *Registry) Lookup(name string) (ir.ValueConverter, bool) {
	c, ok := r.converters[name]
	return c, ok
}

// Resolve is like Lookup but returns ErrUnknownConverter when missing.
func (r *Registry) Resolve(name string) (ir.ValueConverter, error) {
	c, ok := r.converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownConverter, name, strings.Join(r.Names(), ", "))
	}
	return c, nil
}

// Names returns registered converter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
