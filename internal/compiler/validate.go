package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
)

// Validation error codes (E100-E199)
const (
	// Model errors (E101-E109)
	ErrModelNoEntities    = "E101" // at least one entity required
	ErrEntityNoProperties = "E102" // entity must declare properties
	ErrKeyNotDeclared     = "E103" // key names no property
	ErrInvalidFieldType   = "E104" // property type unknown
	ErrDuplicateName      = "E105" // duplicate entity, table, property or column
	ErrUnknownConverter   = "E106" // converter not registered
	ErrConverterType      = "E107" // converter model type differs from property type
	ErrNullableKey        = "E108" // key property must not be nullable
	ErrEmptyName          = "E109" // empty table or column name

	// Query errors (E110-E119)
	ErrQueryInvalid   = "E110" // query does not fit the model
	ErrUnknownModel   = "E111" // query names a model that is not defined
	ErrAmbiguousModel = "E112" // query omits its model and several exist
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateModel checks a compiled model against r.
// Returns all errors found (does not fail-fast).
func ValidateModel(m *ir.Model, r ir.ConverterResolver) []ValidationError {
	var errs []ValidationError

	if len(m.Entities) == 0 {
		errs = append(errs, ValidationError{
			Field:   "entity",
			Message: fmt.Sprintf("model %q declares no entities", m.Name),
			Code:    ErrModelNoEntities,
		})
	}

	entityNames := make(map[string]bool)
	tableNames := make(map[string]string)

	for _, e := range m.Entities {
		prefix := "entity." + e.Name

		// E105: duplicate entity or table
		if entityNames[e.Name] {
			errs = append(errs, ValidationError{
				Field:   prefix,
				Message: fmt.Sprintf("duplicate entity name: %q", e.Name),
				Code:    ErrDuplicateName,
			})
		}
		entityNames[e.Name] = true

		if strings.TrimSpace(e.Table) == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".table",
				Message: "table name must be non-empty",
				Code:    ErrEmptyName,
			})
		} else if other, ok := tableNames[e.Table]; ok {
			errs = append(errs, ValidationError{
				Field:   prefix + ".table",
				Message: fmt.Sprintf("table %q is also used by entity %s", e.Table, other),
				Code:    ErrDuplicateName,
			})
		} else {
			tableNames[e.Table] = e.Name
		}

		if len(e.Properties) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".property",
				Message: fmt.Sprintf("entity %s declares no properties", e.Name),
				Code:    ErrEntityNoProperties,
			})
		}

		errs = append(errs, validateProperties(prefix, e, r)...)

		// E103/E108: the key orders every query, so it must exist and be non-null
		key, ok := e.Property(e.Key)
		switch {
		case !ok:
			errs = append(errs, ValidationError{
				Field:   prefix + ".key",
				Message: fmt.Sprintf("key %q is not a property of %s", e.Key, e.Name),
				Code:    ErrKeyNotDeclared,
			})
		case key.Nullable:
			errs = append(errs, ValidationError{
				Field:   prefix + ".key",
				Message: fmt.Sprintf("key %q must not be nullable", e.Key),
				Code:    ErrNullableKey,
			})
		}
	}

	return errs
}

func validateProperties(prefix string, e ir.EntitySpec, r ir.ConverterResolver) []ValidationError {
	var errs []ValidationError
	propNames := make(map[string]bool)
	columns := make(map[string]string)

	for _, p := range e.Properties {
		field := prefix + ".property." + p.Name

		if propNames[p.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate property name: %q", p.Name),
				Code:    ErrDuplicateName,
			})
		}
		propNames[p.Name] = true

		if strings.TrimSpace(p.Column) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".column",
				Message: "column name must be non-empty",
				Code:    ErrEmptyName,
			})
		} else if other, ok := columns[p.Column]; ok {
			errs = append(errs, ValidationError{
				Field:   field + ".column",
				Message: fmt.Sprintf("column %q is also used by property %s", p.Column, other),
				Code:    ErrDuplicateName,
			})
		} else {
			columns[p.Column] = p.Name
		}

		if p.Type == ir.TypeUnknown {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("property %q has no type", p.Name),
				Code:    ErrInvalidFieldType,
			})
		}

		if p.Converter == "" {
			continue
		}
		conv, ok := lookup(r, p.Converter)
		if !ok {
			errs = append(errs, ValidationError{
				Field:   field + ".converter",
				Message: fmt.Sprintf("unknown converter %q", p.Converter),
				Code:    ErrUnknownConverter,
			})
			continue
		}
		if conv.ModelType() != p.Type {
			errs = append(errs, ValidationError{
				Field:   field + ".converter",
				Message: fmt.Sprintf("converter %q expects %s, property is %s", p.Converter, conv.ModelType(), p.Type),
				Code:    ErrConverterType,
			})
		}
	}
	return errs
}

func lookup(r ir.ConverterResolver, name string) (ir.ValueConverter, bool) {
	if r == nil {
		return nil, false
	}
	return r.Lookup(name)
}

// ValidateQuery reports every way q does not fit m, one error per
// queryir warning.
func ValidateQuery(name string, q queryir.Query, m *ir.Model) []ValidationError {
	result := queryir.Validate(q, m)
	errs := make([]ValidationError, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		errs = append(errs, ValidationError{
			Field:   "query." + name,
			Message: w,
			Code:    ErrQueryInvalid,
		})
	}
	return errs
}
