// Package queryir is the portable query representation the translator
// consumes. Queries name entities and properties of an ir.Model, never
// tables or columns; the translator resolves names and attaches type
// mappings.
//
//	[CUE query] -> [queryir.Query] -> translate -> [sqlexpr | docexpr]
//
// Query and Predicate are sealed interfaces using the marker method
// pattern. Every type is usable as a value or a pointer; Deref and
// DerefPredicate normalise to values.
//
// FIELD NAMES:
//
// A field is "prop" (a property of the query's own entity) or
// "Entity.prop" (a property of another entity in scope: the other side of
// a join, or the outer query of an Exists).
//
// BOOLEAN PREDICATES:
//
// Truth{Field} uses a boolean property as a condition on its own:
//
//	Select{From: "Customer", Filter: Truth{Field: "active"}}
//
// is WHERE active. When active is stored through a converter this is
// exactly the shape that needs compensation.
package queryir
