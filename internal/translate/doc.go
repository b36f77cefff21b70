// Package translate turns a queryir.Query into a relational or document
// expression tree.
//
// The translator resolves entity and property names against an ir.Model
// and attaches each property's type mapping, converter included, to the
// leaf it produces. It does not compensate: Truth{Field: "active"} becomes
// a bare column or key access even when active is stored as 'Y'/'N'.
// Running compensate over the result is the caller's job.
//
// Relational trees alias each entity occurrence t0, t1, ... in the order
// it is reached. Document trees read a single container aliased c.
// Queries with no ordering are ordered by the entity key.
package translate
