// Package compensate rewrites boolean leaves whose storage has been
// remapped by a value converter.
//
// A property declared bool but stored as 'Y'/'N' (or 1/0, or "true"/"false")
// cannot be used bare where the engine expects a truth value: WHERE active
// would test a string. The compensator finds every such leaf that sits in a
// predicate position and is not already an operand of = or <>, and replaces
// it with leaf = true, where the constant carries the leaf's own type
// mapping so the serializer encodes it exactly like any other value of that
// column.
//
// Two entry points share one algorithm:
//
//	NewRelational(factory).Compensate(tree)  // sqlexpr trees
//	NewDocument(factory).Compensate(tree)    // docexpr trees
//
// Positions are tracked with a scope value passed down each call; nothing
// is stored on the Compensator, so one instance can serve concurrent calls.
//
// Trees are never mutated. A node is rebuilt only when one of its children
// changed, and unchanged subtrees are returned by reference.
package compensate
