// Package docexpr is the document-store node catalogue: the tree a query
// becomes when the target is a JSON document container rather than a
// relational table.
//
// Properties are reached through key accessors rooted at a single
// container alias (c["active"]); nested objects and arrays add object and
// object-array accessors. The node set is sealed the same way as sqlexpr:
// every node type lives here and implements an unexported marker method.
package docexpr
