// Package querysql renders expression trees to parameterized query text.
//
// SQLCompiler emits SQLite SQL with ? placeholders for sqlexpr trees.
// DocumentCompiler emits document SQL with @pN parameters for docexpr
// trees. Neither interpolates values: every constant and parameter is
// bound, after passing through its node's type mapping, so a converted
// boolean constant is sent as 'Y' rather than true.
package querysql
