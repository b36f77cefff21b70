// Package ir provides the shared metadata types for vcomp.
//
// This package contains value and type-descriptor definitions only. Every
// other internal package imports ir; ir imports nothing internal, so the
// node catalogues (sqlexpr, docexpr), the compensator and the serializers
// all agree on one definition of a logical type, a value converter and an
// operator.
//
// Key design constraints:
//   - NO float types anywhere - literal values are IRValue (string/int/bool)
//   - A TypeMapping is immutable once attached to a node
//   - A nil Converter means the physical and logical representations agree
package ir
