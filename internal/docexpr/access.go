package docexpr

import "github.com/roach88/vcomp/internal/ir"

// RootReferenceExpression is the container alias every access path starts from.
type RootReferenceExpression struct {
	Entity string
	Alias  string
}

func (*RootReferenceExpression) Kind() Kind      { return KindRootReference }
func (*RootReferenceExpression) expressionNode() {}

// ObjectAccessExpression navigates into an embedded object: access["name"].
type ObjectAccessExpression struct {
	Access Expression
	Name   string
}

func (*ObjectAccessExpression) Kind() Kind      { return KindObjectAccess }
func (*ObjectAccessExpression) expressionNode() {}

// Update returns o if access is unchanged.
func (o *ObjectAccessExpression) Update(access Expression) *ObjectAccessExpression {
	if access == o.Access {
		return o
	}
	return &ObjectAccessExpression{Access: access, Name: o.Name}
}

// KeyAccessExpression reads a scalar property: access["name"].
// It is the boolean leaf of this dialect.
type KeyAccessExpression struct {
	Access  Expression
	Name    string
	Mapping *ir.TypeMapping
}

func (*KeyAccessExpression) Kind() Kind                     { return KindKeyAccess }
func (*KeyAccessExpression) expressionNode()                {}
func (*KeyAccessExpression) sqlNode()                       {}
func (k *KeyAccessExpression) TypeMapping() *ir.TypeMapping { return k.Mapping }

// Update returns k if access is unchanged.
func (k *KeyAccessExpression) Update(access Expression) *KeyAccessExpression {
	if access == k.Access {
		return k
	}
	return &KeyAccessExpression{Access: access, Name: k.Name, Mapping: k.Mapping}
}

// EntityProjectionExpression projects a whole entity reached through access.
type EntityProjectionExpression struct {
	Access Expression
	Entity string
}

func (*EntityProjectionExpression) Kind() Kind      { return KindEntityProjection }
func (*EntityProjectionExpression) expressionNode() {}

// Update returns e if access is unchanged.
func (e *EntityProjectionExpression) Update(access Expression) *EntityProjectionExpression {
	if access == e.Access {
		return e
	}
	return &EntityProjectionExpression{Access: access, Entity: e.Entity}
}

// ObjectArrayProjectionExpression projects an embedded array of owned
// entities. InnerProjection describes each element.
type ObjectArrayProjectionExpression struct {
	Access          Expression
	Name            string
	InnerProjection *EntityProjectionExpression
}

func (*ObjectArrayProjectionExpression) Kind() Kind      { return KindObjectArrayProjection }
func (*ObjectArrayProjectionExpression) expressionNode() {}

// Update returns a if access and the inner projection are unchanged.
func (a *ObjectArrayProjectionExpression) Update(access Expression, inner *EntityProjectionExpression) *ObjectArrayProjectionExpression {
	if access == a.Access && inner == a.InnerProjection {
		return a
	}
	return &ObjectArrayProjectionExpression{Access: access, Name: a.Name, InnerProjection: inner}
}
