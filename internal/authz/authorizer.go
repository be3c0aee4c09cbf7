// Package authz gates mutating operations. There is exactly one privileged
// identity; no role hierarchy, no delegation.
package authz

import "dialbook/internal/domain"

// Authorizer answers whether an identity may mutate or export the directory.
// It is pure and makes no external calls.
type Authorizer struct {
	owner domain.Identity
}

// New constructs an Authorizer for the configured owner identity.
func New(owner domain.Identity) *Authorizer {
	return &Authorizer{owner: owner}
}

// CanMutate reports whether the identity is the configured owner.
func (a *Authorizer) CanMutate(identity domain.Identity) bool {
	return identity == a.owner
}
