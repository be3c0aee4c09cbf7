package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dialbook/internal/domain"
)

func TestCanMutate(t *testing.T) {
	a := New(domain.Identity(42))

	assert.True(t, a.CanMutate(domain.Identity(42)))
	assert.False(t, a.CanMutate(domain.Identity(43)))
	assert.False(t, a.CanMutate(domain.Identity(0)))
	assert.False(t, a.CanMutate(domain.Identity(-42)))
}
