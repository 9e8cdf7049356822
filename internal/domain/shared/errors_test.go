package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches freshly constructed errors by code", func(t *testing.T) {
		err := NewDomainError(ErrNotFound.Code, "invoice abc not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrInvalidState))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading invoice: %w", NewDomainError(ErrNotFound.Code, "not found"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("non-domain errors never match", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("NOT_FOUND"), ErrNotFound))
	})
}

func TestIsNotFound(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrNotFound))
	})

	t.Run("repository-produced value", func(t *testing.T) {
		err := NewDomainError(ErrNotFound.Code, "purchase order xyz not found")
		assert.True(t, IsNotFound(err))
	})

	t.Run("other codes and nil", func(t *testing.T) {
		assert.False(t, IsNotFound(ErrDuplicateIdentifier))
		assert.False(t, IsNotFound(nil))
	})
}

func TestCollisionHelpers(t *testing.T) {
	assert.True(t, IsRetryableCollision(NewDomainError(ErrIdentifierCollision.Code, "exhausted")))
	assert.False(t, IsRetryableCollision(ErrDuplicateIdentifier))
	assert.True(t, IsDuplicateIdentifier(NewDomainError(ErrDuplicateIdentifier.Code, "taken")))
	assert.False(t, IsDuplicateIdentifier(ErrIdentifierCollision))
}
