package fault

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.OrNil())

	v.Add("price", "must be greater than 0").Add("slug", "may only contain a-z, 0-9 and hyphens")
	assert.True(t, v.HasErrors())
	assert.Error(t, v.OrNil())
	assert.Contains(t, v.Error(), "price: must be greater than 0")
	assert.Contains(t, v.Error(), "slug")
}

func TestTaxonomyPredicates(t *testing.T) {
	assert.True(t, IsConflict(Conflict("user", "username already exists")))
	assert.True(t, IsNotFound(NotFound("product", 42)))
	assert.True(t, IsValidation((&ValidationError{}).Add("rating", "must be 1-5")))

	plain := fmt.Errorf("connection refused")
	assert.False(t, IsConflict(plain))
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsValidation(plain))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create user: %w", Conflict("user", "email already exists"))
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))

	err = fmt.Errorf("load order: %w", NotFound("order", 9))
	assert.True(t, IsNotFound(err))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "product not found: 42", NotFound("product", 42).Error())
	assert.Equal(t, "user not found", NotFound("user", 0).Error())
}
