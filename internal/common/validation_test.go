package common

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("name", "  ", Required).
		Field("upload_id", "not-a-uuid", UUID).
		Field("ok_id", uuid.NewString(), Required, UUID).
		Field("note", "abcdef", MaxLength(3)).
		Field("workers", 0, Positive).
		Field("addr", "localhost", ListenAddr)

	assert.True(t, v.HasErrors())
	assert.Equal(t, 5, strings.Count(v.ErrorMessage(), "validation failed for field"))
	assert.True(t, IsValidationError(v.Error()))
	assert.NotContains(t, v.ErrorMessage(), "ok_id")
}

func TestValidator_NoErrors(t *testing.T) {
	v := NewValidator().
		Field("addr", ":8080", Required, ListenAddr).
		Field("size", int64(10), Positive)
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Error())
	assert.Empty(t, v.ErrorMessage())
}
