package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewNotFound("patient", nil))

	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "patient not found", NewNotFound("patient", nil).Error())

	assert.True(t, IsBadRequest(NewBadRequest("name is required", nil)))
	assert.Equal(t, ErrForbidden, CodeOf(NewForbidden("no")))
	assert.Equal(t, ErrInternal, CodeOf(context.Canceled))
	assert.False(t, IsNotFound(nil))
}

func TestNewInternal_HidesCause(t *testing.T) {
	err := NewInternal(fmt.Errorf("panic: boom"))

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorContains(t, err, "boom")
}
