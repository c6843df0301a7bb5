package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Message(t *testing.T) {
	err := NewInternalError("save run", fmt.Errorf("boom"))
	assert.Equal(t, "INTERNAL: save run: boom", err.Error())

	err = NewValidationErrorf("line %d: bad rank %q", 3, "x")
	assert.Equal(t, `VALIDATION: line 3: bad rank "x"`, err.Error())
}

func TestIsType_Wrapped(t *testing.T) {
	base := NewNotFoundError("headword missing")
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsType(wrapped, ErrorTypeValidation))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeNotFound))
}
