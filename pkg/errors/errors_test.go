package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := New(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())

	wrapped := Wrap(ErrCodeBackend, "fetch failed", fmt.Errorf("boom"))
	assert.Equal(t, "[BACKEND_ERROR] fetch failed: boom", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(ErrCodeParse, "parse failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_Is(t *testing.T) {
	err := NotFoundError("document", "config.yml")
	assert.True(t, Is(err, ErrCodeNotFound))
	assert.False(t, Is(err, ErrCodeValidation))
	assert.False(t, Is(fmt.Errorf("plain"), ErrCodeNotFound))
}

func TestTypeConflictError_Details(t *testing.T) {
	err := TypeConflictError("a.b", "int", "sequence")
	require.Contains(t, err.Error(), "a.b")
	assert.Equal(t, "int", err.Details["base_kind"])
	assert.Equal(t, "sequence", err.Details["overlay_kind"])
}

func TestError_WithDetail(t *testing.T) {
	err := New(ErrCodeBackend, "x").WithDetail("scheme", "s3")
	assert.Equal(t, "s3", err.Details["scheme"])
}
