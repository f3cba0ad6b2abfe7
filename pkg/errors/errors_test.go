package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "ValidationFailed",
			code:    ValidationFailed,
			message: "validation failed",
		},
		{
			name:    "InsufficientSurvivors",
			code:    InsufficientSurvivors,
			message: "fewer than two gate-passing candidates",
		},
		{
			name:    "UnknownReference",
			code:    UnknownReference,
			message: "parent candidate not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("original error")

	err := Wrap(originalErr, ValidationFailed, "validation context")
	require.Error(t, err)

	var customErr *Error
	require.True(t, stderrors.As(err, &customErr))
	assert.Equal(t, ValidationFailed, customErr.Code())
	assert.Equal(t, originalErr, customErr.Unwrap())

	assert.Nil(t, Wrap(nil, ValidationFailed, "no-op"))
}

func TestWithFields(t *testing.T) {
	err := New(UnknownReference, "parent candidate not found")
	err = WithFields(err, Fields{"candidate": "gen1-cand0", "parent": "gen0-cand2"})

	var customErr *Error
	require.True(t, stderrors.As(err, &customErr))
	assert.Equal(t, UnknownReference, customErr.Code())
	assert.Equal(t, "gen0-cand2", customErr.Fields()["parent"])
	assert.Contains(t, err.Error(), "parent candidate not found")
}

func TestCodeHelpers(t *testing.T) {
	assert.True(t, IsValidation(New(ValidationFailed, "bad metric")))
	assert.True(t, IsValidation(New(InvalidInput, "bad input")))
	assert.False(t, IsValidation(New(InsufficientSurvivors, "dead end")))

	assert.True(t, IsInsufficientSurvivors(New(InsufficientSurvivors, "dead end")))
	assert.True(t, IsUnknownReference(New(UnknownReference, "missing parent")))

	// CodeOf reports the outermost structured code.
	wrapped := Wrap(New(InsufficientSurvivors, "dead end"), Unknown, "outer")
	assert.Equal(t, Unknown, CodeOf(wrapped))

	assert.Equal(t, Unknown, CodeOf(stderrors.New("plain")))
}

func TestErrorIsMatching(t *testing.T) {
	err1 := New(ValidationFailed, "first")
	err2 := New(ValidationFailed, "second")
	err3 := New(UnknownReference, "third")

	assert.True(t, stderrors.Is(err1, err2))
	assert.False(t, stderrors.Is(err1, err3))
}
