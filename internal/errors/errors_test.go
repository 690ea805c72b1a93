package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, ErrCodeUnavailable, "lead store unavailable")

	assert.Equal(t, "lead store unavailable: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsUnavailable(fmt.Errorf("outer: %w", err)))
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	assert.Equal(t, "plain", Validation("plain").Error())
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{NotFound("x"), IsNotFound},
		{Conflict("x"), IsConflict},
		{Validation("x"), IsValidation},
		{Unavailable("x"), IsUnavailable},
		{New(ErrCodeTimeout, "x"), IsTimeout},
		{New(ErrCodeCanceled, "x"), IsCanceled},
	}
	for _, tt := range tests {
		assert.True(t, tt.check(tt.err), "code %s", GetCode(tt.err))
		assert.False(t, tt.check(errors.New("plain")))
	}
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeInternal, GetCode(Internal("boom")))
}

func TestValidationFields(t *testing.T) {
	fields := map[string]string{"firstName": "First name is required"}
	err := ValidationFields("Please fix the highlighted fields.", fields)
	fields["lastName"] = "mutated after construction"

	assert.Equal(t, map[string]string{"firstName": "First name is required"}, GetFields(err))
	assert.Equal(t, map[string]string{"email": "bad"}, GetFields(ValidationField("email", "bad")))

	single := &AppError{Code: ErrCodeValidation, Message: "bad", Field: "email"}
	assert.Equal(t, map[string]string{"email": "bad"}, GetFields(single))
	assert.Nil(t, GetFields(errors.New("plain")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "taken", PublicMessage(Conflict("taken"), "fallback"))
	assert.Equal(t, "fallback", PublicMessage(errors.New("secret detail"), "fallback"))
}
