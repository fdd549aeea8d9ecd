package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsDefaultCodes(t *testing.T) {
	cases := []struct {
		err    *HTTPError
		status int
		code   string
	}{
		{NewUnauthorizedError("x", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{NewForbiddenError("x", false), http.StatusForbidden, "FORBIDDEN"},
		{NewBadRequestError("x", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{NewNotFoundError("x", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{NewConflictError("x", false, nil), http.StatusConflict, "CONFLICT"},
		{NewTooManyRequestsError("x"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, tc.code, tc.err.Code)
		})
	}
}

func TestCustomCode(t *testing.T) {
	code := "RECIPE_NOT_FOUND"
	err := NewNotFoundError("recipe not found", true, &code)

	assert.Equal(t, "RECIPE_NOT_FOUND", err.Code)
	assert.Equal(t, "recipe not found", err.Error())
	assert.True(t, err.Override)
}

func TestIsMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewConflictError("dup", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	base := NewBadRequestError("old", false, nil, []FieldError{{Field: "title", Error: "is required"}}, nil)
	changed := base.WithMessage("new")

	assert.Equal(t, "old", base.Message)
	assert.Equal(t, "new", changed.Message)
	assert.Equal(t, base.Errors, changed.Errors)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("title is required"))
	assert.Equal(t, "Validation failed: title is required", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}
