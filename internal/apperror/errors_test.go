package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Status())
		})
	}
}

func TestErrorsIs(t *testing.T) {
	err := fmt.Errorf("login: %w", Unauthorized("Invalid credentials"))

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, Unauthorized("Invalid credentials")))
	assert.False(t, errors.Is(err, Unauthorized("Unauthorized")))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFrom(t *testing.T) {
	nf := NotFound("Task not found")
	assert.Same(t, nf, From(fmt.Errorf("wrap: %w", nf)))

	cause := errors.New("db down")
	got := From(cause)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "Something went wrong", got.Message)
	assert.ErrorIs(t, got, cause)
}
