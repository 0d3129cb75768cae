package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-rateb/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps code and status", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "Run is already locked", http.StatusConflict)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, apperror.CodeConflict, httpErr.Code)
		assert.Equal(t, "Run is already locked", httpErr.Message)
		assert.Nil(t, httpErr.Details)
	})

	t.Run("details survive the mapping", func(t *testing.T) {
		fields := []string{"base_salary", "hire_date"}
		err := apperror.ErrInvalidInput.WithDetails(fields)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, apperror.CodeInvalidInput, httpErr.Code)
		assert.Equal(t, fields, httpErr.Details)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("handling request: %w", apperror.ErrNotFound)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
	})

	t.Run("unknown error becomes opaque 500", func(t *testing.T) {
		err := errors.New("pq: connection reset by peer")

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.Equal(t, apperror.ErrInternal.Message, httpErr.Message)
		assert.NotContains(t, httpErr.Message, "pq:")
	})
}
