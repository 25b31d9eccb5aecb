package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidArgument, http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrNotImplemented, http.StatusNotImplemented},
		{ErrDataStore, http.StatusInternalServerError},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), "error: %v", c.err)
	}
}

func TestHTTPStatusWrapped(t *testing.T) {
	err := fmt.Errorf("fetching owner 42: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))

	err = fmt.Errorf("page must be positive: %w", ErrInvalidArgument)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}
